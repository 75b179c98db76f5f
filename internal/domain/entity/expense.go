package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un gasto operativo.
const (
	ExpensePending  = "pending"
	ExpenseApproved = "approved"
	ExpenseRejected = "rejected"
)

// OperationalExpense representa un gasto de operación de una bodega.
// Al aprobarse registra un movimiento de caja outbound con concepto expense.
type OperationalExpense struct {
	ID            string
	WarehouseID   string
	Category      string
	Description   string
	Amount        decimal.Decimal
	ExpenseDate   time.Time
	UserID        string
	ReceiptNumber string
	Supplier      string
	Status        string
	ApprovedBy    string
	ApprovalDate  *time.Time
	Notes         string
}
