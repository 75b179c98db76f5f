package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
)

// OpenCashCutRequest body para POST /api/cash/cuts/open.
type OpenCashCutRequest struct {
	WarehouseID   string          `json:"warehouse_id" validate:"required,uuid"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
	CutDate       *time.Time      `json:"cut_date,omitempty"`
}

// CloseCashCutRequest body para POST /api/cash/cuts/{id}/close.
type CloseCashCutRequest struct {
	ActualFinal  decimal.Decimal `json:"actual_final"`
	Observations string          `json:"observations"`
}

// RegisterCashMovementRequest body para POST /api/cash/movements.
type RegisterCashMovementRequest struct {
	WarehouseID   string          `json:"warehouse_id" validate:"required,uuid"`
	MovementType  string          `json:"movement_type" validate:"required,oneof=inbound outbound"`
	Concept       string          `json:"concept" validate:"required,oneof=sale expense adjustment initial_fund"`
	Amount        decimal.Decimal `json:"amount"`
	ReferenceID   string          `json:"reference_id"`
	ReferenceType string          `json:"reference_type"`
	Notes         string          `json:"notes"`
}

// CashCutResponse salida de un corte de caja.
type CashCutResponse struct {
	ID               string           `json:"id"`
	WarehouseID      string           `json:"warehouse_id"`
	UserID           string           `json:"user_id"`
	CutDate          time.Time        `json:"cut_date"`
	OpeningTime      time.Time        `json:"opening_time"`
	ClosingTime      *time.Time       `json:"closing_time,omitempty"`
	InitialAmount    decimal.Decimal  `json:"initial_amount"`
	CashSales        decimal.Decimal  `json:"cash_sales"`
	CardSales        decimal.Decimal  `json:"card_sales"`
	TransferSales    decimal.Decimal  `json:"transfer_sales"`
	TotalSales       decimal.Decimal  `json:"total_sales"`
	TotalExpenses    decimal.Decimal  `json:"total_expenses"`
	ExpectedFinal    decimal.Decimal  `json:"expected_final"`
	ActualFinal      *decimal.Decimal `json:"actual_final,omitempty"`
	Difference       *decimal.Decimal `json:"difference,omitempty"`
	TransactionCount int              `json:"transaction_count"`
	AverageTicket    *decimal.Decimal `json:"average_ticket,omitempty"`
	Status           string           `json:"status"`
	Notes            string           `json:"notes,omitempty"`
}

// CashMovementResponse entrada del libro de caja.
type CashMovementResponse struct {
	ID            string          `json:"id"`
	WarehouseID   string          `json:"warehouse_id"`
	CashCutID     string          `json:"cash_cut_id,omitempty"`
	MovementType  string          `json:"movement_type"`
	Concept       string          `json:"concept"`
	Amount        decimal.Decimal `json:"amount"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	UserID        string          `json:"user_id"`
	MovementDate  time.Time       `json:"movement_date"`
	Notes         string          `json:"notes,omitempty"`
}

// CashSummaryResponse resumen de caja del día.
type CashSummaryResponse struct {
	CurrentCut     *CashCutResponse   `json:"current_cut,omitempty"`
	TotalInbound   decimal.Decimal    `json:"total_inbound"`
	TotalOutbound  decimal.Decimal    `json:"total_outbound"`
	CurrentBalance decimal.Decimal    `json:"current_balance"`
	DailySales     DailySalesResponse `json:"daily_sales"`
	MovementsCount int                `json:"movements_count"`
}

// CreateExpenseRequest body para POST /api/expenses.
type CreateExpenseRequest struct {
	WarehouseID   string          `json:"warehouse_id" validate:"required,uuid"`
	Category      string          `json:"category"`
	Description   string          `json:"description" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	ReceiptNumber string          `json:"receipt_number"`
	Supplier      string          `json:"supplier"`
	Notes         string          `json:"notes"`
}

// RejectExpenseRequest body para reject.
type RejectExpenseRequest struct {
	Reason string `json:"reason"`
}

// ExpenseResponse salida de un gasto operativo.
type ExpenseResponse struct {
	ID            string          `json:"id"`
	WarehouseID   string          `json:"warehouse_id"`
	Category      string          `json:"category,omitempty"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	ExpenseDate   time.Time       `json:"expense_date"`
	UserID        string          `json:"user_id"`
	ReceiptNumber string          `json:"receipt_number,omitempty"`
	Supplier      string          `json:"supplier,omitempty"`
	Status        string          `json:"status"`
	ApprovedBy    string          `json:"approved_by,omitempty"`
	ApprovalDate  *time.Time      `json:"approval_date,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// NewCashCutResponse convierte la entidad a respuesta.
func NewCashCutResponse(c *entity.CashCut) CashCutResponse {
	return CashCutResponse{
		ID:               c.ID,
		WarehouseID:      c.WarehouseID,
		UserID:           c.UserID,
		CutDate:          c.CutDate,
		OpeningTime:      c.OpeningTime,
		ClosingTime:      c.ClosingTime,
		InitialAmount:    c.InitialAmount,
		CashSales:        c.CashSales,
		CardSales:        c.CardSales,
		TransferSales:    c.TransferSales,
		TotalSales:       c.TotalSales,
		TotalExpenses:    c.TotalExpenses,
		ExpectedFinal:    c.ExpectedFinal,
		ActualFinal:      c.ActualFinal,
		Difference:       c.Difference,
		TransactionCount: c.TransactionCount,
		AverageTicket:    c.AverageTicket,
		Status:           c.Status,
		Notes:            c.Notes,
	}
}

// NewCashMovementResponse convierte la entidad a respuesta.
func NewCashMovementResponse(m *entity.CashMovement) CashMovementResponse {
	return CashMovementResponse{
		ID:            m.ID,
		WarehouseID:   m.WarehouseID,
		CashCutID:     m.CashCutID,
		MovementType:  m.MovementType,
		Concept:       m.Concept,
		Amount:        m.Amount,
		ReferenceID:   m.ReferenceID,
		ReferenceType: m.ReferenceType,
		UserID:        m.UserID,
		MovementDate:  m.MovementDate,
		Notes:         m.Notes,
	}
}

// NewExpenseResponse convierte la entidad a respuesta.
func NewExpenseResponse(e *entity.OperationalExpense) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		WarehouseID:   e.WarehouseID,
		Category:      e.Category,
		Description:   e.Description,
		Amount:        e.Amount,
		ExpenseDate:   e.ExpenseDate,
		UserID:        e.UserID,
		ReceiptNumber: e.ReceiptNumber,
		Supplier:      e.Supplier,
		Status:        e.Status,
		ApprovedBy:    e.ApprovedBy,
		ApprovalDate:  e.ApprovalDate,
		Notes:         e.Notes,
	}
}
