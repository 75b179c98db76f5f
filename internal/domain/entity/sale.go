package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. Las ventas se crean completed tras confirmar stock;
// pending no se usa en el flujo normal.
const (
	SalePending   = "pending"
	SaleCompleted = "completed"
	SaleCancelled = "cancelled"
)

// SaleDetail es una línea de venta con nombre/código de producto
// desnormalizados al momento de vender.
type SaleDetail struct {
	ProductID   string
	ProductCode string
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
}

// Sale representa una venta en una bodega.
type Sale struct {
	ID               string
	SaleNumber       string // VTA-XXXXXXXX, único
	WarehouseID      string
	CustomerID       string
	UserID           string
	PaymentMethodID  string
	Details          []SaleDetail
	Subtotal         decimal.Decimal
	Discount         decimal.Decimal
	Tax              decimal.Decimal
	Total            decimal.Decimal
	AmountReceived   *decimal.Decimal
	Change           *decimal.Decimal
	PaymentReference string
	Status           string
	Observations     string
	SaleDate         time.Time
}

// DailySalesReport agrega las ventas no canceladas de una bodega en un día.
type DailySalesReport struct {
	TotalSales      decimal.Decimal
	SalesCount      int
	AverageTicket   decimal.Decimal
	ByPaymentMethod map[string]decimal.Decimal // código de método de pago -> total
}
