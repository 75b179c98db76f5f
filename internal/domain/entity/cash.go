package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un corte de caja. A lo sumo un corte open por bodega
// (constraint parcial en BD).
const (
	CashCutOpen   = "open"
	CashCutClosed = "closed"
)

// Tipos y conceptos de movimiento de caja.
const (
	CashInbound  = "inbound"
	CashOutbound = "outbound"

	ConceptSale        = "sale"
	ConceptExpense     = "expense"
	ConceptAdjustment  = "adjustment"
	ConceptInitialFund = "initial_fund"
)

// CashCut es una sesión de caja acotada (apertura → cierre).
// ExpectedFinal = inicial + ventas − gastos; Difference = real − esperado
// (positivo = sobrante, negativo = faltante).
type CashCut struct {
	ID               string
	WarehouseID      string
	UserID           string
	CutDate          time.Time
	OpeningTime      time.Time
	ClosingTime      *time.Time
	InitialAmount    decimal.Decimal
	CashSales        decimal.Decimal
	CardSales        decimal.Decimal
	TransferSales    decimal.Decimal
	TotalSales       decimal.Decimal
	TotalExpenses    decimal.Decimal
	ExpectedFinal    decimal.Decimal
	ActualFinal      *decimal.Decimal
	Difference       *decimal.Decimal
	TransactionCount int
	AverageTicket    *decimal.Decimal
	Status           string
	Notes            string
}

// CashMovement es una entrada inmutable del libro de caja, ligada opcionalmente
// al corte abierto en su momento (puede existir sin corte).
type CashMovement struct {
	ID            string
	WarehouseID   string
	CashCutID     string // vacío si no había corte abierto
	MovementType  string // inbound/outbound
	Concept       string // sale/expense/adjustment/initial_fund
	Amount        decimal.Decimal
	ReferenceID   string
	ReferenceType string
	UserID        string
	MovementDate  time.Time
	Notes         string
}
