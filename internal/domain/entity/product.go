package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (multi-bodega).
// El stock por bodega vive en StockBalance, nunca aquí.
type Product struct {
	ID           string
	Code         string // código único
	Name         string
	Description  string
	CategoryID   string
	Price        decimal.Decimal // precio de venta
	Cost         decimal.Decimal // costo unitario
	MinimumStock *decimal.Decimal
	UnitMeasure  string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
