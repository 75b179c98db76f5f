package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
)

// UpdateStockRequest body para POST /api/inventory/movements.
// Para type=adjustment, quantity es el nuevo saldo absoluto, no un delta.
type UpdateStockRequest struct {
	WarehouseID  string           `json:"warehouse_id" validate:"required,uuid"`
	ProductID    string           `json:"product_id" validate:"required,uuid"`
	MovementType string           `json:"movement_type" validate:"required,oneof=inbound outbound adjustment"`
	Quantity     decimal.Decimal  `json:"quantity"`
	Reason       string           `json:"reason"`
	UnitCost     *decimal.Decimal `json:"unit_cost,omitempty"`
}

// StockBalanceResponse saldo de un par bodega×producto.
type StockBalanceResponse struct {
	WarehouseID     string          `json:"warehouse_id"`
	ProductID       string          `json:"product_id"`
	Available       decimal.Decimal `json:"available"`
	Reserved        decimal.Decimal `json:"reserved"`
	OutboundTransit decimal.Decimal `json:"outbound_transit"`
	InboundTransit  decimal.Decimal `json:"inbound_transit"`
	Total           decimal.Decimal `json:"total"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// StockMovementResponse entrada del historial de movimientos.
type StockMovementResponse struct {
	ID               string           `json:"id"`
	WarehouseID      string           `json:"warehouse_id"`
	ProductID        string           `json:"product_id"`
	MovementType     string           `json:"movement_type"`
	Quantity         decimal.Decimal  `json:"quantity"`
	PreviousQuantity decimal.Decimal  `json:"previous_quantity"`
	NewQuantity      decimal.Decimal  `json:"new_quantity"`
	UserID           string           `json:"user_id"`
	ReferenceID      string           `json:"reference_id,omitempty"`
	ReferenceType    string           `json:"reference_type,omitempty"`
	Reason           string           `json:"reason,omitempty"`
	UnitCost         *decimal.Decimal `json:"unit_cost,omitempty"`
	TotalValue       *decimal.Decimal `json:"total_value,omitempty"`
	MovementDate     time.Time        `json:"movement_date"`
}

// StockListResponse lista paginada de saldos.
type StockListResponse struct {
	Items []StockBalanceResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// NewStockBalanceResponse convierte la entidad a respuesta.
func NewStockBalanceResponse(b *entity.StockBalance) StockBalanceResponse {
	return StockBalanceResponse{
		WarehouseID:     b.WarehouseID,
		ProductID:       b.ProductID,
		Available:       b.Available,
		Reserved:        b.Reserved,
		OutboundTransit: b.OutboundTransit,
		InboundTransit:  b.InboundTransit,
		Total:           b.Total(),
		UpdatedAt:       b.UpdatedAt,
	}
}

// NewStockMovementResponse convierte la entidad a respuesta.
func NewStockMovementResponse(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:               m.ID,
		WarehouseID:      m.WarehouseID,
		ProductID:        m.ProductID,
		MovementType:     m.MovementType,
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		UserID:           m.UserID,
		ReferenceID:      m.ReferenceID,
		ReferenceType:    m.ReferenceType,
		Reason:           m.Reason,
		UnitCost:         m.UnitCost,
		TotalValue:       m.TotalValue,
		MovementDate:     m.MovementDate,
	}
}
