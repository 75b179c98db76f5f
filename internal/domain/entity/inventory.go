package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementInbound          = "inbound"           // entrada
	MovementOutbound         = "outbound"          // salida
	MovementAdjustment       = "adjustment"        // ajuste (fija la cantidad absoluta)
	MovementTransferOutbound = "transfer_outbound" // salida por traslado
	MovementTransferInbound  = "transfer_inbound"  // entrada por traslado
)

// StockBalance representa el saldo actual de un producto en una bodega
// (una fila por par bodega×producto, constraint único en BD).
// Ningún campo puede quedar negativo: las escrituras que lo harían se rechazan.
type StockBalance struct {
	WarehouseID      string
	ProductID        string
	Available        decimal.Decimal
	Reserved         decimal.Decimal
	OutboundTransit  decimal.Decimal
	InboundTransit   decimal.Decimal
	UpdatedAt        time.Time
}

// Total es la cantidad total: disponible + reservada + en tránsito.
func (b *StockBalance) Total() decimal.Decimal {
	return b.Available.Add(b.Reserved).Add(b.OutboundTransit).Add(b.InboundTransit)
}

// StockMovement es el registro inmutable de un cambio de saldo (append-only).
// PreviousQuantity/NewQuantity se capturan en el momento de la escritura;
// el saldo podría reconstruirse plegando los movimientos.
type StockMovement struct {
	ID               string
	WarehouseID      string
	ProductID        string
	MovementType     string // inbound/outbound/adjustment/transfer_outbound/transfer_inbound
	Quantity         decimal.Decimal
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
	UserID           string
	ReferenceID      string // ID de venta, traslado o incidencia
	ReferenceType    string // sale/transfer/incident/cancelled_sale/cancelled_transfer
	Reason           string
	UnitCost         *decimal.Decimal
	TotalValue       *decimal.Decimal
	MovementDate     time.Time
}
