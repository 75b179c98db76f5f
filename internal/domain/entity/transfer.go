package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un traslado entre bodegas.
// Transiciones legales:
//
//	pending  --approve--> approved --dispatch--> in_transit --receive--> completed
//	pending  --reject---> rejected
//	{pending, approved, in_transit} --cancel--> cancelled
//
// completed, rejected y cancelled son terminales.
const (
	TransferPending   = "pending"
	TransferApproved  = "approved"
	TransferRejected  = "rejected"
	TransferInTransit = "in_transit"
	TransferCompleted = "completed"
	TransferCancelled = "cancelled"
)

// Estados del registro de mercancía en tránsito.
const (
	TransitPreparing     = "preparing"
	TransitInRoute       = "in_route"
	TransitAtDestination = "at_destination"
	TransitDelivered     = "delivered"
)

// TransferDetail es una línea de traslado. SentQuantity/ReceivedQuantity se
// fijan en dispatch/receive; Discrepancy = recibido − enviado, calculado solo
// al recibir y solo cuando difieren.
type TransferDetail struct {
	ProductID        string
	ProductCode      string // desnormalizado
	ProductName      string // desnormalizado
	RequestedQuantity decimal.Decimal
	SentQuantity     *decimal.Decimal
	ReceivedQuantity *decimal.Decimal
	TransitQuantity  decimal.Decimal
	Discrepancy      *decimal.Decimal
	DiscrepancyNote  string
}

// Transfer representa un traslado de mercancía entre dos bodegas distintas.
type Transfer struct {
	ID                     string
	TransferNumber         string // TRF-XXXXXXXX, único
	SourceWarehouseID      string
	DestinationWarehouseID string
	Status                 string
	Details                []TransferDetail
	RequestedByUserID      string
	ApprovedByUserID       string
	DispatchedByUserID     string
	ReceivedByUserID       string
	RequestDate            time.Time
	ApprovalDate           *time.Time
	DepartureDate          *time.Time
	EstimatedArrivalDate   *time.Time
	ActualArrivalDate      *time.Time
	CompletedDate          *time.Time
	Carrier                string
	TrackingNumber         string
	TransportCost          *decimal.Decimal
	Reason                 string
	Notes                  string
	Priority               string // low/normal/high/urgent
}

// GoodsInTransit es el registro de seguimiento creado al despachar un traslado.
type GoodsInTransit struct {
	ID              string
	TransferID      string
	TransitStatus   string // preparing/in_route/at_destination/delivered
	CurrentLocation string
	UpdatedBy       string
	UpdatedAt       time.Time
	Notes           string
}
