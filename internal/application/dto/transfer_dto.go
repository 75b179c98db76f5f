package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
)

// TransferLineRequest una línea solicitada.
type TransferLineRequest struct {
	ProductID         string          `json:"product_id" validate:"required,uuid"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	SourceWarehouseID      string                `json:"source_warehouse_id" validate:"required,uuid"`
	DestinationWarehouseID string                `json:"destination_warehouse_id" validate:"required,uuid"`
	Lines                  []TransferLineRequest `json:"lines" validate:"required,min=1"`
	EstimatedArrivalDate   *time.Time            `json:"estimated_arrival_date,omitempty"`
	Carrier                string                `json:"carrier"`
	Reason                 string                `json:"reason"`
	Notes                  string                `json:"notes"`
	Priority               string                `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

// ApproveTransferRequest body para approve/reject.
type ApproveTransferRequest struct {
	Observations string `json:"observations"`
}

// DispatchTransferRequest body para dispatch.
type DispatchTransferRequest struct {
	TransportGuide string           `json:"transport_guide"`
	TransportCost  *decimal.Decimal `json:"transport_cost,omitempty"`
	Observations   string           `json:"observations"`
}

// ReceiveLineRequest cantidad realmente recibida de una línea.
type ReceiveLineRequest struct {
	ProductID        string          `json:"product_id" validate:"required,uuid"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	Observation      string          `json:"observation"`
}

// ReceiveTransferRequest body para receive.
type ReceiveTransferRequest struct {
	Lines        []ReceiveLineRequest `json:"lines" validate:"required,min=1"`
	Observations string               `json:"observations"`
}

// CancelTransferRequest body para cancel.
type CancelTransferRequest struct {
	Reason string `json:"reason"`
}

// UpdateTransitRequest body para actualizar el seguimiento en ruta.
type UpdateTransitRequest struct {
	TransitStatus   string `json:"transit_status" validate:"required,oneof=preparing in_route at_destination"`
	CurrentLocation string `json:"current_location"`
	Notes           string `json:"notes"`
}

// TransitResponse salida del registro de mercancía en tránsito.
type TransitResponse struct {
	ID              string    `json:"id"`
	TransferID      string    `json:"transfer_id"`
	TransitStatus   string    `json:"transit_status"`
	CurrentLocation string    `json:"current_location,omitempty"`
	UpdatedBy       string    `json:"updated_by"`
	UpdatedAt       time.Time `json:"updated_at"`
	Notes           string    `json:"notes,omitempty"`
}

// NewTransitResponse convierte la entidad a respuesta.
func NewTransitResponse(tr *entity.GoodsInTransit) TransitResponse {
	return TransitResponse{
		ID:              tr.ID,
		TransferID:      tr.TransferID,
		TransitStatus:   tr.TransitStatus,
		CurrentLocation: tr.CurrentLocation,
		UpdatedBy:       tr.UpdatedBy,
		UpdatedAt:       tr.UpdatedAt,
		Notes:           tr.Notes,
	}
}

// TransferDetailResponse línea de traslado en respuestas.
type TransferDetailResponse struct {
	ProductID         string           `json:"product_id"`
	ProductCode       string           `json:"product_code"`
	ProductName       string           `json:"product_name"`
	RequestedQuantity decimal.Decimal  `json:"requested_quantity"`
	SentQuantity      *decimal.Decimal `json:"sent_quantity,omitempty"`
	ReceivedQuantity  *decimal.Decimal `json:"received_quantity,omitempty"`
	TransitQuantity   decimal.Decimal  `json:"transit_quantity"`
	Discrepancy       *decimal.Decimal `json:"discrepancy,omitempty"`
	DiscrepancyNote   string           `json:"discrepancy_note,omitempty"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID                     string                   `json:"id"`
	TransferNumber         string                   `json:"transfer_number"`
	SourceWarehouseID      string                   `json:"source_warehouse_id"`
	DestinationWarehouseID string                   `json:"destination_warehouse_id"`
	Status                 string                   `json:"status"`
	Details                []TransferDetailResponse `json:"details"`
	RequestedByUserID      string                   `json:"requested_by_user_id"`
	ApprovedByUserID       string                   `json:"approved_by_user_id,omitempty"`
	DispatchedByUserID     string                   `json:"dispatched_by_user_id,omitempty"`
	ReceivedByUserID       string                   `json:"received_by_user_id,omitempty"`
	RequestDate            time.Time                `json:"request_date"`
	ApprovalDate           *time.Time               `json:"approval_date,omitempty"`
	DepartureDate          *time.Time               `json:"departure_date,omitempty"`
	EstimatedArrivalDate   *time.Time               `json:"estimated_arrival_date,omitempty"`
	ActualArrivalDate      *time.Time               `json:"actual_arrival_date,omitempty"`
	CompletedDate          *time.Time               `json:"completed_date,omitempty"`
	Carrier                string                   `json:"carrier,omitempty"`
	TrackingNumber         string                   `json:"tracking_number,omitempty"`
	TransportCost          *decimal.Decimal         `json:"transport_cost,omitempty"`
	Reason                 string                   `json:"reason,omitempty"`
	Notes                  string                   `json:"notes,omitempty"`
	Priority               string                   `json:"priority"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// NewTransferResponse convierte la entidad a respuesta.
func NewTransferResponse(t *entity.Transfer) TransferResponse {
	details := make([]TransferDetailResponse, 0, len(t.Details))
	for _, d := range t.Details {
		details = append(details, TransferDetailResponse{
			ProductID:         d.ProductID,
			ProductCode:       d.ProductCode,
			ProductName:       d.ProductName,
			RequestedQuantity: d.RequestedQuantity,
			SentQuantity:      d.SentQuantity,
			ReceivedQuantity:  d.ReceivedQuantity,
			TransitQuantity:   d.TransitQuantity,
			Discrepancy:       d.Discrepancy,
			DiscrepancyNote:   d.DiscrepancyNote,
		})
	}
	return TransferResponse{
		ID:                     t.ID,
		TransferNumber:         t.TransferNumber,
		SourceWarehouseID:      t.SourceWarehouseID,
		DestinationWarehouseID: t.DestinationWarehouseID,
		Status:                 t.Status,
		Details:                details,
		RequestedByUserID:      t.RequestedByUserID,
		ApprovedByUserID:       t.ApprovedByUserID,
		DispatchedByUserID:     t.DispatchedByUserID,
		ReceivedByUserID:       t.ReceivedByUserID,
		RequestDate:            t.RequestDate,
		ApprovalDate:           t.ApprovalDate,
		DepartureDate:          t.DepartureDate,
		EstimatedArrivalDate:   t.EstimatedArrivalDate,
		ActualArrivalDate:      t.ActualArrivalDate,
		CompletedDate:          t.CompletedDate,
		Carrier:                t.Carrier,
		TrackingNumber:         t.TrackingNumber,
		TransportCost:          t.TransportCost,
		Reason:                 t.Reason,
		Notes:                  t.Notes,
		Priority:               t.Priority,
	}
}
