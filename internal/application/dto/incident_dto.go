package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
)

// IncidentLineRequest una línea afectada.
type IncidentLineRequest struct {
	ProductID        string          `json:"product_id" validate:"required,uuid"`
	AffectedQuantity decimal.Decimal `json:"affected_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
}

// IncidentEvidenceRequest un adjunto de evidencia.
type IncidentEvidenceRequest struct {
	FilePath    string `json:"file_path" validate:"required"`
	FileType    string `json:"file_type"`
	Description string `json:"description"`
}

// CreateIncidentRequest body para POST /api/incidents.
type CreateIncidentRequest struct {
	IncidentType  string                    `json:"incident_type" validate:"required,oneof=reception operation inventory sale"`
	WarehouseID   string                    `json:"warehouse_id" validate:"required,uuid"`
	Description   string                    `json:"description" validate:"required"`
	Priority      string                    `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	ReferenceID   string                    `json:"reference_id"`
	ReferenceType string                    `json:"reference_type"`
	Lines         []IncidentLineRequest     `json:"lines"`
	Evidence      []IncidentEvidenceRequest `json:"evidence"`
}

// ChangeIncidentStatusRequest body para PATCH de estado.
type ChangeIncidentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open investigating resolved closed"`
}

// ResolveIncidentRequest body para resolve.
type ResolveIncidentRequest struct {
	ActionsTaken   string          `json:"actions_taken"`
	EconomicImpact decimal.Decimal `json:"economic_impact"`
}

// IncidentDetailResponse línea afectada en respuestas.
type IncidentDetailResponse struct {
	ProductID        string          `json:"product_id"`
	ProductCode      string          `json:"product_code"`
	ProductName      string          `json:"product_name"`
	AffectedQuantity decimal.Decimal `json:"affected_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	TotalCost        decimal.Decimal `json:"total_cost"`
}

// IncidentEvidenceResponse adjunto en respuestas.
type IncidentEvidenceResponse struct {
	FilePath    string    `json:"file_path"`
	FileType    string    `json:"file_type,omitempty"`
	Description string    `json:"description,omitempty"`
	UploadDate  time.Time `json:"upload_date"`
}

// IncidentResponse salida de una incidencia.
type IncidentResponse struct {
	ID                      string                     `json:"id"`
	IncidentNumber          string                     `json:"incident_number"`
	IncidentType            string                     `json:"incident_type"`
	WarehouseID             string                     `json:"warehouse_id"`
	ReportedByUserID        string                     `json:"reported_by_user_id"`
	Status                  string                     `json:"status"`
	Description             string                     `json:"description"`
	ActionsTaken            string                     `json:"actions_taken,omitempty"`
	EconomicImpact          decimal.Decimal            `json:"economic_impact"`
	Priority                string                     `json:"priority"`
	ReferenceID             string                     `json:"reference_id,omitempty"`
	ReferenceType           string                     `json:"reference_type,omitempty"`
	Details                 []IncidentDetailResponse   `json:"details"`
	Evidence                []IncidentEvidenceResponse `json:"evidence"`
	IncidentDate            time.Time                  `json:"incident_date"`
	ResolutionDate          *time.Time                 `json:"resolution_date,omitempty"`
	ResolutionResponsibleID string                     `json:"resolution_responsible_id,omitempty"`
}

// IncidentListResponse lista paginada de incidencias.
type IncidentListResponse struct {
	Items []IncidentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// NewIncidentResponse convierte la entidad a respuesta.
func NewIncidentResponse(i *entity.Incident) IncidentResponse {
	details := make([]IncidentDetailResponse, 0, len(i.Details))
	for _, d := range i.Details {
		details = append(details, IncidentDetailResponse{
			ProductID:        d.ProductID,
			ProductCode:      d.ProductCode,
			ProductName:      d.ProductName,
			AffectedQuantity: d.AffectedQuantity,
			UnitCost:         d.UnitCost,
			TotalCost:        d.TotalCost,
		})
	}
	evidence := make([]IncidentEvidenceResponse, 0, len(i.Evidence))
	for _, e := range i.Evidence {
		evidence = append(evidence, IncidentEvidenceResponse{
			FilePath:    e.FilePath,
			FileType:    e.FileType,
			Description: e.Description,
			UploadDate:  e.UploadDate,
		})
	}
	return IncidentResponse{
		ID:                      i.ID,
		IncidentNumber:          i.IncidentNumber,
		IncidentType:            i.IncidentType,
		WarehouseID:             i.WarehouseID,
		ReportedByUserID:        i.ReportedByUserID,
		Status:                  i.Status,
		Description:             i.Description,
		ActionsTaken:            i.ActionsTaken,
		EconomicImpact:          i.EconomicImpact,
		Priority:                i.Priority,
		ReferenceID:             i.ReferenceID,
		ReferenceType:           i.ReferenceType,
		Details:                 details,
		Evidence:                evidence,
		IncidentDate:            i.IncidentDate,
		ResolutionDate:          i.ResolutionDate,
		ResolutionResponsibleID: i.ResolutionResponsibleID,
	}
}
