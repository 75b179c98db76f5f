package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una incidencia.
const (
	IncidentOpen          = "open"
	IncidentInvestigating = "investigating"
	IncidentResolved      = "resolved"
	IncidentClosed        = "closed"
)

// IncidentTransitions es la lista blanca de transiciones de estado.
// Cualquier cambio fuera de ella se rechaza con ErrInvalidTransition.
var IncidentTransitions = map[string][]string{
	IncidentOpen:          {IncidentInvestigating, IncidentResolved},
	IncidentInvestigating: {IncidentOpen, IncidentResolved},
	IncidentResolved:      {IncidentClosed},
	IncidentClosed:        {},
}

// IncidentDetail es una línea afectada; TotalCost = AffectedQuantity × UnitCost.
type IncidentDetail struct {
	ProductID        string
	ProductCode      string
	ProductName      string
	AffectedQuantity decimal.Decimal
	UnitCost         decimal.Decimal
	TotalCost        decimal.Decimal
}

// IncidentEvidence es un adjunto de evidencia (imagen o documento).
type IncidentEvidence struct {
	FilePath    string
	FileType    string
	Description string
	UploadDate  time.Time
}

// Incident representa una incidencia operativa con impacto económico.
// EconomicImpact se calcula al crear como Σ(cantidad × costo) y puede ser
// sobrescrito con la cifra del operador al resolver.
type Incident struct {
	ID                      string
	IncidentNumber          string // INC-XXXXXXXX, único
	IncidentType            string // reception/operation/inventory/sale
	WarehouseID             string
	ReportedByUserID        string
	Status                  string
	Description             string
	ActionsTaken            string
	EconomicImpact          decimal.Decimal
	Priority                string // low/medium/high/critical
	ReferenceID             string
	ReferenceType           string
	Details                 []IncidentDetail
	Evidence                []IncidentEvidence
	IncidentDate            time.Time
	ResolutionDate          *time.Time
	ResolutionResponsibleID string
}
