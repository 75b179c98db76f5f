package incident

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dayronmiranda/StoreManage/internal/domain"
	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
	"github.com/dayronmiranda/StoreManage/pkg/folio"
)

// UseCase maneja incidencias: open → investigating → resolved → closed con
// lista blanca de transiciones. No toca el libro de inventario; solo lo
// referencia por reference_id/type.
type UseCase struct {
	incidentRepo  repository.IncidentRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
}

// NewUseCase construye el caso de uso de incidencias.
func NewUseCase(incidentRepo repository.IncidentRepository, warehouseRepo repository.WarehouseRepository, productRepo repository.ProductRepository) *UseCase {
	return &UseCase{incidentRepo: incidentRepo, warehouseRepo: warehouseRepo, productRepo: productRepo}
}

// CreateLine una línea afectada.
type CreateLine struct {
	ProductID        string
	AffectedQuantity decimal.Decimal
	UnitCost         decimal.Decimal
}

// CreateInput entrada para Create.
type CreateInput struct {
	IncidentType  string
	WarehouseID   string
	Description   string
	Priority      string
	ReferenceID   string
	ReferenceType string
	Lines         []CreateLine
	Evidence      []entity.IncidentEvidence
}

// Create registra una incidencia en open con folio INC-. El impacto económico
// inicial es Σ(cantidad afectada × costo unitario) sobre las líneas.
func (uc *UseCase) Create(ctx context.Context, in CreateInput, userID string) (*entity.Incident, error) {
	if in.Description == "" {
		return nil, domain.ErrInvalidInput
	}
	warehouse, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}

	details := make([]entity.IncidentDetail, 0, len(in.Lines))
	impact := decimal.Zero
	for _, line := range in.Lines {
		if line.AffectedQuantity.IsNegative() || line.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		total := line.AffectedQuantity.Mul(line.UnitCost)
		details = append(details, entity.IncidentDetail{
			ProductID:        line.ProductID,
			ProductCode:      product.Code,
			ProductName:      product.Name,
			AffectedQuantity: line.AffectedQuantity,
			UnitCost:         line.UnitCost,
			TotalCost:        total,
		})
		impact = impact.Add(total)
	}

	number, err := folio.Generate(ctx, folio.PrefixIncident, uc.incidentRepo.NumberExists)
	if err != nil {
		return nil, err
	}
	priority := in.Priority
	if priority == "" {
		priority = "medium"
	}
	incident := &entity.Incident{
		ID:               uuid.New().String(),
		IncidentNumber:   number,
		IncidentType:     in.IncidentType,
		WarehouseID:      in.WarehouseID,
		ReportedByUserID: userID,
		Status:           entity.IncidentOpen,
		Description:      in.Description,
		EconomicImpact:   impact,
		Priority:         priority,
		ReferenceID:      in.ReferenceID,
		ReferenceType:    in.ReferenceType,
		Details:          details,
		Evidence:         in.Evidence,
		IncidentDate:     time.Now(),
	}
	if err := uc.incidentRepo.Create(ctx, incident); err != nil {
		return nil, err
	}
	return incident, nil
}

// ChangeStatus aplica una transición de la lista blanca; cualquier otra
// solicitud falla con ErrInvalidTransition.
func (uc *UseCase) ChangeStatus(ctx context.Context, incidentID, newStatus, userID string) (*entity.Incident, error) {
	incident, err := uc.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if incident == nil {
		return nil, domain.ErrNotFound
	}
	if !transitionAllowed(incident.Status, newStatus) {
		return nil, domain.ErrInvalidTransition
	}
	incident.Status = newStatus
	if newStatus == entity.IncidentResolved && incident.ResolutionDate == nil {
		now := time.Now()
		incident.ResolutionDate = &now
		incident.ResolutionResponsibleID = userID
	}
	if err := uc.incidentRepo.Update(ctx, incident); err != nil {
		return nil, err
	}
	return incident, nil
}

// ResolveInput entrada para Resolve.
type ResolveInput struct {
	ActionsTaken   string
	EconomicImpact decimal.Decimal
}

// Resolve marca la incidencia resolved, registra acciones y sobrescribe el
// impacto económico con la cifra del operador (sustituye al calculado al crear).
func (uc *UseCase) Resolve(ctx context.Context, incidentID string, in ResolveInput, userID string) (*entity.Incident, error) {
	incident, err := uc.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if incident == nil {
		return nil, domain.ErrNotFound
	}
	if incident.Status == entity.IncidentResolved {
		return nil, domain.ErrInvalidState
	}
	if !transitionAllowed(incident.Status, entity.IncidentResolved) {
		return nil, domain.ErrInvalidTransition
	}
	now := time.Now()
	incident.Status = entity.IncidentResolved
	incident.ActionsTaken = in.ActionsTaken
	incident.EconomicImpact = in.EconomicImpact
	incident.ResolutionDate = &now
	incident.ResolutionResponsibleID = userID
	if err := uc.incidentRepo.Update(ctx, incident); err != nil {
		return nil, err
	}
	return incident, nil
}

// GetByID obtiene una incidencia.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Incident, error) {
	incident, err := uc.incidentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if incident == nil {
		return nil, domain.ErrNotFound
	}
	return incident, nil
}

// List lista incidencias con filtros.
func (uc *UseCase) List(ctx context.Context, filter repository.IncidentFilter) ([]*entity.Incident, error) {
	return uc.incidentRepo.List(ctx, filter)
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range entity.IncidentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
