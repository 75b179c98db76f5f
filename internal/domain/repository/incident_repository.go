package repository

import (
	"context"

	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
)

// IncidentFilter filtros para listar incidencias.
type IncidentFilter struct {
	WarehouseID string
	Status      string
	Priority    string
	Limit       int
	Offset      int
}

// IncidentRepository puerto de persistencia para incidencias.
type IncidentRepository interface {
	Create(ctx context.Context, incident *entity.Incident) error
	GetByID(ctx context.Context, id string) (*entity.Incident, error)
	Update(ctx context.Context, incident *entity.Incident) error
	List(ctx context.Context, filter IncidentFilter) ([]*entity.Incident, error)
	NumberExists(ctx context.Context, number string) (bool, error)
}
