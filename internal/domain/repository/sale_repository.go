package repository

import (
	"context"
	"time"

	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
)

// SaleFilter filtros para listar ventas.
type SaleFilter struct {
	WarehouseID string
	Status      string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// SaleRepository puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
	NumberExists(ctx context.Context, number string) (bool, error)
	// DailyTotals agrega las ventas no canceladas de la bodega en el día de
	// date: total, conteo, ticket promedio y desglose por método de pago.
	DailyTotals(ctx context.Context, warehouseID string, date time.Time) (*entity.DailySalesReport, error)
}
