package repository

import (
	"context"
	"time"

	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
)

// StockBalanceRepository puerto de persistencia para saldos de stock.
// Get/GetForUpdate devuelven un saldo en cero cuando el par no existe todavía;
// GetForUpdate bloquea la fila (SELECT FOR UPDATE) dentro de la transacción.
type StockBalanceRepository interface {
	Get(ctx context.Context, warehouseID, productID string) (*entity.StockBalance, error)
	GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.StockBalance, error)
	Upsert(ctx context.Context, balance *entity.StockBalance) error
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockBalance, error)
	ListBelowMinimum(ctx context.Context, warehouseID string) ([]*entity.StockBalance, error)
}

// MovementFilter filtros para listar movimientos.
type MovementFilter struct {
	WarehouseID  string
	ProductID    string
	MovementType string
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// StockMovementRepository puerto append-only del historial de movimientos.
// Los movimientos nunca se actualizan ni borran.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
}
