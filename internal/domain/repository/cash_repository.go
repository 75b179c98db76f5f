package repository

import (
	"context"
	"time"

	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CashCutRepository puerto de persistencia para cortes de caja.
// GetOpenByWarehouse devuelve (nil, nil) si la bodega no tiene corte abierto.
type CashCutRepository interface {
	Create(ctx context.Context, cut *entity.CashCut) error
	GetByID(ctx context.Context, id string) (*entity.CashCut, error)
	GetOpenByWarehouse(ctx context.Context, warehouseID string) (*entity.CashCut, error)
	Update(ctx context.Context, cut *entity.CashCut) error
	List(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.CashCut, error)
}

// CashMovementRepository puerto append-only del libro de caja.
type CashMovementRepository interface {
	Create(ctx context.Context, movement *entity.CashMovement) error
	ListByDay(ctx context.Context, warehouseID string, date time.Time) ([]*entity.CashMovement, error)
}

// ExpenseRepository puerto de persistencia para gastos operativos.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.OperationalExpense) error
	GetByID(ctx context.Context, id string) (*entity.OperationalExpense, error)
	Update(ctx context.Context, expense *entity.OperationalExpense) error
	List(ctx context.Context, warehouseID, status string, limit, offset int) ([]*entity.OperationalExpense, error)
	// SumApprovedByDay suma los gastos aprobados de la bodega en el día de date.
	SumApprovedByDay(ctx context.Context, warehouseID string, date time.Time) (decimal.Decimal, error)
}
