package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

// CheckAvailability indica si hay disponible suficiente para quantity.
// Solo lectura; los flujos que necesitan garantía deben reservar.
func (l *Ledger) CheckAvailability(ctx context.Context, warehouseID, productID string, quantity decimal.Decimal) (bool, error) {
	balance, err := l.balanceRepo.Get(ctx, warehouseID, productID)
	if err != nil {
		return false, err
	}
	return balance.Available.GreaterThanOrEqual(quantity), nil
}

// GetBalance devuelve el saldo del par (en cero si no existe todavía).
func (l *Ledger) GetBalance(ctx context.Context, warehouseID, productID string) (*entity.StockBalance, error) {
	return l.balanceRepo.Get(ctx, warehouseID, productID)
}

// ListByWarehouse lista los saldos de una bodega con paginación.
func (l *Ledger) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockBalance, error) {
	return l.balanceRepo.ListByWarehouse(ctx, warehouseID, limit, offset)
}

// ListBelowMinimum devuelve los saldos con disponible bajo el mínimo del producto.
func (l *Ledger) ListBelowMinimum(ctx context.Context, warehouseID string) ([]*entity.StockBalance, error) {
	return l.balanceRepo.ListBelowMinimum(ctx, warehouseID)
}

// ListMovements lista el historial de movimientos con filtros.
func (l *Ledger) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	return l.movementRepo.List(ctx, filter)
}
