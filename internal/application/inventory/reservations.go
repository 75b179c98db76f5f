package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dayronmiranda/StoreManage/internal/domain"
	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

// ReserveInTx mueve cantidad de disponible a reservado.
// Falla con domain.ErrInsufficientStock si el disponible no alcanza.
func (l *Ledger) ReserveInTx(
	ctx context.Context,
	balanceRepo repository.StockBalanceRepository,
	warehouseID, productID string,
	quantity decimal.Decimal,
) error {
	if !quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	balance, err := balanceRepo.GetForUpdate(ctx, warehouseID, productID)
	if err != nil {
		return err
	}
	if balance.Available.LessThan(quantity) {
		return domain.ErrInsufficientStock
	}
	balance.Available = balance.Available.Sub(quantity)
	balance.Reserved = balance.Reserved.Add(quantity)
	balance.UpdatedAt = time.Now()
	return balanceRepo.Upsert(ctx, balance)
}

// ReleaseReservedInTx devuelve cantidad de reservado a disponible.
func (l *Ledger) ReleaseReservedInTx(
	ctx context.Context,
	balanceRepo repository.StockBalanceRepository,
	warehouseID, productID string,
	quantity decimal.Decimal,
) error {
	if !quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	balance, err := balanceRepo.GetForUpdate(ctx, warehouseID, productID)
	if err != nil {
		return err
	}
	if balance.Reserved.LessThan(quantity) {
		return domain.ErrInsufficientStock
	}
	balance.Reserved = balance.Reserved.Sub(quantity)
	balance.Available = balance.Available.Add(quantity)
	balance.UpdatedAt = time.Now()
	return balanceRepo.Upsert(ctx, balance)
}

// ConfirmSaleStockInTx consume stock reservado por una venta: reduce el
// reservado sin tocar el disponible y registra un movimiento outbound
// referenciando la venta. previous/new capturan disponible+reservado, que es
// lo que realmente cambia de cara al total.
func (l *Ledger) ConfirmSaleStockInTx(
	ctx context.Context,
	balanceRepo repository.StockBalanceRepository,
	movementRepo repository.StockMovementRepository,
	warehouseID, productID string,
	quantity decimal.Decimal,
	userID, saleID string,
) (*entity.StockMovement, error) {
	if !quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	balance, err := balanceRepo.GetForUpdate(ctx, warehouseID, productID)
	if err != nil {
		return nil, err
	}
	if balance.Reserved.LessThan(quantity) {
		return nil, domain.ErrInsufficientStock
	}

	previous := balance.Available.Add(balance.Reserved)
	now := time.Now()
	balance.Reserved = balance.Reserved.Sub(quantity)
	balance.UpdatedAt = now
	if err := balanceRepo.Upsert(ctx, balance); err != nil {
		return nil, err
	}

	movement := &entity.StockMovement{
		ID:               uuid.New().String(),
		WarehouseID:      warehouseID,
		ProductID:        productID,
		MovementType:     entity.MovementOutbound,
		Quantity:         quantity,
		PreviousQuantity: previous,
		NewQuantity:      balance.Available.Add(balance.Reserved),
		UserID:           userID,
		ReferenceID:      saleID,
		ReferenceType:    "sale",
		Reason:           "Venta confirmada",
		MovementDate:     now,
	}
	if err := movementRepo.Create(ctx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// AddInboundTransitInTx registra mercancía en camino hacia la bodega destino.
// No genera movimiento: el tránsito es telemetría, el movimiento contable
// ocurre en origen (transfer_outbound) y al recibir (transfer_inbound).
func (l *Ledger) AddInboundTransitInTx(
	ctx context.Context,
	balanceRepo repository.StockBalanceRepository,
	warehouseID, productID string,
	quantity decimal.Decimal,
) error {
	if !quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	balance, err := balanceRepo.GetForUpdate(ctx, warehouseID, productID)
	if err != nil {
		return err
	}
	balance.InboundTransit = balance.InboundTransit.Add(quantity)
	balance.UpdatedAt = time.Now()
	return balanceRepo.Upsert(ctx, balance)
}

// RemoveInboundTransitInTx descuenta tránsito entrante al recibir o cancelar.
// Rechaza la escritura si dejaría el tránsito negativo.
func (l *Ledger) RemoveInboundTransitInTx(
	ctx context.Context,
	balanceRepo repository.StockBalanceRepository,
	warehouseID, productID string,
	quantity decimal.Decimal,
) error {
	if !quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	balance, err := balanceRepo.GetForUpdate(ctx, warehouseID, productID)
	if err != nil {
		return err
	}
	if balance.InboundTransit.LessThan(quantity) {
		return domain.ErrInsufficientStock
	}
	balance.InboundTransit = balance.InboundTransit.Sub(quantity)
	balance.UpdatedAt = time.Now()
	return balanceRepo.Upsert(ctx, balance)
}
