package cash

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dayronmiranda/StoreManage/internal/domain"
	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

// UseCase maneja cortes de caja (open→closed, a lo sumo uno abierto por
// bodega) y el libro de movimientos de caja.
type UseCase struct {
	txRunner      TxRunner
	cutRepo       repository.CashCutRepository
	movementRepo  repository.CashMovementRepository
	saleRepo      repository.SaleRepository
	expenseRepo   repository.ExpenseRepository
	warehouseRepo repository.WarehouseRepository
}

// NewUseCase construye el caso de uso de caja.
func NewUseCase(
	txRunner TxRunner,
	cutRepo repository.CashCutRepository,
	movementRepo repository.CashMovementRepository,
	saleRepo repository.SaleRepository,
	expenseRepo repository.ExpenseRepository,
	warehouseRepo repository.WarehouseRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		cutRepo:       cutRepo,
		movementRepo:  movementRepo,
		saleRepo:      saleRepo,
		expenseRepo:   expenseRepo,
		warehouseRepo: warehouseRepo,
	}
}

// Open abre un corte con el fondo inicial y registra el movimiento
// inbound/initial_fund en la misma transacción. Falla con ErrConflict si la
// bodega ya tiene un corte abierto.
func (uc *UseCase) Open(ctx context.Context, warehouseID, userID string, initialAmount decimal.Decimal, cutDate *time.Time) (*entity.CashCut, error) {
	if initialAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	warehouse, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}

	date := time.Now()
	if cutDate != nil {
		date = *cutDate
	}
	date = truncateToDay(date)

	var result *entity.CashCut
	err = uc.txRunner.RunCash(ctx, func(
		cutRepo repository.CashCutRepository,
		movementRepo repository.CashMovementRepository,
	) error {
		open, err := cutRepo.GetOpenByWarehouse(ctx, warehouseID)
		if err != nil {
			return err
		}
		if open != nil {
			return domain.ErrConflict
		}
		now := time.Now()
		cut := &entity.CashCut{
			ID:            uuid.New().String(),
			WarehouseID:   warehouseID,
			UserID:        userID,
			CutDate:       date,
			OpeningTime:   now,
			InitialAmount: initialAmount,
			Status:        entity.CashCutOpen,
		}
		if err := cutRepo.Create(ctx, cut); err != nil {
			return err
		}
		movement := &entity.CashMovement{
			ID:           uuid.New().String(),
			WarehouseID:  warehouseID,
			CashCutID:    cut.ID,
			MovementType: entity.CashInbound,
			Concept:      entity.ConceptInitialFund,
			Amount:       initialAmount,
			UserID:       userID,
			MovementDate: now,
			Notes:        "Apertura de caja",
		}
		if err := movementRepo.Create(ctx, movement); err != nil {
			return err
		}
		result = cut
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RegisterMovementInput entrada para RegisterMovement.
type RegisterMovementInput struct {
	WarehouseID   string
	MovementType  string // inbound/outbound
	Concept       string // sale/expense/adjustment/initial_fund
	Amount        decimal.Decimal
	ReferenceID   string
	ReferenceType string
	Notes         string
}

// RegisterMovement anota un movimiento en el libro de caja, ligado al corte
// abierto si lo hay. Un movimiento puede existir sin corte.
func (uc *UseCase) RegisterMovement(ctx context.Context, in RegisterMovementInput, userID string) (*entity.CashMovement, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if in.MovementType != entity.CashInbound && in.MovementType != entity.CashOutbound {
		return nil, domain.ErrInvalidMovement
	}
	current, err := uc.cutRepo.GetOpenByWarehouse(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	cutID := ""
	if current != nil {
		cutID = current.ID
	}
	movement := &entity.CashMovement{
		ID:            uuid.New().String(),
		WarehouseID:   in.WarehouseID,
		CashCutID:     cutID,
		MovementType:  in.MovementType,
		Concept:       in.Concept,
		Amount:        in.Amount,
		ReferenceID:   in.ReferenceID,
		ReferenceType: in.ReferenceType,
		UserID:        userID,
		MovementDate:  time.Now(),
		Notes:         in.Notes,
	}
	if err := uc.movementRepo.Create(ctx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// Close cierra el corte: esperado = inicial + ventas del día − gastos
// aprobados del día; diferencia = real − esperado (positivo = sobrante,
// negativo = faltante). Un segundo cierre falla con ErrInvalidState sin
// recalcular nada.
func (uc *UseCase) Close(ctx context.Context, cutID, userID string, actualFinal decimal.Decimal, observations string) (*entity.CashCut, error) {
	var result *entity.CashCut
	err := uc.txRunner.RunCash(ctx, func(
		cutRepo repository.CashCutRepository,
		_ repository.CashMovementRepository,
	) error {
		cut, err := cutRepo.GetByID(ctx, cutID)
		if err != nil {
			return err
		}
		if cut == nil {
			return domain.ErrNotFound
		}
		if cut.Status != entity.CashCutOpen {
			return domain.ErrInvalidState
		}

		sales, err := uc.saleRepo.DailyTotals(ctx, cut.WarehouseID, cut.CutDate)
		if err != nil {
			return err
		}
		expenses, err := uc.expenseRepo.SumApprovedByDay(ctx, cut.WarehouseID, cut.CutDate)
		if err != nil {
			return err
		}

		expected := cut.InitialAmount.Add(sales.TotalSales).Sub(expenses)
		difference := actualFinal.Sub(expected)

		now := time.Now()
		cut.ClosingTime = &now
		cut.CashSales = sales.ByPaymentMethod["cash"]
		cut.CardSales = sales.ByPaymentMethod["card"]
		cut.TransferSales = sales.ByPaymentMethod["transfer"]
		cut.TotalSales = sales.TotalSales
		cut.TotalExpenses = expenses
		cut.ExpectedFinal = expected
		cut.ActualFinal = &actualFinal
		cut.Difference = &difference
		cut.TransactionCount = sales.SalesCount
		cut.AverageTicket = &sales.AverageTicket
		cut.Notes = observations
		cut.Status = entity.CashCutClosed
		if err := cutRepo.Update(ctx, cut); err != nil {
			return err
		}
		result = cut
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Summary resumen del día: corte abierto (si existe), totales de entradas y
// salidas del libro de caja, ventas del día y número de movimientos.
type Summary struct {
	CurrentCut     *entity.CashCut
	TotalInbound   decimal.Decimal
	TotalOutbound  decimal.Decimal
	CurrentBalance decimal.Decimal
	DailySales     *entity.DailySalesReport
	MovementsCount int
}

// GetSummary calcula el resumen de caja de una bodega para la fecha indicada
// (hoy si date es nil). Solo lectura.
func (uc *UseCase) GetSummary(ctx context.Context, warehouseID string, date *time.Time) (*Summary, error) {
	day := time.Now()
	if date != nil {
		day = *date
	}
	current, err := uc.cutRepo.GetOpenByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	movements, err := uc.movementRepo.ListByDay(ctx, warehouseID, day)
	if err != nil {
		return nil, err
	}
	inbound, outbound := decimal.Zero, decimal.Zero
	for _, m := range movements {
		switch m.MovementType {
		case entity.CashInbound:
			inbound = inbound.Add(m.Amount)
		case entity.CashOutbound:
			outbound = outbound.Add(m.Amount)
		}
	}
	sales, err := uc.saleRepo.DailyTotals(ctx, warehouseID, day)
	if err != nil {
		return nil, err
	}
	return &Summary{
		CurrentCut:     current,
		TotalInbound:   inbound,
		TotalOutbound:  outbound,
		CurrentBalance: inbound.Sub(outbound),
		DailySales:     sales,
		MovementsCount: len(movements),
	}, nil
}

// GetCurrentCut devuelve el corte abierto de la bodega, o nil si no hay.
func (uc *UseCase) GetCurrentCut(ctx context.Context, warehouseID string) (*entity.CashCut, error) {
	return uc.cutRepo.GetOpenByWarehouse(ctx, warehouseID)
}

// List lista cortes de una bodega.
func (uc *UseCase) List(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.CashCut, error) {
	return uc.cutRepo.List(ctx, warehouseID, limit, offset)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
