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

// ExpenseUseCase maneja gastos operativos: pending → approved/rejected.
// La aprobación registra la salida en el libro de caja.
type ExpenseUseCase struct {
	expenseRepo   repository.ExpenseRepository
	warehouseRepo repository.WarehouseRepository
	cashUC        *UseCase
}

// NewExpenseUseCase construye el caso de uso de gastos.
func NewExpenseUseCase(expenseRepo repository.ExpenseRepository, warehouseRepo repository.WarehouseRepository, cashUC *UseCase) *ExpenseUseCase {
	return &ExpenseUseCase{expenseRepo: expenseRepo, warehouseRepo: warehouseRepo, cashUC: cashUC}
}

// CreateExpenseInput entrada para CreateExpense.
type CreateExpenseInput struct {
	WarehouseID   string
	Category      string
	Description   string
	Amount        decimal.Decimal
	ReceiptNumber string
	Supplier      string
	Notes         string
}

// CreateExpense registra un gasto en pending.
func (uc *ExpenseUseCase) CreateExpense(ctx context.Context, in CreateExpenseInput, userID string) (*entity.OperationalExpense, error) {
	if !in.Amount.IsPositive() || in.Description == "" {
		return nil, domain.ErrInvalidInput
	}
	warehouse, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	expense := &entity.OperationalExpense{
		ID:            uuid.New().String(),
		WarehouseID:   in.WarehouseID,
		Category:      in.Category,
		Description:   in.Description,
		Amount:        in.Amount,
		ExpenseDate:   time.Now(),
		UserID:        userID,
		ReceiptNumber: in.ReceiptNumber,
		Supplier:      in.Supplier,
		Status:        entity.ExpensePending,
		Notes:         in.Notes,
	}
	if err := uc.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ApproveExpense pasa pending→approved y anota la salida outbound/expense en
// el libro de caja (ligada al corte abierto si lo hay).
func (uc *ExpenseUseCase) ApproveExpense(ctx context.Context, expenseID, userID string) (*entity.OperationalExpense, error) {
	expense, err := uc.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, domain.ErrNotFound
	}
	if expense.Status != entity.ExpensePending {
		return nil, domain.ErrInvalidState
	}
	now := time.Now()
	expense.Status = entity.ExpenseApproved
	expense.ApprovedBy = userID
	expense.ApprovalDate = &now
	if err := uc.expenseRepo.Update(ctx, expense); err != nil {
		return nil, err
	}
	if _, err := uc.cashUC.RegisterMovement(ctx, RegisterMovementInput{
		WarehouseID:   expense.WarehouseID,
		MovementType:  entity.CashOutbound,
		Concept:       entity.ConceptExpense,
		Amount:        expense.Amount,
		ReferenceID:   expense.ID,
		ReferenceType: "expense",
		Notes:         expense.Description,
	}, userID); err != nil {
		return nil, err
	}
	return expense, nil
}

// RejectExpense pasa pending→rejected.
func (uc *ExpenseUseCase) RejectExpense(ctx context.Context, expenseID, userID, reason string) (*entity.OperationalExpense, error) {
	expense, err := uc.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, domain.ErrNotFound
	}
	if expense.Status != entity.ExpensePending {
		return nil, domain.ErrInvalidState
	}
	now := time.Now()
	expense.Status = entity.ExpenseRejected
	expense.ApprovedBy = userID
	expense.ApprovalDate = &now
	if reason != "" {
		expense.Notes = reason
	}
	if err := uc.expenseRepo.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses lista gastos por bodega y estado.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, warehouseID, status string, limit, offset int) ([]*entity.OperationalExpense, error) {
	return uc.expenseRepo.List(ctx, warehouseID, status, limit, offset)
}
