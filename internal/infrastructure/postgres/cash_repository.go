package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dayronmiranda/StoreManage/internal/domain"
	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

var _ repository.CashCutRepository = (*CashCutRepo)(nil)
var _ repository.CashMovementRepository = (*CashMovementRepo)(nil)
var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// CashCutRepo implementación de CashCutRepository sobre PostgreSQL.
// El índice parcial único sobre (warehouse_id) WHERE status = 'open' garantiza
// en BD que nunca conviven dos cortes abiertos de la misma bodega.
type CashCutRepo struct {
	q Querier
}

// NewCashCutRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashCutRepository(q Querier) *CashCutRepo {
	return &CashCutRepo{q: q}
}

const cashCutColumns = `id, warehouse_id, user_id, cut_date, opening_time, closing_time, initial_amount,
	cash_sales, card_sales, transfer_sales, total_sales, total_expenses, expected_final,
	actual_final, difference, transaction_count, average_ticket, status, notes`

// Create persiste un corte nuevo. La violación del índice parcial (otro corte
// abierto en la misma bodega) se traduce a ErrConflict.
func (r *CashCutRepo) Create(ctx context.Context, cut *entity.CashCut) error {
	query := `
		INSERT INTO cash_cuts (id, warehouse_id, user_id, cut_date, opening_time, initial_amount,
			cash_sales, card_sales, transfer_sales, total_sales, total_expenses, expected_final,
			transaction_count, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		cut.ID, cut.WarehouseID, cut.UserID, cut.CutDate, cut.OpeningTime, cut.InitialAmount,
		cut.CashSales, cut.CardSales, cut.TransferSales, cut.TotalSales, cut.TotalExpenses, cut.ExpectedFinal,
		cut.TransactionCount, cut.Status, cut.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert cash cut: %w", err)
	}
	return nil
}

// GetByID obtiene un corte por ID. Devuelve (nil, nil) si no existe.
func (r *CashCutRepo) GetByID(ctx context.Context, id string) (*entity.CashCut, error) {
	query := `SELECT ` + cashCutColumns + ` FROM cash_cuts WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetOpenByWarehouse devuelve el corte abierto de la bodega, o (nil, nil).
func (r *CashCutRepo) GetOpenByWarehouse(ctx context.Context, warehouseID string) (*entity.CashCut, error) {
	query := `SELECT ` + cashCutColumns + ` FROM cash_cuts WHERE warehouse_id = $1 AND status = 'open'`
	return r.scanOne(r.q.QueryRow(ctx, query, warehouseID))
}

// Update actualiza un corte (cierre).
func (r *CashCutRepo) Update(ctx context.Context, cut *entity.CashCut) error {
	query := `
		UPDATE cash_cuts
		SET closing_time = $2, cash_sales = $3, card_sales = $4, transfer_sales = $5,
			total_sales = $6, total_expenses = $7, expected_final = $8, actual_final = $9,
			difference = $10, transaction_count = $11, average_ticket = $12, status = $13, notes = $14
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		cut.ID, cut.ClosingTime, cut.CashSales, cut.CardSales, cut.TransferSales,
		cut.TotalSales, cut.TotalExpenses, cut.ExpectedFinal, cut.ActualFinal,
		cut.Difference, cut.TransactionCount, cut.AverageTicket, cut.Status, cut.Notes,
	)
	if err != nil {
		return fmt.Errorf("update cash cut: %w", err)
	}
	return nil
}

// List lista los cortes de una bodega, del más reciente al más antiguo.
func (r *CashCutRepo) List(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.CashCut, error) {
	query := `SELECT ` + cashCutColumns + ` FROM cash_cuts WHERE warehouse_id = $1 ORDER BY opening_time DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cash cuts: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashCut
	for rows.Next() {
		var c entity.CashCut
		if err := rows.Scan(
			&c.ID, &c.WarehouseID, &c.UserID, &c.CutDate, &c.OpeningTime, &c.ClosingTime, &c.InitialAmount,
			&c.CashSales, &c.CardSales, &c.TransferSales, &c.TotalSales, &c.TotalExpenses, &c.ExpectedFinal,
			&c.ActualFinal, &c.Difference, &c.TransactionCount, &c.AverageTicket, &c.Status, &c.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan cash cut: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *CashCutRepo) scanOne(row pgx.Row) (*entity.CashCut, error) {
	var c entity.CashCut
	err := row.Scan(
		&c.ID, &c.WarehouseID, &c.UserID, &c.CutDate, &c.OpeningTime, &c.ClosingTime, &c.InitialAmount,
		&c.CashSales, &c.CardSales, &c.TransferSales, &c.TotalSales, &c.TotalExpenses, &c.ExpectedFinal,
		&c.ActualFinal, &c.Difference, &c.TransactionCount, &c.AverageTicket, &c.Status, &c.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash cut: %w", err)
	}
	return &c, nil
}

// CashMovementRepo implementación append-only de CashMovementRepository.
type CashMovementRepo struct {
	q Querier
}

// NewCashMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashMovementRepository(q Querier) *CashMovementRepo {
	return &CashMovementRepo{q: q}
}

// Create persiste un movimiento de caja.
func (r *CashMovementRepo) Create(ctx context.Context, movement *entity.CashMovement) error {
	query := `
		INSERT INTO cash_movements (id, warehouse_id, cash_cut_id, movement_type, concept, amount,
			reference_id, reference_type, user_id, movement_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.WarehouseID, nullIfEmpty(movement.CashCutID), movement.MovementType,
		movement.Concept, movement.Amount, nullIfEmpty(movement.ReferenceID), movement.ReferenceType,
		movement.UserID, movement.MovementDate, movement.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert cash movement: %w", err)
	}
	return nil
}

// ListByDay lista los movimientos de caja de la bodega en el día de date.
func (r *CashMovementRepo) ListByDay(ctx context.Context, warehouseID string, date time.Time) ([]*entity.CashMovement, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)
	query := `
		SELECT id, warehouse_id, COALESCE(cash_cut_id::text, ''), movement_type, concept, amount,
			COALESCE(reference_id::text, ''), reference_type, user_id, movement_date, notes
		FROM cash_movements
		WHERE warehouse_id = $1 AND movement_date >= $2 AND movement_date < $3
		ORDER BY movement_date`
	rows, err := r.q.Query(ctx, query, warehouseID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("list cash movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashMovement
	for rows.Next() {
		var m entity.CashMovement
		if err := rows.Scan(&m.ID, &m.WarehouseID, &m.CashCutID, &m.MovementType, &m.Concept, &m.Amount,
			&m.ReferenceID, &m.ReferenceType, &m.UserID, &m.MovementDate, &m.Notes); err != nil {
			return nil, fmt.Errorf("scan cash movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ExpenseRepo implementación de ExpenseRepository sobre PostgreSQL.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

const expenseColumns = `id, warehouse_id, category, description, amount, expense_date, user_id,
	receipt_number, supplier, status, COALESCE(approved_by::text, ''), approval_date, notes`

// Create persiste un gasto operativo.
func (r *ExpenseRepo) Create(ctx context.Context, expense *entity.OperationalExpense) error {
	query := `
		INSERT INTO operational_expenses (id, warehouse_id, category, description, amount, expense_date,
			user_id, receipt_number, supplier, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		expense.ID, expense.WarehouseID, expense.Category, expense.Description, expense.Amount,
		expense.ExpenseDate, expense.UserID, expense.ReceiptNumber, expense.Supplier, expense.Status, expense.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// GetByID obtiene un gasto por ID. Devuelve (nil, nil) si no existe.
func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.OperationalExpense, error) {
	query := `SELECT ` + expenseColumns + ` FROM operational_expenses WHERE id = $1`
	var e entity.OperationalExpense
	err := r.q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.WarehouseID, &e.Category, &e.Description, &e.Amount, &e.ExpenseDate, &e.UserID,
		&e.ReceiptNumber, &e.Supplier, &e.Status, &e.ApprovedBy, &e.ApprovalDate, &e.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}

// Update actualiza un gasto (aprobación o rechazo).
func (r *ExpenseRepo) Update(ctx context.Context, expense *entity.OperationalExpense) error {
	query := `
		UPDATE operational_expenses
		SET status = $2, approved_by = $3, approval_date = $4, notes = $5
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		expense.ID, expense.Status, nullIfEmpty(expense.ApprovedBy), expense.ApprovalDate, expense.Notes,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// List lista gastos por bodega y estado (ambos filtros opcionales).
func (r *ExpenseRepo) List(ctx context.Context, warehouseID, status string, limit, offset int) ([]*entity.OperationalExpense, error) {
	query := `SELECT ` + expenseColumns + ` FROM operational_expenses
		WHERE ($1 = '' OR warehouse_id::text = $1) AND ($2 = '' OR status = $2)
		ORDER BY expense_date DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, warehouseID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	var list []*entity.OperationalExpense
	for rows.Next() {
		var e entity.OperationalExpense
		if err := rows.Scan(&e.ID, &e.WarehouseID, &e.Category, &e.Description, &e.Amount, &e.ExpenseDate,
			&e.UserID, &e.ReceiptNumber, &e.Supplier, &e.Status, &e.ApprovedBy, &e.ApprovalDate, &e.Notes); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// SumApprovedByDay suma los gastos aprobados de la bodega en el día de date.
func (r *ExpenseRepo) SumApprovedByDay(ctx context.Context, warehouseID string, date time.Time) (decimal.Decimal, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM operational_expenses
		WHERE warehouse_id = $1 AND status = 'approved' AND expense_date >= $2 AND expense_date < $3`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, warehouseID, dayStart, dayEnd).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum approved expenses: %w", err)
	}
	return sum, nil
}
