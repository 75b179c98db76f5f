package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)
var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockBalanceRepo implementación de StockBalanceRepository sobre PostgreSQL
// (usable con pool o tx).
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

const balanceColumns = `warehouse_id, product_id, available, reserved, outbound_transit, inbound_transit, updated_at`

// Get obtiene el saldo de un par bodega×producto. Si el par no existe devuelve
// un saldo en cero con UpdatedAt en su valor cero.
func (r *StockBalanceRepo) Get(ctx context.Context, warehouseID, productID string) (*entity.StockBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM stock_balances WHERE warehouse_id = $1 AND product_id = $2`
	return r.scanOne(ctx, query, warehouseID, productID)
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción. Si el par no tiene fila
// todavía la materializa en cero primero: dos escrituras concurrentes sobre
// un par nuevo serializan sobre la misma fila en vez de leer cero las dos.
func (r *StockBalanceRepo) GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.StockBalance, error) {
	seed := `
		INSERT INTO stock_balances (warehouse_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (warehouse_id, product_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, seed, warehouseID, productID); err != nil {
		return nil, fmt.Errorf("seed stock balance: %w", err)
	}
	query := `SELECT ` + balanceColumns + ` FROM stock_balances WHERE warehouse_id = $1 AND product_id = $2 FOR UPDATE`
	return r.scanOne(ctx, query, warehouseID, productID)
}

func (r *StockBalanceRepo) scanOne(ctx context.Context, query, warehouseID, productID string) (*entity.StockBalance, error) {
	var b entity.StockBalance
	err := r.q.QueryRow(ctx, query, warehouseID, productID).Scan(
		&b.WarehouseID, &b.ProductID, &b.Available, &b.Reserved, &b.OutboundTransit, &b.InboundTransit, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{WarehouseID: warehouseID, ProductID: productID}, nil
		}
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	return &b, nil
}

// Upsert inserta o actualiza el saldo del par (constraint único en BD).
func (r *StockBalanceRepo) Upsert(ctx context.Context, balance *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (warehouse_id, product_id, available, reserved, outbound_transit, inbound_transit, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (warehouse_id, product_id)
		DO UPDATE SET available = EXCLUDED.available, reserved = EXCLUDED.reserved,
			outbound_transit = EXCLUDED.outbound_transit, inbound_transit = EXCLUDED.inbound_transit,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		balance.WarehouseID, balance.ProductID, balance.Available, balance.Reserved,
		balance.OutboundTransit, balance.InboundTransit, balance.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert stock balance: %w", err)
	}
	return nil
}

// ListByWarehouse lista los saldos de una bodega con paginación.
func (r *StockBalanceRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM stock_balances WHERE warehouse_id = $1 ORDER BY product_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock balances: %w", err)
	}
	defer rows.Close()
	return scanBalances(rows)
}

// ListBelowMinimum devuelve los saldos cuyo disponible está bajo el mínimo
// configurado en el producto (los productos sin mínimo no aparecen).
func (r *StockBalanceRepo) ListBelowMinimum(ctx context.Context, warehouseID string) ([]*entity.StockBalance, error) {
	query := `
		SELECT b.warehouse_id, b.product_id, b.available, b.reserved, b.outbound_transit, b.inbound_transit, b.updated_at
		FROM stock_balances b
		JOIN products p ON p.id = b.product_id
		WHERE b.warehouse_id = $1 AND p.minimum_stock IS NOT NULL AND b.available < p.minimum_stock
		ORDER BY b.available ASC`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list below minimum: %w", err)
	}
	defer rows.Close()
	return scanBalances(rows)
}

func scanBalances(rows pgx.Rows) ([]*entity.StockBalance, error) {
	var list []*entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.WarehouseID, &b.ProductID, &b.Available, &b.Reserved, &b.OutboundTransit, &b.InboundTransit, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// StockMovementRepo implementación append-only de StockMovementRepository.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento. Los movimientos nunca se actualizan ni borran.
func (r *StockMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, warehouse_id, product_id, movement_type, quantity, previous_quantity, new_quantity,
			user_id, reference_id, reference_type, reason, unit_cost, total_value, movement_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.WarehouseID, movement.ProductID, movement.MovementType,
		movement.Quantity, movement.PreviousQuantity, movement.NewQuantity,
		nullIfEmpty(movement.UserID), nullIfEmpty(movement.ReferenceID), movement.ReferenceType,
		movement.Reason, movement.UnitCost, movement.TotalValue, movement.MovementDate,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// List lista movimientos con filtros dinámicos, del más reciente al más antiguo.
func (r *StockMovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, warehouse_id, product_id, movement_type, quantity, previous_quantity, new_quantity,
			COALESCE(user_id::text, ''), COALESCE(reference_id::text, ''), reference_type, reason, unit_cost, total_value, movement_date
		FROM stock_movements WHERE 1=1`)
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.WarehouseID != "" {
		sb.WriteString(" AND warehouse_id = " + arg(filter.WarehouseID))
	}
	if filter.ProductID != "" {
		sb.WriteString(" AND product_id = " + arg(filter.ProductID))
	}
	if filter.MovementType != "" {
		sb.WriteString(" AND movement_type = " + arg(filter.MovementType))
	}
	if filter.From != nil {
		sb.WriteString(" AND movement_date >= " + arg(*filter.From))
	}
	if filter.To != nil {
		sb.WriteString(" AND movement_date < " + arg(*filter.To))
	}
	sb.WriteString(" ORDER BY movement_date DESC")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(filter.Limit))
	}
	if filter.Offset > 0 {
		sb.WriteString(" OFFSET " + arg(filter.Offset))
	}

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.WarehouseID, &m.ProductID, &m.MovementType, &m.Quantity,
			&m.PreviousQuantity, &m.NewQuantity, &m.UserID, &m.ReferenceID, &m.ReferenceType,
			&m.Reason, &m.UnitCost, &m.TotalValue, &m.MovementDate); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
