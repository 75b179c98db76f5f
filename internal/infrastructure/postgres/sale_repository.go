package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dayronmiranda/StoreManage/internal/domain"
	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool
// o tx). Las líneas viven en sale_details.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, sale_number, warehouse_id, COALESCE(customer_id::text, ''), user_id, payment_method_id,
	subtotal, discount, tax, total, amount_received, change_given, payment_reference, status, observations, sale_date`

// Create persiste la venta y sus líneas.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, sale_number, warehouse_id, customer_id, user_id, payment_method_id,
			subtotal, discount, tax, total, amount_received, change_given, payment_reference, status, observations, sale_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.SaleNumber, sale.WarehouseID, nullIfEmpty(sale.CustomerID), sale.UserID, sale.PaymentMethodID,
		sale.Subtotal, sale.Discount, sale.Tax, sale.Total, sale.AmountReceived, sale.Change,
		sale.PaymentReference, sale.Status, sale.Observations, sale.SaleDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	detailQuery := `
		INSERT INTO sale_details (sale_id, product_id, product_code, product_name, quantity, unit_price, subtotal, discount, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, d := range sale.Details {
		if _, err := r.q.Exec(ctx, detailQuery,
			sale.ID, d.ProductID, d.ProductCode, d.ProductName, d.Quantity, d.UnitPrice, d.Subtotal, d.Discount, d.Total,
		); err != nil {
			return fmt.Errorf("insert sale detail: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una venta con sus líneas. Devuelve (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.SaleNumber, &s.WarehouseID, &s.CustomerID, &s.UserID, &s.PaymentMethodID,
		&s.Subtotal, &s.Discount, &s.Tax, &s.Total, &s.AmountReceived, &s.Change,
		&s.PaymentReference, &s.Status, &s.Observations, &s.SaleDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadDetails(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateStatus cambia solo el estado (cancelación).
func (r *SaleRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.q.Exec(ctx, `UPDATE sales SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	return nil
}

// List lista ventas (con líneas) con filtros.
func (r *SaleRepo) List(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + saleColumns + ` FROM sales WHERE 1=1`)
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.WarehouseID != "" {
		sb.WriteString(" AND warehouse_id = " + arg(filter.WarehouseID))
	}
	if filter.Status != "" {
		sb.WriteString(" AND status = " + arg(filter.Status))
	}
	if filter.From != nil {
		sb.WriteString(" AND sale_date >= " + arg(*filter.From))
	}
	if filter.To != nil {
		sb.WriteString(" AND sale_date < " + arg(*filter.To))
	}
	sb.WriteString(" ORDER BY sale_date DESC")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(filter.Limit))
	}
	if filter.Offset > 0 {
		sb.WriteString(" OFFSET " + arg(filter.Offset))
	}

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(
			&s.ID, &s.SaleNumber, &s.WarehouseID, &s.CustomerID, &s.UserID, &s.PaymentMethodID,
			&s.Subtotal, &s.Discount, &s.Tax, &s.Total, &s.AmountReceived, &s.Change,
			&s.PaymentReference, &s.Status, &s.Observations, &s.SaleDate,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range list {
		if err := r.loadDetails(ctx, s); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// NumberExists indica si un folio VTA- ya está en uso.
func (r *SaleRepo) NumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM sales WHERE sale_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check sale number: %w", err)
	}
	return exists, nil
}

// DailyTotals agrega las ventas no canceladas de la bodega en el día de date,
// agrupadas por código de método de pago (cash/card/transfer).
func (r *SaleRepo) DailyTotals(ctx context.Context, warehouseID string, date time.Time) (*entity.DailySalesReport, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `
		SELECT pm.code, COALESCE(SUM(s.total), 0), COUNT(*)
		FROM sales s
		JOIN payment_methods pm ON pm.id = s.payment_method_id
		WHERE s.warehouse_id = $1 AND s.status <> 'cancelled' AND s.sale_date >= $2 AND s.sale_date < $3
		GROUP BY pm.code`
	rows, err := r.q.Query(ctx, query, warehouseID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("daily sales totals: %w", err)
	}
	defer rows.Close()

	report := &entity.DailySalesReport{
		TotalSales:      decimal.Zero,
		AverageTicket:   decimal.Zero,
		ByPaymentMethod: map[string]decimal.Decimal{},
	}
	for rows.Next() {
		var code string
		var total decimal.Decimal
		var count int
		if err := rows.Scan(&code, &total, &count); err != nil {
			return nil, fmt.Errorf("scan daily totals: %w", err)
		}
		report.ByPaymentMethod[code] = total
		report.TotalSales = report.TotalSales.Add(total)
		report.SalesCount += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if report.SalesCount > 0 {
		report.AverageTicket = report.TotalSales.Div(decimal.NewFromInt(int64(report.SalesCount)))
	}
	return report, nil
}

func (r *SaleRepo) loadDetails(ctx context.Context, sale *entity.Sale) error {
	query := `
		SELECT product_id, product_code, product_name, quantity, unit_price, subtotal, discount, total
		FROM sale_details WHERE sale_id = $1 ORDER BY product_code`
	rows, err := r.q.Query(ctx, query, sale.ID)
	if err != nil {
		return fmt.Errorf("load sale details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.SaleDetail
		if err := rows.Scan(&d.ProductID, &d.ProductCode, &d.ProductName, &d.Quantity, &d.UnitPrice, &d.Subtotal, &d.Discount, &d.Total); err != nil {
			return fmt.Errorf("scan sale detail: %w", err)
		}
		sale.Details = append(sale.Details, d)
	}
	return rows.Err()
}
