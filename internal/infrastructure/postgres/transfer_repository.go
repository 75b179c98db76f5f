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

var _ repository.TransferRepository = (*TransferRepo)(nil)
var _ repository.TransitRepository = (*TransitRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL
// (usable con pool o tx). Las líneas viven en transfer_details.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, transfer_number, source_warehouse_id, destination_warehouse_id, status,
	requested_by, COALESCE(approved_by::text, ''), COALESCE(dispatched_by::text, ''), COALESCE(received_by::text, ''),
	request_date, approval_date, departure_date, estimated_arrival_date, actual_arrival_date, completed_date,
	carrier, tracking_number, transport_cost, reason, notes, priority`

// Create persiste el traslado y sus líneas.
func (r *TransferRepo) Create(ctx context.Context, transfer *entity.Transfer) error {
	query := `
		INSERT INTO transfers (id, transfer_number, source_warehouse_id, destination_warehouse_id, status,
			requested_by, request_date, estimated_arrival_date, carrier, reason, notes, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		transfer.ID, transfer.TransferNumber, transfer.SourceWarehouseID, transfer.DestinationWarehouseID,
		transfer.Status, transfer.RequestedByUserID, transfer.RequestDate, transfer.EstimatedArrivalDate,
		transfer.Carrier, transfer.Reason, transfer.Notes, transfer.Priority,
	)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return r.upsertDetails(ctx, transfer)
}

// GetByID obtiene un traslado con sus líneas. Devuelve (nil, nil) si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	var t entity.Transfer
	err := r.q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.TransferNumber, &t.SourceWarehouseID, &t.DestinationWarehouseID, &t.Status,
		&t.RequestedByUserID, &t.ApprovedByUserID, &t.DispatchedByUserID, &t.ReceivedByUserID,
		&t.RequestDate, &t.ApprovalDate, &t.DepartureDate, &t.EstimatedArrivalDate, &t.ActualArrivalDate, &t.CompletedDate,
		&t.Carrier, &t.TrackingNumber, &t.TransportCost, &t.Reason, &t.Notes, &t.Priority,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if err := r.loadDetails(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update actualiza el encabezado y re-upserta las líneas (sent/received/
// discrepancy cambian en dispatch y receive).
func (r *TransferRepo) Update(ctx context.Context, transfer *entity.Transfer) error {
	query := `
		UPDATE transfers
		SET status = $2, approved_by = $3, dispatched_by = $4, received_by = $5,
			approval_date = $6, departure_date = $7, actual_arrival_date = $8, completed_date = $9,
			carrier = $10, tracking_number = $11, transport_cost = $12, reason = $13, notes = $14
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		transfer.ID, transfer.Status,
		nullIfEmpty(transfer.ApprovedByUserID), nullIfEmpty(transfer.DispatchedByUserID), nullIfEmpty(transfer.ReceivedByUserID),
		transfer.ApprovalDate, transfer.DepartureDate, transfer.ActualArrivalDate, transfer.CompletedDate,
		transfer.Carrier, transfer.TrackingNumber, transfer.TransportCost, transfer.Reason, transfer.Notes,
	)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	return r.upsertDetails(ctx, transfer)
}

// List lista traslados (con líneas) filtrando por bodega origen o destino y estado.
func (r *TransferRepo) List(ctx context.Context, filter repository.TransferFilter) ([]*entity.Transfer, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + transferColumns + ` FROM transfers WHERE 1=1`)
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.WarehouseID != "" {
		p := arg(filter.WarehouseID)
		sb.WriteString(" AND (source_warehouse_id = " + p + " OR destination_warehouse_id = " + p + ")")
	}
	if filter.Status != "" {
		sb.WriteString(" AND status = " + arg(filter.Status))
	}
	sb.WriteString(" ORDER BY request_date DESC")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(filter.Limit))
	}
	if filter.Offset > 0 {
		sb.WriteString(" OFFSET " + arg(filter.Offset))
	}

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transfer
	for rows.Next() {
		var t entity.Transfer
		if err := rows.Scan(
			&t.ID, &t.TransferNumber, &t.SourceWarehouseID, &t.DestinationWarehouseID, &t.Status,
			&t.RequestedByUserID, &t.ApprovedByUserID, &t.DispatchedByUserID, &t.ReceivedByUserID,
			&t.RequestDate, &t.ApprovalDate, &t.DepartureDate, &t.EstimatedArrivalDate, &t.ActualArrivalDate, &t.CompletedDate,
			&t.Carrier, &t.TrackingNumber, &t.TransportCost, &t.Reason, &t.Notes, &t.Priority,
		); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range list {
		if err := r.loadDetails(ctx, t); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// NumberExists indica si un folio TRF- ya está en uso.
func (r *TransferRepo) NumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM transfers WHERE transfer_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check transfer number: %w", err)
	}
	return exists, nil
}

func (r *TransferRepo) upsertDetails(ctx context.Context, transfer *entity.Transfer) error {
	query := `
		INSERT INTO transfer_details (transfer_id, product_id, product_code, product_name,
			requested_quantity, sent_quantity, received_quantity, transit_quantity, discrepancy, discrepancy_note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (transfer_id, product_id)
		DO UPDATE SET sent_quantity = EXCLUDED.sent_quantity, received_quantity = EXCLUDED.received_quantity,
			transit_quantity = EXCLUDED.transit_quantity, discrepancy = EXCLUDED.discrepancy,
			discrepancy_note = EXCLUDED.discrepancy_note`
	for _, d := range transfer.Details {
		_, err := r.q.Exec(ctx, query,
			transfer.ID, d.ProductID, d.ProductCode, d.ProductName,
			d.RequestedQuantity, d.SentQuantity, d.ReceivedQuantity, d.TransitQuantity,
			d.Discrepancy, d.DiscrepancyNote,
		)
		if err != nil {
			return fmt.Errorf("upsert transfer detail: %w", err)
		}
	}
	return nil
}

func (r *TransferRepo) loadDetails(ctx context.Context, transfer *entity.Transfer) error {
	query := `
		SELECT product_id, product_code, product_name, requested_quantity, sent_quantity,
			received_quantity, transit_quantity, discrepancy, discrepancy_note
		FROM transfer_details WHERE transfer_id = $1 ORDER BY product_code`
	rows, err := r.q.Query(ctx, query, transfer.ID)
	if err != nil {
		return fmt.Errorf("load transfer details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.TransferDetail
		if err := rows.Scan(&d.ProductID, &d.ProductCode, &d.ProductName, &d.RequestedQuantity,
			&d.SentQuantity, &d.ReceivedQuantity, &d.TransitQuantity, &d.Discrepancy, &d.DiscrepancyNote); err != nil {
			return fmt.Errorf("scan transfer detail: %w", err)
		}
		transfer.Details = append(transfer.Details, d)
	}
	return rows.Err()
}

// TransitRepo implementación de TransitRepository.
type TransitRepo struct {
	q Querier
}

// NewTransitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransitRepository(q Querier) *TransitRepo {
	return &TransitRepo{q: q}
}

// Create persiste el registro de mercancía en tránsito (uno por traslado).
func (r *TransitRepo) Create(ctx context.Context, transit *entity.GoodsInTransit) error {
	query := `
		INSERT INTO goods_in_transit (id, transfer_id, transit_status, current_location, updated_by, updated_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		transit.ID, transit.TransferID, transit.TransitStatus, transit.CurrentLocation,
		transit.UpdatedBy, transit.UpdatedAt, transit.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert goods in transit: %w", err)
	}
	return nil
}

// GetByTransferID obtiene el registro de tránsito de un traslado. (nil, nil) si no hay.
func (r *TransitRepo) GetByTransferID(ctx context.Context, transferID string) (*entity.GoodsInTransit, error) {
	query := `
		SELECT id, transfer_id, transit_status, current_location, updated_by, updated_at, notes
		FROM goods_in_transit WHERE transfer_id = $1`
	var t entity.GoodsInTransit
	err := r.q.QueryRow(ctx, query, transferID).Scan(
		&t.ID, &t.TransferID, &t.TransitStatus, &t.CurrentLocation, &t.UpdatedBy, &t.UpdatedAt, &t.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goods in transit: %w", err)
	}
	return &t, nil
}

// Update actualiza el estado de tránsito.
func (r *TransitRepo) Update(ctx context.Context, transit *entity.GoodsInTransit) error {
	query := `
		UPDATE goods_in_transit
		SET transit_status = $2, current_location = $3, updated_by = $4, updated_at = $5, notes = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		transit.ID, transit.TransitStatus, transit.CurrentLocation, transit.UpdatedBy, transit.UpdatedAt, transit.Notes,
	)
	if err != nil {
		return fmt.Errorf("update goods in transit: %w", err)
	}
	return nil
}
