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

var _ repository.IncidentRepository = (*IncidentRepo)(nil)

// IncidentRepo implementación de IncidentRepository sobre PostgreSQL.
// Las líneas y la evidencia se escriben al crear y no cambian después;
// Update solo toca el encabezado (estado, acciones, impacto, resolución).
type IncidentRepo struct {
	q Querier
}

// NewIncidentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIncidentRepository(q Querier) *IncidentRepo {
	return &IncidentRepo{q: q}
}

const incidentColumns = `id, incident_number, incident_type, warehouse_id, reported_by, status,
	description, actions_taken, economic_impact, priority,
	COALESCE(reference_id::text, ''), reference_type, incident_date, resolution_date, COALESCE(resolution_responsible::text, '')`

// Create persiste la incidencia con líneas y evidencia.
func (r *IncidentRepo) Create(ctx context.Context, incident *entity.Incident) error {
	query := `
		INSERT INTO incidents (id, incident_number, incident_type, warehouse_id, reported_by, status,
			description, actions_taken, economic_impact, priority, reference_id, reference_type, incident_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		incident.ID, incident.IncidentNumber, incident.IncidentType, incident.WarehouseID,
		incident.ReportedByUserID, incident.Status, incident.Description, incident.ActionsTaken,
		incident.EconomicImpact, incident.Priority, nullIfEmpty(incident.ReferenceID),
		incident.ReferenceType, incident.IncidentDate,
	)
	if err != nil {
		return fmt.Errorf("insert incident: %w", err)
	}

	detailQuery := `
		INSERT INTO incident_details (incident_id, product_id, product_code, product_name, affected_quantity, unit_cost, total_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, d := range incident.Details {
		if _, err := r.q.Exec(ctx, detailQuery,
			incident.ID, d.ProductID, d.ProductCode, d.ProductName, d.AffectedQuantity, d.UnitCost, d.TotalCost,
		); err != nil {
			return fmt.Errorf("insert incident detail: %w", err)
		}
	}
	evidenceQuery := `
		INSERT INTO incident_evidence (incident_id, file_path, file_type, description, upload_date)
		VALUES ($1, $2, $3, $4, $5)`
	for _, e := range incident.Evidence {
		if _, err := r.q.Exec(ctx, evidenceQuery,
			incident.ID, e.FilePath, e.FileType, e.Description, e.UploadDate,
		); err != nil {
			return fmt.Errorf("insert incident evidence: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una incidencia con líneas y evidencia. (nil, nil) si no existe.
func (r *IncidentRepo) GetByID(ctx context.Context, id string) (*entity.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1`
	var i entity.Incident
	err := r.q.QueryRow(ctx, query, id).Scan(
		&i.ID, &i.IncidentNumber, &i.IncidentType, &i.WarehouseID, &i.ReportedByUserID, &i.Status,
		&i.Description, &i.ActionsTaken, &i.EconomicImpact, &i.Priority,
		&i.ReferenceID, &i.ReferenceType, &i.IncidentDate, &i.ResolutionDate, &i.ResolutionResponsibleID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get incident: %w", err)
	}
	if err := r.loadChildren(ctx, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

// Update actualiza el encabezado (transiciones de estado y resolución).
func (r *IncidentRepo) Update(ctx context.Context, incident *entity.Incident) error {
	query := `
		UPDATE incidents
		SET status = $2, actions_taken = $3, economic_impact = $4, priority = $5,
			resolution_date = $6, resolution_responsible = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		incident.ID, incident.Status, incident.ActionsTaken, incident.EconomicImpact, incident.Priority,
		incident.ResolutionDate, nullIfEmpty(incident.ResolutionResponsibleID),
	)
	if err != nil {
		return fmt.Errorf("update incident: %w", err)
	}
	return nil
}

// List lista incidencias (con líneas) con filtros.
func (r *IncidentRepo) List(ctx context.Context, filter repository.IncidentFilter) ([]*entity.Incident, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + incidentColumns + ` FROM incidents WHERE 1=1`)
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
	if filter.Priority != "" {
		sb.WriteString(" AND priority = " + arg(filter.Priority))
	}
	sb.WriteString(" ORDER BY incident_date DESC")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(filter.Limit))
	}
	if filter.Offset > 0 {
		sb.WriteString(" OFFSET " + arg(filter.Offset))
	}

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()
	var list []*entity.Incident
	for rows.Next() {
		var i entity.Incident
		if err := rows.Scan(
			&i.ID, &i.IncidentNumber, &i.IncidentType, &i.WarehouseID, &i.ReportedByUserID, &i.Status,
			&i.Description, &i.ActionsTaken, &i.EconomicImpact, &i.Priority,
			&i.ReferenceID, &i.ReferenceType, &i.IncidentDate, &i.ResolutionDate, &i.ResolutionResponsibleID,
		); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		list = append(list, &i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, i := range list {
		if err := r.loadChildren(ctx, i); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// NumberExists indica si un folio INC- ya está en uso.
func (r *IncidentRepo) NumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM incidents WHERE incident_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check incident number: %w", err)
	}
	return exists, nil
}

func (r *IncidentRepo) loadChildren(ctx context.Context, incident *entity.Incident) error {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, product_code, product_name, affected_quantity, unit_cost, total_cost
		FROM incident_details WHERE incident_id = $1 ORDER BY product_code`, incident.ID)
	if err != nil {
		return fmt.Errorf("load incident details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.IncidentDetail
		if err := rows.Scan(&d.ProductID, &d.ProductCode, &d.ProductName, &d.AffectedQuantity, &d.UnitCost, &d.TotalCost); err != nil {
			return fmt.Errorf("scan incident detail: %w", err)
		}
		incident.Details = append(incident.Details, d)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	evRows, err := r.q.Query(ctx, `
		SELECT file_path, file_type, description, upload_date
		FROM incident_evidence WHERE incident_id = $1 ORDER BY upload_date`, incident.ID)
	if err != nil {
		return fmt.Errorf("load incident evidence: %w", err)
	}
	defer evRows.Close()
	for evRows.Next() {
		var e entity.IncidentEvidence
		if err := evRows.Scan(&e.FilePath, &e.FileType, &e.Description, &e.UploadDate); err != nil {
			return fmt.Errorf("scan incident evidence: %w", err)
		}
		incident.Evidence = append(incident.Evidence, e)
	}
	return evRows.Err()
}
