package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.RoutingRepository = (*RoutingRepo)(nil)
var _ repository.WorkCenterRepository = (*WorkCenterRepo)(nil)

// RoutingRepo lectura de rutas (inmutables una vez referenciadas; las
// modificaciones crean una versión nueva, por eso no hay métodos de update).
type RoutingRepo struct {
	q Querier
}

// NewRoutingRepository construye el adaptador de rutas.
func NewRoutingRepository(q Querier) *RoutingRepo {
	return &RoutingRepo{q: q}
}

// GetByID obtiene la ruta con sus pasos ordenados por número.
func (r *RoutingRepo) GetByID(id string) (*entity.Routing, error) {
	query := `SELECT id, item_id, input_item_id, version, created_at FROM routings WHERE id = $1`
	var routing entity.Routing
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&routing.ID, &routing.ItemID, &routing.InputItemID, &routing.Version, &routing.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get routing: %w", err)
	}

	stepsQuery := `
		SELECT id, routing_id, number, name, work_center_id, expected_yield_pct, requires_inspection
		FROM routing_steps
		WHERE routing_id = $1
		ORDER BY number`
	rows, err := r.q.Query(context.Background(), stepsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get routing steps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s entity.RoutingStep
		if err := rows.Scan(&s.ID, &s.RoutingID, &s.Number, &s.Name,
			&s.WorkCenterID, &s.ExpectedYieldPct, &s.RequiresInspection); err != nil {
			return nil, fmt.Errorf("scan routing step: %w", err)
		}
		routing.Steps = append(routing.Steps, s)
	}
	return &routing, rows.Err()
}

// WorkCenterRepo lectura de centros de trabajo.
type WorkCenterRepo struct {
	q Querier
}

// NewWorkCenterRepository construye el adaptador de centros de trabajo.
func NewWorkCenterRepository(q Querier) *WorkCenterRepo {
	return &WorkCenterRepo{q: q}
}

// GetByID obtiene un centro de trabajo con sus tarifas horarias.
func (r *WorkCenterRepo) GetByID(id string) (*entity.WorkCenter, error) {
	query := `SELECT id, name, labor_rate_per_hour, machine_rate_per_hour FROM work_centers WHERE id = $1`
	var wc entity.WorkCenter
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&wc.ID, &wc.Name, &wc.LaborRatePerHour, &wc.MachineRatePerHour,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get work center: %w", err)
	}
	return &wc, nil
}
