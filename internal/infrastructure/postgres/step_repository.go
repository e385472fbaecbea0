package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.WorkOrderStepRepository = (*StepRepo)(nil)

// StepRepo persistencia de pasos ejecutados sobre PostgreSQL.
type StepRepo struct {
	q Querier
}

// NewStepRepository construye el adaptador de pasos. Pasar pool o tx (Querier).
func NewStepRepository(q Querier) *StepRepo {
	return &StepRepo{q: q}
}

// ListByWorkOrder devuelve los pasos registrados de una orden, en orden.
func (r *StepRepo) ListByWorkOrder(workOrderID string) ([]*entity.WorkOrderStep, error) {
	query := `
		SELECT id, work_order_id, step_number, status, input_qty, output_qty,
		       waste_qty, waste_reasons, started_at, ended_at, yield_pct, created_at
		FROM work_order_steps
		WHERE work_order_id = $1
		ORDER BY step_number`
	rows, err := r.q.Query(context.Background(), query, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("list work order steps: %w", err)
	}
	defer rows.Close()

	var steps []*entity.WorkOrderStep
	for rows.Next() {
		var s entity.WorkOrderStep
		if err := rows.Scan(&s.ID, &s.WorkOrderID, &s.StepNumber, &s.Status,
			&s.InputQty, &s.OutputQty, &s.WasteQty, &s.WasteReasons,
			&s.StartedAt, &s.EndedAt, &s.YieldPct, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan work order step: %w", err)
		}
		steps = append(steps, &s)
	}
	return steps, rows.Err()
}

// Create persiste el paso ejecutado y sus materiales adicionales.
// El constraint único (work_order_id, step_number) es la última línea de
// defensa contra el doble envío del mismo paso.
func (r *StepRepo) Create(step *entity.WorkOrderStep, materials []entity.StepMaterial) error {
	query := `
		INSERT INTO work_order_steps
			(id, work_order_id, step_number, status, input_qty, output_qty,
			 waste_qty, waste_reasons, started_at, ended_at, yield_pct, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		step.ID, step.WorkOrderID, step.StepNumber, step.Status,
		step.InputQty, step.OutputQty, step.WasteQty, step.WasteReasons,
		step.StartedAt, step.EndedAt, step.YieldPct, step.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateStepSubmission
		}
		return fmt.Errorf("create work order step: %w", err)
	}

	for _, m := range materials {
		matQuery := `
			INSERT INTO step_materials (id, step_id, item_id, qty, cost, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := r.q.Exec(context.Background(), matQuery,
			m.ID, m.StepID, m.ItemID, m.Qty, m.Cost, m.CreatedAt); err != nil {
			return fmt.Errorf("create step material: %w", err)
		}
	}
	return nil
}
