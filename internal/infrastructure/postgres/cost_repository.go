package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.StepCostRepository = (*CostRepo)(nil)

// CostRepo persistencia de registros de costo por paso.
type CostRepo struct {
	q Querier
}

// NewCostRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCostRepository(q Querier) *CostRepo {
	return &CostRepo{q: q}
}

// Create persiste la acumulación de costos de un paso.
func (r *CostRepo) Create(rec *entity.StepCostRecord) error {
	query := `
		INSERT INTO step_cost_records
			(id, work_order_id, step_number, material_cost, overhead_cost,
			 previous_step_cost, total_cost, unit_cost_after_yield,
			 rounding_residue, output_qty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		rec.ID, rec.WorkOrderID, rec.StepNumber, rec.MaterialCost, rec.OverheadCost,
		rec.PreviousStepCost, rec.TotalCost, rec.UnitCostAfterYield,
		rec.RoundingResidue, rec.OutputQty, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("create step cost record: %w", err)
	}
	return nil
}

// ListByWorkOrder devuelve la cadena de costos de una orden, por paso.
func (r *CostRepo) ListByWorkOrder(workOrderID string) ([]*entity.StepCostRecord, error) {
	query := `
		SELECT id, work_order_id, step_number, material_cost, overhead_cost,
		       previous_step_cost, total_cost, unit_cost_after_yield,
		       rounding_residue, output_qty, created_at
		FROM step_cost_records
		WHERE work_order_id = $1
		ORDER BY step_number`
	rows, err := r.q.Query(context.Background(), query, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("list step cost records: %w", err)
	}
	defer rows.Close()

	var recs []*entity.StepCostRecord
	for rows.Next() {
		var rec entity.StepCostRecord
		if err := rows.Scan(&rec.ID, &rec.WorkOrderID, &rec.StepNumber,
			&rec.MaterialCost, &rec.OverheadCost, &rec.PreviousStepCost,
			&rec.TotalCost, &rec.UnitCostAfterYield, &rec.RoundingResidue,
			&rec.OutputQty, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan step cost record: %w", err)
		}
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}
