package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.InspectionRepository = (*InspectionRepo)(nil)

// InspectionRepo persistencia de inspecciones de calidad. Los resultados
// individuales se guardan como JSONB: el motor solo decide con el AND global,
// el detalle es evidencia de auditoría.
type InspectionRepo struct {
	q Querier
}

// NewInspectionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInspectionRepository(q Querier) *InspectionRepo {
	return &InspectionRepo{q: q}
}

// Create persiste la inspección de un lote.
func (r *InspectionRepo) Create(inspection *entity.QualityInspection) error {
	results, err := json.Marshal(inspection.Results)
	if err != nil {
		return fmt.Errorf("marshal inspection results: %w", err)
	}
	query := `
		INSERT INTO quality_inspections (id, batch_code, inspector_id, results, passed, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.q.Exec(context.Background(), query,
		inspection.ID, inspection.BatchCode, inspection.InspectorID,
		results, inspection.Passed, inspection.Notes, inspection.CreatedAt)
	if err != nil {
		return fmt.Errorf("create inspection: %w", err)
	}
	return nil
}
