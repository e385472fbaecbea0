package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

// WorkOrderRepo implementación de WorkOrderRepository sobre PostgreSQL.
type WorkOrderRepo struct {
	q Querier
}

// NewWorkOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkOrderRepository(q Querier) *WorkOrderRepo {
	return &WorkOrderRepo{q: q}
}

const workOrderColumns = `id, item_id, routing_id, warehouse_id, planned_qty, status, created_at, completed_at`

func scanWorkOrder(row pgx.Row) (*entity.WorkOrder, error) {
	var wo entity.WorkOrder
	err := row.Scan(&wo.ID, &wo.ItemID, &wo.RoutingID, &wo.WarehouseID,
		&wo.PlannedQty, &wo.Status, &wo.CreatedAt, &wo.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

// GetByID obtiene una orden de producción.
func (r *WorkOrderRepo) GetByID(id string) (*entity.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE id = $1`
	wo, err := scanWorkOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get work order: %w", err)
	}
	return wo, nil
}

// GetForUpdate obtiene y bloquea la orden (SELECT FOR UPDATE): dos envíos
// concurrentes contra la misma orden se serializan sobre esta fila.
func (r *WorkOrderRepo) GetForUpdate(id string) (*entity.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE id = $1 FOR UPDATE`
	wo, err := scanWorkOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get work order for update: %w", err)
	}
	return wo, nil
}

// UpdateStatus avanza el estado de la orden.
func (r *WorkOrderRepo) UpdateStatus(id, status string, completedAt *time.Time) error {
	query := `UPDATE work_orders SET status = $2, completed_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status, completedAt)
	if err != nil {
		return fmt.Errorf("update work order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
