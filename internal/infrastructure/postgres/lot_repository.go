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

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación del libro de lotes sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, batch_code, item_id, warehouse_id, class, initial_qty,
		remaining_qty, unit_cost, remaining_value, gate_status, is_depleted, seq, created_at`

func scanLot(row pgx.Row) (*entity.InventoryLot, error) {
	var l entity.InventoryLot
	err := row.Scan(
		&l.ID, &l.BatchCode, &l.ItemID, &l.WarehouseID, &l.Class, &l.InitialQty,
		&l.RemainingQty, &l.UnitCost, &l.RemainingValue, &l.GateStatus, &l.IsDepleted, &l.Seq, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListForConsumeForUpdate devuelve los lotes elegibles en orden FIFO estricto
// (created_at, desempate por seq) y bloquea las filas: dos consumidores
// concurrentes del mismo pool (item, warehouse) se serializan aquí, evitando
// el lost-update sobre remaining_qty.
func (r *LotRepo) ListForConsumeForUpdate(itemID, warehouseID string) ([]*entity.InventoryLot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM inventory_lots
		WHERE item_id = $1 AND warehouse_id = $2
		  AND gate_status = 'APPROVED' AND is_depleted = false
		ORDER BY created_at, seq
		FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, itemID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list lots for consume: %w", err)
	}
	defer rows.Close()

	var lots []*entity.InventoryLot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		lots = append(lots, l)
	}
	return lots, rows.Err()
}

// GetByBatchCodeForUpdate obtiene y bloquea un lote por su código.
func (r *LotRepo) GetByBatchCodeForUpdate(batchCode string) (*entity.InventoryLot, error) {
	query := `SELECT ` + lotColumns + ` FROM inventory_lots WHERE batch_code = $1 FOR UPDATE`
	l, err := scanLot(r.q.QueryRow(context.Background(), query, batchCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get lot for update: %w", err)
	}
	return l, nil
}

// GetByBatchCode obtiene un lote por su código sin bloquear.
func (r *LotRepo) GetByBatchCode(batchCode string) (*entity.InventoryLot, error) {
	query := `SELECT ` + lotColumns + ` FROM inventory_lots WHERE batch_code = $1`
	l, err := scanLot(r.q.QueryRow(context.Background(), query, batchCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return l, nil
}

// Create inserta el lote. seq lo asigna la secuencia de la tabla: desempate
// FIFO determinista para recepciones del mismo instante.
func (r *LotRepo) Create(lot *entity.InventoryLot) error {
	query := `
		INSERT INTO inventory_lots
			(id, batch_code, item_id, warehouse_id, class, initial_qty,
			 remaining_qty, unit_cost, remaining_value, gate_status, is_depleted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING seq`
	err := r.q.QueryRow(context.Background(), query,
		lot.ID, lot.BatchCode, lot.ItemID, lot.WarehouseID, lot.Class, lot.InitialQty,
		lot.RemainingQty, lot.UnitCost, lot.RemainingValue, lot.GateStatus, lot.IsDepleted, lot.CreatedAt,
	).Scan(&lot.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBatchCode
		}
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

// UpdateConsumption persiste el efecto de un consumo FIFO. El CHECK
// remaining_qty >= 0 de la tabla respalda el invariante del dominio; unit_cost
// jamás se toca.
func (r *LotRepo) UpdateConsumption(lot *entity.InventoryLot) error {
	query := `
		UPDATE inventory_lots
		SET remaining_qty = $2, remaining_value = $3, is_depleted = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.RemainingQty, lot.RemainingValue, lot.IsDepleted)
	if err != nil {
		return fmt.Errorf("update lot consumption: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateGateStatus cambia el estado de calidad del lote.
func (r *LotRepo) UpdateGateStatus(batchCode, status string) error {
	query := `UPDATE inventory_lots SET gate_status = $2 WHERE batch_code = $1`
	tag, err := r.q.Exec(context.Background(), query, batchCode, status)
	if err != nil {
		return fmt.Errorf("update gate status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AvailableByItem suma la cantidad elegible por bodega.
func (r *LotRepo) AvailableByItem(itemID string) ([]repository.ItemAvailability, error) {
	query := `
		SELECT warehouse_id, COALESCE(SUM(remaining_qty), 0)
		FROM inventory_lots
		WHERE item_id = $1 AND gate_status = 'APPROVED' AND is_depleted = false
		GROUP BY warehouse_id
		ORDER BY warehouse_id`
	rows, err := r.q.Query(context.Background(), query, itemID)
	if err != nil {
		return nil, fmt.Errorf("available by item: %w", err)
	}
	defer rows.Close()

	var out []repository.ItemAvailability
	for rows.Next() {
		var a repository.ItemAvailability
		if err := rows.Scan(&a.WarehouseID, &a.Qty); err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
