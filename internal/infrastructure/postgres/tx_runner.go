package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/application/quality"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ production.TxRunner = (*TxRunner)(nil)
var _ quality.InspectionTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL serializable.
// Es la frontera de atomicidad del motor: consumo de lotes, creación del lote
// de salida y asiento contable se confirman juntos o se revierten juntos.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción serializable, ejecuta fn con repos atados a la tx
// y hace Commit o Rollback. Usada por el orquestador de envío de pasos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	workOrderRepo repository.WorkOrderRepository,
	stepRepo repository.WorkOrderStepRepository,
	lotRepo repository.LotRepository,
	costRepo repository.StepCostRepository,
	journalRepo repository.JournalRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	workOrderRepo := NewWorkOrderRepository(tx)
	stepRepo := NewStepRepository(tx)
	lotRepo := NewLotRepository(tx)
	costRepo := NewCostRepository(tx)
	journalRepo := NewJournalRepository(tx)

	if err := fn(workOrderRepo, stepRepo, lotRepo, costRepo, journalRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunInspection inicia una transacción para resolver la compuerta de calidad
// de un lote (bloqueo del lote + cambio de estado + registro de inspección).
func (r *TxRunner) RunInspection(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	inspectionRepo repository.InspectionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lotRepo := NewLotRepository(tx)
	inspectionRepo := NewInspectionRepository(tx)

	if err := fn(lotRepo, inspectionRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
