package production

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza la atomicidad del envío de un paso:
// consumo de lotes, creación del lote de salida y asiento contable se aplican
// como una sola unidad o no se aplican en absoluto.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		workOrderRepo repository.WorkOrderRepository,
		stepRepo repository.WorkOrderStepRepository,
		lotRepo repository.LotRepository,
		costRepo repository.StepCostRepository,
		journalRepo repository.JournalRepository,
	) error) error
}
