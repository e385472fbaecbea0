package production

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// QueryUseCase lecturas del motor: cadena de costos de una orden, asientos
// publicados y disponibilidad elegible por ítem. Solo lectura, sin
// transacción (estado read-mostly fuera de la fila caliente de lotes).
type QueryUseCase struct {
	workOrderRepo repository.WorkOrderRepository
	costRepo      repository.StepCostRepository
	journalRepo   repository.JournalRepository
	lotRepo       repository.LotRepository
}

// NewQueryUseCase construye las consultas.
func NewQueryUseCase(
	workOrderRepo repository.WorkOrderRepository,
	costRepo repository.StepCostRepository,
	journalRepo repository.JournalRepository,
	lotRepo repository.LotRepository,
) *QueryUseCase {
	return &QueryUseCase{
		workOrderRepo: workOrderRepo,
		costRepo:      costRepo,
		journalRepo:   journalRepo,
		lotRepo:       lotRepo,
	}
}

// WorkOrderCosts cadena de costos de la orden con su cabecera.
type WorkOrderCosts struct {
	WorkOrder *entity.WorkOrder
	Steps     []*entity.StepCostRecord
}

// GetWorkOrderCosts devuelve los registros de costo por paso, en orden.
func (uc *QueryUseCase) GetWorkOrderCosts(_ context.Context, workOrderID string) (*WorkOrderCosts, error) {
	wo, err := uc.workOrderRepo.GetByID(workOrderID)
	if err != nil {
		return nil, err
	}
	steps, err := uc.costRepo.ListByWorkOrder(workOrderID)
	if err != nil {
		return nil, err
	}
	return &WorkOrderCosts{WorkOrder: wo, Steps: steps}, nil
}

// GetWorkOrderJournal devuelve los asientos publicados por la orden.
func (uc *QueryUseCase) GetWorkOrderJournal(_ context.Context, workOrderID string) ([]*entity.JournalEntry, error) {
	if _, err := uc.workOrderRepo.GetByID(workOrderID); err != nil {
		return nil, err
	}
	return uc.journalRepo.ListByWorkOrder(workOrderID)
}

// GetAvailability suma la cantidad elegible (aprobada, no agotada) de un ítem
// por bodega — la consulta que la regla de exclusión de la compuerta de
// calidad hace significativa.
func (uc *QueryUseCase) GetAvailability(_ context.Context, itemID string) ([]repository.ItemAvailability, error) {
	return uc.lotRepo.AvailableByItem(itemID)
}
