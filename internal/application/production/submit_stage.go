package production

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/costing"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/ledger"
	"github.com/jhoicas/Produccion-api/internal/domain/lots"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// SubmitStageUseCase es el orquestador de ejecución de pasos: el único
// punto de entrada que secuencia libro de lotes, acumulador de costos,
// compuerta de calidad y asiento contable dentro de una sola transacción
// serializable (Commit o Rollback completos, nunca aplicación parcial).
type SubmitStageUseCase struct {
	txRunner       TxRunner
	routingRepo    repository.RoutingRepository
	workCenterRepo repository.WorkCenterRepository
	accounts       ledger.Accounts
}

// NewSubmitStageUseCase construye el orquestador.
func NewSubmitStageUseCase(
	txRunner TxRunner,
	routingRepo repository.RoutingRepository,
	workCenterRepo repository.WorkCenterRepository,
	accounts ledger.Accounts,
) *SubmitStageUseCase {
	return &SubmitStageUseCase{
		txRunner:       txRunner,
		routingRepo:    routingRepo,
		workCenterRepo: workCenterRepo,
		accounts:       accounts,
	}
}

// MaterialInput material adicional consumido en el paso (FIFO sobre el pool
// de lotes del ítem en la bodega de la orden).
type MaterialInput struct {
	ItemID string
	Qty    decimal.Decimal
}

// StageInput hechos físicos de la ejecución de un paso, remitidos por el
// operador. Todos los identificadores llegan como parámetros explícitos; el
// orquestador no depende de estado ambiente.
type StageInput struct {
	InputQty            decimal.Decimal
	OutputQty           decimal.Decimal
	WasteQty            decimal.Decimal
	WasteReasons        []string
	StartedAt           time.Time
	EndedAt             time.Time
	AdditionalMaterials []MaterialInput
}

// StageResult resultado de un envío exitoso.
type StageResult struct {
	BatchCode          string
	YieldPct           decimal.Decimal
	UnitCostAfterYield int64
	OverheadCost       int64
	TotalCost          int64
	IsFinalStep        bool
}

// SubmitStage registra la ejecución del paso stepNumber de la orden:
// valida el orden de secuencia (el paso n no puede registrarse antes que el
// n−1), consume el lote de entrada FIFO, acumula costos, crea el lote de
// salida con su estado de calidad inicial, emite el asiento balanceado y, si
// es el último paso de la ruta, completa la orden. Todo dentro de una sola
// transacción: cualquier error revierte el conjunto sin reintentos.
func (uc *SubmitStageUseCase) SubmitStage(ctx context.Context, workOrderID string, stepNumber int, in StageInput) (*StageResult, error) {
	// Rechazos previos a cualquier mutación.
	if workOrderID == "" || stepNumber < 1 {
		return nil, domain.ErrInvalidInput
	}
	if !in.OutputQty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidOutputQuantity
	}
	if !in.InputQty.GreaterThan(decimal.Zero) || in.WasteQty.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.EndedAt.Before(in.StartedAt) {
		return nil, domain.ErrInvalidInput
	}
	for _, m := range in.AdditionalMaterials {
		if m.ItemID == "" || !m.Qty.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	var result *StageResult
	err := uc.txRunner.Run(ctx, func(
		workOrderRepo repository.WorkOrderRepository,
		stepRepo repository.WorkOrderStepRepository,
		lotRepo repository.LotRepository,
		costRepo repository.StepCostRepository,
		journalRepo repository.JournalRepository,
	) error {
		// Bloquea la orden: dos envíos contra la misma orden se serializan aquí.
		wo, err := workOrderRepo.GetForUpdate(workOrderID)
		if err != nil {
			return err
		}
		if wo.Status == entity.WorkOrderStatusCompleted {
			return domain.ErrStepSequenceViolation
		}

		routing, err := uc.routingRepo.GetByID(wo.RoutingID)
		if err != nil {
			return err
		}
		rstep := routing.StepByNumber(stepNumber)
		if rstep == nil {
			return domain.ErrNotFound
		}

		// Validación de secuencia y de doble envío bajo el lock de la orden.
		committed, err := stepRepo.ListByWorkOrder(workOrderID)
		if err != nil {
			return err
		}
		lastCommitted := 0
		for _, st := range committed {
			if st.Status != entity.StepStatusCommitted {
				continue
			}
			if st.StepNumber == stepNumber {
				return domain.ErrDuplicateStepSubmission
			}
			if st.StepNumber > lastCommitted {
				lastCommitted = st.StepNumber
			}
		}
		if stepNumber != lastCommitted+1 {
			return domain.ErrStepSequenceViolation
		}

		wc, err := uc.workCenterRepo.GetByID(rstep.WorkCenterID)
		if err != nil {
			return err
		}

		now := time.Now()

		// Consumo del lote de entrada: pool de materia prima para el paso 1,
		// el lote producido por el paso anterior para los demás.
		var touched []*entity.InventoryLot
		var previousCost int64
		if stepNumber == 1 {
			pool, err := lotRepo.ListForConsumeForUpdate(routing.InputItemID, wo.WarehouseID)
			if err != nil {
				return err
			}
			allocs, err := lots.Consume(pool, routing.InputItemID, in.InputQty)
			if err != nil {
				return err
			}
			previousCost = lots.TotalCost(allocs)
			for _, a := range allocs {
				touched = append(touched, a.Lot)
			}
		} else {
			prev, err := lotRepo.GetByBatchCodeForUpdate(entity.StepBatchCode(workOrderID, stepNumber-1))
			if err != nil {
				return err
			}
			allocs, err := lots.Consume([]*entity.InventoryLot{prev}, prev.ItemID, in.InputQty)
			if err != nil {
				return err
			}
			previousCost = lots.TotalCost(allocs)
			for _, a := range allocs {
				touched = append(touched, a.Lot)
			}
		}

		// Materiales adicionales del paso, cada uno FIFO sobre su propio pool.
		stepID := uuid.New().String()
		var materialCost int64
		var stepMaterials []entity.StepMaterial
		for _, m := range in.AdditionalMaterials {
			pool, err := lotRepo.ListForConsumeForUpdate(m.ItemID, wo.WarehouseID)
			if err != nil {
				return err
			}
			allocs, err := lots.Consume(pool, m.ItemID, m.Qty)
			if err != nil {
				return err
			}
			cost := lots.TotalCost(allocs)
			materialCost += cost
			for _, a := range allocs {
				touched = append(touched, a.Lot)
			}
			stepMaterials = append(stepMaterials, entity.StepMaterial{
				ID:        uuid.New().String(),
				StepID:    stepID,
				ItemID:    m.ItemID,
				Qty:       m.Qty,
				Cost:      cost,
				CreatedAt: now,
			})
		}

		res, err := costing.Accumulate(costing.Input{
			PreviousStepCost:   previousCost,
			MaterialCost:       materialCost,
			LaborRatePerHour:   wc.LaborRatePerHour,
			MachineRatePerHour: wc.MachineRatePerHour,
			StartedAt:          in.StartedAt,
			EndedAt:            in.EndedAt,
			InputQty:           in.InputQty,
			OutputQty:          in.OutputQty,
		})
		if err != nil {
			return err
		}

		for _, l := range touched {
			if err := lotRepo.UpdateConsumption(l); err != nil {
				return err
			}
		}

		isFinal := stepNumber == routing.FinalStepNumber()
		batchCode := entity.StepBatchCode(workOrderID, stepNumber)
		class := entity.LotClassWIP
		if isFinal {
			batchCode = entity.FinalBatchCode(workOrderID)
			class = entity.LotClassFinishedGoods
		}
		gate := entity.GateStatusApproved
		if rstep.RequiresInspection {
			gate = entity.GateStatusPending
		}

		// El valor restante arranca en el costo total del paso: quien consuma
		// el lote completo recibe el valor exacto, residuo incluido.
		newLot := &entity.InventoryLot{
			ID:             uuid.New().String(),
			BatchCode:      batchCode,
			ItemID:         wo.ItemID,
			WarehouseID:    wo.WarehouseID,
			Class:          class,
			InitialQty:     in.OutputQty,
			RemainingQty:   in.OutputQty,
			UnitCost:       res.UnitCostAfterYield,
			RemainingValue: res.TotalCost,
			GateStatus:     gate,
			CreatedAt:      now,
		}
		if err := lotRepo.Create(newLot); err != nil {
			return err
		}

		rec := &entity.StepCostRecord{
			ID:                 uuid.New().String(),
			WorkOrderID:        workOrderID,
			StepNumber:         stepNumber,
			MaterialCost:       res.MaterialCost,
			OverheadCost:       res.OverheadCost,
			PreviousStepCost:   res.PreviousStepCost,
			TotalCost:          res.TotalCost,
			UnitCostAfterYield: res.UnitCostAfterYield,
			RoundingResidue:    res.RoundingResidue,
			OutputQty:          in.OutputQty,
			CreatedAt:          now,
		}
		if err := costRepo.Create(rec); err != nil {
			return err
		}

		entry, err := ledger.Post(uc.accounts, rec, stepNumber == 1, isFinal, batchCode, now)
		if err != nil {
			return err
		}
		// Un paso intermedio sin material propio ni gasto indirecto no genera
		// líneas; no se persiste un encabezado de asiento vacío.
		if len(entry.Lines) > 0 {
			if err := journalRepo.Create(entry); err != nil {
				return err
			}
		}

		step := &entity.WorkOrderStep{
			ID:           stepID,
			WorkOrderID:  workOrderID,
			StepNumber:   stepNumber,
			Status:       entity.StepStatusCommitted,
			InputQty:     in.InputQty,
			OutputQty:    in.OutputQty,
			WasteQty:     in.WasteQty,
			WasteReasons: in.WasteReasons,
			StartedAt:    in.StartedAt,
			EndedAt:      in.EndedAt,
			YieldPct:     res.YieldPct,
			CreatedAt:    now,
		}
		if err := stepRepo.Create(step, stepMaterials); err != nil {
			return err
		}

		if isFinal {
			if err := workOrderRepo.UpdateStatus(workOrderID, entity.WorkOrderStatusCompleted, &now); err != nil {
				return err
			}
		} else if wo.Status == entity.WorkOrderStatusDraft {
			if err := workOrderRepo.UpdateStatus(workOrderID, entity.WorkOrderStatusInProgress, nil); err != nil {
				return err
			}
		}

		result = &StageResult{
			BatchCode:          batchCode,
			YieldPct:           res.YieldPct,
			UnitCostAfterYield: res.UnitCostAfterYield,
			OverheadCost:       res.OverheadCost,
			TotalCost:          res.TotalCost,
			IsFinalStep:        isFinal,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
