// Package quality caso de uso de registro de inspecciones: el componente
// externo de inspección remite resultados y la compuerta del lote se resuelve
// a APPROVED o REJECTED de forma atómica.
package quality

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	domquality "github.com/jhoicas/Produccion-api/internal/domain/quality"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// InspectionTxRunner transacción para resolver la compuerta: bloqueo del
// lote, cambio de estado y registro de la inspección como una unidad.
type InspectionTxRunner interface {
	RunInspection(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		inspectionRepo repository.InspectionRepository,
	) error) error
}

// RecordInspectionUseCase resuelve la compuerta de calidad de un lote.
type RecordInspectionUseCase struct {
	txRunner InspectionTxRunner
}

// NewRecordInspectionUseCase construye el caso de uso.
func NewRecordInspectionUseCase(txRunner InspectionTxRunner) *RecordInspectionUseCase {
	return &RecordInspectionUseCase{txRunner: txRunner}
}

// InspectionInput resultados remitidos por el inspector para un lote.
type InspectionInput struct {
	BatchCode   string
	InspectorID string
	Results     []entity.TestResult
	Notes       string
}

// RecordInspection evalúa los resultados (AND lógico), transiciona la
// compuerta PENDING -> APPROVED/REJECTED y persiste la inspección. Un lote ya
// resuelto devuelve ErrConflict: APPROVED y REJECTED son terminales.
func (uc *RecordInspectionUseCase) RecordInspection(ctx context.Context, in InspectionInput) (*entity.QualityInspection, error) {
	if in.BatchCode == "" {
		return nil, domain.ErrInvalidInput
	}
	status, passed, err := domquality.Resolve(in.Results)
	if err != nil {
		return nil, err
	}

	inspection := &entity.QualityInspection{
		ID:          uuid.New().String(),
		BatchCode:   in.BatchCode,
		InspectorID: in.InspectorID,
		Results:     in.Results,
		Passed:      passed,
		Notes:       in.Notes,
		CreatedAt:   time.Now(),
	}

	err = uc.txRunner.RunInspection(ctx, func(
		lotRepo repository.LotRepository,
		inspectionRepo repository.InspectionRepository,
	) error {
		lot, err := lotRepo.GetByBatchCodeForUpdate(in.BatchCode)
		if err != nil {
			return err
		}
		if !domquality.CanTransition(lot.GateStatus, status) {
			return domain.ErrConflict
		}
		if err := lotRepo.UpdateGateStatus(in.BatchCode, status); err != nil {
			return err
		}
		return inspectionRepo.Create(inspection)
	})
	if err != nil {
		return nil, err
	}
	return inspection, nil
}
