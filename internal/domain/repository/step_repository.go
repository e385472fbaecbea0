package repository

import "github.com/jhoicas/Produccion-api/internal/domain/entity"

// WorkOrderStepRepository persistencia de pasos ejecutados. Los pasos son
// inmutables una vez committed: las correcciones se hacen con asientos de
// reversa, nunca editando.
type WorkOrderStepRepository interface {
	ListByWorkOrder(workOrderID string) ([]*entity.WorkOrderStep, error)
	Create(step *entity.WorkOrderStep, materials []entity.StepMaterial) error
}

// StepCostRepository persistencia de los registros de costo por paso.
type StepCostRepository interface {
	Create(rec *entity.StepCostRecord) error
	ListByWorkOrder(workOrderID string) ([]*entity.StepCostRecord, error)
}

// JournalRepository persistencia de asientos contables.
type JournalRepository interface {
	Create(entry *entity.JournalEntry) error
	ListByWorkOrder(workOrderID string) ([]*entity.JournalEntry, error)
}

// InspectionRepository persistencia de inspecciones de calidad.
type InspectionRepository interface {
	Create(inspection *entity.QualityInspection) error
}
