package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de producción. Solo transiciones hacia adelante;
// completed es terminal.
const (
	WorkOrderStatusDraft      = "draft"
	WorkOrderStatusInProgress = "in_progress"
	WorkOrderStatusCompleted  = "completed"
)

// WorkOrder orden de producción: un ítem, una ruta y una cantidad planificada.
type WorkOrder struct {
	ID          string
	ItemID      string
	RoutingID   string
	WarehouseID string
	PlannedQty  decimal.Decimal
	Status      string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Estados de un paso de orden de producción. El envío de un paso es una sola
// operación atómica, así que el motor crea los pasos directamente en
// committed; not_started y recording describen la fase de captura en planta
// previa al envío, que vive fuera de este sistema.
const (
	StepStatusNotStarted = "not_started"
	StepStatusRecording  = "recording"
	StepStatusCommitted  = "committed"
)

// WorkOrderStep instanciación de un RoutingStep para una orden concreta.
// Inmutable una vez registrado: las correcciones requieren un asiento de
// reversa, no una edición.
type WorkOrderStep struct {
	ID           string
	WorkOrderID  string
	StepNumber   int
	Status       string
	InputQty     decimal.Decimal
	OutputQty    decimal.Decimal
	WasteQty     decimal.Decimal
	WasteReasons []string
	StartedAt    time.Time
	EndedAt      time.Time
	YieldPct     decimal.Decimal // redondeado a un decimal, solo presentación
	CreatedAt    time.Time
}

// StepMaterial material adicional consumido en un paso (no incluye el lote
// de entrada arrastrado, que se registra como costo del paso anterior).
type StepMaterial struct {
	ID        string
	StepID    string
	ItemID    string
	Qty       decimal.Decimal
	Cost      int64 // costo total del consumo FIFO, unidades menores
	CreatedAt time.Time
}
