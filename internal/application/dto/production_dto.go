package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubmitStageRequest hechos de ejecución de un paso remitidos por el operador.
type SubmitStageRequest struct {
	InputQty            decimal.Decimal         `json:"input_qty"`
	OutputQty           decimal.Decimal         `json:"output_qty"`
	WasteQty            decimal.Decimal         `json:"waste_qty"`
	WasteReasons        []string                `json:"waste_reasons"`
	StartTime           time.Time               `json:"start_time"`
	EndTime             time.Time               `json:"end_time"`
	AdditionalMaterials []AdditionalMaterialDTO `json:"additional_materials"`
}

// AdditionalMaterialDTO material adicional consumido en el paso.
type AdditionalMaterialDTO struct {
	ItemID string          `json:"item_id"`
	Qty    decimal.Decimal `json:"qty"`
}

// SubmitStageResponse resultado de un envío exitoso.
type SubmitStageResponse struct {
	Success            bool            `json:"success"`
	BatchCode          string          `json:"batch_code"`
	YieldPercent       decimal.Decimal `json:"yield_percent"`
	UnitCostAfterYield int64           `json:"unit_cost_after_yield"`
	OverheadCost       int64           `json:"overhead_cost"`
	IsFinalStep        bool            `json:"is_final_step"`
}

// ReceiveMaterialRequest recepción de materia prima al pool FIFO.
type ReceiveMaterialRequest struct {
	BatchCode          string          `json:"batch_code"`
	ItemID             string          `json:"item_id"`
	WarehouseID        string          `json:"warehouse_id"`
	Qty                decimal.Decimal `json:"qty"`
	UnitCost           int64           `json:"unit_cost"`
	RequiresInspection bool            `json:"requires_inspection"`
}

// TestResultDTO resultado individual de una prueba de inspección.
// kind TOKEN usa token/expected_token; kind NUMERIC usa value/min/max.
type TestResultDTO struct {
	Name          string          `json:"name"`
	Kind          string          `json:"kind"`
	Token         string          `json:"token"`
	ExpectedToken string          `json:"expected_token"`
	Value         decimal.Decimal `json:"value"`
	Min           decimal.Decimal `json:"min"`
	Max           decimal.Decimal `json:"max"`
}

// RecordInspectionRequest resultados de inspección de un lote.
type RecordInspectionRequest struct {
	InspectorID string          `json:"inspector_id"`
	Notes       string          `json:"notes"`
	Results     []TestResultDTO `json:"results"`
}

// StepCostDTO registro de costos de un paso para respuestas de consulta.
type StepCostDTO struct {
	StepNumber         int             `json:"step_number"`
	MaterialCost       int64           `json:"material_cost"`
	OverheadCost       int64           `json:"overhead_cost"`
	PreviousStepCost   int64           `json:"previous_step_cost"`
	TotalCost          int64           `json:"total_cost"`
	UnitCostAfterYield int64           `json:"unit_cost_after_yield"`
	RoundingResidue    int64           `json:"rounding_residue"`
	OutputQty          decimal.Decimal `json:"output_qty"`
}

// JournalLineDTO línea de asiento para respuestas de consulta.
type JournalLineDTO struct {
	AccountCode string `json:"account_code"`
	Debit       int64  `json:"debit"`
	Credit      int64  `json:"credit"`
}

// JournalEntryDTO asiento publicado por un paso.
type JournalEntryDTO struct {
	StepNumber int              `json:"step_number"`
	Reference  string           `json:"reference"`
	Date       time.Time        `json:"date"`
	Lines      []JournalLineDTO `json:"lines"`
}

// AvailabilityDTO cantidad elegible de un ítem por bodega.
type AvailabilityDTO struct {
	WarehouseID string          `json:"warehouse_id"`
	Qty         decimal.Decimal `json:"qty"`
}
