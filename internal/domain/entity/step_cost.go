package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StepCostRecord acumulación de costos de un paso de producción.
// Invariante de conservación: el TotalCost del paso k es exactamente el
// PreviousStepCost del paso k+1 cuando k+1 consume íntegro el lote producido
// por k — el valor se conserva a lo largo de la cadena, la merma solo lo
// concentra en menos unidades.
type StepCostRecord struct {
	ID                 string
	WorkOrderID        string
	StepNumber         int
	MaterialCost       int64 // materiales adicionales del paso
	OverheadCost       int64 // horas × (tarifa mano de obra + tarifa equipo)
	PreviousStepCost   int64 // costo de los lotes consumidos como entrada
	TotalCost          int64 // previous + material + overhead
	UnitCostAfterYield int64 // totalCost / outputQty, redondeo half up
	RoundingResidue    int64 // totalCost − unitCost×outputQty
	OutputQty          decimal.Decimal
	CreatedAt          time.Time
}
