// Package costing implementa el acumulador de costos por paso (servicio de
// dominio, sin dependencias de infraestructura).
//
//	totalCost = previousStepCost + materialCost + overheadCost
//	unitCostAfterYield = totalCost / outputQty  (redondeo half up, residuo registrado)
package costing

import (
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/pkg/money"
	"github.com/shopspring/decimal"
)

var hoursPerSecond = decimal.NewFromInt(3600)

// Input hechos físicos y monetarios de la ejecución de un paso.
type Input struct {
	PreviousStepCost   int64 // costo de los lotes consumidos como entrada
	MaterialCost       int64 // materiales adicionales agregados en este paso
	LaborRatePerHour   int64
	MachineRatePerHour int64
	StartedAt          time.Time
	EndedAt            time.Time
	InputQty           decimal.Decimal
	OutputQty          decimal.Decimal
}

// Result acumulación resultante. YieldPct viene redondeado a un decimal para
// presentación; el costo unitario se deriva del ratio sin redondear.
type Result struct {
	MaterialCost       int64
	OverheadCost       int64
	PreviousStepCost   int64
	TotalCost          int64
	UnitCostAfterYield int64
	RoundingResidue    int64
	YieldPct           decimal.Decimal
}

// Accumulate calcula el costo del paso y su costo unitario tras rendimiento.
//
// El gasto indirecto es horas transcurridas × (tarifa mano de obra + tarifa de
// equipo/electricidad). Puede superar el costo de materia prima por varios
// órdenes de magnitud (p.ej. liofilización de 24 h): no es un error.
//
// Falla con ErrInvalidOutputQuantity si outputQty <= 0 — un paso no puede
// absorber costo en cero unidades. Ninguna mutación ocurre antes de validar.
func Accumulate(in Input) (*Result, error) {
	if !in.OutputQty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidOutputQuantity
	}
	if !in.InputQty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.EndedAt.Before(in.StartedAt) {
		return nil, domain.ErrInvalidInput
	}
	if in.PreviousStepCost < 0 || in.MaterialCost < 0 || in.LaborRatePerHour < 0 || in.MachineRatePerHour < 0 {
		return nil, domain.ErrInvalidInput
	}

	overhead := overheadCost(in.StartedAt, in.EndedAt, in.LaborRatePerHour, in.MachineRatePerHour)
	total := in.PreviousStepCost + in.MaterialCost + overhead
	unitCost, residue := money.DivQty(total, in.OutputQty)

	yield := in.OutputQty.Div(in.InputQty).Mul(decimal.NewFromInt(100)).Round(1)

	return &Result{
		MaterialCost:       in.MaterialCost,
		OverheadCost:       overhead,
		PreviousStepCost:   in.PreviousStepCost,
		TotalCost:          total,
		UnitCostAfterYield: unitCost,
		RoundingResidue:    residue,
		YieldPct:           yield,
	}, nil
}

// overheadCost = horas (resolución de segundos) × suma de tarifas horarias,
// redondeado a la unidad menor.
func overheadCost(start, end time.Time, laborRate, machineRate int64) int64 {
	seconds := decimal.NewFromInt(int64(end.Sub(start) / time.Second))
	hours := seconds.Div(hoursPerSecond)
	return money.RoundHalfUp(hours.Mul(decimal.NewFromInt(laborRate + machineRate)))
}
