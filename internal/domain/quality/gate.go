// Package quality implementa la compuerta de calidad por lote:
// PENDING -> {APPROVED | REJECTED}, ambos terminales. Un lote REJECTED queda
// en cuarentena: excluido de todo consumo sin importar su cantidad restante.
package quality

import (
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// Resolve calcula el estado resultante de una inspección: AND lógico de todos
// los resultados individuales. Falla con ErrInvalidInput si no hay resultados
// o algún resultado está mal formado.
func Resolve(results []entity.TestResult) (status string, passed bool, err error) {
	if len(results) == 0 {
		return "", false, domain.ErrInvalidInput
	}
	passed = true
	for _, r := range results {
		ok, err := Evaluate(r)
		if err != nil {
			return "", false, err
		}
		passed = passed && ok
	}
	if passed {
		return entity.GateStatusApproved, true, nil
	}
	return entity.GateStatusRejected, false, nil
}

// Evaluate evalúa un resultado individual. Las pruebas TOKEN comparan contra
// el token esperado; las NUMERIC verifican el rango inclusivo [min, max].
func Evaluate(r entity.TestResult) (bool, error) {
	switch r.Kind {
	case entity.TestKindToken:
		if r.ExpectedToken == "" {
			return false, domain.ErrInvalidInput
		}
		return r.Token == r.ExpectedToken, nil
	case entity.TestKindNumeric:
		if r.Min.GreaterThan(r.Max) {
			return false, domain.ErrInvalidInput
		}
		return r.Value.GreaterThanOrEqual(r.Min) && r.Value.LessThanOrEqual(r.Max), nil
	default:
		return false, domain.ErrInvalidInput
	}
}

// CanTransition indica si un lote puede pasar del estado from al estado to.
// Solo PENDING admite transiciones; APPROVED y REJECTED son terminales.
func CanTransition(from, to string) bool {
	if from != entity.GateStatusPending {
		return false
	}
	return to == entity.GateStatusApproved || to == entity.GateStatusRejected
}
