// Package money define la aritmética monetaria de punto fijo del motor de costos.
// Todos los montos se representan como int64 en unidades menores de moneda
// (centavos); nunca se usa punto flotante binario para valores que participan
// en un invariante de balance.
package money

import "github.com/shopspring/decimal"

// RoundHalfUp redondea un decimal a la unidad menor más cercana.
// Mitades siempre hacia arriba (0.5 -> 1) para reproducibilidad determinista.
// Los montos del motor son no negativos, por lo que Round de shopspring
// (half away from zero) equivale a half up.
func RoundHalfUp(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// MulQty calcula el costo de una cantidad al costo unitario dado:
// roundHalfUp(qty × unitCost).
func MulQty(unitCost int64, qty decimal.Decimal) int64 {
	return RoundHalfUp(qty.Mul(decimal.NewFromInt(unitCost)))
}

// DivQty deriva el costo unitario de un total repartido en qty unidades.
// Devuelve el costo unitario redondeado y el residuo de redondeo
// (total − unitCost×qty), que puede ser negativo si se redondeó hacia arriba.
// El residuo se registra para que los totales re-sumados cuadren al centavo.
func DivQty(total int64, qty decimal.Decimal) (unitCost, residue int64) {
	unitCost = RoundHalfUp(decimal.NewFromInt(total).Div(qty))
	residue = total - MulQty(unitCost, qty)
	return unitCost, residue
}
