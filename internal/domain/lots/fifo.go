// Package lots implementa la lógica pura de consumo FIFO del libro de lotes
// (servicio de dominio). El orden es estrictamente por secuencia de creación,
// nunca por costo unitario.
package lots

import (
	"sort"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/pkg/money"
	"github.com/shopspring/decimal"
)

// Allocation una porción tomada de un lote durante un consumo FIFO.
type Allocation struct {
	Lot      *entity.InventoryLot
	Qty      decimal.Decimal
	Cost     int64 // unidades menores; al agotar el lote se cobra su valor restante completo
	UnitCost int64
}

// Consume toma required unidades de los lotes dados en orden FIFO estricto:
// created_at ascendente, desempate por secuencia de inserción para FIFO
// determinista ante recepciones del mismo instante. Solo participan lotes
// elegibles (aprobados por calidad, no agotados); PENDING y REJECTED quedan
// excluidos sin importar su cantidad restante.
//
// Muta RemainingQty, RemainingValue e IsDepleted de los lotes tocados.
// El consumo que agota un lote se cobra por el valor restante del lote, no
// por qty×unitCost: así el residuo de redondeo viaja con el último consumidor
// y el valor se conserva exacto a lo largo de cadenas de pasos arbitrarias.
//
// Si la suma elegible no cubre required devuelve InsufficientStockError con
// el faltante exacto y no consume nada.
func Consume(lotsIn []*entity.InventoryLot, itemID string, required decimal.Decimal) ([]Allocation, error) {
	if !required.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	eligible := make([]*entity.InventoryLot, 0, len(lotsIn))
	available := decimal.Zero
	for _, l := range lotsIn {
		if l.Eligible() {
			eligible = append(eligible, l)
			available = available.Add(l.RemainingQty)
		}
	}
	if available.LessThan(required) {
		return nil, &domain.InsufficientStockError{ItemID: itemID, Required: required, Available: available}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].CreatedAt.Equal(eligible[j].CreatedAt) {
			return eligible[i].Seq < eligible[j].Seq
		}
		return eligible[i].CreatedAt.Before(eligible[j].CreatedAt)
	})

	var allocs []Allocation
	remaining := required
	for _, lot := range eligible {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		take := decimal.Min(remaining, lot.RemainingQty)
		depletes := take.Equal(lot.RemainingQty)

		var cost int64
		if depletes {
			cost = lot.RemainingValue
		} else {
			cost = money.MulQty(lot.UnitCost, take)
			// Un unitario redondeado hacia arriba puede hacer que qty×unitCost
			// supere el valor restante del lote; el cobro se limita a lo que el
			// lote aún vale para que RemainingValue nunca quede negativo.
			if cost > lot.RemainingValue {
				cost = lot.RemainingValue
			}
		}

		lot.RemainingQty = lot.RemainingQty.Sub(take)
		lot.RemainingValue -= cost
		lot.IsDepleted = lot.RemainingQty.IsZero()

		allocs = append(allocs, Allocation{Lot: lot, Qty: take, Cost: cost, UnitCost: lot.UnitCost})
		remaining = remaining.Sub(take)
	}
	return allocs, nil
}

// TotalCost suma el costo de todas las porciones de un consumo.
func TotalCost(allocs []Allocation) int64 {
	var sum int64
	for _, a := range allocs {
		sum += a.Cost
	}
	return sum
}
