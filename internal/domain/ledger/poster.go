// Package ledger construye asientos de doble partida a partir de la
// acumulación de costos de un paso (servicio de dominio).
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// Accounts mapeo al plan de cuentas. Viene de configuración externa; el motor
// nunca codifica códigos contables.
type Accounts struct {
	RawMaterials  string
	WIP           string
	FinishedGoods string
	Overhead      string
}

// Post emite el asiento balanceado de un paso.
//
// Todo paso registra su propio consumo: débito a WIP por lo incorporado en
// este paso, crédito a materias primas y a gasto indirecto. El valor
// arrastrado de pasos anteriores no se re-registra — ya está en WIP desde el
// asiento del paso previo; volver a registrarlo lo contaría doble. La única
// excepción es el primer paso, cuya entrada proviene de la cuenta de materias
// primas y no de WIP, por lo que sí se traslada aquí.
//
// El paso final agrega además el traslado WIP → producto terminado por el
// costo total, dejando el saldo WIP de la orden exactamente en cero.
//
// La verificación de balance final es defensiva (ErrUnbalancedEntry): no es
// un camino normal, atrapa errores de programación antes de persistir.
func Post(accounts Accounts, rec *entity.StepCostRecord, isFirst, isFinal bool, batchCode string, now time.Time) (*entity.JournalEntry, error) {
	entry := &entity.JournalEntry{
		ID:          uuid.New().String(),
		WorkOrderID: rec.WorkOrderID,
		StepNumber:  rec.StepNumber,
		Reference:   batchCode,
		Date:        now,
	}

	materialIn := rec.MaterialCost
	if isFirst {
		// El consumo de materia prima del paso 1 entra a WIP en este asiento.
		materialIn += rec.PreviousStepCost
	}

	if materialIn+rec.OverheadCost > 0 {
		entry.Lines = append(entry.Lines, entity.JournalLine{
			AccountCode: accounts.WIP,
			Debit:       materialIn + rec.OverheadCost,
		})
	}
	if materialIn > 0 {
		entry.Lines = append(entry.Lines, entity.JournalLine{
			AccountCode: accounts.RawMaterials,
			Credit:      materialIn,
		})
	}
	if rec.OverheadCost > 0 {
		entry.Lines = append(entry.Lines, entity.JournalLine{
			AccountCode: accounts.Overhead,
			Credit:      rec.OverheadCost,
		})
	}

	if isFinal {
		entry.Lines = append(entry.Lines,
			entity.JournalLine{AccountCode: accounts.FinishedGoods, Debit: rec.TotalCost},
			entity.JournalLine{AccountCode: accounts.WIP, Credit: rec.TotalCost},
		)
	}

	if !entry.Balanced() {
		return nil, domain.ErrUnbalancedEntry
	}
	return entry, nil
}
