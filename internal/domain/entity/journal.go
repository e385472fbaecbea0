package entity

import "time"

// JournalEntry asiento contable de doble partida generado por un paso de
// producción. Invariante: la suma de débitos es exactamente igual a la suma
// de créditos (enteros de punto fijo, sin tolerancia de deriva).
type JournalEntry struct {
	ID          string
	WorkOrderID string
	StepNumber  int
	Reference   string // código de lote del paso que originó el asiento
	Date        time.Time
	Lines       []JournalLine
}

// JournalLine línea contra un código del plan de cuentas. Débito o crédito,
// nunca ambos en la misma línea.
type JournalLine struct {
	AccountCode string
	Debit       int64
	Credit      int64
}

// TotalDebits suma de los débitos del asiento.
func (e *JournalEntry) TotalDebits() int64 {
	var sum int64
	for _, l := range e.Lines {
		sum += l.Debit
	}
	return sum
}

// TotalCredits suma de los créditos del asiento.
func (e *JournalEntry) TotalCredits() int64 {
	var sum int64
	for _, l := range e.Lines {
		sum += l.Credit
	}
	return sum
}

// Balanced indica si el asiento cuadra exactamente.
func (e *JournalEntry) Balanced() bool {
	return e.TotalDebits() == e.TotalCredits()
}
