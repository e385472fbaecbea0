package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de prueba de una inspección de calidad.
const (
	TestKindToken   = "TOKEN"   // compara contra un token esperado (pasa/no pasa)
	TestKindNumeric = "NUMERIC" // compara contra un rango inclusivo [min, max]
)

// TestResult resultado individual de una prueba de inspección.
// Para TOKEN se comparan Token y ExpectedToken; para NUMERIC se verifica
// Min <= Value <= Max (rango inclusivo).
type TestResult struct {
	Name          string
	Kind          string
	Token         string
	ExpectedToken string
	Value         decimal.Decimal
	Min           decimal.Decimal
	Max           decimal.Decimal
}

// QualityInspection registro de inspección de un lote. El resultado global es
// el AND lógico de todos los resultados individuales; lo remite el componente
// externo de inspección.
type QualityInspection struct {
	ID          string
	BatchCode   string
	InspectorID string
	Results     []TestResult
	Passed      bool
	Notes       string
	CreatedAt   time.Time
}
