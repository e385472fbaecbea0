package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Taxonomía del motor de costos de producción.
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrInvalidOutputQuantity   = errors.New("cantidad de salida inválida")
	ErrStepSequenceViolation   = errors.New("paso fuera de secuencia de la ruta")
	ErrDuplicateStepSubmission = errors.New("paso ya registrado")
	ErrDuplicateBatchCode      = errors.New("código de lote duplicado")
	// ErrUnbalancedEntry es una violación de invariante interna: un asiento
	// construido cuyo débito no cuadra con el crédito. Nunca debe ser
	// observable en producción; existe para atrapar errores de programación.
	ErrUnbalancedEntry = errors.New("asiento descuadrado")
)

// InsufficientStockError reporta el faltante exacto (required − available)
// para que el orquestador lo exponga sin re-consultar. Ningún consumo parcial
// ocurre cuando se produce este error.
type InsufficientStockError struct {
	ItemID    string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente del ítem %s: faltan %s (requerido %s, disponible %s)",
		e.ItemID, e.Shortfall().String(), e.Required.String(), e.Available.String())
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// Shortfall devuelve el faltante exacto.
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Required.Sub(e.Available)
}
