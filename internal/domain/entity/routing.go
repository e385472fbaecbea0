package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Routing plantilla ordenada de pasos de producción para un ítem.
// Inmutable una vez que una orden de producción la referencia; los cambios se
// versionan creando una ruta nueva, nunca mutando en sitio.
type Routing struct {
	ID          string
	ItemID      string // ítem producido
	InputItemID string // materia prima principal consumida en el paso 1
	Version     int
	Steps       []RoutingStep // ordenados por Number
	CreatedAt   time.Time
}

// StepByNumber busca el paso con el número dado. Devuelve nil si no existe.
func (r *Routing) StepByNumber(n int) *RoutingStep {
	for i := range r.Steps {
		if r.Steps[i].Number == n {
			return &r.Steps[i]
		}
	}
	return nil
}

// FinalStepNumber devuelve el número del último paso de la ruta.
func (r *Routing) FinalStepNumber() int {
	max := 0
	for i := range r.Steps {
		if r.Steps[i].Number > max {
			max = r.Steps[i].Number
		}
	}
	return max
}

// RoutingStep un paso de la ruta: centro de trabajo, rendimiento esperado y
// si el lote de salida requiere inspección de calidad antes de consumirse.
type RoutingStep struct {
	ID                 string
	RoutingID          string
	Number             int
	Name               string
	WorkCenterID       string
	ExpectedYieldPct   decimal.Decimal
	RequiresInspection bool
}

// WorkCenter centro de trabajo con su base de tarifas de gasto indirecto.
// MachineRatePerHour puede ser cero en pasos manuales y dominar en pasos
// intensivos en energía (p.ej. liofilización de 24 horas).
type WorkCenter struct {
	ID                 string
	Name               string
	LaborRatePerHour   int64 // unidades menores por hora
	MachineRatePerHour int64 // unidades menores por hora (equipo/electricidad)
}
