package entity

import "fmt"

// Convención de códigos de lote derivados de la orden y el paso. Ser
// deterministas convierte la restricción única del código en la guarda
// contra doble envío del mismo paso.
//
//	WO-<workOrderID>-STEP-<n>  lote intermedio (WIP)
//	WO-<workOrderID>-FG        lote terminal (producto terminado)

// StepBatchCode código del lote producido por un paso intermedio.
func StepBatchCode(workOrderID string, stepNumber int) string {
	return fmt.Sprintf("WO-%s-STEP-%d", workOrderID, stepNumber)
}

// FinalBatchCode código del lote terminal de producto terminado.
func FinalBatchCode(workOrderID string) string {
	return fmt.Sprintf("WO-%s-FG", workOrderID)
}
