package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotClass clase de un lote de inventario (suma cerrada; el manejo aguas
// abajo — cuenta contable, si aplica control de calidad — difiere por clase).
type LotClass string

const (
	LotClassRawMaterial   LotClass = "RAW_MATERIAL"
	LotClassWIP           LotClass = "WIP"
	LotClassFinishedGoods LotClass = "FINISHED_GOODS"
)

// Valid indica si la clase es una de las tres conocidas.
func (c LotClass) Valid() bool {
	switch c {
	case LotClassRawMaterial, LotClassWIP, LotClassFinishedGoods:
		return true
	}
	return false
}

// Estados del control de calidad de un lote.
// PENDING y REJECTED excluyen el lote de todo consumo; REJECTED equivale a
// cuarentena sin importar la cantidad restante.
const (
	GateStatusPending  = "PENDING"
	GateStatusApproved = "APPROVED"
	GateStatusRejected = "REJECTED"
)

// InventoryLot es la "capa" de inventario: un lote con cantidad y costo fijados
// en su creación. El costo unitario nunca se muta después de creado (costeo por
// capas, no promedio móvil); el consumo solo reduce RemainingQty y
// RemainingValue. Los lotes nunca se borran, solo se marcan agotados, para
// preservar la pista de auditoría.
type InventoryLot struct {
	ID             string
	BatchCode      string // WO-<id>-STEP-<n>, WO-<id>-FG o código de recepción
	ItemID         string
	WarehouseID    string
	Class          LotClass
	InitialQty     decimal.Decimal
	RemainingQty   decimal.Decimal
	UnitCost       int64 // unidades menores por unidad de medida base
	RemainingValue int64 // valor restante en unidades menores (lleva el residuo de redondeo)
	GateStatus     string
	IsDepleted     bool
	Seq            int64 // secuencia de inserción: desempate FIFO ante created_at idénticos
	CreatedAt      time.Time
}

// Eligible indica si el lote puede participar en un consumo FIFO:
// aprobado por calidad y no agotado.
func (l *InventoryLot) Eligible() bool {
	return l.GateStatus == GateStatusApproved && !l.IsDepleted
}
