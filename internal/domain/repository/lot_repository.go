package repository

import (
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ItemAvailability cantidad elegible (aprobada, no agotada) por bodega.
type ItemAvailability struct {
	WarehouseID string
	Qty         decimal.Decimal
}

// LotRepository persistencia del libro de lotes. Los lotes nunca se borran:
// el consumo reduce remaining_qty/remaining_value y marca is_depleted.
type LotRepository interface {
	// ListForConsumeForUpdate devuelve los lotes elegibles de un ítem en una
	// bodega, en orden FIFO (created_at, seq), bloqueando las filas
	// (SELECT FOR UPDATE) para serializar consumidores concurrentes.
	ListForConsumeForUpdate(itemID, warehouseID string) ([]*entity.InventoryLot, error)
	// GetByBatchCodeForUpdate obtiene y bloquea un lote por su código.
	// Devuelve ErrNotFound si no existe.
	GetByBatchCodeForUpdate(batchCode string) (*entity.InventoryLot, error)
	// GetByBatchCode obtiene un lote por su código sin bloquear.
	GetByBatchCode(batchCode string) (*entity.InventoryLot, error)
	// Create inserta un lote nuevo. Devuelve ErrDuplicateBatchCode si el
	// código ya existe (guarda contra doble creación / re-entrada de pasos).
	Create(lot *entity.InventoryLot) error
	// UpdateConsumption persiste remaining_qty, remaining_value e is_depleted
	// tras un consumo FIFO. Nunca toca unit_cost.
	UpdateConsumption(lot *entity.InventoryLot) error
	// UpdateGateStatus cambia el estado de calidad de un lote.
	UpdateGateStatus(batchCode, status string) error
	// AvailableByItem suma la cantidad elegible por bodega para un ítem.
	AvailableByItem(itemID string) ([]ItemAvailability, error)
}
