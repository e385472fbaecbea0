package production

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/pkg/money"
	"github.com/shopspring/decimal"
)

// ReceiveMaterialUseCase registra la recepción de materia prima: crea el lote
// RAW_MATERIAL que alimenta el pool FIFO. Es la otra única vía de creación de
// lotes además de la finalización de un paso.
type ReceiveMaterialUseCase struct {
	lotRepo repository.LotRepository
}

// NewReceiveMaterialUseCase construye el caso de uso.
func NewReceiveMaterialUseCase(lotRepo repository.LotRepository) *ReceiveMaterialUseCase {
	return &ReceiveMaterialUseCase{lotRepo: lotRepo}
}

// ReceiptInput datos de una recepción de materia prima.
type ReceiptInput struct {
	BatchCode          string
	ItemID             string
	WarehouseID        string
	Qty                decimal.Decimal
	UnitCost           int64 // unidades menores por unidad de medida base
	RequiresInspection bool  // true: el lote nace PENDING y no es consumible hasta aprobarse
}

// ReceiveMaterial crea el lote de recepción. Devuelve ErrDuplicateBatchCode
// si el código ya existe.
func (uc *ReceiveMaterialUseCase) ReceiveMaterial(_ context.Context, in ReceiptInput) (*entity.InventoryLot, error) {
	if in.BatchCode == "" || in.ItemID == "" || in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Qty.GreaterThan(decimal.Zero) || in.UnitCost < 0 {
		return nil, domain.ErrInvalidInput
	}

	gate := entity.GateStatusApproved
	if in.RequiresInspection {
		gate = entity.GateStatusPending
	}
	lot := &entity.InventoryLot{
		ID:             uuid.New().String(),
		BatchCode:      in.BatchCode,
		ItemID:         in.ItemID,
		WarehouseID:    in.WarehouseID,
		Class:          entity.LotClassRawMaterial,
		InitialQty:     in.Qty,
		RemainingQty:   in.Qty,
		UnitCost:       in.UnitCost,
		RemainingValue: money.MulQty(in.UnitCost, in.Qty),
		GateStatus:     gate,
		CreatedAt:      time.Now(),
	}
	if err := uc.lotRepo.Create(lot); err != nil {
		return nil, err
	}
	return lot, nil
}
