package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/domain"
)

// ProductionHandler maneja las peticiones HTTP del motor de producción:
// envío de pasos, recepciones de materia prima y consultas.
type ProductionHandler struct {
	submitStage *production.SubmitStageUseCase
	receive     *production.ReceiveMaterialUseCase
	queries     *production.QueryUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(
	submitStage *production.SubmitStageUseCase,
	receive *production.ReceiveMaterialUseCase,
	queries *production.QueryUseCase,
) *ProductionHandler {
	return &ProductionHandler{submitStage: submitStage, receive: receive, queries: queries}
}

// SubmitStage godoc
// @Summary      Registrar la ejecución de un paso de producción
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la orden de producción"
// @Param        step  path  int                     true  "Número de paso de la ruta"
// @Param        body  body  dto.SubmitStageRequest  true  "input_qty, output_qty, waste_qty, start_time, end_time, additional_materials"
// @Success      201   {object}  dto.SubmitStageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/work-orders/{id}/steps/{step}/submit [post]
func (h *ProductionHandler) SubmitStage(c *fiber.Ctx) error {
	workOrderID := c.Params("id")
	stepNumber, err := strconv.Atoi(c.Params("step"))
	if err != nil || stepNumber < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "número de paso inválido"})
	}
	var in dto.SubmitStageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	input := production.StageInput{
		InputQty:     in.InputQty,
		OutputQty:    in.OutputQty,
		WasteQty:     in.WasteQty,
		WasteReasons: in.WasteReasons,
		StartedAt:    in.StartTime,
		EndedAt:      in.EndTime,
	}
	for _, m := range in.AdditionalMaterials {
		input.AdditionalMaterials = append(input.AdditionalMaterials, production.MaterialInput{
			ItemID: m.ItemID,
			Qty:    m.Qty,
		})
	}

	result, err := h.submitStage.SubmitStage(c.Context(), workOrderID, stepNumber, input)
	if err != nil {
		return mapProductionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SubmitStageResponse{
		Success:            true,
		BatchCode:          result.BatchCode,
		YieldPercent:       result.YieldPct,
		UnitCostAfterYield: result.UnitCostAfterYield,
		OverheadCost:       result.OverheadCost,
		IsFinalStep:        result.IsFinalStep,
	})
}

// ReceiveMaterial godoc
// @Summary      Registrar recepción de materia prima
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveMaterialRequest  true  "batch_code, item_id, warehouse_id, qty, unit_cost"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/lots/receipts [post]
func (h *ProductionHandler) ReceiveMaterial(c *fiber.Ctx) error {
	var in dto.ReceiveMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lot, err := h.receive.ReceiveMaterial(c.Context(), production.ReceiptInput{
		BatchCode:          in.BatchCode,
		ItemID:             in.ItemID,
		WarehouseID:        in.WarehouseID,
		Qty:                in.Qty,
		UnitCost:           in.UnitCost,
		RequiresInspection: in.RequiresInspection,
	})
	if err != nil {
		return mapProductionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"lot_id": lot.ID, "batch_code": lot.BatchCode})
}

// GetWorkOrderCosts godoc
// @Summary      Cadena de costos de una orden de producción
// @Tags         production
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/work-orders/{id}/costs [get]
func (h *ProductionHandler) GetWorkOrderCosts(c *fiber.Ctx) error {
	costs, err := h.queries.GetWorkOrderCosts(c.Context(), c.Params("id"))
	if err != nil {
		return mapProductionError(c, err)
	}
	steps := make([]dto.StepCostDTO, 0, len(costs.Steps))
	for _, s := range costs.Steps {
		steps = append(steps, dto.StepCostDTO{
			StepNumber:         s.StepNumber,
			MaterialCost:       s.MaterialCost,
			OverheadCost:       s.OverheadCost,
			PreviousStepCost:   s.PreviousStepCost,
			TotalCost:          s.TotalCost,
			UnitCostAfterYield: s.UnitCostAfterYield,
			RoundingResidue:    s.RoundingResidue,
			OutputQty:          s.OutputQty,
		})
	}
	return c.JSON(fiber.Map{
		"work_order_id": costs.WorkOrder.ID,
		"status":        costs.WorkOrder.Status,
		"steps":         steps,
	})
}

// GetWorkOrderJournal godoc
// @Summary      Asientos contables publicados por una orden
// @Tags         production
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/work-orders/{id}/journal [get]
func (h *ProductionHandler) GetWorkOrderJournal(c *fiber.Ctx) error {
	entries, err := h.queries.GetWorkOrderJournal(c.Context(), c.Params("id"))
	if err != nil {
		return mapProductionError(c, err)
	}
	out := make([]dto.JournalEntryDTO, 0, len(entries))
	for _, e := range entries {
		entryDTO := dto.JournalEntryDTO{StepNumber: e.StepNumber, Reference: e.Reference, Date: e.Date}
		for _, l := range e.Lines {
			entryDTO.Lines = append(entryDTO.Lines, dto.JournalLineDTO{
				AccountCode: l.AccountCode, Debit: l.Debit, Credit: l.Credit,
			})
		}
		out = append(out, entryDTO)
	}
	return c.JSON(fiber.Map{"total": len(out), "entries": out})
}

// GetAvailability godoc
// @Summary      Disponibilidad elegible de un ítem por bodega
// @Description  Suma remaining_qty de lotes aprobados y no agotados; los lotes
//
//	PENDING o REJECTED (cuarentena) no cuentan.
//
// @Tags         production
// @Produce      json
// @Param        itemId  path  string  true  "ID del ítem"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/items/{itemId}/available [get]
func (h *ProductionHandler) GetAvailability(c *fiber.Ctx) error {
	rows, err := h.queries.GetAvailability(c.Context(), c.Params("itemId"))
	if err != nil {
		return mapProductionError(c, err)
	}
	out := make([]dto.AvailabilityDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.AvailabilityDTO{WarehouseID: r.WarehouseID, Qty: r.Qty})
	}
	return c.JSON(fiber.Map{"item_id": c.Params("itemId"), "availability": out})
}

// mapProductionError traduce errores de dominio a estados HTTP.
func mapProductionError(c *fiber.Ctx, err error) error {
	var insufficientErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &insufficientErr):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: insufficientErr.Error(),
		})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidOutputQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_OUTPUT_QTY", Message: err.Error()})
	case errors.Is(err, domain.ErrStepSequenceViolation):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STEP_SEQUENCE", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicateStepSubmission):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_STEP", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicateBatchCode):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_BATCH", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
