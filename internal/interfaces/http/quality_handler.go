package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/quality"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// QualityHandler maneja el registro de inspecciones de calidad sobre lotes.
type QualityHandler struct {
	recordInspection *quality.RecordInspectionUseCase
}

// NewQualityHandler construye el handler.
func NewQualityHandler(recordInspection *quality.RecordInspectionUseCase) *QualityHandler {
	return &QualityHandler{recordInspection: recordInspection}
}

// RecordInspection godoc
// @Summary      Registrar inspección y resolver la compuerta de calidad
// @Description  Evalúa los resultados (AND lógico) y transiciona el lote de
//
//	PENDING a APPROVED o REJECTED. Un lote ya resuelto devuelve 409.
//
// @Tags         quality
// @Accept       json
// @Produce      json
// @Param        batchCode  path  string                       true  "Código de lote"
// @Param        body       body  dto.RecordInspectionRequest  true  "inspector_id, notes, results"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/lots/{batchCode}/inspection [post]
func (h *QualityHandler) RecordInspection(c *fiber.Ctx) error {
	batchCode := c.Params("batchCode")
	var in dto.RecordInspectionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	results := make([]entity.TestResult, 0, len(in.Results))
	for _, r := range in.Results {
		results = append(results, entity.TestResult{
			Name:          r.Name,
			Kind:          r.Kind,
			Token:         r.Token,
			ExpectedToken: r.ExpectedToken,
			Value:         r.Value,
			Min:           r.Min,
			Max:           r.Max,
		})
	}

	inspection, err := h.recordInspection.RecordInspection(c.Context(), quality.InspectionInput{
		BatchCode:   batchCode,
		InspectorID: in.InspectorID,
		Results:     results,
		Notes:       in.Notes,
	})
	if err != nil {
		return mapProductionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"inspection_id": inspection.ID,
		"batch_code":    inspection.BatchCode,
		"passed":        inspection.Passed,
	})
}
