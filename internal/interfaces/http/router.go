package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/application/quality"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SubmitStage      *production.SubmitStageUseCase
	ReceiveMaterial  *production.ReceiveMaterialUseCase
	Queries          *production.QueryUseCase
	RecordInspection *quality.RecordInspectionUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")

	productionHandler := NewProductionHandler(deps.SubmitStage, deps.ReceiveMaterial, deps.Queries)
	qualityHandler := NewQualityHandler(deps.RecordInspection)

	// Órdenes de producción
	workOrders := api.Group("/work-orders")
	workOrders.Post("/:id/steps/:step/submit", productionHandler.SubmitStage)
	workOrders.Get("/:id/costs", productionHandler.GetWorkOrderCosts)
	workOrders.Get("/:id/journal", productionHandler.GetWorkOrderJournal)

	// Lotes: recepciones e inspecciones
	lots := api.Group("/lots")
	lots.Post("/receipts", productionHandler.ReceiveMaterial)
	lots.Post("/:batchCode/inspection", qualityHandler.RecordInspection)

	// Disponibilidad elegible por ítem
	api.Get("/items/:itemId/available", productionHandler.GetAvailability)
}
