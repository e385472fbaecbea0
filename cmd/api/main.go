package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/application/quality"
	"github.com/jhoicas/Produccion-api/internal/domain/ledger"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Produccion-api/internal/interfaces/http"
	"github.com/jhoicas/Produccion-api/pkg/config"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	workOrderRepo := postgres.NewWorkOrderRepository(pool)
	routingRepo := postgres.NewRoutingRepository(pool)
	workCenterRepo := postgres.NewWorkCenterRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	costRepo := postgres.NewCostRepository(pool)
	journalRepo := postgres.NewJournalRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	accounts := ledger.Accounts{
		RawMaterials:  cfg.Accounts.RawMaterials,
		WIP:           cfg.Accounts.WIP,
		FinishedGoods: cfg.Accounts.FinishedGoods,
		Overhead:      cfg.Accounts.Overhead,
	}

	submitStageUC := production.NewSubmitStageUseCase(txRunner, routingRepo, workCenterRepo, accounts)
	receiveMaterialUC := production.NewReceiveMaterialUseCase(lotRepo)
	queriesUC := production.NewQueryUseCase(workOrderRepo, costRepo, journalRepo, lotRepo)
	recordInspectionUC := quality.NewRecordInspectionUseCase(txRunner)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Producción API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SubmitStage:      submitStageUC,
		ReceiveMaterial:  receiveMaterialUC,
		Queries:          queriesUC,
		RecordInspection: recordInspectionUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
