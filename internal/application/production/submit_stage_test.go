package production_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/ledger"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// memStore: repositorios en memoria para probar el orquestador sin PostgreSQL.
// Implementa todas las interfaces de repositorio; fakeTxRunner lo pasa como
// cada repo dentro del "tx". No simula rollback: los tests de error verifican
// que el orquestador falla antes de mutar.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	workOrders  map[string]*entity.WorkOrder
	routings    map[string]*entity.Routing
	workCenters map[string]*entity.WorkCenter
	lots        map[string]*entity.InventoryLot // por batch code
	lotSeq      int64
	steps       []*entity.WorkOrderStep
	materials   []entity.StepMaterial
	costs       []*entity.StepCostRecord
	entries     []*entity.JournalEntry
}

func newMemStore() *memStore {
	return &memStore{
		workOrders:  map[string]*entity.WorkOrder{},
		routings:    map[string]*entity.Routing{},
		workCenters: map[string]*entity.WorkCenter{},
		lots:        map[string]*entity.InventoryLot{},
	}
}

func (s *memStore) GetByID(id string) (*entity.WorkOrder, error) { return s.GetForUpdate(id) }

func (s *memStore) GetForUpdate(id string) (*entity.WorkOrder, error) {
	wo, ok := s.workOrders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return wo, nil
}

func (s *memStore) UpdateStatus(id, status string, completedAt *time.Time) error {
	wo, ok := s.workOrders[id]
	if !ok {
		return domain.ErrNotFound
	}
	wo.Status = status
	wo.CompletedAt = completedAt
	return nil
}

func (s *memStore) ListByWorkOrder(workOrderID string) ([]*entity.WorkOrderStep, error) {
	var out []*entity.WorkOrderStep
	for _, st := range s.steps {
		if st.WorkOrderID == workOrderID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *memStore) Create(step *entity.WorkOrderStep, materials []entity.StepMaterial) error {
	for _, st := range s.steps {
		if st.WorkOrderID == step.WorkOrderID && st.StepNumber == step.StepNumber {
			return domain.ErrDuplicateStepSubmission
		}
	}
	s.steps = append(s.steps, step)
	s.materials = append(s.materials, materials...)
	return nil
}

func (s *memStore) ListForConsumeForUpdate(itemID, warehouseID string) ([]*entity.InventoryLot, error) {
	var out []*entity.InventoryLot
	for _, l := range s.lots {
		if l.ItemID == itemID && l.WarehouseID == warehouseID && l.Eligible() {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *memStore) GetByBatchCodeForUpdate(batchCode string) (*entity.InventoryLot, error) {
	l, ok := s.lots[batchCode]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

func (s *memStore) GetByBatchCode(batchCode string) (*entity.InventoryLot, error) {
	return s.GetByBatchCodeForUpdate(batchCode)
}

func (s *memStore) CreateLot(lot *entity.InventoryLot) error {
	if _, exists := s.lots[lot.BatchCode]; exists {
		return domain.ErrDuplicateBatchCode
	}
	s.lotSeq++
	lot.Seq = s.lotSeq
	s.lots[lot.BatchCode] = lot
	return nil
}

func (s *memStore) UpdateConsumption(lot *entity.InventoryLot) error {
	if _, ok := s.lots[lot.BatchCode]; !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (s *memStore) UpdateGateStatus(batchCode, status string) error {
	l, ok := s.lots[batchCode]
	if !ok {
		return domain.ErrNotFound
	}
	l.GateStatus = status
	return nil
}

func (s *memStore) AvailableByItem(itemID string) ([]repository.ItemAvailability, error) {
	byWh := map[string]decimal.Decimal{}
	for _, l := range s.lots {
		if l.ItemID == itemID && l.Eligible() {
			byWh[l.WarehouseID] = byWh[l.WarehouseID].Add(l.RemainingQty)
		}
	}
	var out []repository.ItemAvailability
	for wh, q := range byWh {
		out = append(out, repository.ItemAvailability{WarehouseID: wh, Qty: q})
	}
	return out, nil
}

// lotRepoAdapter desambigua Create: memStore ya usa Create para los pasos.
type lotRepoAdapter struct{ s *memStore }

func (a lotRepoAdapter) ListForConsumeForUpdate(itemID, warehouseID string) ([]*entity.InventoryLot, error) {
	return a.s.ListForConsumeForUpdate(itemID, warehouseID)
}
func (a lotRepoAdapter) GetByBatchCodeForUpdate(batchCode string) (*entity.InventoryLot, error) {
	return a.s.GetByBatchCodeForUpdate(batchCode)
}
func (a lotRepoAdapter) GetByBatchCode(batchCode string) (*entity.InventoryLot, error) {
	return a.s.GetByBatchCode(batchCode)
}
func (a lotRepoAdapter) Create(lot *entity.InventoryLot) error { return a.s.CreateLot(lot) }
func (a lotRepoAdapter) UpdateConsumption(lot *entity.InventoryLot) error {
	return a.s.UpdateConsumption(lot)
}
func (a lotRepoAdapter) UpdateGateStatus(batchCode, status string) error {
	return a.s.UpdateGateStatus(batchCode, status)
}
func (a lotRepoAdapter) AvailableByItem(itemID string) ([]repository.ItemAvailability, error) {
	return a.s.AvailableByItem(itemID)
}

type costRepoAdapter struct{ s *memStore }

func (a costRepoAdapter) Create(rec *entity.StepCostRecord) error {
	a.s.costs = append(a.s.costs, rec)
	return nil
}
func (a costRepoAdapter) ListByWorkOrder(workOrderID string) ([]*entity.StepCostRecord, error) {
	var out []*entity.StepCostRecord
	for _, r := range a.s.costs {
		if r.WorkOrderID == workOrderID {
			out = append(out, r)
		}
	}
	return out, nil
}

type journalRepoAdapter struct{ s *memStore }

func (a journalRepoAdapter) Create(entry *entity.JournalEntry) error {
	if !entry.Balanced() {
		return domain.ErrUnbalancedEntry
	}
	a.s.entries = append(a.s.entries, entry)
	return nil
}
func (a journalRepoAdapter) ListByWorkOrder(workOrderID string) ([]*entity.JournalEntry, error) {
	var out []*entity.JournalEntry
	for _, e := range a.s.entries {
		if e.WorkOrderID == workOrderID {
			out = append(out, e)
		}
	}
	return out, nil
}

type routingRepoAdapter struct{ s *memStore }

func (a routingRepoAdapter) GetByID(id string) (*entity.Routing, error) {
	r, ok := a.s.routings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

type workCenterRepoAdapter struct{ s *memStore }

func (a workCenterRepoAdapter) GetByID(id string) (*entity.WorkCenter, error) {
	wc, ok := a.s.workCenters[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return wc, nil
}

type fakeTxRunner struct{ s *memStore }

func (f fakeTxRunner) Run(_ context.Context, fn func(
	workOrderRepo repository.WorkOrderRepository,
	stepRepo repository.WorkOrderStepRepository,
	lotRepo repository.LotRepository,
	costRepo repository.StepCostRepository,
	journalRepo repository.JournalRepository,
) error) error {
	return fn(f.s, f.s, lotRepoAdapter{f.s}, costRepoAdapter{f.s}, journalRepoAdapter{f.s})
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario: extracto de hierba en polvo. Extracción → filtrado →
// liofilización de 24 h → envasado. Vectores idénticos a los del acumulador.
// ──────────────────────────────────────────────────────────────────────────────

var cuentasTest = ledger.Accounts{
	RawMaterials:  "1405",
	WIP:           "1410",
	FinishedGoods: "1430",
	Overhead:      "7300",
}

var t0 = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type scenario struct {
	store *memStore
	uc    *production.SubmitStageUseCase
}

func buildScenario(inspectStep1 bool) *scenario {
	s := newMemStore()

	s.workCenters["wc-extraccion"] = &entity.WorkCenter{ID: "wc-extraccion", Name: "Extracción", LaborRatePerHour: 1000, MachineRatePerHour: 250}
	s.workCenters["wc-filtrado"] = &entity.WorkCenter{ID: "wc-filtrado", Name: "Filtrado", LaborRatePerHour: 2000, MachineRatePerHour: 500}
	s.workCenters["wc-liofilizado"] = &entity.WorkCenter{ID: "wc-liofilizado", Name: "Liofilizado", LaborRatePerHour: 75000, MachineRatePerHour: 1800000}
	s.workCenters["wc-envasado"] = &entity.WorkCenter{ID: "wc-envasado", Name: "Envasado", LaborRatePerHour: 1200}

	s.routings["rt-1"] = &entity.Routing{
		ID:          "rt-1",
		ItemID:      "item-polvo",
		InputItemID: "item-hierba",
		Version:     1,
		Steps: []entity.RoutingStep{
			{ID: "rs-1", RoutingID: "rt-1", Number: 1, Name: "extracción", WorkCenterID: "wc-extraccion", RequiresInspection: inspectStep1},
			{ID: "rs-2", RoutingID: "rt-1", Number: 2, Name: "filtrado", WorkCenterID: "wc-filtrado"},
			{ID: "rs-3", RoutingID: "rt-1", Number: 3, Name: "liofilizado", WorkCenterID: "wc-liofilizado"},
			{ID: "rs-4", RoutingID: "rt-1", Number: 4, Name: "envasado", WorkCenterID: "wc-envasado"},
		},
	}

	s.workOrders["wo-42"] = &entity.WorkOrder{
		ID: "wo-42", ItemID: "item-polvo", RoutingID: "rt-1",
		WarehouseID: "wh-1", PlannedQty: dec("10"),
		Status: entity.WorkOrderStatusDraft, CreatedAt: t0,
	}

	// Pool FIFO de hierba: dos recepciones, 60 kg cada una a 1000/kg.
	receiveLot(s, "RM-A", "item-hierba", "60", 1000, t0.Add(-48*time.Hour))
	receiveLot(s, "RM-B", "item-hierba", "60", 1000, t0.Add(-24*time.Hour))
	// Solvente para el filtrado: 20 L a 50/L.
	receiveLot(s, "SOLV-1", "item-solvente", "20", 50, t0.Add(-24*time.Hour))
	// Frascos para el envasado: 10 a 150.
	receiveLot(s, "JAR-1", "item-frasco", "10", 150, t0.Add(-24*time.Hour))

	uc := production.NewSubmitStageUseCase(
		fakeTxRunner{s},
		routingRepoAdapter{s},
		workCenterRepoAdapter{s},
		cuentasTest,
	)
	return &scenario{store: s, uc: uc}
}

func receiveLot(s *memStore, batch, itemID, qty string, unitCost int64, createdAt time.Time) {
	q := dec(qty)
	_ = lotRepoAdapter{s}.Create(&entity.InventoryLot{
		ID: batch, BatchCode: batch, ItemID: itemID, WarehouseID: "wh-1",
		Class: entity.LotClassRawMaterial, InitialQty: q, RemainingQty: q,
		UnitCost:       unitCost,
		RemainingValue: q.Mul(decimal.NewFromInt(unitCost)).IntPart(),
		GateStatus:     entity.GateStatusApproved,
		CreatedAt:      createdAt,
	})
}

func stage(inQty, outQty string, dur time.Duration, mats ...production.MaterialInput) production.StageInput {
	return production.StageInput{
		InputQty:            dec(inQty),
		OutputQty:           dec(outQty),
		StartedAt:           t0,
		EndedAt:             t0.Add(dur),
		AdditionalMaterials: mats,
	}
}

func TestSubmitStage_CadenaCompletaCuatroPasos(t *testing.T) {
	sc := buildScenario(false)
	ctx := context.Background()

	// Paso 1: extracción. 105 kg de hierba, 2.5 h.
	r1, err := sc.uc.SubmitStage(ctx, "wo-42", 1, stage("105", "100", 2*time.Hour+30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "WO-wo-42-STEP-1", r1.BatchCode)
	assert.Equal(t, int64(3125), r1.OverheadCost)
	assert.Equal(t, int64(1081), r1.UnitCostAfterYield)
	assert.True(t, r1.YieldPct.Equal(dec("95.2")))
	assert.False(t, r1.IsFinalStep)
	assert.Equal(t, entity.WorkOrderStatusInProgress, sc.store.workOrders["wo-42"].Status)

	// El pool de hierba quedó: RM-A agotado, RM-B con 15 kg.
	assert.True(t, sc.store.lots["RM-A"].IsDepleted)
	assert.True(t, sc.store.lots["RM-B"].RemainingQty.Equal(dec("15")))

	// Paso 2: filtrado con solvente (20 L = 1000), 1 h 40 min.
	r2, err := sc.uc.SubmitStage(ctx, "wo-42", 2, stage("100", "100.5", time.Hour+40*time.Minute,
		production.MaterialInput{ItemID: "item-solvente", Qty: dec("20")}))
	require.NoError(t, err)
	assert.Equal(t, int64(4167), r2.OverheadCost)
	assert.Equal(t, int64(1127), r2.UnitCostAfterYield)
	assert.Equal(t, int64(113292), r2.TotalCost)

	// El lote del paso 1 queda agotado y su valor viajó completo al paso 2.
	lotePaso1 := sc.store.lots["WO-wo-42-STEP-1"]
	assert.True(t, lotePaso1.IsDepleted)
	assert.Zero(t, lotePaso1.RemainingValue)

	// Paso 3: liofilización de 24 h, el gasto indirecto domina.
	r3, err := sc.uc.SubmitStage(ctx, "wo-42", 3, stage("100.5", "10.5", 24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(45000000), r3.OverheadCost)
	assert.Equal(t, int64(4296504), r3.UnitCostAfterYield)

	// Paso 4: envasado final con frascos (10 × 150 = 1500), 30 min.
	r4, err := sc.uc.SubmitStage(ctx, "wo-42", 4, stage("10.5", "10", 30*time.Minute,
		production.MaterialInput{ItemID: "item-frasco", Qty: dec("10")}))
	require.NoError(t, err)
	assert.True(t, r4.IsFinalStep)
	assert.Equal(t, "WO-wo-42-FG", r4.BatchCode)
	assert.Equal(t, int64(4511539), r4.UnitCostAfterYield)
	assert.Equal(t, int64(45115392), r4.TotalCost)

	// La orden quedó completada y el lote final es producto terminado con el
	// costo total exacto como valor.
	wo := sc.store.workOrders["wo-42"]
	assert.Equal(t, entity.WorkOrderStatusCompleted, wo.Status)
	require.NotNil(t, wo.CompletedAt)

	fg := sc.store.lots["WO-wo-42-FG"]
	require.NotNil(t, fg)
	assert.Equal(t, entity.LotClassFinishedGoods, fg.Class)
	assert.Equal(t, int64(45115392), fg.RemainingValue,
		"el valor del producto terminado conserva hasta el último centavo")

	// Saldo WIP por los cuatro asientos: exactamente cero.
	var saldoWIP int64
	require.Len(t, sc.store.entries, 4)
	for _, e := range sc.store.entries {
		require.True(t, e.Balanced(), "asiento del paso %d debe cuadrar", e.StepNumber)
		for _, l := range e.Lines {
			if l.AccountCode == "1410" {
				saldoWIP += l.Debit - l.Credit
			}
		}
	}
	assert.Zero(t, saldoWIP, "tras el paso final el saldo WIP de la orden es cero")

	// Registros de costo: uno por paso, encadenados.
	require.Len(t, sc.store.costs, 4)
	assert.Equal(t, sc.store.costs[0].TotalCost, sc.store.costs[1].PreviousStepCost)
	assert.Equal(t, sc.store.costs[1].TotalCost, sc.store.costs[2].PreviousStepCost)
	assert.Equal(t, sc.store.costs[2].TotalCost, sc.store.costs[3].PreviousStepCost)
}

func TestSubmitStage_DobleEnvioRechazado(t *testing.T) {
	sc := buildScenario(false)
	ctx := context.Background()

	_, err := sc.uc.SubmitStage(ctx, "wo-42", 1, stage("105", "100", time.Hour))
	require.NoError(t, err)

	_, err = sc.uc.SubmitStage(ctx, "wo-42", 1, stage("1", "1", time.Hour))
	assert.ErrorIs(t, err, domain.ErrDuplicateStepSubmission,
		"el mismo paso no puede registrarse dos veces")
	assert.Len(t, sc.store.costs, 1, "el segundo envío no debe dejar rastro")
}

func TestSubmitStage_FueraDeSecuencia(t *testing.T) {
	sc := buildScenario(false)
	ctx := context.Background()

	_, err := sc.uc.SubmitStage(ctx, "wo-42", 2, stage("10", "10", time.Hour))
	assert.ErrorIs(t, err, domain.ErrStepSequenceViolation,
		"el paso 2 no puede registrarse antes que el 1")
	assert.Empty(t, sc.store.costs)
	assert.Empty(t, sc.store.entries)
}

func TestSubmitStage_OrdenCompletadaNoAdmiteMasPasos(t *testing.T) {
	sc := buildScenario(false)
	ctx := context.Background()
	sc.store.workOrders["wo-42"].Status = entity.WorkOrderStatusCompleted

	_, err := sc.uc.SubmitStage(ctx, "wo-42", 1, stage("105", "100", time.Hour))
	assert.ErrorIs(t, err, domain.ErrStepSequenceViolation)
}

func TestSubmitStage_SalidaInvalidaAntesDeCualquierMutacion(t *testing.T) {
	sc := buildScenario(false)
	ctx := context.Background()

	in := stage("105", "0", time.Hour)
	_, err := sc.uc.SubmitStage(ctx, "wo-42", 1, in)
	assert.ErrorIs(t, err, domain.ErrInvalidOutputQuantity)

	assert.True(t, sc.store.lots["RM-A"].RemainingQty.Equal(dec("60")),
		"la validación debe ocurrir antes de consumir lote alguno")
	assert.Empty(t, sc.store.costs)
	assert.Empty(t, sc.store.entries)
}

func TestSubmitStage_StockInsuficienteConFaltanteExacto(t *testing.T) {
	sc := buildScenario(false)
	ctx := context.Background()

	// Pide 150 kg con 120 disponibles.
	_, err := sc.uc.SubmitStage(ctx, "wo-42", 1, stage("150", "140", time.Hour))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.True(t, stockErr.Shortfall().Equal(dec("30")),
		"faltante exacto: 150 requeridos − 120 disponibles")

	assert.True(t, sc.store.lots["RM-A"].RemainingQty.Equal(dec("60")),
		"ningún consumo parcial ante stock insuficiente")
	assert.True(t, sc.store.lots["RM-B"].RemainingQty.Equal(dec("60")))
}

func TestSubmitStage_CompuertaPendienteBloqueaElSiguientePaso(t *testing.T) {
	sc := buildScenario(true) // el paso 1 requiere inspección
	ctx := context.Background()

	r1, err := sc.uc.SubmitStage(ctx, "wo-42", 1, stage("105", "100", 2*time.Hour+30*time.Minute))
	require.NoError(t, err)

	lote := sc.store.lots[r1.BatchCode]
	require.NotNil(t, lote)
	assert.Equal(t, entity.GateStatusPending, lote.GateStatus,
		"el lote de un paso con inspección nace PENDING")

	// El paso 2 no puede consumir un lote pendiente de calidad.
	_, err = sc.uc.SubmitStage(ctx, "wo-42", 2, stage("100", "100.5", time.Hour))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Aprobada la compuerta, el paso 2 procede.
	require.NoError(t, sc.store.UpdateGateStatus(r1.BatchCode, entity.GateStatusApproved))
	r2, err := sc.uc.SubmitStage(ctx, "wo-42", 2, stage("100", "100.5", time.Hour+40*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1127), r2.UnitCostAfterYield)
}

func TestSubmitStage_PasoSinCostoPropioNoGeneraAsiento(t *testing.T) {
	sc := buildScenario(false)
	ctx := context.Background()

	_, err := sc.uc.SubmitStage(ctx, "wo-42", 1, stage("105", "100", 2*time.Hour+30*time.Minute))
	require.NoError(t, err)

	// Paso 2 instantáneo y sin materiales adicionales: gasto indirecto cero y
	// material propio cero. El arrastre ya está en WIP, así que el asiento no
	// tendría líneas y no debe persistirse.
	r2, err := sc.uc.SubmitStage(ctx, "wo-42", 2, stage("100", "100", 0))
	require.NoError(t, err)
	assert.Zero(t, r2.OverheadCost)
	assert.Equal(t, int64(108125), r2.TotalCost, "el costo arrastrado sigue intacto")

	require.Len(t, sc.store.entries, 1, "solo el paso 1 genera asiento")
	assert.Equal(t, 1, sc.store.entries[0].StepNumber)
	require.Len(t, sc.store.costs, 2, "el registro de costo del paso sí se persiste")
}

func TestSubmitStage_PasoInexistenteEnLaRuta(t *testing.T) {
	sc := buildScenario(false)
	ctx := context.Background()

	// Completar la cadena hasta el 4 no es necesario: el paso 9 no existe.
	_, err := sc.uc.SubmitStage(ctx, "wo-42", 9, stage("10", "10", time.Hour))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmitStage_MaterialAdicionalSinStockRevierteTodo(t *testing.T) {
	sc := buildScenario(false)
	ctx := context.Background()

	_, err := sc.uc.SubmitStage(ctx, "wo-42", 1, stage("105", "100", time.Hour,
		production.MaterialInput{ItemID: "item-solvente", Qty: dec("500")}))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, sc.store.costs, "el paso no debe registrarse si falta un material adicional")
}

// Sanidad del escenario: los códigos de lote generados siguen el formato
// WO-<id>-STEP-<n> / WO-<id>-FG.
func TestSubmitStage_FormatoDeCodigosDeLote(t *testing.T) {
	assert.Equal(t, "WO-wo-42-STEP-3", entity.StepBatchCode("wo-42", 3))
	assert.Equal(t, "WO-wo-42-FG", entity.FinalBatchCode("wo-42"))
	assert.Equal(t, fmt.Sprintf("WO-%s-STEP-%d", "x", 1), entity.StepBatchCode("x", 1))
}
