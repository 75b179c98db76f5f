package cash_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayronmiranda/StoreManage/internal/application/cash"
	"github.com/dayronmiranda/StoreManage/internal/domain"
	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	bodegaID = "11111111-1111-1111-1111-111111111111"
	cajeroID = "22222222-2222-2222-2222-222222222222"
	adminID  = "33333333-3333-3333-3333-333333333333"
)

type fakeCutRepo struct {
	cuts map[string]*entity.CashCut
}

func (r *fakeCutRepo) Create(_ context.Context, cut *entity.CashCut) error {
	r.cuts[cut.ID] = cut
	return nil
}

func (r *fakeCutRepo) GetByID(_ context.Context, id string) (*entity.CashCut, error) {
	return r.cuts[id], nil
}

func (r *fakeCutRepo) GetOpenByWarehouse(_ context.Context, warehouseID string) (*entity.CashCut, error) {
	for _, cut := range r.cuts {
		if cut.WarehouseID == warehouseID && cut.Status == entity.CashCutOpen {
			return cut, nil
		}
	}
	return nil, nil
}

func (r *fakeCutRepo) Update(_ context.Context, cut *entity.CashCut) error {
	r.cuts[cut.ID] = cut
	return nil
}

func (r *fakeCutRepo) List(_ context.Context, warehouseID string, _, _ int) ([]*entity.CashCut, error) {
	var out []*entity.CashCut
	for _, cut := range r.cuts {
		if cut.WarehouseID == warehouseID {
			out = append(out, cut)
		}
	}
	return out, nil
}

type fakeCashMovementRepo struct {
	movements []*entity.CashMovement
}

func (r *fakeCashMovementRepo) Create(_ context.Context, m *entity.CashMovement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeCashMovementRepo) ListByDay(_ context.Context, warehouseID string, _ time.Time) ([]*entity.CashMovement, error) {
	var out []*entity.CashMovement
	for _, m := range r.movements {
		if m.WarehouseID == warehouseID {
			out = append(out, m)
		}
	}
	return out, nil
}

// fakeSaleRepo solo aporta DailyTotals configurado por el test.
type fakeSaleRepo struct {
	report *entity.DailySalesReport
}

func (r *fakeSaleRepo) Create(_ context.Context, _ *entity.Sale) error              { return nil }
func (r *fakeSaleRepo) GetByID(_ context.Context, _ string) (*entity.Sale, error)   { return nil, nil }
func (r *fakeSaleRepo) UpdateStatus(_ context.Context, _, _ string) error           { return nil }
func (r *fakeSaleRepo) List(_ context.Context, _ repository.SaleFilter) ([]*entity.Sale, error) {
	return nil, nil
}
func (r *fakeSaleRepo) NumberExists(_ context.Context, _ string) (bool, error) { return false, nil }
func (r *fakeSaleRepo) DailyTotals(_ context.Context, _ string, _ time.Time) (*entity.DailySalesReport, error) {
	return r.report, nil
}

type fakeExpenseRepo struct {
	expenses map[string]*entity.OperationalExpense
}

func (r *fakeExpenseRepo) Create(_ context.Context, e *entity.OperationalExpense) error {
	r.expenses[e.ID] = e
	return nil
}

func (r *fakeExpenseRepo) GetByID(_ context.Context, id string) (*entity.OperationalExpense, error) {
	return r.expenses[id], nil
}

func (r *fakeExpenseRepo) Update(_ context.Context, e *entity.OperationalExpense) error {
	r.expenses[e.ID] = e
	return nil
}

func (r *fakeExpenseRepo) List(_ context.Context, warehouseID, status string, _, _ int) ([]*entity.OperationalExpense, error) {
	var out []*entity.OperationalExpense
	for _, e := range r.expenses {
		if (warehouseID == "" || e.WarehouseID == warehouseID) && (status == "" || e.Status == status) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeExpenseRepo) SumApprovedByDay(_ context.Context, warehouseID string, _ time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.expenses {
		if e.WarehouseID == warehouseID && e.Status == entity.ExpenseApproved {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

type fakeWarehouseRepo struct{ warehouses map[string]*entity.Warehouse }

func (r *fakeWarehouseRepo) Create(_ context.Context, _ *entity.Warehouse) error { return nil }
func (r *fakeWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	return r.warehouses[id], nil
}
func (r *fakeWarehouseRepo) Update(_ context.Context, _ *entity.Warehouse) error { return nil }
func (r *fakeWarehouseRepo) List(_ context.Context, _, _ int) ([]*entity.Warehouse, error) {
	return nil, nil
}

type fakeTxRunner struct {
	cuts      *fakeCutRepo
	movements *fakeCashMovementRepo
}

func (r *fakeTxRunner) RunCash(_ context.Context, fn func(
	cutRepo repository.CashCutRepository,
	movementRepo repository.CashMovementRepository,
) error) error {
	cuts := make(map[string]*entity.CashCut, len(r.cuts.cuts))
	for k, v := range r.cuts.cuts {
		cuts[k] = v
	}
	movCount := len(r.movements.movements)
	if err := fn(r.cuts, r.movements); err != nil {
		r.cuts.cuts = cuts
		r.movements.movements = r.movements.movements[:movCount]
		return err
	}
	return nil
}

type cashFixture struct {
	uc        *cash.UseCase
	expenseUC *cash.ExpenseUseCase
	cuts      *fakeCutRepo
	movements *fakeCashMovementRepo
	expenses  *fakeExpenseRepo
	sales     *fakeSaleRepo
}

// newCashFixture arma los casos de uso de caja con una bodega activa y un
// reporte de ventas del día configurable.
func newCashFixture(t *testing.T) *cashFixture {
	t.Helper()
	cuts := &fakeCutRepo{cuts: make(map[string]*entity.CashCut)}
	movements := &fakeCashMovementRepo{}
	expenses := &fakeExpenseRepo{expenses: make(map[string]*entity.OperationalExpense)}
	sales := &fakeSaleRepo{report: &entity.DailySalesReport{
		ByPaymentMethod: map[string]decimal.Decimal{},
	}}
	warehouses := &fakeWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		bodegaID: {ID: bodegaID, Name: "Bodega Central", IsActive: true},
	}}
	runner := &fakeTxRunner{cuts: cuts, movements: movements}
	uc := cash.NewUseCase(runner, cuts, movements, sales, expenses, warehouses)
	return &cashFixture{
		uc:        uc,
		expenseUC: cash.NewExpenseUseCase(expenses, warehouses, uc),
		cuts:      cuts,
		movements: movements,
		expenses:  expenses,
		sales:     sales,
	}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ──────────────────────────────────────────────────────────────────────────────
// Apertura de corte
// ──────────────────────────────────────────────────────────────────────────────

func TestOpen_CreaCorteYMovimientoDeFondoInicial(t *testing.T) {
	f := newCashFixture(t)

	cut, err := f.uc.Open(context.Background(), bodegaID, cajeroID, dec(500), nil)
	require.NoError(t, err)
	assert.Equal(t, entity.CashCutOpen, cut.Status)
	assert.True(t, cut.InitialAmount.Equal(dec(500)))

	require.Len(t, f.movements.movements, 1, "la apertura registra el fondo inicial")
	m := f.movements.movements[0]
	assert.Equal(t, entity.CashInbound, m.MovementType)
	assert.Equal(t, entity.ConceptInitialFund, m.Concept)
	assert.True(t, m.Amount.Equal(dec(500)))
	assert.Equal(t, cut.ID, m.CashCutID, "el movimiento queda ligado al corte")
}

func TestOpen_SegundoCorteAbiertoRechazado(t *testing.T) {
	f := newCashFixture(t)
	ctx := context.Background()

	_, err := f.uc.Open(ctx, bodegaID, cajeroID, dec(500), nil)
	require.NoError(t, err)

	_, err = f.uc.Open(ctx, bodegaID, cajeroID, dec(300), nil)
	assert.ErrorIs(t, err, domain.ErrConflict, "a lo sumo un corte abierto por bodega")
}

func TestOpen_FondoNegativoRechazado(t *testing.T) {
	f := newCashFixture(t)
	_, err := f.uc.Open(context.Background(), bodegaID, cajeroID, dec(-1), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpen_BodegaInexistente(t *testing.T) {
	f := newCashFixture(t)
	_, err := f.uc.Open(context.Background(), "no-existe", cajeroID, dec(500), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cierre de corte
// ──────────────────────────────────────────────────────────────────────────────

func TestClose_CalculaEsperadoYDiferencia(t *testing.T) {
	f := newCashFixture(t)
	ctx := context.Background()

	// Ventas del día: 1500 (800 efectivo, 500 tarjeta, 200 transferencia)
	f.sales.report = &entity.DailySalesReport{
		TotalSales:    dec(1500),
		SalesCount:    10,
		AverageTicket: dec(150),
		ByPaymentMethod: map[string]decimal.Decimal{
			"cash":     dec(800),
			"card":     dec(500),
			"transfer": dec(200),
		},
	}
	// Gastos aprobados del día: 200
	f.expenses.expenses["g1"] = &entity.OperationalExpense{
		ID: "g1", WarehouseID: bodegaID, Amount: dec(200), Status: entity.ExpenseApproved,
	}
	// Un gasto pendiente no cuenta
	f.expenses.expenses["g2"] = &entity.OperationalExpense{
		ID: "g2", WarehouseID: bodegaID, Amount: dec(999), Status: entity.ExpensePending,
	}

	cut, err := f.uc.Open(ctx, bodegaID, cajeroID, dec(500), nil)
	require.NoError(t, err)

	// Esperado = 500 + 1500 − 200 = 1800; real 1750 → faltante de 50
	closed, err := f.uc.Close(ctx, cut.ID, cajeroID, dec(1750), "faltante en efectivo")
	require.NoError(t, err)

	assert.Equal(t, entity.CashCutClosed, closed.Status)
	assert.True(t, closed.ExpectedFinal.Equal(dec(1800)), "esperado = inicial + ventas − gastos")
	require.NotNil(t, closed.Difference)
	assert.True(t, closed.Difference.Equal(dec(-50)), "diferencia = real − esperado")
	assert.True(t, closed.CashSales.Equal(dec(800)))
	assert.True(t, closed.CardSales.Equal(dec(500)))
	assert.True(t, closed.TransferSales.Equal(dec(200)))
	assert.True(t, closed.TotalExpenses.Equal(dec(200)))
	assert.Equal(t, 10, closed.TransactionCount)
	require.NotNil(t, closed.ClosingTime)
}

func TestClose_DobleCierreRechazado(t *testing.T) {
	f := newCashFixture(t)
	ctx := context.Background()

	cut, err := f.uc.Open(ctx, bodegaID, cajeroID, dec(500), nil)
	require.NoError(t, err)

	closed, err := f.uc.Close(ctx, cut.ID, cajeroID, dec(500), "")
	require.NoError(t, err)
	esperado := closed.ExpectedFinal

	_, err = f.uc.Close(ctx, cut.ID, cajeroID, dec(9999), "")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "el segundo cierre no recalcula nada")
	assert.True(t, f.cuts.cuts[cut.ID].ExpectedFinal.Equal(esperado), "las cifras del cierre quedan intactas")
}

func TestClose_CorteInexistente(t *testing.T) {
	f := newCashFixture(t)
	_, err := f.uc.Close(context.Background(), "no-existe", cajeroID, dec(100), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Libro de caja
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_LigaAlCorteAbierto(t *testing.T) {
	f := newCashFixture(t)
	ctx := context.Background()

	cut, err := f.uc.Open(ctx, bodegaID, cajeroID, dec(500), nil)
	require.NoError(t, err)

	m, err := f.uc.RegisterMovement(ctx, cash.RegisterMovementInput{
		WarehouseID:  bodegaID,
		MovementType: entity.CashInbound,
		Concept:      entity.ConceptAdjustment,
		Amount:       dec(40),
		Notes:        "Ajuste de caja",
	}, cajeroID)
	require.NoError(t, err)
	assert.Equal(t, cut.ID, m.CashCutID)
}

func TestRegisterMovement_SinCorteAbierto(t *testing.T) {
	f := newCashFixture(t)

	m, err := f.uc.RegisterMovement(context.Background(), cash.RegisterMovementInput{
		WarehouseID:  bodegaID,
		MovementType: entity.CashOutbound,
		Concept:      entity.ConceptExpense,
		Amount:       dec(25),
	}, cajeroID)
	require.NoError(t, err, "un movimiento puede existir sin corte")
	assert.Empty(t, m.CashCutID)
}

func TestRegisterMovement_Validaciones(t *testing.T) {
	f := newCashFixture(t)
	ctx := context.Background()

	_, err := f.uc.RegisterMovement(ctx, cash.RegisterMovementInput{
		WarehouseID: bodegaID, MovementType: entity.CashInbound, Amount: decimal.Zero,
	}, cajeroID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el monto debe ser positivo")

	_, err = f.uc.RegisterMovement(ctx, cash.RegisterMovementInput{
		WarehouseID: bodegaID, MovementType: "sideways", Amount: dec(10),
	}, cajeroID)
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)
}

func TestGetSummary_AgregaEntradasYSalidas(t *testing.T) {
	f := newCashFixture(t)
	ctx := context.Background()

	_, err := f.uc.Open(ctx, bodegaID, cajeroID, dec(500), nil)
	require.NoError(t, err)
	_, err = f.uc.RegisterMovement(ctx, cash.RegisterMovementInput{
		WarehouseID: bodegaID, MovementType: entity.CashInbound, Concept: entity.ConceptSale, Amount: dec(100),
	}, cajeroID)
	require.NoError(t, err)
	_, err = f.uc.RegisterMovement(ctx, cash.RegisterMovementInput{
		WarehouseID: bodegaID, MovementType: entity.CashOutbound, Concept: entity.ConceptExpense, Amount: dec(30),
	}, cajeroID)
	require.NoError(t, err)

	summary, err := f.uc.GetSummary(ctx, bodegaID, nil)
	require.NoError(t, err)
	require.NotNil(t, summary.CurrentCut)
	assert.True(t, summary.TotalInbound.Equal(dec(600)), "fondo inicial + entrada")
	assert.True(t, summary.TotalOutbound.Equal(dec(30)))
	assert.True(t, summary.CurrentBalance.Equal(dec(570)))
	assert.Equal(t, 3, summary.MovementsCount)
}

// ──────────────────────────────────────────────────────────────────────────────
// Gastos operativos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateExpense_NaceEnPending(t *testing.T) {
	f := newCashFixture(t)

	expense, err := f.expenseUC.CreateExpense(context.Background(), cash.CreateExpenseInput{
		WarehouseID: bodegaID,
		Category:    "servicios",
		Description: "Recarga de extintores",
		Amount:      dec(120),
	}, cajeroID)
	require.NoError(t, err)
	assert.Equal(t, entity.ExpensePending, expense.Status)
}

func TestCreateExpense_Validaciones(t *testing.T) {
	f := newCashFixture(t)
	ctx := context.Background()

	_, err := f.expenseUC.CreateExpense(ctx, cash.CreateExpenseInput{
		WarehouseID: bodegaID, Description: "sin monto", Amount: decimal.Zero,
	}, cajeroID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.expenseUC.CreateExpense(ctx, cash.CreateExpenseInput{
		WarehouseID: bodegaID, Amount: dec(10),
	}, cajeroID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la descripción es obligatoria")
}

func TestApproveExpense_RegistraSalidaEnCaja(t *testing.T) {
	f := newCashFixture(t)
	ctx := context.Background()

	expense, err := f.expenseUC.CreateExpense(ctx, cash.CreateExpenseInput{
		WarehouseID: bodegaID, Description: "Papelería", Amount: dec(80),
	}, cajeroID)
	require.NoError(t, err)

	approved, err := f.expenseUC.ApproveExpense(ctx, expense.ID, adminID)
	require.NoError(t, err)
	assert.Equal(t, entity.ExpenseApproved, approved.Status)
	assert.Equal(t, adminID, approved.ApprovedBy)
	require.NotNil(t, approved.ApprovalDate)

	require.Len(t, f.movements.movements, 1)
	m := f.movements.movements[0]
	assert.Equal(t, entity.CashOutbound, m.MovementType)
	assert.Equal(t, entity.ConceptExpense, m.Concept)
	assert.True(t, m.Amount.Equal(dec(80)))
	assert.Equal(t, expense.ID, m.ReferenceID)
}

func TestApproveExpense_SoloDesdePending(t *testing.T) {
	f := newCashFixture(t)
	ctx := context.Background()

	expense, err := f.expenseUC.CreateExpense(ctx, cash.CreateExpenseInput{
		WarehouseID: bodegaID, Description: "Papelería", Amount: dec(80),
	}, cajeroID)
	require.NoError(t, err)
	_, err = f.expenseUC.ApproveExpense(ctx, expense.ID, adminID)
	require.NoError(t, err)

	_, err = f.expenseUC.ApproveExpense(ctx, expense.ID, adminID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "aprobar dos veces no duplica la salida de caja")
	assert.Len(t, f.movements.movements, 1)
}

func TestRejectExpense_GuardaMotivo(t *testing.T) {
	f := newCashFixture(t)
	ctx := context.Background()

	expense, err := f.expenseUC.CreateExpense(ctx, cash.CreateExpenseInput{
		WarehouseID: bodegaID, Description: "Comida del equipo", Amount: dec(300),
	}, cajeroID)
	require.NoError(t, err)

	rejected, err := f.expenseUC.RejectExpense(ctx, expense.ID, adminID, "fuera de política")
	require.NoError(t, err)
	assert.Equal(t, entity.ExpenseRejected, rejected.Status)
	assert.Equal(t, "fuera de política", rejected.Notes)
	assert.Empty(t, f.movements.movements, "rechazar no toca el libro de caja")
}
