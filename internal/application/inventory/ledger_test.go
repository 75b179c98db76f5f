package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayronmiranda/StoreManage/internal/application/inventory"
	"github.com/dayronmiranda/StoreManage/internal/domain"
	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	bodegaCentral = "11111111-1111-1111-1111-111111111111"
	productoCafe  = "22222222-2222-2222-2222-222222222222"
	usuarioTest   = "33333333-3333-3333-3333-333333333333"
)

func balanceKey(warehouseID, productID string) string {
	return warehouseID + "|" + productID
}

// fakeBalanceRepo guarda saldos en un mapa; como el repo real, devuelve un
// saldo en cero (UpdatedAt zero) cuando el par todavía no existe.
type fakeBalanceRepo struct {
	balances map[string]entity.StockBalance
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[string]entity.StockBalance)}
}

func (r *fakeBalanceRepo) Get(_ context.Context, warehouseID, productID string) (*entity.StockBalance, error) {
	if b, ok := r.balances[balanceKey(warehouseID, productID)]; ok {
		copia := b
		return &copia, nil
	}
	return &entity.StockBalance{WarehouseID: warehouseID, ProductID: productID}, nil
}

func (r *fakeBalanceRepo) GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.StockBalance, error) {
	return r.Get(ctx, warehouseID, productID)
}

func (r *fakeBalanceRepo) Upsert(_ context.Context, balance *entity.StockBalance) error {
	r.balances[balanceKey(balance.WarehouseID, balance.ProductID)] = *balance
	return nil
}

func (r *fakeBalanceRepo) ListByWarehouse(_ context.Context, warehouseID string, _, _ int) ([]*entity.StockBalance, error) {
	var out []*entity.StockBalance
	for _, b := range r.balances {
		if b.WarehouseID == warehouseID {
			copia := b
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (r *fakeBalanceRepo) ListBelowMinimum(_ context.Context, _ string) ([]*entity.StockBalance, error) {
	return nil, nil
}

func (r *fakeBalanceRepo) snapshot() map[string]entity.StockBalance {
	snap := make(map[string]entity.StockBalance, len(r.balances))
	for k, v := range r.balances {
		snap[k] = v
	}
	return snap
}

type fakeMovementRepo struct {
	movements []*entity.StockMovement
}

func (r *fakeMovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	r.movements = append(r.movements, movement)
	return nil
}

func (r *fakeMovementRepo) List(_ context.Context, _ repository.MovementFilter) ([]*entity.StockMovement, error) {
	return r.movements, nil
}

type fakeWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
}

func (r *fakeWarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}

func (r *fakeWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	return r.warehouses[id], nil
}

func (r *fakeWarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}

func (r *fakeWarehouseRepo) List(_ context.Context, _, _ int) ([]*entity.Warehouse, error) {
	return nil, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, _, _ int) ([]*entity.Product, error) {
	return nil, nil
}

// fakeTxRunner simula la transacción: si fn falla, restaura el estado previo
// de saldos y movimientos (rollback).
type fakeTxRunner struct {
	balances  *fakeBalanceRepo
	movements *fakeMovementRepo
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	balanceRepo repository.StockBalanceRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	snap := r.balances.snapshot()
	movCount := len(r.movements.movements)
	if err := fn(r.balances, r.movements); err != nil {
		r.balances.balances = snap
		r.movements.movements = r.movements.movements[:movCount]
		return err
	}
	return nil
}

type ledgerFixture struct {
	ledger    *inventory.Ledger
	balances  *fakeBalanceRepo
	movements *fakeMovementRepo
}

// newLedgerFixture arma un Ledger con una bodega y un producto activos.
func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	balances := newFakeBalanceRepo()
	movements := &fakeMovementRepo{}
	warehouses := &fakeWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		bodegaCentral: {ID: bodegaCentral, Code: "BOD-01", Name: "Bodega Central", IsActive: true},
	}}
	products := &fakeProductRepo{products: map[string]*entity.Product{
		productoCafe: {ID: productoCafe, Code: "CAFE-250", Name: "Café molido 250g", IsActive: true},
	}}
	runner := &fakeTxRunner{balances: balances, movements: movements}
	return &ledgerFixture{
		ledger:    inventory.NewLedger(runner, balances, movements, warehouses, products),
		balances:  balances,
		movements: movements,
	}
}

func (f *ledgerFixture) seedBalance(t *testing.T, available, reserved, transit int64) {
	t.Helper()
	require.NoError(t, f.balances.Upsert(context.Background(), &entity.StockBalance{
		WarehouseID:    bodegaCentral,
		ProductID:      productoCafe,
		Available:      decimal.NewFromInt(available),
		Reserved:       decimal.NewFromInt(reserved),
		InboundTransit: decimal.NewFromInt(transit),
		UpdatedAt:      time.Now(),
	}))
}

func (f *ledgerFixture) balance(t *testing.T) *entity.StockBalance {
	t.Helper()
	b, err := f.balances.Get(context.Background(), bodegaCentral, productoCafe)
	require.NoError(t, err)
	return b
}

func assertDecimal(t *testing.T, expected int64, actual decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, actual.Equal(decimal.NewFromInt(expected)),
		"%s: esperado %d, obtenido %s", msg, expected, actual)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStock — política por tipo de movimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStock_EntradaSumaAlDisponible(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedBalance(t, 10, 0, 0)

	movement, err := f.ledger.UpdateStock(context.Background(), inventory.UpdateStockInput{
		WarehouseID:  bodegaCentral,
		ProductID:    productoCafe,
		Quantity:     decimal.NewFromInt(5),
		MovementType: entity.MovementInbound,
		UserID:       usuarioTest,
		Reason:       "Compra a proveedor",
	})
	require.NoError(t, err)

	assertDecimal(t, 15, f.balance(t).Available, "disponible tras entrada")
	assertDecimal(t, 10, movement.PreviousQuantity, "previous del movimiento")
	assertDecimal(t, 15, movement.NewQuantity, "new del movimiento")
	assert.Equal(t, entity.MovementInbound, movement.MovementType)
}

func TestUpdateStock_SalidaRestaDelDisponible(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedBalance(t, 10, 0, 0)

	_, err := f.ledger.UpdateStock(context.Background(), inventory.UpdateStockInput{
		WarehouseID:  bodegaCentral,
		ProductID:    productoCafe,
		Quantity:     decimal.NewFromInt(4),
		MovementType: entity.MovementOutbound,
		UserID:       usuarioTest,
	})
	require.NoError(t, err)

	assertDecimal(t, 6, f.balance(t).Available, "disponible tras salida")
}

func TestUpdateStock_SalidaSinStockSuficiente(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedBalance(t, 3, 0, 0)

	_, err := f.ledger.UpdateStock(context.Background(), inventory.UpdateStockInput{
		WarehouseID:  bodegaCentral,
		ProductID:    productoCafe,
		Quantity:     decimal.NewFromInt(5),
		MovementType: entity.MovementOutbound,
		UserID:       usuarioTest,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"una salida que dejaría el saldo negativo debe rechazarse")

	// El rollback de la transacción no deja rastro
	assertDecimal(t, 3, f.balance(t).Available, "disponible intacto tras el fallo")
	assert.Empty(t, f.movements.movements, "no debe registrarse movimiento")
}

func TestUpdateStock_AjusteFijaValorAbsoluto(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedBalance(t, 40, 0, 0)

	movement, err := f.ledger.UpdateStock(context.Background(), inventory.UpdateStockInput{
		WarehouseID:  bodegaCentral,
		ProductID:    productoCafe,
		Quantity:     decimal.NewFromInt(25),
		MovementType: entity.MovementAdjustment,
		UserID:       usuarioTest,
		Reason:       "Conteo físico",
	})
	require.NoError(t, err)

	// El ajuste NO es un delta: 25 es el nuevo saldo
	assertDecimal(t, 25, f.balance(t).Available, "el ajuste fija el disponible")
	assertDecimal(t, 40, movement.PreviousQuantity, "previous registra el saldo anterior")
	assertDecimal(t, 25, movement.NewQuantity, "new registra el saldo fijado")
}

func TestUpdateStock_CantidadNegativaRechazada(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedBalance(t, 10, 0, 0)

	_, err := f.ledger.UpdateStock(context.Background(), inventory.UpdateStockInput{
		WarehouseID:  bodegaCentral,
		ProductID:    productoCafe,
		Quantity:     decimal.NewFromInt(-5),
		MovementType: entity.MovementInbound,
		UserID:       usuarioTest,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateStock_TipoDesconocidoRechazado(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedBalance(t, 10, 0, 0)

	_, err := f.ledger.UpdateStock(context.Background(), inventory.UpdateStockInput{
		WarehouseID:  bodegaCentral,
		ProductID:    productoCafe,
		Quantity:     decimal.NewFromInt(1),
		MovementType: "teleport",
		UserID:       usuarioTest,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)
}

func TestUpdateStock_BodegaInexistente(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.ledger.UpdateStock(context.Background(), inventory.UpdateStockInput{
		WarehouseID:  "99999999-9999-9999-9999-999999999999",
		ProductID:    productoCafe,
		Quantity:     decimal.NewFromInt(1),
		MovementType: entity.MovementInbound,
		UserID:       usuarioTest,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"un par nuevo exige que la bodega exista")
}

func TestUpdateStock_ProductoInexistente(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.ledger.UpdateStock(context.Background(), inventory.UpdateStockInput{
		WarehouseID:  bodegaCentral,
		ProductID:    "99999999-9999-9999-9999-999999999999",
		Quantity:     decimal.NewFromInt(1),
		MovementType: entity.MovementInbound,
		UserID:       usuarioTest,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateStock_CostoUnitarioCalculaValorTotal(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedBalance(t, 0, 0, 0)

	costo := decimal.NewFromInt(30)
	movement, err := f.ledger.UpdateStock(context.Background(), inventory.UpdateStockInput{
		WarehouseID:  bodegaCentral,
		ProductID:    productoCafe,
		Quantity:     decimal.NewFromInt(4),
		MovementType: entity.MovementInbound,
		UserID:       usuarioTest,
		UnitCost:     &costo,
	})
	require.NoError(t, err)
	require.NotNil(t, movement.TotalValue)
	assertDecimal(t, 120, *movement.TotalValue, "total = costo × cantidad")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reservas y confirmación de venta
// ──────────────────────────────────────────────────────────────────────────────

func TestReserve_MueveDisponibleAReservado(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedBalance(t, 10, 0, 0)
	ctx := context.Background()

	err := f.ledger.ReserveInTx(ctx, f.balances, bodegaCentral, productoCafe, decimal.NewFromInt(4))
	require.NoError(t, err)

	b := f.balance(t)
	assertDecimal(t, 6, b.Available, "disponible tras reservar")
	assertDecimal(t, 4, b.Reserved, "reservado tras reservar")
}

func TestReserve_SinDisponibleSuficiente(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedBalance(t, 2, 0, 0)

	err := f.ledger.ReserveInTx(context.Background(), f.balances, bodegaCentral, productoCafe, decimal.NewFromInt(3))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestReleaseReserved_DevuelveAlDisponible(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedBalance(t, 6, 4, 0)
	ctx := context.Background()

	require.NoError(t, f.ledger.ReleaseReservedInTx(ctx, f.balances, bodegaCentral, productoCafe, decimal.NewFromInt(4)))

	b := f.balance(t)
	assertDecimal(t, 10, b.Available, "disponible tras liberar")
	assertDecimal(t, 0, b.Reserved, "reservado tras liberar")
}

func TestReleaseReserved_MasDeLoReservado(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedBalance(t, 6, 2, 0)

	err := f.ledger.ReleaseReservedInTx(context.Background(), f.balances, bodegaCentral, productoCafe, decimal.NewFromInt(3))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestConfirmSaleStock_ConsumeSoloReservado(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedBalance(t, 6, 4, 0)

	movement, err := f.ledger.ConfirmSaleStockInTx(
		context.Background(), f.balances, f.movements,
		bodegaCentral, productoCafe, decimal.NewFromInt(4), usuarioTest, "venta-001",
	)
	require.NoError(t, err)

	b := f.balance(t)
	assertDecimal(t, 6, b.Available, "el disponible no se toca al confirmar")
	assertDecimal(t, 0, b.Reserved, "el reservado se consume")

	// previous/new capturan disponible+reservado
	assertDecimal(t, 10, movement.PreviousQuantity, "previous = disponible+reservado antes")
	assertDecimal(t, 6, movement.NewQuantity, "new = disponible+reservado después")
	assert.Equal(t, entity.MovementOutbound, movement.MovementType)
	assert.Equal(t, "sale", movement.ReferenceType)
	assert.Equal(t, "venta-001", movement.ReferenceID)
	assert.Equal(t, "Venta confirmada", movement.Reason)
}

func TestConfirmSaleStock_SinReservaSuficiente(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedBalance(t, 10, 1, 0)

	_, err := f.ledger.ConfirmSaleStockInTx(
		context.Background(), f.balances, f.movements,
		bodegaCentral, productoCafe, decimal.NewFromInt(2), usuarioTest, "venta-002",
	)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tránsito entrante
// ──────────────────────────────────────────────────────────────────────────────

func TestInboundTransit_AcumulaYDescuenta(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedBalance(t, 0, 0, 0)
	ctx := context.Background()

	require.NoError(t, f.ledger.AddInboundTransitInTx(ctx, f.balances, bodegaCentral, productoCafe, decimal.NewFromInt(7)))
	assertDecimal(t, 7, f.balance(t).InboundTransit, "tránsito tras acumular")

	require.NoError(t, f.ledger.RemoveInboundTransitInTx(ctx, f.balances, bodegaCentral, productoCafe, decimal.NewFromInt(7)))
	assertDecimal(t, 0, f.balance(t).InboundTransit, "tránsito tras descontar")
}

func TestInboundTransit_NoPuedeQuedarNegativo(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedBalance(t, 0, 0, 2)

	err := f.ledger.RemoveInboundTransitInTx(context.Background(), f.balances, bodegaCentral, productoCafe, decimal.NewFromInt(3))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestInboundTransit_CantidadNoPositiva(t *testing.T) {
	f := newLedgerFixture(t)

	err := f.ledger.AddInboundTransitInTx(context.Background(), f.balances, bodegaCentral, productoCafe, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckAvailability(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedBalance(t, 5, 3, 0)
	ctx := context.Background()

	ok, err := f.ledger.CheckAvailability(ctx, bodegaCentral, productoCafe, decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.True(t, ok, "5 disponibles alcanzan para 5")

	// Lo reservado no cuenta como disponible
	ok, err = f.ledger.CheckAvailability(ctx, bodegaCentral, productoCafe, decimal.NewFromInt(6))
	require.NoError(t, err)
	assert.False(t, ok, "el reservado no suma al disponible")
}

func TestGetBalance_ParInexistenteDevuelveCero(t *testing.T) {
	f := newLedgerFixture(t)

	b, err := f.ledger.GetBalance(context.Background(), bodegaCentral, productoCafe)
	require.NoError(t, err)
	assert.True(t, b.Available.IsZero())
	assert.True(t, b.Reserved.IsZero())
	assert.True(t, b.UpdatedAt.IsZero(), "un par sin historia llega con UpdatedAt en cero")
}
