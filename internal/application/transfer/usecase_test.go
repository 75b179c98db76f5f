package transfer_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayronmiranda/StoreManage/internal/application/inventory"
	"github.com/dayronmiranda/StoreManage/internal/application/transfer"
	"github.com/dayronmiranda/StoreManage/internal/domain"
	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	origenID   = "11111111-1111-1111-1111-111111111111"
	destinoID  = "22222222-2222-2222-2222-222222222222"
	productoID = "33333333-3333-3333-3333-333333333333"
	adminID    = "44444444-4444-4444-4444-444444444444"
)

func balanceKey(warehouseID, productID string) string {
	return warehouseID + "|" + productID
}

type fakeBalanceRepo struct {
	balances map[string]entity.StockBalance
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

func (r *fakeBalanceRepo) ListByWarehouse(_ context.Context, _ string, _, _ int) ([]*entity.StockBalance, error) {
	return nil, nil
}

func (r *fakeBalanceRepo) ListBelowMinimum(_ context.Context, _ string) ([]*entity.StockBalance, error) {
	return nil, nil
}

type fakeMovementRepo struct {
	movements []*entity.StockMovement
}

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeMovementRepo) List(_ context.Context, _ repository.MovementFilter) ([]*entity.StockMovement, error) {
	return r.movements, nil
}

type fakeTransferRepo struct {
	transfers map[string]*entity.Transfer
}

func (r *fakeTransferRepo) Create(_ context.Context, tr *entity.Transfer) error {
	r.transfers[tr.ID] = tr
	return nil
}

func (r *fakeTransferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	return r.transfers[id], nil
}

func (r *fakeTransferRepo) Update(_ context.Context, tr *entity.Transfer) error {
	r.transfers[tr.ID] = tr
	return nil
}

func (r *fakeTransferRepo) List(_ context.Context, _ repository.TransferFilter) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	for _, tr := range r.transfers {
		out = append(out, tr)
	}
	return out, nil
}

func (r *fakeTransferRepo) NumberExists(_ context.Context, number string) (bool, error) {
	for _, tr := range r.transfers {
		if tr.TransferNumber == number {
			return true, nil
		}
	}
	return false, nil
}

type fakeTransitRepo struct {
	transits map[string]*entity.GoodsInTransit // key: transferID
}

func (r *fakeTransitRepo) Create(_ context.Context, tr *entity.GoodsInTransit) error {
	r.transits[tr.TransferID] = tr
	return nil
}

func (r *fakeTransitRepo) GetByTransferID(_ context.Context, transferID string) (*entity.GoodsInTransit, error) {
	return r.transits[transferID], nil
}

func (r *fakeTransitRepo) Update(_ context.Context, tr *entity.GoodsInTransit) error {
	r.transits[tr.TransferID] = tr
	return nil
}

type fakeWarehouseRepo struct{ warehouses map[string]*entity.Warehouse }

func (r *fakeWarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error { return nil }
func (r *fakeWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	return r.warehouses[id], nil
}
func (r *fakeWarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error { return nil }
func (r *fakeWarehouseRepo) List(_ context.Context, _, _ int) ([]*entity.Warehouse, error) {
	return nil, nil
}

type fakeProductRepo struct{ products map[string]*entity.Product }

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error { return nil }
func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *fakeProductRepo) GetByCode(_ context.Context, _ string) (*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error { return nil }
func (r *fakeProductRepo) List(_ context.Context, _, _ int) ([]*entity.Product, error) {
	return nil, nil
}

// fakeTxRunner implementa transfer.TxRunner e inventory.TxRunner con
// rollback por snapshot si fn falla.
type fakeTxRunner struct {
	transfers *fakeTransferRepo
	transits  *fakeTransitRepo
	balances  *fakeBalanceRepo
	movements *fakeMovementRepo
}

func (r *fakeTxRunner) snapshotBalances() map[string]entity.StockBalance {
	snap := make(map[string]entity.StockBalance, len(r.balances.balances))
	for k, v := range r.balances.balances {
		snap[k] = v
	}
	return snap
}

func (r *fakeTxRunner) RunTransfer(_ context.Context, fn func(
	transferRepo repository.TransferRepository,
	transitRepo repository.TransitRepository,
	balanceRepo repository.StockBalanceRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	balances := r.snapshotBalances()
	movCount := len(r.movements.movements)
	if err := fn(r.transfers, r.transits, r.balances, r.movements); err != nil {
		r.balances.balances = balances
		r.movements.movements = r.movements.movements[:movCount]
		return err
	}
	return nil
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	balanceRepo repository.StockBalanceRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	balances := r.snapshotBalances()
	movCount := len(r.movements.movements)
	if err := fn(r.balances, r.movements); err != nil {
		r.balances.balances = balances
		r.movements.movements = r.movements.movements[:movCount]
		return err
	}
	return nil
}

type transferFixture struct {
	uc        *transfer.UseCase
	balances  *fakeBalanceRepo
	transits  *fakeTransitRepo
	movements *fakeMovementRepo
}

// newTransferFixture arma el caso de uso con dos bodegas activas y un
// producto con 100 disponibles en origen.
func newTransferFixture(t *testing.T) *transferFixture {
	t.Helper()
	balances := &fakeBalanceRepo{balances: map[string]entity.StockBalance{
		balanceKey(origenID, productoID): {
			WarehouseID: origenID, ProductID: productoID,
			Available: decimal.NewFromInt(100), UpdatedAt: time.Now(),
		},
	}}
	movements := &fakeMovementRepo{}
	transfers := &fakeTransferRepo{transfers: make(map[string]*entity.Transfer)}
	transits := &fakeTransitRepo{transits: make(map[string]*entity.GoodsInTransit)}
	warehouses := &fakeWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		origenID:  {ID: origenID, Name: "Bodega Origen", IsActive: true},
		destinoID: {ID: destinoID, Name: "Bodega Destino", IsActive: true},
	}}
	products := &fakeProductRepo{products: map[string]*entity.Product{
		productoID: {ID: productoID, Code: "CAFE-250", Name: "Café molido 250g", IsActive: true},
	}}
	runner := &fakeTxRunner{transfers: transfers, transits: transits, balances: balances, movements: movements}
	ledger := inventory.NewLedger(runner, balances, movements, warehouses, products)
	return &transferFixture{
		uc:        transfer.NewUseCase(runner, transfers, transits, warehouses, products, ledger),
		balances:  balances,
		transits:  transits,
		movements: movements,
	}
}

func (f *transferFixture) balance(t *testing.T, warehouseID string) *entity.StockBalance {
	t.Helper()
	b, err := f.balances.Get(context.Background(), warehouseID, productoID)
	require.NoError(t, err)
	return b
}

func (f *transferFixture) create(t *testing.T, qty int64) *entity.Transfer {
	t.Helper()
	tr, err := f.uc.Create(context.Background(), transfer.CreateInput{
		SourceWarehouseID:      origenID,
		DestinationWarehouseID: destinoID,
		Lines:                  []transfer.CreateLine{{ProductID: productoID, RequestedQuantity: decimal.NewFromInt(qty)}},
		Reason:                 "Reposición",
	}, adminID)
	require.NoError(t, err)
	return tr
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida completo
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_CicloCompleto(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()

	// Create: pending, el stock no se toca todavía
	tr := f.create(t, 30)
	assert.Equal(t, entity.TransferPending, tr.Status)
	assert.Regexp(t, regexp.MustCompile(`^TRF-\d{8}$`), tr.TransferNumber)
	assert.Equal(t, "normal", tr.Priority, "prioridad por defecto")
	assert.True(t, f.balance(t, origenID).Available.Equal(dec(100)), "create no mueve stock")

	// Approve: reserva en origen
	tr, err := f.uc.Approve(ctx, tr.ID, adminID, "")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferApproved, tr.Status)
	origen := f.balance(t, origenID)
	assert.True(t, origen.Available.Equal(dec(70)), "disponible tras aprobar")
	assert.True(t, origen.Reserved.Equal(dec(30)), "reservado tras aprobar")

	// Dispatch: sale de origen, entra a tránsito en destino
	tr, err = f.uc.Dispatch(ctx, tr.ID, adminID, transfer.DispatchInput{TransportGuide: "GUIA-001"})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferInTransit, tr.Status)
	origen = f.balance(t, origenID)
	assert.True(t, origen.Available.Equal(dec(70)), "el stock salió de origen")
	assert.True(t, origen.Reserved.IsZero(), "la reserva se consumió al despachar")
	assert.True(t, f.balance(t, destinoID).InboundTransit.Equal(dec(30)), "tránsito entrante en destino")
	require.NotNil(t, tr.Details[0].SentQuantity)
	assert.True(t, tr.Details[0].SentQuantity.Equal(dec(30)))

	transit, err := f.transits.GetByTransferID(ctx, tr.ID)
	require.NoError(t, err)
	require.NotNil(t, transit, "el despacho crea el registro de tránsito")
	assert.Equal(t, entity.TransitPreparing, transit.TransitStatus)

	// Receive con merma: llegaron 28 de 30
	tr, err = f.uc.Receive(ctx, tr.ID, adminID, transfer.ReceiveInput{
		Lines: []transfer.ReceivedLine{
			{ProductID: productoID, ReceivedQuantity: dec(28), Observation: "dos unidades dañadas"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCompleted, tr.Status)

	destino := f.balance(t, destinoID)
	assert.True(t, destino.Available.Equal(dec(28)), "destino recibe lo realmente llegado")
	assert.True(t, destino.InboundTransit.IsZero(), "el tránsito se limpia por lo enviado")

	// La discrepancia queda registrada, no se autocorrige
	detail := tr.Details[0]
	require.NotNil(t, detail.Discrepancy)
	assert.True(t, detail.Discrepancy.Equal(dec(-2)), "discrepancia = recibido − enviado")
	assert.Equal(t, "dos unidades dañadas", detail.DiscrepancyNote)

	transit, _ = f.transits.GetByTransferID(ctx, tr.ID)
	assert.Equal(t, entity.TransitDelivered, transit.TransitStatus)
}

func TestTransfer_RecepcionCompletaSinDiscrepancia(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()

	tr := f.create(t, 10)
	tr, err := f.uc.Approve(ctx, tr.ID, adminID, "")
	require.NoError(t, err)
	tr, err = f.uc.Dispatch(ctx, tr.ID, adminID, transfer.DispatchInput{})
	require.NoError(t, err)
	tr, err = f.uc.Receive(ctx, tr.ID, adminID, transfer.ReceiveInput{
		Lines: []transfer.ReceivedLine{{ProductID: productoID, ReceivedQuantity: dec(10)}},
	})
	require.NoError(t, err)

	assert.Nil(t, tr.Details[0].Discrepancy, "sin diferencia no hay discrepancia")
	// Conservación: origen 90 + destino 10 = 100
	assert.True(t, f.balance(t, origenID).Available.Equal(dec(90)))
	assert.True(t, f.balance(t, destinoID).Available.Equal(dec(10)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones de Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_MismaBodegaOrigenYDestino(t *testing.T) {
	f := newTransferFixture(t)
	_, err := f.uc.Create(context.Background(), transfer.CreateInput{
		SourceWarehouseID:      origenID,
		DestinationWarehouseID: origenID,
		Lines:                  []transfer.CreateLine{{ProductID: productoID, RequestedQuantity: dec(1)}},
	}, adminID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_SinDisponibilidad(t *testing.T) {
	f := newTransferFixture(t)
	_, err := f.uc.Create(context.Background(), transfer.CreateInput{
		SourceWarehouseID:      origenID,
		DestinationWarehouseID: destinoID,
		Lines:                  []transfer.CreateLine{{ProductID: productoID, RequestedQuantity: dec(101)}},
	}, adminID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestCreate_SinLineas(t *testing.T) {
	f := newTransferFixture(t)
	_, err := f.uc.Create(context.Background(), transfer.CreateInput{
		SourceWarehouseID:      origenID,
		DestinationWarehouseID: destinoID,
	}, adminID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones inválidas y reject
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_SoloDesdePending(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()

	tr := f.create(t, 10)
	_, err := f.uc.Approve(ctx, tr.ID, adminID, "")
	require.NoError(t, err)

	_, err = f.uc.Approve(ctx, tr.ID, adminID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "aprobar dos veces no duplica la reserva")
	assert.True(t, f.balance(t, origenID).Reserved.Equal(dec(10)))
}

func TestDispatch_SoloDesdeApproved(t *testing.T) {
	f := newTransferFixture(t)
	tr := f.create(t, 10)

	_, err := f.uc.Dispatch(context.Background(), tr.ID, adminID, transfer.DispatchInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "despachar sin aprobar debe fallar")
}

func TestReceive_SoloDesdeInTransit(t *testing.T) {
	f := newTransferFixture(t)
	tr := f.create(t, 10)

	_, err := f.uc.Receive(context.Background(), tr.ID, adminID, transfer.ReceiveInput{
		Lines: []transfer.ReceivedLine{{ProductID: productoID, ReceivedQuantity: dec(10)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestReject_DesdePending(t *testing.T) {
	f := newTransferFixture(t)
	tr := f.create(t, 10)

	tr, err := f.uc.Reject(context.Background(), tr.ID, adminID, "sin capacidad en destino")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferRejected, tr.Status)
	assert.Equal(t, "sin capacidad en destino", tr.Notes)
	assert.True(t, f.balance(t, origenID).Available.Equal(dec(100)), "rechazar no toca stock")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel por estado
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_DesdePendingNoTocaStock(t *testing.T) {
	f := newTransferFixture(t)
	tr := f.create(t, 10)

	tr, err := f.uc.Cancel(context.Background(), tr.ID, adminID, "ya no se necesita")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCancelled, tr.Status)
	assert.True(t, f.balance(t, origenID).Available.Equal(dec(100)))
}

func TestCancel_DesdeApprovedLiberaReservas(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	tr := f.create(t, 25)
	_, err := f.uc.Approve(ctx, tr.ID, adminID, "")
	require.NoError(t, err)

	tr, err = f.uc.Cancel(ctx, tr.ID, adminID, "cambio de plan")
	require.NoError(t, err)

	origen := f.balance(t, origenID)
	assert.True(t, origen.Available.Equal(dec(100)), "la reserva vuelve al disponible")
	assert.True(t, origen.Reserved.IsZero())
}

func TestCancel_DesdeInTransitDevuelveAOrigen(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	tr := f.create(t, 20)
	_, err := f.uc.Approve(ctx, tr.ID, adminID, "")
	require.NoError(t, err)
	_, err = f.uc.Dispatch(ctx, tr.ID, adminID, transfer.DispatchInput{})
	require.NoError(t, err)

	tr, err = f.uc.Cancel(ctx, tr.ID, adminID, "camión accidentado")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCancelled, tr.Status)

	assert.True(t, f.balance(t, origenID).Available.Equal(dec(100)), "lo enviado regresa a origen")
	assert.True(t, f.balance(t, destinoID).InboundTransit.IsZero(), "el tránsito en destino se limpia")

	ultimo := f.movements.movements[len(f.movements.movements)-1]
	assert.Equal(t, entity.MovementInbound, ultimo.MovementType)
	assert.Equal(t, "cancelled_transfer", ultimo.ReferenceType)
}

// ──────────────────────────────────────────────────────────────────────────────
// Seguimiento en ruta
// ──────────────────────────────────────────────────────────────────────────────

func (f *transferFixture) dispatch(t *testing.T, qty int64) *entity.Transfer {
	t.Helper()
	ctx := context.Background()
	tr := f.create(t, qty)
	_, err := f.uc.Approve(ctx, tr.ID, adminID, "")
	require.NoError(t, err)
	tr, err = f.uc.Dispatch(ctx, tr.ID, adminID, transfer.DispatchInput{})
	require.NoError(t, err)
	return tr
}

func TestUpdateTransit_AvanzaEnRuta(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	tr := f.dispatch(t, 15)

	transit, err := f.uc.UpdateTransit(ctx, tr.ID, adminID, transfer.UpdateTransitInput{
		TransitStatus:   entity.TransitInRoute,
		CurrentLocation: "Km 42 carretera norte",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransitInRoute, transit.TransitStatus)
	assert.Equal(t, "Km 42 carretera norte", transit.CurrentLocation)
	assert.Equal(t, adminID, transit.UpdatedBy)
	assert.False(t, transit.UpdatedAt.IsZero())

	transit, err = f.uc.UpdateTransit(ctx, tr.ID, adminID, transfer.UpdateTransitInput{
		TransitStatus: entity.TransitAtDestination,
		Notes:         "esperando descarga",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransitAtDestination, transit.TransitStatus)
	assert.Equal(t, "Km 42 carretera norte", transit.CurrentLocation, "sin ubicación nueva conserva la anterior")
	assert.Equal(t, "esperando descarga", transit.Notes)
}

func TestUpdateTransit_SoloMientrasInTransit(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()

	tr := f.create(t, 10)
	_, err := f.uc.UpdateTransit(ctx, tr.ID, adminID, transfer.UpdateTransitInput{TransitStatus: entity.TransitInRoute})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "sin despachar no hay nada en ruta")

	tr = f.dispatch(t, 10)
	_, err = f.uc.Receive(ctx, tr.ID, adminID, transfer.ReceiveInput{
		Lines: []transfer.ReceivedLine{{ProductID: productoID, ReceivedQuantity: dec(10)}},
	})
	require.NoError(t, err)
	_, err = f.uc.UpdateTransit(ctx, tr.ID, adminID, transfer.UpdateTransitInput{TransitStatus: entity.TransitInRoute})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "completado ya no admite seguimiento")
}

func TestUpdateTransit_DeliveredSoloViaReceive(t *testing.T) {
	f := newTransferFixture(t)
	tr := f.dispatch(t, 10)

	_, err := f.uc.UpdateTransit(context.Background(), tr.ID, adminID, transfer.UpdateTransitInput{
		TransitStatus: entity.TransitDelivered,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateTransit_TrasladoInexistente(t *testing.T) {
	f := newTransferFixture(t)
	_, err := f.uc.UpdateTransit(context.Background(), "99999999-9999-9999-9999-999999999999", adminID,
		transfer.UpdateTransitInput{TransitStatus: entity.TransitInRoute})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetTransit_SoloTrasDespachar(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()

	tr := f.create(t, 10)
	_, err := f.uc.GetTransit(ctx, tr.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "antes de despachar no existe registro")

	_, err = f.uc.Approve(ctx, tr.ID, adminID, "")
	require.NoError(t, err)
	_, err = f.uc.Dispatch(ctx, tr.ID, adminID, transfer.DispatchInput{})
	require.NoError(t, err)

	transit, err := f.uc.GetTransit(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransitPreparing, transit.TransitStatus)
	assert.Equal(t, tr.ID, transit.TransferID)
}

func TestCancel_EstadoTerminal(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	tr := f.create(t, 10)
	_, err := f.uc.Reject(ctx, tr.ID, adminID, "no procede")
	require.NoError(t, err)

	_, err = f.uc.Cancel(ctx, tr.ID, adminID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "rejected es terminal")
}
