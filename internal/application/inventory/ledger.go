package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dayronmiranda/StoreManage/internal/domain"
	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

// Ledger es el libro de inventario: dueño exclusivo de StockBalance y
// StockMovement. Los flujos de venta, traslado e incidencia nunca mutan saldos
// directamente; invocan estas operaciones y reciben el movimiento creado.
//
// Todas las operaciones devuelven error (nada de booleanos): un faltante de
// stock es siempre domain.ErrInsufficientStock, recuperable por el caller.
type Ledger struct {
	txRunner      TxRunner
	balanceRepo   repository.StockBalanceRepository
	movementRepo  repository.StockMovementRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
}

// NewLedger construye el libro de inventario. balanceRepo/movementRepo van
// atados al pool y se usan solo para lecturas; las escrituras pasan por txRunner.
func NewLedger(
	txRunner TxRunner,
	balanceRepo repository.StockBalanceRepository,
	movementRepo repository.StockMovementRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
) *Ledger {
	return &Ledger{
		txRunner:      txRunner,
		balanceRepo:   balanceRepo,
		movementRepo:  movementRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
	}
}

// UpdateStockInput entrada para UpdateStock.
type UpdateStockInput struct {
	WarehouseID   string
	ProductID     string
	Quantity      decimal.Decimal
	MovementType  string
	UserID        string
	ReferenceID   string
	ReferenceType string
	Reason        string
	UnitCost      *decimal.Decimal
}

// UpdateStock aplica un movimiento sobre el saldo disponible y registra el
// movimiento en una sola transacción, con la fila del saldo bloqueada
// (SELECT FOR UPDATE). Verifica que bodega y producto existan antes de crear
// el par de forma perezosa.
func (l *Ledger) UpdateStock(ctx context.Context, in UpdateStockInput) (*entity.StockMovement, error) {
	if err := l.ensurePairExists(ctx, in.WarehouseID, in.ProductID); err != nil {
		return nil, err
	}
	var movement *entity.StockMovement
	err := l.txRunner.Run(ctx, func(
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		var err error
		movement, err = l.UpdateStockInTx(ctx, balanceRepo, movementRepo, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// UpdateStockInTx es la variante para callers que ya abrieron su transacción
// (ventas, traslados). Asume que bodega y producto fueron validados.
//
// Política por tipo de movimiento:
//   - inbound, transfer_inbound: suma al disponible
//   - outbound, transfer_outbound: resta; domain.ErrInsufficientStock si el
//     resultado sería negativo (precondición dura, nunca se recorta a cero)
//   - adjustment: fija el disponible al valor absoluto de Quantity
//   - cualquier otro: domain.ErrInvalidMovement
func (l *Ledger) UpdateStockInTx(
	ctx context.Context,
	balanceRepo repository.StockBalanceRepository,
	movementRepo repository.StockMovementRepository,
	in UpdateStockInput,
) (*entity.StockMovement, error) {
	if in.Quantity.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	balance, err := balanceRepo.GetForUpdate(ctx, in.WarehouseID, in.ProductID)
	if err != nil {
		return nil, err
	}

	previous := balance.Available
	var next decimal.Decimal
	switch in.MovementType {
	case entity.MovementInbound, entity.MovementTransferInbound:
		next = previous.Add(in.Quantity)
	case entity.MovementOutbound, entity.MovementTransferOutbound:
		next = previous.Sub(in.Quantity)
		if next.IsNegative() {
			return nil, domain.ErrInsufficientStock
		}
	case entity.MovementAdjustment:
		// Ajuste absoluto: Quantity ES el nuevo saldo, no un delta.
		// Comportamiento heredado del sistema original; el historial registra
		// Quantity tal cual y la dirección se lee de previous/new.
		next = in.Quantity
	default:
		return nil, domain.ErrInvalidMovement
	}

	now := time.Now()
	balance.Available = next
	balance.UpdatedAt = now
	if err := balanceRepo.Upsert(ctx, balance); err != nil {
		return nil, err
	}

	movement := &entity.StockMovement{
		ID:               uuid.New().String(),
		WarehouseID:      in.WarehouseID,
		ProductID:        in.ProductID,
		MovementType:     in.MovementType,
		Quantity:         in.Quantity,
		PreviousQuantity: previous,
		NewQuantity:      next,
		UserID:           in.UserID,
		ReferenceID:      in.ReferenceID,
		ReferenceType:    in.ReferenceType,
		Reason:           in.Reason,
		UnitCost:         in.UnitCost,
		MovementDate:     now,
	}
	if in.UnitCost != nil {
		total := in.UnitCost.Mul(in.Quantity)
		movement.TotalValue = &total
	}
	if err := movementRepo.Create(ctx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// ensurePairExists valida bodega y producto antes de crear el saldo perezosamente.
func (l *Ledger) ensurePairExists(ctx context.Context, warehouseID, productID string) error {
	balance, err := l.balanceRepo.Get(ctx, warehouseID, productID)
	if err != nil {
		return err
	}
	if !balance.UpdatedAt.IsZero() {
		return nil // el par ya existe
	}
	warehouse, err := l.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return err
	}
	if warehouse == nil {
		return domain.ErrNotFound
	}
	product, err := l.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return nil
}
