package sale

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dayronmiranda/StoreManage/internal/application/inventory"
	"github.com/dayronmiranda/StoreManage/internal/domain"
	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
	"github.com/dayronmiranda/StoreManage/pkg/folio"
)

// UseCase maneja ventas. Create reserva y confirma stock línea a línea dentro
// de una sola transacción y deja la venta en completed; Cancel restituye el
// stock con movimientos inbound referenciando la venta cancelada.
type UseCase struct {
	txRunner          TxRunner
	saleRepo          repository.SaleRepository
	warehouseRepo     repository.WarehouseRepository
	productRepo       repository.ProductRepository
	customerRepo      repository.CustomerRepository
	paymentMethodRepo repository.PaymentMethodRepository
	ledger            *inventory.Ledger
}

// NewUseCase construye el caso de uso de ventas.
func NewUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	paymentMethodRepo repository.PaymentMethodRepository,
	ledger *inventory.Ledger,
) *UseCase {
	return &UseCase{
		txRunner:          txRunner,
		saleRepo:          saleRepo,
		warehouseRepo:     warehouseRepo,
		productRepo:       productRepo,
		customerRepo:      customerRepo,
		paymentMethodRepo: paymentMethodRepo,
		ledger:            ledger,
	}
}

// CreateLine una línea de venta solicitada.
type CreateLine struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

// CreateInput entrada para Create.
type CreateInput struct {
	WarehouseID      string
	CustomerID       string
	PaymentMethodID  string
	Lines            []CreateLine
	Discount         decimal.Decimal
	AmountReceived   *decimal.Decimal
	PaymentReference string
	Observations     string
}

// Create valida bodega, cliente opcional y método de pago; luego, en una
// transacción: reserva cada línea, inserta la venta con folio VTA- y totales
// desnormalizados, y confirma el stock reservado. Si una línea falla a mitad
// del recorrido la transacción entera se revierte y ninguna reserva sobrevive.
func (uc *UseCase) Create(ctx context.Context, in CreateInput, userID string) (*entity.Sale, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	warehouse, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || !warehouse.IsActive {
		return nil, domain.ErrNotFound
	}
	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil || !customer.IsActive {
			return nil, domain.ErrNotFound
		}
	}
	method, err := uc.paymentMethodRepo.GetByID(ctx, in.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	if method == nil || !method.IsActive {
		return nil, domain.ErrNotFound
	}

	number, err := folio.Generate(ctx, folio.PrefixSale, uc.saleRepo.NumberExists)
	if err != nil {
		return nil, err
	}

	var result *entity.Sale
	err = uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		details := make([]entity.SaleDetail, 0, len(in.Lines))
		subtotal := decimal.Zero
		for _, line := range in.Lines {
			if !line.Quantity.IsPositive() {
				return domain.ErrInvalidInput
			}
			product, err := uc.productRepo.GetByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil || !product.IsActive {
				return domain.ErrNotFound
			}
			if err := uc.ledger.ReserveInTx(ctx, balanceRepo, in.WarehouseID, line.ProductID, line.Quantity); err != nil {
				return err
			}
			lineSubtotal := line.Quantity.Mul(line.UnitPrice)
			details = append(details, entity.SaleDetail{
				ProductID:   line.ProductID,
				ProductCode: product.Code,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				Subtotal:    lineSubtotal,
				Discount:    line.Discount,
				Total:       lineSubtotal.Sub(line.Discount),
			})
			subtotal = subtotal.Add(lineSubtotal)
		}

		total := subtotal.Sub(in.Discount)
		var change *decimal.Decimal
		if in.AmountReceived != nil && in.AmountReceived.GreaterThan(total) {
			c := in.AmountReceived.Sub(total)
			change = &c
		}

		sale := &entity.Sale{
			ID:               uuid.New().String(),
			SaleNumber:       number,
			WarehouseID:      in.WarehouseID,
			CustomerID:       in.CustomerID,
			UserID:           userID,
			PaymentMethodID:  in.PaymentMethodID,
			Details:          details,
			Subtotal:         subtotal,
			Discount:         in.Discount,
			Tax:              decimal.Zero,
			Total:            total,
			AmountReceived:   in.AmountReceived,
			Change:           change,
			PaymentReference: in.PaymentReference,
			Status:           entity.SaleCompleted,
			Observations:     in.Observations,
			SaleDate:         time.Now(),
		}
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}

		for _, detail := range details {
			if _, err := uc.ledger.ConfirmSaleStockInTx(ctx, balanceRepo, movementRepo, in.WarehouseID, detail.ProductID, detail.Quantity, userID, sale.ID); err != nil {
				return err
			}
		}
		result = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel restituye el stock de cada línea con un movimiento inbound
// (reference_type cancelled_sale) y marca la venta cancelled.
func (uc *UseCase) Cancel(ctx context.Context, saleID, userID string) (*entity.Sale, error) {
	var result *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		sale, err := saleRepo.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.SaleCancelled {
			return domain.ErrInvalidState
		}
		for _, detail := range sale.Details {
			if _, err := uc.ledger.UpdateStockInTx(ctx, balanceRepo, movementRepo, inventory.UpdateStockInput{
				WarehouseID:   sale.WarehouseID,
				ProductID:     detail.ProductID,
				Quantity:      detail.Quantity,
				MovementType:  entity.MovementInbound,
				UserID:        userID,
				ReferenceID:   sale.ID,
				ReferenceType: "cancelled_sale",
				Reason:        "Cancelación de venta",
			}); err != nil {
				return err
			}
		}
		if err := saleRepo.UpdateStatus(ctx, sale.ID, entity.SaleCancelled); err != nil {
			return err
		}
		sale.Status = entity.SaleCancelled
		result = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID obtiene una venta.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// List lista ventas con filtros.
func (uc *UseCase) List(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	return uc.saleRepo.List(ctx, filter)
}

// DailyTotals expone el agregado diario para el corte de caja.
func (uc *UseCase) DailyTotals(ctx context.Context, warehouseID string, date time.Time) (*entity.DailySalesReport, error) {
	return uc.saleRepo.DailyTotals(ctx, warehouseID, date)
}
