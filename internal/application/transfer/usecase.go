package transfer

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

// UseCase maneja el ciclo de vida de traslados entre bodegas:
//
//	pending --approve--> approved --dispatch--> in_transit --receive--> completed
//	pending --reject--> rejected
//	{pending, approved, in_transit} --cancel--> cancelled
//
// El stock sale de origen en dispatch (no en create/approve) y entra a destino
// en receive, por la cantidad realmente recibida. approve reserva el stock en
// origen para cerrar la ventana entre validación y despacho.
type UseCase struct {
	txRunner      TxRunner
	transferRepo  repository.TransferRepository
	transitRepo   repository.TransitRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	ledger        *inventory.Ledger
}

// NewUseCase construye el caso de uso de traslados.
func NewUseCase(
	txRunner TxRunner,
	transferRepo repository.TransferRepository,
	transitRepo repository.TransitRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	ledger *inventory.Ledger,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		transferRepo:  transferRepo,
		transitRepo:   transitRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		ledger:        ledger,
	}
}

// CreateLine una línea solicitada.
type CreateLine struct {
	ProductID         string
	RequestedQuantity decimal.Decimal
}

// CreateInput entrada para Create.
type CreateInput struct {
	SourceWarehouseID      string
	DestinationWarehouseID string
	Lines                  []CreateLine
	EstimatedArrivalDate   *time.Time
	Carrier                string
	Reason                 string
	Notes                  string
	Priority               string
}

// Create valida bodegas y disponibilidad (solo chequeo, sin reservar) y crea
// el traslado en pending con folio TRF-.
func (uc *UseCase) Create(ctx context.Context, in CreateInput, userID string) (*entity.Transfer, error) {
	if in.SourceWarehouseID == in.DestinationWarehouseID {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.requireActiveWarehouse(ctx, in.SourceWarehouseID); err != nil {
		return nil, err
	}
	if err := uc.requireActiveWarehouse(ctx, in.DestinationWarehouseID); err != nil {
		return nil, err
	}

	details := make([]entity.TransferDetail, 0, len(in.Lines))
	for _, line := range in.Lines {
		if !line.RequestedQuantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive {
			return nil, domain.ErrNotFound
		}
		ok, err := uc.ledger.CheckAvailability(ctx, in.SourceWarehouseID, line.ProductID, line.RequestedQuantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrInsufficientStock
		}
		details = append(details, entity.TransferDetail{
			ProductID:         line.ProductID,
			ProductCode:       product.Code,
			ProductName:       product.Name,
			RequestedQuantity: line.RequestedQuantity,
			TransitQuantity:   decimal.Zero,
		})
	}

	number, err := folio.Generate(ctx, folio.PrefixTransfer, uc.transferRepo.NumberExists)
	if err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = "normal"
	}
	transfer := &entity.Transfer{
		ID:                     uuid.New().String(),
		TransferNumber:         number,
		SourceWarehouseID:      in.SourceWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		Status:                 entity.TransferPending,
		Details:                details,
		RequestedByUserID:      userID,
		RequestDate:            time.Now(),
		EstimatedArrivalDate:   in.EstimatedArrivalDate,
		Carrier:                in.Carrier,
		Reason:                 in.Reason,
		Notes:                  in.Notes,
		Priority:               priority,
	}
	if err := uc.transferRepo.Create(ctx, transfer); err != nil {
		return nil, err
	}
	return transfer, nil
}

// Approve pasa pending→approved y reserva la cantidad solicitada en origen,
// línea por línea, dentro de una transacción. Si alguna línea ya no tiene
// disponible, toda la aprobación se revierte.
func (uc *UseCase) Approve(ctx context.Context, transferID, userID, observations string) (*entity.Transfer, error) {
	var result *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		_ repository.TransitRepository,
		balanceRepo repository.StockBalanceRepository,
		_ repository.StockMovementRepository,
	) error {
		transfer, err := transferRepo.GetByID(ctx, transferID)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		if transfer.Status != entity.TransferPending {
			return domain.ErrInvalidState
		}
		for _, detail := range transfer.Details {
			if err := uc.ledger.ReserveInTx(ctx, balanceRepo, transfer.SourceWarehouseID, detail.ProductID, detail.RequestedQuantity); err != nil {
				return err
			}
		}
		now := time.Now()
		transfer.Status = entity.TransferApproved
		transfer.ApprovedByUserID = userID
		transfer.ApprovalDate = &now
		if observations != "" {
			transfer.Notes = observations
		}
		if err := transferRepo.Update(ctx, transfer); err != nil {
			return err
		}
		result = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reject pasa pending→rejected. No hay stock que devolver.
func (uc *UseCase) Reject(ctx context.Context, transferID, userID, reason string) (*entity.Transfer, error) {
	transfer, err := uc.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrNotFound
	}
	if transfer.Status != entity.TransferPending {
		return nil, domain.ErrInvalidState
	}
	now := time.Now()
	transfer.Status = entity.TransferRejected
	transfer.ApprovedByUserID = userID
	transfer.ApprovalDate = &now
	transfer.Notes = reason
	if err := uc.transferRepo.Update(ctx, transfer); err != nil {
		return nil, err
	}
	return transfer, nil
}

// DispatchInput entrada para Dispatch.
type DispatchInput struct {
	TransportGuide string
	TransportCost  *decimal.Decimal
	Observations   string
}

// Dispatch pasa approved→in_transit. Aquí es donde el stock sale de origen:
// por cada línea se libera la reserva y se aplica transfer_outbound, y el
// destino acumula tránsito entrante. Crea el registro GoodsInTransit.
func (uc *UseCase) Dispatch(ctx context.Context, transferID, userID string, in DispatchInput) (*entity.Transfer, error) {
	var result *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		transitRepo repository.TransitRepository,
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		transfer, err := transferRepo.GetByID(ctx, transferID)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		if transfer.Status != entity.TransferApproved {
			return domain.ErrInvalidState
		}

		for i := range transfer.Details {
			detail := &transfer.Details[i]
			qty := detail.RequestedQuantity
			if err := uc.ledger.ReleaseReservedInTx(ctx, balanceRepo, transfer.SourceWarehouseID, detail.ProductID, qty); err != nil {
				return err
			}
			if _, err := uc.ledger.UpdateStockInTx(ctx, balanceRepo, movementRepo, inventory.UpdateStockInput{
				WarehouseID:   transfer.SourceWarehouseID,
				ProductID:     detail.ProductID,
				Quantity:      qty,
				MovementType:  entity.MovementTransferOutbound,
				UserID:        userID,
				ReferenceID:   transfer.ID,
				ReferenceType: "transfer",
				Reason:        "Traslado hacia " + transfer.DestinationWarehouseID,
			}); err != nil {
				return err
			}
			if err := uc.ledger.AddInboundTransitInTx(ctx, balanceRepo, transfer.DestinationWarehouseID, detail.ProductID, qty); err != nil {
				return err
			}
			sent := qty
			detail.SentQuantity = &sent
			detail.TransitQuantity = qty
		}

		now := time.Now()
		transfer.Status = entity.TransferInTransit
		transfer.DispatchedByUserID = userID
		transfer.DepartureDate = &now
		transfer.TrackingNumber = in.TransportGuide
		transfer.TransportCost = in.TransportCost
		if in.Observations != "" {
			transfer.Notes = in.Observations
		}
		if err := transferRepo.Update(ctx, transfer); err != nil {
			return err
		}

		transit := &entity.GoodsInTransit{
			ID:            uuid.New().String(),
			TransferID:    transfer.ID,
			TransitStatus: entity.TransitPreparing,
			UpdatedBy:     userID,
			UpdatedAt:     now,
			Notes:         "Traslado despachado desde bodega origen",
		}
		if err := transitRepo.Create(ctx, transit); err != nil {
			return err
		}
		result = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReceivedLine cantidad realmente recibida de una línea (puede diferir de la enviada).
type ReceivedLine struct {
	ProductID        string
	ReceivedQuantity decimal.Decimal
	Observation      string
}

// ReceiveInput entrada para Receive.
type ReceiveInput struct {
	Lines        []ReceivedLine
	Observations string
}

// Receive pasa in_transit→completed. Por cada línea recibida descuenta el
// tránsito entrante por lo enviado y aplica transfer_inbound en destino por lo
// recibido; la discrepancia (recibido − enviado) se calcula solo cuando
// difieren y no se autocorrige: el faltante queda visible en el historial.
func (uc *UseCase) Receive(ctx context.Context, transferID, userID string, in ReceiveInput) (*entity.Transfer, error) {
	var result *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		transitRepo repository.TransitRepository,
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		transfer, err := transferRepo.GetByID(ctx, transferID)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		if transfer.Status != entity.TransferInTransit {
			return domain.ErrInvalidState
		}

		for _, line := range in.Lines {
			detail := findDetail(transfer, line.ProductID)
			if detail == nil || detail.SentQuantity == nil {
				continue
			}
			sent := *detail.SentQuantity
			if line.ReceivedQuantity.IsNegative() {
				return domain.ErrInvalidInput
			}
			if err := uc.ledger.RemoveInboundTransitInTx(ctx, balanceRepo, transfer.DestinationWarehouseID, detail.ProductID, sent); err != nil {
				return err
			}
			if line.ReceivedQuantity.IsPositive() {
				if _, err := uc.ledger.UpdateStockInTx(ctx, balanceRepo, movementRepo, inventory.UpdateStockInput{
					WarehouseID:   transfer.DestinationWarehouseID,
					ProductID:     detail.ProductID,
					Quantity:      line.ReceivedQuantity,
					MovementType:  entity.MovementTransferInbound,
					UserID:        userID,
					ReferenceID:   transfer.ID,
					ReferenceType: "transfer",
					Reason:        "Traslado desde " + transfer.SourceWarehouseID,
				}); err != nil {
					return err
				}
			}
			received := line.ReceivedQuantity
			detail.ReceivedQuantity = &received
			detail.TransitQuantity = decimal.Zero
			if !received.Equal(sent) {
				discrepancy := received.Sub(sent)
				detail.Discrepancy = &discrepancy
				detail.DiscrepancyNote = line.Observation
			}
		}

		now := time.Now()
		transfer.Status = entity.TransferCompleted
		transfer.ReceivedByUserID = userID
		transfer.ActualArrivalDate = &now
		transfer.CompletedDate = &now
		if in.Observations != "" {
			transfer.Notes = in.Observations
		}
		if err := transferRepo.Update(ctx, transfer); err != nil {
			return err
		}

		transit, err := transitRepo.GetByTransferID(ctx, transfer.ID)
		if err != nil {
			return err
		}
		if transit != nil {
			transit.TransitStatus = entity.TransitDelivered
			transit.UpdatedBy = userID
			transit.UpdatedAt = now
			transit.Notes = "Traslado recibido en bodega destino"
			if err := transitRepo.Update(ctx, transit); err != nil {
				return err
			}
		}
		result = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel cancela desde pending, approved o in_transit. Desde approved libera
// las reservas en origen; desde in_transit devuelve a origen lo enviado con un
// movimiento inbound/cancelled_transfer y limpia el tránsito en destino.
func (uc *UseCase) Cancel(ctx context.Context, transferID, userID, reason string) (*entity.Transfer, error) {
	var result *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		_ repository.TransitRepository,
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		transfer, err := transferRepo.GetByID(ctx, transferID)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		switch transfer.Status {
		case entity.TransferCompleted, entity.TransferCancelled, entity.TransferRejected:
			return domain.ErrInvalidState
		case entity.TransferApproved:
			for _, detail := range transfer.Details {
				if err := uc.ledger.ReleaseReservedInTx(ctx, balanceRepo, transfer.SourceWarehouseID, detail.ProductID, detail.RequestedQuantity); err != nil {
					return err
				}
			}
		case entity.TransferInTransit:
			for i := range transfer.Details {
				detail := &transfer.Details[i]
				if detail.SentQuantity == nil || !detail.SentQuantity.IsPositive() {
					continue
				}
				sent := *detail.SentQuantity
				if err := uc.ledger.RemoveInboundTransitInTx(ctx, balanceRepo, transfer.DestinationWarehouseID, detail.ProductID, sent); err != nil {
					return err
				}
				if _, err := uc.ledger.UpdateStockInTx(ctx, balanceRepo, movementRepo, inventory.UpdateStockInput{
					WarehouseID:   transfer.SourceWarehouseID,
					ProductID:     detail.ProductID,
					Quantity:      sent,
					MovementType:  entity.MovementInbound,
					UserID:        userID,
					ReferenceID:   transfer.ID,
					ReferenceType: "cancelled_transfer",
					Reason:        "Cancelación de traslado",
				}); err != nil {
					return err
				}
				detail.TransitQuantity = decimal.Zero
			}
		}
		transfer.Status = entity.TransferCancelled
		transfer.Notes = reason
		if err := transferRepo.Update(ctx, transfer); err != nil {
			return err
		}
		result = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateTransitInput entrada para UpdateTransit.
type UpdateTransitInput struct {
	TransitStatus   string
	CurrentLocation string
	Notes           string
}

// UpdateTransit avanza el seguimiento de un traslado en camino
// (preparing → in_route → at_destination) con la ubicación reportada por el
// operador. Solo mientras el traslado sigue in_transit; delivered lo fija
// Receive, nunca este endpoint.
func (uc *UseCase) UpdateTransit(ctx context.Context, transferID, userID string, in UpdateTransitInput) (*entity.GoodsInTransit, error) {
	switch in.TransitStatus {
	case entity.TransitPreparing, entity.TransitInRoute, entity.TransitAtDestination:
	default:
		return nil, domain.ErrInvalidInput
	}
	transfer, err := uc.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrNotFound
	}
	if transfer.Status != entity.TransferInTransit {
		return nil, domain.ErrInvalidState
	}
	transit, err := uc.transitRepo.GetByTransferID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transit == nil {
		return nil, domain.ErrNotFound
	}
	transit.TransitStatus = in.TransitStatus
	if in.CurrentLocation != "" {
		transit.CurrentLocation = in.CurrentLocation
	}
	if in.Notes != "" {
		transit.Notes = in.Notes
	}
	transit.UpdatedBy = userID
	transit.UpdatedAt = time.Now()
	if err := uc.transitRepo.Update(ctx, transit); err != nil {
		return nil, err
	}
	return transit, nil
}

// GetTransit devuelve el registro de tránsito de un traslado despachado.
func (uc *UseCase) GetTransit(ctx context.Context, transferID string) (*entity.GoodsInTransit, error) {
	transit, err := uc.transitRepo.GetByTransferID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transit == nil {
		return nil, domain.ErrNotFound
	}
	return transit, nil
}

// GetByID obtiene un traslado.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	transfer, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrNotFound
	}
	return transfer, nil
}

// List lista traslados con filtros.
func (uc *UseCase) List(ctx context.Context, filter repository.TransferFilter) ([]*entity.Transfer, error) {
	return uc.transferRepo.List(ctx, filter)
}

func (uc *UseCase) requireActiveWarehouse(ctx context.Context, id string) error {
	warehouse, err := uc.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if warehouse == nil || !warehouse.IsActive {
		return domain.ErrNotFound
	}
	return nil
}

func findDetail(transfer *entity.Transfer, productID string) *entity.TransferDetail {
	for i := range transfer.Details {
		if transfer.Details[i].ProductID == productID {
			return &transfer.Details[i]
		}
	}
	return nil
}
