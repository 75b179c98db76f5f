package transfer

import (
	"context"

	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

// TxRunner ejecuta una transición de traslado dentro de una transacción:
// el cambio de estado, las líneas y los movimientos de stock se confirman
// o revierten juntos.
type TxRunner interface {
	RunTransfer(ctx context.Context, fn func(
		transferRepo repository.TransferRepository,
		transitRepo repository.TransitRepository,
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}
