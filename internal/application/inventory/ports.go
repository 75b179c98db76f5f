package inventory

import (
	"context"

	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que saldo y movimiento se escriben
// atómicamente: nunca queda un movimiento sin su saldo ni al revés.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}
