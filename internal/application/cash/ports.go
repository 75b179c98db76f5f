package cash

import (
	"context"

	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

// TxRunner ejecuta apertura/cierre de corte dentro de una transacción.
// El constraint parcial de BD (un corte open por bodega) respalda el chequeo
// aplicativo: un insert concurrente duplicado falla en el commit.
type TxRunner interface {
	RunCash(ctx context.Context, fn func(
		cutRepo repository.CashCutRepository,
		movementRepo repository.CashMovementRepository,
	) error) error
}
