package sale

import (
	"context"

	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

// TxRunner ejecuta la creación o cancelación de una venta dentro de una
// transacción. Un fallo en cualquier línea revierte reservas, venta y
// movimientos a la vez: no hace falta compensación manual.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}
