package repository

import (
	"context"

	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
)

// TransferFilter filtros para listar traslados.
type TransferFilter struct {
	WarehouseID string // origen o destino
	Status      string
	Limit       int
	Offset      int
}

// TransferRepository puerto de persistencia para traslados y sus líneas.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	Update(ctx context.Context, transfer *entity.Transfer) error
	List(ctx context.Context, filter TransferFilter) ([]*entity.Transfer, error)
	NumberExists(ctx context.Context, number string) (bool, error)
}

// TransitRepository puerto para registros de mercancía en tránsito.
type TransitRepository interface {
	Create(ctx context.Context, transit *entity.GoodsInTransit) error
	GetByTransferID(ctx context.Context, transferID string) (*entity.GoodsInTransit, error)
	Update(ctx context.Context, transit *entity.GoodsInTransit) error
}
