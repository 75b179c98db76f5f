package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code         string           `json:"code" validate:"required,min=1,max=100"`
	Name         string           `json:"name" validate:"required,min=1,max=200"`
	Description  string           `json:"description"`
	CategoryID   string           `json:"category_id"`
	Price        decimal.Decimal  `json:"price"`
	Cost         decimal.Decimal  `json:"cost"`
	MinimumStock *decimal.Decimal `json:"minimum_stock"`
	UnitMeasure  string           `json:"unit_measure"`
}

// UpdateProductRequest entrada para actualizar un producto.
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	Cost         *decimal.Decimal `json:"cost"`
	MinimumStock *decimal.Decimal `json:"minimum_stock"`
	IsActive     *bool            `json:"is_active"`
}

// ProductResponse salida de un producto. El stock por bodega se consulta
// en los endpoints de inventario, nunca aquí.
type ProductResponse struct {
	ID           string           `json:"id"`
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	CategoryID   string           `json:"category_id,omitempty"`
	Price        decimal.Decimal  `json:"price"`
	Cost         decimal.Decimal  `json:"cost"`
	MinimumStock *decimal.Decimal `json:"minimum_stock,omitempty"`
	UnitMeasure  string           `json:"unit_measure"`
	IsActive     bool             `json:"is_active"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// NewProductResponse convierte la entidad a respuesta.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		CategoryID:   p.CategoryID,
		Price:        p.Price,
		Cost:         p.Cost,
		MinimumStock: p.MinimumStock,
		UnitMeasure:  p.UnitMeasure,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
