package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
)

// SaleLineRequest una línea de venta.
type SaleLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	WarehouseID      string           `json:"warehouse_id" validate:"required,uuid"`
	CustomerID       string           `json:"customer_id" validate:"omitempty,uuid"`
	PaymentMethodID  string           `json:"payment_method_id" validate:"required,uuid"`
	Lines            []SaleLineRequest `json:"lines" validate:"required,min=1"`
	Discount         decimal.Decimal  `json:"discount"`
	AmountReceived   *decimal.Decimal `json:"amount_received,omitempty"`
	PaymentReference string           `json:"payment_reference"`
	Observations     string           `json:"observations"`
}

// SaleDetailResponse línea de venta en respuestas.
type SaleDetailResponse struct {
	ProductID   string          `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID               string               `json:"id"`
	SaleNumber       string               `json:"sale_number"`
	WarehouseID      string               `json:"warehouse_id"`
	CustomerID       string               `json:"customer_id,omitempty"`
	UserID           string               `json:"user_id"`
	PaymentMethodID  string               `json:"payment_method_id"`
	Details          []SaleDetailResponse `json:"details"`
	Subtotal         decimal.Decimal      `json:"subtotal"`
	Discount         decimal.Decimal      `json:"discount"`
	Tax              decimal.Decimal      `json:"tax"`
	Total            decimal.Decimal      `json:"total"`
	AmountReceived   *decimal.Decimal     `json:"amount_received,omitempty"`
	Change           *decimal.Decimal     `json:"change,omitempty"`
	PaymentReference string               `json:"payment_reference,omitempty"`
	Status           string               `json:"status"`
	Observations     string               `json:"observations,omitempty"`
	SaleDate         time.Time            `json:"sale_date"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// DailySalesResponse agregado diario de ventas.
type DailySalesResponse struct {
	TotalSales      decimal.Decimal            `json:"total_sales"`
	SalesCount      int                        `json:"sales_count"`
	AverageTicket   decimal.Decimal            `json:"average_ticket"`
	ByPaymentMethod map[string]decimal.Decimal `json:"by_payment_method"`
}

// NewSaleResponse convierte la entidad a respuesta.
func NewSaleResponse(s *entity.Sale) SaleResponse {
	details := make([]SaleDetailResponse, 0, len(s.Details))
	for _, d := range s.Details {
		details = append(details, SaleDetailResponse{
			ProductID:   d.ProductID,
			ProductCode: d.ProductCode,
			ProductName: d.ProductName,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			Subtotal:    d.Subtotal,
			Discount:    d.Discount,
			Total:       d.Total,
		})
	}
	return SaleResponse{
		ID:               s.ID,
		SaleNumber:       s.SaleNumber,
		WarehouseID:      s.WarehouseID,
		CustomerID:       s.CustomerID,
		UserID:           s.UserID,
		PaymentMethodID:  s.PaymentMethodID,
		Details:          details,
		Subtotal:         s.Subtotal,
		Discount:         s.Discount,
		Tax:              s.Tax,
		Total:            s.Total,
		AmountReceived:   s.AmountReceived,
		Change:           s.Change,
		PaymentReference: s.PaymentReference,
		Status:           s.Status,
		Observations:     s.Observations,
		SaleDate:         s.SaleDate,
	}
}

// NewDailySalesResponse convierte el agregado a respuesta.
func NewDailySalesResponse(r *entity.DailySalesReport) DailySalesResponse {
	return DailySalesResponse{
		TotalSales:      r.TotalSales,
		SalesCount:      r.SalesCount,
		AverageTicket:   r.AverageTicket,
		ByPaymentMethod: r.ByPaymentMethod,
	}
}
