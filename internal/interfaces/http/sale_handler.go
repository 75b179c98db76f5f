package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dayronmiranda/StoreManage/internal/application/dto"
	"github.com/dayronmiranda/StoreManage/internal/application/sale"
	"github.com/dayronmiranda/StoreManage/internal/domain"
	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

// SaleHandler maneja ventas: creación atómica, cancelación y consultas.
type SaleHandler struct {
	uc *sale.UseCase
}

// NewSaleHandler construye el handler de ventas.
func NewSaleHandler(uc *sale.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Crear venta
// @Description  Reserva, registra y confirma el stock de cada línea en una sola transacción; si algo falla no queda ninguna reserva viva
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "venta con líneas"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.WarehouseID == "" || in.PaymentMethodID == "" || len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id, payment_method_id y al menos una línea son requeridos"})
	}
	lines := make([]sale.CreateLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, sale.CreateLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
		})
	}
	result, err := h.uc.Create(c.Context(), sale.CreateInput{
		WarehouseID:      in.WarehouseID,
		CustomerID:       in.CustomerID,
		PaymentMethodID:  in.PaymentMethodID,
		Lines:            lines,
		Discount:         in.Discount,
		AmountReceived:   in.AmountReceived,
		PaymentReference: in.PaymentReference,
		Observations:     in.Observations,
	}, GetUserID(c))
	if err != nil {
		if err == domain.ErrInsufficientStock {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente para una de las líneas"})
		}
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSaleResponse(result))
}

// Cancel godoc
// @Summary      Cancelar venta
// @Description  Devuelve el stock vendido a la bodega; solo ventas completed
// @Tags         sales
// @Produce      json
// @Param        id   path  string  true  "sale ID"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	result, err := h.uc.Cancel(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewSaleResponse(result))
}

// GetByID godoc
// @Summary      Obtener venta por ID
// @Tags         sales
// @Produce      json
// @Param        id   path  string  true  "sale ID"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	result, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewSaleResponse(result))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Produce      json
// @Param        warehouse_id  query  string  false  "filtrar por bodega"
// @Param        status        query  string  false  "filtrar por estado"
// @Param        from          query  string  false  "fecha inicial (RFC3339)"
// @Param        to            query  string  false  "fecha final (RFC3339)"
// @Param        limit         query  int     false  "máximo de resultados"  default(20)
// @Param        offset        query  int     false  "desplazamiento"        default(0)
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	filter := repository.SaleFilter{
		WarehouseID: c.Query("warehouse_id"),
		Status:      c.Query("status"),
		Limit:       c.QueryInt("limit", 20),
		Offset:      c.QueryInt("offset", 0),
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
		}
		filter.To = &t
	}
	sales, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		items = append(items, dto.NewSaleResponse(s))
	}
	return c.JSON(dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset}})
}

// DailyTotals godoc
// @Summary      Totales de venta del día por método de pago
// @Tags         sales
// @Produce      json
// @Param        warehouse_id  query  string  true   "warehouse ID"
// @Param        date          query  string  false  "día (YYYY-MM-DD, hoy por defecto)"
// @Success      200  {object}  dto.DailySalesResponse
// @Router       /api/sales/daily-totals [get]
func (h *SaleHandler) DailyTotals(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
		}
		day = t
	}
	report, err := h.uc.DailyTotals(c.Context(), warehouseID, day)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewDailySalesResponse(report))
}
