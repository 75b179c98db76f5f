package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dayronmiranda/StoreManage/internal/application/dto"
	"github.com/dayronmiranda/StoreManage/internal/application/inventory"
	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

// InventoryHandler expone el libro mayor de stock: movimientos manuales,
// saldos por bodega y alertas de mínimo.
type InventoryHandler struct {
	ledger *inventory.Ledger
}

// NewInventoryHandler construye el handler de inventario.
func NewInventoryHandler(ledger *inventory.Ledger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  inbound suma, outbound resta (falla si el saldo quedaría negativo), adjustment fija el saldo absoluto
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateStockRequest  true  "movimiento"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.UpdateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.WarehouseID == "" || in.ProductID == "" || in.MovementType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id, product_id y movement_type son requeridos"})
	}
	movement, err := h.ledger.UpdateStock(c.Context(), inventory.UpdateStockInput{
		WarehouseID:  in.WarehouseID,
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		MovementType: in.MovementType,
		UserID:       GetUserID(c),
		Reason:       in.Reason,
		UnitCost:     in.UnitCost,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewStockMovementResponse(movement))
}

// GetBalance godoc
// @Summary      Saldo de un producto en una bodega
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id  path  string  true  "warehouse ID"
// @Param        product_id    path  string  true  "product ID"
// @Success      200  {object}  dto.StockBalanceResponse
// @Router       /api/inventory/stock/{warehouse_id}/{product_id} [get]
func (h *InventoryHandler) GetBalance(c *fiber.Ctx) error {
	balance, err := h.ledger.GetBalance(c.Context(), c.Params("warehouse_id"), c.Params("product_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockBalanceResponse(balance))
}

// ListStock godoc
// @Summary      Saldos de una bodega
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id  path   string  true   "warehouse ID"
// @Param        limit         query  int     false  "máximo de resultados"  default(20)
// @Param        offset        query  int     false  "desplazamiento"        default(0)
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/inventory/stock/{warehouse_id} [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	balances, err := h.ledger.ListByWarehouse(c.Context(), c.Params("warehouse_id"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.StockBalanceResponse, 0, len(balances))
	for _, b := range balances {
		items = append(items, dto.NewStockBalanceResponse(b))
	}
	return c.JSON(dto.StockListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}})
}

// ListBelowMinimum godoc
// @Summary      Productos bajo stock mínimo en una bodega
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id  path  string  true  "warehouse ID"
// @Success      200  {array}  dto.StockBalanceResponse
// @Router       /api/inventory/stock/{warehouse_id}/below-minimum [get]
func (h *InventoryHandler) ListBelowMinimum(c *fiber.Ctx) error {
	balances, err := h.ledger.ListBelowMinimum(c.Context(), c.Params("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.StockBalanceResponse, 0, len(balances))
	for _, b := range balances {
		items = append(items, dto.NewStockBalanceResponse(b))
	}
	return c.JSON(items)
}

// ListMovements godoc
// @Summary      Historial de movimientos de stock
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id   query  string  false  "filtrar por bodega"
// @Param        product_id     query  string  false  "filtrar por producto"
// @Param        movement_type  query  string  false  "filtrar por tipo"
// @Param        from           query  string  false  "fecha inicial (RFC3339)"
// @Param        to             query  string  false  "fecha final (RFC3339)"
// @Param        limit          query  int     false  "máximo de resultados"  default(20)
// @Param        offset         query  int     false  "desplazamiento"        default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	filter := repository.MovementFilter{
		WarehouseID:  c.Query("warehouse_id"),
		ProductID:    c.Query("product_id"),
		MovementType: c.Query("movement_type"),
		Limit:        c.QueryInt("limit", 20),
		Offset:       c.QueryInt("offset", 0),
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
	movements, err := h.ledger.ListMovements(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, dto.NewStockMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset}})
}
