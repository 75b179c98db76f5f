package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dayronmiranda/StoreManage/internal/application/cash"
	"github.com/dayronmiranda/StoreManage/internal/application/dto"
	"github.com/dayronmiranda/StoreManage/internal/domain"
)

// CashHandler maneja cortes de caja, libro de caja y gastos operativos.
type CashHandler struct {
	uc        *cash.UseCase
	expenseUC *cash.ExpenseUseCase
}

// NewCashHandler construye el handler de caja.
func NewCashHandler(uc *cash.UseCase, expenseUC *cash.ExpenseUseCase) *CashHandler {
	return &CashHandler{uc: uc, expenseUC: expenseUC}
}

// OpenCut godoc
// @Summary      Abrir corte de caja
// @Description  A lo sumo un corte abierto por bodega; el fondo inicial queda anotado en el libro de caja
// @Tags         cash
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenCashCutRequest  true  "bodega y fondo inicial"
// @Success      201   {object}  dto.CashCutResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash/cuts/open [post]
func (h *CashHandler) OpenCut(c *fiber.Ctx) error {
	var in dto.OpenCashCutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.WarehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	cut, err := h.uc.Open(c.Context(), in.WarehouseID, GetUserID(c), in.InitialAmount, in.CutDate)
	if err != nil {
		if err == domain.ErrConflict {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CUT_ALREADY_OPEN", Message: "la bodega ya tiene un corte abierto"})
		}
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCashCutResponse(cut))
}

// CloseCut godoc
// @Summary      Cerrar corte de caja
// @Description  Calcula esperado = inicial + ventas − gastos aprobados, y diferencia = real − esperado
// @Tags         cash
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "cash cut ID"
// @Param        body  body  dto.CloseCashCutRequest  true  "monto real contado"
// @Success      200   {object}  dto.CashCutResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash/cuts/{id}/close [post]
func (h *CashHandler) CloseCut(c *fiber.Ctx) error {
	var in dto.CloseCashCutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cut, err := h.uc.Close(c.Context(), c.Params("id"), GetUserID(c), in.ActualFinal, in.Observations)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewCashCutResponse(cut))
}

// GetCurrentCut godoc
// @Summary      Corte abierto de una bodega
// @Tags         cash
// @Produce      json
// @Param        warehouse_id  query  string  true  "warehouse ID"
// @Success      200  {object}  dto.CashCutResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash/cuts/current [get]
func (h *CashHandler) GetCurrentCut(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	cut, err := h.uc.GetCurrentCut(c.Context(), warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	if cut == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "la bodega no tiene corte abierto"})
	}
	return c.JSON(dto.NewCashCutResponse(cut))
}

// ListCuts godoc
// @Summary      Historial de cortes de una bodega
// @Tags         cash
// @Produce      json
// @Param        warehouse_id  query  string  true   "warehouse ID"
// @Param        limit         query  int     false  "máximo de resultados"  default(20)
// @Param        offset        query  int     false  "desplazamiento"        default(0)
// @Success      200  {array}  dto.CashCutResponse
// @Router       /api/cash/cuts [get]
func (h *CashHandler) ListCuts(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	cuts, err := h.uc.List(c.Context(), warehouseID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.CashCutResponse, 0, len(cuts))
	for _, cut := range cuts {
		items = append(items, dto.NewCashCutResponse(cut))
	}
	return c.JSON(items)
}

// RegisterMovement godoc
// @Summary      Anotar movimiento de caja
// @Description  Se liga al corte abierto si existe; puede registrarse sin corte
// @Tags         cash
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterCashMovementRequest  true  "movimiento"
// @Success      201   {object}  dto.CashMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cash/movements [post]
func (h *CashHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterCashMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.WarehouseID == "" || in.MovementType == "" || in.Concept == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id, movement_type y concept son requeridos"})
	}
	movement, err := h.uc.RegisterMovement(c.Context(), cash.RegisterMovementInput{
		WarehouseID:   in.WarehouseID,
		MovementType:  in.MovementType,
		Concept:       in.Concept,
		Amount:        in.Amount,
		ReferenceID:   in.ReferenceID,
		ReferenceType: in.ReferenceType,
		Notes:         in.Notes,
	}, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCashMovementResponse(movement))
}

// GetSummary godoc
// @Summary      Resumen de caja del día
// @Tags         cash
// @Produce      json
// @Param        warehouse_id  query  string  true   "warehouse ID"
// @Param        date          query  string  false  "día (YYYY-MM-DD, hoy por defecto)"
// @Success      200  {object}  dto.CashSummaryResponse
// @Router       /api/cash/summary [get]
func (h *CashHandler) GetSummary(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
		}
		date = &t
	}
	summary, err := h.uc.GetSummary(c.Context(), warehouseID, date)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.CashSummaryResponse{
		TotalInbound:   summary.TotalInbound,
		TotalOutbound:  summary.TotalOutbound,
		CurrentBalance: summary.CurrentBalance,
		MovementsCount: summary.MovementsCount,
	}
	if summary.CurrentCut != nil {
		cut := dto.NewCashCutResponse(summary.CurrentCut)
		out.CurrentCut = &cut
	}
	if summary.DailySales != nil {
		out.DailySales = dto.NewDailySalesResponse(summary.DailySales)
	}
	return c.JSON(out)
}

// CreateExpense godoc
// @Summary      Registrar gasto operativo
// @Description  El gasto nace en pending; solo los aprobados restan en el corte
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateExpenseRequest  true  "gasto"
// @Success      201   {object}  dto.ExpenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/expenses [post]
func (h *CashHandler) CreateExpense(c *fiber.Ctx) error {
	var in dto.CreateExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.WarehouseID == "" || in.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id y description son requeridos"})
	}
	expense, err := h.expenseUC.CreateExpense(c.Context(), cash.CreateExpenseInput{
		WarehouseID:   in.WarehouseID,
		Category:      in.Category,
		Description:   in.Description,
		Amount:        in.Amount,
		ReceiptNumber: in.ReceiptNumber,
		Supplier:      in.Supplier,
		Notes:         in.Notes,
	}, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewExpenseResponse(expense))
}

// ApproveExpense godoc
// @Summary      Aprobar gasto
// @Tags         expenses
// @Produce      json
// @Param        id   path  string  true  "expense ID"
// @Success      200  {object}  dto.ExpenseResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/expenses/{id}/approve [post]
func (h *CashHandler) ApproveExpense(c *fiber.Ctx) error {
	expense, err := h.expenseUC.ApproveExpense(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewExpenseResponse(expense))
}

// RejectExpense godoc
// @Summary      Rechazar gasto
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "expense ID"
// @Param        body  body  dto.RejectExpenseRequest  false  "motivo"
// @Success      200   {object}  dto.ExpenseResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/expenses/{id}/reject [post]
func (h *CashHandler) RejectExpense(c *fiber.Ctx) error {
	var in dto.RejectExpenseRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	expense, err := h.expenseUC.RejectExpense(c.Context(), c.Params("id"), GetUserID(c), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewExpenseResponse(expense))
}

// ListExpenses godoc
// @Summary      Listar gastos
// @Tags         expenses
// @Produce      json
// @Param        warehouse_id  query  string  false  "filtrar por bodega"
// @Param        status        query  string  false  "filtrar por estado"
// @Param        limit         query  int     false  "máximo de resultados"  default(20)
// @Param        offset        query  int     false  "desplazamiento"        default(0)
// @Success      200  {array}  dto.ExpenseResponse
// @Router       /api/expenses [get]
func (h *CashHandler) ListExpenses(c *fiber.Ctx) error {
	expenses, err := h.expenseUC.ListExpenses(c.Context(), c.Query("warehouse_id"), c.Query("status"),
		c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		items = append(items, dto.NewExpenseResponse(e))
	}
	return c.JSON(items)
}
