package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dayronmiranda/StoreManage/internal/application/dto"
	"github.com/dayronmiranda/StoreManage/internal/application/transfer"
	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

// TransferHandler maneja el ciclo de vida de traslados entre bodegas:
// pending → approved → in_transit → completed (reject/cancel como salidas).
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler de traslados.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Solicitar traslado
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "traslado con líneas"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.SourceWarehouseID == "" || in.DestinationWarehouseID == "" || len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "bodegas origen/destino y al menos una línea son requeridos"})
	}
	lines := make([]transfer.CreateLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, transfer.CreateLine{
			ProductID:         l.ProductID,
			RequestedQuantity: l.RequestedQuantity,
		})
	}
	result, err := h.uc.Create(c.Context(), transfer.CreateInput{
		SourceWarehouseID:      in.SourceWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		Lines:                  lines,
		EstimatedArrivalDate:   in.EstimatedArrivalDate,
		Carrier:                in.Carrier,
		Reason:                 in.Reason,
		Notes:                  in.Notes,
		Priority:               in.Priority,
	}, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTransferResponse(result))
}

// Approve godoc
// @Summary      Aprobar traslado
// @Description  pending → approved; reserva el stock solicitado en origen
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "transfer ID"
// @Param        body  body  dto.ApproveTransferRequest  false  "observaciones"
// @Success      200   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/approve [post]
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveTransferRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.Approve(c.Context(), c.Params("id"), GetUserID(c), in.Observations)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(result))
}

// Reject godoc
// @Summary      Rechazar traslado
// @Description  pending → cancelled sin tocar stock
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "transfer ID"
// @Param        body  body  dto.ApproveTransferRequest  false  "motivo"
// @Success      200   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	var in dto.ApproveTransferRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.Reject(c.Context(), c.Params("id"), GetUserID(c), in.Observations)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(result))
}

// Dispatch godoc
// @Summary      Despachar traslado
// @Description  approved → in_transit; el stock sale de origen y queda como tránsito entrante en destino
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "transfer ID"
// @Param        body  body  dto.DispatchTransferRequest  false  "guía y costo de transporte"
// @Success      200   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/dispatch [post]
func (h *TransferHandler) Dispatch(c *fiber.Ctx) error {
	var in dto.DispatchTransferRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.Dispatch(c.Context(), c.Params("id"), GetUserID(c), transfer.DispatchInput{
		TransportGuide: in.TransportGuide,
		TransportCost:  in.TransportCost,
		Observations:   in.Observations,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(result))
}

// Receive godoc
// @Summary      Recibir traslado
// @Description  in_transit → completed; registra cantidades recibidas y deja la discrepancia visible cuando difieren de lo enviado
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "transfer ID"
// @Param        body  body  dto.ReceiveTransferRequest  true  "cantidades recibidas por línea"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "al menos una línea recibida es requerida"})
	}
	lines := make([]transfer.ReceivedLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, transfer.ReceivedLine{
			ProductID:        l.ProductID,
			ReceivedQuantity: l.ReceivedQuantity,
			Observation:      l.Observation,
		})
	}
	result, err := h.uc.Receive(c.Context(), c.Params("id"), GetUserID(c), transfer.ReceiveInput{
		Lines:        lines,
		Observations: in.Observations,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(result))
}

// UpdateTransit godoc
// @Summary      Actualizar seguimiento en ruta
// @Description  Reporta avance y ubicación de la mercancía mientras el traslado está in_transit; delivered lo fija receive
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "transfer ID"
// @Param        body  body  dto.UpdateTransitRequest  true  "estado de tránsito y ubicación"
// @Success      200   {object}  dto.TransitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/transit [post]
func (h *TransferHandler) UpdateTransit(c *fiber.Ctx) error {
	var in dto.UpdateTransitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.TransitStatus == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "transit_status es requerido"})
	}
	result, err := h.uc.UpdateTransit(c.Context(), c.Params("id"), GetUserID(c), transfer.UpdateTransitInput{
		TransitStatus:   in.TransitStatus,
		CurrentLocation: in.CurrentLocation,
		Notes:           in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTransitResponse(result))
}

// GetTransit godoc
// @Summary      Consultar seguimiento en ruta
// @Tags         transfers
// @Produce      json
// @Param        id   path  string  true  "transfer ID"
// @Success      200  {object}  dto.TransitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/transit [get]
func (h *TransferHandler) GetTransit(c *fiber.Ctx) error {
	result, err := h.uc.GetTransit(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTransitResponse(result))
}

// Cancel godoc
// @Summary      Cancelar traslado
// @Description  Libera reservas o restaura stock según el estado en que se cancele
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "transfer ID"
// @Param        body  body  dto.CancelTransferRequest  false  "motivo"
// @Success      200   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelTransferRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.Cancel(c.Context(), c.Params("id"), GetUserID(c), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(result))
}

// GetByID godoc
// @Summary      Obtener traslado por ID
// @Tags         transfers
// @Produce      json
// @Param        id   path  string  true  "transfer ID"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	result, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(result))
}

// List godoc
// @Summary      Listar traslados
// @Description  warehouse_id filtra por bodega origen o destino
// @Tags         transfers
// @Produce      json
// @Param        warehouse_id  query  string  false  "filtrar por bodega (origen o destino)"
// @Param        status        query  string  false  "filtrar por estado"
// @Param        limit         query  int     false  "máximo de resultados"  default(20)
// @Param        offset        query  int     false  "desplazamiento"        default(0)
// @Success      200  {object}  dto.TransferListResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	filter := repository.TransferFilter{
		WarehouseID: c.Query("warehouse_id"),
		Status:      c.Query("status"),
		Limit:       c.QueryInt("limit", 20),
		Offset:      c.QueryInt("offset", 0),
	}
	transfers, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		items = append(items, dto.NewTransferResponse(t))
	}
	return c.JSON(dto.TransferListResponse{Items: items, Page: dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset}})
}
