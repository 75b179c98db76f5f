package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dayronmiranda/StoreManage/internal/application/dto"
	"github.com/dayronmiranda/StoreManage/internal/application/incident"
	"github.com/dayronmiranda/StoreManage/internal/domain"
	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

// IncidentHandler maneja incidencias operativas y sus transiciones de estado.
type IncidentHandler struct {
	uc *incident.UseCase
}

// NewIncidentHandler construye el handler de incidencias.
func NewIncidentHandler(uc *incident.UseCase) *IncidentHandler {
	return &IncidentHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar incidencia
// @Description  Nace en open con folio INC-; el impacto económico inicial es la suma de cantidad × costo por línea
// @Tags         incidents
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateIncidentRequest  true  "incidencia con líneas y evidencia"
// @Success      201   {object}  dto.IncidentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/incidents [post]
func (h *IncidentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateIncidentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.IncidentType == "" || in.WarehouseID == "" || in.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "incident_type, warehouse_id y description son requeridos"})
	}
	lines := make([]incident.CreateLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, incident.CreateLine{
			ProductID:        l.ProductID,
			AffectedQuantity: l.AffectedQuantity,
			UnitCost:         l.UnitCost,
		})
	}
	evidence := make([]entity.IncidentEvidence, 0, len(in.Evidence))
	for _, e := range in.Evidence {
		evidence = append(evidence, entity.IncidentEvidence{
			FilePath:    e.FilePath,
			FileType:    e.FileType,
			Description: e.Description,
			UploadDate:  time.Now(),
		})
	}
	result, err := h.uc.Create(c.Context(), incident.CreateInput{
		IncidentType:  in.IncidentType,
		WarehouseID:   in.WarehouseID,
		Description:   in.Description,
		Priority:      in.Priority,
		ReferenceID:   in.ReferenceID,
		ReferenceType: in.ReferenceType,
		Lines:         lines,
		Evidence:      evidence,
	}, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewIncidentResponse(result))
}

// ChangeStatus godoc
// @Summary      Cambiar estado de incidencia
// @Description  Solo transiciones de la lista blanca: open↔investigating, open/investigating→resolved, resolved→closed
// @Tags         incidents
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "incident ID"
// @Param        body  body  dto.ChangeIncidentStatusRequest  true  "estado destino"
// @Success      200   {object}  dto.IncidentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/incidents/{id}/status [patch]
func (h *IncidentHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeIncidentStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status es requerido"})
	}
	result, err := h.uc.ChangeStatus(c.Context(), c.Params("id"), in.Status, GetUserID(c))
	if err != nil {
		if err == domain.ErrInvalidTransition {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "transición de estado no permitida"})
		}
		return writeError(c, err)
	}
	return c.JSON(dto.NewIncidentResponse(result))
}

// Resolve godoc
// @Summary      Resolver incidencia
// @Description  Registra acciones tomadas y sobrescribe el impacto económico con la cifra del operador
// @Tags         incidents
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "incident ID"
// @Param        body  body  dto.ResolveIncidentRequest  true  "acciones e impacto"
// @Success      200   {object}  dto.IncidentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/incidents/{id}/resolve [post]
func (h *IncidentHandler) Resolve(c *fiber.Ctx) error {
	var in dto.ResolveIncidentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.Resolve(c.Context(), c.Params("id"), incident.ResolveInput{
		ActionsTaken:   in.ActionsTaken,
		EconomicImpact: in.EconomicImpact,
	}, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewIncidentResponse(result))
}

// GetByID godoc
// @Summary      Obtener incidencia por ID
// @Tags         incidents
// @Produce      json
// @Param        id   path  string  true  "incident ID"
// @Success      200  {object}  dto.IncidentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/incidents/{id} [get]
func (h *IncidentHandler) GetByID(c *fiber.Ctx) error {
	result, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewIncidentResponse(result))
}

// List godoc
// @Summary      Listar incidencias
// @Tags         incidents
// @Produce      json
// @Param        warehouse_id  query  string  false  "filtrar por bodega"
// @Param        status        query  string  false  "filtrar por estado"
// @Param        priority      query  string  false  "filtrar por prioridad"
// @Param        limit         query  int     false  "máximo de resultados"  default(20)
// @Param        offset        query  int     false  "desplazamiento"        default(0)
// @Success      200  {object}  dto.IncidentListResponse
// @Router       /api/incidents [get]
func (h *IncidentHandler) List(c *fiber.Ctx) error {
	filter := repository.IncidentFilter{
		WarehouseID: c.Query("warehouse_id"),
		Status:      c.Query("status"),
		Priority:    c.Query("priority"),
		Limit:       c.QueryInt("limit", 20),
		Offset:      c.QueryInt("offset", 0),
	}
	incidents, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.IncidentResponse, 0, len(incidents))
	for _, i := range incidents {
		items = append(items, dto.NewIncidentResponse(i))
	}
	return c.JSON(dto.IncidentListResponse{Items: items, Page: dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset}})
}
