package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dayronmiranda/StoreManage/internal/application/dto"
	"github.com/dayronmiranda/StoreManage/internal/application/usecase"
	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

// CustomerHandler maneja clientes y el catálogo de métodos de pago.
type CustomerHandler struct {
	uc     *usecase.CustomerUseCase
	pmRepo repository.PaymentMethodRepository
}

// NewCustomerHandler construye el handler de clientes.
func NewCustomerHandler(uc *usecase.CustomerUseCase, pmRepo repository.PaymentMethodRepository) *CustomerHandler {
	return &CustomerHandler{uc: uc, pmRepo: pmRepo}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerRequest  true  "datos del cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	customer, err := h.uc.Create(c.Context(), usecase.CreateCustomerInput{
		Code:    in.Code,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCustomerResponse(customer))
}

// GetByID godoc
// @Summary      Obtener cliente por ID
// @Tags         customers
// @Produce      json
// @Param        id   path  string  true  "customer ID"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	customer, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewCustomerResponse(customer))
}

// List godoc
// @Summary      Listar clientes
// @Tags         customers
// @Produce      json
// @Param        limit   query  int  false  "máximo de resultados"  default(20)
// @Param        offset  query  int  false  "desplazamiento"        default(0)
// @Success      200  {array}  dto.CustomerResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	customers, err := h.uc.List(c.Context(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for _, cu := range customers {
		items = append(items, dto.NewCustomerResponse(cu))
	}
	return c.JSON(items)
}

// ListPaymentMethods godoc
// @Summary      Listar métodos de pago
// @Tags         customers
// @Produce      json
// @Success      200  {array}  dto.PaymentMethodResponse
// @Router       /api/payment-methods [get]
func (h *CustomerHandler) ListPaymentMethods(c *fiber.Ctx) error {
	methods, err := h.pmRepo.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.PaymentMethodResponse, 0, len(methods))
	for _, m := range methods {
		items = append(items, dto.NewPaymentMethodResponse(m))
	}
	return c.JSON(items)
}
