package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dayronmiranda/StoreManage/internal/application/auth"
	"github.com/dayronmiranda/StoreManage/internal/application/cash"
	"github.com/dayronmiranda/StoreManage/internal/application/incident"
	"github.com/dayronmiranda/StoreManage/internal/application/inventory"
	"github.com/dayronmiranda/StoreManage/internal/application/sale"
	"github.com/dayronmiranda/StoreManage/internal/application/transfer"
	"github.com/dayronmiranda/StoreManage/internal/application/usecase"
	"github.com/dayronmiranda/StoreManage/internal/domain/entity"
	"github.com/dayronmiranda/StoreManage/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	CustomerUC  *usecase.CustomerUseCase
	UserUC      *usecase.UserUseCase
	Ledger      *inventory.Ledger
	SaleUC      *sale.UseCase
	TransferUC  *transfer.UseCase
	CashUC      *cash.UseCase
	ExpenseUC   *cash.ExpenseUseCase
	IncidentUC  *incident.UseCase
	PMRepo      repository.PaymentMethodRepository
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	anyRole := RequireRole(entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor)
	adminOnly := RequireRole(entity.RoleAdmin)
	warehouseStaff := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	salesStaff := RequireRole(entity.RoleAdmin, entity.RoleVendedor)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses: lectura para todos, escritura solo admin
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Get("/", anyRole, warehouseHandler.List)
	warehouses.Get("/:id", anyRole, warehouseHandler.GetByID)
	warehouses.Put("/:id", adminOnly, warehouseHandler.Update)

	// Products: lectura para todos, escritura admin y bodeguero
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", warehouseStaff, productHandler.Create)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Put("/:id", warehouseStaff, productHandler.Update)

	// Customers y métodos de pago
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.PMRepo)
	customers.Post("/", salesStaff, customerHandler.Create)
	customers.Get("/", anyRole, customerHandler.List)
	customers.Get("/:id", anyRole, customerHandler.GetByID)
	protected.Get("/payment-methods", anyRole, customerHandler.ListPaymentMethods)

	// Users (solo admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Post("/:id/deactivate", userHandler.Deactivate)

	// Inventory: movimientos manuales solo admin/bodeguero, consultas para todos
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	inv.Post("/movements", warehouseStaff, inventoryHandler.RegisterMovement)
	inv.Get("/movements", anyRole, inventoryHandler.ListMovements)
	inv.Get("/stock/:warehouse_id", anyRole, inventoryHandler.ListStock)
	inv.Get("/stock/:warehouse_id/below-minimum", anyRole, inventoryHandler.ListBelowMinimum)
	inv.Get("/stock/:warehouse_id/:product_id", anyRole, inventoryHandler.GetBalance)

	// Sales
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Post("/", salesStaff, saleHandler.Create)
	sales.Get("/", anyRole, saleHandler.List)
	sales.Get("/daily-totals", anyRole, saleHandler.DailyTotals)
	sales.Get("/:id", anyRole, saleHandler.GetByID)
	sales.Post("/:id/cancel", salesStaff, saleHandler.Cancel)

	// Transfers: aprobar solo admin, operar admin/bodeguero
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", warehouseStaff, transferHandler.Create)
	transfers.Get("/", anyRole, transferHandler.List)
	transfers.Get("/:id", anyRole, transferHandler.GetByID)
	transfers.Get("/:id/transit", anyRole, transferHandler.GetTransit)
	transfers.Post("/:id/transit", warehouseStaff, transferHandler.UpdateTransit)
	transfers.Post("/:id/approve", adminOnly, transferHandler.Approve)
	transfers.Post("/:id/reject", adminOnly, transferHandler.Reject)
	transfers.Post("/:id/dispatch", warehouseStaff, transferHandler.Dispatch)
	transfers.Post("/:id/receive", warehouseStaff, transferHandler.Receive)
	transfers.Post("/:id/cancel", adminOnly, transferHandler.Cancel)

	// Cash: cortes y libro de caja para admin/vendedor
	cashGroup := protected.Group("/cash")
	cashHandler := NewCashHandler(deps.CashUC, deps.ExpenseUC)
	cashGroup.Post("/cuts/open", salesStaff, cashHandler.OpenCut)
	cashGroup.Get("/cuts", anyRole, cashHandler.ListCuts)
	cashGroup.Get("/cuts/current", anyRole, cashHandler.GetCurrentCut)
	cashGroup.Post("/cuts/:id/close", salesStaff, cashHandler.CloseCut)
	cashGroup.Post("/movements", salesStaff, cashHandler.RegisterMovement)
	cashGroup.Get("/summary", anyRole, cashHandler.GetSummary)

	// Expenses: cualquiera registra, solo admin aprueba o rechaza
	expenses := protected.Group("/expenses")
	expenses.Post("/", anyRole, cashHandler.CreateExpense)
	expenses.Get("/", anyRole, cashHandler.ListExpenses)
	expenses.Post("/:id/approve", adminOnly, cashHandler.ApproveExpense)
	expenses.Post("/:id/reject", adminOnly, cashHandler.RejectExpense)

	// Incidents: cualquiera reporta, admin/bodeguero gestionan
	incidents := protected.Group("/incidents")
	incidentHandler := NewIncidentHandler(deps.IncidentUC)
	incidents.Post("/", anyRole, incidentHandler.Create)
	incidents.Get("/", anyRole, incidentHandler.List)
	incidents.Get("/:id", anyRole, incidentHandler.GetByID)
	incidents.Patch("/:id/status", warehouseStaff, incidentHandler.ChangeStatus)
	incidents.Post("/:id/resolve", warehouseStaff, incidentHandler.Resolve)
}
