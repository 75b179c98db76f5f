package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dayronmiranda/StoreManage/internal/application/auth"
	"github.com/dayronmiranda/StoreManage/internal/application/cash"
	"github.com/dayronmiranda/StoreManage/internal/application/incident"
	"github.com/dayronmiranda/StoreManage/internal/application/inventory"
	"github.com/dayronmiranda/StoreManage/internal/application/sale"
	"github.com/dayronmiranda/StoreManage/internal/application/transfer"
	"github.com/dayronmiranda/StoreManage/internal/application/usecase"
	"github.com/dayronmiranda/StoreManage/internal/infrastructure/postgres"
	httpRouter "github.com/dayronmiranda/StoreManage/internal/interfaces/http"
	"github.com/dayronmiranda/StoreManage/pkg/config"
	"github.com/dayronmiranda/StoreManage/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios atados al pool (lecturas y escrituras simples)
	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	paymentMethodRepo := postgres.NewPaymentMethodRepository(pool)
	balanceRepo := postgres.NewStockBalanceRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	transitRepo := postgres.NewTransitRepository(pool)
	cutRepo := postgres.NewCashCutRepository(pool)
	cashMovementRepo := postgres.NewCashMovementRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	incidentRepo := postgres.NewIncidentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Casos de uso
	ledger := inventory.NewLedger(txRunner, balanceRepo, movementRepo, warehouseRepo, productRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	saleUC := sale.NewUseCase(txRunner, saleRepo, warehouseRepo, productRepo, customerRepo, paymentMethodRepo, ledger)
	transferUC := transfer.NewUseCase(txRunner, transferRepo, transitRepo, warehouseRepo, productRepo, ledger)
	cashUC := cash.NewUseCase(txRunner, cutRepo, cashMovementRepo, saleRepo, expenseRepo, warehouseRepo)
	expenseUC := cash.NewExpenseUseCase(expenseRepo, warehouseRepo, cashUC)
	incidentUC := incident.NewUseCase(incidentRepo, warehouseRepo, productRepo)
	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "StoreManage API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		WarehouseUC: warehouseUC,
		ProductUC:   productUC,
		CustomerUC:  customerUC,
		UserUC:      userUC,
		Ledger:      ledger,
		SaleUC:      saleUC,
		TransferUC:  transferUC,
		CashUC:      cashUC,
		ExpenseUC:   expenseUC,
		IncidentUC:  incidentUC,
		PMRepo:      paymentMethodRepo,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
