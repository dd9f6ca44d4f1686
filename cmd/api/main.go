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

	"github.com/jhoicas/Caja-api/internal/application/auth"
	"github.com/jhoicas/Caja-api/internal/application/checkout"
	"github.com/jhoicas/Caja-api/internal/application/inventory"
	"github.com/jhoicas/Caja-api/internal/application/sales"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
	"github.com/jhoicas/Caja-api/internal/domain/money"
	"github.com/jhoicas/Caja-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Caja-api/internal/interfaces/http"
	"github.com/jhoicas/Caja-api/pkg/config"
	"github.com/jhoicas/Caja-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	rates := money.NewExchangeRates(cfg.POS.Rates)

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(productRepo, cfg.POS.DefaultReorderLevel)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	checkoutUC := checkout.NewUseCase(txRunner, productRepo,
		time.Duration(cfg.POS.StoreTimeoutSeconds)*time.Second)
	ledger := inventory.NewLedger(productRepo)
	reports := inventory.NewReportService(productRepo, categoryRepo)
	recorder := sales.NewRecorder(saleRepo)

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
		Title:    "Caja API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		ProductUC:       productUC,
		CategoryUC:      categoryUC,
		CheckoutUC:      checkoutUC,
		Ledger:          ledger,
		Reports:         reports,
		Recorder:        recorder,
		DefaultCurrency: cfg.POS.BaseCurrency,
		Rates:           rates,
		JWTSecret:       cfg.JWT.Secret,
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
