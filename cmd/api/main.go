package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	appanalytics "github.com/jhoicas/Ventas-api/internal/application/analytics"
	"github.com/jhoicas/Ventas-api/internal/application/cash"
	"github.com/jhoicas/Ventas-api/internal/application/catalog"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/invoicing"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/cache"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Ventas-api/internal/interfaces/http"
	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()

	// Persistencia: PostgreSQL (con migraciones al arrancar) o memoria para desarrollo.
	var (
		store repository.Store
		tx    repository.TxRunner
		ping  func(context.Context) error
	)
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		mem := memory.New()
		store, tx = mem, mem
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		migrator, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Component("migrate"))
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		if err := migrator.Up(); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		_ = migrator.Close()

		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		pg := postgres.NewStore(pool)
		store, tx, ping = pg, postgres.NewTxRunner(pool), pg.Ping
	}

	// Idempotencia de POST /api/sales: Redis si está configurado, si no en memoria.
	var idempotency sales.IdempotencyStore
	if cfg.Redis.URL != "" {
		redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{URL: cfg.Redis.URL})
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisStore.Close()
		idempotency = redisStore
	} else {
		memStore := cache.NewInMemoryIdempotencyStore()
		defer memStore.Close()
		idempotency = memStore
	}

	ledger := cash.NewLedger(nil)
	sessions := cash.NewSessionManager(store, tx, ledger, log.Component("cash"), nil)
	createSaleUC := sales.NewCreateSaleUseCase(
		store, tx,
		inventory.NewResolver(),
		inventory.NewStockLedger(),
		invoicing.NewNumberer(cfg.Sales.InvoicePrefix),
		sessions, ledger, idempotency,
		sales.Config{DefaultTaxRate: cfg.Sales.TaxRate, IdempotencyTTL: cfg.Sales.IdempotencyTTL},
		log.Component("sales"), nil,
	)
	catalogUC := catalog.NewUseCase(store, tx, cfg.Sales.TaxRate, log.Component("catalog"))
	dashboardUC := appanalytics.NewDashboardUseCase(store)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + httpRouter.IdempotencyKeyHeader,
		AllowMethods: "GET,POST,PUT,PATCH,OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ventas API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sales:       createSaleUC,
		Sessions:    sessions,
		Catalog:     catalogUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
		StoreDriver: cfg.Store.Driver,
		Ping:        ping,
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
