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
	"github.com/robfig/cron/v3"

	"github.com/jhoicas/clinic-console/internal/application/auth"
	"github.com/jhoicas/clinic-console/internal/application/clock"
	"github.com/jhoicas/clinic-console/internal/application/customers"
	"github.com/jhoicas/clinic-console/internal/application/onboarding"
	"github.com/jhoicas/clinic-console/internal/application/products"
	"github.com/jhoicas/clinic-console/internal/application/session"
	"github.com/jhoicas/clinic-console/internal/application/settings"
	"github.com/jhoicas/clinic-console/internal/application/walkin"
	"github.com/jhoicas/clinic-console/internal/infrastructure/backend"
	"github.com/jhoicas/clinic-console/internal/infrastructure/export"
	infrapdf "github.com/jhoicas/clinic-console/internal/infrastructure/pdf"
	"github.com/jhoicas/clinic-console/internal/infrastructure/statestore"
	httpRouter "github.com/jhoicas/clinic-console/internal/interfaces/http"
	"github.com/jhoicas/clinic-console/pkg/config"
	"github.com/jhoicas/clinic-console/pkg/logger"
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
		Str("state", cfg.State.Driver).
		Msg("iniciando consola")

	ctx := context.Background()
	store, closeStore, err := statestore.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de estado")
	}
	defer closeStore()
	if cfg.State.Driver == config.StateDriverMemory {
		log.Warn().Msg("almacén en memoria: el progreso y la configuración se pierden al reiniciar")
	}

	api := backend.New(backend.Config{
		BaseURL:    cfg.Backend.BaseURL,
		Timeout:    cfg.Backend.Timeout,
		RetryCount: cfg.Backend.RetryCount,
	}, log.Component("backend"))

	clk := clock.Real{}
	sessions := session.NewRegistry()

	settingsSvc := settings.NewService(store, clk, log.Component("settings"))
	onboardingSvc := onboarding.NewService(onboarding.Repositories{
		Outlets:      api.Outlets(),
		Users:        api.Users(),
		Services:     api.Services(),
		Staff:        api.Staff(),
		Availability: api.Availability(),
		Tenants:      api.Tenants(),
	}, store, cfg.Console.PublicRoutes, log.Component("onboarding"))
	customerSvc := customers.NewService(api.Customers(), export.NewExcelExporter(), cfg.Console.UndoWindow, clk, log.Component("customers"))
	productSvc := products.NewService(api.Services(), api.Tenants(), cfg.Console.UndoWindow, clk, log.Component("products"))
	walkInSvc := walkin.NewService(walkin.Repositories{
		Customers:    api.Customers(),
		Availability: api.Availability(),
		Bookings:     api.Bookings(),
		Services:     api.Services(),
		Staff:        api.Staff(),
		Outlets:      api.Outlets(),
	}, settingsSvc, infrapdf.NewMarotoPDFGenerator(), cfg.Console.SearchDebounce, clk, log.Component("walkin"))
	authUC := auth.NewAuthUseCase(api.Tenants(), clk, log.Component("auth"))

	// Barrido de sesiones inactivas: libera asistentes, ventanas de deshacer y búsquedas huérfanas
	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.Console.SweepSchedule, func() {
		if n := sessions.EvictIdle(cfg.Console.SessionIdle); n > 0 {
			log.Info().Int("sessions", n).Msg("sesiones inactivas cerradas")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Console.SweepSchedule).Msg("programar barrido de sesiones")
	}
	sweeper.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.NewErrorHandler(cfg.Console.UpgradeURL, log.Component("http")),
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Clinic Console API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "sessions": sessions.Len()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Onboarding: onboardingSvc,
		Customers:  customerSvc,
		Products:   productSvc,
		Settings:   settingsSvc,
		WalkIn:     walkInSvc,
		AuthUC:     authUC,
		Sessions:   sessions,
		JWTSecret:  cfg.JWT.Secret,
		JWTIssuer:  cfg.JWT.Issuer,
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

	<-sweeper.Stop().Done()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	sessions.Shutdown(shutdownCtx)

	log.Info().Msg("consola detenida")
}
