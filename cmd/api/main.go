package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/nav-gateway/internal/application/ordersync"
	"github.com/jhoicas/nav-gateway/internal/application/settlement"
	"github.com/jhoicas/nav-gateway/internal/infrastructure/nav"
	httpRouter "github.com/jhoicas/nav-gateway/internal/interfaces/http"
	"github.com/jhoicas/nav-gateway/pkg/config"
	"github.com/jhoicas/nav-gateway/pkg/logger"
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

	// Tabla estática país→grupo VAT: se carga una sola vez.
	vatCodes, err := config.LoadVATCodes(cfg.NAV.VATCodesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("tabla VAT")
	}

	// Cliente NAV: se construye una vez por proceso y lo inyecta main.
	navClient, err := nav.NewClient(cfg.NAV, log)
	if err != nil {
		log.Fatal().Err(err).Msg("cliente NAV")
	}

	ordersUC := ordersync.NewUseCase(navClient, vatCodes, log)
	settlementsUC := settlement.NewUseCase(navClient, log)
	events := httpRouter.NewEventHandler(ordersUC, settlementsUC, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Events:    events,
		JWTSecret: cfg.JWT.Secret,
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
