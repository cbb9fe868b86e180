package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-portal/internal/api/http"
	"github.com/spec-kit/ticket-portal/internal/api/http/handlers"
	"github.com/spec-kit/ticket-portal/internal/apiclient"
	"github.com/spec-kit/ticket-portal/internal/config"
	"github.com/spec-kit/ticket-portal/internal/events"
	"github.com/spec-kit/ticket-portal/internal/observability"
	"github.com/spec-kit/ticket-portal/internal/persistence"
	"github.com/spec-kit/ticket-portal/internal/service"
	"github.com/spec-kit/ticket-portal/internal/session"
	"github.com/spec-kit/ticket-portal/internal/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slot, probes, closeBackend := openSlot(ctx, cfg, logger)
	defer closeBackend()

	metrics := observability.NewMetrics()
	store := session.NewStore(slot, events.NewInMemoryDispatcher(logger), logger)
	defer store.Close() //nolint:errcheck
	store.Subscribe(func(e events.Event) {
		metrics.RecordSessionChange(string(e.Reason))
		logger.Info("session changed", zap.String("reason", string(e.Reason)), zap.String("event_id", e.ID))
	})

	client := apiclient.New(store, apiclient.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout(),
		Logger:  logger,
		Metrics: metrics,
		OnUnauthorized: func() {
			logger.Info("upstream rejected the session; login required")
		},
	})
	navbar := views.NewNavbar(store)
	defer navbar.Close()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, probes...),
		Session: handlers.NewSessionHandler(service.NewAuthService(client, store), navbar),
		Tickets: handlers.NewTicketsHandler(service.NewTicketService(client, store)),
		Metrics: metrics,
	})

	go func() {
		logger.Info("portal listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("api", cfg.API.BaseURL),
			zap.String("session_backend", cfg.Session.Backend),
		)
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// openSlot selects the token slot for the configured backend, with readiness
// probes and a cleanup func for any connection it opened.
func openSlot(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Slot, []handlers.Probe, func()) {
	switch cfg.Session.Backend {
	case config.SessionBackendMemory:
		return session.NewMemorySlot(), nil, func() {}

	case config.SessionBackendRedis:
		rdb := persistence.OpenRedis(ctx, cfg.Redis, logger)
		slot := rdb.Slot(cfg.Session.RedisPrefix, cfg.Session.Key)
		return slot, []handlers.Probe{{Name: "redis", Check: rdb.Ping}}, rdb.Close

	case config.SessionBackendPostgres:
		pg, err := persistence.OpenPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to open postgres session backend", zap.Error(err))
		}
		slot := pg.Slot(cfg.Session.Key)
		return slot, []handlers.Probe{{Name: "postgres", Check: pg.Ping}}, pg.Close

	default:
		slot := persistence.NewFileSlot(afero.NewOsFs(), cfg.Session.FilePath, cfg.Session.Key)
		probe := handlers.Probe{Name: "session_file", Check: func(context.Context) error {
			_, _, err := slot.Load()
			return err
		}}
		return slot, []handlers.Probe{probe}, func() {}
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
