package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-portal/internal/auth"
	"github.com/spec-kit/ticket-portal/internal/config"
	"github.com/spec-kit/ticket-portal/internal/domain"
	"github.com/spec-kit/ticket-portal/internal/observability"
	"github.com/spec-kit/ticket-portal/internal/stubapi"
)

var demoUsers = []struct {
	username, email, password string
	role                      domain.Role
}{
	{"enduser", "enduser@example.com", "enduser-password", domain.RoleEndUser},
	{"support", "support@example.com", "support-password", domain.RoleSupport},
	{"admin", "admin@example.com", "admin-password", domain.RoleAdmin},
}

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

	stub := stubapi.New(auth.NewTokenManager(cfg.Stub.JWTSecret, cfg.Stub.TokenTTLMinutes), cfg.Stub.BcryptCost)
	for _, u := range demoUsers {
		if err := stub.AddUser(u.username, u.email, u.password, u.role); err != nil {
			logger.Fatal("failed to seed user", zap.String("username", u.username), zap.Error(err))
		}
	}

	app := stub.App(observability.RequestLogger(logger))

	go func() {
		logger.Info("stub api listening", zap.String("addr", cfg.Stub.Addr()))
		if err := app.Listen(cfg.Stub.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))

	_ = app.Shutdown()
}
