// Command bootstrap starts the attendance backend: SQLite storage, the
// application services and the REST surface on the configured port.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"smart-attendance/internal/adapters/logger"
	"smart-attendance/internal/application"
	"smart-attendance/internal/infrastructure"
	"smart-attendance/internal/infrastructure/auth"
	"smart-attendance/internal/infrastructure/sqlite"
	apihttp "smart-attendance/internal/interfaces/http"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()
	ctx := context.Background()

	cfg, err := infrastructure.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Error(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}

	client, err := sqlite.NewClient(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "failed to open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer client.Close()
	if err := client.InitSchema(ctx); err != nil {
		log.Error(ctx, "failed to initialize schema", "error", err)
		os.Exit(1)
	}
	if cfg.Seed {
		if err := client.Seed(ctx); err != nil {
			log.Error(ctx, "failed to seed database", "error", err)
			os.Exit(1)
		}
		log.Info(ctx, "database seeded with sample employees")
	}

	employees := sqlite.NewEmployeeRepository(client)
	attendance := sqlite.NewAttendanceRepository(client)
	visitors := sqlite.NewVisitorRepository(client)
	security := sqlite.NewSecurityEventRepository(client)
	stats := sqlite.NewStatsRepository(client)
	settings := sqlite.NewSettingsRepository(client)

	var tokens *auth.TokenMiddleware
	if cfg.AuthMode == "token" {
		tokens = auth.NewTokenMiddleware(cfg.TokenSecret)
	}

	handlers := apihttp.NewHandlers(
		application.NewEmployeeService(employees),
		application.NewAttendanceService(attendance, employees, settings),
		application.NewVisitorService(visitors, employees),
		application.NewStatsService(stats),
		application.NewSystemService(stats, settings),
		application.NewAnalysisService(attendance, employees, security, settings,
			application.NewRandomSimulation(time.Now().UnixNano())),
		tokens,
	)

	e, err := apihttp.NewRouter(handlers, log, tokens)
	if err != nil {
		log.Error(ctx, "failed to assemble router", "error", err)
		os.Exit(1)
	}

	go func() {
		log.Info(ctx, "backend listening", "port", cfg.Port, "auth_mode", cfg.AuthMode)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server stopped", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "shutdown failed", "error", err)
	}
	log.Info(ctx, "backend stopped")
}
