package main

import (
	"context"
	"errors"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giygas/thyroid-dosage-api/config"
	"github.com/giygas/thyroid-dosage-api/data"
	"github.com/giygas/thyroid-dosage-api/handlers"
	"github.com/giygas/thyroid-dosage-api/health"
	"github.com/giygas/thyroid-dosage-api/logging"
	"github.com/giygas/thyroid-dosage-api/scheduler"
	"github.com/giygas/thyroid-dosage-api/server"
	"github.com/giygas/thyroid-dosage-api/validation"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional, the environment may already be populated
	if err := godotenv.Load(); err != nil {
		logging.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs", cfg.LogRetentionWeeks, cfg.MaxLogFileSize)

	// Reference tables: built-in defaults, optionally overlaid with an
	// operator-supplied JSON file and env dose-limit overrides
	store := data.NewReferenceContainer()
	loader := data.NewFileLoader(cfg.ReferenceFile, data.LimitOverrides{
		MinDoseMcg:        cfg.MinDoseMcg,
		MaxDoseMcg:        cfg.MaxDoseMcg,
		ElderlyMaxDoseMcg: cfg.ElderlyMaxDoseMcg,
		CardiacMaxDoseMcg: cfg.CardiacMaxDoseMcg,
	})

	sched := scheduler.NewReferenceScheduler(store, loader)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start the reference scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	handler := handlers.NewHTTPHandler(store, validation.NewProfileValidator(), health.NewHealthChecker(store))
	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown failed", "error", err)
		os.Exit(1)
	}
}
