package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/billease/billease/internal/ai"
	"github.com/billease/billease/internal/api"
	"github.com/billease/billease/internal/config"
	"github.com/billease/billease/internal/service"
	"github.com/billease/billease/internal/storage/sqlite"
	"github.com/billease/billease/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Setup()

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Database.Path)

	gemini := ai.NewGeminiClient(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	if cfg.AI.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY not set; extraction and suggestion will fail until configured")
	}

	svc := service.NewBillService(store, gemini, gemini,
		service.WithMaxPeople(cfg.Bill.MaxPeople))
	svc.LoadSaved(context.Background())

	router := api.NewRouter(api.NewHandler(svc), cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
}
