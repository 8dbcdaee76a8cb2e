package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/tokoternak/catalog-admin/pkg/catalog"
	"github.com/tokoternak/catalog-admin/pkg/catalog/api"
	"github.com/tokoternak/catalog-admin/pkg/catalog/config"
)

// serverEnv is the cmd-level environment surface; store-level settings
// (DATABASE_URL, STORAGE_URL, S3 credentials) are read by config.WithEnv.
type serverEnv struct {
	Port            string        `env:"PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
}

func main() {
	var env serverEnv
	if err := cleanenv.ReadEnv(&env); err != nil {
		slog.Error("Failed to read environment", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(env.LogLevel),
	}))
	slog.SetDefault(logger)

	serverConfig, err := config.Load(config.WithEnv(""))
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	svc, docs, err := serverConfig.Build()
	if err != nil {
		logger.Error("Failed to build service", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", env.Port),
		Handler: routes(svc, docs),
	}

	go func() {
		logger.Info("Catalog admin server starting",
			"port", env.Port,
			"environment", serverConfig.Environment,
			"database", serverConfig.DatabaseType,
			"storage", serverConfig.DefaultStorageBackend)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), env.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("Server exiting")
}

func routes(svc catalog.Service, docs catalog.DocumentStore) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Mount("/items", api.NewItemsHandler(svc).Routes())
		r.Mount("/stats", api.NewStatsHandler(svc).Routes())
		r.Mount("/settings", api.NewSettingsHandler(docs).Routes())
		// Asset endpoints keep the exact paths the admin UI already calls.
		assets := api.NewAssetsHandler(svc)
		r.Post("/upload", assets.UploadAsset)
		r.Delete("/delete-image", assets.DeleteAsset)
	})

	return r
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
