package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Haleralex/emicalc/internal/config"
	"github.com/Haleralex/emicalc/internal/container"
)

// Заполняются при сборке: -ldflags "-X main.version=... -X main.buildTime=..."
var (
	version   = ""
	buildTime = ""
)

func main() {
	configPath := flag.String("config-path", "configs", "Directory with config.yaml")
	flag.Parse()

	// 1. Configuration
	cfg, err := config.Load(*configPath, "config")
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if version != "" {
		cfg.App.Version = version
	}
	if buildTime != "" {
		cfg.App.BuildTime = buildTime
	} else if cfg.App.BuildTime == "" {
		cfg.App.BuildTime = time.Now().Format(time.RFC3339)
	}

	// 2. Container (logger, cache, use cases, HTTP)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	app := container.New(cfg)
	err = app.Initialize(ctx)
	cancel()
	if err != nil {
		log.Fatal("Failed to initialize application:", err)
	}

	logger := app.Logger()
	logger.Info("API endpoints",
		slog.String("emi", "POST /api/v1/loans/emi"),
		slog.String("compound_interest", "POST /api/v1/loans/compound-interest"),
		slog.String("validate", "POST /api/v1/loans/validate"),
		slog.String("health", "GET /health"),
	)

	// 3. Run until SIGINT/SIGTERM
	if err := app.Run(); err != nil {
		logger.Error("Server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
