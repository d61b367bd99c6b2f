package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/justsurfingit/talentra/internal/config"
	"github.com/justsurfingit/talentra/internal/database"
	"github.com/justsurfingit/talentra/internal/logging"
	"github.com/justsurfingit/talentra/internal/server"
)

func main() {
	// 1. Load Configuration (.env, ats.yaml, ATS_* env)
	cfg, err := config.Load(os.Getenv("ATS_CONFIG"))
	if err != nil {
		log.Fatal("Error loading configuration: ", err)
	}

	// 2. Logger
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatal("Error building logger: ", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Database Connection (migrates when database.auto_migrate is set)
	db, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("Database connection failed", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	// 4. Router, Services & Handlers
	srv, err := server.New(cfg, db, logger)
	if err != nil {
		logger.Fatal("Server setup failed", zap.Error(err))
	}

	// 5. Serve until SIGINT/SIGTERM
	if err := srv.Run(ctx); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
