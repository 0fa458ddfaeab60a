package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/EmpoweredVote/bookshelf/internal/config"
	"github.com/EmpoweredVote/bookshelf/internal/db"
	"github.com/EmpoweredVote/bookshelf/internal/logging"
	"github.com/EmpoweredVote/bookshelf/internal/seeds"
	"github.com/EmpoweredVote/bookshelf/internal/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	level := slog.LevelDebug
	if cfg.Production {
		level = slog.LevelInfo
	}
	logger := logging.NewJSON(os.Stdout, level)

	d, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close(d)

	if err := server.Migrate(d); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Seed {
		if err := seeds.SeedAll(ctx, d, logger); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(cfg, d, logger, server.Options{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "server listening", "port", cfg.Port, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "graceful shutdown failed", "error", err)
	}
}
