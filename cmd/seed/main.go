package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/EmpoweredVote/bookshelf/internal/config"
	"github.com/EmpoweredVote/bookshelf/internal/db"
	"github.com/EmpoweredVote/bookshelf/internal/logging"
	"github.com/EmpoweredVote/bookshelf/internal/seeds"
	"github.com/EmpoweredVote/bookshelf/internal/server"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	d, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close(d)

	if err := server.Migrate(d); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	if err := seeds.SeedAll(context.Background(), d, logging.NewJSON(os.Stdout, slog.LevelInfo)); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}
