package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/govindup63/Ghstmail.me/internal/config"
	"github.com/govindup63/Ghstmail.me/internal/logger"
	"github.com/govindup63/Ghstmail.me/internal/storage/postgres"
)

// main runs the schema migrations and exits.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Database.DSN == "" {
		log.Fatal("no database DSN configured, nothing to migrate")
	}

	store, err := postgres.NewStore(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime,
	)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}

	if err := store.Migrate(); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("migrations applied")
}
