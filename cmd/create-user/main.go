package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/govindup63/Ghstmail.me/internal/auth"
	"github.com/govindup63/Ghstmail.me/internal/config"
	"github.com/govindup63/Ghstmail.me/internal/logger"
	"github.com/govindup63/Ghstmail.me/internal/storage/postgres"
)

// main creates an account directly against the database, bypassing the
// HTTP API. Useful for bootstrapping a fresh deployment.
func main() {
	email := flag.String("email", "", "email address for the new account")
	password := flag.String("password", "", "password for the new account")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: create-user -email <email> -password <password>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Database.DSN == "" {
		log.Fatal("no database DSN configured")
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
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	user, err := auth.NewService(store).Register(auth.RegisterInput{
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		log.Fatal("failed to create user", zap.Error(err))
	}

	log.Info("user created",
		zap.String("id", user.ID),
		zap.String("email", user.Email),
	)
}
