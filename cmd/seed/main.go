// Command seed loads the demonstration dataset into the configured store.
package main

import (
	"errors"
	"fmt"
	"os"

	"bookkeeper/internal/clock"
	"bookkeeper/internal/config"
	"bookkeeper/internal/database"
	"bookkeeper/internal/logger"
	"bookkeeper/internal/seed"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		if errors.Is(err, seed.ErrNotEmpty) {
			logger.Get().Warn("Skipping seed: database already contains data")
			return
		}
		logger.Get().Fatalf("Seed error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	dbConfig, err := database.NewConfig(cfg)
	if err != nil {
		return err
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	_, err = seed.Run(dbManager.DB(), clock.System{})
	return err
}
