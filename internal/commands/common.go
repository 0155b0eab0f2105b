// Package commands implements the fgctl subcommands.
package commands

import (
	"context"
	"fmt"

	"fgperfume/internal/config"
	"fgperfume/internal/store"

	"github.com/joho/godotenv"
)

// loadConfig reads .env when present and validates the environment
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openStore opens the configured record store, seeding empty entities
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	seed, err := store.LoadSeed(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, cfg, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	return s, nil
}
