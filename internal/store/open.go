package store

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"fgperfume/internal/config"
	"fgperfume/internal/database"
)

// Open builds the store selected by cfg.StoreBackend, seeds it when empty and
// wraps it in a FallbackStore when cfg.StoreFallback is set.
func Open(ctx context.Context, cfg *config.Config, seed Seed) (Store, error) {
	if cfg.StoreBackend == config.BackendMemory || cfg.StoreBackend == "" {
		log.Println("💾 Using in-memory record store")
		return NewMemoryStore(seed), nil
	}

	primary, err := openBackend(ctx, cfg)
	if err != nil {
		if !cfg.StoreFallback {
			return nil, err
		}
		slog.Warn("store backend unavailable, using in-memory data", "backend", cfg.StoreBackend, "error", err)
		return NewMemoryStore(seed), nil
	}

	if err := SeedIfEmpty(ctx, primary, seed); err != nil {
		if !cfg.StoreFallback {
			primary.Close()
			return nil, err
		}
		slog.Warn("failed to seed store backend", "backend", cfg.StoreBackend, "error", err)
	}

	log.Printf("💾 Using %s record store (fallback: %v)", cfg.StoreBackend, cfg.StoreFallback)
	if !cfg.StoreFallback {
		return primary, nil
	}
	return NewFallbackStore(cfg.StoreBackend, primary, NewMemoryStore(seed)), nil
}

func openBackend(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMySQL, config.BackendSQLite:
		db, err := database.New(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if string(db.Dialect) != cfg.StoreBackend {
			db.Close()
			return nil, fmt.Errorf("DATABASE_URL is a %s URL but STORE_BACKEND=%s", db.Dialect, cfg.StoreBackend)
		}
		if err := db.Initialize(); err != nil {
			db.Close()
			return nil, err
		}
		return NewSQLStore(db), nil

	case config.BackendRedis:
		return NewRedisStore(ctx, cfg.RedisURL)

	case config.BackendMongo:
		mongoDB, err := database.NewMongoDB(cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		if err := mongoDB.Initialize(ctx); err != nil {
			mongoDB.Close(ctx)
			return nil, err
		}
		return NewMongoStore(mongoDB), nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
