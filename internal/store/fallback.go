package store

import (
	"context"
	"errors"
	"log/slog"

	"fgperfume/internal/logging"
	"fgperfume/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var storeFallbacks = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fgperfume_store_fallback_total",
		Help: "Store operations served by the in-memory substitute after a backend error",
	},
	[]string{"backend", "operation"},
)

// FallbackStore serves from primary and degrades to an in-memory substitute
// whenever primary returns an error. Writes made while degraded are not
// replayed to primary.
type FallbackStore struct {
	primary Store
	backup  *MemoryStore
	backend string
	logger  *slog.Logger
}

// NewFallbackStore wraps primary. backup receives every degraded call.
func NewFallbackStore(backend string, primary Store, backup *MemoryStore) *FallbackStore {
	return &FallbackStore{
		primary: primary,
		backup:  backup,
		backend: backend,
		logger:  logging.WithStore(backend),
	}
}

// Primary returns the wrapped backend
func (f *FallbackStore) Primary() Store { return f.primary }

// degrade runs primary and, on any error except caller cancellation, backup.
func degrade[T any](f *FallbackStore, op string, primary, backup func() (T, error)) (T, error) {
	v, err := primary()
	if err == nil {
		return v, nil
	}
	if errors.Is(err, context.Canceled) {
		return v, err
	}

	f.logger.Warn("store backend failed, serving in-memory data", "operation", op, "error", err)
	storeFallbacks.WithLabelValues(f.backend, op).Inc()
	return backup()
}

func (f *FallbackStore) GetBrandInfo(ctx context.Context) (models.BrandInfo, error) {
	return degrade(f, "GetBrandInfo",
		func() (models.BrandInfo, error) { return f.primary.GetBrandInfo(ctx) },
		func() (models.BrandInfo, error) { return f.backup.GetBrandInfo(ctx) })
}

func (f *FallbackStore) UpdateBrandInfo(ctx context.Context, info models.BrandInfo) (models.BrandInfo, error) {
	return degrade(f, "UpdateBrandInfo",
		func() (models.BrandInfo, error) { return f.primary.UpdateBrandInfo(ctx, info) },
		func() (models.BrandInfo, error) { return f.backup.UpdateBrandInfo(ctx, info) })
}

func (f *FallbackStore) GetContactInfo(ctx context.Context) (models.ContactInfo, error) {
	return degrade(f, "GetContactInfo",
		func() (models.ContactInfo, error) { return f.primary.GetContactInfo(ctx) },
		func() (models.ContactInfo, error) { return f.backup.GetContactInfo(ctx) })
}

func (f *FallbackStore) UpdateContactInfo(ctx context.Context, info models.ContactInfo) (models.ContactInfo, error) {
	return degrade(f, "UpdateContactInfo",
		func() (models.ContactInfo, error) { return f.primary.UpdateContactInfo(ctx, info) },
		func() (models.ContactInfo, error) { return f.backup.UpdateContactInfo(ctx, info) })
}

func (f *FallbackStore) ListPerfumes(ctx context.Context, includeHidden bool) ([]models.Perfume, error) {
	return degrade(f, "ListPerfumes",
		func() ([]models.Perfume, error) { return f.primary.ListPerfumes(ctx, includeHidden) },
		func() ([]models.Perfume, error) { return f.backup.ListPerfumes(ctx, includeHidden) })
}

func (f *FallbackStore) GetPerfume(ctx context.Context, id string) (*models.Perfume, error) {
	return degrade(f, "GetPerfume",
		func() (*models.Perfume, error) { return f.primary.GetPerfume(ctx, id) },
		func() (*models.Perfume, error) { return f.backup.GetPerfume(ctx, id) })
}

func (f *FallbackStore) AddPerfume(ctx context.Context, in models.PerfumeInput) (models.Perfume, error) {
	return degrade(f, "AddPerfume",
		func() (models.Perfume, error) { return f.primary.AddPerfume(ctx, in) },
		func() (models.Perfume, error) { return f.backup.AddPerfume(ctx, in) })
}

func (f *FallbackStore) UpdatePerfume(ctx context.Context, id string, patch models.PerfumePatch) (*models.Perfume, error) {
	return degrade(f, "UpdatePerfume",
		func() (*models.Perfume, error) { return f.primary.UpdatePerfume(ctx, id, patch) },
		func() (*models.Perfume, error) { return f.backup.UpdatePerfume(ctx, id, patch) })
}

func (f *FallbackStore) DeletePerfume(ctx context.Context, id string) (bool, error) {
	return degrade(f, "DeletePerfume",
		func() (bool, error) { return f.primary.DeletePerfume(ctx, id) },
		func() (bool, error) { return f.backup.DeletePerfume(ctx, id) })
}

func (f *FallbackStore) AddQueryLog(ctx context.Context, query string, timestamp int64) (models.UserQueryLog, error) {
	return degrade(f, "AddQueryLog",
		func() (models.UserQueryLog, error) { return f.primary.AddQueryLog(ctx, query, timestamp) },
		func() (models.UserQueryLog, error) { return f.backup.AddQueryLog(ctx, query, timestamp) })
}

func (f *FallbackStore) ListQueryLogs(ctx context.Context) ([]models.UserQueryLog, error) {
	return degrade(f, "ListQueryLogs",
		func() ([]models.UserQueryLog, error) { return f.primary.ListQueryLogs(ctx) },
		func() ([]models.UserQueryLog, error) { return f.backup.ListQueryLogs(ctx) })
}

func (f *FallbackStore) Close() error {
	return f.primary.Close()
}
