// Package store persists brand, contact, perfume and query-log records.
//
// Every backend implements Store. The backend is picked once at start-up
// (see Open); FallbackStore optionally wraps it so that a failing backend
// degrades to an in-memory copy instead of failing the caller.
package store

import (
	"context"

	"fgperfume/internal/models"
)

// Store is the record store used by the concierge pipeline and the admin API
type Store interface {
	GetBrandInfo(ctx context.Context) (models.BrandInfo, error)
	UpdateBrandInfo(ctx context.Context, info models.BrandInfo) (models.BrandInfo, error)

	GetContactInfo(ctx context.Context) (models.ContactInfo, error)
	UpdateContactInfo(ctx context.Context, info models.ContactInfo) (models.ContactInfo, error)

	// ListPerfumes returns perfumes in store order. Hidden perfumes are
	// skipped unless includeHidden is set.
	ListPerfumes(ctx context.Context, includeHidden bool) ([]models.Perfume, error)
	// GetPerfume returns nil, nil when no perfume has that id.
	GetPerfume(ctx context.Context, id string) (*models.Perfume, error)
	AddPerfume(ctx context.Context, in models.PerfumeInput) (models.Perfume, error)
	// UpdatePerfume merges patch onto the stored perfume. Returns nil, nil
	// when no perfume has that id.
	UpdatePerfume(ctx context.Context, id string, patch models.PerfumePatch) (*models.Perfume, error)
	// DeletePerfume reports whether a perfume was removed.
	DeletePerfume(ctx context.Context, id string) (bool, error)

	AddQueryLog(ctx context.Context, query string, timestamp int64) (models.UserQueryLog, error)
	// ListQueryLogs returns logged queries, newest first.
	ListQueryLogs(ctx context.Context) ([]models.UserQueryLog, error)

	Close() error
}

// Pinger is implemented by backends that can report their reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// AsPinger returns the reachability check of s, looking through a
// FallbackStore to its backend. The memory store has none.
func AsPinger(s Store) (Pinger, bool) {
	if f, ok := s.(*FallbackStore); ok {
		s = f.Primary()
	}
	p, ok := s.(Pinger)
	return p, ok
}
