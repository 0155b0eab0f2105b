package store

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"fgperfume/internal/models"

	"github.com/google/uuid"
)

// MemoryStore keeps every record in process memory
type MemoryStore struct {
	mu          sync.RWMutex
	brand       models.BrandInfo
	contact     models.ContactInfo
	perfumes    []models.Perfume
	queries     []models.UserQueryLog
	nextQueryID int64
	newID       func() string
}

// NewMemoryStore creates a memory store holding a copy of seed
func NewMemoryStore(seed Seed) *MemoryStore {
	s := &MemoryStore{
		brand:       seed.Brand,
		contact:     seed.Contact,
		perfumes:    make([]models.Perfume, 0, len(seed.Perfumes)),
		queries:     append([]models.UserQueryLog(nil), seed.Queries...),
		nextQueryID: int64(len(seed.Queries)) + 1,
		newID:       uuid.NewString,
	}
	for _, p := range seed.Perfumes {
		s.perfumes = append(s.perfumes, p.Clone())
	}
	for _, q := range seed.Queries {
		if id, err := strconv.ParseInt(q.ID, 10, 64); err == nil && id >= s.nextQueryID {
			s.nextQueryID = id + 1
		}
	}
	return s
}

func (s *MemoryStore) GetBrandInfo(ctx context.Context) (models.BrandInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.brand, nil
}

func (s *MemoryStore) UpdateBrandInfo(ctx context.Context, info models.BrandInfo) (models.BrandInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brand = info
	return s.brand, nil
}

func (s *MemoryStore) GetContactInfo(ctx context.Context) (models.ContactInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contact, nil
}

func (s *MemoryStore) UpdateContactInfo(ctx context.Context, info models.ContactInfo) (models.ContactInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contact = info
	return s.contact, nil
}

func (s *MemoryStore) ListPerfumes(ctx context.Context, includeHidden bool) ([]models.Perfume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Perfume, 0, len(s.perfumes))
	for _, p := range s.perfumes {
		if includeHidden || p.IsVisible {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) GetPerfume(ctx context.Context, id string) (*models.Perfume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx != -1 {
		p := s.perfumes[idx].Clone()
		return &p, nil
	}
	return nil, nil
}

func (s *MemoryStore) AddPerfume(ctx context.Context, in models.PerfumeInput) (models.Perfume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := in.WithID(s.newID()).Clone()
	s.perfumes = append(s.perfumes, p)
	return p.Clone(), nil
}

func (s *MemoryStore) UpdatePerfume(ctx context.Context, id string, patch models.PerfumePatch) (*models.Perfume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return nil, nil
	}
	s.perfumes[idx] = patch.Apply(s.perfumes[idx]).Clone()
	p := s.perfumes[idx].Clone()
	return &p, nil
}

func (s *MemoryStore) DeletePerfume(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return false, nil
	}
	s.perfumes = append(s.perfumes[:idx], s.perfumes[idx+1:]...)
	return true, nil
}

func (s *MemoryStore) AddQueryLog(ctx context.Context, query string, timestamp int64) (models.UserQueryLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := models.UserQueryLog{
		ID:        strconv.FormatInt(s.nextQueryID, 10),
		Query:     query,
		Timestamp: timestamp,
	}
	s.nextQueryID++
	s.queries = append(s.queries, entry)
	return entry, nil
}

func (s *MemoryStore) ListQueryLogs(ctx context.Context) ([]models.UserQueryLog, error) {
	s.mu.RLock()
	out := append([]models.UserQueryLog(nil), s.queries...)
	s.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

// indexOf must be called with s.mu held
func (s *MemoryStore) indexOf(id string) int {
	for i := range s.perfumes {
		if s.perfumes[i].ID == id {
			return i
		}
	}
	return -1
}

// sortNewestFirst orders logs by timestamp desc; later appends win ties.
func sortNewestFirst(logs []models.UserQueryLog) {
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp > logs[j].Timestamp
	})
}
