package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fgperfume/internal/config"
	"fgperfume/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeed(t *testing.T) {
	seed := DefaultSeed()

	require.Len(t, seed.Perfumes, 3)
	assert.Equal(t, "Noir Essence", seed.Perfumes[0].Name)
	assert.False(t, seed.Perfumes[2].IsVisible)
	assert.Equal(t, models.AvailabilityOutOfStock, seed.Perfumes[2].Availability)
	assert.Equal(t, "care@fgperfume.com", seed.Contact.Email)
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `
brand:
  story: Crafted in Selangor
  companyInfo: Family owned
contact:
  email: hello@example.com
  socialMedia:
    instagram: https://instagram.com/example
perfumes:
  - name: Kasturi
    topNotes: [Musk]
    price: 120
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	seed, err := LoadSeed(path)
	require.NoError(t, err)
	assert.Equal(t, "Crafted in Selangor", seed.Brand.Story)
	assert.Equal(t, "https://instagram.com/example", seed.Contact.SocialMedia.Instagram)
	require.Len(t, seed.Perfumes, 1)
	assert.Equal(t, models.AvailabilityInStock, seed.Perfumes[0].Availability)
}

func TestLoadSeed_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadSeed(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("perfumes:\n  - name: X\n    availability: Sold Out\n"), 0o600))
	_, err = LoadSeed(bad)
	assert.ErrorContains(t, err, "invalid availability")

	noName := filepath.Join(dir, "noname.yaml")
	require.NoError(t, os.WriteFile(noName, []byte("perfumes:\n  - price: 10\n"), 0o600))
	_, err = LoadSeed(noName)
	assert.ErrorContains(t, err, "has no name")
}

func TestLoadSeed_EmptyPathIsDefault(t *testing.T) {
	seed, err := LoadSeed("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSeed(), seed)
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(emptySeed())

	require.NoError(t, SeedIfEmpty(ctx, s, DefaultSeed()))
	perfumes, err := s.ListPerfumes(ctx, true)
	require.NoError(t, err)
	require.Len(t, perfumes, 3)
	assert.NotEqual(t, "1", perfumes[0].ID)

	// A second run must not duplicate anything
	require.NoError(t, SeedIfEmpty(ctx, s, DefaultSeed()))
	perfumes, err = s.ListPerfumes(ctx, true)
	require.NoError(t, err)
	assert.Len(t, perfumes, 3)
}

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{StoreBackend: config.BackendMemory}

	s, err := Open(context.Background(), cfg, DefaultSeed())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
}

func TestOpen_SQLiteIsSeededAndWrapped(t *testing.T) {
	cfg := &config.Config{
		StoreBackend:  config.BackendSQLite,
		StoreFallback: true,
		DatabaseURL:   "sqlite://" + filepath.Join(t.TempDir(), "fg.db"),
	}

	s, err := Open(context.Background(), cfg, DefaultSeed())
	require.NoError(t, err)
	defer s.Close()

	fb, ok := s.(*FallbackStore)
	require.True(t, ok)
	assert.IsType(t, &SQLStore{}, fb.Primary())

	perfumes, err := s.ListPerfumes(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, perfumes, 2)
}

func TestOpen_UnreachableBackend(t *testing.T) {
	cfg := &config.Config{StoreBackend: config.BackendMySQL, DatabaseURL: "postgres://nowhere"}

	_, err := Open(context.Background(), cfg, DefaultSeed())
	assert.Error(t, err)

	cfg.StoreFallback = true
	s, err := Open(context.Background(), cfg, DefaultSeed())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
}
