package store

import (
	"context"
	"fmt"
	"log"
	"os"

	"fgperfume/internal/models"

	"gopkg.in/yaml.v3"
)

// Seed is the initial catalog loaded into an empty store
type Seed struct {
	Brand    models.BrandInfo      `yaml:"brand"`
	Contact  models.ContactInfo    `yaml:"contact"`
	Perfumes []models.Perfume      `yaml:"perfumes"`
	Queries  []models.UserQueryLog `yaml:"queries"` // memory store only
}

// DefaultSeed returns the built-in FGPerfume catalog
func DefaultSeed() Seed {
	return Seed{
		Brand: models.BrandInfo{
			Story:       "Founded on the principle of capturing ephemeral moments, FGPerfume crafts high-quality, affordable luxury scents that are both timeless and modern. Our research and development began in 2023, with the company officially registered in 2025.",
			CompanyInfo: "FGPerfume is a proudly Malaysian luxury fragrance house based in Selangor. All our products are developed and manufactured with a focus on quality to ensure an exquisite experience.",
		},
		Contact: models.ContactInfo{
			Email:   "care@fgperfume.com",
			Phone:   "+60 12-345 6789",
			Address: "123 Jalan Wangi, 47500 Subang Jaya, Selangor, Malaysia",
			SocialMedia: models.SocialMedia{
				Facebook:  "https://facebook.com/fgperfume",
				Instagram: "https://instagram.com/fgperfume",
				Twitter:   "https://twitter.com/fgperfume",
			},
		},
		Perfumes: []models.Perfume{
			{
				ID:           "1",
				Name:         "Noir Essence",
				Inspiration:  "A walk through a Malaysian rainforest at midnight.",
				TopNotes:     []string{"Bergamot", "Pink Pepper"},
				MiddleNotes:  []string{"Incense", "Orris"},
				BaseNotes:    []string{"Vetiver", "Patchouli", "Vanilla"},
				Price:        250,
				Availability: models.AvailabilityInStock,
				IsVisible:    true,
				Character:    "Mysterious, deep, and sophisticated.",
				Usage:        "Ideal for evening wear, autumn and winter seasons.",
				Longevity:    "Long-lasting",
			},
			{
				ID:           "2",
				Name:         "Solis Dream",
				Inspiration:  "The warmth of the first sunbeam over the Cameron Highlands.",
				TopNotes:     []string{"Mandarin", "Lemon", "Grapefruit"},
				MiddleNotes:  []string{"Neroli", "Jasmine"},
				BaseNotes:    []string{"Musk", "Amber"},
				Price:        220,
				Availability: models.AvailabilityInStock,
				IsVisible:    true,
				Character:    "Bright, uplifting, and radiant.",
				Usage:        "Perfect for daytime, spring and summer.",
				Longevity:    "Moderate",
			},
			{
				ID:           "3",
				Name:         "Aqua Flora",
				Inspiration:  "A hidden coastal garden in Langkawi after a rain shower.",
				TopNotes:     []string{"Sea Salt", "Bergamot"},
				MiddleNotes:  []string{"Lily of the Valley", "Rose"},
				BaseNotes:    []string{"Cedarwood", "Ambrette"},
				Price:        235,
				Availability: models.AvailabilityOutOfStock,
				IsVisible:    false,
				Character:    "Fresh, aquatic, and subtly floral.",
				Usage:        "Excellent for casual wear, especially in warm weather.",
				Longevity:    "Moderate",
			},
		},
	}
}

// LoadSeed reads a YAML seed file. An empty path yields DefaultSeed.
func LoadSeed(path string) (Seed, error) {
	if path == "" {
		return DefaultSeed(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for i, p := range seed.Perfumes {
		if p.Name == "" {
			return Seed{}, fmt.Errorf("seed perfume #%d has no name", i+1)
		}
		if p.Availability == "" {
			seed.Perfumes[i].Availability = models.AvailabilityInStock
		} else if !p.Availability.Valid() {
			return Seed{}, fmt.Errorf("seed perfume %q has invalid availability %q", p.Name, p.Availability)
		}
	}

	return seed, nil
}

// SeedIfEmpty copies seed records into s for every entity that has no data yet.
// Perfumes receive fresh ids from the store.
func SeedIfEmpty(ctx context.Context, s Store, seed Seed) error {
	brand, err := s.GetBrandInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to read brand info: %w", err)
	}
	if brand == (models.BrandInfo{}) {
		if _, err := s.UpdateBrandInfo(ctx, seed.Brand); err != nil {
			return fmt.Errorf("failed to seed brand info: %w", err)
		}
		log.Println("🌱 Seeded brand info")
	}

	contact, err := s.GetContactInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to read contact info: %w", err)
	}
	if contact == (models.ContactInfo{}) {
		if _, err := s.UpdateContactInfo(ctx, seed.Contact); err != nil {
			return fmt.Errorf("failed to seed contact info: %w", err)
		}
		log.Println("🌱 Seeded contact info")
	}

	perfumes, err := s.ListPerfumes(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to list perfumes: %w", err)
	}
	if len(perfumes) == 0 {
		for _, p := range seed.Perfumes {
			if _, err := s.AddPerfume(ctx, inputOf(p)); err != nil {
				return fmt.Errorf("failed to seed perfume %s: %w", p.Name, err)
			}
		}
		log.Printf("🌱 Seeded %d perfume(s)", len(seed.Perfumes))
	}

	return nil
}

func inputOf(p models.Perfume) models.PerfumeInput {
	return models.PerfumeInput{
		Name:         p.Name,
		Inspiration:  p.Inspiration,
		TopNotes:     p.TopNotes,
		MiddleNotes:  p.MiddleNotes,
		BaseNotes:    p.BaseNotes,
		Price:        p.Price,
		Availability: p.Availability,
		IsVisible:    p.IsVisible,
		Character:    p.Character,
		Usage:        p.Usage,
		Longevity:    p.Longevity,
	}
}
