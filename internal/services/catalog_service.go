package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"net/url"
	"sort"
	"strings"

	"fgperfume/internal/models"
	"fgperfume/internal/store"
)

// ErrPerfumeNotFound is returned when no perfume has the requested id
var ErrPerfumeNotFound = errors.New("perfume not found")

// ValidationError carries one message per rejected field
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fieldErrors collects messages and turns into a *ValidationError when non-empty
type fieldErrors map[string]string

func (f fieldErrors) required(field, value, message string) {
	if strings.TrimSpace(value) == "" {
		f[field] = message
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// NoteList accepts either a JSON array of notes or a comma separated string
type NoteList []string

// UnmarshalJSON implements json.Unmarshaler
func (n *NoteList) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*n = ParseNotes(text)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("notes must be a string or an array of strings")
	}
	*n = ParseNotes(strings.Join(list, ","))
	return nil
}

// ParseNotes splits a comma separated list, trimming entries and dropping empties
func ParseNotes(text string) []string {
	notes := []string{}
	for _, part := range strings.Split(text, ",") {
		if note := strings.TrimSpace(part); note != "" {
			notes = append(notes, note)
		}
	}
	return notes
}

// PerfumeForm is the admin payload for creating or replacing a perfume
type PerfumeForm struct {
	Name         string   `json:"name"`
	Inspiration  string   `json:"inspiration"`
	TopNotes     NoteList `json:"topNotes"`
	MiddleNotes  NoteList `json:"middleNotes"`
	BaseNotes    NoteList `json:"baseNotes"`
	Price        *float64 `json:"price"`
	Availability string   `json:"availability"`
	IsVisible    *bool    `json:"isVisible"`
	Character    string   `json:"character"`
	Usage        string   `json:"usage"`
	Longevity    string   `json:"longevity"`
}

// Validate checks the form and returns the perfume input it describes.
// Availability defaults to In Stock and visibility to true.
func (f PerfumeForm) Validate() (models.PerfumeInput, error) {
	errs := fieldErrors{}
	errs.required("name", f.Name, "Name is required")
	errs.required("inspiration", f.Inspiration, "Inspiration is required")
	errs.required("character", f.Character, "Character is required")
	errs.required("usage", f.Usage, "Usage is required")
	errs.required("longevity", f.Longevity, "Longevity is required")

	price := 0.0
	switch {
	case f.Price == nil:
		errs["price"] = "Price is required"
	case *f.Price < 0:
		errs["price"] = "Price must be positive"
	default:
		price = *f.Price
	}

	availability := models.AvailabilityInStock
	if f.Availability != "" {
		availability = models.Availability(f.Availability)
		if !availability.Valid() {
			errs["availability"] = "Availability must be 'In Stock' or 'Out of Stock'"
		}
	}

	visible := true
	if f.IsVisible != nil {
		visible = *f.IsVisible
	}

	if err := errs.err(); err != nil {
		return models.PerfumeInput{}, err
	}

	return models.PerfumeInput{
		Name:         strings.TrimSpace(f.Name),
		Inspiration:  strings.TrimSpace(f.Inspiration),
		TopNotes:     notesOrEmpty(f.TopNotes),
		MiddleNotes:  notesOrEmpty(f.MiddleNotes),
		BaseNotes:    notesOrEmpty(f.BaseNotes),
		Price:        price,
		Availability: availability,
		IsVisible:    visible,
		Character:    strings.TrimSpace(f.Character),
		Usage:        strings.TrimSpace(f.Usage),
		Longevity:    strings.TrimSpace(f.Longevity),
	}, nil
}

// PerfumePatchForm is the admin payload for a partial update
type PerfumePatchForm struct {
	Name         *string   `json:"name"`
	Inspiration  *string   `json:"inspiration"`
	TopNotes     *NoteList `json:"topNotes"`
	MiddleNotes  *NoteList `json:"middleNotes"`
	BaseNotes    *NoteList `json:"baseNotes"`
	Price        *float64  `json:"price"`
	Availability *string   `json:"availability"`
	IsVisible    *bool     `json:"isVisible"`
	Character    *string   `json:"character"`
	Usage        *string   `json:"usage"`
	Longevity    *string   `json:"longevity"`
}

// Validate checks only the fields present in the form
func (f PerfumePatchForm) Validate() (models.PerfumePatch, error) {
	errs := fieldErrors{}
	var patch models.PerfumePatch

	text := func(field string, value *string, message string) *string {
		if value == nil {
			return nil
		}
		errs.required(field, *value, message)
		trimmed := strings.TrimSpace(*value)
		return &trimmed
	}
	notes := func(value *NoteList) *[]string {
		if value == nil {
			return nil
		}
		list := notesOrEmpty(*value)
		return &list
	}

	patch.Name = text("name", f.Name, "Name is required")
	patch.Inspiration = text("inspiration", f.Inspiration, "Inspiration is required")
	patch.Character = text("character", f.Character, "Character is required")
	patch.Usage = text("usage", f.Usage, "Usage is required")
	patch.Longevity = text("longevity", f.Longevity, "Longevity is required")
	patch.TopNotes = notes(f.TopNotes)
	patch.MiddleNotes = notes(f.MiddleNotes)
	patch.BaseNotes = notes(f.BaseNotes)
	patch.IsVisible = f.IsVisible

	if f.Price != nil {
		if *f.Price < 0 {
			errs["price"] = "Price must be positive"
		}
		patch.Price = f.Price
	}

	if f.Availability != nil {
		availability := models.Availability(*f.Availability)
		if !availability.Valid() {
			errs["availability"] = "Availability must be 'In Stock' or 'Out of Stock'"
		}
		patch.Availability = &availability
	}

	if err := errs.err(); err != nil {
		return models.PerfumePatch{}, err
	}
	return patch, nil
}

func notesOrEmpty(n NoteList) []string {
	if n == nil {
		return []string{}
	}
	return []string(n)
}

// ValidateBrandInfo requires both brand fields
func ValidateBrandInfo(info models.BrandInfo) (models.BrandInfo, error) {
	errs := fieldErrors{}
	errs.required("story", info.Story, "Story is required")
	errs.required("companyInfo", info.CompanyInfo, "Company info is required")
	if err := errs.err(); err != nil {
		return models.BrandInfo{}, err
	}
	return models.BrandInfo{
		Story:       strings.TrimSpace(info.Story),
		CompanyInfo: strings.TrimSpace(info.CompanyInfo),
	}, nil
}

// ValidateContactInfo checks the email address, the required fields and any
// social links given
func ValidateContactInfo(info models.ContactInfo) (models.ContactInfo, error) {
	errs := fieldErrors{}
	info.Email = strings.TrimSpace(info.Email)
	if addr, err := mail.ParseAddress(info.Email); err != nil || addr.Address != info.Email {
		errs["email"] = "Invalid email address"
	}
	errs.required("phone", info.Phone, "Phone number is required")
	errs.required("address", info.Address, "Address is required")

	links := map[string]*string{
		"facebook":  &info.SocialMedia.Facebook,
		"instagram": &info.SocialMedia.Instagram,
		"twitter":   &info.SocialMedia.Twitter,
	}
	for field, link := range links {
		*link = strings.TrimSpace(*link)
		if *link == "" {
			continue
		}
		if u, err := url.ParseRequestURI(*link); err != nil || u.Host == "" {
			errs[field] = "Invalid URL"
		}
	}

	if err := errs.err(); err != nil {
		return models.ContactInfo{}, err
	}
	info.Phone = strings.TrimSpace(info.Phone)
	info.Address = strings.TrimSpace(info.Address)
	return info, nil
}

// CatalogService is the admin view of the record store
type CatalogService struct {
	store store.Store
}

// NewCatalogService creates a catalog service over s
func NewCatalogService(s store.Store) *CatalogService {
	return &CatalogService{store: s}
}

// ListPerfumes returns every perfume, hidden ones included
func (s *CatalogService) ListPerfumes(ctx context.Context) ([]models.Perfume, error) {
	perfumes, err := s.store.ListPerfumes(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list perfumes: %w", err)
	}
	return perfumes, nil
}

// ListVisiblePerfumes returns what customers may see
func (s *CatalogService) ListVisiblePerfumes(ctx context.Context) ([]models.Perfume, error) {
	perfumes, err := s.store.ListPerfumes(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list perfumes: %w", err)
	}
	return perfumes, nil
}

// GetPerfume returns ErrPerfumeNotFound for an unknown id
func (s *CatalogService) GetPerfume(ctx context.Context, id string) (*models.Perfume, error) {
	p, err := s.store.GetPerfume(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get perfume: %w", err)
	}
	if p == nil {
		return nil, ErrPerfumeNotFound
	}
	return p, nil
}

// AddPerfume validates and stores a new perfume
func (s *CatalogService) AddPerfume(ctx context.Context, form PerfumeForm) (models.Perfume, error) {
	in, err := form.Validate()
	if err != nil {
		return models.Perfume{}, err
	}

	p, err := s.store.AddPerfume(ctx, in)
	if err != nil {
		return models.Perfume{}, fmt.Errorf("failed to add perfume: %w", err)
	}
	log.Printf("✅ [CATALOG] Added perfume %s (%s)", p.ID, p.Name)
	return p, nil
}

// ReplacePerfume overwrites every field of an existing perfume
func (s *CatalogService) ReplacePerfume(ctx context.Context, id string, form PerfumeForm) (*models.Perfume, error) {
	in, err := form.Validate()
	if err != nil {
		return nil, err
	}

	return s.update(ctx, id, models.PerfumePatch{
		Name:         &in.Name,
		Inspiration:  &in.Inspiration,
		TopNotes:     &in.TopNotes,
		MiddleNotes:  &in.MiddleNotes,
		BaseNotes:    &in.BaseNotes,
		Price:        &in.Price,
		Availability: &in.Availability,
		IsVisible:    &in.IsVisible,
		Character:    &in.Character,
		Usage:        &in.Usage,
		Longevity:    &in.Longevity,
	})
}

// UpdatePerfume merges the fields present in form onto an existing perfume
func (s *CatalogService) UpdatePerfume(ctx context.Context, id string, form PerfumePatchForm) (*models.Perfume, error) {
	patch, err := form.Validate()
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return s.GetPerfume(ctx, id)
	}
	return s.update(ctx, id, patch)
}

func (s *CatalogService) update(ctx context.Context, id string, patch models.PerfumePatch) (*models.Perfume, error) {
	p, err := s.store.UpdatePerfume(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update perfume: %w", err)
	}
	if p == nil {
		return nil, ErrPerfumeNotFound
	}
	log.Printf("✏️  [CATALOG] Updated perfume %s", id)
	return p, nil
}

// DeletePerfume removes a perfume permanently
func (s *CatalogService) DeletePerfume(ctx context.Context, id string) error {
	deleted, err := s.store.DeletePerfume(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete perfume: %w", err)
	}
	if !deleted {
		return ErrPerfumeNotFound
	}
	log.Printf("🗑️  [CATALOG] Deleted perfume %s", id)
	return nil
}

// GetBrandInfo returns the brand singleton
func (s *CatalogService) GetBrandInfo(ctx context.Context) (models.BrandInfo, error) {
	info, err := s.store.GetBrandInfo(ctx)
	if err != nil {
		return models.BrandInfo{}, fmt.Errorf("failed to get brand info: %w", err)
	}
	return info, nil
}

// UpdateBrandInfo validates and overwrites the brand singleton
func (s *CatalogService) UpdateBrandInfo(ctx context.Context, info models.BrandInfo) (models.BrandInfo, error) {
	info, err := ValidateBrandInfo(info)
	if err != nil {
		return models.BrandInfo{}, err
	}
	saved, err := s.store.UpdateBrandInfo(ctx, info)
	if err != nil {
		return models.BrandInfo{}, fmt.Errorf("failed to update brand info: %w", err)
	}
	return saved, nil
}

// GetContactInfo returns the contact singleton
func (s *CatalogService) GetContactInfo(ctx context.Context) (models.ContactInfo, error) {
	info, err := s.store.GetContactInfo(ctx)
	if err != nil {
		return models.ContactInfo{}, fmt.Errorf("failed to get contact info: %w", err)
	}
	return info, nil
}

// UpdateContactInfo validates and overwrites the contact singleton
func (s *CatalogService) UpdateContactInfo(ctx context.Context, info models.ContactInfo) (models.ContactInfo, error) {
	info, err := ValidateContactInfo(info)
	if err != nil {
		return models.ContactInfo{}, err
	}
	saved, err := s.store.UpdateContactInfo(ctx, info)
	if err != nil {
		return models.ContactInfo{}, fmt.Errorf("failed to update contact info: %w", err)
	}
	return saved, nil
}

// ListQueryLogs returns logged customer questions, newest first
func (s *CatalogService) ListQueryLogs(ctx context.Context) ([]models.UserQueryLog, error) {
	logs, err := s.store.ListQueryLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list query logs: %w", err)
	}
	return logs, nil
}
