// Package knowledge renders the catalog the concierge answers from.
//
// A knowledge base document is a human-readable prose section followed by a
// "Data (JSON):" block holding the same data. Both halves are generated from
// one Snapshot so they never disagree.
package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"fgperfume/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DataLabel introduces the canonical JSON block
const DataLabel = "Data (JSON):"

// JSON escapes newlines inside strings, so only the real block start matches.
const dataSeparator = "\n" + DataLabel + "\n"

// Snapshot is the catalog view used for one answer
type Snapshot struct {
	Brand    models.BrandInfo   `json:"brand"`
	Contact  models.ContactInfo `json:"contact"`
	Perfumes []models.Perfume   `json:"perfumes"`
}

// Source is the part of the record store the serializer reads
type Source interface {
	GetBrandInfo(ctx context.Context) (models.BrandInfo, error)
	GetContactInfo(ctx context.Context) (models.ContactInfo, error)
	ListPerfumes(ctx context.Context, includeHidden bool) ([]models.Perfume, error)
}

// Load fetches a snapshot from src
func Load(ctx context.Context, src Source, includeHidden bool) (Snapshot, error) {
	brand, err := src.GetBrandInfo(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load brand info: %w", err)
	}
	contact, err := src.GetContactInfo(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load contact info: %w", err)
	}
	perfumes, err := src.ListPerfumes(ctx, includeHidden)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load perfumes: %w", err)
	}
	return Snapshot{Brand: brand, Contact: contact, Perfumes: perfumes}, nil
}

// Build loads a snapshot from src and serializes it
func Build(ctx context.Context, src Source, includeHidden bool) (string, error) {
	snap, err := Load(ctx, src, includeHidden)
	if err != nil {
		return "", err
	}
	return Serialize(snap)
}

// Serialize renders snap as prose followed by the canonical JSON block.
// Perfumes keep the order they have in snap.
func Serialize(snap Snapshot) (string, error) {
	snap = normalize(snap)

	var sb strings.Builder

	sb.WriteString("Brand Information:\n")
	line(&sb, "Philosophy", snap.Brand.Story)
	line(&sb, "About", snap.Brand.CompanyInfo)

	sb.WriteString("\nContact Information:\n")
	line(&sb, "Email", snap.Contact.Email)
	line(&sb, "Phone", snap.Contact.Phone)
	line(&sb, "Address", snap.Contact.Address)
	line(&sb, "Facebook", snap.Contact.SocialMedia.Facebook)
	line(&sb, "Instagram", snap.Contact.SocialMedia.Instagram)
	line(&sb, "Twitter", snap.Contact.SocialMedia.Twitter)

	sb.WriteString("\nAvailable Perfumes:\n")
	for _, p := range snap.Perfumes {
		sb.WriteString("\n")
		line(&sb, "Name", p.Name)
		line(&sb, "Inspiration", p.Inspiration)
		line(&sb, "Character", p.Character)
		line(&sb, "Top Notes", strings.Join(p.TopNotes, ", "))
		line(&sb, "Middle Notes", strings.Join(p.MiddleNotes, ", "))
		line(&sb, "Base Notes", strings.Join(p.BaseNotes, ", "))
		fmt.Fprintf(&sb, "- Price: %s\n", FormatPrice(p.Price))
		fmt.Fprintf(&sb, "- Availability: %s\n", p.Availability)
		line(&sb, "Best Usage", p.Usage)
		line(&sb, "Longevity", p.Longevity)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return "", fmt.Errorf("failed to encode knowledge base: %w", err)
	}

	sb.WriteString(dataSeparator)
	sb.Write(buf.Bytes())

	return sb.String(), nil
}

// Extract parses the canonical JSON block back out of a serialized document
func Extract(doc string) (Snapshot, error) {
	idx := strings.LastIndex(doc, dataSeparator)
	if idx == -1 {
		return Snapshot{}, errors.New("knowledge base has no data block")
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(doc[idx+len(dataSeparator):]), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse knowledge base data: %w", err)
	}
	return normalize(snap), nil
}

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders an amount as "MYR 1,250.5" (grouped, at most two decimals).
// Non-finite amounts render as zero.
func FormatPrice(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	return "MYR " + pricePrinter.Sprint(number.Decimal(amount,
		number.MinFractionDigits(0),
		number.MaxFractionDigits(2),
	))
}

func line(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "- %s: %s\n", label, value)
}

func normalize(snap Snapshot) Snapshot {
	perfumes := make([]models.Perfume, 0, len(snap.Perfumes))
	for _, p := range snap.Perfumes {
		perfumes = append(perfumes, p.Normalized())
	}
	snap.Perfumes = perfumes
	return snap
}
