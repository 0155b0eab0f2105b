package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"fgperfume/internal/database"
	"fgperfume/internal/models"

	"github.com/google/uuid"
)

const perfumeColumns = "id, name, inspiration, topNotes, middleNotes, baseNotes, price, availability, isVisible, `character`, `usage`, longevity"

// SQLStore persists records in MySQL or SQLite
type SQLStore struct {
	db    *database.DB
	newID func() string

	seqMu   sync.Mutex
	lastSeq int64
}

// NewSQLStore creates a store on an initialized database
func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db, newID: uuid.NewString}
}

func (s *SQLStore) GetBrandInfo(ctx context.Context) (models.BrandInfo, error) {
	var info models.BrandInfo
	err := s.db.QueryRowContext(ctx,
		"SELECT story, companyInfo FROM brand_info WHERE id = 1",
	).Scan(&info.Story, &info.CompanyInfo)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BrandInfo{}, nil
	}
	if err != nil {
		return models.BrandInfo{}, fmt.Errorf("failed to get brand info: %w", err)
	}
	return info, nil
}

func (s *SQLStore) UpdateBrandInfo(ctx context.Context, info models.BrandInfo) (models.BrandInfo, error) {
	query := "INSERT INTO brand_info (id, story, companyInfo) VALUES (1, ?, ?) " +
		s.upsert("story", "companyInfo")
	if _, err := s.db.ExecContext(ctx, query, info.Story, info.CompanyInfo); err != nil {
		return models.BrandInfo{}, fmt.Errorf("failed to update brand info: %w", err)
	}
	return info, nil
}

func (s *SQLStore) GetContactInfo(ctx context.Context) (models.ContactInfo, error) {
	var info models.ContactInfo
	var facebook, instagram, twitter sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT email, phone, address, social_facebook, social_instagram, social_twitter FROM contact_info WHERE id = 1",
	).Scan(&info.Email, &info.Phone, &info.Address, &facebook, &instagram, &twitter)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ContactInfo{}, nil
	}
	if err != nil {
		return models.ContactInfo{}, fmt.Errorf("failed to get contact info: %w", err)
	}
	info.SocialMedia = models.SocialMedia{
		Facebook:  facebook.String,
		Instagram: instagram.String,
		Twitter:   twitter.String,
	}
	return info, nil
}

func (s *SQLStore) UpdateContactInfo(ctx context.Context, info models.ContactInfo) (models.ContactInfo, error) {
	query := "INSERT INTO contact_info (id, email, phone, address, social_facebook, social_instagram, social_twitter) " +
		"VALUES (1, ?, ?, ?, ?, ?, ?) " +
		s.upsert("email", "phone", "address", "social_facebook", "social_instagram", "social_twitter")
	_, err := s.db.ExecContext(ctx, query,
		info.Email, info.Phone, info.Address,
		nullable(info.SocialMedia.Facebook),
		nullable(info.SocialMedia.Instagram),
		nullable(info.SocialMedia.Twitter),
	)
	if err != nil {
		return models.ContactInfo{}, fmt.Errorf("failed to update contact info: %w", err)
	}
	return info, nil
}

func (s *SQLStore) ListPerfumes(ctx context.Context, includeHidden bool) ([]models.Perfume, error) {
	query := "SELECT " + perfumeColumns + " FROM perfumes"
	if !includeHidden {
		query += " WHERE isVisible = TRUE"
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list perfumes: %w", err)
	}
	defer rows.Close()

	perfumes := []models.Perfume{}
	for rows.Next() {
		p, err := scanPerfume(rows)
		if err != nil {
			return nil, err
		}
		perfumes = append(perfumes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate perfumes: %w", err)
	}
	return perfumes, nil
}

func (s *SQLStore) GetPerfume(ctx context.Context, id string) (*models.Perfume, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+perfumeColumns+" FROM perfumes WHERE id = ?", id)
	p, err := scanPerfume(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLStore) AddPerfume(ctx context.Context, in models.PerfumeInput) (models.Perfume, error) {
	p := in.WithID(s.newID()).Normalized()

	top, middle, base, err := encodeNotes(p)
	if err != nil {
		return models.Perfume{}, err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO perfumes ("+perfumeColumns+", created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.Name, p.Inspiration, top, middle, base, p.Price, string(p.Availability), p.IsVisible,
		p.Character, p.Usage, p.Longevity, s.nextSeq(),
	)
	if err != nil {
		return models.Perfume{}, fmt.Errorf("failed to add perfume: %w", err)
	}
	return p, nil
}

func (s *SQLStore) UpdatePerfume(ctx context.Context, id string, patch models.PerfumePatch) (*models.Perfume, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := scanPerfume(tx.QueryRowContext(ctx, "SELECT "+perfumeColumns+" FROM perfumes WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p := patch.Apply(current).Normalized()
	top, middle, base, err := encodeNotes(p)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE perfumes SET name = ?, inspiration = ?, topNotes = ?, middleNotes = ?, baseNotes = ?, price = ?, "+
			"availability = ?, isVisible = ?, `character` = ?, `usage` = ?, longevity = ? WHERE id = ?",
		p.Name, p.Inspiration, top, middle, base, p.Price, string(p.Availability), p.IsVisible,
		p.Character, p.Usage, p.Longevity, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update perfume: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit perfume update: %w", err)
	}
	return &p, nil
}

func (s *SQLStore) DeletePerfume(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM perfumes WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete perfume: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

func (s *SQLStore) AddQueryLog(ctx context.Context, query string, timestamp int64) (models.UserQueryLog, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO user_queries (`query`, `timestamp`) VALUES (?, ?)", query, timestamp)
	if err != nil {
		return models.UserQueryLog{}, fmt.Errorf("failed to log query: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.UserQueryLog{}, fmt.Errorf("failed to read query id: %w", err)
	}
	return models.UserQueryLog{ID: strconv.FormatInt(id, 10), Query: query, Timestamp: timestamp}, nil
}

func (s *SQLStore) ListQueryLogs(ctx context.Context) ([]models.UserQueryLog, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, `query`, `timestamp` FROM user_queries ORDER BY `timestamp` DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list query logs: %w", err)
	}
	defer rows.Close()

	logs := []models.UserQueryLog{}
	for rows.Next() {
		var id int64
		var entry models.UserQueryLog
		if err := rows.Scan(&id, &entry.Query, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan query log: %w", err)
		}
		entry.ID = strconv.FormatInt(id, 10)
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate query logs: %w", err)
	}
	return logs, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// upsert returns the dialect specific conflict clause for the singleton tables
func (s *SQLStore) upsert(columns ...string) string {
	var clause string
	if s.db.Dialect == database.DialectSQLite {
		clause = "ON CONFLICT(id) DO UPDATE SET "
		for i, c := range columns {
			if i > 0 {
				clause += ", "
			}
			clause += c + " = excluded." + c
		}
		return clause
	}

	clause = "ON DUPLICATE KEY UPDATE "
	for i, c := range columns {
		if i > 0 {
			clause += ", "
		}
		clause += c + " = VALUES(" + c + ")"
	}
	return clause
}

// nextSeq yields strictly increasing creation stamps so list order follows insertion
func (s *SQLStore) nextSeq() int64 {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	now := time.Now().UnixNano()
	if now <= s.lastSeq {
		now = s.lastSeq + 1
	}
	s.lastSeq = now
	return now
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerfume(row rowScanner) (models.Perfume, error) {
	var p models.Perfume
	var top, middle, base, availability string

	err := row.Scan(&p.ID, &p.Name, &p.Inspiration, &top, &middle, &base, &p.Price,
		&availability, &p.IsVisible, &p.Character, &p.Usage, &p.Longevity)
	if errors.Is(err, sql.ErrNoRows) {
		return p, err
	}
	if err != nil {
		return p, fmt.Errorf("failed to scan perfume: %w", err)
	}

	p.Availability = models.Availability(availability)
	if p.TopNotes, err = decodeNotes(top); err != nil {
		return p, err
	}
	if p.MiddleNotes, err = decodeNotes(middle); err != nil {
		return p, err
	}
	if p.BaseNotes, err = decodeNotes(base); err != nil {
		return p, err
	}
	return p, nil
}

func encodeNotes(p models.Perfume) (top, middle, base string, err error) {
	enc := func(notes []string) (string, error) {
		data, err := json.Marshal(notes)
		if err != nil {
			return "", fmt.Errorf("failed to encode notes: %w", err)
		}
		return string(data), nil
	}
	if top, err = enc(p.TopNotes); err != nil {
		return
	}
	if middle, err = enc(p.MiddleNotes); err != nil {
		return
	}
	base, err = enc(p.BaseNotes)
	return
}

func decodeNotes(raw string) ([]string, error) {
	notes := []string{}
	if raw == "" {
		return notes, nil
	}
	if err := json.Unmarshal([]byte(raw), &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	if notes == nil {
		notes = []string{}
	}
	return notes, nil
}

func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
