package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"fgperfume/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyBrand        = "fgperfume:brand"
	redisKeyContact      = "fgperfume:contact"
	redisKeyPerfumes     = "fgperfume:perfumes"
	redisKeyPerfumeOrder = "fgperfume:perfumes:order"
	redisKeyQueries      = "fgperfume:queries"
	redisKeyQuerySeq     = "fgperfume:queries:seq"
)

// RedisStore keeps records as JSON values in Redis
type RedisStore struct {
	client *redis.Client
	newID  func() string
}

// NewRedisStore connects to redisURL and verifies the connection
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("✅ Redis connection established")
	return &RedisStore{client: client, newID: uuid.NewString}, nil
}

func (s *RedisStore) GetBrandInfo(ctx context.Context) (models.BrandInfo, error) {
	var info models.BrandInfo
	if err := s.getJSON(ctx, redisKeyBrand, &info); err != nil {
		return models.BrandInfo{}, fmt.Errorf("failed to get brand info: %w", err)
	}
	return info, nil
}

func (s *RedisStore) UpdateBrandInfo(ctx context.Context, info models.BrandInfo) (models.BrandInfo, error) {
	if err := s.setJSON(ctx, redisKeyBrand, info); err != nil {
		return models.BrandInfo{}, fmt.Errorf("failed to update brand info: %w", err)
	}
	return info, nil
}

func (s *RedisStore) GetContactInfo(ctx context.Context) (models.ContactInfo, error) {
	var info models.ContactInfo
	if err := s.getJSON(ctx, redisKeyContact, &info); err != nil {
		return models.ContactInfo{}, fmt.Errorf("failed to get contact info: %w", err)
	}
	return info, nil
}

func (s *RedisStore) UpdateContactInfo(ctx context.Context, info models.ContactInfo) (models.ContactInfo, error) {
	if err := s.setJSON(ctx, redisKeyContact, info); err != nil {
		return models.ContactInfo{}, fmt.Errorf("failed to update contact info: %w", err)
	}
	return info, nil
}

func (s *RedisStore) ListPerfumes(ctx context.Context, includeHidden bool) ([]models.Perfume, error) {
	ids, err := s.client.LRange(ctx, redisKeyPerfumeOrder, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list perfume ids: %w", err)
	}

	perfumes := []models.Perfume{}
	if len(ids) == 0 {
		return perfumes, nil
	}

	values, err := s.client.HMGet(ctx, redisKeyPerfumes, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load perfumes: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			log.Printf("⚠️  [STORE] perfume %s listed but missing from hash", ids[i])
			continue
		}
		var p models.Perfume
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("failed to decode perfume %s: %w", ids[i], err)
		}
		if includeHidden || p.IsVisible {
			perfumes = append(perfumes, p.Normalized())
		}
	}
	return perfumes, nil
}

func (s *RedisStore) GetPerfume(ctx context.Context, id string) (*models.Perfume, error) {
	raw, err := s.client.HGet(ctx, redisKeyPerfumes, id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get perfume: %w", err)
	}

	var p models.Perfume
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("failed to decode perfume %s: %w", id, err)
	}
	p = p.Normalized()
	return &p, nil
}

func (s *RedisStore) AddPerfume(ctx context.Context, in models.PerfumeInput) (models.Perfume, error) {
	p := in.WithID(s.newID()).Normalized()
	data, err := json.Marshal(p)
	if err != nil {
		return models.Perfume{}, fmt.Errorf("failed to encode perfume: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, redisKeyPerfumes, p.ID, data)
		pipe.RPush(ctx, redisKeyPerfumeOrder, p.ID)
		return nil
	})
	if err != nil {
		return models.Perfume{}, fmt.Errorf("failed to add perfume: %w", err)
	}
	return p, nil
}

func (s *RedisStore) UpdatePerfume(ctx context.Context, id string, patch models.PerfumePatch) (*models.Perfume, error) {
	var updated *models.Perfume

	txf := func(tx *redis.Tx) error {
		raw, err := tx.HGet(ctx, redisKeyPerfumes, id).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		var current models.Perfume
		if err := json.Unmarshal([]byte(raw), &current); err != nil {
			return fmt.Errorf("failed to decode perfume %s: %w", id, err)
		}
		p := patch.Apply(current).Normalized()
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to encode perfume: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, redisKeyPerfumes, id, data)
			return nil
		})
		if err == nil {
			updated = &p
		}
		return err
	}

	for attempt := 0; attempt < 3; attempt++ {
		err := s.client.Watch(ctx, txf, redisKeyPerfumes)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update perfume: %w", err)
		}
		return updated, nil
	}
	return nil, fmt.Errorf("failed to update perfume %s: too much contention", id)
}

func (s *RedisStore) DeletePerfume(ctx context.Context, id string) (bool, error) {
	var removed *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.HDel(ctx, redisKeyPerfumes, id)
		pipe.LRem(ctx, redisKeyPerfumeOrder, 0, id)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete perfume: %w", err)
	}
	return removed.Val() > 0, nil
}

func (s *RedisStore) AddQueryLog(ctx context.Context, query string, timestamp int64) (models.UserQueryLog, error) {
	seq, err := s.client.Incr(ctx, redisKeyQuerySeq).Result()
	if err != nil {
		return models.UserQueryLog{}, fmt.Errorf("failed to allocate query id: %w", err)
	}

	entry := models.UserQueryLog{ID: strconv.FormatInt(seq, 10), Query: query, Timestamp: timestamp}
	data, err := json.Marshal(entry)
	if err != nil {
		return models.UserQueryLog{}, fmt.Errorf("failed to encode query log: %w", err)
	}
	if err := s.client.RPush(ctx, redisKeyQueries, data).Err(); err != nil {
		return models.UserQueryLog{}, fmt.Errorf("failed to log query: %w", err)
	}
	return entry, nil
}

func (s *RedisStore) ListQueryLogs(ctx context.Context) ([]models.UserQueryLog, error) {
	values, err := s.client.LRange(ctx, redisKeyQueries, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list query logs: %w", err)
	}

	logs := make([]models.UserQueryLog, 0, len(values))
	for _, raw := range values {
		var entry models.UserQueryLog
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, fmt.Errorf("failed to decode query log: %w", err)
		}
		logs = append(logs, entry)
	}
	sortNewestFirst(logs)
	return logs, nil
}

// Ping checks that Redis is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) getJSON(ctx context.Context, key string, v any) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func (s *RedisStore) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, 0).Err()
}
