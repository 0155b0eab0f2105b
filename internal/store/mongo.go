package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"fgperfume/internal/database"
	"fgperfume/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	settingsBrandID   = "brand"
	settingsContactID = "contact"
	querySequence     = "user_queries"
)

type mongoPerfume struct {
	models.Perfume `bson:",inline"`
	CreatedAt      int64 `bson:"createdAt"`
}

type mongoBrand struct {
	ID               string `bson:"_id"`
	models.BrandInfo `bson:",inline"`
}

type mongoContact struct {
	ID                 string `bson:"_id"`
	models.ContactInfo `bson:",inline"`
}

type mongoQuery struct {
	Seq       int64  `bson:"seq"`
	Query     string `bson:"query"`
	Timestamp int64  `bson:"timestamp"`
}

// MongoStore persists records in MongoDB
type MongoStore struct {
	db    *database.MongoDB
	newID func() string

	seqMu   sync.Mutex
	lastSeq int64
}

// NewMongoStore creates a store on a connected MongoDB
func NewMongoStore(db *database.MongoDB) *MongoStore {
	return &MongoStore{db: db, newID: uuid.NewString}
}

func (s *MongoStore) settings() *mongo.Collection {
	return s.db.Collection(database.CollectionSiteSettings)
}

func (s *MongoStore) perfumes() *mongo.Collection {
	return s.db.Collection(database.CollectionPerfumes)
}

func (s *MongoStore) queries() *mongo.Collection {
	return s.db.Collection(database.CollectionUserQueries)
}

func (s *MongoStore) GetBrandInfo(ctx context.Context) (models.BrandInfo, error) {
	var doc mongoBrand
	err := s.settings().FindOne(ctx, bson.M{"_id": settingsBrandID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.BrandInfo{}, nil
	}
	if err != nil {
		return models.BrandInfo{}, fmt.Errorf("failed to get brand info: %w", err)
	}
	return doc.BrandInfo, nil
}

func (s *MongoStore) UpdateBrandInfo(ctx context.Context, info models.BrandInfo) (models.BrandInfo, error) {
	_, err := s.settings().ReplaceOne(ctx,
		bson.M{"_id": settingsBrandID},
		mongoBrand{ID: settingsBrandID, BrandInfo: info},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return models.BrandInfo{}, fmt.Errorf("failed to update brand info: %w", err)
	}
	return info, nil
}

func (s *MongoStore) GetContactInfo(ctx context.Context) (models.ContactInfo, error) {
	var doc mongoContact
	err := s.settings().FindOne(ctx, bson.M{"_id": settingsContactID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ContactInfo{}, nil
	}
	if err != nil {
		return models.ContactInfo{}, fmt.Errorf("failed to get contact info: %w", err)
	}
	return doc.ContactInfo, nil
}

func (s *MongoStore) UpdateContactInfo(ctx context.Context, info models.ContactInfo) (models.ContactInfo, error) {
	_, err := s.settings().ReplaceOne(ctx,
		bson.M{"_id": settingsContactID},
		mongoContact{ID: settingsContactID, ContactInfo: info},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return models.ContactInfo{}, fmt.Errorf("failed to update contact info: %w", err)
	}
	return info, nil
}

func (s *MongoStore) ListPerfumes(ctx context.Context, includeHidden bool) ([]models.Perfume, error) {
	filter := bson.M{}
	if !includeHidden {
		filter["isVisible"] = true
	}

	cursor, err := s.perfumes().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list perfumes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoPerfume
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode perfumes: %w", err)
	}

	perfumes := make([]models.Perfume, 0, len(docs))
	for _, d := range docs {
		perfumes = append(perfumes, d.Perfume.Normalized())
	}
	return perfumes, nil
}

func (s *MongoStore) GetPerfume(ctx context.Context, id string) (*models.Perfume, error) {
	var doc mongoPerfume
	err := s.perfumes().FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get perfume: %w", err)
	}
	p := doc.Perfume.Normalized()
	return &p, nil
}

func (s *MongoStore) AddPerfume(ctx context.Context, in models.PerfumeInput) (models.Perfume, error) {
	p := in.WithID(s.newID()).Normalized()
	if _, err := s.perfumes().InsertOne(ctx, mongoPerfume{Perfume: p, CreatedAt: s.nextSeq()}); err != nil {
		return models.Perfume{}, fmt.Errorf("failed to add perfume: %w", err)
	}
	return p, nil
}

func (s *MongoStore) UpdatePerfume(ctx context.Context, id string, patch models.PerfumePatch) (*models.Perfume, error) {
	current, err := s.GetPerfume(ctx, id)
	if err != nil || current == nil {
		return nil, err
	}

	p := patch.Apply(*current).Normalized()
	result, err := s.perfumes().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":         p.Name,
		"inspiration":  p.Inspiration,
		"topNotes":     p.TopNotes,
		"middleNotes":  p.MiddleNotes,
		"baseNotes":    p.BaseNotes,
		"price":        p.Price,
		"availability": p.Availability,
		"isVisible":    p.IsVisible,
		"character":    p.Character,
		"usage":        p.Usage,
		"longevity":    p.Longevity,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to update perfume: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, nil
	}
	return &p, nil
}

func (s *MongoStore) DeletePerfume(ctx context.Context, id string) (bool, error) {
	result, err := s.perfumes().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete perfume: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (s *MongoStore) AddQueryLog(ctx context.Context, query string, timestamp int64) (models.UserQueryLog, error) {
	seq, err := s.db.NextSequence(ctx, querySequence)
	if err != nil {
		return models.UserQueryLog{}, err
	}
	if _, err := s.queries().InsertOne(ctx, mongoQuery{Seq: seq, Query: query, Timestamp: timestamp}); err != nil {
		return models.UserQueryLog{}, fmt.Errorf("failed to log query: %w", err)
	}
	return models.UserQueryLog{ID: strconv.FormatInt(seq, 10), Query: query, Timestamp: timestamp}, nil
}

func (s *MongoStore) ListQueryLogs(ctx context.Context) ([]models.UserQueryLog, error) {
	cursor, err := s.queries().Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "seq", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list query logs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoQuery
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode query logs: %w", err)
	}

	logs := make([]models.UserQueryLog, 0, len(docs))
	for _, d := range docs {
		logs = append(logs, models.UserQueryLog{
			ID:        strconv.FormatInt(d.Seq, 10),
			Query:     d.Query,
			Timestamp: d.Timestamp,
		})
	}
	return logs, nil
}

// Ping checks that MongoDB is reachable
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.db.Close(ctx)
}

func (s *MongoStore) nextSeq() int64 {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	now := time.Now().UnixNano()
	if now <= s.lastSeq {
		now = s.lastSeq + 1
	}
	s.lastSeq = now
	return now
}
