package repository

import (
	"context"
	"fmt"
	"time"

	"search-enrichment-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSearchRepository stores enriched searches as documents, one per search id
type MongoSearchRepository struct {
	collection *mongo.Collection
}

// NewMongoSearchRepository creates a new search document repository
func NewMongoSearchRepository(ctx context.Context, db *mongo.Database) (*MongoSearchRepository, error) {
	collection := db.Collection("searches")

	// Create unique index on search_id
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"search_id": 1},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return nil, fmt.Errorf("create search_id index: %w", err)
	}

	// Index on OnD and search date for analytics reads
	ondIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "ond", Value: 1},
			{Key: "search_date", Value: 1},
		},
	}
	if _, err := collection.Indexes().CreateOne(ctx, ondIndex); err != nil {
		return nil, fmt.Errorf("create ond index: %w", err)
	}

	return &MongoSearchRepository{
		collection: collection,
	}, nil
}

// Name identifies the sink
func (r *MongoSearchRepository) Name() string {
	return "mongodb"
}

// Save creates or replaces the document of the search
func (r *MongoSearchRepository) Save(ctx context.Context, search *entity.Search) error {
	doc, err := toDocument(search)
	if err != nil {
		return err
	}

	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"search_id": search.SearchID}

	if _, err := r.collection.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("upsert search %s: %w", search.SearchID, err)
	}
	return nil
}

// FindBySearchID returns the stored search
func (r *MongoSearchRepository) FindBySearchID(ctx context.Context, searchID string) (*entity.Search, error) {
	var search entity.Search
	err := r.collection.FindOne(ctx, bson.M{"search_id": searchID}).Decode(&search)
	if err != nil {
		return nil, err
	}
	return &search, nil
}

// toDocument marshals the search and stamps the write time
func toDocument(search *entity.Search) (bson.M, error) {
	raw, err := bson.Marshal(search)
	if err != nil {
		return nil, fmt.Errorf("marshal search %s: %w", search.SearchID, err)
	}

	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal search %s: %w", search.SearchID, err)
	}
	doc["updated_at"] = time.Now().UTC()

	return doc, nil
}
