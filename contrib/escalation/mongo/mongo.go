package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/sweetpotato0/ticket-resolver/escalation"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store appends escalation records to a MongoDB collection.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Config holds MongoDB connection configuration
type Config struct {
	URI        string
	Database   string
	Collection string
}

// DefaultConfig returns default MongoDB configuration
func DefaultConfig() *Config {
	return &Config{
		URI:        "mongodb://localhost:27017",
		Database:   "ticket_resolver",
		Collection: "escalations",
	}
}

// New connects to MongoDB and ensures the timestamp index exists.
func New(ctx context.Context, config *Config) (*Store, error) {
	if config == nil {
		config = DefaultConfig()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	store := &Store{
		client:     client,
		collection: client.Database(config.Database).Collection(config.Collection),
	}
	if _, err := store.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: 1}},
	}); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return store, nil
}

// Append implements escalation.Store. InsertOne never overwrites an existing record.
func (s *Store) Append(ctx context.Context, rec escalation.Record) error {
	if _, err := s.collection.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to insert escalation into MongoDB: %w", err)
	}
	return nil
}

// List implements escalation.Lister, oldest first.
func (s *Store) List(ctx context.Context) ([]escalation.Record, error) {
	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list escalations: %w", err)
	}
	defer cursor.Close(ctx)

	var out []escalation.Record
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode escalations: %w", err)
	}
	return out, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
