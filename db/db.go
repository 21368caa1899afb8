package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"journalgrader/internal/logger"
	"journalgrader/models"
)

const mongoWriteTimeout = 5 * time.Second

// extractDBName parses the database name from the URI, defaulting to "journals"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "journals"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:]
	}
	return "journals"
}

// ConnectMongoDB establishes a connection to MongoDB using the provided URI
// and verifies it with a ping.
func ConnectMongoDB(ctx context.Context, uri string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, client.Database(extractDBName(uri)), nil
}

// MongoAuditStore appends submission records to a collection.
type MongoAuditStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	log        *logger.Logger
}

func NewMongoAuditStore(ctx context.Context, uri, collection string, log *logger.Logger) (*MongoAuditStore, error) {
	client, database, err := ConnectMongoDB(ctx, uri)
	if err != nil {
		return nil, err
	}
	log.Info("Connected to MongoDB", "database", database.Name(), "collection", collection)
	return &MongoAuditStore{
		client:     client,
		collection: database.Collection(collection),
		log:        log.With("store", "MongoAuditStore"),
	}, nil
}

func (s *MongoAuditStore) RecordSubmission(ctx context.Context, record models.SubmissionRecord) error {
	ctx, cancel := context.WithTimeout(ctx, mongoWriteTimeout)
	defer cancel()

	if _, err := s.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("insert submission record: %w", err)
	}
	s.log.Debug("Submission recorded", "submission_id", record.SubmissionID)
	return nil
}

func (s *MongoAuditStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
