package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultMongoDatabase   = "webCrawlerArchive"
	DefaultMongoCollection = "visited"
)

// MongoSink stores one document per visited page.
type MongoSink struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

// NewMongo connects to uri and verifies the server is reachable.
func NewMongo(ctx context.Context, uri, database, collection string) (*MongoSink, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoSink{
		Client:     client,
		Collection: client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoSink) Append(ctx context.Context, rec Record) error {
	if _, err := s.Collection.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("mongodb insert %s: %w", rec.URL, err)
	}
	return nil
}

func (s *MongoSink) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Client.Disconnect(ctx)
}
