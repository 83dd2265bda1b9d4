package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNilCollection = errors.New("mongo collection is nil")
	ErrNotFound      = errors.New("record not found")
	ErrInvalidID     = errors.New("invalid id")
)

// Collection names.
const (
	assetsCollection      = "assets"
	rulesCollection       = "maintenance_rules"
	usageCollection       = "usage_logs"
	maintenanceCollection = "maintenance_entries"
	downtimeCollection    = "downtime_events"
	usersCollection       = "users"
)

// ConnectMongo connects to MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Store groups the collections of one database.
type Store struct {
	Assets *MongoAssetCollection
	Rules  *MongoRuleCollection
	Events *MongoEventCollection
	Users  *MongoUserCollection

	database *mongo.Database
}

// NewStore binds every collection to database.
func NewStore(database *mongo.Database) *Store {
	return &Store{
		Assets: &MongoAssetCollection{Collection: database.Collection(assetsCollection)},
		Rules:  &MongoRuleCollection{Collection: database.Collection(rulesCollection)},
		Events: &MongoEventCollection{
			Usage:       database.Collection(usageCollection),
			Maintenance: database.Collection(maintenanceCollection),
			Downtime:    database.Collection(downtimeCollection),
		},
		Users:    &MongoUserCollection{Collection: database.Collection(usersCollection)},
		database: database,
	}
}

// EnsureIndexes creates the owner and asset lookup indexes. It is safe to call
// on every start.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		assetsCollection: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "is_active", Value: 1}}},
		},
		rulesCollection: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "asset_id", Value: 1}, {Key: "interval_value", Value: 1}}},
		},
		usageCollection: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "asset_id", Value: 1}, {Key: "date", Value: -1}}},
		},
		maintenanceCollection: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "asset_id", Value: 1}, {Key: "date", Value: -1}}},
		},
		downtimeCollection: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "asset_id", Value: 1}, {Key: "start_date", Value: -1}}},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for name, idx := range indexes {
		if _, err := s.database.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w %q", ErrInvalidID, id)
	}
	return oid, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
