package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

// MongoEventCollection implements EventCollection over one collection per
// event kind.
type MongoEventCollection struct {
	Usage       *mongo.Collection
	Maintenance *mongo.Collection
	Downtime    *mongo.Collection
}

// InsertUsage appends a usage event.
func (c *MongoEventCollection) InsertUsage(ctx context.Context, event models.UsageEvent) error {
	return insertEvent(ctx, c.Usage, event)
}

// InsertMaintenance appends a maintenance event.
func (c *MongoEventCollection) InsertMaintenance(ctx context.Context, event models.MaintenanceEvent) error {
	return insertEvent(ctx, c.Maintenance, event)
}

// InsertDowntime appends a downtime event.
func (c *MongoEventCollection) InsertDowntime(ctx context.Context, event models.DowntimeEvent) error {
	return insertEvent(ctx, c.Downtime, event)
}

// FindUsage queries usage events by date.
func (c *MongoEventCollection) FindUsage(ctx context.Context, q EventQuery) ([]models.UsageEvent, error) {
	return findEvents[models.UsageEvent](ctx, c.Usage, q, "date")
}

// FindMaintenance queries maintenance events by date.
func (c *MongoEventCollection) FindMaintenance(ctx context.Context, q EventQuery) ([]models.MaintenanceEvent, error) {
	return findEvents[models.MaintenanceEvent](ctx, c.Maintenance, q, "date")
}

// FindDowntime queries downtime events by start date.
func (c *MongoEventCollection) FindDowntime(ctx context.Context, q EventQuery) ([]models.DowntimeEvent, error) {
	return findEvents[models.DowntimeEvent](ctx, c.Downtime, q, "start_date")
}

func insertEvent(ctx context.Context, coll *mongo.Collection, event interface{}) error {
	if coll == nil {
		return ErrNilCollection
	}
	_, err := coll.InsertOne(ctx, event)
	return err
}

func findEvents[T any](ctx context.Context, coll *mongo.Collection, q EventQuery, dateField string) ([]T, error) {
	if coll == nil {
		return nil, ErrNilCollection
	}
	filter, err := eventFilter(q)
	if err != nil {
		return nil, err
	}
	return findAll[T](ctx, coll, filter, eventOptions(q, dateField))
}

func eventFilter(q EventQuery) (bson.M, error) {
	filter := bson.M{"owner_id": q.OwnerID}
	if q.AssetID != "" {
		assetID, err := parseID(q.AssetID)
		if err != nil {
			return nil, err
		}
		filter["asset_id"] = assetID
	}
	return filter, nil
}

func eventOptions(q EventQuery, dateField string) *options.FindOptions {
	dir := -1
	if q.Ascending {
		dir = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: dateField, Value: dir}, {Key: "_id", Value: dir}})
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return opts
}
