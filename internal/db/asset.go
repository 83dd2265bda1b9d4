package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

// MongoAssetCollection implements AssetCollection for MongoDB.
type MongoAssetCollection struct {
	Collection *mongo.Collection
}

// InsertAsset inserts an asset. The caller assigns the ID.
func (c *MongoAssetCollection) InsertAsset(ctx context.Context, asset models.Asset) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	_, err := c.Collection.InsertOne(ctx, asset)
	return err
}

// FindAssets returns the owner's assets in creation order.
func (c *MongoAssetCollection) FindAssets(ctx context.Context, ownerID string, activeOnly bool) ([]models.Asset, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return findAll[models.Asset](ctx, c.Collection, assetFilter(ownerID, activeOnly), opts)
}

// FindAssetByID finds one of the owner's assets.
func (c *MongoAssetCollection) FindAssetByID(ctx context.Context, ownerID, id string) (*models.Asset, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var asset models.Asset
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID, "owner_id": ownerID}).Decode(&asset)
	if err != nil {
		return nil, notFound(err)
	}
	return &asset, nil
}

// IncrementUsage atomically adds delta to the asset's current usage and
// returns the updated asset.
func (c *MongoAssetCollection) IncrementUsage(ctx context.Context, ownerID, id string, delta float64) (*models.Asset, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var asset models.Asset
	err = c.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objectID, "owner_id": ownerID},
		bson.M{"$inc": bson.M{"current_usage": delta}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&asset)
	if err != nil {
		return nil, notFound(err)
	}
	return &asset, nil
}

// SetActive archives (false) or restores (true) an asset.
func (c *MongoAssetCollection) SetActive(ctx context.Context, ownerID, id string, active bool) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	objectID, err := parseID(id)
	if err != nil {
		return err
	}

	result, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "owner_id": ownerID},
		bson.M{"$set": bson.M{"is_active": active}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func assetFilter(ownerID string, activeOnly bool) bson.M {
	filter := bson.M{"owner_id": ownerID}
	if activeOnly {
		filter["is_active"] = true
	}
	return filter
}
