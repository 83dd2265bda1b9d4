package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

// MongoRuleCollection implements RuleCollection for MongoDB.
type MongoRuleCollection struct {
	Collection *mongo.Collection
}

// InsertRule inserts a maintenance rule. The caller assigns the ID.
func (c *MongoRuleCollection) InsertRule(ctx context.Context, rule models.MaintenanceRule) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	_, err := c.Collection.InsertOne(ctx, rule)
	return err
}

// InsertRules inserts several rules at once, as when seeding a template.
func (c *MongoRuleCollection) InsertRules(ctx context.Context, rules []models.MaintenanceRule) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	if len(rules) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(rules))
	for _, r := range rules {
		docs = append(docs, r)
	}
	_, err := c.Collection.InsertMany(ctx, docs)
	return err
}

// FindRules returns every rule of the owner.
func (c *MongoRuleCollection) FindRules(ctx context.Context, ownerID string) ([]models.MaintenanceRule, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	return findAll[models.MaintenanceRule](ctx, c.Collection, bson.M{"owner_id": ownerID}, ruleOrder())
}

// FindRulesByAsset returns the rules of one asset, shortest interval first.
func (c *MongoRuleCollection) FindRulesByAsset(ctx context.Context, ownerID, assetID string) ([]models.MaintenanceRule, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	objectID, err := parseID(assetID)
	if err != nil {
		return nil, err
	}
	return findAll[models.MaintenanceRule](ctx, c.Collection, bson.M{"owner_id": ownerID, "asset_id": objectID}, ruleOrder())
}

// FindRuleByID finds one of the owner's rules.
func (c *MongoRuleCollection) FindRuleByID(ctx context.Context, ownerID, id string) (*models.MaintenanceRule, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var rule models.MaintenanceRule
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID, "owner_id": ownerID}).Decode(&rule)
	if err != nil {
		return nil, notFound(err)
	}
	return &rule, nil
}

// UpdateRule replaces a rule. Baseline fields left nil are stored as null.
func (c *MongoRuleCollection) UpdateRule(ctx context.Context, ownerID, id string, rule models.MaintenanceRule) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	objectID, err := parseID(id)
	if err != nil {
		return err
	}

	rule.ID = objectID
	rule.OwnerID = ownerID
	if rule.UpdatedAt.IsZero() {
		rule.UpdatedAt = time.Now()
	}

	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID, "owner_id": ownerID}, rule)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func ruleOrder() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "interval_value", Value: 1}, {Key: "_id", Value: 1}})
}
