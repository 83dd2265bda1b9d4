// Package usage records usage readings against assets. Readings arrive over
// HTTP and MQTT and take the same path.
package usage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

// ErrInvalidValue is returned for readings that are not a positive number.
var ErrInvalidValue = errors.New("usage value must be a positive number")

// Reading is one usage increment for an asset.
type Reading struct {
	AssetID string
	Value   float64
	Date    *time.Time
	Notes   string
}

// Recorder appends usage events and advances the asset's usage counter.
type Recorder struct {
	assets db.AssetCollection
	events db.EventCollection
	now    func() time.Time
}

// NewRecorder creates a recorder over the given collections.
func NewRecorder(assets db.AssetCollection, events db.EventCollection) *Recorder {
	return &Recorder{assets: assets, events: events, now: time.Now}
}

// Record validates the reading, appends a UsageEvent in the asset's unit and
// increments the asset's current usage. It returns the updated asset and the
// stored event.
func (r *Recorder) Record(ctx context.Context, ownerID string, reading Reading) (*models.Asset, models.UsageEvent, error) {
	if math.IsNaN(reading.Value) || math.IsInf(reading.Value, 0) || reading.Value <= 0 {
		return nil, models.UsageEvent{}, ErrInvalidValue
	}

	asset, err := r.assets.FindAssetByID(ctx, ownerID, reading.AssetID)
	if err != nil {
		return nil, models.UsageEvent{}, fmt.Errorf("find asset: %w", err)
	}

	date := r.now().UTC()
	if reading.Date != nil && !reading.Date.IsZero() {
		date = reading.Date.UTC()
	}

	event := models.UsageEvent{
		ID:      primitive.NewObjectID(),
		AssetID: asset.ID,
		OwnerID: ownerID,
		Date:    date,
		Value:   reading.Value,
		Unit:    string(asset.UsageUnit),
		Notes:   reading.Notes,
	}
	if err := r.events.InsertUsage(ctx, event); err != nil {
		return nil, models.UsageEvent{}, fmt.Errorf("insert usage event: %w", err)
	}

	updated, err := r.assets.IncrementUsage(ctx, ownerID, reading.AssetID, reading.Value)
	if err != nil {
		return nil, models.UsageEvent{}, fmt.Errorf("increment usage: %w", err)
	}

	log.WithFields(log.Fields{
		"asset_id":      updated.ID.Hex(),
		"value":         reading.Value,
		"unit":          event.Unit,
		"current_usage": updated.CurrentUsage,
	}).Debug("Recorded usage")

	return updated, event, nil
}
