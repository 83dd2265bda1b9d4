package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UsageEvent records usage accumulated by an asset. Events are append-only.
type UsageEvent struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssetID primitive.ObjectID `bson:"asset_id" json:"asset_id"`
	OwnerID string             `bson:"owner_id" json:"owner_id"`
	Date    time.Time          `bson:"date" json:"date"`
	Value   float64            `bson:"value" json:"value"`
	Unit    string             `bson:"unit" json:"unit"`
	Notes   string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// MaintenanceEvent records maintenance work performed on an asset.
type MaintenanceEvent struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssetID       primitive.ObjectID `bson:"asset_id" json:"asset_id"`
	OwnerID       string             `bson:"owner_id" json:"owner_id"`
	Date          time.Time          `bson:"date" json:"date"`
	Category      string             `bson:"category" json:"category"`
	Cost          *float64           `bson:"cost,omitempty" json:"cost,omitempty"` // in USD
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	AttachmentURL string             `bson:"attachment_url,omitempty" json:"attachment_url,omitempty"`
}

// DowntimeEvent records a period an asset was out of service. A nil EndDate
// means the downtime is still open.
type DowntimeEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssetID   primitive.ObjectID `bson:"asset_id" json:"asset_id"`
	OwnerID   string             `bson:"owner_id" json:"owner_id"`
	StartDate time.Time          `bson:"start_date" json:"start_date"`
	EndDate   *time.Time         `bson:"end_date,omitempty" json:"end_date,omitempty"`
	Reason    string             `bson:"reason" json:"reason"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// IsOpen reports whether the downtime has no end yet.
func (d *DowntimeEvent) IsOpen() bool {
	return d.EndDate == nil
}

// UsageRequest represents a usage log request
type UsageRequest struct {
	Value float64    `json:"value"`
	Date  *time.Time `json:"date"`
	Notes string     `json:"notes"`
}

// MaintenanceRequest represents a maintenance log request
type MaintenanceRequest struct {
	Category      string     `json:"category"`
	Cost          *float64   `json:"cost"`
	Date          *time.Time `json:"date"`
	Notes         string     `json:"notes"`
	AttachmentURL string     `json:"attachment_url"`
}

// DowntimeRequest represents a downtime log request
type DowntimeRequest struct {
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Reason    string     `json:"reason"`
	Notes     string     `json:"notes"`
}
