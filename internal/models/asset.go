package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssetType classifies a tracked asset.
type AssetType string

const (
	AssetMarine    AssetType = "marine"
	AssetVehicle   AssetType = "vehicle"
	AssetEquipment AssetType = "equipment"
	AssetOther     AssetType = "other"
)

// UsageUnit is the unit an asset accumulates usage in.
type UsageUnit string

const (
	UnitHours   UsageUnit = "hours"
	UnitMiles   UsageUnit = "miles"
	UnitRuntime UsageUnit = "runtime"
	UnitCycles  UsageUnit = "cycles"
)

// Asset represents a vessel, vehicle or piece of equipment owned by one account.
type Asset struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID      string             `bson:"owner_id" json:"owner_id"`
	Name         string             `bson:"name" json:"name"`
	Type         AssetType          `bson:"type" json:"type"`
	Identifier   string             `bson:"identifier,omitempty" json:"identifier,omitempty"` // hull number, VIN, serial
	CurrentUsage float64            `bson:"current_usage" json:"current_usage"`
	UsageUnit    UsageUnit          `bson:"usage_unit" json:"usage_unit"`
	IsActive     bool               `bson:"is_active" json:"is_active"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// CreateAssetRequest represents an asset creation request
type CreateAssetRequest struct {
	Name         string    `json:"name"`
	Type         AssetType `json:"type"`
	Identifier   string    `json:"identifier"`
	UsageUnit    UsageUnit `json:"usage_unit"`
	CurrentUsage float64   `json:"current_usage"`
	SeedTemplate bool      `json:"seed_template"`
}

// IsValidAssetType checks if an asset type is valid
func IsValidAssetType(t AssetType) bool {
	switch t {
	case AssetMarine, AssetVehicle, AssetEquipment, AssetOther:
		return true
	default:
		return false
	}
}

// IsValidUsageUnit checks if a usage unit is valid
func IsValidUsageUnit(u UsageUnit) bool {
	switch u {
	case UnitHours, UnitMiles, UnitRuntime, UnitCycles:
		return true
	default:
		return false
	}
}
