package db

import (
	"context"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

// AssetCollection defines the interface for asset data operations. Every
// lookup is scoped to the owning account.
type AssetCollection interface {
	InsertAsset(ctx context.Context, asset models.Asset) error
	FindAssets(ctx context.Context, ownerID string, activeOnly bool) ([]models.Asset, error)
	FindAssetByID(ctx context.Context, ownerID, id string) (*models.Asset, error)
	IncrementUsage(ctx context.Context, ownerID, id string, delta float64) (*models.Asset, error)
	SetActive(ctx context.Context, ownerID, id string, active bool) error
}

// RuleCollection defines the interface for maintenance rule operations.
type RuleCollection interface {
	InsertRule(ctx context.Context, rule models.MaintenanceRule) error
	InsertRules(ctx context.Context, rules []models.MaintenanceRule) error
	FindRules(ctx context.Context, ownerID string) ([]models.MaintenanceRule, error)
	FindRulesByAsset(ctx context.Context, ownerID, assetID string) ([]models.MaintenanceRule, error)
	FindRuleByID(ctx context.Context, ownerID, id string) (*models.MaintenanceRule, error)
	UpdateRule(ctx context.Context, ownerID, id string, rule models.MaintenanceRule) error
}

// EventQuery selects events of one account. A zero AssetID matches every
// asset, a zero Limit returns everything.
type EventQuery struct {
	OwnerID   string
	AssetID   string
	Limit     int64
	Ascending bool
}

// EventCollection defines the interface for the append-only event logs.
type EventCollection interface {
	InsertUsage(ctx context.Context, event models.UsageEvent) error
	InsertMaintenance(ctx context.Context, event models.MaintenanceEvent) error
	InsertDowntime(ctx context.Context, event models.DowntimeEvent) error
	FindUsage(ctx context.Context, q EventQuery) ([]models.UsageEvent, error)
	FindMaintenance(ctx context.Context, q EventQuery) ([]models.MaintenanceEvent, error)
	FindDowntime(ctx context.Context, q EventQuery) ([]models.DowntimeEvent, error)
}
