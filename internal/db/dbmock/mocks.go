// Package dbmock provides testify mocks of the db collection interfaces.
package dbmock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

var (
	_ db.AssetCollection = (*AssetCollection)(nil)
	_ db.RuleCollection  = (*RuleCollection)(nil)
	_ db.EventCollection = (*EventCollection)(nil)
	_ db.UserCollection  = (*UserCollection)(nil)
)

// AssetCollection is a mock implementation of db.AssetCollection
type AssetCollection struct {
	mock.Mock
}

func (m *AssetCollection) InsertAsset(ctx context.Context, asset models.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *AssetCollection) FindAssets(ctx context.Context, ownerID string, activeOnly bool) ([]models.Asset, error) {
	args := m.Called(ctx, ownerID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Asset), args.Error(1)
}

func (m *AssetCollection) FindAssetByID(ctx context.Context, ownerID, id string) (*models.Asset, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *AssetCollection) IncrementUsage(ctx context.Context, ownerID, id string, delta float64) (*models.Asset, error) {
	args := m.Called(ctx, ownerID, id, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *AssetCollection) SetActive(ctx context.Context, ownerID, id string, active bool) error {
	args := m.Called(ctx, ownerID, id, active)
	return args.Error(0)
}

// RuleCollection is a mock implementation of db.RuleCollection
type RuleCollection struct {
	mock.Mock
}

func (m *RuleCollection) InsertRule(ctx context.Context, rule models.MaintenanceRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *RuleCollection) InsertRules(ctx context.Context, rules []models.MaintenanceRule) error {
	args := m.Called(ctx, rules)
	return args.Error(0)
}

func (m *RuleCollection) FindRules(ctx context.Context, ownerID string) ([]models.MaintenanceRule, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenanceRule), args.Error(1)
}

func (m *RuleCollection) FindRulesByAsset(ctx context.Context, ownerID, assetID string) ([]models.MaintenanceRule, error) {
	args := m.Called(ctx, ownerID, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenanceRule), args.Error(1)
}

func (m *RuleCollection) FindRuleByID(ctx context.Context, ownerID, id string) (*models.MaintenanceRule, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceRule), args.Error(1)
}

func (m *RuleCollection) UpdateRule(ctx context.Context, ownerID, id string, rule models.MaintenanceRule) error {
	args := m.Called(ctx, ownerID, id, rule)
	return args.Error(0)
}

// EventCollection is a mock implementation of db.EventCollection
type EventCollection struct {
	mock.Mock
}

func (m *EventCollection) InsertUsage(ctx context.Context, event models.UsageEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *EventCollection) InsertMaintenance(ctx context.Context, event models.MaintenanceEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *EventCollection) InsertDowntime(ctx context.Context, event models.DowntimeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *EventCollection) FindUsage(ctx context.Context, q db.EventQuery) ([]models.UsageEvent, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UsageEvent), args.Error(1)
}

func (m *EventCollection) FindMaintenance(ctx context.Context, q db.EventQuery) ([]models.MaintenanceEvent, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenanceEvent), args.Error(1)
}

func (m *EventCollection) FindDowntime(ctx context.Context, q db.EventQuery) ([]models.DowntimeEvent, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DowntimeEvent), args.Error(1)
}

// UserCollection is a mock implementation of db.UserCollection
type UserCollection struct {
	mock.Mock
}

func (m *UserCollection) InsertUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
