package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TriggerUnit is what drives a maintenance rule: one of the usage units or
// calendar days.
type TriggerUnit string

// TriggerDays marks a calendar-driven rule.
const TriggerDays TriggerUnit = "days"

// MaintenanceRule is a recurring maintenance obligation attached to one asset.
// Calendar rules only use LastCompletedDate, usage rules only LastCompletedValue.
// A nil baseline means the rule has not been measured yet.
type MaintenanceRule struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssetID            primitive.ObjectID `bson:"asset_id" json:"asset_id"`
	OwnerID            string             `bson:"owner_id" json:"owner_id"`
	Task               string             `bson:"task,omitempty" json:"task,omitempty"` // "Oil Change", "Hull Inspection"
	TriggerUnit        TriggerUnit        `bson:"trigger_unit" json:"trigger_unit"`
	IntervalValue      float64            `bson:"interval_value" json:"interval_value"`
	LastCompletedValue *float64           `bson:"last_completed_value" json:"last_completed_value"`
	LastCompletedDate  *time.Time         `bson:"last_completed_date" json:"last_completed_date"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

// RuleRequest represents a rule create or update request
type RuleRequest struct {
	Task               string      `json:"task"`
	TriggerUnit        TriggerUnit `json:"trigger_unit"`
	IntervalValue      float64     `json:"interval_value"`
	LastCompletedValue *float64    `json:"last_completed_value"`
	LastCompletedDate  *time.Time  `json:"last_completed_date"`
}

// IsCalendar reports whether the rule is driven by elapsed days.
func (r *MaintenanceRule) IsCalendar() bool {
	return r.TriggerUnit == TriggerDays
}

// NormalizeBaseline clears the baseline field that does not apply to the
// rule's trigger unit.
func (r *MaintenanceRule) NormalizeBaseline() {
	if r.IsCalendar() {
		r.LastCompletedValue = nil
		return
	}
	r.LastCompletedDate = nil
}

// IsValidTriggerUnit checks if a trigger unit is a usage unit or days
func IsValidTriggerUnit(u TriggerUnit) bool {
	return u == TriggerDays || IsValidUsageUnit(UsageUnit(u))
}
