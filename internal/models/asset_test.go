package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidAssetType(t *testing.T) {
	for _, at := range []AssetType{AssetMarine, AssetVehicle, AssetEquipment, AssetOther} {
		assert.True(t, IsValidAssetType(at), string(at))
	}
	assert.False(t, IsValidAssetType("aircraft"))
	assert.False(t, IsValidAssetType(""))
}

func TestIsValidTriggerUnit(t *testing.T) {
	tests := []struct {
		unit     TriggerUnit
		expected bool
	}{
		{"hours", true},
		{"miles", true},
		{"runtime", true},
		{"cycles", true},
		{TriggerDays, true},
		{"weeks", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.unit), func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidTriggerUnit(tt.unit))
		})
	}

	assert.False(t, IsValidUsageUnit(UsageUnit(TriggerDays)), "days is not an asset usage unit")
}

func TestMaintenanceRule_NormalizeBaseline(t *testing.T) {
	value := 120.0
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	calendar := MaintenanceRule{TriggerUnit: TriggerDays, LastCompletedValue: &value, LastCompletedDate: &date}
	calendar.NormalizeBaseline()
	assert.Nil(t, calendar.LastCompletedValue)
	assert.Equal(t, &date, calendar.LastCompletedDate)

	usage := MaintenanceRule{TriggerUnit: "hours", LastCompletedValue: &value, LastCompletedDate: &date}
	usage.NormalizeBaseline()
	assert.Nil(t, usage.LastCompletedDate)
	assert.Equal(t, &value, usage.LastCompletedValue)
}

func TestDowntimeEvent_IsOpen(t *testing.T) {
	end := time.Now()
	assert.True(t, (&DowntimeEvent{}).IsOpen())
	assert.False(t, (&DowntimeEvent{EndDate: &end}).IsOpen())
}
