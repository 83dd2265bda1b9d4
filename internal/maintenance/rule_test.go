package maintenance

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

func TestClassifyRule_Calendar(t *testing.T) {
	last := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rule := calendarRule(1, 30, &last) // due 2024-01-31

	tests := []struct {
		name   string
		now    time.Time
		status RuleStatus
		label  string
	}{
		{"well ahead", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), RuleOK, "11 days"},
		{"exactly seven days left", time.Date(2024, 1, 24, 0, 0, 0, 0, time.UTC), RuleDueSoon, "7 days"},
		{"fractional days round up", time.Date(2024, 1, 25, 12, 0, 0, 0, time.UTC), RuleDueSoon, "6 days"},
		{"due right now", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), RuleOverdue, "Overdue"},
		{"past due", time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), RuleOverdue, "Overdue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyRule(rule, 0, tt.now)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.label, got.NextDueLabel)
		})
	}
}

func TestClassifyRule_CalendarWithoutBaseline(t *testing.T) {
	rule := calendarRule(1, 30, nil)
	for _, now := range []time.Time{time.Time{}, evalTime, evalTime.AddDate(50, 0, 0)} {
		got := ClassifyRule(rule, 1e9, now)
		assert.Equal(t, RuleBaseline, got.Status)
		assert.Equal(t, "Set baseline date", got.NextDueLabel)
	}

	rule.LastCompletedDate = timePtr(time.Time{})
	assert.Equal(t, RuleBaseline, ClassifyRule(rule, 0, evalTime).Status)
}

func TestClassifyRule_CalendarIgnoresUsageBaseline(t *testing.T) {
	rule := calendarRule(1, 30, nil)
	rule.LastCompletedValue = float(10)
	assert.Equal(t, RuleBaseline, ClassifyRule(rule, 500, evalTime).Status)
}

func TestClassifyRule_Usage(t *testing.T) {
	tests := []struct {
		name    string
		last    float64
		current float64
		status  RuleStatus
		label   string
	}{
		{"plenty remaining", 450, 500, RuleOK, "50 hours"},
		{"twenty remaining is still ok", 420, 500, RuleOK, "20 hours"},
		{"exactly ten percent remaining", 410, 500, RuleDueSoon, "10 hours"},
		{"under ten remaining shows one decimal", 405, 500, RuleDueSoon, "5.0 hours"},
		{"fractional remaining", 450, 547.5, RuleDueSoon, "2.5 hours"},
		{"exactly due", 400, 500, RuleOverdue, "Overdue"},
		{"past due", 350, 500, RuleOverdue, "Overdue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyRule(usageRule(1, "hours", 100, float(tt.last)), tt.current, evalTime)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.label, got.NextDueLabel)
		})
	}
}

func TestClassifyRule_UsageOverdueIffDueAtReached(t *testing.T) {
	for _, current := range []float64{0, 99.9, 100, 100.1, 250} {
		got := ClassifyRule(usageRule(1, "miles", 60, float(40)), current, evalTime)
		assert.Equal(t, 40+60 <= current, got.Status == RuleOverdue, "current=%v", current)
	}
}

func TestClassifyRule_UsageWithoutBaseline(t *testing.T) {
	got := ClassifyRule(usageRule(1, "cycles", 100, nil), 500, evalTime)
	assert.Equal(t, RuleBaseline, got.Status)
	assert.Equal(t, "Set baseline cycles", got.NextDueLabel)
}

func TestClassifyRule_NonFiniteInputs(t *testing.T) {
	got := ClassifyRule(usageRule(1, "hours", math.NaN(), float(450)), 500, evalTime)
	assert.Equal(t, RuleOverdue, got.Status)

	got = ClassifyRule(usageRule(1, "hours", 100, float(0)), math.NaN(), evalTime)
	assert.Equal(t, RuleOK, got.Status)
	assert.Equal(t, "100 hours", got.NextDueLabel)

	got = ClassifyRule(usageRule(1, "hours", 100, float(math.Inf(1))), 50, evalTime)
	assert.Equal(t, RuleOK, got.Status)
	assert.Equal(t, "50 hours", got.NextDueLabel)

	last := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	got = ClassifyRule(calendarRule(1, math.Inf(1), &last), 0, evalTime)
	assert.Equal(t, RuleOverdue, got.Status, "infinite interval is treated as zero days")
}

func TestCompleteRule(t *testing.T) {
	t.Run("usage rule takes current usage", func(t *testing.T) {
		rule := usageRule(1, "hours", 100, float(300))
		done := CompleteRule(rule, 512.5, evalTime)

		require.NotNil(t, done.LastCompletedValue)
		assert.Equal(t, 512.5, *done.LastCompletedValue)
		assert.Nil(t, done.LastCompletedDate)
		assert.Equal(t, evalTime, done.UpdatedAt)
		assert.Equal(t, 300.0, *rule.LastCompletedValue, "input rule is not modified")
		assert.Equal(t, RuleOK, ClassifyRule(done, 512.5, evalTime).Status)
	})

	t.Run("calendar rule takes now", func(t *testing.T) {
		rule := calendarRule(1, 90, nil)
		rule.LastCompletedValue = float(7)
		done := CompleteRule(rule, 512.5, evalTime)

		require.NotNil(t, done.LastCompletedDate)
		assert.Equal(t, evalTime, *done.LastCompletedDate)
		assert.Nil(t, done.LastCompletedValue)
		assert.Equal(t, "90 days", ClassifyRule(done, 0, evalTime).NextDueLabel)
	})
}

func TestClassifyRule_EndToEnd(t *testing.T) {
	asset := models.Asset{ID: oid(100), CurrentUsage: 500, UsageUnit: models.UnitHours}
	rule := usageRule(1, "hours", 100, float(450))
	rule.AssetID = asset.ID

	got := ClassifyRule(rule, asset.CurrentUsage, evalTime)
	assert.Equal(t, RuleResult{Status: RuleOK, NextDueLabel: "50 hours"}, got)
}
