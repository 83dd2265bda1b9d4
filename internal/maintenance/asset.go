package maintenance

import (
	"slices"
	"time"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

// AssetResult is the aggregated status of one asset.
type AssetResult struct {
	Status       AssetStatus `json:"status"`
	NextDueLabel string      `json:"next_due_label"`
}

// AggregateAsset reduces the rules of one asset to a single status and label.
// The most urgent rule wins; among equally urgent rules the first one in
// rules wins.
func AggregateAsset(rules []models.MaintenanceRule, currentUsage float64, now time.Time) AssetResult {
	if len(rules) == 0 {
		return AssetResult{Status: AssetOK, NextDueLabel: "No rules"}
	}

	top := ClassifyRule(rules[0], currentUsage, now)
	for _, rule := range rules[1:] {
		r := ClassifyRule(rule, currentUsage, now)
		// strictly greater keeps the earlier rule on ties
		if r.Status.Rank() > top.Status.Rank() {
			top = r
		}
	}

	return AssetResult{Status: top.Status.AssetStatus(), NextDueLabel: top.NextDueLabel}
}

// AssetView is an asset together with its aggregated status.
type AssetView struct {
	models.Asset
	AssetResult
}

// EvaluateAssets aggregates every asset against the rules attached to it.
// Rules keep their relative order from rules.
func EvaluateAssets(assets []models.Asset, rules []models.MaintenanceRule, now time.Time) []AssetView {
	byAsset := make(map[string][]models.MaintenanceRule, len(assets))
	for _, rule := range rules {
		key := rule.AssetID.Hex()
		byAsset[key] = append(byAsset[key], rule)
	}

	views := make([]AssetView, 0, len(assets))
	for _, asset := range assets {
		views = append(views, AssetView{
			Asset:       asset,
			AssetResult: AggregateAsset(byAsset[asset.ID.Hex()], asset.CurrentUsage, now),
		})
	}
	return views
}

// PreviewAssets returns up to limit assets, most urgent first and then by name.
// A limit <= 0 returns all of them.
func PreviewAssets(views []AssetView, limit int) []AssetView {
	sorted := slices.Clone(views)
	c := newTitleCollator()
	slices.SortStableFunc(sorted, func(a, b AssetView) int {
		if d := a.Status.Rank() - b.Status.Rank(); d != 0 {
			return d
		}
		return c.CompareString(a.Name, b.Name)
	})
	return head(sorted, limit)
}

// RuleCard is a rule as shown on the asset detail page.
type RuleCard struct {
	RuleID        string             `json:"id"`
	Task          string             `json:"task,omitempty"`
	TriggerUnit   models.TriggerUnit `json:"trigger_unit"`
	IntervalValue float64            `json:"interval_value"`
	LastCompleted string             `json:"last_completed"`
	RuleResult
}

// RuleCards classifies every rule of one asset.
func RuleCards(asset models.Asset, rules []models.MaintenanceRule, now time.Time) []RuleCard {
	cards := make([]RuleCard, 0, len(rules))
	for _, rule := range rules {
		cards = append(cards, RuleCard{
			RuleID:        rule.ID.Hex(),
			Task:          rule.Task,
			TriggerUnit:   rule.TriggerUnit,
			IntervalValue: finite(rule.IntervalValue),
			LastCompleted: lastCompletedLabel(rule),
			RuleResult:    ClassifyRule(rule, asset.CurrentUsage, now),
		})
	}
	return cards
}

func head[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
