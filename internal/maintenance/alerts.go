package maintenance

import (
	"slices"
	"time"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

// Alert is a rule that needs attention.
type Alert struct {
	ID       string        `json:"id"`
	AssetID  string        `json:"asset_id"`
	RuleID   string        `json:"rule_id"`
	Title    string        `json:"title"`
	Detail   string        `json:"detail"`
	Severity AlertSeverity `json:"severity"`
}

// AlertFeed is the alert list of an account, ordered by title, and its
// partitions by severity.
type AlertFeed struct {
	Alerts  []Alert `json:"alerts"`
	Overdue []Alert `json:"overdue"`
	DueSoon []Alert `json:"due_soon"`
}

// BuildAlerts classifies every rule against its asset and keeps those that
// raise an alert. Rules whose asset is not in assets are skipped.
func BuildAlerts(assets []models.Asset, rules []models.MaintenanceRule, now time.Time) AlertFeed {
	byID := make(map[string]models.Asset, len(assets))
	for _, asset := range assets {
		byID[asset.ID.Hex()] = asset
	}

	alerts := make([]Alert, 0)
	for _, rule := range rules {
		asset, ok := byID[rule.AssetID.Hex()]
		if !ok {
			continue
		}
		result := ClassifyRule(rule, asset.CurrentUsage, now)
		severity := result.Status.Severity()
		if severity == SeverityNone {
			continue
		}
		alerts = append(alerts, Alert{
			ID:       rule.ID.Hex() + "-" + string(severity),
			AssetID:  asset.ID.Hex(),
			RuleID:   rule.ID.Hex(),
			Title:    asset.Name,
			Detail:   formatInterval(rule.IntervalValue, rule.TriggerUnit) + bullet + result.NextDueLabel,
			Severity: severity,
		})
	}

	c := newTitleCollator()
	slices.SortStableFunc(alerts, func(a, b Alert) int {
		return c.CompareString(a.Title, b.Title)
	})

	feed := AlertFeed{Alerts: alerts, Overdue: []Alert{}, DueSoon: []Alert{}}
	for _, alert := range alerts {
		switch alert.Severity {
		case SeverityOverdue:
			feed.Overdue = append(feed.Overdue, alert)
		case SeverityDueSoon:
			feed.DueSoon = append(feed.DueSoon, alert)
		}
	}
	return feed
}

// Attention returns overdue alerts followed by due-soon alerts, at most limit
// of them. A limit <= 0 returns all of them.
func (f AlertFeed) Attention(limit int) []Alert {
	out := make([]Alert, 0, len(f.Overdue)+len(f.DueSoon))
	out = append(out, f.Overdue...)
	out = append(out, f.DueSoon...)
	return head(out, limit)
}

// OverdueAssetCount is the number of distinct assets with an overdue alert.
func (f AlertFeed) OverdueAssetCount() int {
	return len(assetIDs(f.Overdue))
}

// DueSoonAssetCount is the number of distinct assets with a due-soon alert
// and no overdue alert.
func (f AlertFeed) DueSoonAssetCount() int {
	overdue := assetIDs(f.Overdue)
	n := 0
	for id := range assetIDs(f.DueSoon) {
		if _, ok := overdue[id]; !ok {
			n++
		}
	}
	return n
}

func assetIDs(alerts []Alert) map[string]struct{} {
	ids := make(map[string]struct{}, len(alerts))
	for _, a := range alerts {
		ids[a.AssetID] = struct{}{}
	}
	return ids
}
