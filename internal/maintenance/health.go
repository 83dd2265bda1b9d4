package maintenance

import "math"

// HealthScore scores a fleet from 0 to 100. Each asset with an overdue rule
// weighs 2 and each asset that is only due soon weighs 1, against a maximum
// of 2 per asset. An empty fleet scores 100.
func HealthScore(totalAssets, overdueAssets, dueSoonAssets int) int {
	if totalAssets == 0 {
		return 100
	}
	weighted := float64(overdueAssets*2 + dueSoonAssets)
	maxWeight := math.Max(float64(totalAssets*2), 1)
	ratio := math.Min(weighted/maxWeight, 1)
	score := math.Round((1 - ratio) * 100)
	return int(math.Max(0, math.Min(100, score)))
}

// FleetSummary holds the headline numbers of the dashboard.
type FleetSummary struct {
	TotalAssets   int `json:"total_assets"`
	OverdueAssets int `json:"overdue_assets"`
	DueSoonAssets int `json:"due_soon_assets"`
	HealthScore   int `json:"health_score"`
}

// SummarizeFleet derives the fleet summary from an alert feed.
func SummarizeFleet(totalAssets int, feed AlertFeed) FleetSummary {
	overdue := feed.OverdueAssetCount()
	dueSoon := feed.DueSoonAssetCount()
	return FleetSummary{
		TotalAssets:   totalAssets,
		OverdueAssets: overdue,
		DueSoonAssets: dueSoon,
		HealthScore:   HealthScore(totalAssets, overdue, dueSoon),
	}
}
