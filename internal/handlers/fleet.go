package handlers

import (
	"net/http"
	"time"

	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/maintenance"
	"github.com/ukydev/fleet-maintenance/internal/metrics"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

const (
	dashboardPreviewSize   = 4
	dashboardAttentionSize = 5
)

// FleetHandler serves the fleet-wide views: alerts and the dashboard.
type FleetHandler struct {
	assets         db.AssetCollection
	rules          db.RuleCollection
	events         db.EventCollection
	recentActivity int
	now            func() time.Time
}

// NewFleetHandler creates a new fleet handler. recentActivity bounds the
// dashboard activity list.
func NewFleetHandler(assets db.AssetCollection, rules db.RuleCollection, events db.EventCollection, recentActivity int) *FleetHandler {
	return &FleetHandler{
		assets:         assets,
		rules:          rules,
		events:         events,
		recentActivity: recentActivity,
		now:            time.Now,
	}
}

// Dashboard is the fleet overview.
type Dashboard struct {
	Summary        maintenance.FleetSummary   `json:"summary"`
	AssetPreview   []maintenance.AssetView    `json:"asset_preview"`
	Attention      []maintenance.Alert        `json:"attention"`
	RecentActivity []maintenance.TimelineItem `json:"recent_activity"`
}

// Alerts returns the alert feed of the active fleet
func (h *FleetHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	assets, err := h.assets.FindAssets(r.Context(), owner, true)
	if err != nil {
		storeError(w, r, err, "Asset")
		return
	}
	rules, err := h.rules.FindRules(r.Context(), owner)
	if err != nil {
		storeError(w, r, err, "Rule")
		return
	}

	writeJSON(w, http.StatusOK, alertFeed(assets, rules, h.now()))
}

// Dashboard returns fleet totals, the health score, an asset preview, the
// attention list and recent activity.
func (h *FleetHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	all, err := h.assets.FindAssets(r.Context(), owner, false)
	if err != nil {
		storeError(w, r, err, "Asset")
		return
	}
	rules, err := h.rules.FindRules(r.Context(), owner)
	if err != nil {
		storeError(w, r, err, "Rule")
		return
	}
	events, err := loadEvents(r, h.events, db.EventQuery{OwnerID: owner, Limit: int64(h.recentActivity)})
	if err != nil {
		storeError(w, r, err, "Event")
		return
	}

	// Archived assets still name their past activity
	names := make(map[string]string, len(all))
	active := make([]models.Asset, 0, len(all))
	for _, a := range all {
		names[a.ID.Hex()] = a.Name
		if a.IsActive {
			active = append(active, a)
		}
	}

	now := h.now()
	feed := alertFeed(active, rules, now)
	writeJSON(w, http.StatusOK, Dashboard{
		Summary:        maintenance.SummarizeFleet(len(active), feed),
		AssetPreview:   maintenance.PreviewAssets(maintenance.EvaluateAssets(active, rules, now), dashboardPreviewSize),
		Attention:      feed.Attention(dashboardAttentionSize),
		RecentActivity: maintenance.RecentActivity(events, names, h.recentActivity),
	})
}

// alertFeed builds the feed and publishes its counts as metrics.
func alertFeed(assets []models.Asset, rules []models.MaintenanceRule, now time.Time) maintenance.AlertFeed {
	feed := maintenance.BuildAlerts(assets, rules, now)
	metrics.SetAlertCounts(len(feed.Overdue), len(feed.DueSoon))
	return feed
}
