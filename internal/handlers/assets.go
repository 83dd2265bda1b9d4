package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/maintenance"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

// timelinePerKind is how many of the latest events of each kind the asset
// detail view merges.
const timelinePerKind = 20

// AssetHandler serves assets, their detail view and their timeline export.
type AssetHandler struct {
	assets db.AssetCollection
	rules  db.RuleCollection
	events db.EventCollection
	now    func() time.Time
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(assets db.AssetCollection, rules db.RuleCollection, events db.EventCollection) *AssetHandler {
	return &AssetHandler{assets: assets, rules: rules, events: events, now: time.Now}
}

type createAssetResponse struct {
	models.Asset
	Rules []models.MaintenanceRule `json:"rules,omitempty"`
}

type assetDetailResponse struct {
	Asset    maintenance.AssetView      `json:"asset"`
	Rules    []maintenance.RuleCard     `json:"rules"`
	Timeline []maintenance.TimelineItem `json:"timeline"`
}

// List returns the owner's assets with their maintenance status. Archived
// assets are included with ?include_archived=true.
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	includeArchived, _ := strconv.ParseBool(r.URL.Query().Get("include_archived"))

	assets, err := h.assets.FindAssets(r.Context(), owner, !includeArchived)
	if err != nil {
		storeError(w, r, err, "Asset")
		return
	}
	rules, err := h.rules.FindRules(r.Context(), owner)
	if err != nil {
		storeError(w, r, err, "Rule")
		return
	}

	writeJSON(w, http.StatusOK, maintenance.EvaluateAssets(assets, rules, h.now()))
}

// Create registers an asset and optionally seeds the starter rules for its type
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req models.CreateAssetRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	switch {
	case req.Name == "":
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	case !models.IsValidAssetType(req.Type):
		http.Error(w, "Invalid asset type", http.StatusBadRequest)
		return
	case !models.IsValidUsageUnit(req.UsageUnit):
		http.Error(w, "Invalid usage unit", http.StatusBadRequest)
		return
	case !validNumber(req.CurrentUsage) || req.CurrentUsage < 0:
		http.Error(w, "Current usage must be a non-negative number", http.StatusBadRequest)
		return
	}

	now := h.now().UTC()
	asset := models.Asset{
		ID:           primitive.NewObjectID(),
		OwnerID:      owner,
		Name:         req.Name,
		Type:         req.Type,
		Identifier:   strings.TrimSpace(req.Identifier),
		CurrentUsage: req.CurrentUsage,
		UsageUnit:    req.UsageUnit,
		IsActive:     true,
		CreatedAt:    now,
	}
	if err := h.assets.InsertAsset(r.Context(), asset); err != nil {
		storeError(w, r, err, "Asset")
		return
	}

	resp := createAssetResponse{Asset: asset}
	if req.SeedTemplate {
		rules := maintenance.TemplateRules(asset, now)
		for i := range rules {
			rules[i].ID = primitive.NewObjectID()
		}
		if err := h.rules.InsertRules(r.Context(), rules); err != nil {
			storeError(w, r, err, "Rule")
			return
		}
		resp.Rules = rules
	}

	log.WithFields(log.Fields{
		"asset_id":     asset.ID.Hex(),
		"type":         asset.Type,
		"seeded_rules": len(resp.Rules),
	}).Info("Created asset")

	writeJSON(w, http.StatusCreated, resp)
}

// Get returns the asset detail view: status, rule cards and a merged timeline
// of the latest events.
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	asset, err := h.assets.FindAssetByID(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		storeError(w, r, err, "Asset")
		return
	}
	rules, err := h.rules.FindRulesByAsset(r.Context(), owner, asset.ID.Hex())
	if err != nil {
		storeError(w, r, err, "Rule")
		return
	}
	events, err := loadEvents(r, h.events, db.EventQuery{OwnerID: owner, AssetID: asset.ID.Hex(), Limit: timelinePerKind})
	if err != nil {
		storeError(w, r, err, "Event")
		return
	}

	now := h.now()
	names := map[string]string{asset.ID.Hex(): asset.Name}
	writeJSON(w, http.StatusOK, assetDetailResponse{
		Asset: maintenance.AssetView{
			Asset:       *asset,
			AssetResult: maintenance.AggregateAsset(rules, asset.CurrentUsage, now),
		},
		Rules:    maintenance.RuleCards(*asset, rules, now),
		Timeline: maintenance.MergeTimeline(events, names, maintenance.Descending),
	})
}

// Archive hides an asset from the fleet views without deleting its history
func (h *AssetHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

// Restore brings an archived asset back
func (h *AssetHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *AssetHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if err := h.assets.SetActive(r.Context(), owner, id, active); err != nil {
		storeError(w, r, err, "Asset")
		return
	}
	log.WithFields(log.Fields{"asset_id": id, "active": active}).Info("Changed asset state")
	w.WriteHeader(http.StatusNoContent)
}

// Export streams the asset's full event history as CSV, oldest first
func (h *AssetHandler) Export(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	asset, err := h.assets.FindAssetByID(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		storeError(w, r, err, "Asset")
		return
	}
	events, err := loadEvents(r, h.events, db.EventQuery{OwnerID: owner, AssetID: asset.ID.Hex(), Ascending: true})
	if err != nil {
		storeError(w, r, err, "Event")
		return
	}

	csv := maintenance.ExportCSV(maintenance.BuildExportRows(*asset, events))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+maintenance.ExportFilename(asset.Name)+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csv)); err != nil {
		log.WithError(err).Warn("Failed to write export")
	}
}

// loadEvents runs the same query against every event log.
func loadEvents(r *http.Request, events db.EventCollection, q db.EventQuery) (maintenance.EventSet, error) {
	var set maintenance.EventSet
	var err error
	if set.Usage, err = events.FindUsage(r.Context(), q); err != nil {
		return set, err
	}
	if set.Maintenance, err = events.FindMaintenance(r.Context(), q); err != nil {
		return set, err
	}
	if set.Downtime, err = events.FindDowntime(r.Context(), q); err != nil {
		return set, err
	}
	return set, nil
}
