package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/maintenance"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

// defaultCompletionCategory names the maintenance entry of a rule without a task.
const defaultCompletionCategory = "Maintenance"

// RuleHandler serves maintenance rules of one asset.
type RuleHandler struct {
	assets db.AssetCollection
	rules  db.RuleCollection
	events db.EventCollection
	now    func() time.Time
}

// NewRuleHandler creates a new rule handler
func NewRuleHandler(assets db.AssetCollection, rules db.RuleCollection, events db.EventCollection) *RuleHandler {
	return &RuleHandler{assets: assets, rules: rules, events: events, now: time.Now}
}

type ruleResponse struct {
	models.MaintenanceRule
	maintenance.RuleResult
}

type completeRequest struct {
	Cost  *float64 `json:"cost"`
	Notes string   `json:"notes"`
}

type completeResponse struct {
	Rule  ruleResponse            `json:"rule"`
	Event models.MaintenanceEvent `json:"event"`
}

// Create adds a rule to the asset
func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	asset, err := h.assets.FindAssetByID(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		storeError(w, r, err, "Asset")
		return
	}

	var req models.RuleRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if msg := validateRule(req); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	now := h.now().UTC()
	rule := models.MaintenanceRule{
		ID:        primitive.NewObjectID(),
		AssetID:   asset.ID,
		OwnerID:   owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyRuleRequest(&rule, req)

	if err := h.rules.InsertRule(r.Context(), rule); err != nil {
		storeError(w, r, err, "Rule")
		return
	}

	log.WithFields(log.Fields{
		"asset_id":     asset.ID.Hex(),
		"rule_id":      rule.ID.Hex(),
		"trigger_unit": rule.TriggerUnit,
	}).Info("Created maintenance rule")

	writeJSON(w, http.StatusCreated, h.respond(rule, asset.CurrentUsage))
}

// Update replaces the rule's task, trigger and baseline
func (h *RuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	asset, rule, ok := h.load(w, r, owner)
	if !ok {
		return
	}

	var req models.RuleRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if msg := validateRule(req); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	applyRuleRequest(rule, req)
	rule.UpdatedAt = h.now().UTC()

	if err := h.rules.UpdateRule(r.Context(), owner, rule.ID.Hex(), *rule); err != nil {
		storeError(w, r, err, "Rule")
		return
	}

	writeJSON(w, http.StatusOK, h.respond(*rule, asset.CurrentUsage))
}

// Complete marks the rule done now: the baseline moves to the asset's current
// usage, or today for calendar rules, and a maintenance entry is logged.
func (h *RuleHandler) Complete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	asset, rule, ok := h.load(w, r, owner)
	if !ok {
		return
	}

	var req completeRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Cost != nil && (!validNumber(*req.Cost) || *req.Cost < 0) {
		http.Error(w, "Cost must be a non-negative number", http.StatusBadRequest)
		return
	}

	now := h.now().UTC()
	done := maintenance.CompleteRule(*rule, asset.CurrentUsage, now)
	if err := h.rules.UpdateRule(r.Context(), owner, done.ID.Hex(), done); err != nil {
		storeError(w, r, err, "Rule")
		return
	}

	category := strings.TrimSpace(done.Task)
	if category == "" {
		category = defaultCompletionCategory
	}
	event := models.MaintenanceEvent{
		ID:       primitive.NewObjectID(),
		AssetID:  asset.ID,
		OwnerID:  owner,
		Date:     now,
		Category: category,
		Cost:     req.Cost,
		Notes:    strings.TrimSpace(req.Notes),
	}
	if err := h.events.InsertMaintenance(r.Context(), event); err != nil {
		storeError(w, r, err, "Event")
		return
	}

	log.WithFields(log.Fields{
		"asset_id": asset.ID.Hex(),
		"rule_id":  done.ID.Hex(),
	}).Info("Completed maintenance rule")

	writeJSON(w, http.StatusOK, completeResponse{
		Rule:  h.respond(done, asset.CurrentUsage),
		Event: event,
	})
}

// load resolves the asset and rule named in the path. A rule that belongs to
// a different asset is reported as missing.
func (h *RuleHandler) load(w http.ResponseWriter, r *http.Request, owner string) (*models.Asset, *models.MaintenanceRule, bool) {
	asset, err := h.assets.FindAssetByID(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		storeError(w, r, err, "Asset")
		return nil, nil, false
	}
	rule, err := h.rules.FindRuleByID(r.Context(), owner, r.PathValue("ruleId"))
	if err != nil {
		storeError(w, r, err, "Rule")
		return nil, nil, false
	}
	if rule.AssetID != asset.ID {
		http.Error(w, "Rule not found", http.StatusNotFound)
		return nil, nil, false
	}
	return asset, rule, true
}

func (h *RuleHandler) respond(rule models.MaintenanceRule, currentUsage float64) ruleResponse {
	return ruleResponse{
		MaintenanceRule: rule,
		RuleResult:      maintenance.ClassifyRule(rule, currentUsage, h.now()),
	}
}

func validateRule(req models.RuleRequest) string {
	switch {
	case !models.IsValidTriggerUnit(req.TriggerUnit):
		return "Invalid trigger unit"
	case !validNumber(req.IntervalValue) || req.IntervalValue <= 0:
		return "Interval must be a positive number"
	case req.LastCompletedValue != nil && (!validNumber(*req.LastCompletedValue) || *req.LastCompletedValue < 0):
		return "Last completed value must be a non-negative number"
	}
	return ""
}

func applyRuleRequest(rule *models.MaintenanceRule, req models.RuleRequest) {
	rule.Task = strings.TrimSpace(req.Task)
	rule.TriggerUnit = req.TriggerUnit
	rule.IntervalValue = req.IntervalValue
	rule.LastCompletedValue = req.LastCompletedValue
	rule.LastCompletedDate = nil
	if req.LastCompletedDate != nil && !req.LastCompletedDate.IsZero() {
		d := req.LastCompletedDate.UTC()
		rule.LastCompletedDate = &d
	}
	rule.NormalizeBaseline()
}
