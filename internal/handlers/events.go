package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/models"
	"github.com/ukydev/fleet-maintenance/internal/usage"
)

// UsageRecorder records usage readings. Implemented by usage.Recorder.
type UsageRecorder interface {
	Record(ctx context.Context, ownerID string, reading usage.Reading) (*models.Asset, models.UsageEvent, error)
}

// EventHandler appends usage, maintenance and downtime entries to an asset.
type EventHandler struct {
	assets   db.AssetCollection
	events   db.EventCollection
	recorder UsageRecorder
	now      func() time.Time
}

// NewEventHandler creates a new event handler
func NewEventHandler(assets db.AssetCollection, events db.EventCollection, recorder UsageRecorder) *EventHandler {
	return &EventHandler{assets: assets, events: events, recorder: recorder, now: time.Now}
}

type usageResponse struct {
	Asset models.Asset      `json:"asset"`
	Event models.UsageEvent `json:"event"`
}

// LogUsage adds usage to the asset and advances its usage counter
func (h *EventHandler) LogUsage(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req models.UsageRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	asset, event, err := h.recorder.Record(r.Context(), owner, usage.Reading{
		AssetID: r.PathValue("id"),
		Value:   req.Value,
		Date:    req.Date,
		Notes:   strings.TrimSpace(req.Notes),
	})
	if err != nil {
		if errors.Is(err, usage.ErrInvalidValue) {
			http.Error(w, "Usage value must be a positive number", http.StatusBadRequest)
			return
		}
		storeError(w, r, err, "Asset")
		return
	}

	writeJSON(w, http.StatusCreated, usageResponse{Asset: *asset, Event: event})
}

// LogMaintenance records maintenance work done outside of a rule
func (h *EventHandler) LogMaintenance(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	asset, err := h.assets.FindAssetByID(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		storeError(w, r, err, "Asset")
		return
	}

	var req models.MaintenanceRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	req.Category = strings.TrimSpace(req.Category)
	req.AttachmentURL = strings.TrimSpace(req.AttachmentURL)
	switch {
	case req.Category == "":
		http.Error(w, "Category is required", http.StatusBadRequest)
		return
	case req.Cost != nil && (!validNumber(*req.Cost) || *req.Cost < 0):
		http.Error(w, "Cost must be a non-negative number", http.StatusBadRequest)
		return
	case req.AttachmentURL != "" && !validAttachmentURL(req.AttachmentURL):
		http.Error(w, "Attachment URL must be an http(s) URL", http.StatusBadRequest)
		return
	}

	event := models.MaintenanceEvent{
		ID:            primitive.NewObjectID(),
		AssetID:       asset.ID,
		OwnerID:       owner,
		Date:          dateOr(req.Date, h.now().UTC()),
		Category:      req.Category,
		Cost:          req.Cost,
		Notes:         strings.TrimSpace(req.Notes),
		AttachmentURL: req.AttachmentURL,
	}
	if err := h.events.InsertMaintenance(r.Context(), event); err != nil {
		storeError(w, r, err, "Event")
		return
	}

	log.WithFields(log.Fields{"asset_id": asset.ID.Hex(), "category": event.Category}).Info("Logged maintenance")
	writeJSON(w, http.StatusCreated, event)
}

// LogDowntime records a period the asset was out of service. An entry
// without end_date stays open.
func (h *EventHandler) LogDowntime(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	asset, err := h.assets.FindAssetByID(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		storeError(w, r, err, "Asset")
		return
	}

	var req models.DowntimeRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	req.Reason = strings.TrimSpace(req.Reason)
	switch {
	case req.StartDate.IsZero():
		http.Error(w, "Start date is required", http.StatusBadRequest)
		return
	case req.EndDate != nil && req.EndDate.Before(req.StartDate):
		http.Error(w, "End date must not be before start date", http.StatusBadRequest)
		return
	case req.Reason == "":
		http.Error(w, "Reason is required", http.StatusBadRequest)
		return
	}

	event := models.DowntimeEvent{
		ID:        primitive.NewObjectID(),
		AssetID:   asset.ID,
		OwnerID:   owner,
		StartDate: req.StartDate.UTC(),
		Reason:    req.Reason,
		Notes:     strings.TrimSpace(req.Notes),
	}
	if req.EndDate != nil {
		end := req.EndDate.UTC()
		event.EndDate = &end
	}
	if err := h.events.InsertDowntime(r.Context(), event); err != nil {
		storeError(w, r, err, "Event")
		return
	}

	log.WithFields(log.Fields{"asset_id": asset.ID.Hex(), "open": event.IsOpen()}).Info("Logged downtime")
	writeJSON(w, http.StatusCreated, event)
}

func validAttachmentURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
