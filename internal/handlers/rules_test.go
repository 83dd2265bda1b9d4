package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/db/dbmock"
	"github.com/ukydev/fleet-maintenance/internal/maintenance"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

func newRuleHandler() (*RuleHandler, assetMocks) {
	m := assetMocks{
		assets: new(dbmock.AssetCollection),
		rules:  new(dbmock.RuleCollection),
		events: new(dbmock.EventCollection),
	}
	h := NewRuleHandler(m.assets, m.rules, m.events)
	h.now = fixedNow
	return h, m
}

func ruleRequest(t *testing.T, method, assetID, ruleID, suffix string, body interface{}) *http.Request {
	t.Helper()
	target := "/api/assets/" + assetID + "/rules"
	if ruleID != "" {
		target += "/" + ruleID + suffix
	}
	req := newRequest(t, method, target, body)
	req.SetPathValue("id", assetID)
	if ruleID != "" {
		req.SetPathValue("ruleId", ruleID)
	}
	return req
}

func TestRuleHandler_Create(t *testing.T) {
	t.Run("calendar rule keeps only the date baseline", func(t *testing.T) {
		handler, m := newRuleHandler()
		boat := testAsset("Sea Breeze", 120)
		value := 50.0
		last := testNow.Add(-10 * 24 * time.Hour)

		m.assets.On("FindAssetByID", mock.Anything, testOwner, boat.ID.Hex()).Return(boat, nil)
		m.rules.On("InsertRule", mock.Anything, mock.MatchedBy(func(r models.MaintenanceRule) bool {
			return r.AssetID == boat.ID && r.OwnerID == testOwner && r.Task == "Hull Inspection" &&
				r.LastCompletedValue == nil && r.LastCompletedDate != nil && r.LastCompletedDate.Equal(last)
		})).Return(nil)

		w := httptest.NewRecorder()
		handler.Create(w, ruleRequest(t, "POST", boat.ID.Hex(), "", "", models.RuleRequest{
			Task:               " Hull Inspection ",
			TriggerUnit:        models.TriggerDays,
			IntervalValue:      14,
			LastCompletedValue: &value,
			LastCompletedDate:  &last,
		}))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := decodeBody[ruleResponse](t, w)
		assert.Equal(t, maintenance.RuleDueSoon, resp.Status)
		assert.Equal(t, "4 days", resp.NextDueLabel)
		assert.Nil(t, resp.LastCompletedValue)
		m.rules.AssertExpectations(t)
	})

	t.Run("usage rule without baseline", func(t *testing.T) {
		handler, m := newRuleHandler()
		boat := testAsset("Sea Breeze", 120)
		last := testNow

		m.assets.On("FindAssetByID", mock.Anything, testOwner, boat.ID.Hex()).Return(boat, nil)
		m.rules.On("InsertRule", mock.Anything, mock.MatchedBy(func(r models.MaintenanceRule) bool {
			return r.LastCompletedValue == nil && r.LastCompletedDate == nil
		})).Return(nil)

		w := httptest.NewRecorder()
		handler.Create(w, ruleRequest(t, "POST", boat.ID.Hex(), "", "", models.RuleRequest{
			TriggerUnit:       "hours",
			IntervalValue:     100,
			LastCompletedDate: &last,
		}))

		require.Equal(t, http.StatusCreated, w.Code)
		resp := decodeBody[ruleResponse](t, w)
		assert.Equal(t, maintenance.RuleBaseline, resp.Status)
		assert.Equal(t, "Set baseline hours", resp.NextDueLabel)
	})

	negative := -1.0
	tests := []struct {
		name string
		req  models.RuleRequest
	}{
		{"unknown trigger", models.RuleRequest{TriggerUnit: "weeks", IntervalValue: 1}},
		{"zero interval", models.RuleRequest{TriggerUnit: "hours"}},
		{"negative interval", models.RuleRequest{TriggerUnit: "hours", IntervalValue: -5}},
		{"negative baseline", models.RuleRequest{TriggerUnit: "hours", IntervalValue: 5, LastCompletedValue: &negative}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, m := newRuleHandler()
			boat := testAsset("Sea Breeze", 0)
			m.assets.On("FindAssetByID", mock.Anything, testOwner, boat.ID.Hex()).Return(boat, nil)

			w := httptest.NewRecorder()
			handler.Create(w, ruleRequest(t, "POST", boat.ID.Hex(), "", "", tt.req))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			m.rules.AssertNotCalled(t, "InsertRule", mock.Anything, mock.Anything)
		})
	}

	t.Run("unknown asset", func(t *testing.T) {
		handler, m := newRuleHandler()
		id := primitive.NewObjectID().Hex()
		m.assets.On("FindAssetByID", mock.Anything, testOwner, id).Return(nil, db.ErrNotFound)

		w := httptest.NewRecorder()
		handler.Create(w, ruleRequest(t, "POST", id, "", "", models.RuleRequest{TriggerUnit: "hours", IntervalValue: 5}))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRuleHandler_Update(t *testing.T) {
	t.Run("switching to calendar drops the usage baseline", func(t *testing.T) {
		handler, m := newRuleHandler()
		boat := testAsset("Sea Breeze", 120)
		rule := usageRule(boat, 100, 50)
		last := testNow.Add(-60 * 24 * time.Hour)

		m.assets.On("FindAssetByID", mock.Anything, testOwner, boat.ID.Hex()).Return(boat, nil)
		m.rules.On("FindRuleByID", mock.Anything, testOwner, rule.ID.Hex()).Return(&rule, nil)
		m.rules.On("UpdateRule", mock.Anything, testOwner, rule.ID.Hex(), mock.MatchedBy(func(r models.MaintenanceRule) bool {
			return r.TriggerUnit == models.TriggerDays && r.LastCompletedValue == nil &&
				r.LastCompletedDate != nil && r.UpdatedAt.Equal(testNow)
		})).Return(nil)

		w := httptest.NewRecorder()
		handler.Update(w, ruleRequest(t, "PUT", boat.ID.Hex(), rule.ID.Hex(), "", models.RuleRequest{
			Task:               "Oil Change",
			TriggerUnit:        models.TriggerDays,
			IntervalValue:      30,
			LastCompletedValue: rule.LastCompletedValue,
			LastCompletedDate:  &last,
		}))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, maintenance.RuleOverdue, decodeBody[ruleResponse](t, w).Status)
		m.rules.AssertExpectations(t)
	})

	t.Run("rule of another asset", func(t *testing.T) {
		handler, m := newRuleHandler()
		boat := testAsset("Sea Breeze", 120)
		other := testAsset("Other", 0)
		rule := usageRule(other, 100, 0)

		m.assets.On("FindAssetByID", mock.Anything, testOwner, boat.ID.Hex()).Return(boat, nil)
		m.rules.On("FindRuleByID", mock.Anything, testOwner, rule.ID.Hex()).Return(&rule, nil)

		w := httptest.NewRecorder()
		handler.Update(w, ruleRequest(t, "PUT", boat.ID.Hex(), rule.ID.Hex(), "", models.RuleRequest{TriggerUnit: "hours", IntervalValue: 5}))

		assert.Equal(t, http.StatusNotFound, w.Code)
		m.rules.AssertNotCalled(t, "UpdateRule", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRuleHandler_Complete(t *testing.T) {
	t.Run("usage rule resets to current usage", func(t *testing.T) {
		handler, m := newRuleHandler()
		boat := testAsset("Sea Breeze", 120)
		rule := usageRule(boat, 100, 0)
		cost := 80.0

		m.assets.On("FindAssetByID", mock.Anything, testOwner, boat.ID.Hex()).Return(boat, nil)
		m.rules.On("FindRuleByID", mock.Anything, testOwner, rule.ID.Hex()).Return(&rule, nil)
		m.rules.On("UpdateRule", mock.Anything, testOwner, rule.ID.Hex(), mock.MatchedBy(func(r models.MaintenanceRule) bool {
			return r.LastCompletedValue != nil && *r.LastCompletedValue == 120 && r.LastCompletedDate == nil
		})).Return(nil)
		m.events.On("InsertMaintenance", mock.Anything, mock.MatchedBy(func(e models.MaintenanceEvent) bool {
			return e.AssetID == boat.ID && e.Category == "Oil Change" && e.Date.Equal(testNow) &&
				e.Cost != nil && *e.Cost == 80 && e.Notes == "synthetic"
		})).Return(nil)

		w := httptest.NewRecorder()
		handler.Complete(w, ruleRequest(t, "POST", boat.ID.Hex(), rule.ID.Hex(), "/complete", completeRequest{Cost: &cost, Notes: "synthetic"}))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeBody[completeResponse](t, w)
		assert.Equal(t, maintenance.RuleOK, resp.Rule.Status)
		assert.Equal(t, "100 hours", resp.Rule.NextDueLabel)
		assert.Equal(t, "Oil Change", resp.Event.Category)
		m.rules.AssertExpectations(t)
		m.events.AssertExpectations(t)
	})

	t.Run("calendar rule without task and without body", func(t *testing.T) {
		handler, m := newRuleHandler()
		boat := testAsset("Compressor", 0)
		rule := models.MaintenanceRule{ID: primitive.NewObjectID(), AssetID: boat.ID, OwnerID: testOwner, TriggerUnit: models.TriggerDays, IntervalValue: 30}

		m.assets.On("FindAssetByID", mock.Anything, testOwner, boat.ID.Hex()).Return(boat, nil)
		m.rules.On("FindRuleByID", mock.Anything, testOwner, rule.ID.Hex()).Return(&rule, nil)
		m.rules.On("UpdateRule", mock.Anything, testOwner, rule.ID.Hex(), mock.MatchedBy(func(r models.MaintenanceRule) bool {
			return r.LastCompletedDate != nil && r.LastCompletedDate.Equal(testNow) && r.LastCompletedValue == nil
		})).Return(nil)
		m.events.On("InsertMaintenance", mock.Anything, mock.MatchedBy(func(e models.MaintenanceEvent) bool {
			return e.Category == defaultCompletionCategory && e.Cost == nil
		})).Return(nil)

		w := httptest.NewRecorder()
		handler.Complete(w, ruleRequest(t, "POST", boat.ID.Hex(), rule.ID.Hex(), "/complete", nil))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "30 days", decodeBody[completeResponse](t, w).Rule.NextDueLabel)
		m.events.AssertExpectations(t)
	})

	t.Run("negative cost", func(t *testing.T) {
		handler, m := newRuleHandler()
		boat := testAsset("Sea Breeze", 120)
		rule := usageRule(boat, 100, 0)
		cost := -2.0

		m.assets.On("FindAssetByID", mock.Anything, testOwner, boat.ID.Hex()).Return(boat, nil)
		m.rules.On("FindRuleByID", mock.Anything, testOwner, rule.ID.Hex()).Return(&rule, nil)

		w := httptest.NewRecorder()
		handler.Complete(w, ruleRequest(t, "POST", boat.ID.Hex(), rule.ID.Hex(), "/complete", completeRequest{Cost: &cost}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.rules.AssertNotCalled(t, "UpdateRule", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
