package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/fleet-maintenance/internal/middleware"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

const testOwner = "65f000000000000000000001"

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// newRequest builds a request authenticated as testOwner. body is JSON encoded
// unless it is nil.
func newRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	claims := &models.Claims{UserID: testOwner, Username: "owner", Role: models.RoleManager}
	return req.WithContext(middleware.WithUser(req.Context(), claims))
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func testAsset(name string, usage float64) *models.Asset {
	return &models.Asset{
		ID:           primitive.NewObjectID(),
		OwnerID:      testOwner,
		Name:         name,
		Type:         models.AssetMarine,
		CurrentUsage: usage,
		UsageUnit:    models.UnitHours,
		IsActive:     true,
		CreatedAt:    testNow.Add(-30 * 24 * time.Hour),
	}
}

func usageRule(asset *models.Asset, interval, last float64) models.MaintenanceRule {
	return models.MaintenanceRule{
		ID:                 primitive.NewObjectID(),
		AssetID:            asset.ID,
		OwnerID:            testOwner,
		Task:               "Oil Change",
		TriggerUnit:        models.TriggerUnit(asset.UsageUnit),
		IntervalValue:      interval,
		LastCompletedValue: &last,
	}
}
