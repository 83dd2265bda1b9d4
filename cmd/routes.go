package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ukydev/fleet-maintenance/internal/auth"
	"github.com/ukydev/fleet-maintenance/internal/config"
	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/handlers"
	"github.com/ukydev/fleet-maintenance/internal/metrics"
	"github.com/ukydev/fleet-maintenance/internal/middleware"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

// collections are the stores the API is served from.
type collections struct {
	assets db.AssetCollection
	rules  db.RuleCollection
	events db.EventCollection
	users  db.UserCollection
}

// newHandler registers every route and wraps the mux in logging, rate
// limiting and authentication, outermost first.
func newHandler(cfg config.Config, authService *auth.Service, c collections, recorder handlers.UsageRecorder) http.Handler {
	authMiddleware := middleware.NewAuthMiddleware(authService)
	allow := func(action string, h http.HandlerFunc) http.Handler {
		return authMiddleware.RequirePermission(action)(h)
	}

	authHandler := handlers.NewAuthHandler(authService, c.users)
	assetHandler := handlers.NewAssetHandler(c.assets, c.rules, c.events)
	ruleHandler := handlers.NewRuleHandler(c.assets, c.rules, c.events)
	eventHandler := handlers.NewEventHandler(c.assets, c.events, recorder)
	fleetHandler := handlers.NewFleetHandler(c.assets, c.rules, c.events, cfg.RecentActivityLimit)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/auth/profile", authHandler.GetProfile)

	mux.Handle("GET /api/assets", allow(models.ActionViewAssets, assetHandler.List))
	mux.Handle("POST /api/assets", allow(models.ActionManageAssets, assetHandler.Create))
	mux.Handle("GET /api/assets/{id}", allow(models.ActionViewAssets, assetHandler.Get))
	mux.Handle("POST /api/assets/{id}/archive", allow(models.ActionManageAssets, assetHandler.Archive))
	mux.Handle("POST /api/assets/{id}/restore", allow(models.ActionManageAssets, assetHandler.Restore))
	mux.Handle("GET /api/assets/{id}/export.csv", allow(models.ActionExportTimeline, assetHandler.Export))

	mux.Handle("POST /api/assets/{id}/rules", allow(models.ActionManageRules, ruleHandler.Create))
	mux.Handle("PUT /api/assets/{id}/rules/{ruleId}", allow(models.ActionManageRules, ruleHandler.Update))
	mux.Handle("POST /api/assets/{id}/rules/{ruleId}/complete", allow(models.ActionLogEvents, ruleHandler.Complete))

	mux.Handle("POST /api/assets/{id}/usage", allow(models.ActionLogEvents, eventHandler.LogUsage))
	mux.Handle("POST /api/assets/{id}/maintenance", allow(models.ActionLogEvents, eventHandler.LogMaintenance))
	mux.Handle("POST /api/assets/{id}/downtime", allow(models.ActionLogEvents, eventHandler.LogDowntime))

	mux.Handle("GET /api/alerts", allow(models.ActionViewAssets, fleetHandler.Alerts))
	mux.Handle("GET /api/dashboard", allow(models.ActionViewAssets, fleetHandler.Dashboard))

	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, time.Duration(cfg.RateLimitWindowSeconds)*time.Second)
	logger := middleware.NewRequestLogger(mux)
	return logger.Log(limiter.Limit(authMiddleware.Authenticate(mux)))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
