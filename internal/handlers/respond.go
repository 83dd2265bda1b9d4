package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/middleware"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("empty body")

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// decodeJSON reads a JSON body into v. It returns errEmptyBody when there is
// no body at all.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errEmptyBody
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return errEmptyBody
	}
	return json.Unmarshal(body, v)
}

// ownerID returns the authenticated account, answering 401 when there is none.
func ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok || claims.UserID == "" {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

// storeError answers a failed store call. what names the record in 404s.
func storeError(w http.ResponseWriter, r *http.Request, err error, what string) {
	switch {
	case errors.Is(err, db.ErrNotFound), errors.Is(err, db.ErrInvalidID):
		http.Error(w, what+" not found", http.StatusNotFound)
	default:
		log.WithError(err).WithFields(log.Fields{"method": r.Method, "path": r.URL.Path}).Error("Store operation failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func validNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func dateOr(d *time.Time, fallback time.Time) time.Time {
	if d == nil || d.IsZero() {
		return fallback
	}
	return d.UTC()
}
