package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/assets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := NewRequestLogger(mux).Log(mux)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/assets/abc", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)

	require.NotNil(t, hook.LastEntry())
	entry := hook.LastEntry()
	assert.Equal(t, log.InfoLevel, entry.Level)
	assert.Equal(t, "GET /api/assets/{id}", entry.Data["route"])
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, "/api/assets/abc", entry.Data["path"])
}

func TestRequestLogger_SkipsHealthLogging(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {})
	NewRequestLogger(mux).Log(mux).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Empty(t, hook.AllEntries())
}

func TestStatusWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}

	_, _ = sw.Write([]byte("ok"))
	sw.WriteHeader(http.StatusInternalServerError)
	assert.Equal(t, http.StatusOK, sw.status, "status is fixed by the first write")
}

func TestRequestLogger_Unmatched(t *testing.T) {
	mux := http.NewServeMux()
	l := NewRequestLogger(mux)
	assert.Equal(t, "unmatched", l.route(httptest.NewRequest(http.MethodGet, "/nowhere", nil)))
}
