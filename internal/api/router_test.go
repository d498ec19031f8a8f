package api

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"calrelay/internal/gcal"
	"calrelay/internal/storage/tokenfile"

	"github.com/stretchr/testify/assert"
)

func setupRouter(t *testing.T, apiKey string) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := tokenfile.New(filepath.Join(t.TempDir(), "token.json"))
	manager := gcal.NewManager(nil, store, logger)

	return NewRouter(RouterConfig{
		OAuth:      nil,
		TokenStore: store,
		Manager:    manager,
		Scheduler:  gcal.NewClient(manager, gcal.EventSettings{CalendarID: "primary"}),
		APIKey:     apiKey,
		Logger:     logger,
	})
}

func TestRouter_Health(t *testing.T) {
	router := setupRouter(t, "")

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "calrelay")
}

func TestRouter_APIKeyRequired(t *testing.T) {
	router := setupRouter(t, "secret")

	req := httptest.NewRequest("POST", "/schedule-appointment", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_APIKeyAccepted(t *testing.T) {
	router := setupRouter(t, "secret")

	// Passes auth, fails validation
	req := httptest.NewRequest("POST", "/schedule-appointment", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Relay-Key", "secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_OAuthEndpointsStayPublic(t *testing.T) {
	router := setupRouter(t, "secret")

	// NOT_CONFIGURED rather than UNAUTHORIZED: the request reached the
	// handler without an API key
	req := httptest.NewRequest("GET", "/authorize", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_CONFIGURED")
}

func TestRouter_ContentTypeEnforced(t *testing.T) {
	router := setupRouter(t, "")

	req := httptest.NewRequest("POST", "/schedule-appointment", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}
