package gcal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var (
	// ErrNotAuthenticated is returned when no token is stored, or the
	// stored token is expired and cannot be refreshed.
	ErrNotAuthenticated = errors.New("no valid token - complete the authorization flow via /authorize first")
)

// Manager hands out valid access tokens, refreshing and persisting them
// through the injected TokenStore. A single refresh attempt is made per
// request; there are no retries.
type Manager struct {
	oauth       *oauth2.Config // nil when the client secret is not configured
	store       TokenStore
	logger      *slog.Logger
	serviceOpts []option.ClientOption

	mu     sync.RWMutex // protects the in-memory token cache
	cached *oauth2.Token
}

// NewManager creates a new token manager. Extra client options are passed
// through to the calendar service (tests use this to point at a fake API).
func NewManager(oauthCfg *oauth2.Config, store TokenStore, logger *slog.Logger, opts ...option.ClientOption) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		oauth:       oauthCfg,
		store:       store,
		logger:      logger,
		serviceOpts: opts,
	}
}

// Token returns a valid access token, refreshing it when expired.
// Every refresh is persisted before the token is used.
func (m *Manager) Token(ctx context.Context) (*oauth2.Token, error) {
	m.mu.RLock()
	if m.cached.Valid() {
		token := m.cached
		m.mu.RUnlock()
		return token, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring the write lock (another request might
	// have refreshed already)
	if m.cached.Valid() {
		return m.cached, nil
	}

	token, err := m.store.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load token from storage: %w", err)
	}
	if token == nil {
		return nil, ErrNotAuthenticated
	}

	if token.Valid() {
		m.cached = token
		return token, nil
	}

	if token.RefreshToken == "" || m.oauth == nil {
		return nil, ErrNotAuthenticated
	}

	refreshed, err := m.oauth.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("%w (refresh failed: %v)", ErrNotAuthenticated, err)
	}

	// Google omits the refresh token from refresh responses; keep the one
	// we already have so the next refresh still works.
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = token.RefreshToken
	}

	m.cached = refreshed

	if err := m.store.SaveToken(ctx, refreshed); err != nil {
		// The token is still usable in memory; surface the problem in logs
		m.logger.Error("Failed to persist refreshed token",
			"component", "gcal",
			"error", err,
		)
	} else {
		m.logger.Info("Access token refreshed and persisted",
			"component", "gcal",
			"expiry", refreshed.Expiry,
		)
	}

	return refreshed, nil
}

// Client returns an HTTP client that authorizes requests with a valid
// access token
func (m *Manager) Client(ctx context.Context) (*http.Client, error) {
	token, err := m.Token(ctx)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(token)), nil
}

// Service returns an authenticated Calendar service handle or
// ErrNotAuthenticated when no valid/refreshable token is available
func (m *Manager) Service(ctx context.Context) (*calendar.Service, error) {
	client, err := m.Client(ctx)
	if err != nil {
		return nil, err
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(client)}, m.serviceOpts...)
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return svc, nil
}

// Invalidate drops the in-memory token cache, forcing the next request to
// re-read the store. Used after the stored token is replaced manually.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.cached = nil
	m.mu.Unlock()
}
