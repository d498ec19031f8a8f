package gcal

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
)

const refreshTimeout = 30 * time.Second

// TokenSource is the narrow surface the refresher needs from the manager
type TokenSource interface {
	Token(ctx context.Context) (*oauth2.Token, error)
}

// Refresher periodically exercises the token manager so the access token
// stays fresh and persisted instead of being refreshed on the critical
// path of a scheduling request.
type Refresher struct {
	source   TokenSource
	interval time.Duration
	stopChan chan struct{}
	logger   *slog.Logger
}

// NewRefresher creates a new token refresher
func NewRefresher(source TokenSource, interval time.Duration, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		source:   source,
		interval: interval,
		stopChan: make(chan struct{}),
		logger:   logger,
	}
}

// Start runs the refresh loop until Stop is called. Blocks; run in a
// goroutine.
func (r *Refresher) Start() {
	r.logger.Info("Token refresher started",
		"component", "gcal.refresher",
		"interval", r.interval.String(),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refresh()
		case <-r.stopChan:
			r.logger.Info("Token refresher stopped",
				"component", "gcal.refresher",
			)
			return
		}
	}
}

// Stop signals the refresh loop to exit
func (r *Refresher) Stop() {
	close(r.stopChan)
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if _, err := r.source.Token(ctx); err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			// Expected until the one-time authorization flow has run
			r.logger.Debug("Skipping token refresh",
				"component", "gcal.refresher",
				"reason", err,
			)
			return
		}
		r.logger.Error("Token refresh failed",
			"component", "gcal.refresher",
			"error", err,
		)
	}
}
