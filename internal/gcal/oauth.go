package gcal

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// Config contains the settings needed to talk to Google Calendar
type Config struct {
	// CredentialsJSON is the raw OAuth client-secret blob. When empty,
	// the blob is read from CredentialsPath instead.
	CredentialsJSON string
	CredentialsPath string

	// RedirectBaseURL is the externally visible base URL of this server.
	// The OAuth redirect URI is RedirectBaseURL + "/oauth-callback".
	RedirectBaseURL string
}

// NewOAuthConfig builds the oauth2 client configuration from the client
// secret file or blob. The calendar.events scope is the only one the relay
// ever needs.
func NewOAuthConfig(cfg Config) (*oauth2.Config, error) {
	blob := []byte(cfg.CredentialsJSON)
	if len(blob) == 0 {
		b, err := os.ReadFile(cfg.CredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read client secret file: %w", err)
		}
		blob = b
	}

	conf, err := google.ConfigFromJSON(blob, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secret: %w", err)
	}

	conf.RedirectURL = strings.TrimRight(cfg.RedirectBaseURL, "/") + "/oauth-callback"
	return conf, nil
}
