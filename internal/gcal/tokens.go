package gcal

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenStore defines the interface for OAuth token persistence
// This interface is implemented by the storage layer to avoid tight coupling
type TokenStore interface {
	// GetToken returns the stored token, or (nil, nil) when none exists
	GetToken(ctx context.Context) (*oauth2.Token, error)
	SaveToken(ctx context.Context, token *oauth2.Token) error
}
