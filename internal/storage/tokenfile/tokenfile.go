package tokenfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// Store persists the OAuth token as a JSON file on disk. All access goes
// through a mutex so concurrent refreshes cannot interleave writes.
type Store struct {
	path string
	mu   sync.Mutex
}

// New creates a file-backed token store at the given path
func New(path string) *Store {
	return &Store{path: path}
}

// GetToken loads the token file, returning (nil, nil) when it does not
// exist yet
func (s *Store) GetToken(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open token file: %w", err)
	}
	defer f.Close()

	var token oauth2.Token
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token file: %w", err)
	}

	return &token, nil
}

// SaveToken writes the token file with owner-only permissions
func (s *Store) SaveToken(ctx context.Context, token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	return nil
}
