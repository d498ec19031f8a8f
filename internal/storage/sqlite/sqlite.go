package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	_ "github.com/mattn/go-sqlite3"
)

// Store implements gcal.TokenStore using SQLite. The relay is
// single-tenant, so the token table holds at most one row.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite token store
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate creates the database schema
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS google_token (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			access_token TEXT NOT NULL,
			token_type TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expiry DATETIME,
			updated_at DATETIME NOT NULL
		);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// GetToken returns the stored token, or (nil, nil) when none exists
func (s *Store) GetToken(ctx context.Context) (*oauth2.Token, error) {
	query := `
		SELECT access_token, token_type, refresh_token, expiry
		FROM google_token
		WHERE id = 1
	`

	var token oauth2.Token
	var expiry sql.NullTime

	err := s.db.QueryRowContext(ctx, query).Scan(
		&token.AccessToken,
		&token.TokenType,
		&token.RefreshToken,
		&expiry,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	if expiry.Valid {
		token.Expiry = expiry.Time
	}

	return &token, nil
}

// SaveToken inserts or replaces the stored token
func (s *Store) SaveToken(ctx context.Context, token *oauth2.Token) error {
	query := `
		INSERT INTO google_token (id, access_token, token_type, refresh_token, expiry, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			token_type = excluded.token_type,
			refresh_token = excluded.refresh_token,
			expiry = excluded.expiry,
			updated_at = excluded.updated_at
	`

	var expiry interface{}
	if !token.Expiry.IsZero() {
		expiry = token.Expiry.UTC()
	}

	_, err := s.db.ExecContext(ctx, query,
		token.AccessToken,
		token.TokenType,
		token.RefreshToken,
		expiry,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
