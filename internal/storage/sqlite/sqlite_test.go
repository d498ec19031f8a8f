package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func setupTestStore(t *testing.T) *Store {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := New(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func TestStore_GetToken_Empty(t *testing.T) {
	store := setupTestStore(t)

	token, err := store.GetToken(context.Background())
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestStore_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	expiry := time.Now().Add(time.Hour).UTC()
	saved := &oauth2.Token{
		AccessToken:  "access",
		TokenType:    "Bearer",
		RefreshToken: "refresh",
		Expiry:       expiry,
	}
	require.NoError(t, store.SaveToken(ctx, saved))

	loaded, err := store.GetToken(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "Bearer", loaded.TokenType)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.WithinDuration(t, expiry, loaded.Expiry, time.Second)
}

func TestStore_SaveToken_Overwrites(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveToken(ctx, &oauth2.Token{
		AccessToken:  "first",
		TokenType:    "Bearer",
		RefreshToken: "refresh-1",
	}))
	require.NoError(t, store.SaveToken(ctx, &oauth2.Token{
		AccessToken:  "second",
		TokenType:    "Bearer",
		RefreshToken: "refresh-2",
	}))

	loaded, err := store.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.AccessToken)
	assert.Equal(t, "refresh-2", loaded.RefreshToken)
}

func TestStore_ZeroExpiry(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveToken(ctx, &oauth2.Token{
		AccessToken: "access",
		TokenType:   "Bearer",
	}))

	loaded, err := store.GetToken(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.Expiry.IsZero())
}
