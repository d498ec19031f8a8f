package tokenfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestStore_GetToken_NoFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "token.json"))

	token, err := store.GetToken(context.Background())
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestStore_RoundTrip(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "token.json"))
	ctx := context.Background()

	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
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
	assert.True(t, expiry.Equal(loaded.Expiry))
}

func TestStore_SaveToken_CreatesDirAndRestrictsPerms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	store := New(path)

	require.NoError(t, store.SaveToken(context.Background(), &oauth2.Token{AccessToken: "access"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStore_SaveToken_Overwrites(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "token.json"))
	ctx := context.Background()

	require.NoError(t, store.SaveToken(ctx, &oauth2.Token{AccessToken: "first"}))
	require.NoError(t, store.SaveToken(ctx, &oauth2.Token{AccessToken: "second"}))

	loaded, err := store.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.AccessToken)
}

func TestStore_GetToken_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := New(path)
	_, err := store.GetToken(context.Background())
	assert.Error(t, err)
}
