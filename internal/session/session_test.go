package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	t.Run("load missing file returns nil session", func(t *testing.T) {
		store := NewStoreAt(filepath.Join(t.TempDir(), "session.json"))

		sess, err := store.Load()
		require.NoError(t, err)
		assert.Nil(t, sess)
		assert.False(t, store.IsAuthenticated())
	})

	t.Run("save and reload round trip", func(t *testing.T) {
		store := NewStoreAt(filepath.Join(t.TempDir(), "nested", "session.json"))

		err := store.Save(&Session{
			Email:       "user@example.com",
			AccessToken: "token-123",
		})
		require.NoError(t, err)

		sess, err := store.Load()
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.Equal(t, "user@example.com", sess.Email)
		assert.Equal(t, "token-123", sess.AccessToken)
		assert.False(t, sess.SavedAt.IsZero())
		assert.True(t, store.IsAuthenticated())
	})

	t.Run("logout removes credentials", func(t *testing.T) {
		store := NewStoreAt(filepath.Join(t.TempDir(), "session.json"))
		require.NoError(t, store.Save(&Session{AccessToken: "tok"}))

		require.NoError(t, store.Logout())
		assert.False(t, store.IsAuthenticated())

		// Logging out twice is not an error.
		require.NoError(t, store.Logout())
	})

	t.Run("empty token is not authenticated", func(t *testing.T) {
		store := NewStoreAt(filepath.Join(t.TempDir(), "session.json"))
		require.NoError(t, store.Save(&Session{Email: "user@example.com"}))
		assert.False(t, store.IsAuthenticated())
	})
}
