package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govindup63/Ghstmail.me/internal/storage/memory"
)

func TestRegister(t *testing.T) {
	svc := NewService(memory.NewStore())

	t.Run("success", func(t *testing.T) {
		user, err := svc.Register(RegisterInput{
			Email:    "Person@Example.com",
			Password: "correct-horse",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "person@example.com", user.Email)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "correct-horse", user.PasswordHash)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(RegisterInput{
			Email:    "person@example.com",
			Password: "correct-horse",
		})
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := svc.Register(RegisterInput{Email: "not-an-email", Password: "correct-horse"})
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Register(RegisterInput{Email: "b@example.com", Password: "short"})
		assert.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)

	registered, err := svc.Register(RegisterInput{
		Email:    "person@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	t.Run("success stamps last login", func(t *testing.T) {
		user, err := svc.Login(LoginInput{Email: "person@example.com", Password: "correct-horse"})
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)

		stored, err := store.GetUserByID(registered.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.LastLoginAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(LoginInput{Email: "person@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(LoginInput{Email: "ghost@example.com", Password: "whatever"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		stored, err := store.GetUserByID(registered.ID)
		require.NoError(t, err)
		stored.IsActive = false
		require.NoError(t, store.UpdateUser(stored))

		_, err = svc.Login(LoginInput{Email: "person@example.com", Password: "correct-horse"})
		assert.ErrorIs(t, err, ErrUserInactive)
	})
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("short"))
	assert.NoError(t, ValidatePassword("just-long-enough"))
	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, ValidatePassword(string(long)))
}
