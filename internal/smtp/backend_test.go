package smtp

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govindup63/Ghstmail.me/internal/cache"
	"github.com/govindup63/Ghstmail.me/internal/config"
	"github.com/govindup63/Ghstmail.me/internal/domain"
	"github.com/govindup63/Ghstmail.me/internal/security"
	"github.com/govindup63/Ghstmail.me/internal/service"
	"github.com/govindup63/Ghstmail.me/internal/storage/memory"
)

type recordingForwarder struct {
	mu       sync.Mutex
	forwards []forwardRecord
	err      error
}

type forwardRecord struct {
	from string
	to   string
	raw  string
}

func (f *recordingForwarder) Forward(from, to string, raw []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.forwards = append(f.forwards, forwardRecord{from: from, to: to, raw: string(raw)})
	return nil
}

func newTestBackend(t *testing.T, deps BackendDeps) (*Backend, string) {
	t.Helper()

	store := memory.NewStore()
	cfg := &config.Config{
		Alias: config.AliasConfig{Domain: "ghstmail.me", MaxPerUser: 10},
	}
	require.NoError(t, store.CreateUser(&domain.User{
		ID:        "u1",
		Email:     "person@example.com",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}))

	svc := service.NewAliasService(store, store, cfg)
	alias, err := svc.Create("u1")
	require.NoError(t, err)

	deps.Aliases = svc
	return NewBackend(deps), alias.AliasAddress
}

func TestBackendSession(t *testing.T) {
	t.Run("delivers to a known alias", func(t *testing.T) {
		fwd := &recordingForwarder{}
		backend, address := newTestBackend(t, BackendDeps{Forwarder: fwd})

		sess, err := backend.NewSession(nil)
		require.NoError(t, err)

		require.NoError(t, sess.Mail("sender@elsewhere.org", nil))
		require.NoError(t, sess.Rcpt(address, nil))
		require.NoError(t, sess.Data(strings.NewReader("Subject: hi\r\n\r\nhello")))

		require.Len(t, fwd.forwards, 1)
		assert.Equal(t, "sender@elsewhere.org", fwd.forwards[0].from)
		assert.Equal(t, "person@example.com", fwd.forwards[0].to)
		assert.Contains(t, fwd.forwards[0].raw, "hello")
	})

	t.Run("rejects unknown recipients", func(t *testing.T) {
		backend, _ := newTestBackend(t, BackendDeps{Forwarder: &recordingForwarder{}})

		sess, err := backend.NewSession(nil)
		require.NoError(t, err)

		err = sess.Rcpt("stranger@ghstmail.me", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, errUnknownRecipient)
	})

	t.Run("rejects data without recipients", func(t *testing.T) {
		backend, _ := newTestBackend(t, BackendDeps{Forwarder: &recordingForwarder{}})

		sess, err := backend.NewSession(nil)
		require.NoError(t, err)

		err = sess.Data(strings.NewReader("orphan"))
		assert.Error(t, err)
	})

	t.Run("content filter blocks active content", func(t *testing.T) {
		fwd := &recordingForwarder{}
		backend, address := newTestBackend(t, BackendDeps{
			Forwarder: fwd,
			Filter:    security.NewContentFilter(),
		})

		sess, err := backend.NewSession(nil)
		require.NoError(t, err)

		require.NoError(t, sess.Mail("sender@elsewhere.org", nil))
		require.NoError(t, sess.Rcpt(address, nil))

		err = sess.Data(strings.NewReader(`<script>alert(1)</script>`))
		require.Error(t, err)
		assert.Empty(t, fwd.forwards)
	})

	t.Run("resolve fills the local cache", func(t *testing.T) {
		local := cache.NewAliasCache(time.Minute)
		defer local.Close()

		backend, address := newTestBackend(t, BackendDeps{
			Forwarder: &recordingForwarder{},
			Local:     local,
		})

		sess, err := backend.NewSession(nil)
		require.NoError(t, err)
		require.NoError(t, sess.Rcpt(address, nil))

		cached, ok := local.Get(address)
		require.True(t, ok)
		assert.Equal(t, "person@example.com", cached.ForwardTarget)
	})

	t.Run("limiter caps sessions", func(t *testing.T) {
		backend, _ := newTestBackend(t, BackendDeps{
			Forwarder: &recordingForwarder{},
			Limiter:   NewConnectionLimiter(100, 1),
		})

		first, err := backend.NewSession(nil)
		require.NoError(t, err)

		_, err = backend.NewSession(nil)
		require.Error(t, err)

		require.NoError(t, first.Logout())
		_, err = backend.NewSession(nil)
		assert.NoError(t, err)
	})

	t.Run("reset clears per-message state", func(t *testing.T) {
		backend, address := newTestBackend(t, BackendDeps{Forwarder: &recordingForwarder{}})

		raw, err := backend.NewSession(nil)
		require.NoError(t, err)
		sess := raw.(*session)

		require.NoError(t, sess.Mail("a@b", nil))
		require.NoError(t, sess.Rcpt(address, nil))
		sess.Reset()

		assert.Empty(t, sess.fromAddress)
		assert.Empty(t, sess.targets)
	})
}
