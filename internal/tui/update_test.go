package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govindup63/Ghstmail.me/internal/domain"
)

func init() {
	notificationTTL = time.Millisecond
}

type fakeAPI struct {
	listResult []domain.Alias
	listErr    error
	listCalls  int

	createResult *domain.Alias
	createErr    error
	createCalls  int

	deleteErr    error
	deletedAddrs []string
}

func (f *fakeAPI) ListAliases(context.Context) ([]domain.Alias, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResult, nil
}

func (f *fakeAPI) CreateAlias(context.Context) (*domain.Alias, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createResult, nil
}

func (f *fakeAPI) DeleteAlias(_ context.Context, address string) error {
	f.deletedAddrs = append(f.deletedAddrs, address)
	return f.deleteErr
}

type blankError struct{}

func (blankError) Error() string { return "" }

func sampleAliases() []domain.Alias {
	return []domain.Alias{
		{ID: "a1", AliasAddress: "one@ghstmail.me", ForwardTarget: "user@example.com"},
		{ID: "a2", AliasAddress: "two@ghstmail.me", ForwardTarget: "user@example.com"},
		{ID: "a3", AliasAddress: "three@ghstmail.me", ForwardTarget: "user@example.com"},
	}
}

func newTestModel(api *fakeAPI) Model {
	return NewModel(api, SessionStore{
		Email:         "user@example.com",
		Authenticated: true,
	}, nil)
}

func pressKey(t *testing.T, m Model, r rune) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return next.(Model), cmd
}

func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// settle executes a single command and applies its message, leaving any
// follow-up commands unexecuted so notifications stay visible.
func settle(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	return apply(t, m, cmd())
}

// runCmds executes a command tree and feeds every produced message back
// into the model.
func runCmds(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = runCmds(t, m, c)
		}
		return m
	}
	next, follow := m.Update(msg)
	return runCmds(t, next.(Model), follow)
}

func addresses(aliases []domain.Alias) []string {
	out := make([]string, 0, len(aliases))
	for _, a := range aliases {
		out = append(out, a.AliasAddress)
	}
	return out
}

func TestMount(t *testing.T) {
	t.Run("authenticated mount starts loading and fetches once", func(t *testing.T) {
		api := &fakeAPI{listResult: sampleAliases()}
		m := newTestModel(api)

		assert.True(t, m.loadingList)

		m = runCmds(t, m, m.Init())
		assert.Equal(t, 1, api.listCalls)
		assert.False(t, m.loadingList)
		assert.Equal(t, addresses(sampleAliases()), addresses(m.aliases))
	})

	t.Run("unauthenticated mount navigates without fetching", func(t *testing.T) {
		api := &fakeAPI{}
		m := NewModel(api, SessionStore{Authenticated: false}, nil)

		assert.False(t, m.loadingList)

		m = runCmds(t, m, m.Init())
		assert.Equal(t, 0, api.listCalls)
		assert.Equal(t, routeLogin, m.route)
		assert.Empty(t, m.aliases)
	})

	t.Run("unauthenticated alias route renders nothing", func(t *testing.T) {
		m := NewModel(&fakeAPI{}, SessionStore{Authenticated: false}, nil)
		assert.Empty(t, m.View())
	})

	t.Run("loading flag clears even when the first fetch fails", func(t *testing.T) {
		api := &fakeAPI{listErr: errors.New("boom")}
		m := newTestModel(api)

		m = runCmds(t, m, m.Init())
		assert.False(t, m.loadingList)
		assert.Empty(t, m.aliases)
	})
}

func TestListFetch(t *testing.T) {
	t.Run("success replaces the list wholesale", func(t *testing.T) {
		m := newTestModel(&fakeAPI{})
		m, _ = apply(t, m, aliasesLoadedMsg{aliases: sampleAliases()})

		replacement := []domain.Alias{
			{ID: "b1", AliasAddress: "fresh@ghstmail.me"},
		}
		m, _ = apply(t, m, aliasesLoadedMsg{aliases: replacement})

		assert.Equal(t, []string{"fresh@ghstmail.me"}, addresses(m.aliases))
	})

	t.Run("empty result clears the list", func(t *testing.T) {
		m := newTestModel(&fakeAPI{})
		m, _ = apply(t, m, aliasesLoadedMsg{aliases: sampleAliases()})
		m, _ = apply(t, m, aliasesLoadedMsg{aliases: []domain.Alias{}})

		assert.NotNil(t, m.aliases)
		assert.Empty(t, m.aliases)
		assert.False(t, m.loadingList)
	})

	t.Run("failure keeps the previous list and notifies", func(t *testing.T) {
		m := newTestModel(&fakeAPI{})
		m, _ = apply(t, m, aliasesLoadedMsg{aliases: sampleAliases()})
		m, _ = apply(t, m, aliasesLoadedMsg{err: errors.New("list unavailable")})

		assert.Equal(t, addresses(sampleAliases()), addresses(m.aliases))
		require.NotEmpty(t, m.notifications)
		last := m.notifications[len(m.notifications)-1]
		assert.Equal(t, severityError, last.severity)
		assert.Equal(t, "list unavailable", last.description)
	})

	t.Run("blank error message falls back to a generic string", func(t *testing.T) {
		m := newTestModel(&fakeAPI{})
		m, _ = apply(t, m, aliasesLoadedMsg{err: blankError{}})

		require.NotEmpty(t, m.notifications)
		assert.Equal(t, fallbackErrorText, m.notifications[0].description)
	})
}

func TestCreate(t *testing.T) {
	t.Run("success notifies with the address then refreshes", func(t *testing.T) {
		created := &domain.Alias{ID: "n1", AliasAddress: "x@y"}
		api := &fakeAPI{
			createResult: created,
			listResult:   append(sampleAliases(), *created),
		}
		m := newTestModel(api)
		m.loadingList = false

		m, cmd := pressKey(t, m, 'n')
		assert.True(t, m.creating)

		m, follow := settle(t, m, cmd)
		assert.False(t, m.creating)
		assert.Equal(t, 1, api.createCalls)

		require.NotEmpty(t, m.notifications)
		last := m.notifications[len(m.notifications)-1]
		assert.Equal(t, severitySuccess, last.severity)
		assert.Equal(t, "x@y", last.description)

		m = runCmds(t, m, follow)
		assert.Equal(t, 1, api.listCalls, "create success must trigger a list refresh")
		assert.Contains(t, addresses(m.aliases), "x@y")
	})

	t.Run("failure leaves the list untouched", func(t *testing.T) {
		api := &fakeAPI{createErr: errors.New("alias limit reached")}
		m := newTestModel(api)
		m, _ = apply(t, m, aliasesLoadedMsg{aliases: sampleAliases()})

		m, cmd := pressKey(t, m, 'n')
		m, _ = settle(t, m, cmd)

		assert.False(t, m.creating)
		assert.Equal(t, 0, api.listCalls)
		assert.Equal(t, addresses(sampleAliases()), addresses(m.aliases))
		require.NotEmpty(t, m.notifications)
		assert.Equal(t, "alias limit reached", m.notifications[len(m.notifications)-1].description)
	})

	t.Run("creating flag blocks re-entry", func(t *testing.T) {
		api := &fakeAPI{}
		m := newTestModel(api)
		m.creating = true

		_, cmd := pressKey(t, m, 'n')
		assert.Nil(t, cmd)
		assert.Equal(t, 0, api.createCalls)
	})
}

func TestDelete(t *testing.T) {
	t.Run("success removes exactly one entry preserving order", func(t *testing.T) {
		api := &fakeAPI{}
		m := newTestModel(api)
		m, _ = apply(t, m, aliasesLoadedMsg{aliases: sampleAliases()})
		m.cursor = 1

		m, cmd := pressKey(t, m, 'd')
		assert.Equal(t, "two@ghstmail.me", m.deletingAddr)

		m, _ = settle(t, m, cmd)

		assert.Equal(t, []string{"one@ghstmail.me", "three@ghstmail.me"}, addresses(m.aliases))
		assert.Empty(t, m.deletingAddr)
		assert.Equal(t, []string{"two@ghstmail.me"}, api.deletedAddrs)

		require.NotEmpty(t, m.notifications)
		last := m.notifications[len(m.notifications)-1]
		assert.Equal(t, severitySuccess, last.severity)
		assert.Equal(t, "two@ghstmail.me", last.description)
	})

	t.Run("failure leaves every entry in place", func(t *testing.T) {
		api := &fakeAPI{deleteErr: errors.New("network error")}
		m := newTestModel(api)
		m, _ = apply(t, m, aliasesLoadedMsg{aliases: sampleAliases()})

		m, cmd := pressKey(t, m, 'd')
		m, _ = settle(t, m, cmd)

		assert.Equal(t, addresses(sampleAliases()), addresses(m.aliases))
		assert.Empty(t, m.deletingAddr)
		require.NotEmpty(t, m.notifications)
		last := m.notifications[len(m.notifications)-1]
		assert.Equal(t, severityError, last.severity)
		assert.Equal(t, "network error", last.description)
	})

	t.Run("second delete overwrites the in-flight marker", func(t *testing.T) {
		m := newTestModel(&fakeAPI{})
		m, _ = apply(t, m, aliasesLoadedMsg{aliases: sampleAliases()})

		m, _ = pressKey(t, m, 'd')
		assert.Equal(t, "one@ghstmail.me", m.deletingAddr)

		m.cursor = 2
		m, _ = pressKey(t, m, 'd')
		assert.Equal(t, "three@ghstmail.me", m.deletingAddr)
	})

	t.Run("settling a delete always clears the marker", func(t *testing.T) {
		m := newTestModel(&fakeAPI{})
		m, _ = apply(t, m, aliasesLoadedMsg{aliases: sampleAliases()})
		m.deletingAddr = "one@ghstmail.me"

		m, _ = apply(t, m, aliasDeletedMsg{address: "one@ghstmail.me", err: errors.New("nope")})
		assert.Empty(t, m.deletingAddr)
	})
}

func TestCopy(t *testing.T) {
	t.Run("copies the selected address without mutating state", func(t *testing.T) {
		var copied string
		m := NewModel(&fakeAPI{}, SessionStore{Email: "user@example.com", Authenticated: true},
			func(text string) error {
				copied = text
				return nil
			})
		m, _ = apply(t, m, aliasesLoadedMsg{aliases: sampleAliases()})
		m.creating = false

		before := addresses(m.aliases)
		m, _ = pressKey(t, m, 'c')

		assert.Equal(t, "one@ghstmail.me", copied)
		assert.Equal(t, before, addresses(m.aliases))
		assert.False(t, m.creating)
		assert.Empty(t, m.deletingAddr)

		require.NotEmpty(t, m.notifications)
		last := m.notifications[len(m.notifications)-1]
		assert.Equal(t, severityInfo, last.severity)
		assert.Equal(t, "one@ghstmail.me", last.description)
	})

	t.Run("clipboard failure is swallowed", func(t *testing.T) {
		m := NewModel(&fakeAPI{}, SessionStore{Authenticated: true},
			func(string) error { return errors.New("no display") })
		m, _ = apply(t, m, aliasesLoadedMsg{aliases: sampleAliases()})

		m, _ = pressKey(t, m, 'c')
		last := m.notifications[len(m.notifications)-1]
		assert.Equal(t, severityInfo, last.severity)
	})
}

func TestLogout(t *testing.T) {
	var loggedOut bool
	m := NewModel(&fakeAPI{}, SessionStore{
		Email:         "user@example.com",
		Authenticated: true,
		Logout: func() error {
			loggedOut = true
			return nil
		},
	}, nil)

	m, cmd := pressKey(t, m, 'L')
	m = runCmds(t, m, cmd)

	assert.True(t, loggedOut)
	assert.Equal(t, routeLogin, m.route)
	assert.NotEmpty(t, m.View())
}

func TestNotificationsExpire(t *testing.T) {
	m := newTestModel(&fakeAPI{})

	next, cmd := m.notify("Copied", "one@ghstmail.me", severityInfo)
	m = next.(Model)
	require.Len(t, m.notifications, 1)

	m = runCmds(t, m, cmd)
	assert.Empty(t, m.notifications)
}
