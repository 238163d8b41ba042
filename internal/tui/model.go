// Package tui is the interactive terminal frontend for alias management.
//
// The Model owns all mutable view state. Every network call runs as a
// tea.Cmd and re-enters Update as a typed result message, so handlers
// never block and each one mutates only the state it owns.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/govindup63/Ghstmail.me/internal/domain"
)

// AliasAPI is the subset of the API client the view drives.
type AliasAPI interface {
	ListAliases(ctx context.Context) ([]domain.Alias, error)
	CreateAlias(ctx context.Context) (*domain.Alias, error)
	DeleteAlias(ctx context.Context, address string) error
}

// SessionStore is the credential collaborator.
type SessionStore struct {
	Email         string
	Authenticated bool
	Logout        func() error
}

// Clipboard writes text to the system clipboard.
type Clipboard func(text string) error

type route int

const (
	routeAliases route = iota
	routeLogin
)

type severity int

const (
	severityInfo severity = iota
	severitySuccess
	severityError
)

// notification is one entry in the transient message queue.
type notification struct {
	id          int
	title       string
	description string
	severity    severity
}

// Model is the alias list view.
type Model struct {
	api       AliasAPI
	session   SessionStore
	clipboard Clipboard

	route route

	aliases      []domain.Alias
	loadingList  bool
	creating     bool
	deletingAddr string

	cursor        int
	notifications []notification
	nextNotifyID  int

	keys    keyMap
	styles  styles
	help    help.Model
	spinner spinner.Model
	width   int
}

// NewModel builds the view over its collaborators. clipboard may be nil.
func NewModel(api AliasAPI, session SessionStore, clipboard Clipboard) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		api:       api,
		session:   session,
		clipboard: clipboard,
		route:     routeAliases,
		aliases:   []domain.Alias{},
		// The list is loading from the first frame on, until the
		// initial fetch settles.
		loadingList: session.Authenticated,
		keys:        defaultKeyMap(),
		styles:      defaultStyles(),
		help:        help.New(),
		spinner:     sp,
	}
}

// Init redirects unauthenticated users to the login view and otherwise
// starts the first list fetch.
func (m Model) Init() tea.Cmd {
	if !m.session.Authenticated {
		return navigateTo(routeLogin)
	}
	return tea.Batch(m.fetchAliases(), m.spinner.Tick)
}

// Aliases returns the currently displayed aliases.
func (m Model) Aliases() []domain.Alias {
	return m.aliases
}
