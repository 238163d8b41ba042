package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/govindup63/Ghstmail.me/internal/client"
	"github.com/govindup63/Ghstmail.me/internal/session"
)

// Run starts the interactive alias view against the given API base URL.
func Run(apiBaseURL string) error {
	store, err := session.NewStore()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	sess, err := store.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	var (
		token string
		email string
	)
	if sess != nil {
		token = sess.AccessToken
		email = sess.Email
	}

	model := NewModel(
		client.New(apiBaseURL, token),
		SessionStore{
			Email:         email,
			Authenticated: token != "",
			Logout:        store.Logout,
		},
		clipboard.WriteAll,
	)

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
