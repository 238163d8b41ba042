package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/govindup63/Ghstmail.me/internal/domain"
)

// Result messages re-enter Update once their network call settles.
type (
	aliasesLoadedMsg struct {
		aliases []domain.Alias
		err     error
	}

	aliasCreatedMsg struct {
		alias *domain.Alias
		err   error
	}

	aliasDeletedMsg struct {
		address string
		err     error
	}

	navigateMsg struct {
		to route
	}

	notificationExpiredMsg struct {
		id int
	}
)

var notificationTTL = 4 * time.Second

func (m Model) fetchAliases() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		aliases, err := api.ListAliases(context.Background())
		return aliasesLoadedMsg{aliases: aliases, err: err}
	}
}

func (m Model) createAlias() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		alias, err := api.CreateAlias(context.Background())
		return aliasCreatedMsg{alias: alias, err: err}
	}
}

func (m Model) deleteAlias(address string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		err := api.DeleteAlias(context.Background(), address)
		return aliasDeletedMsg{address: address, err: err}
	}
}

func navigateTo(to route) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{to: to}
	}
}

func expireNotification(id int) tea.Cmd {
	return tea.Tick(notificationTTL, func(time.Time) tea.Msg {
		return notificationExpiredMsg{id: id}
	})
}
