package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/govindup63/Ghstmail.me/internal/domain"
)

// fallbackErrorText is shown when a failure carries no usable message.
const fallbackErrorText = "something went wrong, please try again"

// Update is the single state-transition function for the view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loadingList {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case navigateMsg:
		m.route = msg.to
		return m, nil

	case notificationExpiredMsg:
		m.notifications = dropNotification(m.notifications, msg.id)
		return m, nil

	case aliasesLoadedMsg:
		return m.onAliasesLoaded(msg)

	case aliasCreatedMsg:
		return m.onAliasCreated(msg)

	case aliasDeletedMsg:
		return m.onAliasDeleted(msg)

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m, nil
}

// onAliasesLoaded settles a list fetch. The displayed aliases are
// replaced wholesale on success and left untouched on failure. Either
// way the first-load flag clears.
func (m Model) onAliasesLoaded(msg aliasesLoadedMsg) (tea.Model, tea.Cmd) {
	m.loadingList = false

	if msg.err != nil {
		return m.notify("Load failed", errorText(msg.err), severityError)
	}

	aliases := msg.aliases
	if aliases == nil {
		aliases = []domain.Alias{}
	}
	m.aliases = aliases
	m.clampCursor()
	return m, nil
}

// onAliasCreated settles a create. A new alias never appears locally;
// the follow-up list refresh is what makes it visible.
func (m Model) onAliasCreated(msg aliasCreatedMsg) (tea.Model, tea.Cmd) {
	m.creating = false

	if msg.err != nil {
		return m.notify("Create failed", errorText(msg.err), severityError)
	}

	next, notifyCmd := m.notify("Alias created", msg.alias.AliasAddress, severitySuccess)
	model := next.(Model)
	return model, tea.Batch(notifyCmd, model.fetchAliases())
}

// onAliasDeleted settles a delete. Success removes exactly the one
// matching entry without a refetch; failure leaves the list as it was.
func (m Model) onAliasDeleted(msg aliasDeletedMsg) (tea.Model, tea.Cmd) {
	m.deletingAddr = ""

	if msg.err != nil {
		return m.notify("Delete failed", errorText(msg.err), severityError)
	}

	for i, alias := range m.aliases {
		if alias.AliasAddress == msg.address {
			m.aliases = append(m.aliases[:i:i], m.aliases[i+1:]...)
			break
		}
	}
	m.clampCursor()
	return m.notify("Alias deleted", msg.address, severitySuccess)
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.route != routeAliases {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.aliases)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		if !m.session.Authenticated || m.creating {
			return m, nil
		}
		m.creating = true
		return m, m.createAlias()

	case key.Matches(msg, m.keys.Delete):
		if !m.session.Authenticated || m.cursor >= len(m.aliases) {
			return m, nil
		}
		// Single-slot lock: starting a second delete while one is
		// outstanding makes the indicator track the newest one.
		address := m.aliases[m.cursor].AliasAddress
		m.deletingAddr = address
		return m, m.deleteAlias(address)

	case key.Matches(msg, m.keys.Copy):
		if m.cursor >= len(m.aliases) {
			return m, nil
		}
		address := m.aliases[m.cursor].AliasAddress
		if m.clipboard != nil {
			// Clipboard failures are not surfaced.
			_ = m.clipboard(address)
		}
		return m.notify("Copied", address, severityInfo)

	case key.Matches(msg, m.keys.Refresh):
		if !m.session.Authenticated {
			return m, nil
		}
		return m, m.fetchAliases()

	case key.Matches(msg, m.keys.Logout):
		if m.session.Logout != nil {
			_ = m.session.Logout()
		}
		m.session.Authenticated = false
		return m, navigateTo(routeLogin)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

// notify appends a transient notification and schedules its expiry.
func (m Model) notify(title, description string, sev severity) (tea.Model, tea.Cmd) {
	m.nextNotifyID++
	m.notifications = append(m.notifications, notification{
		id:          m.nextNotifyID,
		title:       title,
		description: description,
		severity:    sev,
	})
	return m, expireNotification(m.nextNotifyID)
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.aliases) {
		m.cursor = len(m.aliases) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func dropNotification(list []notification, id int) []notification {
	for i, n := range list {
		if n.id == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

func errorText(err error) string {
	if err == nil {
		return fallbackErrorText
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallbackErrorText
}
