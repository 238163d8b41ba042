package tui

import (
	"fmt"
	"strings"
)

// View renders the current state. Unauthenticated sessions on the alias
// route render nothing at all and leave the redirect to do its work.
func (m Model) View() string {
	if m.route == routeLogin {
		return m.loginView()
	}
	if !m.session.Authenticated {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render("ghstmail"))
	b.WriteString("  ")
	b.WriteString(m.styles.Subtitle.Render(m.session.Email))
	b.WriteString("\n\n")

	switch {
	case m.loadingList:
		b.WriteString(m.spinner.View())
		b.WriteString(m.styles.Dim.Render(" loading aliases..."))
		b.WriteString("\n")
	case len(m.aliases) == 0:
		b.WriteString(m.styles.Empty.Render("No aliases yet. Press n to generate one."))
		b.WriteString("\n")
	default:
		b.WriteString(m.listView())
	}

	if m.creating {
		b.WriteString("\n")
		b.WriteString(m.styles.Dim.Render("generating a new alias..."))
		b.WriteString("\n")
	}

	b.WriteString(m.notificationsView())
	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) listView() string {
	var b strings.Builder

	for i, alias := range m.aliases {
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.Cursor.Render("> ")
		}

		line := fmt.Sprintf("%s%s %s %s",
			cursor,
			m.styles.Address.Render(alias.AliasAddress),
			m.styles.Dim.Render("→"),
			m.styles.Forward.Render(alias.ForwardTarget),
		)
		if alias.AliasAddress == m.deletingAddr {
			line += "  " + m.styles.Deleting.Render("deleting...")
		}

		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) notificationsView() string {
	if len(m.notifications) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, n := range m.notifications {
		style := m.styles.NotifyInfo
		switch n.severity {
		case severitySuccess:
			style = m.styles.NotifyOK
		case severityError:
			style = m.styles.NotifyErr
		}
		b.WriteString(style.Render(fmt.Sprintf("%s: %s", n.title, n.description)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) loginView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("ghstmail"))
	b.WriteString("\n\n")
	b.WriteString("You are not signed in.\n\n")
	b.WriteString(m.styles.Dim.Render("Run `ghstmail login` to sign in, then start the app again."))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render("q to quit"))
	return b.String()
}
