package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Cursor     lipgloss.Style
	Address    lipgloss.Style
	Forward    lipgloss.Style
	Dim        lipgloss.Style
	Deleting   lipgloss.Style
	Empty      lipgloss.Style
	NotifyInfo lipgloss.Style
	NotifyOK   lipgloss.Style
	NotifyErr  lipgloss.Style
	Help       lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),
		Address: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")),
		Forward: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		Deleting: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true),
		Empty: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Padding(1, 0),
		NotifyInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")),
		NotifyOK: lipgloss.NewStyle().
			Foreground(lipgloss.Color("78")),
		NotifyErr: lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1),
	}
}
