package chat

import "github.com/charmbracelet/lipgloss"

type styles struct {
	user       lipgloss.Style
	assistant  lipgloss.Style
	errorTurn  lipgloss.Style
	reason     lipgloss.Style
	stage      lipgloss.Style
	stageDone  lipgloss.Style
	title      lipgloss.Style
	heading    lipgloss.Style
	purpose    lipgloss.Style
	subsection lipgloss.Style
	drafted    lipgloss.Style
	pending    lipgloss.Style
	diffInsert lipgloss.Style
	diffDelete lipgloss.Style
	empty      lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
}

func newStyles() styles {
	return styles{
		user:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		assistant:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		errorTurn:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		reason:     lipgloss.NewStyle().Faint(true),
		stage:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		stageDone:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		title:      lipgloss.NewStyle().Bold(true),
		heading:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		purpose:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		subsection: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		drafted:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		pending:    lipgloss.NewStyle().Faint(true),
		diffInsert: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		diffDelete: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Strikethrough(true),
		empty:      lipgloss.NewStyle().Faint(true),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
