package teaui

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the interactive calendar.
type Theme struct {
	Panel  PanelTheme
	List   ListTheme
	Footer FooterTheme
}

// PanelTheme styles the framed panes and their headings.
type PanelTheme struct {
	Frame   lipgloss.Style
	Focused lipgloss.Style
	Title   lipgloss.Style
}

// ListTheme styles rows inside a pane.
type ListTheme struct {
	Cursor lipgloss.Style
	Faint  lipgloss.Style
	Done   lipgloss.Style
}

// FooterTheme styles the status line and the help text.
type FooterTheme struct {
	Status lipgloss.Style
	Help   lipgloss.Style
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	faint := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	return Theme{
		Panel: PanelTheme{
			Frame:   frame,
			Focused: frame.BorderForeground(lipgloss.Color("63")),
			Title:   lipgloss.NewStyle().Bold(true),
		},
		List: ListTheme{
			Cursor: lipgloss.NewStyle().Foreground(lipgloss.Color("218")).Bold(true),
			Faint:  faint,
			Done:   faint.Strikethrough(true),
		},
		Footer: FooterTheme{
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		},
	}
}
