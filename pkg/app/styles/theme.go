package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	Primary    = lipgloss.Color("#5FB3F9")
	Secondary  = lipgloss.Color("#C792EA")
	Success    = lipgloss.Color("#C3E88D")
	Warning    = lipgloss.Color("#FFCB6B")
	Error      = lipgloss.Color("#F07178")
	Info       = lipgloss.Color("#82AAFF")
	Muted      = lipgloss.Color("#546E7A")
	Background = lipgloss.Color("#1B2430")
	Foreground = lipgloss.Color("#EEFFFF")

	// Border styles
	RoundedBorder = lipgloss.RoundedBorder()
	ThickBorder   = lipgloss.ThickBorder()
)

// Base styles
var (
	// Title style for headings
	TitleStyle = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		MarginBottom(1)

	// Subtitle style
	SubtitleStyle = lipgloss.NewStyle().
		Foreground(Secondary).
		Italic(true)

	// Normal text
	TextStyle = lipgloss.NewStyle().
		Foreground(Foreground)

	// Muted/dimmed text
	MutedStyle = lipgloss.NewStyle().
		Foreground(Muted)

	// Plugin card
	CardStyle = lipgloss.NewStyle().
		Border(RoundedBorder).
		BorderForeground(Secondary).
		Padding(0, 2)

	// Selected plugin card
	ActiveCardStyle = lipgloss.NewStyle().
		Border(ThickBorder).
		BorderForeground(Primary).
		Padding(0, 2)

	// Status styles
	StatusLoading = lipgloss.NewStyle().
		Foreground(Info).
		Bold(true)

	StatusLoaded = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	StatusDisabled = lipgloss.NewStyle().
		Foreground(Warning)

	StatusError = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	// Tab styles
	ActiveTabStyle = lipgloss.NewStyle().
		Foreground(Primary).
		Background(lipgloss.Color("#2C3A4B")).
		Padding(0, 2).
		Bold(true)

	InactiveTabStyle = lipgloss.NewStyle().
		Foreground(Muted).
		Padding(0, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
		Foreground(Muted).
		Italic(true).
		MarginTop(1)

	// Input field
	InputStyle = lipgloss.NewStyle().
		Border(RoundedBorder).
		BorderForeground(Secondary).
		Padding(0, 1)

	// Focused input
	FocusedInputStyle = lipgloss.NewStyle().
		Border(RoundedBorder).
		BorderForeground(Primary).
		Padding(0, 1)
)

// Plugin statuses as shown in the TUI.
const (
	StatusNameLoading  = "loading"
	StatusNameLoaded   = "loaded"
	StatusNameFailed   = "failed"
	StatusNameDisabled = "disabled"
)

// StatusStyle picks the style for one of the StatusName values.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusNameLoading:
		return StatusLoading
	case StatusNameLoaded:
		return StatusLoaded
	case StatusNameFailed:
		return StatusError
	case StatusNameDisabled:
		return StatusDisabled
	default:
		return MutedStyle
	}
}
