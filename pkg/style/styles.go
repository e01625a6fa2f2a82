package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	NameStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	FileStyle = lipgloss.NewStyle().
			Foreground(FileColor)

	DirectoryStyle = lipgloss.NewStyle().
			Foreground(DirectoryColor)

	ActionStyle = lipgloss.NewStyle().
			Foreground(ActionColor)
)

// Plain-text markers used when colour is off.
const (
	SuccessMark = "✓"
	ErrorMark   = "✗"
	DryRunMark  = "○"
	ItemMark    = "•"
)

// Indent pads s by two spaces per level.
func Indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}
