// Package theme holds the lipgloss styles shared by the chrome, the pages
// and the terminal frame.
package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSecondary = lipgloss.Color("#10B981")
	ColorAccent    = lipgloss.Color("#F59E0B")
	ColorError     = lipgloss.Color("#EF4444")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorBar       = lipgloss.Color("#374151")
	ColorFg        = lipgloss.Color("#F9FAFB")
)

// Styles
var (
	// Header
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	BreadcrumbStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	CurrentCrumbStyle = lipgloss.NewStyle().
				Foreground(ColorFg).
				Bold(true)

	LanguageStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	// Sidebar
	GroupStyle = lipgloss.NewStyle().
			Foreground(ColorFg).
			Bold(true)

	MenuItemStyle = lipgloss.NewStyle().
			PaddingLeft(3)

	ActiveMenuItemStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				PaddingLeft(3)

	CursorStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// Pages
	HeadingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Width(14)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorFg)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ColorError)

	// Frame
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	FocusedBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorBar).
			Foreground(ColorFg).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)
)

// RenderHeading renders a page heading.
func RenderHeading(title string) string {
	return HeadingStyle.Render(title)
}

// RenderError renders an error line.
func RenderError(msg string) string {
	return ErrorMessageStyle.Render(msg)
}

// RenderField renders a "label value" row.
func RenderField(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), ValueStyle.Render(value))
}
