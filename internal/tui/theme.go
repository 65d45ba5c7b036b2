package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the UI uses.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
)

const (
	colorBrand = colorPink
	colorFocus = colorLavender
	colorError = colorRed
	colorInfo  = colorTeal
)

// styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorBrand)
	helpStyle     = lipgloss.NewStyle().Foreground(colorOverlay1)
	statusStyle   = lipgloss.NewStyle().Foreground(colorInfo)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	requiredStyle = lipgloss.NewStyle().Foreground(colorError)
	cursorStyle   = lipgloss.NewStyle().Foreground(colorFocus)
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFocus).Padding(0, 1)
	dotOn         = lipgloss.NewStyle().Foreground(colorBrand).Render("●")
	dotOff        = lipgloss.NewStyle().Foreground(colorSurface1).Render("○")
)
