package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/cardcraft/internal/card"
	"github.com/jask/cardcraft/internal/render"
)

const previewWidth = 44

// cardPreview approximates the exported card with terminal colors.
func cardPreview(c card.Card) string {
	p := render.PaletteFor(c.ColorTheme)
	st := lipgloss.NewStyle().Width(previewWidth).Padding(1, 2).Foreground(lipgloss.Color("#ffffff"))
	accent := lipgloss.NewStyle()
	switch c.Template {
	case card.TemplateNeon:
		st = st.Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Border)).
			Background(lipgloss.Color("#000000"))
		accent = accent.Foreground(lipgloss.Color(p.Accent))
	case card.TemplateMinimal:
		st = st.Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(p.MinimalRim)).
			Background(lipgloss.Color(p.MinimalBG))
		accent = accent.Foreground(lipgloss.Color(p.Accent))
	case card.TemplateGradient:
		st = st.Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color(p.To)).
			Background(lipgloss.Color(p.From))
	default:
		st = st.Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.To)).
			Background(lipgloss.Color(p.From))
	}

	name := c.Name
	if name == "" {
		name = "Your Name"
	}
	title := c.Title
	if title == "" {
		title = "Your Title"
	}
	lines := []string{accent.Bold(true).Render(name), title}
	if c.Company != "" {
		lines = append(lines, c.Company)
	}
	lines = append(lines, "")
	for _, f := range []card.Field{card.FieldEmail, card.FieldPhone, card.FieldWebsite, card.FieldLinkedIn, card.FieldTwitter} {
		if v, _ := c.Get(f); v != "" {
			lines = append(lines, v)
		}
	}
	return st.Render(strings.Join(lines, "\n"))
}

// swatch is a short colored bar for the theme picker.
func swatch(theme card.ColorTheme) string {
	p := render.PaletteFor(theme)
	return lipgloss.NewStyle().Background(lipgloss.Color(p.From)).Render("   ") +
		lipgloss.NewStyle().Background(lipgloss.Color(p.To)).Render("   ")
}
