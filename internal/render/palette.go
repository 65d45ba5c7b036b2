package render

import "github.com/jask/cardcraft/internal/card"

// Palette is the set of colors a theme contributes to a template.
type Palette struct {
	From       string // gradient start
	To         string // gradient end
	Border     string // neon border
	MinimalBG  string
	MinimalRim string
	Accent     string
}

var palettes = map[card.ColorTheme]Palette{
	card.ColorCyan:   {From: "#22d3ee", To: "#3b82f6", Border: "#22d3ee", MinimalBG: "#164e63", MinimalRim: "#0891b2", Accent: "#22d3ee"},
	card.ColorPurple: {From: "#c084fc", To: "#ec4899", Border: "#c084fc", MinimalBG: "#581c87", MinimalRim: "#9333ea", Accent: "#c084fc"},
	card.ColorPink:   {From: "#f472b6", To: "#f43f5e", Border: "#f472b6", MinimalBG: "#831843", MinimalRim: "#db2777", Accent: "#f472b6"},
	card.ColorGreen:  {From: "#4ade80", To: "#10b981", Border: "#4ade80", MinimalBG: "#14532d", MinimalRim: "#16a34a", Accent: "#4ade80"},
}

// PaletteFor returns the palette of theme, falling back to cyan.
func PaletteFor(theme card.ColorTheme) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[card.ColorCyan]
}

// Background is the CSS background of the card body.
func Background(t card.Template, p Palette) string {
	switch t {
	case card.TemplateGradient:
		return "linear-gradient(to right, " + p.From + ", " + p.To + ")"
	case card.TemplateMinimal:
		return p.MinimalBG
	case card.TemplateNeon:
		return "#000000"
	default:
		return "linear-gradient(to bottom right, " + p.From + ", " + p.To + ")"
	}
}

// Border is the CSS border of the card body; empty for none.
func Border(t card.Template, p Palette) string {
	switch t {
	case card.TemplateNeon:
		return "2px solid " + p.Border
	case card.TemplateMinimal:
		return "1px solid " + p.MinimalRim
	}
	return ""
}
