// Package render turns cards into HTML elements and keeps the tree of
// currently mounted elements that the rasterizer captures from.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/jask/cardcraft/internal/card"
)

// Card dimensions in CSS pixels.
const (
	CardWidth  = 384
	CardHeight = 224
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var tmpl = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

type cardView struct {
	ElementID string
	Template  card.Template
	Style     template.CSS
	Accent    template.CSS
	Name      string
	Title     string
	Company   string
	Email     string
	Phone     string
	Website   string
	LinkedIn  string
	Twitter   string
}

type documentView struct {
	Width  int
	Height int
	Glow   template.CSS
	Body   template.HTML
}

// Fragment renders c as a single element with the given id.
func Fragment(elementID string, c card.Card) (template.HTML, error) {
	p := PaletteFor(c.ColorTheme)
	style := "background: " + Background(c.Template, p) + ";"
	if b := Border(c.Template, p); b != "" {
		style += " border: " + b + ";"
	}
	v := cardView{
		ElementID: elementID,
		Template:  c.Template,
		Style:     template.CSS(style),
		Name:      c.DisplayName("Your Name"),
		Title:     orDefault(c.Title, "Your Title"),
		Company:   c.Company,
		Email:     c.Email,
		Phone:     c.Phone,
		Website:   c.Website,
		LinkedIn:  c.LinkedIn,
		Twitter:   c.Twitter,
	}
	if c.Template == card.TemplateMinimal {
		v.Accent = template.CSS("color: " + p.Accent + ";")
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "card", v); err != nil {
		return "", fmt.Errorf("render card %s: %w", c.ID, err)
	}
	return template.HTML(buf.String()), nil
}

// Document wraps a rendered element in a standalone page with a black
// backdrop.
func Document(el Element) (string, error) {
	glow := PaletteFor(el.Card.ColorTheme).Border
	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "document", documentView{
		Width:  CardWidth,
		Height: CardHeight,
		Glow:   template.CSS(glow),
		Body:   el.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("render document %s: %w", el.ID, err)
	}
	return buf.String(), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
