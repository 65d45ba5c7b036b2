// Package card holds the business card value type and the operations on a
// collection of cards. It has no storage or UI dependencies.
package card

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTemplate   = errors.New("invalid template")
	ErrInvalidColorTheme = errors.New("invalid color theme")
	ErrUnknownField      = errors.New("unknown field")
)

// Template is the layout variant applied to a card.
type Template string

const (
	TemplateModern   Template = "modern"
	TemplateGradient Template = "gradient"
	TemplateMinimal  Template = "minimal"
	TemplateNeon     Template = "neon"
)

// Templates returns every template in picker order.
func Templates() []Template {
	return []Template{TemplateModern, TemplateGradient, TemplateMinimal, TemplateNeon}
}

// ParseTemplate accepts a template name in any case.
func ParseTemplate(s string) (Template, error) {
	t := Template(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTemplate, s)
	}
	return t, nil
}

func (t Template) Valid() bool {
	switch t {
	case TemplateModern, TemplateGradient, TemplateMinimal, TemplateNeon:
		return true
	}
	return false
}

// Label is the human name shown in pickers.
func (t Template) Label() string {
	switch t {
	case TemplateModern:
		return "Modern"
	case TemplateGradient:
		return "Gradient"
	case TemplateMinimal:
		return "Minimal"
	case TemplateNeon:
		return "Neon"
	}
	return string(t)
}

// Description is the one-line blurb shown under the label.
func (t Template) Description() string {
	switch t {
	case TemplateModern:
		return "Clean gradient design"
	case TemplateGradient:
		return "Bold color transitions"
	case TemplateMinimal:
		return "Simple and elegant"
	case TemplateNeon:
		return "Futuristic glow effect"
	}
	return ""
}

func (t *Template) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v := Template(s)
	if !v.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTemplate, s)
	}
	*t = v
	return nil
}

// ColorTheme is the palette applied on top of a template.
type ColorTheme string

const (
	ColorCyan   ColorTheme = "cyan"
	ColorPurple ColorTheme = "purple"
	ColorPink   ColorTheme = "pink"
	ColorGreen  ColorTheme = "green"
)

// ColorThemes returns every theme in picker order.
func ColorThemes() []ColorTheme {
	return []ColorTheme{ColorCyan, ColorPurple, ColorPink, ColorGreen}
}

// ParseColorTheme accepts a theme name in any case.
func ParseColorTheme(s string) (ColorTheme, error) {
	c := ColorTheme(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidColorTheme, s)
	}
	return c, nil
}

func (c ColorTheme) Valid() bool {
	switch c {
	case ColorCyan, ColorPurple, ColorPink, ColorGreen:
		return true
	}
	return false
}

func (c ColorTheme) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

func (c *ColorTheme) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v := ColorTheme(s)
	if !v.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidColorTheme, s)
	}
	*c = v
	return nil
}

// Card is one business card. Text fields use the empty string for "unset".
// Timestamps are milliseconds since the Unix epoch.
type Card struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Title      string     `json:"title"`
	Company    string     `json:"company"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Website    string     `json:"website"`
	LinkedIn   string     `json:"linkedin"`
	Twitter    string     `json:"twitter"`
	Template   Template   `json:"template"`
	ColorTheme ColorTheme `json:"colorTheme"`
	CreatedAt  int64      `json:"createdAt"`
	UpdatedAt  int64      `json:"updatedAt"`
}

// UnmarshalJSON rejects records whose template or color theme is missing.
// Present but unknown values are rejected by the enum decoders.
func (c *Card) UnmarshalJSON(b []byte) error {
	type plain Card
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if !v.Template.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTemplate, v.Template)
	}
	if !v.ColorTheme.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidColorTheme, v.ColorTheme)
	}
	*c = Card(v)
	return nil
}

// DisplayName is the card name, or fallback when the name is blank.
func (c Card) DisplayName(fallback string) string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return fallback
}

// Touch stamps UpdatedAt, never letting it fall below CreatedAt.
func (c *Card) Touch(nowMs int64) {
	if nowMs < c.CreatedAt {
		nowMs = c.CreatedAt
	}
	c.UpdatedAt = nowMs
}
