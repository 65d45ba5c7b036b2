package card

import (
	"fmt"
	"strings"
)

// Field names an editable attribute of a card.
type Field string

const (
	FieldName       Field = "name"
	FieldTitle      Field = "title"
	FieldCompany    Field = "company"
	FieldEmail      Field = "email"
	FieldPhone      Field = "phone"
	FieldWebsite    Field = "website"
	FieldLinkedIn   Field = "linkedin"
	FieldTwitter    Field = "twitter"
	FieldTemplate   Field = "template"
	FieldColorTheme Field = "colorTheme"
)

// ContactFields lists the free-text fields in form order.
func ContactFields() []Field {
	return []Field{
		FieldName, FieldTitle, FieldCompany, FieldEmail,
		FieldPhone, FieldWebsite, FieldLinkedIn, FieldTwitter,
	}
}

// Label is the form label for f.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Full Name"
	case FieldTitle:
		return "Job Title"
	case FieldCompany:
		return "Company"
	case FieldEmail:
		return "Email"
	case FieldPhone:
		return "Phone"
	case FieldWebsite:
		return "Website"
	case FieldLinkedIn:
		return "LinkedIn"
	case FieldTwitter:
		return "Twitter"
	case FieldTemplate:
		return "Template"
	case FieldColorTheme:
		return "Color"
	}
	return string(f)
}

// Required reports whether the form marks f as required.
func (f Field) Required() bool {
	switch f {
	case FieldName, FieldTitle, FieldEmail:
		return true
	}
	return false
}

// Get returns the current value of f.
func (c Card) Get(f Field) (string, error) {
	switch f {
	case FieldName:
		return c.Name, nil
	case FieldTitle:
		return c.Title, nil
	case FieldCompany:
		return c.Company, nil
	case FieldEmail:
		return c.Email, nil
	case FieldPhone:
		return c.Phone, nil
	case FieldWebsite:
		return c.Website, nil
	case FieldLinkedIn:
		return c.LinkedIn, nil
	case FieldTwitter:
		return c.Twitter, nil
	case FieldTemplate:
		return string(c.Template), nil
	case FieldColorTheme:
		return string(c.ColorTheme), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, f)
}

// Set assigns value to f. Enum fields must parse; text fields take value as is.
// On error the card is left unchanged.
func (c *Card) Set(f Field, value string) error {
	switch f {
	case FieldName:
		c.Name = value
	case FieldTitle:
		c.Title = value
	case FieldCompany:
		c.Company = value
	case FieldEmail:
		c.Email = value
	case FieldPhone:
		c.Phone = value
	case FieldWebsite:
		c.Website = value
	case FieldLinkedIn:
		c.LinkedIn = value
	case FieldTwitter:
		c.Twitter = value
	case FieldTemplate:
		t, err := ParseTemplate(value)
		if err != nil {
			return err
		}
		c.Template = t
	case FieldColorTheme:
		ct, err := ParseColorTheme(value)
		if err != nil {
			return err
		}
		c.ColorTheme = ct
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return nil
}

// Missing lists required fields that are blank.
func (c Card) Missing() []Field {
	var out []Field
	for _, f := range ContactFields() {
		if !f.Required() {
			continue
		}
		v, _ := c.Get(f)
		if strings.TrimSpace(v) == "" {
			out = append(out, f)
		}
	}
	return out
}
