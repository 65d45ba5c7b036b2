package card

import (
	"path/filepath"
	"strings"
)

const (
	DefaultTitle = "Business Card"
	defaultStem  = "business-card"
)

// ShareSummary lists the non-empty contact fields, one "Label: value" per line.
func (c Card) ShareSummary() string {
	lines := make([]string, 0, 6)
	add := func(label, v string) {
		if v != "" {
			lines = append(lines, label+": "+v)
		}
	}
	add("Name", c.Name)
	add("Title", c.Title)
	add("Company", c.Company)
	add("Email", c.Email)
	add("Phone", c.Phone)
	add("Website", c.Website)
	return strings.Join(lines, "\n")
}

// ExportFilename is the download name used by the export action.
func (c Card) ExportFilename() string {
	return fileStem(c) + "-business-card.png"
}

// SharedFilename is the download name used when image sharing falls back to
// saving the file.
func (c Card) SharedFilename() string {
	return fileStem(c) + "-shared.png"
}

// AttachmentFilename is the file name handed to a share surface.
func (c Card) AttachmentFilename() string {
	return fileStem(c) + ".png"
}

func fileStem(c Card) string {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return defaultStem
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, name)
	return filepath.Base(name)
}
