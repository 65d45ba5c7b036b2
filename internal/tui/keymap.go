package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit   key.Binding
	Up     key.Binding
	Down   key.Binding
	Search key.Binding
	New    key.Binding
	Tour   key.Binding
	Edit   key.Binding
	Delete key.Binding
	Export key.Binding
	Share  key.Binding

	Next key.Binding
	Back key.Binding

	PrevOption key.Binding
	NextOption key.Binding
	NextField  key.Binding
	PrevField  key.Binding

	Save          key.Binding
	ExportDraft   key.Binding
	ShareDraft    key.Binding
	CycleTemplate key.Binding
	CycleColor    key.Binding

	Confirm key.Binding
	Cancel  key.Binding
	Close   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "Quit")),
		Up:     key.NewBinding(key.WithKeys("up", "k")),
		Down:   key.NewBinding(key.WithKeys("down", "j")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "Search")),
		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "New")),
		Tour:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Tour")),
		Edit:   key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "Edit")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "Delete")),
		Export: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "Export PNG")),
		Share:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Share")),

		Next: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "Next")),
		Back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "Back")),

		PrevOption: key.NewBinding(key.WithKeys("left", "up", "h", "k")),
		NextOption: key.NewBinding(key.WithKeys("right", "down", "l", "j"), key.WithHelp("←/→", "Choose")),
		NextField:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "Next field")),
		PrevField:  key.NewBinding(key.WithKeys("shift+tab", "up")),

		Save:          key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "Save")),
		ExportDraft:   key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "Export PNG")),
		ShareDraft:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "Share")),
		CycleTemplate: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "Template")),
		CycleColor:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "Color")),

		Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "Yes")),
		Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "No")),
		Close:   key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "Close")),
	}
}

// helpLine renders bindings as "[key] Desc" pairs.
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, "["+h.Key+"] "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, "  "))
}

// withHelp relabels b for one screen.
func withHelp(b key.Binding, desc string) key.Binding {
	b.SetHelp(b.Help().Key, desc)
	return b
}
