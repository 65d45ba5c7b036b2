package tui

import tea "github.com/charmbracelet/bubbletea"

type (
	noticeMsg string
	alertMsg  struct{ title, text string }
)

// Notices carries share notifications from worker goroutines into the
// update loop. It implements share.Notifier.
type Notices struct {
	ch chan tea.Msg
}

func NewNotices() *Notices {
	return &Notices{ch: make(chan tea.Msg, 16)}
}

// Notify shows msg in the status line.
func (n *Notices) Notify(msg string) {
	n.send(noticeMsg(msg))
}

// Alert opens a modal holding text until dismissed.
func (n *Notices) Alert(title, text string) {
	n.send(alertMsg{title: title, text: text})
}

func (n *Notices) send(m tea.Msg) {
	select {
	case n.ch <- m:
	default:
		// UI not draining
	}
}

// wait delivers the next notice. Update re-arms it after each one.
func (n *Notices) wait() tea.Cmd {
	return func() tea.Msg { return <-n.ch }
}
