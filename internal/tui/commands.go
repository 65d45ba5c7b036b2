package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/cardcraft/internal/card"
	"github.com/jask/cardcraft/internal/share"
)

type (
	statusMsg string
	errMsg    struct{ err error }

	exportDoneMsg struct {
		id   string
		path string
		err  error
	}
	shareDoneMsg struct {
		id      string
		outcome share.Outcome
		err     error
	}
)

// exportCmd starts an export unless one is already running for c. From the
// builder the live preview is rasterized instead of a temporary mount.
func (a *App) exportCmd(c card.Card, fromPreview bool) tea.Cmd {
	if a.exporter == nil {
		return func() tea.Msg { return errMsg{fmt.Errorf("export not configured")} }
	}
	if !a.reserve(c, "export") {
		return nil
	}
	a.info("Exporting " + c.DisplayName(card.DefaultTitle) + "...")
	run := a.exporter.Export
	if fromPreview {
		run = a.exporter.ExportPreview
	}
	return a.start(func() tea.Msg {
		path, err := run(a.ctx, c)
		return exportDoneMsg{id: c.ID, path: path, err: err}
	})
}

// shareCmd starts a share unless one is already running for c.
func (a *App) shareCmd(c card.Card, fromPreview bool) tea.Cmd {
	if a.exporter == nil {
		return func() tea.Msg { return errMsg{fmt.Errorf("share not configured")} }
	}
	if !a.reserve(c, "share") {
		return nil
	}
	a.info("Sharing " + c.DisplayName(card.DefaultTitle) + "...")
	run := a.exporter.Share
	if fromPreview {
		run = a.exporter.SharePreview
	}
	return a.start(func() tea.Msg {
		out, err := run(a.ctx, c)
		return shareDoneMsg{id: c.ID, outcome: out, err: err}
	})
}

// reserve marks c as loading before its command runs, so a repeated key
// press is ignored instead of racing the service's own guard.
func (a *App) reserve(c card.Card, op string) bool {
	running, busy := a.pending[c.ID]
	if !busy {
		running, busy = a.exporter.Busy(c.ID)
	}
	if busy {
		a.info(running + " already running for " + c.DisplayName(card.DefaultTitle))
		return false
	}
	a.pending[c.ID] = op
	return true
}

func (a *App) start(run tea.Cmd) tea.Cmd {
	a.running++
	if a.running == 1 {
		return tea.Batch(run, a.spinner.Tick)
	}
	return run
}
