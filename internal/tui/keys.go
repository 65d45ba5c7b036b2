package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/cardcraft/internal/card"
	"github.com/jask/cardcraft/internal/controller"
)

func (a *App) handleDashboardKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.filtering {
		switch m.String() {
		case "esc":
			a.filter.SetValue("")
			fallthrough
		case "enter":
			a.filtering = false
			a.filter.Blur()
			a.clampCursor()
			return a, nil
		}
		var cmd tea.Cmd
		a.filter, cmd = a.filter.Update(m)
		a.cursor = 0
		return a, cmd
	}

	k := a.keys
	switch {
	case key.Matches(m, k.Quit):
		return a, tea.Quit
	case key.Matches(m, k.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(m, k.Down):
		if a.cursor < len(a.visibleCards())-1 {
			a.cursor++
		}
	case key.Matches(m, k.Search):
		a.filtering = true
		return a, a.filter.Focus()
	case key.Matches(m, k.New):
		return a, a.dispatch(controller.CreateNew{})
	case key.Matches(m, k.Tour):
		return a, a.dispatch(controller.StartTour{})
	case key.Matches(m, k.Edit):
		if c, ok := a.selected(); ok {
			return a, a.dispatch(controller.EditCard{Card: c})
		}
	case key.Matches(m, k.Delete):
		if c, ok := a.selected(); ok {
			a.pendingDel = c.ID
			a.modal = modalConfirmDelete
		}
	case key.Matches(m, k.Export):
		if c, ok := a.selected(); ok {
			return a, a.exportCmd(c, false)
		}
	case key.Matches(m, k.Share):
		if c, ok := a.selected(); ok {
			return a, a.shareCmd(c, false)
		}
	}
	return a, nil
}

func (a *App) handleOnboardingKey(step controller.Step, m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Back):
		return a, a.dispatch(controller.Back{})
	case key.Matches(m, a.keys.Next):
		return a, a.dispatch(controller.Next{})
	}
	switch step {
	case controller.StepTemplate:
		return a, a.pick(m, card.FieldTemplate, len(card.Templates()), func(i int) string {
			return string(card.Templates()[i])
		})
	case controller.StepColor:
		return a, a.pick(m, card.FieldColorTheme, len(card.ColorThemes()), func(i int) string {
			return string(card.ColorThemes()[i])
		})
	case controller.StepInfo:
		return a, a.handleFormKey(m)
	}
	return a, nil
}

func (a *App) handleBuilderKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	draft, _ := a.ctl.Draft()
	k := a.keys
	switch {
	case key.Matches(m, k.Back):
		return a, a.dispatch(controller.Back{})
	case key.Matches(m, k.Save):
		cmd := a.dispatch(controller.Save{})
		if cmd == nil {
			a.info("Card saved")
		}
		return a, cmd
	case key.Matches(m, k.ExportDraft):
		return a, a.exportCmd(draft, true)
	case key.Matches(m, k.ShareDraft):
		return a, a.shareCmd(draft, true)
	case key.Matches(m, k.CycleTemplate):
		ts := card.Templates()
		next := ts[(indexOf(ts, draft.Template)+1)%len(ts)]
		return a, a.dispatch(controller.UpdateField{Field: card.FieldTemplate, Value: string(next)})
	case key.Matches(m, k.CycleColor):
		cs := card.ColorThemes()
		next := cs[(indexOf(cs, draft.ColorTheme)+1)%len(cs)]
		return a, a.dispatch(controller.UpdateField{Field: card.FieldColorTheme, Value: string(next)})
	}
	return a, a.handleFormKey(m)
}

// handleFormKey moves between fields or types into the focused one.
func (a *App) handleFormKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.NextField):
		a.moveFocus(1)
		return nil
	case key.Matches(m, a.keys.PrevField):
		a.moveFocus(-1)
		return nil
	}
	if len(a.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	a.inputs[a.focus], cmd = a.inputs[a.focus].Update(m)
	field := card.ContactFields()[a.focus]
	return tea.Batch(cmd, a.dispatch(controller.UpdateField{Field: field, Value: a.inputs[a.focus].Value()}))
}

// pick moves the option cursor and applies the option to the draft so the
// preview follows it.
func (a *App) pick(m tea.KeyMsg, field card.Field, n int, value func(int) string) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.PrevOption):
		a.pickCursor = (a.pickCursor - 1 + n) % n
	case key.Matches(m, a.keys.NextOption):
		a.pickCursor = (a.pickCursor + 1) % n
	default:
		return nil
	}
	return a.dispatch(controller.UpdateField{Field: field, Value: value(a.pickCursor)})
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmDelete:
		switch {
		case key.Matches(m, a.keys.Confirm):
			id := a.pendingDel
			a.modal, a.pendingDel = modalNone, ""
			cmd := a.dispatch(controller.DeleteCard{ID: id})
			a.clampCursor()
			if cmd == nil {
				a.info("Card deleted")
			}
			return a, cmd
		case key.Matches(m, a.keys.Cancel):
			a.modal, a.pendingDel = modalNone, ""
		}
	case modalAlert:
		if key.Matches(m, a.keys.Close) {
			a.modal = modalNone
			a.alert = alertMsg{}
		}
	}
	return a, nil
}
