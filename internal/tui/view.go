package tui

import (
	"fmt"
	"strings"

	"github.com/jask/cardcraft/internal/card"
	"github.com/jask/cardcraft/internal/controller"
	"github.com/jask/cardcraft/internal/share"
)

func (a *App) View() string {
	var body string
	switch st := a.ctl.State().(type) {
	case controller.Onboarding:
		body = a.renderOnboarding(st.Step)
	case controller.Builder:
		body = a.renderBuilder()
	default:
		body = a.renderDashboard()
	}
	if a.running > 0 {
		body += "\n" + a.spinner.View() + " working"
	}
	if a.status != "" {
		st := statusStyle
		if a.statusErr {
			st = errorStyle
		}
		body += "\n" + st.Render(a.status)
	}
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	return body
}

func (a *App) renderDashboard() string {
	out := titleStyle.Render("CardCraft") + "\n"
	all := a.ctl.Cards()
	if len(all) == 0 {
		out += "No cards yet. Press [n] to create your first business card.\n"
		return out + helpLine(a.keys.New, a.keys.Tour, a.keys.Quit)
	}
	if a.filtering || a.filter.Value() != "" {
		out += a.filter.View() + "\n"
	}
	list := a.visibleCards()
	if len(list) == 0 {
		out += "  (no matches)\n"
	}
	for i, c := range list {
		marker := " "
		if i == a.cursor {
			marker = cursorStyle.Render("▶")
		}
		line := fmt.Sprintf("%s %-24s %-20s %s/%s", marker, c.DisplayName(card.DefaultTitle), c.Title, c.Template, c.ColorTheme)
		if op, busy := a.busy(c.ID); busy {
			line += "  " + a.spinner.View() + " " + op
		}
		out += line + "\n"
	}
	if c, ok := a.selected(); ok {
		out += "\n" + cardPreview(c) + "\n"
	}
	k := a.keys
	return out + helpLine(k.New, k.Edit, k.Delete, k.Export, k.Share, k.Search, k.Tour, k.Quit)
}

func (a *App) renderOnboarding(step controller.Step) string {
	var dots []string
	for _, s := range controller.Steps() {
		if s == step {
			dots = append(dots, dotOn)
		} else {
			dots = append(dots, dotOff)
		}
	}
	out := strings.Join(dots, " ") + "\n" + titleStyle.Render(step.Title()) + "\n"
	draft, _ := a.ctl.Draft()

	switch step {
	case controller.StepWelcome:
		out += "Design a business card in three steps: pick a template, pick a color, add your details.\n"
		out += "You can export it as a PNG or share it when you are done.\n"
		return out + helpLine(withHelp(a.keys.Next, "Get started"), a.keys.Back)
	case controller.StepTemplate:
		for i, t := range card.Templates() {
			out += optionLine(i == a.pickCursor, fmt.Sprintf("%-9s %s", t.Label(), t.Description()))
		}
	case controller.StepColor:
		for i, c := range card.ColorThemes() {
			out += optionLine(i == a.pickCursor, fmt.Sprintf("%s %s", swatch(c), c.Label()))
		}
	case controller.StepInfo:
		out += a.renderForm()
	}
	out += "\n" + cardPreview(draft) + "\n"
	if step == controller.StepInfo {
		return out + helpLine(a.keys.NextField, withHelp(a.keys.Next, "Finish"), a.keys.Back)
	}
	return out + helpLine(a.keys.NextOption, a.keys.Next, a.keys.Back)
}

func (a *App) renderBuilder() string {
	draft, _ := a.ctl.Draft()
	out := titleStyle.Render("Edit "+draft.DisplayName(card.DefaultTitle)) + "\n"
	out += fmt.Sprintf("Template: %s  Color: %s\n", draft.Template.Label(), draft.ColorTheme.Label())
	out += a.renderForm()
	out += "\n" + cardPreview(draft) + "\n"
	k := a.keys
	return out + helpLine(k.Save, k.ExportDraft, k.ShareDraft, k.CycleTemplate, k.CycleColor, k.Back)
}

func (a *App) renderForm() string {
	var b strings.Builder
	for i, f := range card.ContactFields() {
		if i >= len(a.inputs) {
			break
		}
		label := f.Label()
		if f.Required() {
			label += requiredStyle.Render("*")
		}
		marker := " "
		if i == a.focus {
			marker = "▶"
		}
		fmt.Fprintf(&b, "%s %-12s %s\n", marker, label, a.inputs[i].View())
	}
	return b.String()
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirmDelete:
		name := a.pendingDel
		if c, ok := card.Find(a.ctl.Cards(), a.pendingDel); ok {
			name = c.DisplayName(card.DefaultTitle)
		}
		return modalStyle.Render(titleStyle.Render("Delete card?") + "\n" + name + "\n" + helpLine(a.keys.Confirm, a.keys.Cancel))
	case modalAlert:
		title := a.alert.title
		if title == "" {
			title = share.AlertTitle
		}
		return modalStyle.Render(titleStyle.Render(title) + "\n" + a.alert.text + "\n" + helpLine(a.keys.Close))
	default:
		return ""
	}
}

func (a *App) busy(id string) (string, bool) {
	if a.exporter == nil {
		return "", false
	}
	return a.exporter.Busy(id)
}

func optionLine(selected bool, text string) string {
	marker := " "
	if selected {
		marker = "▶"
	}
	return marker + " " + text + "\n"
}
