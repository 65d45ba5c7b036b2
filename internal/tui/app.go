package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/cardcraft/internal/card"
	"github.com/jask/cardcraft/internal/controller"
	"github.com/jask/cardcraft/internal/logging"
	"github.com/jask/cardcraft/internal/service"
	"github.com/jask/cardcraft/internal/share"
)

// Exporter runs exports and shares off the update loop.
type Exporter interface {
	Export(ctx context.Context, c card.Card) (string, error)
	Share(ctx context.Context, c card.Card) (share.Outcome, error)
	ExportPreview(ctx context.Context, c card.Card) (string, error)
	SharePreview(ctx context.Context, c card.Card) (share.Outcome, error)
	Busy(id string) (string, bool)
	Preview(c card.Card) error
	ClosePreview()
}

// App ties together views.
type App struct {
	ctx      context.Context
	ctl      *controller.Controller
	exporter Exporter
	notices  *Notices
	log      *zap.Logger
	keys     keyMap

	cursor     int
	pickCursor int
	filter     textinput.Model
	filtering  bool
	inputs     []textinput.Model
	focus      int
	spinner    spinner.Model
	running    int
	pending    map[string]string
	status     string
	statusErr  bool
	modal      modalState
	pendingDel string
	alert      alertMsg
	width      int
}

type modalState string

const (
	modalNone          modalState = ""
	modalConfirmDelete modalState = "confirmDelete"
	modalAlert         modalState = "alert"
)

// New builds the app. notices may be nil when nothing else reports to the UI.
func New(ctx context.Context, ctl *controller.Controller, exporter Exporter, notices *Notices, log *zap.Logger) *App {
	fi := textinput.New()
	fi.Placeholder = "search cards"
	fi.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	if notices == nil {
		notices = NewNotices()
	}
	return &App{
		ctx:      ctx,
		ctl:      ctl,
		exporter: exporter,
		notices:  notices,
		log:      logging.OrNop(log).Named("tui"),
		keys:     defaultKeyMap(),
		filter:   fi,
		spinner:  sp,
		pending:  map[string]string{},
	}
}

func (a *App) Init() tea.Cmd {
	return a.notices.wait()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		return a, nil
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		switch st := a.ctl.State().(type) {
		case controller.Onboarding:
			return a.handleOnboardingKey(st.Step, m)
		case controller.Builder:
			return a.handleBuilderKey(m)
		default:
			return a.handleDashboardKey(m)
		}
	case spinner.TickMsg:
		if a.running == 0 {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	case exportDoneMsg:
		a.finish(m.id)
		if errors.Is(m.err, service.ErrBusy) {
			return a, nil
		}
		if m.err != nil {
			a.fail("Export failed: " + m.err.Error())
			return a, nil
		}
		a.info("Saved " + m.path)
		return a, nil
	case shareDoneMsg:
		a.finish(m.id)
		if errors.Is(m.err, service.ErrBusy) {
			return a, nil
		}
		if m.err != nil {
			a.fail("Share failed: " + m.err.Error())
			return a, nil
		}
		a.info(shareStatus(m.outcome))
		return a, nil
	case noticeMsg:
		a.info(string(m))
		return a, a.notices.wait()
	case alertMsg:
		a.alert = m
		a.modal = modalAlert
		return a, a.notices.wait()
	case statusMsg:
		a.info(string(m))
		return a, nil
	case errMsg:
		a.fail("Error: " + m.err.Error())
		return a, nil
	}
	return a, nil
}

// dispatch sends ev to the controller and resyncs view state on a transition.
func (a *App) dispatch(ev controller.Event) tea.Cmd {
	before := a.ctl.State()
	err := a.ctl.Dispatch(a.ctx, ev)
	if errors.Is(err, controller.ErrIllegalTransition) {
		a.log.Debug("ignored key", zap.Error(err))
		return nil
	}
	if after := a.ctl.State(); after != before {
		a.enter(after)
	}
	a.syncPreview()
	if err != nil {
		return func() tea.Msg { return errMsg{err} }
	}
	return nil
}

// enter prepares widgets for the state just entered.
func (a *App) enter(st controller.State) {
	draft, _ := a.ctl.Draft()
	switch s := st.(type) {
	case controller.Dashboard:
		a.clampCursor()
	case controller.Onboarding:
		switch s.Step {
		case controller.StepTemplate:
			a.pickCursor = indexOf(card.Templates(), draft.Template)
		case controller.StepColor:
			a.pickCursor = indexOf(card.ColorThemes(), draft.ColorTheme)
		case controller.StepInfo:
			a.loadInputs(draft)
		}
	case controller.Builder:
		a.loadInputs(draft)
	}
}

// syncPreview keeps the mounted builder preview in step with the draft.
func (a *App) syncPreview() {
	if a.exporter == nil {
		return
	}
	draft, ok := a.ctl.Draft()
	if !ok {
		a.exporter.ClosePreview()
		return
	}
	if err := a.exporter.Preview(draft); err != nil {
		a.log.Warn("preview mount failed", zap.Error(err))
	}
}

func (a *App) loadInputs(c card.Card) {
	fields := card.ContactFields()
	a.inputs = make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = f.Label()
		ti.CharLimit = 120
		v, _ := c.Get(f)
		ti.SetValue(v)
		a.inputs[i] = ti
	}
	a.focus = 0
	a.inputs[0].Focus()
}

func (a *App) moveFocus(delta int) {
	if len(a.inputs) == 0 {
		return
	}
	a.inputs[a.focus].Blur()
	a.focus = (a.focus + delta + len(a.inputs)) % len(a.inputs)
	a.inputs[a.focus].Focus()
}

// visibleCards is the dashboard list after the search filter.
func (a *App) visibleCards() []card.Card {
	return card.Search(a.ctl.Cards(), a.filter.Value())
}

func (a *App) selected() (card.Card, bool) {
	list := a.visibleCards()
	if a.cursor < 0 || a.cursor >= len(list) {
		return card.Card{}, false
	}
	return list[a.cursor], true
}

func (a *App) clampCursor() {
	n := len(a.visibleCards())
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) info(msg string) { a.status, a.statusErr = msg, false }
func (a *App) fail(msg string) { a.status, a.statusErr = msg, true }

func (a *App) finish(id string) {
	delete(a.pending, id)
	if a.running > 0 {
		a.running--
	}
}

func indexOf[T comparable](list []T, v T) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return 0
}

func shareStatus(o share.Outcome) string {
	switch o {
	case share.OutcomeShared:
		return "Card shared"
	case share.OutcomeDownloaded:
		return "Sharing unavailable, image saved to the export folder"
	case share.OutcomeCancelled:
		return "Share cancelled"
	case share.OutcomeCopied:
		return share.CopiedMessage
	case share.OutcomeAlerted:
		return "Card details shown"
	}
	return fmt.Sprintf("Share finished (%s)", o)
}
