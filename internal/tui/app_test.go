package tui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/cardcraft/internal/card"
	"github.com/jask/cardcraft/internal/controller"
	"github.com/jask/cardcraft/internal/render"
	"github.com/jask/cardcraft/internal/service"
	"github.com/jask/cardcraft/internal/share"
	"github.com/jask/cardcraft/internal/store"
)

type fakeExporter struct {
	busy     map[string]string
	exported []string
	outcome  share.Outcome
	preview  *card.Card
}

func (f *fakeExporter) Export(_ context.Context, c card.Card) (string, error) {
	f.exported = append(f.exported, c.ID)
	return "/tmp/" + c.ExportFilename(), nil
}

func (f *fakeExporter) Share(context.Context, card.Card) (share.Outcome, error) {
	return f.outcome, nil
}

func (f *fakeExporter) ExportPreview(ctx context.Context, c card.Card) (string, error) {
	return f.Export(ctx, c)
}

func (f *fakeExporter) SharePreview(ctx context.Context, c card.Card) (share.Outcome, error) {
	return f.Share(ctx, c)
}

func (f *fakeExporter) Preview(c card.Card) error {
	f.preview = &c
	return nil
}

func (f *fakeExporter) ClosePreview() { f.preview = nil }

func (f *fakeExporter) Busy(id string) (string, bool) {
	op, ok := f.busy[id]
	return op, ok
}

func newApp(t *testing.T) (*App, *store.Store, *fakeExporter) {
	t.Helper()
	ctx := context.Background()
	s := store.New(store.NewMemory(), nil)
	exp := &fakeExporter{busy: map[string]string{}, outcome: share.OutcomeCopied}
	return New(ctx, controller.New(ctx, s, nil, nil), exp, nil, nil), s, exp
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(a *App, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = a.Update(keyMsg(k))
	}
	return cmd
}

func typeText(a *App, text string) {
	for _, r := range text {
		a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestOnboardingFlowSavesCard(t *testing.T) {
	t.Parallel()

	a, s, _ := newApp(t)
	press(a, "n")
	require.Equal(t, controller.Onboarding{Step: controller.StepTemplate}, a.ctl.State())

	// modern -> gradient -> minimal -> neon
	press(a, "right", "right", "right", "enter")
	require.Equal(t, controller.Onboarding{Step: controller.StepColor}, a.ctl.State())
	press(a, "right", "enter")
	require.Equal(t, controller.Onboarding{Step: controller.StepInfo}, a.ctl.State())

	typeText(a, "Ada Lovelace")
	press(a, "tab")
	typeText(a, "Engineer")
	require.Contains(t, a.View(), "Ada Lovelace")
	press(a, "enter")

	require.Equal(t, controller.Dashboard{}, a.ctl.State())
	saved := s.Cards(context.Background())
	require.Len(t, saved, 1)
	require.Equal(t, "Ada Lovelace", saved[0].Name)
	require.Equal(t, "Engineer", saved[0].Title)
	require.Equal(t, card.TemplateNeon, saved[0].Template)
	require.Equal(t, card.ColorPurple, saved[0].ColorTheme)
	require.True(t, s.HasSeenOnboarding(context.Background()))
}

func TestEscapeFromTemplateDiscards(t *testing.T) {
	t.Parallel()

	a, s, _ := newApp(t)
	press(a, "n", "esc")
	require.Equal(t, controller.Dashboard{}, a.ctl.State())
	require.Empty(t, s.Cards(context.Background()))
	require.Contains(t, a.View(), "No cards yet")
}

func seedCard(t *testing.T, a *App, name string) {
	t.Helper()
	press(a, "n", "enter", "enter")
	typeText(a, name)
	press(a, "enter")
	require.Equal(t, controller.Dashboard{}, a.ctl.State())
}

func TestBuilderSaveAndDelete(t *testing.T) {
	t.Parallel()

	a, s, _ := newApp(t)
	seedCard(t, a, "Grace")
	seedCard(t, a, "Alan")

	press(a, "enter")
	require.Equal(t, controller.Builder{}, a.ctl.State())
	typeText(a, " Hopper")
	press(a, "ctrl+s")
	require.Equal(t, controller.Dashboard{}, a.ctl.State())
	require.Equal(t, "Grace Hopper", s.Cards(context.Background())[0].Name)

	press(a, "j", "d")
	require.Equal(t, modalConfirmDelete, a.modal)
	press(a, "n")
	require.Len(t, s.Cards(context.Background()), 2)

	press(a, "d", "y")
	cards := s.Cards(context.Background())
	require.Len(t, cards, 1)
	require.Equal(t, "Grace Hopper", cards[0].Name)
	require.Equal(t, 0, a.cursor)
}

func TestExportIgnoredWhileBusy(t *testing.T) {
	t.Parallel()

	a, _, exp := newApp(t)
	seedCard(t, a, "Grace")
	id := a.ctl.Cards()[0].ID

	exp.busy[id] = "share"
	require.Nil(t, press(a, "x"))
	require.Contains(t, a.status, "already running")
	require.Empty(t, exp.exported)

	delete(exp.busy, id)
	cmd := press(a, "x")
	require.NotNil(t, cmd)
	require.Equal(t, 1, a.running)

	msg := exportDoneMsg{id: id, path: "/tmp/Grace-business-card.png"}
	a.Update(msg)
	require.Equal(t, 0, a.running)
	require.Equal(t, "Saved /tmp/Grace-business-card.png", a.status)
}

type stubPNG struct{}

func (stubPNG) ExportPNG(_ context.Context, _, filename string) (string, error) {
	return "/exports/" + filename, nil
}

func newServiceApp(t *testing.T) (*App, *render.Stage) {
	t.Helper()
	ctx := context.Background()
	stage := render.NewStage()
	svc := &service.ExporterService{Stage: stage, Images: stubPNG{}}
	return New(ctx, controller.New(ctx, store.New(store.NewMemory(), nil), nil, nil), svc, nil, nil), stage
}

func TestRepeatedExportPressIsIgnored(t *testing.T) {
	t.Parallel()

	a, _ := newServiceApp(t)
	seedCard(t, a, "Grace")
	id := a.ctl.Cards()[0].ID

	require.NotNil(t, press(a, "x"))
	require.Nil(t, press(a, "x"), "second press must not start another export")
	require.Nil(t, press(a, "s"))
	require.Equal(t, 1, a.running)
	require.False(t, a.statusErr)
	require.Contains(t, a.status, "export already running")

	a.Update(exportDoneMsg{id: id, path: "/exports/Grace-business-card.png"})
	require.Empty(t, a.pending)
	require.NotNil(t, press(a, "s"))
}

func TestBusyResultIsSilent(t *testing.T) {
	t.Parallel()

	a, _, _ := newApp(t)
	a.running = 1
	a.info("Exporting Grace...")
	a.Update(exportDoneMsg{id: "card-1", err: fmt.Errorf("%w: export card-1", service.ErrBusy)})
	require.Equal(t, "Exporting Grace...", a.status)
	require.False(t, a.statusErr)
	require.Zero(t, a.running)

	a.running = 1
	a.Update(shareDoneMsg{id: "card-1", err: service.ErrBusy})
	require.False(t, a.statusErr)
}

func TestBuilderKeepsPreviewMounted(t *testing.T) {
	t.Parallel()

	a, stage := newServiceApp(t)
	seedCard(t, a, "Grace")
	require.Zero(t, stage.Len())

	press(a, "enter")
	el, ok := stage.Lookup(render.PreviewElementID)
	require.True(t, ok)
	require.Equal(t, "Grace", el.Card.Name)

	typeText(a, " Hopper")
	el, _ = stage.Lookup(render.PreviewElementID)
	require.Equal(t, "Grace Hopper", el.Card.Name)

	press(a, "ctrl+s")
	require.Equal(t, controller.Dashboard{}, a.ctl.State())
	require.Zero(t, stage.Len())
}

func TestNoticesAndAlerts(t *testing.T) {
	t.Parallel()

	a, _, _ := newApp(t)
	a.notices.Notify(share.CopiedMessage)
	a.Update(a.notices.wait()())
	require.Equal(t, share.CopiedMessage, a.status)

	a.notices.Alert(share.AlertTitle, "Name: Ada")
	a.Update(a.notices.wait()())
	require.Equal(t, modalAlert, a.modal)
	require.Contains(t, a.View(), "Name: Ada")
	press(a, "n")
	require.Equal(t, controller.Dashboard{}, a.ctl.State(), "keys go to the modal")
	press(a, "enter")
	require.Equal(t, modalNone, a.modal)
}

func TestShareDoneStatus(t *testing.T) {
	t.Parallel()

	a, _, _ := newApp(t)
	a.running = 1
	a.Update(shareDoneMsg{id: "card-1", outcome: share.OutcomeCancelled})
	require.Equal(t, "Share cancelled", a.status)
	require.Zero(t, a.running)
}

func TestSearchFilter(t *testing.T) {
	t.Parallel()

	a, _, _ := newApp(t)
	seedCard(t, a, "Grace Hopper")
	seedCard(t, a, "Alan Turing")

	press(a, "/")
	require.True(t, a.filtering)
	typeText(a, "turing")
	press(a, "enter")
	require.False(t, a.filtering)

	c, ok := a.selected()
	require.True(t, ok)
	require.Equal(t, "Alan Turing", c.Name)

	press(a, "/", "esc")
	require.Len(t, a.visibleCards(), 2)
}
