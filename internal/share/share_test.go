package share

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/cardcraft/internal/card"
)

type fakeImages struct {
	png        []byte
	err        error
	downloaded []string
}

func (f *fakeImages) RenderPNG(context.Context, string) ([]byte, error) {
	return f.png, f.err
}

func (f *fakeImages) Download(_ []byte, name string) (string, error) {
	f.downloaded = append(f.downloaded, name)
	return "/tmp/" + name, nil
}

type fakeSurface struct {
	files  bool
	err    error
	shared []Payload
}

func (f *fakeSurface) CanShareFiles() bool { return f.files }
func (f *fakeSurface) Share(_ context.Context, p Payload) error {
	f.shared = append(f.shared, p)
	return f.err
}

type fakeClipboard struct {
	err  error
	text string
}

func (f *fakeClipboard) WriteText(s string) error {
	if f.err != nil {
		return f.err
	}
	f.text = s
	return nil
}

type recNotifier struct {
	notices []string
	alerts  []string
}

func (r *recNotifier) Notify(msg string)        { r.notices = append(r.notices, msg) }
func (r *recNotifier) Alert(title, text string) { r.alerts = append(r.alerts, title+"|"+text) }

var ada = card.Card{ID: "card-1", Name: "Ada Lovelace", Title: "Engineer", Email: "ada@example.com"}

const adaBody = Message + "\n\nName: Ada Lovelace\nTitle: Engineer\nEmail: ada@example.com"

func TestShareAsImageViaSurface(t *testing.T) {
	t.Parallel()

	imgs := &fakeImages{png: []byte("png")}
	surf := &fakeSurface{files: true}
	g := NewGateway(Deps{Images: imgs, Surface: surf})

	out, err := g.ShareAsImage(context.Background(), "share-card-card-1", ada)
	require.NoError(t, err)
	require.Equal(t, OutcomeShared, out)
	require.Len(t, surf.shared, 1)
	p := surf.shared[0]
	require.Equal(t, "Ada Lovelace", p.Title)
	require.Equal(t, Message, p.Text)
	require.Equal(t, []Attachment{{Name: "Ada Lovelace.png", MIME: "image/png", Data: []byte("png")}}, p.Files)
	require.Empty(t, imgs.downloaded)
}

func TestShareAsImageDownloadsWithoutFileSupport(t *testing.T) {
	t.Parallel()

	imgs := &fakeImages{png: []byte("png")}
	for _, surf := range []Surface{nil, &fakeSurface{files: false}} {
		g := NewGateway(Deps{Images: imgs, Surface: surf})
		out, err := g.ShareAsImage(context.Background(), "el", card.Card{})
		require.NoError(t, err)
		require.Equal(t, OutcomeDownloaded, out)
	}
	require.Equal(t, []string{"business-card-shared.png", "business-card-shared.png"}, imgs.downloaded)
}

func TestShareAsImageCancelIsNotAnError(t *testing.T) {
	t.Parallel()

	g := NewGateway(Deps{Images: &fakeImages{png: []byte("p")}, Surface: &fakeSurface{files: true, err: ErrShareCancelled}})
	out, err := g.ShareAsImage(context.Background(), "el", ada)
	require.NoError(t, err)
	require.Equal(t, OutcomeCancelled, out)
}

func TestShareAsTextSurface(t *testing.T) {
	t.Parallel()

	surf := &fakeSurface{}
	clip := &fakeClipboard{}
	g := NewGateway(Deps{Surface: surf, Clipboard: clip})

	out := g.ShareAsText(context.Background(), ada, "Ada Lovelace", Message)
	require.Equal(t, OutcomeShared, out)
	require.Equal(t, []Payload{{Title: "Ada Lovelace", Text: adaBody}}, surf.shared)
	require.Empty(t, clip.text)
}

func TestShareAsTextClipboardFallback(t *testing.T) {
	t.Parallel()

	clip := &fakeClipboard{}
	n := &recNotifier{}
	g := NewGateway(Deps{Surface: &fakeSurface{err: errors.New("surface broke")}, Clipboard: clip, Notifier: n})

	out := g.ShareAsText(context.Background(), ada, "t", Message)
	require.Equal(t, OutcomeCopied, out)
	require.Equal(t, adaBody, clip.text)
	require.Equal(t, []string{CopiedMessage}, n.notices)
	require.Empty(t, n.alerts)
}

func TestShareAsTextCancelledCompletesSilently(t *testing.T) {
	t.Parallel()

	clip := &fakeClipboard{}
	n := &recNotifier{}
	g := NewGateway(Deps{Surface: &fakeSurface{err: ErrShareCancelled}, Clipboard: clip, Notifier: n})

	require.Equal(t, OutcomeCancelled, g.ShareAsText(context.Background(), ada, "t", Message))
	require.Empty(t, clip.text)
	require.Empty(t, n.notices)
	require.Empty(t, n.alerts)
}

func TestShareAsTextNoSurfaceFailingClipboardAlerts(t *testing.T) {
	t.Parallel()

	n := &recNotifier{}
	g := NewGateway(Deps{Clipboard: &fakeClipboard{err: ErrClipboardDenied}, Notifier: n})

	var out Outcome
	require.NotPanics(t, func() {
		out = g.ShareAsText(context.Background(), ada, "t", Message)
	})
	require.Equal(t, OutcomeAlerted, out)
	require.Equal(t, []string{AlertTitle + "|" + adaBody}, n.alerts)

	// nothing wired at all still completes
	require.Equal(t, OutcomeAlerted, NewGateway(Deps{}).ShareAsText(context.Background(), ada, "t", Message))
}

func TestShareFallsBackToText(t *testing.T) {
	t.Parallel()

	clip := &fakeClipboard{}
	g := NewGateway(Deps{Images: &fakeImages{err: errors.New("element not found")}, Clipboard: clip})

	out := g.Share(context.Background(), "share-card-card-1", ada)
	require.Equal(t, OutcomeCopied, out)
	require.Equal(t, adaBody, clip.text)
}

func TestShareImageSurfaceFailureFallsBackToTextSurface(t *testing.T) {
	t.Parallel()

	surf := &fakeSurface{files: true, err: errors.New("too large")}
	n := &recNotifier{}
	g := NewGateway(Deps{Images: &fakeImages{png: []byte("p")}, Surface: surf, Notifier: n})

	out := g.Share(context.Background(), "el", ada)
	require.Equal(t, OutcomeAlerted, out)
	require.Len(t, surf.shared, 2, "image attempt then text attempt")
	require.Len(t, n.alerts, 1)
}

func TestOutcomeString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "copied", OutcomeCopied.String())
	require.Equal(t, "none", Outcome(99).String())
}
