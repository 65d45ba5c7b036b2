// Package share delivers a card to a share surface, falling back to the
// clipboard and finally to showing the text to the user.
package share

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jask/cardcraft/internal/card"
	"github.com/jask/cardcraft/internal/logging"
)

var (
	ErrShareUnsupported = errors.New("share surface unavailable")
	ErrShareCancelled   = errors.New("share cancelled")
	ErrClipboardDenied  = errors.New("clipboard write denied")
)

const (
	Message       = "Check out my business card created with CardCraft!"
	CopiedMessage = "Card information copied to clipboard!"
	AlertTitle    = "Share this information"
)

// Attachment is a file handed to a share surface.
type Attachment struct {
	Name string
	MIME string
	Data []byte
}

// Payload is what a surface is asked to share.
type Payload struct {
	Title string
	Text  string
	Files []Attachment
}

// Surface is a native share target. Share returns ErrShareCancelled when the
// user dismisses it.
type Surface interface {
	CanShareFiles() bool
	Share(ctx context.Context, p Payload) error
}

type Clipboard interface {
	WriteText(text string) error
}

// Notifier shows transient notices and blocking alerts.
type Notifier interface {
	Notify(msg string)
	Alert(title, text string)
}

// ImageSource rasterizes mounted elements and saves images locally.
type ImageSource interface {
	RenderPNG(ctx context.Context, elementID string) ([]byte, error)
	Download(png []byte, filename string) (string, error)
}

// Outcome names the stage a share finished at.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeShared
	OutcomeDownloaded
	OutcomeCancelled
	OutcomeCopied
	OutcomeAlerted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeShared:
		return "shared"
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeCopied:
		return "copied"
	case OutcomeAlerted:
		return "alerted"
	}
	return "none"
}

// Deps wires a Gateway. Surface, Clipboard and Notifier may be nil.
type Deps struct {
	Images    ImageSource
	Surface   Surface
	Clipboard Clipboard
	Notifier  Notifier
	Logger    *zap.Logger
}

type Gateway struct {
	images    ImageSource
	surface   Surface
	clipboard Clipboard
	notify    Notifier
	log       *zap.Logger
}

func NewGateway(d Deps) *Gateway {
	n := d.Notifier
	if n == nil {
		n = nopNotifier{}
	}
	return &Gateway{
		images:    d.Images,
		surface:   d.Surface,
		clipboard: d.Clipboard,
		notify:    n,
		log:       logging.OrNop(d.Logger).Named("share"),
	}
}

// ShareAsImage rasterizes elementID and hands the PNG to the surface, or
// saves it locally when the surface cannot take files.
func (g *Gateway) ShareAsImage(ctx context.Context, elementID string, c card.Card) (Outcome, error) {
	if g.images == nil {
		return OutcomeNone, fmt.Errorf("share image: no rasterizer")
	}
	png, err := g.images.RenderPNG(ctx, elementID)
	if err != nil {
		return OutcomeNone, err
	}
	if g.surface != nil && g.surface.CanShareFiles() {
		err := g.surface.Share(ctx, Payload{
			Title: c.DisplayName(card.DefaultTitle),
			Text:  Message,
			Files: []Attachment{{Name: c.AttachmentFilename(), MIME: "image/png", Data: png}},
		})
		switch {
		case errors.Is(err, ErrShareCancelled):
			return OutcomeCancelled, nil
		case err != nil:
			return OutcomeNone, fmt.Errorf("share image: %w", err)
		}
		return OutcomeShared, nil
	}
	if _, err := g.images.Download(png, c.SharedFilename()); err != nil {
		return OutcomeNone, err
	}
	return OutcomeDownloaded, nil
}

type textAttempt struct {
	stage string
	run   func(ctx context.Context, title, body string) (Outcome, error)
}

// ShareAsText sends text followed by the card summary. It tries the surface,
// then the clipboard, then shows an alert; it always completes.
func (g *Gateway) ShareAsText(ctx context.Context, c card.Card, title, text string) Outcome {
	body := text + "\n\n" + c.ShareSummary()
	attempts := []textAttempt{
		{stage: "surface", run: g.textViaSurface},
		{stage: "clipboard", run: g.textViaClipboard},
	}
	for _, a := range attempts {
		out, err := a.run(ctx, title, body)
		if err == nil {
			return out
		}
		g.log.Debug("text share stage failed", zap.String("stage", a.stage), zap.Error(err))
	}
	g.notify.Alert(AlertTitle, body)
	return OutcomeAlerted
}

// Share runs the full chain: image first, then text.
func (g *Gateway) Share(ctx context.Context, elementID string, c card.Card) Outcome {
	out, err := g.ShareAsImage(ctx, elementID, c)
	if err == nil {
		return out
	}
	g.log.Info("image share failed, falling back to text", zap.String("card", c.ID), zap.Error(err))
	return g.ShareAsText(ctx, c, c.DisplayName(card.DefaultTitle), Message)
}

func (g *Gateway) textViaSurface(ctx context.Context, title, body string) (Outcome, error) {
	if g.surface == nil {
		return OutcomeNone, ErrShareUnsupported
	}
	err := g.surface.Share(ctx, Payload{Title: title, Text: body})
	switch {
	case errors.Is(err, ErrShareCancelled):
		return OutcomeCancelled, nil
	case err != nil:
		return OutcomeNone, err
	}
	return OutcomeShared, nil
}

func (g *Gateway) textViaClipboard(_ context.Context, _, body string) (Outcome, error) {
	if g.clipboard == nil {
		return OutcomeNone, ErrClipboardDenied
	}
	if err := g.clipboard.WriteText(body); err != nil {
		return OutcomeNone, err
	}
	g.notify.Notify(CopiedMessage)
	return OutcomeCopied, nil
}

type nopNotifier struct{}

func (nopNotifier) Notify(string)        {}
func (nopNotifier) Alert(string, string) {}
