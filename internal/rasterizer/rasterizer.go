// Package rasterizer captures mounted card elements as PNG images.
package rasterizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jask/cardcraft/internal/logging"
	"github.com/jask/cardcraft/internal/render"
)

var ErrElementNotFound = errors.New("element not found")

// RenderError wraps a failure of the capture engine.
type RenderError struct {
	ElementID string
	Err       error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.ElementID, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Target describes one capture.
type Target struct {
	Document  string // full HTML page
	ElementID string
	Width     int // CSS pixels
	Height    int
	Scale     float64 // device scale factor
}

// Capturer turns a page element into PNG bytes. A missing element must be
// reported as ErrElementNotFound.
type Capturer interface {
	Capture(ctx context.Context, t Target) ([]byte, error)
}

// Options tune the capture. Zero Width, Height and Scale take the card
// defaults; a zero Settle captures immediately.
type Options struct {
	Width  int
	Height int
	Scale  float64
	// Settle is how long a freshly mounted element is given to finish
	// rendering before capture.
	Settle time.Duration
	// Dir receives exported files.
	Dir string
	// Open, when set, is called with the path of every exported file.
	Open func(path string) error
}

const (
	DefaultScale  = 3
	DefaultSettle = 500 * time.Millisecond
)

// Rasterizer looks elements up on a Stage and captures them.
type Rasterizer struct {
	stage    *render.Stage
	capturer Capturer
	opts     Options
	log      *zap.Logger
}

func New(stage *render.Stage, c Capturer, opts Options, log *zap.Logger) *Rasterizer {
	if opts.Width <= 0 {
		opts.Width = render.CardWidth
	}
	if opts.Height <= 0 {
		opts.Height = render.CardHeight
	}
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	if opts.Settle < 0 {
		opts.Settle = 0
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	return &Rasterizer{stage: stage, capturer: c, opts: opts, log: logging.OrNop(log).Named("rasterizer")}
}

// RenderPNG captures the element with elementID.
func (r *Rasterizer) RenderPNG(ctx context.Context, elementID string) ([]byte, error) {
	el, ok := r.stage.Lookup(elementID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, elementID)
	}
	if err := r.settle(ctx); err != nil {
		return nil, err
	}
	doc, err := render.Document(el)
	if err != nil {
		return nil, &RenderError{ElementID: elementID, Err: err}
	}
	start := time.Now()
	png, err := r.capturer.Capture(ctx, Target{
		Document:  doc,
		ElementID: elementID,
		Width:     r.opts.Width,
		Height:    r.opts.Height,
		Scale:     r.opts.Scale,
	})
	if err != nil {
		if errors.Is(err, ErrElementNotFound) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &RenderError{ElementID: elementID, Err: err}
	}
	r.log.Debug("captured", zap.String("element", elementID), zap.Int("bytes", len(png)), zap.Duration("took", time.Since(start)))
	return png, nil
}

// ExportPNG captures elementID and saves it as filename in the export
// directory. It returns the written path.
func (r *Rasterizer) ExportPNG(ctx context.Context, elementID, filename string) (string, error) {
	png, err := r.RenderPNG(ctx, elementID)
	if err != nil {
		return "", err
	}
	return r.Download(png, filename)
}

// Download writes png under the export directory as filename.
func (r *Rasterizer) Download(png []byte, filename string) (string, error) {
	name := sanitizeFilename(filename)
	if err := os.MkdirAll(r.opts.Dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir export dir: %w", err)
	}
	path := filepath.Join(r.opts.Dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, png, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	r.log.Info("exported", zap.String("path", path))
	if r.opts.Open != nil {
		if err := r.opts.Open(path); err != nil {
			r.log.Warn("open exported file", zap.String("path", path), zap.Error(err))
		}
	}
	return path, nil
}

func (r *Rasterizer) settle(ctx context.Context) error {
	if r.opts.Settle == 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.opts.Settle)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "business-card.png"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".png") {
		name += ".png"
	}
	return name
}
