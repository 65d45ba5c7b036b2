package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jask/cardcraft/internal/card"
	"github.com/jask/cardcraft/internal/logging"
	"github.com/jask/cardcraft/internal/render"
	"github.com/jask/cardcraft/internal/share"
)

// ErrBusy is returned when the card already has an export or share running.
var ErrBusy = errors.New("operation already in progress for card")

// PNGExporter saves a mounted element as an image file.
type PNGExporter interface {
	ExportPNG(ctx context.Context, elementID, filename string) (string, error)
}

// CardSharer runs the share fallback chain for a mounted element.
type CardSharer interface {
	Share(ctx context.Context, elementID string, c card.Card) share.Outcome
}

// ExporterService mounts a card off-screen, runs an export or share against
// it and unmounts it again. At most one operation runs per card.
type ExporterService struct {
	Stage  *render.Stage
	Images PNGExporter
	Sharer CardSharer
	Logger *zap.Logger

	mu   sync.Mutex
	busy map[string]string // card id -> operation
}

// Export renders c to <name>-business-card.png and returns the file path.
func (s *ExporterService) Export(ctx context.Context, c card.Card) (string, error) {
	return s.export(ctx, c, render.ExportElementID(c.ID), true)
}

// ExportPreview exports the builder preview after refreshing it with c.
func (s *ExporterService) ExportPreview(ctx context.Context, c card.Card) (string, error) {
	return s.export(ctx, c, render.PreviewElementID, false)
}

// Share delivers c through the share chain. The chain itself always
// completes, so the only errors are ErrBusy and a failed mount.
func (s *ExporterService) Share(ctx context.Context, c card.Card) (share.Outcome, error) {
	return s.share(ctx, c, render.ShareElementID(c.ID), true)
}

// SharePreview shares the builder preview after refreshing it with c.
func (s *ExporterService) SharePreview(ctx context.Context, c card.Card) (share.Outcome, error) {
	return s.share(ctx, c, render.PreviewElementID, false)
}

// Preview mounts c as the live builder preview, replacing the previous draft.
func (s *ExporterService) Preview(c card.Card) error {
	return s.Stage.Mount(render.PreviewElementID, c)
}

// ClosePreview unmounts the builder preview.
func (s *ExporterService) ClosePreview() {
	s.Stage.Unmount(render.PreviewElementID)
}

func (s *ExporterService) export(ctx context.Context, c card.Card, elementID string, temporary bool) (string, error) {
	if s.Images == nil {
		return "", fmt.Errorf("export: rasterizer not configured")
	}
	release, err := s.acquire(c.ID, "export")
	if err != nil {
		return "", err
	}
	defer release()

	unmount, err := s.mount(elementID, c, temporary)
	defer unmount()
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	path, err := s.Images.ExportPNG(ctx, elementID, c.ExportFilename())
	if err != nil {
		s.log().Warn("export failed", zap.String("card", c.ID), zap.String("element", elementID), zap.Error(err))
		return "", fmt.Errorf("export: %w", err)
	}
	return path, nil
}

func (s *ExporterService) share(ctx context.Context, c card.Card, elementID string, temporary bool) (share.Outcome, error) {
	if s.Sharer == nil {
		return share.OutcomeNone, fmt.Errorf("share: gateway not configured")
	}
	release, err := s.acquire(c.ID, "share")
	if err != nil {
		return share.OutcomeNone, err
	}
	defer release()

	unmount, err := s.mount(elementID, c, temporary)
	defer unmount()
	if err != nil {
		return share.OutcomeNone, fmt.Errorf("share: %w", err)
	}
	out := s.Sharer.Share(ctx, elementID, c)
	s.log().Info("shared", zap.String("card", c.ID), zap.Stringer("outcome", out))
	return out, nil
}

// mount places c under elementID. Temporary elements are removed by the
// returned func; the preview stays mounted.
func (s *ExporterService) mount(elementID string, c card.Card, temporary bool) (func(), error) {
	if temporary {
		return s.Stage.MountTemporary(elementID, c)
	}
	return func() {}, s.Stage.Mount(elementID, c)
}

// Busy reports the running operation for id, if any.
func (s *ExporterService) Busy(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, ok := s.busy[id]
	return op, ok
}

func (s *ExporterService) acquire(id, op string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy == nil {
		s.busy = map[string]string{}
	}
	if running, ok := s.busy[id]; ok {
		return nil, fmt.Errorf("%w: %s %s", ErrBusy, running, id)
	}
	s.busy[id] = op
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.busy, id)
	}, nil
}

func (s *ExporterService) log() *zap.Logger {
	return logging.OrNop(s.Logger)
}
