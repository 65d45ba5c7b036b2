package rasterizer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/jask/cardcraft/internal/logging"
)

// BrowserConfig selects how Chrome is reached.
type BrowserConfig struct {
	Bin        string // chrome binary; empty lets rod find or download one
	ControlURL string // existing DevTools websocket; skips launching
	Headless   bool
}

// stage size matches the off-screen container cards are mounted into
const (
	stageWidth  = 400
	stageHeight = 300
)

// BrowserCapturer renders targets in headless Chrome. Captures are
// serialised on one browser instance, launched on first use.
type BrowserCapturer struct {
	cfg BrowserConfig
	log *zap.Logger

	mu       sync.Mutex
	browser  *rod.Browser
	launched *launcher.Launcher
}

func NewBrowserCapturer(cfg BrowserConfig, log *zap.Logger) *BrowserCapturer {
	return &BrowserCapturer{cfg: cfg, log: logging.OrNop(log).Named("browser")}
}

func (b *BrowserCapturer) startLocked() error {
	if b.browser != nil {
		if _, err := b.browser.Version(); err == nil {
			return nil
		}
		b.log.Warn("stale browser connection, reconnecting")
		b.closeLocked()
	}

	controlURL := b.cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(b.cfg.Headless)
		if b.cfg.Bin != "" {
			l = l.Bin(b.cfg.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		b.launched = l
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		b.closeLocked()
		return fmt.Errorf("connect to chrome: %w", err)
	}
	b.browser = browser
	b.log.Debug("browser connected", zap.String("control_url", controlURL))
	return nil
}

// Capture implements Capturer.
func (b *BrowserCapturer) Capture(ctx context.Context, t Target) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.startLocked(); err != nil {
		return nil, err
	}

	page, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer func() { _ = page.Close() }()

	w, h := max(t.Width, stageWidth), max(t.Height, stageHeight)
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             w,
		Height:            h,
		DeviceScaleFactor: t.Scale,
	}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	if err := page.SetDocumentContent(t.Document); err != nil {
		return nil, fmt.Errorf("set content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	has, el, err := page.Has("#" + t.ElementID)
	if err != nil {
		return nil, fmt.Errorf("query element: %w", err)
	}
	if !has {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, t.ElementID)
	}
	png, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return png, nil
}

// Close shuts the browser down; a later Capture relaunches it.
func (b *BrowserCapturer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closeLocked()
}

func (b *BrowserCapturer) closeLocked() error {
	var err error
	if b.browser != nil {
		err = b.browser.Close()
		b.browser = nil
	}
	if b.launched != nil {
		b.launched.Kill()
		b.launched = nil
	}
	return err
}
