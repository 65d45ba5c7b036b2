package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/jask/cardcraft/internal/config"
	"github.com/jask/cardcraft/internal/database"
	"github.com/jask/cardcraft/internal/database/repository"
	"github.com/jask/cardcraft/internal/logging"
	"github.com/jask/cardcraft/internal/prefs"
	"github.com/jask/cardcraft/internal/rasterizer"
	"github.com/jask/cardcraft/internal/render"
	"github.com/jask/cardcraft/internal/service"
	"github.com/jask/cardcraft/internal/share"
	"github.com/jask/cardcraft/internal/store"
)

// runtime is everything a command needs, built from config.
type runtime struct {
	cfg      config.Config
	log      *zap.Logger
	db       *sql.DB            // nil unless the sqlite driver is selected
	kv       *repository.KVRepo // likewise
	store    *store.Store
	exporter *service.ExporterService
	closers  []func()
}

// openRuntime wires the app. With logToFile the logger writes to the
// configured file so a full-screen UI keeps the terminal.
func openRuntime(ctx context.Context, notifier share.Notifier, logToFile bool) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logOpts := logging.Options{Level: cfg.Log.Level, Verbose: verbose}
	if logToFile {
		logOpts.File = cfg.Log.File
	}
	log, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, log: log}
	rt.closers = append(rt.closers, func() { _ = log.Sync() })

	backend, err := rt.openBackend()
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.store = store.New(backend, log)

	stage := render.NewStage()
	capturer := rasterizer.NewBrowserCapturer(rasterizer.BrowserConfig{
		Bin:        cfg.Browser.Bin,
		ControlURL: cfg.Browser.ControlURL,
		Headless:   cfg.Browser.Headless,
	}, log)
	rt.closers = append(rt.closers, func() { _ = capturer.Close() })

	rastOpts := rasterizer.Options{
		Width:  cfg.Export.Width,
		Height: cfg.Export.Height,
		Scale:  cfg.Export.Scale,
		Settle: cfg.Export.SettleDelay,
		Dir:    cfg.Export.Dir,
	}
	if cfg.Export.OpenAfter {
		rastOpts.Open = browser.OpenFile
	}
	rast := rasterizer.New(stage, capturer, rastOpts, log)

	deps := share.Deps{
		Images:    rast,
		Clipboard: share.SystemClipboard{},
		Notifier:  notifier,
		Logger:    log,
	}
	surface, err := share.ConnectNATS(share.NATSConfig{
		URL:     cfg.Share.NATSURL,
		Subject: cfg.Share.Subject,
		Token:   cfg.Share.ResolveToken(),
	}, log)
	switch {
	case err == nil:
		deps.Surface = surface
		rt.closers = append(rt.closers, surface.Close)
	case errors.Is(err, share.ErrShareUnsupported):
		log.Debug("no share surface configured")
	default:
		// sharing still works through the clipboard
		log.Warn("share surface unavailable", zap.Error(err))
	}

	rt.exporter = &service.ExporterService{
		Stage:  stage,
		Images: rast,
		Sharer: share.NewGateway(deps),
		Logger: log,
	}
	return rt, nil
}

func (rt *runtime) openBackend() (store.Backend, error) {
	switch rt.cfg.Store.Driver {
	case "file":
		dir := rt.cfg.Store.Dir
		if dir == "" {
			d, err := prefs.DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return prefs.FileStore{Dir: dir}, nil
	case "memory":
		return store.NewMemory(), nil
	default:
		if err := os.MkdirAll(filepath.Dir(rt.cfg.Store.Path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
		db, err := database.OpenAndMigrate(rt.cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		rt.db = db
		rt.closers = append(rt.closers, func() { _ = db.Close() })
		rt.kv = repository.NewKVRepo(db)
		return rt.kv, nil
	}
}

// Close releases resources in reverse order of acquisition.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}
