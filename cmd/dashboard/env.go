package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-dashboard/internal/applog"
	"github.com/vovakirdan/tui-dashboard/internal/board"
	"github.com/vovakirdan/tui-dashboard/internal/config"
	"github.com/vovakirdan/tui-dashboard/internal/grid"
	"github.com/vovakirdan/tui-dashboard/internal/platform/tui"
	"github.com/vovakirdan/tui-dashboard/internal/registry"
	"github.com/vovakirdan/tui-dashboard/internal/storage"
)

// env is what every command needs: configuration, a logger and, once
// opened, the storage backend.
type env struct {
	cfg    config.DashboardConfig
	grid   grid.Config
	logger *log.Logger
	kv     storage.KV
}

// loadEnv reads the config and applies the global flags. Log output goes to
// w; the interactive commands pass io.Discard or a file so logging does not
// tear the screen.
func loadEnv(w io.Writer) (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagPreset != "" {
		preset, err := config.ParsePreset(flagPreset)
		if err != nil {
			return nil, err
		}
		config.ApplyPreset(&cfg, preset)
	}
	if flagStore != "" {
		cfg.Storage.DSN = flagStore
	}
	if flagKey != "" {
		cfg.Storage.Key = flagKey
	}
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = board.DefaultStorageKey
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	level, err := applog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	gridCfg, err := cfg.GridSpec()
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:    cfg,
		grid:   gridCfg,
		logger: applog.New(w, level),
	}, nil
}

// open connects to the configured storage backend.
func (e *env) open(ctx context.Context) error {
	kv, err := storage.Open(ctx, e.cfg.Storage.DSN)
	if err != nil {
		return err
	}
	e.kv = kv
	e.logger.Debug("storage opened", "dsn", e.cfg.Storage.DSN)
	return nil
}

func (e *env) close() {
	if e.kv == nil {
		return
	}
	if err := e.kv.Close(); err != nil {
		e.logger.Warn("failed to close storage", "err", err)
	}
}

// loadBoard reads the board stored under the configured key.
func (e *env) loadBoard(ctx context.Context) (*board.Store, error) {
	store := board.NewStore(e.grid, board.WithLogger(e.logger))
	if err := store.Load(ctx, e.kv, e.cfg.Storage.Key); err != nil {
		return nil, err
	}
	return store, nil
}

// catalog builds the sidebar catalog from the config.
func (e *env) catalog() *registry.Catalog {
	var order []board.TileType
	sizes := make(map[board.TileType]grid.Size)
	for _, typ := range e.cfg.CatalogTypes() {
		if !registry.Exists(board.TileType(typ)) {
			e.logger.Warn("catalog lists unknown widget", "type", typ)
			continue
		}
		order = append(order, board.TileType(typ))
		if size, ok := e.cfg.CatalogSize(typ); ok {
			sizes[board.TileType(typ)] = size
		}
	}
	return registry.NewCatalog(order, sizes)
}

// viewOptions maps the UI config onto the dashboard view.
func (e *env) viewOptions() tui.Options {
	return tui.Options{
		CellWidth:    e.cfg.UI.CellWidth,
		CellHeight:   e.cfg.UI.CellHeight,
		SidebarWidth: e.cfg.UI.SidebarWidth,
		TickRate:     e.cfg.UI.TickRate,
		Logger:       e.logger,
	}
}

// openLogFile opens path for appending, or returns io.Discard for "".
func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
