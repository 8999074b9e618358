// Package daemon runs the window manager: it connects to the display,
// drives the event loop and serves the control surfaces.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/tagtile/internal/api"
	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/wm"
	"github.com/1broseidon/tagtile/internal/x11"
)

// Options configures Run.
type Options struct {
	// ConfigPath defaults to config.DefaultConfigPath.
	ConfigPath string
	// Loaded is the already loaded ConfigPath, if the caller has it.
	Loaded *config.LoadResult
	// HTTPListen overrides http_listen from the config when set.
	HTTPListen string
	// Startup is a shell command spawned once the loop is running.
	Startup string
	Logger  *slog.Logger
}

// Run manages the display until ctx is done or the quit command runs.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	path := opts.ConfigPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	res := opts.Loaded
	if res == nil {
		var err error
		if res, err = config.LoadFromPath(path); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	cfg := res.Config

	conn, err := x11.NewConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	// NewBackend claims substructure redirect and fails with ErrOtherWM.
	backend, err := x11.NewBackend(conn, cfg.Colors, logger)
	if err != nil {
		return err
	}
	state, err := wm.New(wm.Options{Backend: backend, Config: cfg, Logger: logger})
	if err != nil {
		return err
	}
	loop := wm.NewLoop(state, backend.Events(), logger)
	ctrl := NewController(loop, path, backend, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ipcServer, err := ipc.NewServer(ctrl)
	if err != nil {
		return err
	}
	if err := ipcServer.Start(); err != nil {
		return err
	}
	defer ipcServer.Stop()

	addr := opts.HTTPListen
	if addr == "" {
		addr = cfg.HTTPListen
	}
	if addr != "" {
		srv := api.NewServer(ctrl, logger)
		go func() {
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				logger.Error("http api stopped", "error", err)
			}
		}()
	}

	if cfg.WatchConfig {
		go func() {
			err := WatchConfig(ctx, logger, path, func() {
				// Errors are logged by Reload.
				_ = ctrl.Reload(ctx)
			})
			if err != nil {
				logger.Warn("config watching disabled", "error", err)
			}
		}()
	}

	backendErr := make(chan error, 1)
	go func() { backendErr <- backend.Run(ctx) }()

	if opts.Startup != "" {
		go func() {
			if err := ctrl.Exec(ctx, "spawn", []string{"/bin/sh", "-c", opts.Startup}); err != nil {
				logger.Warn("startup command", "command", opts.Startup, "error", err)
			}
		}()
	}

	logger.Info("tagtile running", "config", path, "files", len(res.Files))
	err = loop.Run(ctx)
	cancel()
	if berr := <-backendErr; err == nil && berr != nil && !errors.Is(berr, context.Canceled) {
		err = berr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
