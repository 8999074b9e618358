package daemon

import (
	"context"
	"log/slog"
	"sync"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/wm"
)

// ColorSetter is implemented by backends that paint borders and the root
// window themselves.
type ColorSetter interface {
	SetColors(config.Colors) error
}

// Controller runs requests from the IPC, HTTP and MCP surfaces on the event
// loop. It satisfies ipc.Controller and api.Controller.
type Controller struct {
	loop       *wm.Loop
	configPath string
	colors     ColorSetter
	log        *slog.Logger

	reloadMu sync.Mutex
}

// NewController wraps loop. colors may be nil.
func NewController(loop *wm.Loop, configPath string, colors ColorSetter, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{loop: loop, configPath: configPath, colors: colors, log: logger}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot(ctx context.Context) (wm.Snapshot, error) {
	return c.loop.Snapshot(ctx)
}

// Exec runs a named command with the same parsing key bindings get.
func (c *Controller) Exec(ctx context.Context, command string, arg any) error {
	var err error
	if derr := c.loop.Do(ctx, func(s *wm.State) { err = s.Exec(command, arg) }); derr != nil {
		return derr
	}
	return err
}

// Subscribe forwards to the loop.
func (c *Controller) Subscribe() (<-chan wm.Snapshot, func()) {
	return c.loop.Subscribe()
}

// Reload reads the config file again and applies it. An invalid file
// leaves the running configuration untouched.
func (c *Controller) Reload(ctx context.Context) error {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	res, err := config.LoadFromPath(c.configPath)
	if err != nil {
		c.log.Warn("config reload failed", "path", c.configPath, "error", err)
		return err
	}
	cfg := res.Config

	var applyErr error
	if err := c.loop.Do(ctx, func(s *wm.State) { applyErr = s.Reload(cfg) }); err != nil {
		return err
	}
	if applyErr != nil {
		c.log.Warn("config reload rejected", "error", applyErr)
		return applyErr
	}
	if c.colors != nil {
		if err := c.colors.SetColors(cfg.Colors); err != nil {
			c.log.Warn("apply colors", "error", err)
		}
	}
	return nil
}
