// Package wm is the window manager core: tags, client orderings, monitors,
// layouts, layer exclusive zones, focus and input dispatch. It consumes
// platform events and drives a platform.Backend; it does no I/O of its own.
package wm

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/tagtile/internal/bindings"
	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/tagset"
)

// Options configures a State.
type Options struct {
	Backend platform.Backend
	// Config defaults to config.DefaultConfig().
	Config *config.Config
	Logger *slog.Logger
}

// State is the single owner of all window manager state. It is not safe for
// concurrent use; Loop serializes access.
type State struct {
	backend platform.Backend
	log     *slog.Logger

	cfg     *config.Config
	table   *bindings.Table
	tagMask tagset.Mask

	clients *Registry
	mons    []*Monitor
	selmon  *Monitor
	layers  map[platform.LayerID]*LayerSurface
	// sgeom bounds all outputs.
	sgeom  geom.Rect
	gapsOn bool

	cursor cursorState
	// kbdLayer is the layer surface holding keyboard focus, if any.
	kbdLayer platform.LayerID
	pointer  platform.Target

	quitting bool
}

type cursorState struct {
	x, y         float64
	mode         bindings.Mode
	grab         Handle
	grabX, grabY float64
}

// New validates opts.Config and returns an empty State.
func New(opts Options) (*State, error) {
	if opts.Backend == nil {
		return nil, errors.New("wm: nil backend")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &State{
		backend: opts.Backend,
		log:     logger,
		clients: NewRegistry(),
		layers:  make(map[platform.LayerID]*LayerSurface),
		gapsOn:  cfg.Gaps.Enabled,
	}
	if err := s.applyConfig(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *State) applyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	table, err := cfg.Bindings()
	if err != nil {
		return err
	}
	if g, ok := s.backend.(platform.Grabber); ok {
		if err := g.Grab(table); err != nil {
			return fmt.Errorf("grab bindings: %w", err)
		}
	}
	s.cfg = cfg
	s.table = table
	s.tagMask = tagset.Full(len(cfg.Tags))
	return nil
}

// Reload swaps in a new configuration. Clients and monitors are kept; tags
// and layout indices that no longer exist are clamped.
func (s *State) Reload(cfg *config.Config) error {
	if err := s.applyConfig(cfg); err != nil {
		return err
	}
	for _, m := range s.mons {
		for i := range m.Tagset {
			if m.Tagset[i] &= s.tagMask; m.Tagset[i] == 0 {
				m.Tagset[i] = 1
			}
		}
		for i, l := range m.Layouts {
			if l >= len(cfg.Layouts) {
				m.Layouts[i] = 0
			}
		}
	}
	for c := range s.clients.Clients() {
		if c.Tags &= s.tagMask; c.Tags == 0 {
			c.Tags = 1
		}
	}
	s.arrangeAll()
	s.log.Info("configuration reloaded", "tags", len(cfg.Tags), "layouts", len(cfg.Layouts))
	return nil
}

// Config returns the active configuration.
func (s *State) Config() *config.Config { return s.cfg }

// Clients exposes the registry read-only by convention.
func (s *State) Clients() *Registry { return s.clients }

// Monitors returns monitors in placement order.
func (s *State) Monitors() []*Monitor { return s.mons }

// SelectedMonitor returns the monitor commands act on, or nil.
func (s *State) SelectedMonitor() *Monitor { return s.selmon }

// Cursor returns the pointer position in layout coordinates.
func (s *State) Cursor() (float64, float64) { return s.cursor.x, s.cursor.y }

// GapsEnabled reports the global gap switch.
func (s *State) GapsEnabled() bool { return s.gapsOn }

// Quitting reports whether the quit command ran.
func (s *State) Quitting() bool { return s.quitting }

// Layer returns the layer surface record for id, or nil.
func (s *State) Layer(id platform.LayerID) *LayerSurface { return s.layers[id] }

func (s *State) arrangeAll() {
	for _, m := range s.mons {
		s.arrange(m)
	}
}
