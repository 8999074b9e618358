package x11

import (
	"errors"
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
)

// ErrOtherWM is returned by BecomeWM when another window manager holds
// substructure redirection on the root window.
var ErrOtherWM = errors.New("x11: another window manager is running")

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil  *xgbutil.XUtil
	Root   xproto.Window
	Screen *xproto.ScreenInfo

	randr    bool
	xinerama bool
	// managing is set once BecomeWM succeeded.
	managing bool

	atomsMu sync.Mutex
	atoms   map[string]xproto.Atom
}

// NewConnection establishes a connection to the X11 server and initializes required extensions
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	// Keysym lookups and key grabs need the keyboard mapping.
	keybind.Initialize(xu)

	return &Connection{
		XUtil:  xu,
		Root:   xu.RootWin(),
		Screen: xu.Screen(),
		atoms:  make(map[string]xproto.Atom),
	}, nil
}

// BecomeWM selects substructure redirection on the root window. Only one
// client may hold it at a time. Calling it again after success is a no-op.
func (c *Connection) BecomeWM() error {
	if c.managing {
		return nil
	}
	err := xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), c.Root, xproto.CwEventMask, []uint32{
		xproto.EventMaskSubstructureRedirect |
			xproto.EventMaskSubstructureNotify |
			xproto.EventMaskButtonPress |
			xproto.EventMaskButtonRelease |
			xproto.EventMaskPointerMotion |
			xproto.EventMaskEnterWindow |
			xproto.EventMaskPropertyChange,
	}).Check()
	if err == nil {
		c.managing = true
		return nil
	}
	if _, ok := err.(xproto.AccessError); ok {
		return ErrOtherWM
	}
	return fmt.Errorf("select root events: %w", err)
}

// initExtensions probes RandR and xinerama. Neither is required.
func (c *Connection) initExtensions() {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err == nil {
		c.randr = true
		randr.SelectInput(conn, c.Root, randr.NotifyMaskScreenChange)
	}
	if err := xinerama.Init(conn); err == nil {
		c.xinerama = true
	}
}

// Atom interns name, caching the result.
func (c *Connection) Atom(name string) (xproto.Atom, error) {
	c.atomsMu.Lock()
	defer c.atomsMu.Unlock()
	if a, ok := c.atoms[name]; ok {
		return a, nil
	}
	reply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	c.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// internAtoms interns every name up front so later lookups never block.
func (c *Connection) internAtoms(names ...string) error {
	for _, name := range names {
		if _, err := c.Atom(name); err != nil {
			return err
		}
	}
	return nil
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
