package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/tagtile/internal/bindings"
)

// Grab replaces the passive key and button grabs on the root window with
// the combos in t. Lock modifiers are grabbed in every combination so
// bindings keep working with Caps Lock or Num Lock on.
func (b *Backend) Grab(t *bindings.Table) error {
	conn := b.conn.XUtil.Conn()
	root := b.conn.Root
	xproto.UngrabKey(conn, xproto.GrabAny, root, xproto.ModMaskAny)
	xproto.UngrabButton(conn, xproto.ButtonIndexAny, root, xproto.ModMaskAny)
	if t == nil {
		return nil
	}

	var missing []string
	for _, k := range t.Keys {
		codes := keybind.StrToKeycodes(b.conn.XUtil, k.Sym)
		if len(codes) == 0 {
			missing = append(missing, k.Sym)
			continue
		}
		for _, code := range codes {
			for _, ignore := range xevent.IgnoreMods {
				xproto.GrabKey(conn, true, root, uint16(k.Mods)|ignore, code,
					xproto.GrabModeAsync, xproto.GrabModeAsync)
			}
		}
	}
	for _, btn := range t.Buttons {
		for _, ignore := range xevent.IgnoreMods {
			xproto.GrabButton(conn, false, root,
				xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease|xproto.EventMaskPointerMotion,
				xproto.GrabModeAsync, xproto.GrabModeAsync, xproto.WindowNone, xproto.CursorNone,
				byte(btn.Button), uint16(btn.Mods)|ignore)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("no keycode for keysyms %v", missing)
	}
	return nil
}

// keySyms lists the keysym names code produces, unshifted first, then
// under state. Duplicates and unknown syms are dropped.
func keySyms(xu *xgbutil.XUtil, state uint16, code xproto.Keycode) []string {
	var syms []string
	for _, mods := range []uint16{0, state} {
		s := keybind.LookupString(xu, mods, code)
		if s == "" || (len(syms) > 0 && syms[0] == s) {
			continue
		}
		syms = append(syms, s)
	}
	return syms
}

// modifiers converts a core protocol state mask. Pointer button bits and
// the locks in ignore are dropped.
func modifiers(state, ignore uint16) bindings.Modifier {
	return bindings.Modifier(state &^ ignore & 0xff)
}

// configureIgnoreMods makes every grab cover the lock modifiers and returns
// the Num Lock and Scroll Lock bits.
func configureIgnoreMods(xu *xgbutil.XUtil) uint16 {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
	return numLock | scrollLock
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
