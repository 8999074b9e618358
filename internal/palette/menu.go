package palette

import (
	"errors"
	"fmt"

	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/1broseidon/tagtile/internal/tagset"
	"github.com/1broseidon/tagtile/internal/wm"
)

// Runner executes a command in the running window manager.
type Runner interface {
	Run(command string, arg any) error
}

// Build lists the commands worth offering for the current state. Rows that
// match the selected monitor's view or layout are marked active.
func Build(snap wm.Snapshot, layouts []layout.Layout) []Item {
	sel, hasSel := snap.Monitor(snap.SelectedMonitor)
	var items []Item

	items = append(items, Item{Label: "View", IsHeader: true})
	for i, name := range snap.Tags {
		items = append(items, Item{
			Label:    fmt.Sprintf("view %s", name),
			Command:  "view",
			Arg:      []int{i + 1},
			Meta:     fmt.Sprintf("tag %d", i+1),
			IsActive: hasSel && tagset.Mask(sel.Tags) == tagset.Bit(i),
		})
	}
	items = append(items, Item{Label: "view all", Command: "view", Arg: "all"})

	if focused, ok := snap.FocusedClient(); ok {
		items = append(items, Item{Label: "Focused: " + focused.AppID, IsHeader: true})
		for i, name := range snap.Tags {
			items = append(items, Item{
				Label:    fmt.Sprintf("move to %s", name),
				Command:  "tag",
				Arg:      []int{i + 1},
				IsActive: tagset.Mask(focused.Tags).Has(tagset.Bit(i)),
			})
		}
		items = append(items,
			Item{Label: "zoom", Command: "zoom"},
			Item{Label: "toggle floating", Command: "togglefloating", IsActive: focused.Floating},
			Item{Label: "toggle fullscreen", Command: "togglefullscreen", IsActive: focused.Fullscreen},
			Item{Label: "close", Command: "killclient", Meta: "kill quit"},
		)
		if len(snap.Monitors) > 1 {
			items = append(items, Item{Label: "send to next monitor", Command: "tagmon", Arg: 1})
		}
	}

	items = append(items, Item{Label: "Layout", IsHeader: true})
	for _, l := range layouts {
		items = append(items, Item{
			Label:    fmt.Sprintf("%s %s", l.Symbol, l.Kind),
			Command:  "setlayout",
			Arg:      l.Symbol,
			IsActive: hasSel && sel.Layout == l.Symbol,
		})
	}

	items = append(items, Item{Label: "Gaps", IsHeader: true},
		Item{Label: "toggle gaps", Command: "togglegaps", IsActive: snap.GapsEnabled},
		Item{Label: "default gaps", Command: "defaultgaps"},
	)

	if len(snap.Monitors) > 1 {
		items = append(items, Item{Label: "Monitor", IsHeader: true},
			Item{Label: "focus next monitor", Command: "focusmon", Arg: 1},
			Item{Label: "focus previous monitor", Command: "focusmon", Arg: -1},
		)
	}
	return items
}

// Show presents items with b and runs the selection through r. A cancelled
// menu is not an error.
func Show(b Backend, r Runner, items []Item) error {
	item, err := b.Show("tagtile", items)
	if errors.Is(err, ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}
	if item.Command == "" {
		return fmt.Errorf("menu: %q has no command", item.Label)
	}
	return r.Run(item.Command, item.Arg)
}
