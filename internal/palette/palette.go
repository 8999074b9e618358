// Package palette shows window manager commands in a dmenu-style launcher
// and runs the one the user picks.
package palette

import (
	"fmt"
	"os/exec"
	"strings"
)

// Item is one row of the menu.
type Item struct {
	Label    string
	Command  string
	Arg      any
	Meta     string // extra search keywords, rofi only
	IsHeader bool   // section title, not selectable
	IsActive bool   // current state, highlighted by rofi
}

// Backend shows items and returns the one selected.
type Backend interface {
	Show(prompt string, items []Item) (Item, error)
}

// backends are tried in this order by DetectBackend.
var backends = []string{"rofi", "dmenu"}

// DetectBackend returns the first launcher found in PATH.
func DetectBackend() (string, error) {
	for _, name := range backends {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no menu backend found in PATH (looked for: %s)", strings.Join(backends, ", "))
}

// NewBackend creates a backend by name. An empty name or "auto" picks the
// first one installed.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		name = detected
	}
	switch name {
	case "rofi":
		if _, err := exec.LookPath("rofi"); err != nil {
			return nil, fmt.Errorf("menu backend %q not found in PATH", name)
		}
		return newRofi(), nil
	case "dmenu":
		if _, err := exec.LookPath("dmenu"); err != nil {
			return nil, fmt.Errorf("menu backend %q not found in PATH", name)
		}
		return newDmenu(), nil
	default:
		return nil, fmt.Errorf("unknown menu backend: %q (expected: auto, %s)", name, strings.Join(backends, ", "))
	}
}
