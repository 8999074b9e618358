package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// ErrCancelled is returned when the menu is closed without a selection.
var ErrCancelled = errors.New("menu cancelled")

// launcher drives rofi in dmenu mode or dmenu itself. Both read rows on
// stdin and print the selection on stdout.
type launcher struct {
	command string
	rofi    bool
}

func newRofi() *launcher  { return &launcher{command: "rofi", rofi: true} }
func newDmenu() *launcher { return &launcher{command: "dmenu"} }

type rowStates struct {
	active      []int
	selectedRow int
	hasSelected bool
}

func (b *launcher) Show(prompt string, items []Item) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("menu: no items to show")
	}
	display := append([]Item(nil), items...)
	input, states := b.formatInput(display)

	cmd := exec.Command(b.command, b.buildArgs(prompt, states)...)
	cmd.Stdin = strings.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Item{}, fmt.Errorf("%s failed: %s", b.command, msg)
		}
		return Item{}, fmt.Errorf("%s failed: %w", b.command, err)
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}
	return b.parseSelection(selection, display)
}

func (b *launcher) buildArgs(prompt string, states rowStates) []string {
	if !b.rofi {
		args := []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		return args
	}
	args := []string{"-dmenu", "-i"}
	if prompt != "" {
		args = append(args, "-p", prompt)
	}
	// Select by row index; labels may collide once markup is stripped.
	args = append(args, "-format", "i", "-no-custom", "-markup-rows")
	if len(states.active) > 0 {
		args = append(args, "-a", formatIndices(states.active))
	}
	if states.hasSelected {
		args = append(args, "-selected-row", strconv.Itoa(states.selectedRow))
	}
	return args
}

// formatInput renders one line per item. dmenu matches by text, so
// duplicate labels get a numeric suffix and headers are dropped later at
// parse time.
func (b *launcher) formatInput(items []Item) (string, rowStates) {
	var states rowStates
	if !b.rofi {
		seen := make(map[string]int)
		for i := range items {
			if items[i].IsHeader {
				continue
			}
			key := sanitizeLabel(items[i].Label)
			if n := seen[key]; n > 0 {
				items[i].Label = fmt.Sprintf("%s (%d)", key, n+1)
			}
			seen[key]++
		}
	}

	lines := make([]string, 0, len(items))
	firstSelectable, firstActive := -1, -1
	for i, item := range items {
		lines = append(lines, b.formatItem(item))
		if item.IsHeader {
			continue
		}
		if firstSelectable == -1 {
			firstSelectable = i
		}
		if item.IsActive {
			if firstActive == -1 {
				firstActive = i
			}
			if b.rofi {
				states.active = append(states.active, i)
			}
		}
	}
	switch {
	case firstActive != -1:
		states.selectedRow, states.hasSelected = firstActive, true
	case firstSelectable != -1:
		states.selectedRow, states.hasSelected = firstSelectable, true
	}
	return strings.Join(lines, "\n"), states
}

func (b *launcher) formatItem(item Item) string {
	display := sanitizeLabel(item.Label)
	if !b.rofi {
		if item.IsHeader {
			return "-- " + display + " --"
		}
		return display
	}

	// -markup-rows is on: escape everything and add our own markup.
	display = html.EscapeString(display)
	var attrs []string
	if item.IsHeader {
		display = "<b>" + display + "</b>"
		attrs = append(attrs, "nonselectable", "true")
	}
	if item.Meta != "" {
		attrs = append(attrs, "meta", sanitizeRofiField(item.Meta))
	}
	if len(attrs) == 0 {
		return display
	}
	// Row options use a single NUL followed by \x1f separated pairs.
	return display + "\x00" + strings.Join(attrs, "\x1f")
}

func (b *launcher) parseSelection(selection string, items []Item) (Item, error) {
	if b.rofi {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) || items[idx].IsHeader {
				return Item{}, fmt.Errorf("menu: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for _, item := range items {
		if !item.IsHeader && sanitizeLabel(item.Label) == selection {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("menu: unknown selection %q", selection)
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeRofiField(value string) string {
	value = strings.ReplaceAll(value, "\x00", " ")
	value = strings.ReplaceAll(value, "\x1f", " ")
	return sanitizeLabel(value)
}

func formatIndices(indices []int) string {
	parts := make([]string, 0, len(indices))
	for _, i := range indices {
		parts = append(parts, strconv.Itoa(i))
	}
	return strings.Join(parts, ",")
}

// isCancelExit reports the exit codes rofi and dmenu use for escape (1)
// and Ctrl+C (130).
func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	}
	return false
}
