package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/1broseidon/tagtile/internal/bindings"
)

// commandForm asks for a command and its argument.
type commandForm struct {
	form    *huh.Form
	command string
	arg     string
}

func newCommandForm(width int) *commandForm {
	f := &commandForm{command: string(bindings.CmdView)}

	names := make([]string, 0, len(bindings.Commands()))
	for _, c := range bindings.Commands() {
		if c == bindings.CmdMoveResize || c == bindings.CmdQuit {
			continue
		}
		names = append(names, string(c))
	}

	w := width - 4
	if w < 40 {
		w = 40
	}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("command").
				Title("Command").
				Options(huh.NewOptions(names...)...).
				Value(&f.command),
			huh.NewInput().
				Key("arg").
				Title("Argument").
				Description(`JSON or text, e.g. [2], 0.05, "[M]", ["st"]; empty for none`).
				Value(&f.arg),
		),
	).WithWidth(w).WithShowHelp(false)
	return f
}

// request returns what the form was filled with.
func (f *commandForm) request() (string, any) {
	return f.command, bindings.DecodeArg(f.arg)
}
