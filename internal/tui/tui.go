// Package tui is a live terminal view of the running window manager.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/tagtile/internal/ipc"
)

// Daemon is the IPC surface the view uses. *ipc.Client implements it.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	Run(command string, arg any) error
	Reload() error
}

// Run shows the view until the user quits.
func Run(daemon Daemon) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("watch requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	p := tea.NewProgram(newModel(daemon), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
