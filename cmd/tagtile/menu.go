package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/palette"
)

func runMenu(args []string) int {
	fs := flag.NewFlagSet("menu", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	backendName := fs.String("backend", "auto", "Launcher to use: auto, rofi, dmenu")
	configPath := fs.String("config", "", "Config file used for the layout list")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tagtile menu [--backend NAME] [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Pick a command from rofi or dmenu and run it in the window manager.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	backend, err := palette.NewBackend(*backendName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	layouts := config.BuiltinLayouts()
	if res, err := loadConfig(*configPath); err == nil {
		layouts = res.Config.Layouts
	}

	if err := palette.Show(backend, client, palette.Build(status.Snapshot, layouts)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
