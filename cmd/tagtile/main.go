package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/1broseidon/tagtile/internal/bindings"
	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/daemon"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/tui"
	"github.com/1broseidon/tagtile/internal/wm"
	"github.com/1broseidon/tagtile/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runWM(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "clients":
		os.Exit(runClients(os.Args[2:]))
	case "msg":
		os.Exit(runMsg(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "watch":
		os.Exit(runWatch(os.Args[2:]))
	case "menu":
		os.Exit(runMenu(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tagtile <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Manage the X display (foreground)")
	fmt.Fprintln(w, "  status              Show tags, layout and focus per monitor")
	fmt.Fprintln(w, "  clients             List managed windows")
	fmt.Fprintln(w, "  msg <cmd> [arg]     Run a window manager command")
	fmt.Fprintln(w, "  reload              Re-read the config file")
	fmt.Fprintln(w, "  watch               Live view of monitors and clients")
	fmt.Fprintln(w, "  menu                Pick a command from rofi or dmenu")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'tagtile <command> --help' for command-specific options.")
}

// parseLogLevel maps log_level values to slog levels. Unknown values mean
// info.
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runWM(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/tagtile/config.yaml)")
	httpAddr := fs.String("http", "", "Serve the HTTP API on this address (overrides http_listen)")
	startup := fs.String("startup", "", "Shell command to spawn once tagtile is running")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tagtile run [--config PATH] [--http ADDR] [--startup CMD]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Become the window manager of $DISPLAY.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(res.Config.LogLevel),
	}))
	slog.SetDefault(logger)

	configPath := *path
	if configPath == "" {
		if configPath, err = config.DefaultConfigPath(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = daemon.Run(ctx, daemon.Options{
		ConfigPath: configPath,
		Loaded:     res,
		HTTPListen: *httpAddr,
		Startup:    *startup,
		Logger:     logger,
	})
	if errors.Is(err, x11.ErrOtherWM) {
		logger.Error("another window manager is already running")
		return 1
	}
	if err != nil {
		logger.Error("tagtile stopped", "error", err)
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print the full snapshot as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tagtile status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show one line per monitor: selected tags in brackets, occupied tags,")
		fmt.Fprintln(os.Stderr, "the layout symbol and the focused title.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(status)
	}
	fmt.Println(wm.FormatStatusLine(status.Snapshot))
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Printf("uptime: %ds  gaps: %v\n", status.UptimeSeconds, status.GapsEnabled)
	}
	return 0
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runClients(args []string) int {
	fs := flag.NewFlagSet("clients", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print clients as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	data, err := ipc.NewClient().ListClients()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(data.Clients)
	}
	writeClients(os.Stdout, data.Clients)
	return 0
}

// writeClients prints one row per client in tiling order.
func writeClients(w io.Writer, clients []wm.ClientStatus) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMONITOR\tTAGS\tSTATE\tGEOMETRY\tAPP\tTITLE")
	for _, c := range clients {
		state := "tiled"
		switch {
		case c.Fullscreen:
			state = "fullscreen"
		case c.Floating:
			state = "floating"
		}
		if c.Focused {
			state += "*"
		}
		g := c.Geometry
		fmt.Fprintf(tw, "%#x\t%s\t%#x\t%s\t%dx%d+%d+%d\t%s\t%s\n",
			c.Surface, c.Monitor, c.Tags, state, g.Width, g.Height, g.X, g.Y, c.AppID, c.Title)
	}
	tw.Flush()
}

func runMsg(args []string) int {
	fs := flag.NewFlagSet("msg", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tagtile msg <command> [arg]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Arguments are JSON when they parse as JSON, text otherwise:")
		fmt.Fprintln(os.Stderr, "  tagtile msg view '[2]'")
		fmt.Fprintln(os.Stderr, "  tagtile msg setmfact 0.05")
		fmt.Fprintln(os.Stderr, "  tagtile msg setlayout '[M]'")
		fmt.Fprintln(os.Stderr, "  tagtile msg spawn '[\"st\",\"-e\",\"htop\"]'")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Commands:")
		for _, c := range bindings.Commands() {
			fmt.Fprintf(os.Stderr, "  %s\n", c)
		}
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return 2
	}
	var arg any
	if fs.NArg() == 2 {
		arg = bindings.DecodeArg(fs.Arg(1))
	}
	if err := ipc.NewClient().Run(fs.Arg(0), arg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runReload(args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "Usage: tagtile reload")
		return 2
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	return 0
}

func runWatch(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: tagtile watch")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Live view of monitors, tags and clients.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  tab, 1/2   Switch between monitors and clients")
		fmt.Fprintln(os.Stderr, "  c, :      Run a command")
		fmt.Fprintln(os.Stderr, "  r         Reload config")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C Quit")
		return 0
	}
	if err := tui.Run(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
