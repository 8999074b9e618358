package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/wm"
)

const pollInterval = 500 * time.Millisecond

type statusMsg struct {
	status *ipc.StatusData
	err    error
}

type tickMsg struct{}

type noticeMsg string

// model is the root bubbletea model for the TUI.
type model struct {
	daemon Daemon

	activeTab  Tab
	clientsTab ClientsTab
	form       *commandForm

	connected bool
	snap      wm.Snapshot
	notice    string

	width  int
	height int
}

func newModel(daemon Daemon) model {
	return model{
		daemon:     daemon,
		activeTab:  TabMonitors,
		clientsTab: NewClientsTab(),
	}
}

func (m model) fetch() tea.Cmd {
	d := m.daemon
	return func() tea.Msg {
		status, err := d.GetStatus()
		return statusMsg{status: status, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m model) run(command string, arg any) tea.Cmd {
	d := m.daemon
	return func() tea.Msg {
		if err := d.Run(command, arg); err != nil {
			return noticeMsg(err.Error())
		}
		return noticeMsg("ran " + command)
	}
}

func (m model) reload() tea.Cmd {
	d := m.daemon
	return func() tea.Msg {
		if err := d.Reload(); err != nil {
			return noticeMsg(err.Error())
		}
		return noticeMsg("config reloaded")
	}
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.fetch()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		if msg.err != nil {
			m.connected = false
			return m, tick()
		}
		m.connected = true
		m.snap = msg.status.Snapshot
		return m, tea.Batch(m.clientsTab.SetClients(m.snap.Clients), tick())
	case tickMsg:
		return m, m.fetch()
	case noticeMsg:
		m.notice = string(msg)
		return m, m.fetch()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clientsTab, _ = m.clientsTab.Update(tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()})
		return m, nil
	}

	// The command form captures all keys; esc cancels it.
	if m.form != nil {
		if km, ok := msg.(tea.KeyMsg); ok {
			switch km.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc":
				m.form = nil
				return m, nil
			}
		}
		form, cmd := m.form.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form.form = f
		}
		switch m.form.form.State {
		case huh.StateCompleted:
			command, arg := m.form.request()
			m.form = nil
			return m, m.run(command, arg)
		case huh.StateAborted:
			m.form = nil
			return m, nil
		}
		return m, cmd
	}

	if km, ok := msg.(tea.KeyMsg); ok && !(m.activeTab == TabClients && m.clientsTab.Filtering()) {
		switch km.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabMonitors
			return m, nil
		case "2":
			m.activeTab = TabClients
			return m, nil
		case "c", ":":
			m.form = newCommandForm(m.width)
			return m, m.form.form.Init()
		case "r":
			return m, m.reload()
		}
	}

	if m.activeTab == TabClients {
		var cmd tea.Cmd
		m.clientsTab, cmd = m.clientsTab.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.connected, m.snap.SelectedMonitor, m.notice, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	var content string
	switch {
	case m.form != nil:
		content = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Render(m.form.form.View())
	case !m.connected:
		content = lipgloss.NewStyle().
			Width(m.width).
			Height(m.contentHeight()).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render(fmt.Sprintf("waiting for tagtile (is %q running?)", "tagtile run"))
	case m.activeTab == TabClients:
		content = m.clientsTab.View()
	default:
		content = renderMonitors(m.snap, m.width)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
