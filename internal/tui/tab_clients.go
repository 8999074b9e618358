package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tagtile/internal/wm"
)

// clientItem is a list item for one managed window.
type clientItem struct {
	c wm.ClientStatus
}

func (i clientItem) Title() string {
	mark := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("·")
	switch {
	case i.c.Focused:
		mark = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
	case i.c.Visible:
		mark = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Render("○")
	}
	return mark + " " + i.c.Title
}

func (i clientItem) Description() string {
	state := "tiled"
	switch {
	case i.c.Fullscreen:
		state = "fullscreen"
	case i.c.Floating:
		state = "floating"
	}
	g := i.c.Geometry
	return fmt.Sprintf("%s on %s  tags %#x  %s  %dx%d+%d+%d",
		i.c.AppID, i.c.Monitor, i.c.Tags, state, g.Width, g.Height, g.X, g.Y)
}

func (i clientItem) FilterValue() string { return i.c.AppID + " " + i.c.Title }

// ClientsTab lists clients in tiling order.
type ClientsTab struct {
	list   list.Model
	width  int
	height int
}

// NewClientsTab creates an empty list.
func NewClientsTab() ClientsTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Clients"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	return ClientsTab{list: l}
}

// SetClients replaces the items, keeping the cursor on the same window when
// it is still there.
func (c *ClientsTab) SetClients(clients []wm.ClientStatus) tea.Cmd {
	var keep uint32
	if it, ok := c.list.SelectedItem().(clientItem); ok {
		keep = it.c.Surface
	}
	items := make([]list.Item, len(clients))
	sel := -1
	for i, cl := range clients {
		items[i] = clientItem{c: cl}
		if cl.Surface == keep {
			sel = i
		}
	}
	cmd := c.list.SetItems(items)
	if sel >= 0 {
		c.list.Select(sel)
	}
	return cmd
}

// Update handles messages for the clients tab.
func (c ClientsTab) Update(msg tea.Msg) (ClientsTab, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		c.width = ws.Width
		c.height = ws.Height
		c.list.SetSize(c.width, c.height)
		return c, nil
	}
	var cmd tea.Cmd
	c.list, cmd = c.list.Update(msg)
	return c, cmd
}

// View renders the list.
func (c ClientsTab) View() string {
	return c.list.View()
}

// Filtering reports whether the list is capturing keys for its filter.
func (c ClientsTab) Filtering() bool {
	return c.list.FilterState() == list.Filtering
}
