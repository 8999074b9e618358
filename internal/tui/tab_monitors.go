package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tagtile/internal/wm"
)

var (
	tagActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
	tagOccupiedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("238")).
				Padding(0, 1)
	tagEmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("248")).Width(10)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
)

// renderTags draws one cell per tag: selected, occupied or empty.
func renderTags(tags []string, selected, occupied uint32) string {
	cells := make([]string, 0, len(tags))
	for i, name := range tags {
		bit := uint32(1) << i
		switch {
		case selected&bit != 0:
			cells = append(cells, tagActiveStyle.Render(name))
		case occupied&bit != 0:
			cells = append(cells, tagOccupiedStyle.Render(name))
		default:
			cells = append(cells, tagEmptyStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// renderMonitors shows a card per monitor.
func renderMonitors(snap wm.Snapshot, width int) string {
	if len(snap.Monitors) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Render("no outputs")
	}
	cardWidth := width - 4
	if cardWidth < 30 {
		cardWidth = 30
	}
	cards := make([]string, 0, len(snap.Monitors))
	for _, m := range snap.Monitors {
		cards = append(cards, renderMonitorCard(snap, m, cardWidth))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func renderMonitorCard(snap wm.Snapshot, m wm.MonitorStatus, width int) string {
	var b strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render(m.Name)
	if m.Selected {
		title += lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("  ● selected")
	}
	b.WriteString(title + "\n")
	b.WriteString(renderTags(snap.Tags, m.Tags, m.Occupied) + "\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("layout", m.Layout)
	row("geometry", fmt.Sprintf("%dx%d+%d+%d", m.Geometry.Width, m.Geometry.Height, m.Geometry.X, m.Geometry.Y))
	row("work area", fmt.Sprintf("%dx%d+%d+%d", m.WorkArea.Width, m.WorkArea.Height, m.WorkArea.X, m.WorkArea.Y))
	row("master", fmt.Sprintf("%d @ %.2f", m.NMaster, m.MFact))
	row("clients", fmt.Sprintf("%d", m.Clients))

	border := lipgloss.Color("238")
	if m.Selected {
		border = lipgloss.Color("62")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width).
		Render(strings.TrimRight(b.String(), "\n"))
}
