package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/b/snapmixer/pkg/config"
	"github.com/b/snapmixer/pkg/snapcast"
	"github.com/b/snapmixer/pkg/topology"
)

const (
	defaultWidth   = 80
	minGaugeWidth  = 10
	symbolWidth    = 2
	modalWidthPct  = 80
	modalHeightPct = 50
)

func color(hex string) lipgloss.Color { return lipgloss.Color(hex) }

// unicodeEnabled resolves a unicode mode. In auto mode the locale decides,
// the same variables the C library consults: LC_ALL, then LC_CTYPE, then
// LANG.
func unicodeEnabled(mode string) bool {
	switch mode {
	case config.UnicodeAlways:
		return true
	case config.UnicodeNever:
		return false
	}
	for _, env := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := os.Getenv(env); v != "" {
			v = strings.ToLower(v)
			return strings.Contains(v, "utf-8") || strings.Contains(v, "utf8")
		}
	}
	return false
}

func (m *model) volumeSymbol(muted bool) string {
	var sym string
	switch {
	case m.unicode && muted:
		sym = "🔇"
	case m.unicode:
		sym = "🔊"
	case muted:
		sym = "M"
	default:
		sym = " "
	}
	fg := m.theme.Unmuted
	if muted {
		fg = m.theme.Muted
	}
	return lipgloss.NewStyle().Foreground(color(fg)).Render(runewidth.FillRight(sym, symbolWidth))
}

// longestClientName is the widest display name over every known client,
// grouped or not.
func longestClientName(state *snapcast.State) int {
	longest := 0
	for _, c := range state.Clients {
		longest = max(longest, runewidth.StringWidth(topology.ClientName(c)))
	}
	return longest
}

func (m *model) render() {
	m.frame = m.renderFrame()
}

func (m *model) renderFrame() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	var sections []string
	nameWidth := longestClientName(m.state)
	for _, g := range topology.SortedGroups(m.state) {
		sections = append(sections, m.renderGroup(g, width, nameWidth))
	}
	sections = append(sections, lipgloss.NewStyle().Padding(0, 1).Render(m.help.View(m.keys)))
	view := lipgloss.JoinVertical(lipgloss.Left, sections...)

	title, body, subtitle, border := m.modal()
	if title == "" {
		return view
	}
	return m.overlayModal(view, width, title, body, subtitle, border)
}

func (m *model) renderGroup(g snapcast.Group, width, nameWidth int) string {
	focused := m.focus == g.ID
	border := m.theme.Border
	if focused {
		border = m.theme.Focus
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(color(m.theme.Text))
	if focused {
		titleStyle = titleStyle.Foreground(color(m.theme.Focus))
	}
	title := m.volumeSymbol(g.Muted) + " " + titleStyle.Render(topology.GroupName(g))
	if g.StreamID != "" {
		title += lipgloss.NewStyle().Foreground(color(m.theme.Dim)).Render(" [" + g.StreamID + "]")
	}

	// border (2) and padding (2)
	inner := max(width-4, nameWidth+symbolWidth+2+minGaugeWidth)
	rows := []string{title}
	for _, c := range topology.SortedClients(m.state, g.ID) {
		rows = append(rows, m.renderClient(c, g.Muted, inner, nameWidth))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color(border)).
		Padding(0, 1).
		Width(inner + 2).
		Render(strings.Join(rows, "\n"))
}

func (m *model) renderClient(c snapcast.Client, groupMuted bool, inner, nameWidth int) string {
	focused := m.focus == c.ID
	name := topology.ClientName(c)
	name = strings.Repeat(" ", max(0, nameWidth-runewidth.StringWidth(name))) + name

	nameStyle := lipgloss.NewStyle().Foreground(color(m.theme.Text))
	if focused {
		nameStyle = nameStyle.Bold(true).Foreground(color(m.theme.Focus))
	}

	fill := m.theme.Gauge
	switch {
	case focused:
		fill = m.theme.Focus
	case groupMuted || c.Config.Volume.Muted:
		fill = m.theme.GaugeMuted
	}
	gauge := progress.New(
		progress.WithSolidFill(fill),
		progress.WithWidth(max(minGaugeWidth, inner-nameWidth-symbolWidth-2)),
	)
	gauge.EmptyColor = m.theme.GaugeEmpty
	gauge.PercentageStyle = lipgloss.NewStyle().Foreground(color(m.theme.Dim))
	if !m.unicode {
		gauge.Full, gauge.Empty = '#', '.'
	}

	return nameStyle.Render(name) + " " + m.volumeSymbol(c.Config.Volume.Muted) + " " +
		gauge.ViewAs(float64(c.Config.Volume.Percent)/100)
}

// modal picks the blocking overlay, if any. Errors win over connection
// trouble; a disconnect wins over staleness.
func (m *model) modal() (title, body, subtitle, border string) {
	h := m.watchdog.Health()
	switch {
	case len(m.errors) > 0:
		return "Error", strings.Join(m.errors, "\n"), "esc to dismiss", m.theme.Error
	case !h.Connected:
		return "Connection status",
			fmt.Sprintf("Disconnected. Attempting to reconnect...\nReconnection attempt: %d", h.ReconnectAttempts),
			"", m.theme.Warning
	case h.Stale:
		return "Connection status", "Connection appears to be stale. Awaiting response...", "", m.theme.Warning
	}
	return "", "", "", ""
}
