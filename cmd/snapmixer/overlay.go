package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// overlayModal draws a bordered box over the middle of view, sized as a
// share of the screen.
func (m *model) overlayModal(view string, width int, title, body, subtitle, border string) string {
	height := m.height
	if height <= 0 {
		height = strings.Count(view, "\n") + 1
	}
	boxWidth := max(20, width*modalWidthPct/100)
	boxHeight := max(3, height*modalHeightPct/100)

	bg := color(m.theme.ModalBg)
	heading := lipgloss.NewStyle().Bold(true).Foreground(color(m.theme.Text)).Background(bg).Render(title)
	if subtitle != "" {
		// inner width minus padding
		gap := boxWidth - 4 - ansi.StringWidth(title) - ansi.StringWidth(subtitle)
		heading += lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", max(1, gap))) +
			lipgloss.NewStyle().Foreground(color(m.theme.Dim)).Background(bg).Render(subtitle)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color(border)).
		BorderBackground(bg).
		Background(bg).
		Foreground(color(m.theme.Text)).
		Padding(0, 1).
		Width(boxWidth - 2).
		Height(boxHeight - 2).
		Render(heading + "\n" + body)

	lines := strings.Split(box, "\n")
	if m.height <= 0 {
		height = max(height, len(lines))
	}
	x := max(0, (width-boxWidth)/2)
	y := max(0, (height-len(lines))/2)
	return spliceOverlay(padLines(view, height), lines, x, y)
}

func padLines(view string, height int) string {
	if n := strings.Count(view, "\n") + 1; n < height {
		view += strings.Repeat("\n", height-n)
	}
	return view
}

// spliceOverlay writes overlay lines into view at column x, row y,
// keeping whatever styled text sits on either side.
func spliceOverlay(view string, overlay []string, x, y int) string {
	if len(overlay) == 0 {
		return view
	}

	lines := strings.Split(view, "\n")
	overlayWidth := ansi.StringWidth(overlay[0])
	for i, o := range overlay {
		row := y + i
		if row < 0 || row >= len(lines) {
			continue
		}
		line := lines[row]

		var b strings.Builder
		prefix := ansi.Truncate(line, x, "")
		b.WriteString(prefix)
		if w := ansi.StringWidth(prefix); w < x {
			b.WriteString(strings.Repeat(" ", x-w))
		}
		b.WriteString("\x1b[0m")
		b.WriteString(o)
		b.WriteString("\x1b[0m")
		if end := x + overlayWidth; end < ansi.StringWidth(line) {
			b.WriteString(ansi.TruncateLeft(line, end, ""))
		}
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}
