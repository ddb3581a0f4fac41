package colors

import "sort"

// Theme is the mixer palette. All colors are #rrggbb.
type Theme struct {
	Name string
	Dark bool

	Text   string
	Dim    string // stream tags, help line
	Border string

	Focus      string // focused row gauge and title
	Gauge      string
	GaugeMuted string
	GaugeEmpty string

	Muted   string // volume symbol of a muted row
	Unmuted string

	Error   string
	Warning string
	ModalBg string
}

// Built-in themes
var Themes = map[string]Theme{
	"dark": {
		Name: "Dark", Dark: true,
		Text: "#e6e6e6", Dim: "#8a8a8a", Border: "#4e4e4e",
		Focus: "#5fafff", Gauge: "#d0d0d0", GaugeMuted: "#6c6c6c", GaugeEmpty: "#3a3a3a",
		Muted: "#ff5f5f", Unmuted: "#87d787",
		Error: "#ff5f5f", Warning: "#ffaf00", ModalBg: "#262626",
	},
	"light": {
		Name: "Light", Dark: false,
		Text: "#1c1c1c", Dim: "#6c6c6c", Border: "#bcbcbc",
		Focus: "#005fd7", Gauge: "#303030", GaugeMuted: "#a8a8a8", GaugeEmpty: "#e4e4e4",
		Muted: "#d70000", Unmuted: "#008700",
		Error: "#d70000", Warning: "#af5f00", ModalBg: "#eeeeee",
	},
	"rose-pine": {
		Name: "Rose Pine", Dark: true,
		Text: "#e0def4", Dim: "#6e6a86", Border: "#403d52",
		Focus: "#9ccfd8", Gauge: "#ebbcba", GaugeMuted: "#6e6a86", GaugeEmpty: "#26233a",
		Muted: "#eb6f92", Unmuted: "#31748f",
		Error: "#eb6f92", Warning: "#f6c177", ModalBg: "#1f1d2e",
	},
	"rose-pine-dawn": {
		Name: "Rose Pine Dawn", Dark: false,
		Text: "#575279", Dim: "#9893a5", Border: "#dfdad9",
		Focus: "#286983", Gauge: "#d7827e", GaugeMuted: "#9893a5", GaugeEmpty: "#f2e9e1",
		Muted: "#b4637a", Unmuted: "#56949f",
		Error: "#b4637a", Warning: "#ea9d34", ModalBg: "#fffaf3",
	},
	"catppuccin-mocha": {
		Name: "Catppuccin Mocha", Dark: true,
		Text: "#cdd6f4", Dim: "#6c7086", Border: "#45475a",
		Focus: "#89b4fa", Gauge: "#a6e3a1", GaugeMuted: "#6c7086", GaugeEmpty: "#313244",
		Muted: "#f38ba8", Unmuted: "#a6e3a1",
		Error: "#f38ba8", Warning: "#f9e2af", ModalBg: "#181825",
	},
	"dracula": {
		Name: "Dracula", Dark: true,
		Text: "#f8f8f2", Dim: "#6272a4", Border: "#44475a",
		Focus: "#bd93f9", Gauge: "#50fa7b", GaugeMuted: "#6272a4", GaugeEmpty: "#44475a",
		Muted: "#ff5555", Unmuted: "#50fa7b",
		Error: "#ff5555", Warning: "#f1fa8c", ModalBg: "#21222c",
	},
	"nord": {
		Name: "Nord", Dark: true,
		Text: "#eceff4", Dim: "#4c566a", Border: "#3b4252",
		Focus: "#88c0d0", Gauge: "#a3be8c", GaugeMuted: "#4c566a", GaugeEmpty: "#3b4252",
		Muted: "#bf616a", Unmuted: "#a3be8c",
		Error: "#bf616a", Warning: "#ebcb8b", ModalBg: "#3b4252",
	},
}

// Resolve picks the theme for a config value. "auto", "dark" and "light"
// go through the background detector's mode; anything else is looked up
// by name. Unknown names fall back to auto detection and report false.
func Resolve(name string) (Theme, bool) {
	switch ThemeMode(name) {
	case ThemeModeAuto, ThemeModeDark, ThemeModeLight:
		return forBackground(NewBackgroundDetector(ThemeMode(name))), true
	}
	if t, ok := Themes[name]; ok {
		return t, true
	}
	return forBackground(NewBackgroundDetector(ThemeModeAuto)), false
}

func forBackground(d *BackgroundDetector) Theme {
	if d.IsDarkBackground() {
		return Themes["dark"]
	}
	return Themes["light"]
}

// Legible returns the theme with its focus color adjusted to stay readable
// on the modal background.
func (t Theme) Legible() Theme {
	t.Focus = EnsureContrast(t.Focus, t.ModalBg, 3.0)
	t.Error = EnsureContrast(t.Error, t.ModalBg, 3.0)
	t.Warning = EnsureContrast(t.Warning, t.ModalBg, 3.0)
	return t
}

// ListThemes returns all available theme names, sorted
func ListThemes() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
