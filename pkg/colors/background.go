package colors

import (
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// ThemeMode represents the theme detection mode
type ThemeMode string

const (
	ThemeModeAuto  ThemeMode = "auto"
	ThemeModeDark  ThemeMode = "dark"
	ThemeModeLight ThemeMode = "light"
)

// BackgroundDetector decides whether the terminal background is dark.
type BackgroundDetector struct {
	mode         ThemeMode
	cachedIsDark *bool

	// queryTerminal is swapped out in tests; it reports (isDark, known).
	queryTerminal func() (bool, bool)
}

func NewBackgroundDetector(mode ThemeMode) *BackgroundDetector {
	return &BackgroundDetector{
		mode:          mode,
		queryTerminal: termenvBackground,
	}
}

// IsDarkBackground returns true if the background is dark. The answer is
// cached after the first call.
func (d *BackgroundDetector) IsDarkBackground() bool {
	if d.cachedIsDark != nil {
		return *d.cachedIsDark
	}

	var isDark bool
	switch d.mode {
	case ThemeModeDark:
		isDark = true
	case ThemeModeLight:
		isDark = false
	default:
		isDark = d.detect()
	}
	d.cachedIsDark = &isDark
	return isDark
}

func (d *BackgroundDetector) detect() bool {
	if isDark, ok := colorFGBG(os.Getenv("COLORFGBG")); ok {
		return isDark
	}
	if d.queryTerminal != nil {
		if isDark, ok := d.queryTerminal(); ok {
			return isDark
		}
	}
	// Most terminals are dark.
	return true
}

// colorFGBG parses "fg;bg" (sometimes "fg;default;bg") as set by rxvt,
// Konsole and friends. ANSI backgrounds 0-7 are dark.
func colorFGBG(v string) (bool, bool) {
	parts := strings.Split(v, ";")
	if len(parts) < 2 {
		return false, false
	}
	bg, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return false, false
	}
	return bg < 8 || bg == 16, true
}

// termenvBackground asks the terminal via OSC 11. It does not work under
// tmux or screen, in which case the color comes back empty.
func termenvBackground() (bool, bool) {
	output := termenv.NewOutput(os.Stdout)
	bg := output.BackgroundColor()
	if bg == nil {
		return false, false
	}
	if _, ok := bg.(termenv.NoColor); ok {
		return false, false
	}
	return output.HasDarkBackground(), true
}
