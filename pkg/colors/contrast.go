package colors

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// GetLuminance returns the WCAG relative luminance of a hex color, from 0
// (black) to 1 (white). Invalid colors count as black.
func GetLuminance(hexColor string) float64 {
	r, g, b, ok := hexToRGB(hexColor)
	if !ok {
		return 0
	}
	return 0.2126*linear(r) + 0.7152*linear(g) + 0.0722*linear(b)
}

func linear(channel int) float64 {
	v := float64(channel) / 255
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// GetContrastRatio returns the WCAG contrast ratio, 1 to 21.
func GetContrastRatio(fg, bg string) float64 {
	l1, l2 := GetLuminance(fg), GetLuminance(bg)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// EnsureContrast pushes fg away from bg until minRatio is met (4.5 for
// WCAG AA). If no shade works it falls back to black or white.
func EnsureContrast(fg, bg string, minRatio float64) string {
	if GetContrastRatio(fg, bg) >= minRatio {
		return fg
	}

	brighter := GetLuminance(fg) > GetLuminance(bg)
	for step := 1; step <= 10; step++ {
		amount := float64(step) / 10
		adjusted := darken(fg, amount)
		if brighter {
			adjusted = lighten(fg, amount)
		}
		if GetContrastRatio(adjusted, bg) >= minRatio {
			return adjusted
		}
	}

	if IsLightColor(bg) {
		return "#000000"
	}
	return "#ffffff"
}

// IsLightColor returns true if the color is closer to white than black
func IsLightColor(hexColor string) bool {
	return GetLuminance(hexColor) > 0.5
}

func hexToRGB(hexColor string) (r, g, b int, ok bool) {
	hex := strings.TrimPrefix(hexColor, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

func rgbToHex(r, g, b int) string {
	clampByte := func(v int) int { return max(0, min(255, v)) }
	return fmt.Sprintf("#%02x%02x%02x", clampByte(r), clampByte(g), clampByte(b))
}

// lighten moves a color towards white by amount (0 to 1).
func lighten(hexColor string, amount float64) string {
	r, g, b, ok := hexToRGB(hexColor)
	if !ok {
		return hexColor
	}
	towards := func(c int) int { return c + int(float64(255-c)*amount) }
	return rgbToHex(towards(r), towards(g), towards(b))
}

// darken moves a color towards black by amount (0 to 1).
func darken(hexColor string, amount float64) string {
	r, g, b, ok := hexToRGB(hexColor)
	if !ok {
		return hexColor
	}
	scale := func(c int) int { return int(float64(c) * (1 - amount)) }
	return rgbToHex(scale(r), scale(g), scale(b))
}
