// Package views holds the screens of `punch watch`.
package views

import (
	"strings"

	"github.com/xolan/punch/internal/tui/ui"
)

// statLine renders "label value" with the stat styles
func statLine(styles ui.Styles, label, value string) string {
	return styles.StatLabel.Render(label) + " " + styles.StatValue.Render(value) + "\n"
}

// bar renders a horizontal bar of width cells scaled by part/whole
func bar(styles ui.Styles, part, whole float64, width int) string {
	if whole <= 0 || part <= 0 || width <= 0 {
		return ""
	}
	n := int(part / whole * float64(width))
	if n == 0 {
		n = 1
	}
	return styles.Bar.Render(strings.Repeat("█", n))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
