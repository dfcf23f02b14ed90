package commlayout

import (
	"strings"

	"oss.terrastruct.com/commdiagram/commfonts"
)

// TextMetrics measures and wraps labels. lib/textmeasure.Ruler implements it.
//
// Wrap must be idempotent: wrapping text it returned at the same width returns
// the same text.
type TextMetrics interface {
	Measure(font commfonts.Font, s string) (width, height int)
	Wrap(font commfonts.Font, s string, maxWidth float64) string
}

func measure(tm TextMetrics, font commfonts.Font, s string) (float64, float64) {
	w, h := tm.Measure(font, s)
	return float64(w), float64(h)
}

func lineCount(s string) int {
	return strings.Count(s, "\n") + 1
}
