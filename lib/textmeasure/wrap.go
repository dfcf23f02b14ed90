package textmeasure

import (
	"strings"

	"github.com/rivo/uniseg"

	"oss.terrastruct.com/commdiagram/commfonts"
)

const hyphen = "-"

// Wrap inserts line breaks into s so that no line is wider than maxWidth
// when rendered in f. Words wider than maxWidth on their own are broken
// between grapheme clusters and hyphenated.
//
// Text that already contains a line break is returned unchanged, so wrapping
// the result of Wrap again yields the same breaks.
func (r *Ruler) Wrap(f commfonts.Font, s string, maxWidth float64) string {
	if s == "" || strings.Contains(s, "\n") {
		return s
	}

	words := strings.Split(s, " ")
	var completed []string
	nextLine := ""
	for _, word := range words {
		wordLength := r.width(f, word+" ")
		nextLineLength := r.width(f, nextLine)
		if wordLength > maxWidth {
			hyphenated, remaining := r.breakWord(f, word, maxWidth)
			completed = append(completed, nextLine)
			completed = append(completed, hyphenated...)
			nextLine = remaining
		} else if nextLineLength+wordLength >= maxWidth {
			completed = append(completed, nextLine)
			nextLine = word
		} else if nextLine == "" {
			nextLine = word
		} else if word != "" {
			nextLine += " " + word
		}
	}
	completed = append(completed, nextLine)

	lines := completed[:0]
	for _, l := range completed {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

// breakWord splits word into hyphenated chunks no wider than maxWidth and
// returns the trailing chunk that still fits on a line separately.
func (r *Ruler) breakWord(f commfonts.Font, word string, maxWidth float64) (hyphenated []string, remaining string) {
	var clusters []string
	gr := uniseg.NewGraphemes(word)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	current := ""
	for i, c := range clusters {
		next := current + c
		if r.width(f, next) >= maxWidth {
			if i == len(clusters)-1 {
				hyphenated = append(hyphenated, next)
			} else {
				hyphenated = append(hyphenated, next+hyphen)
			}
			current = ""
		} else {
			current = next
		}
	}
	return hyphenated, current
}

func (r *Ruler) width(f commfonts.Font, s string) float64 {
	w, _ := r.MeasurePrecise(f, s)
	return w
}
