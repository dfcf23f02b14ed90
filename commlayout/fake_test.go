package commlayout_test

import (
	"fmt"
	"strings"

	"oss.terrastruct.com/commdiagram/commfonts"
	"oss.terrastruct.com/commdiagram/commgraph"
)

const (
	charWidth  = 10
	lineHeight = 20
)

// fakeMetrics measures every character as charWidth wide and every line as
// lineHeight tall, whatever the font.
type fakeMetrics struct{}

func (fakeMetrics) Measure(_ commfonts.Font, s string) (int, int) {
	if s == "" {
		return 0, 0
	}
	lines := strings.Split(s, "\n")
	w := 0
	for _, l := range lines {
		if len(l) > w {
			w = len(l)
		}
	}
	return w * charWidth, len(lines) * lineHeight
}

func (fakeMetrics) Wrap(_ commfonts.Font, s string, maxWidth float64) string {
	if strings.Contains(s, "\n") {
		return s
	}
	limit := int(maxWidth / charWidth)
	var lines []string
	line := ""
	for _, w := range strings.Fields(s) {
		switch {
		case line == "":
			line = w
		case len(line)+1+len(w) <= limit:
			line += " " + w
		default:
			lines = append(lines, line)
			line = w
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func newGraph(keys ...string) *commgraph.Graph {
	g := commgraph.NewGraph()
	for _, k := range keys {
		_ = g.AddActor(k, k, nil, commgraph.Participant)
	}
	return g
}

func placed(g *commgraph.Graph, key string, x, width float64) {
	a := g.Actors[key]
	a.X = x
	a.Width = width
}

// faultyMetrics behaves like fakeMetrics but panics when measuring label more
// than allowed times.
type faultyMetrics struct {
	fakeMetrics
	label   string
	allowed int
	seen    int
}

func (m *faultyMetrics) Measure(f commfonts.Font, s string) (int, int) {
	if s == m.label {
		m.seen++
		if m.seen > m.allowed {
			panic(fmt.Sprintf("cannot measure %q", s))
		}
	}
	return m.fakeMetrics.Measure(f, s)
}
