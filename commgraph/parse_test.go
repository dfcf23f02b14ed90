package commgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/commdiagram/commgraph"
	"oss.terrastruct.com/commdiagram/lib/go2"
)

func TestParseMessage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in  string
		exp commgraph.Text
	}{
		{in: "hello", exp: commgraph.Text{Text: "hello"}},
		{in: "  wrap: hello ", exp: commgraph.Text{Text: "hello", Wrap: go2.Pointer(true)}},
		{in: ":nowrap:hello", exp: commgraph.Text{Text: "hello", Wrap: go2.Pointer(false)}},
		{in: "say wrap: hello", exp: commgraph.Text{Text: "say wrap: hello"}},
		{in: "one<br>two<BR/>three<br />four", exp: commgraph.Text{Text: "one\ntwo\nthree\nfour"}},
		{in: "wrap:a<br/>b", exp: commgraph.Text{Text: "a\nb", Wrap: go2.Pointer(true)}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.exp, commgraph.ParseMessage(tc.in))
		})
	}
}

func TestParseBoxData(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		exp  commgraph.BoxData
	}{
		{
			name: "color_and_title",
			in:   "Aqua Backend services",
			exp:  commgraph.BoxData{Color: "Aqua", Text: "Backend services"},
		},
		{
			name: "rgb",
			in:   "rgb(33, 66, 99) wrap:Frontend",
			exp:  commgraph.BoxData{Color: "rgb(33, 66, 99)", Text: "Frontend", Wrap: go2.Pointer(true)},
		},
		{
			name: "no_color",
			in:   "Group of things",
			exp:  commgraph.BoxData{Color: "transparent", Text: "Group of things"},
		},
		{
			name: "color_only",
			in:   "blue",
			exp:  commgraph.BoxData{Color: "blue"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.exp, commgraph.ParseBoxData(tc.in))
		})
	}
}

func TestParsePlacement(t *testing.T) {
	t.Parallel()

	p, ok := commgraph.ParsePlacement("Right  of")
	assert.True(t, ok)
	assert.Equal(t, commgraph.RightOf, p)

	_, ok = commgraph.ParsePlacement("under")
	assert.False(t, ok)
}
