package commsvg

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/commdiagram/commfonts"
	"oss.terrastruct.com/commdiagram/commtarget"
	"oss.terrastruct.com/commdiagram/lib/geo"
	"oss.terrastruct.com/commdiagram/lib/go2"
)

func testDiagram() *commtarget.Diagram {
	font := commfonts.GoSans.Font(14, commfonts.FONT_STYLE_REGULAR)
	return &commtarget.Diagram{
		Title:       "Greetings & co",
		TitlePos:    geo.NewPoint(125, -25),
		Width:       450,
		Height:      221,
		ViewBox:     commtarget.ViewBox{X: -50, Y: -10, Width: 450, Height: 221},
		ActorFont:   font,
		NoteFont:    font,
		MessageFont: commfonts.GoSans.Font(16, commfonts.FONT_STYLE_REGULAR),
		Actors: []commtarget.Actor{
			{ID: "A", Label: "Alice", Shape: commtarget.ActorShapeBox, Width: 150, Height: 65},
			{ID: "B", Label: "Bob", Shape: commtarget.ActorShapePerson, X: 200, Width: 150, Height: 65},
		},
		Lifelines: []commtarget.Lifeline{
			{ActorID: "A", X: 75, StartY: 65, StopY: 135},
			{ActorID: "B", X: 275, StartY: 65, StopY: 135},
		},
		Loops: []commtarget.Loop{
			{Label: "every day", X: 64, Y: 75, Width: 222, Height: 60},
		},
		Messages: []commtarget.Message{
			{From: "A", To: "B", Label: "hi\nthere", Arrowhead: commtarget.ArrowArrowhead, StartX: 75, StopX: 275, StartY: 75, LineStartY: 110},
			{From: "B", To: "B", Label: "think", Dotted: true, Arrowhead: commtarget.CrossArrowhead, StartX: 275, StopX: 275, StartY: 115, LineStartY: 140, LoopWidth: 75},
			{From: "B", To: "A", Arrowhead: commtarget.NoArrowhead, StartX: 275, StopX: 75, LineStartY: 160},
		},
		Notes: []commtarget.Note{
			{Label: "<important>", X: 25, Y: 170, Width: 100, Height: 40},
		},
	}
}

func TestRender(t *testing.T) {
	d := testDiagram()
	out, err := Render(d, nil)
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, "<?xml"))
	assert.Contains(t, s, `width="450" height="221"`)
	assert.Contains(t, s, `viewBox="-50 -10 450 221"`)
	assert.Contains(t, s, "<title>Greetings &amp; co</title>")
	assert.Contains(t, s, "&lt;important&gt;")

	hash, err := d.HashID()
	require.NoError(t, err)
	assert.Contains(t, s, `marker-end="url(#c`+hash+`-arrow)"`)
	assert.Contains(t, s, `marker-end="url(#c`+hash+`-cross)"`)
	assert.Equal(t, 2, strings.Count(s, "marker-end="))

	assert.Contains(t, s, `d="M 75 110 H 275"`)
	assert.Contains(t, s, `d="M 275 140 C 335 130 335 170 275 160"`)
	assert.Contains(t, s, `class="message dotted"`)
	assert.Contains(t, s, `<tspan x="175" dy="0" >hi</tspan>`)
	assert.Contains(t, s, "[every day]")

	assertWellFormed(t, out)
}

func TestRenderRightAngles(t *testing.T) {
	d := testDiagram()
	d.RightAngles = true
	out, err := Render(d, nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), `d="M 275 140 H 350 V 165 H 275"`)
}

func TestRenderOpts(t *testing.T) {
	d := testDiagram()
	out, err := Render(d, &RenderOpts{
		Scale:    go2.Pointer(2.),
		MasterID: "board",
		NoXMLTag: go2.Pointer(true),
	})
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, "<svg"))
	assert.Contains(t, s, `width="900" height="442"`)
	assert.Contains(t, s, `viewBox="-50 -10 450 221"`)
	assert.Contains(t, s, `id="cboard-arrow"`)
	assertWellFormed(t, out)
}

func TestRenderDeterministic(t *testing.T) {
	out1, err := Render(testDiagram(), nil)
	require.NoError(t, err)
	out2, err := Render(testDiagram(), nil)
	require.NoError(t, err)
	assert.Equal(t, string(out1), string(out2))
}

func assertWellFormed(t *testing.T, out []byte) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(string(out)))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			return
		}
	}
}
