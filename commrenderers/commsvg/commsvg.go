// Package commsvg renders a commtarget.Diagram to SVG.
package commsvg

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	svgo "github.com/ajstarks/svgo"

	"oss.terrastruct.com/commdiagram/commfonts"
	"oss.terrastruct.com/commdiagram/commtarget"
	"oss.terrastruct.com/commdiagram/lib/color"
	"oss.terrastruct.com/commdiagram/lib/geo"
	"oss.terrastruct.com/commdiagram/lib/svg"
)

const (
	MESSAGE_STROKE_WIDTH  = 1.5
	LIFELINE_STROKE_WIDTH = 0.5
	LINE_HEIGHT_FACTOR    = 1.2

	// distance between a message label and its line
	LABEL_GAP = 5

	LOOP_TAB_WIDTH  = 50
	LOOP_TAB_HEIGHT = 20
	LOOP_TAB_CUT    = 7

	SELF_LOOP_CONTROL_X = 60
	SELF_LOOP_HEIGHT    = 20
	RIGHT_ANGLE_DROP    = 25
)

type RenderOpts struct {
	// the svg will be scaled by this factor, if unset the svg has the diagram's size
	Scale *float64
	// MasterID is used instead of the diagram hash to namespace marker ids
	MasterID string
	NoXMLTag *bool
}

type renderer struct {
	canvas *svgo.SVG
	hash   string
	d      *commtarget.Diagram
}

func Render(diagram *commtarget.Diagram, opts *RenderOpts) ([]byte, error) {
	if opts == nil {
		opts = &RenderOpts{}
	}
	hash := opts.MasterID
	if hash == "" {
		var err error
		hash, err = diagram.HashID()
		if err != nil {
			return nil, err
		}
	}

	buf := &bytes.Buffer{}
	r := &renderer{
		canvas: svgo.New(buf),
		hash:   "c" + hash,
		d:      diagram,
	}

	w, h := diagram.Width, diagram.Height
	if opts.Scale != nil {
		w *= *opts.Scale
		h *= *opts.Scale
	}
	vb := diagram.ViewBox
	r.canvas.Start(ceil(w), ceil(h),
		fmt.Sprintf(`viewBox="%d %d %d %d"`, round(vb.X), round(vb.Y), ceil(vb.Width), ceil(vb.Height)),
		fmt.Sprintf(`class="%s"`, r.hash),
	)
	if diagram.Title != "" {
		r.canvas.Title(diagram.Title)
	}
	r.canvas.Style("text/css", r.stylesheet())
	r.defineMarkers()

	r.canvas.Gid(r.hash + "-boxes")
	for _, b := range diagram.Boxes {
		r.drawBox(b)
	}
	r.canvas.Gend()

	r.canvas.Gid(r.hash + "-lifelines")
	for _, l := range diagram.Lifelines {
		r.canvas.Line(round(l.X), round(l.StartY), round(l.X), round(l.StopY), `class="lifeline"`)
	}
	r.canvas.Gend()

	r.canvas.Gid(r.hash + "-actors")
	for _, a := range diagram.Actors {
		r.drawActor(a)
	}
	for _, a := range diagram.FooterActors {
		r.drawActor(a)
	}
	r.canvas.Gend()

	r.canvas.Gid(r.hash + "-loops")
	for _, l := range diagram.Loops {
		r.drawLoop(l)
	}
	r.canvas.Gend()

	r.canvas.Gid(r.hash + "-notes")
	for _, n := range diagram.Notes {
		r.drawNote(n)
	}
	r.canvas.Gend()

	r.canvas.Gid(r.hash + "-messages")
	for _, m := range diagram.Messages {
		r.drawMessage(m)
	}
	r.canvas.Gend()

	if diagram.Title != "" && diagram.TitlePos != nil {
		r.canvas.Text(round(diagram.TitlePos.X), round(diagram.TitlePos.Y), diagram.Title, `class="title"`)
	}
	r.canvas.End()

	out := buf.Bytes()
	if opts.NoXMLTag != nil && *opts.NoXMLTag {
		out = out[bytes.Index(out, []byte("<svg")):]
	}
	return out, nil
}

func (r *renderer) stylesheet() string {
	d := r.d
	rules := []string{
		fmt.Sprintf(`.%s text { fill: %s; }`, r.hash, commtarget.FG_COLOR),
		fmt.Sprintf(`.%s .actor { fill: %s; stroke: %s; stroke-width: 1; }`, r.hash, color.B5, commtarget.FG_COLOR),
		fmt.Sprintf(`.%s .actor-label { %s text-anchor: middle; dominant-baseline: central; }`, r.hash, fontCSS(d.ActorFont)),
		fmt.Sprintf(`.%s .actor-figure { fill: none; stroke: %s; stroke-width: 2; }`, r.hash, commtarget.FG_COLOR),
		fmt.Sprintf(`.%s .lifeline { stroke: %s; stroke-width: %v; }`, r.hash, commtarget.LOOP_COLOR, LIFELINE_STROKE_WIDTH),
		fmt.Sprintf(`.%s .box-label { %s text-anchor: middle; dominant-baseline: hanging; }`, r.hash, fontCSS(d.ActorFont)),
		fmt.Sprintf(`.%s .loop { fill: none; stroke: %s; stroke-width: 2; stroke-dasharray: 2, 2; }`, r.hash, commtarget.LOOP_COLOR),
		fmt.Sprintf(`.%s .loop-tab { fill: %s; stroke: %s; }`, r.hash, color.B5, commtarget.LOOP_COLOR),
		fmt.Sprintf(`.%s .loop-label { %s text-anchor: middle; dominant-baseline: central; }`, r.hash, fontCSS(d.MessageFont)),
		fmt.Sprintf(`.%s .note { fill: %s; stroke: %s; stroke-width: 1; }`, r.hash, commtarget.NOTE_COLOR, commtarget.FG_COLOR),
		fmt.Sprintf(`.%s .note-label { %s text-anchor: middle; dominant-baseline: central; }`, r.hash, fontCSS(d.NoteFont)),
		fmt.Sprintf(`.%s .message { fill: none; stroke: %s; stroke-width: %v; }`, r.hash, commtarget.FG_COLOR, MESSAGE_STROKE_WIDTH),
		fmt.Sprintf(`.%s .message.dotted { stroke-dasharray: 3, 3; }`, r.hash),
		fmt.Sprintf(`.%s .message-label { %s text-anchor: middle; }`, r.hash, fontCSS(d.MessageFont)),
		fmt.Sprintf(`.%s .title { %s font-size: %dpx; text-anchor: middle; }`, r.hash, fontCSS(d.ActorFont), commfonts.FONT_SIZE_L),
	}
	return strings.Join(rules, "\n")
}

func fontCSS(f commfonts.Font) string {
	weight := "normal"
	style := "normal"
	switch f.Style {
	case commfonts.FONT_STYLE_BOLD:
		weight = "bold"
	case commfonts.FONT_STYLE_ITALIC:
		style = "italic"
	}
	return fmt.Sprintf("font-family: %s; font-size: %dpx; font-weight: %s; font-style: %s;",
		f.Family.CSS(), f.Size, weight, style)
}

func (r *renderer) markerID(a commtarget.Arrowhead) string {
	return fmt.Sprintf("%s-%s", r.hash, a)
}

func (r *renderer) defineMarkers() {
	fill := fmt.Sprintf(`fill="%s"`, commtarget.FG_COLOR)
	stroke := fmt.Sprintf(`stroke="%s"`, commtarget.FG_COLOR)

	r.canvas.Def()
	r.canvas.Marker(r.markerID(commtarget.ArrowArrowhead), 7, 5, 12, 12,
		`viewBox="0 0 10 10"`, `markerUnits="userSpaceOnUse"`, `orient="auto-start-reverse"`)
	r.canvas.Path("M 0 0 L 10 5 L 0 10 z", fill)
	r.canvas.MarkerEnd()

	r.canvas.Marker(r.markerID(commtarget.FilledArrowhead), 18, 7, 20, 14,
		`markerUnits="userSpaceOnUse"`, `orient="auto"`)
	r.canvas.Path("M 18 7 L 9 13 L 14 7 L 9 1 Z", fill)
	r.canvas.MarkerEnd()

	r.canvas.Marker(r.markerID(commtarget.CrossArrowhead), 4, 4, 15, 8,
		`markerUnits="userSpaceOnUse"`, `orient="auto"`)
	r.canvas.Path("M 1 1 L 7 7 M 7 1 L 1 7", stroke, `stroke-width="1.5"`)
	r.canvas.MarkerEnd()
	r.canvas.DefEnd()
}

func (r *renderer) drawBox(b commtarget.Box) {
	r.canvas.Rect(round(b.X), round(b.Y), round(b.Width), round(b.Height),
		fmt.Sprintf(`fill="%s"`, b.Fill),
		fmt.Sprintf(`stroke="%s"`, b.Stroke),
		`class="box"`,
	)
	if b.Label != "" {
		r.drawLines(b.X+b.Width/2, b.Y+LABEL_GAP, b.Label, r.d.ActorFont.Size, `class="box-label"`)
	}
}

func (r *renderer) drawActor(a commtarget.Actor) {
	cx := a.Center()
	if a.Shape == commtarget.ActorShapePerson {
		r.drawPerson(a)
		// the figure takes the top of the actor, the name sits below it
		r.drawCenteredLines(cx, a.Y+a.Height-float64(r.d.ActorFont.Size)/2, a.Label, r.d.ActorFont.Size, `class="actor-label"`)
		return
	}
	r.canvas.Roundrect(round(a.X), round(a.Y), round(a.Width), round(a.Height), 3, 3, `class="actor"`)
	r.drawCenteredLines(cx, a.Y+a.Height/2, a.Label, r.d.ActorFont.Size, `class="actor-label"`)
}

func (r *renderer) drawPerson(a commtarget.Actor) {
	cx := round(a.Center())
	y := round(a.Y)
	r.canvas.Group(`class="actor-figure"`)
	r.canvas.Circle(cx, y+8, 8)
	r.canvas.Line(cx, y+16, cx, y+34)
	r.canvas.Line(cx-14, y+22, cx+14, y+22)
	r.canvas.Line(cx, y+34, cx-12, y+46)
	r.canvas.Line(cx, y+34, cx+12, y+46)
	r.canvas.Gend()
}

func (r *renderer) drawLoop(l commtarget.Loop) {
	x, y := round(l.X), round(l.Y)
	r.canvas.Rect(x, y, round(l.Width), round(l.Height), `class="loop"`)
	r.canvas.Polygon(
		[]int{x, x + LOOP_TAB_WIDTH, x + LOOP_TAB_WIDTH, x + LOOP_TAB_WIDTH - LOOP_TAB_CUT, x},
		[]int{y, y, y + LOOP_TAB_HEIGHT - LOOP_TAB_CUT, y + LOOP_TAB_HEIGHT, y + LOOP_TAB_HEIGHT},
		`class="loop-tab"`,
	)
	r.canvas.Text(x+LOOP_TAB_WIDTH/2, y+LOOP_TAB_HEIGHT/2, "loop", `class="loop-label"`)
	if l.Label != "" {
		r.drawLines(l.X+l.Width/2, l.Y+LOOP_TAB_HEIGHT/2, "["+l.Label+"]", r.d.MessageFont.Size, `class="loop-label"`)
	}
}

func (r *renderer) drawNote(n commtarget.Note) {
	r.canvas.Rect(round(n.X), round(n.Y), round(n.Width), round(n.Height), `class="note"`)
	r.drawCenteredLines(n.X+n.Width/2, n.Y+n.Height/2, n.Label, r.d.NoteFont.Size, `class="note-label"`)
}

func (r *renderer) drawMessage(m commtarget.Message) {
	class := `class="message"`
	if m.Dotted {
		class = `class="message dotted"`
	}
	attrs := []string{class}
	if m.Arrowhead != commtarget.NoArrowhead {
		attrs = append(attrs, fmt.Sprintf(`marker-end="url(#%s)"`, r.markerID(m.Arrowhead)))
	}

	labelX := (m.StartX + m.StopX) / 2
	if m.IsSelf() {
		r.canvas.Path(selfLoopPath(m, r.d.RightAngles), attrs...)
		labelX = m.StartX
	} else {
		pc := svg.NewPathContext()
		pc.StartAt(geo.NewPoint(m.StartX, m.LineStartY))
		pc.H(m.StopX)
		r.canvas.Path(pc.PathData(), attrs...)
	}

	if m.Label == "" {
		return
	}
	lines := strings.Split(m.Label, "\n")
	lineHeight := float64(r.d.MessageFont.Size) * LINE_HEIGHT_FACTOR
	// the last line sits on top of the message line
	top := m.LineStartY - LABEL_GAP - lineHeight*float64(len(lines)-1)
	r.drawLines(labelX, top, m.Label, r.d.MessageFont.Size, `class="message-label"`)
}

func selfLoopPath(m commtarget.Message, rightAngles bool) string {
	pc := svg.NewPathContext()
	pc.StartAt(geo.NewPoint(m.StartX, m.LineStartY))
	if rightAngles {
		pc.H(m.StartX + m.LoopWidth)
		pc.V(m.LineStartY + RIGHT_ANGLE_DROP)
		pc.H(m.StartX)
		return pc.PathData()
	}
	pc.C(
		m.StartX+SELF_LOOP_CONTROL_X, m.LineStartY-10,
		m.StartX+SELF_LOOP_CONTROL_X, m.LineStartY+30,
		m.StartX, m.LineStartY+SELF_LOOP_HEIGHT,
	)
	return pc.PathData()
}

// drawCenteredLines draws text whose lines are vertically centered on cy.
func (r *renderer) drawCenteredLines(cx, cy float64, text string, fontSize int, attrs ...string) {
	n := strings.Count(text, "\n") + 1
	lineHeight := float64(fontSize) * LINE_HEIGHT_FACTOR
	r.drawLines(cx, cy-lineHeight*float64(n-1)/2, text, fontSize, attrs...)
}

// drawLines draws text with its first line at y.
func (r *renderer) drawLines(x, y float64, text string, fontSize int, attrs ...string) {
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		r.canvas.Text(round(x), round(y), text, attrs...)
		return
	}
	lineHeight := float64(fontSize) * LINE_HEIGHT_FACTOR
	r.canvas.Textspan(round(x), round(y), "", attrs...)
	for i, line := range lines {
		dy := lineHeight
		if i == 0 {
			dy = 0
		}
		if line == "" {
			// an empty tspan collapses, keep the line
			line = " "
		}
		r.canvas.Span(line, fmt.Sprintf(`x="%d"`, round(x)), fmt.Sprintf(`dy="%v"`, dy))
	}
	r.canvas.TextEnd()
}

func round(f float64) int {
	return int(math.Round(f))
}

func ceil(f float64) int {
	return int(math.Ceil(f))
}
