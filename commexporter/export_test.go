package commexporter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/commdiagram/commconfig"
	"oss.terrastruct.com/commdiagram/commexporter"
	"oss.terrastruct.com/commdiagram/commgraph"
	"oss.terrastruct.com/commdiagram/commlayout"
	"oss.terrastruct.com/commdiagram/commtarget"
	"oss.terrastruct.com/commdiagram/lib/log"
	"oss.terrastruct.com/commdiagram/lib/textmeasure"
)

func export(t *testing.T, g *commgraph.Graph, cfg *commconfig.Config) *commtarget.Diagram {
	t.Helper()

	ctx := log.WithTB(context.Background(), t, nil)
	ruler, err := textmeasure.NewRuler()
	require.NoError(t, err)

	res, err := commlayout.Layout(ctx, g, ruler, cfg)
	require.NoError(t, err)
	diagram, err := commexporter.Export(ctx, res, cfg)
	require.NoError(t, err)
	return diagram
}

func TestExport(t *testing.T) {
	t.Parallel()

	g := commgraph.NewGraph()
	g.SetTitle("Checkout")
	g.AddBox(commgraph.ParseBoxData("lightblue Shop"))
	require.NoError(t, g.AddActor("web", "web", &commgraph.Text{Text: "Web server"}, ""))
	require.NoError(t, g.AddActor("db", "db", nil, ""))
	g.EndBox()
	require.NoError(t, g.AddActor("user", "user", nil, commgraph.Person))

	g.AddSignal("user", "web", commgraph.Text{Text: "buy"}, commgraph.LineSolid)
	g.AddLoopStart(commgraph.Text{Text: "each item"})
	g.AddSignal("web", "db", commgraph.Text{Text: "reserve"}, commgraph.LineDottedCross)
	g.AddLoopEnd()
	g.AddSignal("web", "web", commgraph.Text{Text: "total"}, commgraph.LineSolidPoint)
	g.AddNote([]string{"user"}, commgraph.LeftOf, commgraph.Text{Text: "waits"})
	g.AddSignal("web", "user", commgraph.Text{Text: "receipt"}, commgraph.LineDottedOpen)

	d := export(t, g, commconfig.Default())

	assert.Equal(t, "Checkout", d.Title)
	require.NotNil(t, d.TitlePos)

	require.Len(t, d.Actors, 3)
	assert.Equal(t, "Web server", d.Actors[0].Label)
	assert.Equal(t, commtarget.ActorShapePerson, d.Actors[2].Shape)
	require.Len(t, d.FooterActors, 3)
	assert.Equal(t, d.Actors[1].X, d.FooterActors[1].X)
	assert.Greater(t, d.FooterActors[1].Y, d.Actors[1].Y)

	require.Len(t, d.Lifelines, 3)
	for i, l := range d.Lifelines {
		assert.Equal(t, d.Actors[i].Center(), l.X)
		assert.Equal(t, d.FooterActors[i].Y, l.StopY)
		assert.Less(t, l.StartY, l.StopY)
	}

	require.Len(t, d.Boxes, 1)
	assert.Equal(t, "Shop", d.Boxes[0].Label)
	assert.Equal(t, "lightblue", d.Boxes[0].Fill)
	assert.NotEqual(t, commlayout.BOX_STROKE, d.Boxes[0].Stroke)

	require.Len(t, d.Loops, 1)
	assert.Equal(t, "each item", d.Loops[0].Label)

	require.Len(t, d.Messages, 4)
	assert.Equal(t, commtarget.ArrowArrowhead, d.Messages[0].Arrowhead)
	assert.False(t, d.Messages[0].Dotted)
	assert.Equal(t, commtarget.CrossArrowhead, d.Messages[1].Arrowhead)
	assert.True(t, d.Messages[1].Dotted)
	assert.True(t, d.Messages[2].IsSelf())
	assert.Equal(t, commtarget.FilledArrowhead, d.Messages[2].Arrowhead)
	assert.Equal(t, 75., d.Messages[2].LoopWidth)
	assert.Equal(t, commtarget.NoArrowhead, d.Messages[3].Arrowhead)
	assert.True(t, d.Messages[3].Dotted)

	// the loop surrounds the message inside it
	loop, inner := d.Loops[0], d.Messages[1]
	assert.LessOrEqual(t, loop.X, inner.StopX)
	assert.GreaterOrEqual(t, loop.X+loop.Width, inner.StopX)
	assert.LessOrEqual(t, loop.Y, inner.StartY)
	assert.GreaterOrEqual(t, loop.Y+loop.Height, inner.LineStartY)

	require.Len(t, d.Notes, 1)
	assert.Equal(t, "waits", d.Notes[0].Label)

	_, err := d.HashID()
	assert.NoError(t, err)
}

func TestExportTransparentBox(t *testing.T) {
	t.Parallel()

	g := commgraph.NewGraph()
	g.AddBox(commgraph.ParseBoxData("Group"))
	require.NoError(t, g.AddActor("a", "a", nil, ""))
	g.EndBox()

	cfg := commconfig.Default()
	mirror := false
	cfg.MirrorActors = &mirror
	d := export(t, g, cfg)

	require.Len(t, d.Boxes, 1)
	assert.Equal(t, "transparent", d.Boxes[0].Fill)
	assert.Equal(t, commlayout.BOX_STROKE, d.Boxes[0].Stroke)
	assert.Empty(t, d.FooterActors)
	assert.Equal(t, d.Bounds.Rect().StopY, d.Lifelines[0].StopY)
}
