package commlayout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/commdiagram/commconfig"
	"oss.terrastruct.com/commdiagram/commgraph"
	"oss.terrastruct.com/commdiagram/commlayout"
	"oss.terrastruct.com/commdiagram/lib/geo"
)

func TestBuildMessageModel(t *testing.T) {
	t.Parallel()

	cfg := commconfig.Default()
	g := notesGraph()
	g.AddSignal("A", "B", commgraph.Text{Text: "hello"}, commgraph.LineSolid)
	g.AddSignal("B", "A", commgraph.Text{Text: "hello"}, commgraph.LineDotted)
	g.AddSignal("A", "A", commgraph.Text{Text: "hi"}, commgraph.LineSolidOpen)

	right, err := commlayout.BuildMessageModel(g.Messages[0], g.Actors, fakeMetrics{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 76., right.StartX)
	assert.Equal(t, 274., right.StopX)
	assert.Equal(t, 74., right.FromBounds)
	assert.Equal(t, 276., right.ToBounds)
	assert.Equal(t, 218., right.Width)
	assert.False(t, right.IsSelf())

	left, err := commlayout.BuildMessageModel(g.Messages[1], g.Actors, fakeMetrics{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 274., left.StartX)
	assert.Equal(t, 76., left.StopX)
	assert.Equal(t, 74., left.FromBounds)
	assert.Equal(t, 276., left.ToBounds)
	assert.Equal(t, commgraph.LineDotted, left.Type)

	self, err := commlayout.BuildMessageModel(g.Messages[2], g.Actors, fakeMetrics{}, cfg)
	require.NoError(t, err)
	assert.True(t, self.IsSelf())
	assert.Equal(t, 76., self.StartX)
	assert.Equal(t, 150., self.Width)
}

func TestBuildMessageModelWraps(t *testing.T) {
	t.Parallel()

	g := notesGraph()
	g.AddSignal("A", "B", commgraph.ParseMessage("wrap:the quick brown fox jumps over the lazy dog again and again"), commgraph.LineSolid)

	mm, err := commlayout.BuildMessageModel(g.Messages[0], g.Actors, fakeMetrics{}, commconfig.Default())
	require.NoError(t, err)
	// 198 between the slots plus padding
	assert.Equal(t, "the quick brown fox\njumps over the lazy\ndog again and again", mm.Text)
	assert.Equal(t, 218., mm.Width)
}

func TestBuildMessageModelErrors(t *testing.T) {
	t.Parallel()

	g := notesGraph()
	g.AddSignal("A", "ghost", commgraph.Text{Text: "?"}, commgraph.LineSolid)
	g.AddLoopStart(commgraph.Text{Text: "loop"})

	_, err := commlayout.BuildMessageModel(g.Messages[0], g.Actors, fakeMetrics{}, commconfig.Default())
	assert.Error(t, err)
	_, err = commlayout.BuildMessageModel(g.Messages[1], g.Actors, fakeMetrics{}, commconfig.Default())
	assert.Error(t, err)
}

func boundMessage(t *testing.T, from, to, text string, cfg *commconfig.Config) (*commlayout.Bounds, *commlayout.MessageModel, float64) {
	t.Helper()

	g := notesGraph()
	g.AddSignal(from, to, commgraph.Text{Text: text}, commgraph.LineSolid)
	mm, err := commlayout.BuildMessageModel(g.Messages[0], g.Actors, fakeMetrics{}, cfg)
	require.NoError(t, err)

	b := commlayout.NewBounds(cfg.BoxMargin)
	lineY := b.BoundMessage(mm, fakeMetrics{}, cfg)
	return b, mm, lineY
}

func TestBoundMessage(t *testing.T) {
	t.Parallel()

	b, mm, lineY := boundMessage(t, "A", "B", "hello", commconfig.Default())

	assert.Equal(t, 50., lineY)
	assert.Equal(t, 50., mm.LineStartY)
	assert.Equal(t, 0., mm.StartY)
	assert.Equal(t, 40., mm.Height)
	assert.Equal(t, 40., mm.StopY)
	assert.Equal(t, 50., b.GetVerticalPos())

	bounds, models := b.GetBounds()
	assert.Equal(t, geo.Rect{StartX: 74, StartY: 0, StopX: 276, StopY: 50}, bounds.Rect())
	require.Len(t, models.Messages, 1)
}

func TestBoundMessageMultiline(t *testing.T) {
	t.Parallel()

	_, mm, lineY := boundMessage(t, "A", "B", "one\ntwo\nthree", commconfig.Default())

	// one line height above the cursor, the rest between the label and the line
	assert.Equal(t, 90., lineY)
	assert.Equal(t, 80., mm.Height)
}

func TestBoundSelfMessage(t *testing.T) {
	t.Parallel()

	b, mm, lineY := boundMessage(t, "A", "A", "hi", commconfig.Default())

	assert.Equal(t, 50., lineY)
	assert.Equal(t, 70., mm.Height)
	assert.Equal(t, 80., b.GetVerticalPos())

	bounds, _ := b.GetBounds()
	assert.Equal(t, geo.Rect{StartX: 1, StartY: 0, StopX: 151, StopY: 110}, bounds.Rect())
}

func TestBoundSelfMessageRightAngles(t *testing.T) {
	t.Parallel()

	cfg := commconfig.Default()
	cfg.RightAngles = true
	b, _, lineY := boundMessage(t, "A", "A", "hi", cfg)

	assert.Equal(t, 40., lineY)
	bounds, _ := b.GetBounds()
	assert.Equal(t, geo.Rect{StartX: 1, StartY: 0, StopX: 151, StopY: 100}, bounds.Rect())
}

func TestBoundSelfMessageWideLabel(t *testing.T) {
	t.Parallel()

	b, _, _ := boundMessage(t, "A", "A", "a self message with a long label", commconfig.Default())

	// 320 wide label, so the loop clears 160 on either side of the slot
	bounds, _ := b.GetBounds()
	assert.Equal(t, -84., *bounds.StartX)
	assert.Equal(t, 236., *bounds.StopX)
}
