package commlayout_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/commdiagram/commlayout"
	"oss.terrastruct.com/commdiagram/lib/geo"
)

func TestEmptyBounds(t *testing.T) {
	t.Parallel()

	b := commlayout.NewBounds(10)
	bounds, models := b.GetBounds()
	assert.True(t, bounds.IsEmpty())
	assert.Nil(t, bounds.StartX)
	assert.Nil(t, bounds.StopY)
	assert.Empty(t, models.Actors)
	assert.Empty(t, models.Boxes)
	assert.Empty(t, models.Messages)
	assert.Empty(t, models.Notes)
	assert.Empty(t, models.Loops)
	assert.Equal(t, 0., b.GetVerticalPos())
}

func TestInsert(t *testing.T) {
	t.Parallel()

	b := commlayout.NewBounds(10)
	b.Insert(100, 50, 20, 10)
	bounds, _ := b.GetBounds()
	assert.Equal(t, geo.Rect{StartX: 20, StartY: 10, StopX: 100, StopY: 50}, bounds.Rect())

	b.Insert(40, 0, 60, 30)
	bounds, _ = b.GetBounds()
	assert.Equal(t, geo.Rect{StartX: 20, StartY: 0, StopX: 100, StopY: 50}, bounds.Rect())

	b.Insert(-5, 20, 200, 25)
	bounds, _ = b.GetBounds()
	assert.Equal(t, geo.Rect{StartX: -5, StartY: 0, StopX: 200, StopY: 50}, bounds.Rect())
}

func TestBoundsNeverShrink(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(1))
	b := commlayout.NewBounds(10)
	var prev *geo.Rect
	for i := 0; i < 500; i++ {
		if i%50 == 10 {
			b.NewLoop("", false)
		}
		if i%50 == 40 {
			b.EndLoop()
		}
		if i%7 == 0 {
			b.BumpVerticalPos(r.Float64() * 20)
		}
		b.Insert(r.Float64()*1000-500, r.Float64()*1000-500, r.Float64()*1000-500, r.Float64()*1000-500)

		bounds, _ := b.GetBounds()
		cur := bounds.Rect()
		if prev != nil {
			require.True(t, cur.Contains(*prev), "%s does not contain %s", cur.ToString(), prev.ToString())
		}
		prev = &cur
	}
}

func TestRankMargins(t *testing.T) {
	t.Parallel()

	b := commlayout.NewBounds(10)
	b.NewLoop("outer", false)
	b.NewLoop("middle", false)
	b.NewLoop("inner", false)
	assert.Equal(t, 3, b.OpenRegions())

	b.Insert(0, 0, 100, 50)

	inner, ok := b.EndLoop()
	require.True(t, ok)
	middle, ok := b.EndLoop()
	require.True(t, ok)
	outer, ok := b.EndLoop()
	require.True(t, ok)
	_, ok = b.EndLoop()
	assert.False(t, ok)

	assert.Equal(t, "inner", inner.Title)
	assert.Equal(t, commlayout.Geometry{StartX: -10, StartY: -10, StopX: 110, StopY: 60, Width: 120, Height: 70}, inner.Geometry)
	assert.Equal(t, commlayout.Geometry{StartX: -20, StartY: -20, StopX: 120, StopY: 70, Width: 140, Height: 90}, middle.Geometry)
	assert.Equal(t, commlayout.Geometry{StartX: -30, StartY: -30, StopX: 130, StopY: 80, Width: 160, Height: 110}, outer.Geometry)

	// the diagram grows with the outermost region
	bounds, _ := b.GetBounds()
	assert.Equal(t, geo.Rect{StartX: -30, StartY: -30, StopX: 130, StopY: 80}, bounds.Rect())
}

func TestRegionOnlyGrowsWhileOpen(t *testing.T) {
	t.Parallel()

	b := commlayout.NewBounds(5)
	b.Insert(0, 0, 10, 10)
	b.NewLoop("", false)
	b.Insert(20, 20, 30, 30)
	l, ok := b.EndLoop()
	require.True(t, ok)
	b.Insert(100, 100, 200, 200)

	assert.Equal(t, commlayout.Geometry{StartX: 15, StartY: 15, StopX: 35, StopY: 35, Width: 20, Height: 20}, l.Geometry)
}

func TestEmptyLoop(t *testing.T) {
	t.Parallel()

	b := commlayout.NewBounds(10)
	b.Insert(0, 0, 300, 40)
	b.BumpVerticalPos(60)
	b.NewLoop("", false)
	l, ok := b.EndLoop()
	require.True(t, ok)
	assert.Equal(t, commlayout.Geometry{StartX: 0, StartY: 60, StopX: 300, StopY: 60, Width: 300}, l.Geometry)
}

func TestBumpVerticalPos(t *testing.T) {
	t.Parallel()

	b := commlayout.NewBounds(10)
	b.BumpVerticalPos(30)
	b.BumpVerticalPos(15)
	assert.Equal(t, 45., b.GetVerticalPos())

	bounds, _ := b.GetBounds()
	require.NotNil(t, bounds.StopY)
	assert.Equal(t, 45., *bounds.StopY)
	assert.Nil(t, bounds.StartY)

	b.Insert(0, 0, 10, 100)
	b.BumpVerticalPos(5)
	bounds, _ = b.GetBounds()
	assert.Equal(t, 100., *bounds.StopY)
}

func TestReset(t *testing.T) {
	t.Parallel()

	b := commlayout.NewBounds(10)
	b.NewLoop("", false)
	b.Insert(0, 0, 10, 10)
	b.BumpVerticalPos(10)
	b.Reset()

	bounds, models := b.GetBounds()
	assert.True(t, bounds.IsEmpty())
	assert.Empty(t, models.Loops)
	assert.Equal(t, 0, b.OpenRegions())
	assert.Equal(t, 0., b.GetVerticalPos())
}
