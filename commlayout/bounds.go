package commlayout

import (
	"oss.terrastruct.com/commdiagram/commtarget"
	"oss.terrastruct.com/commdiagram/lib/geo"
	"oss.terrastruct.com/commdiagram/lib/go2"
)

// Bounds accumulates the extent of a diagram as elements are inserted, along
// with a stack of open regions (loops) that grow around everything inserted
// while they are open.
//
// A region at rank r, counting from the top of the stack starting at 1, is
// kept boxMargin*r away from every rectangle inserted into it. Outer regions
// sit lower in the stack and so clear the margins of all regions nested in
// them.
type Bounds struct {
	boxMargin float64

	data        extent
	verticalPos float64
	regions     []*region
	models      Models
}

type extent struct {
	startX, startY, stopX, stopY *float64
}

type region struct {
	extent
	title string
	wrap  bool
}

func NewBounds(boxMargin float64) *Bounds {
	return &Bounds{
		boxMargin: boxMargin,
	}
}

// Reset clears everything accumulated so the next diagram starts fresh.
func (b *Bounds) Reset() {
	b.data = extent{}
	b.verticalPos = 0
	b.regions = nil
	b.models.clear()
}

// update sets an unset edge to v, otherwise combines it with fn.
func update(edge **float64, v float64, fn func(float64, float64) float64) {
	if *edge == nil {
		*edge = go2.Pointer(v)
		return
	}
	**edge = fn(v, **edge)
}

func (e *extent) insert(r geo.Rect) {
	update(&e.startX, r.StartX, go2.Min[float64])
	update(&e.startY, r.StartY, go2.Min[float64])
	update(&e.stopX, r.StopX, go2.Max[float64])
	update(&e.stopY, r.StopY, go2.Max[float64])
}

func (e extent) isSet() bool {
	return e.startX != nil && e.startY != nil && e.stopX != nil && e.stopY != nil
}

func (e extent) rect() geo.Rect {
	return geo.Rect{
		StartX: go2.Deref(e.startX),
		StartY: go2.Deref(e.startY),
		StopX:  go2.Deref(e.stopX),
		StopY:  go2.Deref(e.stopY),
	}
}

func (e extent) target() commtarget.Bounds {
	cp := func(f *float64) *float64 {
		if f == nil {
			return nil
		}
		return go2.Pointer(*f)
	}
	return commtarget.Bounds{
		StartX: cp(e.startX),
		StartY: cp(e.startY),
		StopX:  cp(e.stopX),
		StopY:  cp(e.stopY),
	}
}

// Insert widens the bounds to contain the rectangle spanned by (x1, y1) and
// (x2, y2), then widens every open region to contain it plus its rank
// proportional margin.
func (b *Bounds) Insert(x1, y1, x2, y2 float64) {
	r := geo.NewRect(x1, y1, x2, y2)
	b.data.insert(r)

	for i, reg := range b.regions {
		// regions[0] is the bottom of the stack and has the largest rank
		rank := float64(len(b.regions) - i)
		expanded := r.Expand(rank * b.boxMargin)
		reg.insert(expanded)
		b.data.insert(expanded)
	}
}

// BumpVerticalPos advances the cursor and stretches the bottom edge to it.
func (b *Bounds) BumpVerticalPos(delta float64) {
	b.verticalPos += delta
	if b.data.stopY == nil || *b.data.stopY < b.verticalPos {
		b.data.stopY = go2.Pointer(b.verticalPos)
	}
}

func (b *Bounds) GetVerticalPos() float64 {
	return b.verticalPos
}

// GetBounds returns a copy of the accumulated bounds and the models inserted
// so far.
func (b *Bounds) GetBounds() (commtarget.Bounds, *Models) {
	return b.data.target(), &b.models
}

// OpenRegions is the number of regions on the stack.
func (b *Bounds) OpenRegions() int {
	return len(b.regions)
}

// NewLoop pushes a region that grows around everything inserted until the
// matching EndLoop.
func (b *Bounds) NewLoop(title string, wrap bool) {
	b.regions = append(b.regions, &region{
		title: title,
		wrap:  wrap,
	})
}

// EndLoop pops the innermost region. A region nothing was inserted into
// collapses to a line across the diagram at the cursor. ok is false when no
// region is open.
func (b *Bounds) EndLoop() (_ *LoopModel, ok bool) {
	if len(b.regions) == 0 {
		return nil, false
	}
	reg := b.regions[len(b.regions)-1]
	b.regions = b.regions[:len(b.regions)-1]

	if !reg.isSet() {
		r := b.data.rect()
		reg.insert(geo.NewRect(r.StartX, b.verticalPos, r.StopX, b.verticalPos))
	}
	r := reg.rect()
	return &LoopModel{
		Geometry: Geometry{
			StartX: r.StartX,
			StartY: r.StartY,
			StopX:  r.StopX,
			StopY:  r.StopY,
			Width:  r.Width(),
			Height: r.Height(),
		},
		Title: reg.title,
		Wrap:  reg.wrap,
	}, true
}
