package geo

import (
	"fmt"
	"math"
)

// Rect is an axis aligned rectangle given by its two opposite corners.
type Rect struct {
	StartX float64 `json:"startx"`
	StartY float64 `json:"starty"`
	StopX  float64 `json:"stopx"`
	StopY  float64 `json:"stopy"`
}

// NewRect returns the rectangle spanned by (x1, y1) and (x2, y2) in normal
// form, such that Start is component-wise less or equal than Stop.
func NewRect(x1, y1, x2, y2 float64) Rect {
	return Rect{
		StartX: math.Min(x1, x2),
		StartY: math.Min(y1, y2),
		StopX:  math.Max(x1, x2),
		StopY:  math.Max(y1, y2),
	}
}

func (r Rect) Width() float64 {
	return r.StopX - r.StartX
}

func (r Rect) Height() float64 {
	return r.StopY - r.StartY
}

// Expand grows every edge of r outward by d.
func (r Rect) Expand(d float64) Rect {
	return Rect{
		StartX: r.StartX - d,
		StartY: r.StartY - d,
		StopX:  r.StopX + d,
		StopY:  r.StopY + d,
	}
}

// Contains reports whether r2 lies entirely inside r.
func (r Rect) Contains(r2 Rect) bool {
	return r.StartX <= r2.StartX && r.StartY <= r2.StartY &&
		r.StopX >= r2.StopX && r.StopY >= r2.StopY
}

func (r Rect) ToString() string {
	return fmt.Sprintf("[(%v, %v), (%v, %v)]", r.StartX, r.StartY, r.StopX, r.StopY)
}
