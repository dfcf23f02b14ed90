package svg

import (
	"fmt"
	"math"
	"strings"

	"oss.terrastruct.com/commdiagram/lib/geo"
)

// PathContext accumulates absolute SVG path commands.
type PathContext struct {
	Commands []string
	Start    *geo.Point
	Current  *geo.Point
}

func chopPrecision(f float64) float64 {
	return math.Round(f*10000) / 10000
}

func NewPathContext() *PathContext {
	return &PathContext{}
}

func (c *PathContext) StartAt(p *geo.Point) {
	c.Start = p.Copy()
	c.Commands = append(c.Commands, fmt.Sprintf("M %v %v", chopPrecision(p.X), chopPrecision(p.Y)))
	c.Current = p.Copy()
}

func (c *PathContext) Z() {
	c.Commands = append(c.Commands, "Z")
	c.Current = c.Start.Copy()
}

func (c *PathContext) L(x, y float64) {
	c.Commands = append(c.Commands, fmt.Sprintf("L %v %v", chopPrecision(x), chopPrecision(y)))
	c.Current = geo.NewPoint(x, y)
}

func (c *PathContext) C(x1, y1, x2, y2, x3, y3 float64) {
	c.Commands = append(c.Commands, fmt.Sprintf(
		"C %v %v %v %v %v %v",
		chopPrecision(x1), chopPrecision(y1),
		chopPrecision(x2), chopPrecision(y2),
		chopPrecision(x3), chopPrecision(y3),
	))
	c.Current = geo.NewPoint(x3, y3)
}

func (c *PathContext) H(x float64) {
	c.Commands = append(c.Commands, fmt.Sprintf("H %v", chopPrecision(x)))
	c.Current = geo.NewPoint(x, c.Current.Y)
}

func (c *PathContext) V(y float64) {
	c.Commands = append(c.Commands, fmt.Sprintf("V %v", chopPrecision(y)))
	c.Current = geo.NewPoint(c.Current.X, y)
}

func (c *PathContext) PathData() string {
	return strings.Join(c.Commands, " ")
}
