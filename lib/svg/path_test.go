package svg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/commdiagram/lib/geo"
)

func TestPathData(t *testing.T) {
	pc := NewPathContext()
	pc.StartAt(geo.NewPoint(10, 20))
	pc.H(85)
	pc.V(45)
	pc.H(10)
	assert.Equal(t, "M 10 20 H 85 V 45 H 10", pc.PathData())
	assert.Equal(t, geo.NewPoint(10, 45), pc.Current)

	pc = NewPathContext()
	pc.StartAt(geo.NewPoint(0, 0))
	pc.C(60, -10, 60, 30, 0, 20)
	pc.L(1.123456, 2)
	pc.Z()
	assert.Equal(t, "M 0 0 C 60 -10 60 30 0 20 L 1.1235 2 Z", pc.PathData())
	assert.Equal(t, geo.NewPoint(0, 0), pc.Current)
}
