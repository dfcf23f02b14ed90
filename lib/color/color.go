package color

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

const (
	Transparent = "transparent"

	// neutrals used by the renderer
	N1 = "#0A0F25"
	N4 = "#CFD2DD"
	N7 = "#FFFFFF"
	B5 = "#EDF0FD"
	Y5 = "#FFF5AA"
)

// IsColor reports whether s is a CSS color csscolorparser understands.
func IsColor(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	_, err := csscolorparser.Parse(s)
	return err == nil
}

// Darken returns colorString with its luminance decreased by 10%.
func Darken(colorString string) (string, error) {
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return "", err
	}
	h, s, l := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
	return colorful.Hsl(h, s, l-.1).Clamped().Hex(), nil
}

// IsTransparent reports whether colorString is fully transparent.
func IsTransparent(colorString string) bool {
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return false
	}
	return c.A == 0
}
