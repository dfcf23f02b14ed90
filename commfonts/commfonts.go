// commfonts holds the fonts used to measure and render diagram text
package commfonts

import (
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

type FontFamily string
type FontStyle string

type Font struct {
	Family FontFamily `json:"family"`
	Style  FontStyle  `json:"style"`
	Size   int        `json:"size"`
}

func (f FontFamily) Font(size int, style FontStyle) Font {
	return Font{
		Family: f,
		Style:  style,
		Size:   size,
	}
}

// CSS returns the font-family value used when rendering with f.
func (f FontFamily) CSS() string {
	switch f {
	case GoMono:
		return `"Go Mono", monospace`
	default:
		return `"Go", sans-serif`
	}
}

const (
	FONT_SIZE_S  = 14
	FONT_SIZE_M  = 16
	FONT_SIZE_L  = 20
	FONT_SIZE_XL = 24

	FONT_STYLE_REGULAR FontStyle = "regular"
	FONT_STYLE_BOLD    FontStyle = "bold"
	FONT_STYLE_ITALIC  FontStyle = "italic"

	GoSans FontFamily = "sans"
	GoMono FontFamily = "mono"
)

var FontStyles = []FontStyle{
	FONT_STYLE_REGULAR,
	FONT_STYLE_BOLD,
	FONT_STYLE_ITALIC,
}

var FontFamilies = []FontFamily{
	GoSans,
	GoMono,
}

// FontFaces maps a sizeless font to its TrueType data.
var FontFaces = map[Font][]byte{
	{Family: GoSans, Style: FONT_STYLE_REGULAR}: goregular.TTF,
	{Family: GoSans, Style: FONT_STYLE_BOLD}:    gobold.TTF,
	{Family: GoSans, Style: FONT_STYLE_ITALIC}:  goitalic.TTF,
	{Family: GoMono, Style: FONT_STYLE_REGULAR}: gomono.TTF,
	{Family: GoMono, Style: FONT_STYLE_BOLD}:    gomonobold.TTF,
	{Family: GoMono, Style: FONT_STYLE_ITALIC}:  gomonoitalic.TTF,
}

// ParseFamily maps a configured family name onto a known family. Unknown names
// fall back to GoSans.
func ParseFamily(s string) FontFamily {
	switch FontFamily(s) {
	case GoMono, "monospace":
		return GoMono
	default:
		return GoSans
	}
}

// ParseStyle maps a CSS font-weight or font-style value onto a FontStyle.
func ParseStyle(s string) FontStyle {
	switch s {
	case "bold", "bolder", "600", "700", "800", "900":
		return FONT_STYLE_BOLD
	case "italic", "oblique":
		return FONT_STYLE_ITALIC
	default:
		return FONT_STYLE_REGULAR
	}
}
