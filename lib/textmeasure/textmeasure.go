// Trimmed down to essentials of measuring text with TrueType faces

package textmeasure

import (
	"math"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/rivo/uniseg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"oss.terrastruct.com/commdiagram/commfonts"
	"oss.terrastruct.com/commdiagram/lib/go2"
)

const TAB_SIZE = 4
const SIZELESS_FONT_SIZE = 0

// Ruler measures text rendered with the fonts in commfonts.FontFaces.
//
// Faces are parsed once in NewRuler and sized lazily the first time a font
// size is requested. A Ruler is not safe for concurrent use.
type Ruler struct {
	// LineHeightFactor scales the face line height between two lines of text.
	LineHeightFactor float64

	lineHeights map[commfonts.Font]float64
	tabWidths   map[commfonts.Font]float64
	faces       map[commfonts.Font]font.Face

	ttfs map[commfonts.Font]*truetype.Font
}

func NewRuler() (*Ruler, error) {
	r := &Ruler{
		LineHeightFactor: 1.,
		lineHeights:      make(map[commfonts.Font]float64),
		tabWidths:        make(map[commfonts.Font]float64),
		faces:            make(map[commfonts.Font]font.Face),
		ttfs:             make(map[commfonts.Font]*truetype.Font),
	}

	for _, fontFamily := range commfonts.FontFamilies {
		for _, fontStyle := range commfonts.FontStyles {
			f := fontFamily.Font(SIZELESS_FONT_SIZE, fontStyle)
			face, has := commfonts.FontFaces[f]
			if !has {
				continue
			}
			ttf, err := truetype.Parse(face)
			if err != nil {
				return nil, err
			}
			r.ttfs[f] = ttf
		}
	}

	return r, nil
}

func (r *Ruler) HasFontFamilyLoaded(fontFamily commfonts.FontFamily) bool {
	for _, fontStyle := range commfonts.FontStyles {
		if _, ok := r.ttfs[fontFamily.Font(SIZELESS_FONT_SIZE, fontStyle)]; !ok {
			return false
		}
	}
	return true
}

func (r *Ruler) addFontSize(f commfonts.Font) {
	sizeless := f
	sizeless.Size = SIZELESS_FONT_SIZE
	ttf, ok := r.ttfs[sizeless]
	if !ok {
		ttf = r.ttfs[commfonts.GoSans.Font(SIZELESS_FONT_SIZE, commfonts.FONT_STYLE_REGULAR)]
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size: float64(f.Size),
	})
	r.faces[f] = face
	r.lineHeights[f] = i2f(face.Metrics().Height)
	r.tabWidths[f] = r.advance(face, ' ') * TAB_SIZE
}

func (r *Ruler) face(f commfonts.Font) font.Face {
	if _, ok := r.faces[f]; !ok {
		r.addFontSize(f)
	}
	return r.faces[f]
}

// Measure returns the rendered size of s rounded up to whole units.
func (r *Ruler) Measure(f commfonts.Font, s string) (width, height int) {
	w, h := r.MeasurePrecise(f, s)
	return int(math.Ceil(w)), int(math.Ceil(h))
}

// MeasurePrecise returns the width of the widest line of s and the height of
// all of its lines. Empty text measures 0x0.
func (r *Ruler) MeasurePrecise(f commfonts.Font, s string) (width, height float64) {
	if s == "" {
		return 0, 0
	}
	face := r.face(f)
	lines := strings.Split(s, "\n")
	for _, line := range lines {
		width = math.Max(width, r.lineWidth(face, f, line))
	}
	height = float64(len(lines)) * r.LineHeightFactor * r.lineHeights[f]
	return width, height
}

// lineWidth sums advances and kerning over the grapheme clusters of line.
// Clusters the face has no glyph for are measured as that many cells of the
// face's '0' advance, which overshoots slightly but never undershoots.
func (r *Ruler) lineWidth(face font.Face, f commfonts.Font, line string) float64 {
	var w float64
	prevR := rune(-1)
	gr := uniseg.NewGraphemes(line)
	for gr.Next() {
		runes := gr.Runes()
		if len(runes) == 0 {
			continue
		}
		c := runes[0]
		switch c {
		case '\r':
			continue
		case '\t':
			tab := r.tabWidths[f]
			rem := math.Mod(w, tab)
			w += tab - rem
			prevR = -1
			continue
		}
		adv, ok := face.GlyphAdvance(c)
		if !ok || len(runes) > 1 {
			w += float64(go2.Max(gr.Width(), 1)) * r.advance(face, '0')
			prevR = -1
			continue
		}
		if prevR >= 0 {
			w += i2f(face.Kern(prevR, c))
		}
		w += i2f(adv)
		prevR = c
	}
	return w
}

func (r *Ruler) advance(face font.Face, c rune) float64 {
	adv, _ := face.GlyphAdvance(c)
	return i2f(adv)
}

func i2f(i fixed.Int26_6) float64 {
	return float64(i) / (1 << 6)
}
