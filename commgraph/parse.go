package commgraph

import (
	"regexp"
	"strings"

	"oss.terrastruct.com/commdiagram/lib/color"
	"oss.terrastruct.com/commdiagram/lib/go2"
)

var (
	wrapPrefixRegex = regexp.MustCompile(`^:?(?:no)?wrap:`)
	boxDataRegex    = regexp.MustCompile(`^((?:rgba?|hsla?)\s*\(.*\)|\w*)(.*)$`)
	wrapDirective   = regexp.MustCompile(`^:?wrap:`)
	noWrapDirective = regexp.MustCompile(`^:?nowrap:`)
	lineBreakRegex  = regexp.MustCompile(`(?i)<br\s*/?>`)
)

// normalizeBreaks turns <br>, <br/> and <br /> into newlines.
func normalizeBreaks(s string) string {
	return lineBreakRegex.ReplaceAllString(s, "\n")
}

func parseWrap(s string) *bool {
	switch {
	case wrapDirective.MatchString(s):
		return go2.Pointer(true)
	case noWrapDirective.MatchString(s):
		return go2.Pointer(false)
	}
	return nil
}

// ParseMessage strips a leading wrap: or nowrap: directive from s. <br> tags
// become line breaks.
//
//	ParseMessage("wrap: hello") == Text{Text: "hello", Wrap: &true}
func ParseMessage(s string) Text {
	s = strings.TrimSpace(s)
	return Text{
		Text: normalizeBreaks(strings.TrimSpace(wrapPrefixRegex.ReplaceAllString(s, ""))),
		Wrap: parseWrap(s),
	}
}

type BoxData struct {
	Text  string
	Color string
	Wrap  *bool
}

// ParseBoxData splits a box header into its fill color and title. The color
// comes first and may be a CSS color name or an rgb/rgba/hsl/hsla function.
// When the first word is not a color, the whole header is the title.
func ParseBoxData(s string) BoxData {
	fill := color.Transparent
	title := ""
	hasTitle := false
	if m := boxDataRegex.FindStringSubmatch(s); m != nil {
		if m[1] != "" {
			fill = strings.TrimSpace(m[1])
		}
		if m[2] != "" {
			title = strings.TrimSpace(m[2])
			hasTitle = true
		}
	}

	if !color.IsColor(fill) {
		fill = color.Transparent
		title = strings.TrimSpace(s)
		hasTitle = true
	}

	bd := BoxData{Color: fill}
	if hasTitle {
		bd.Text = normalizeBreaks(wrapPrefixRegex.ReplaceAllString(title, ""))
		bd.Wrap = parseWrap(title)
	}
	return bd
}
