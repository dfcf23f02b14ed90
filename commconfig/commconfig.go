// Package commconfig holds the numeric sizing knobs and fonts of a
// communication diagram layout, and loads them from YAML or TOML files.
package commconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"oss.terrastruct.com/xdefer"

	"oss.terrastruct.com/commdiagram/commfonts"
)

type Config struct {
	// Width and Height are the minimum actor dimensions.
	Width  float64 `yaml:"width" toml:"width" json:"width"`
	Height float64 `yaml:"height" toml:"height" json:"height"`

	BoxMargin       float64 `yaml:"boxMargin" toml:"boxMargin" json:"boxMargin"`
	BoxTextMargin   float64 `yaml:"boxTextMargin" toml:"boxTextMargin" json:"boxTextMargin"`
	NoteMargin      float64 `yaml:"noteMargin" toml:"noteMargin" json:"noteMargin"`
	MessageMargin   float64 `yaml:"messageMargin" toml:"messageMargin" json:"messageMargin"`
	ActorMargin     float64 `yaml:"actorMargin" toml:"actorMargin" json:"actorMargin"`
	WrapPadding     float64 `yaml:"wrapPadding" toml:"wrapPadding" json:"wrapPadding"`
	DiagramMarginX  float64 `yaml:"diagramMarginX" toml:"diagramMarginX" json:"diagramMarginX"`
	DiagramMarginY  float64 `yaml:"diagramMarginY" toml:"diagramMarginY" json:"diagramMarginY"`
	BottomMarginAdj float64 `yaml:"bottomMarginAdj" toml:"bottomMarginAdj" json:"bottomMarginAdj"`

	MirrorActors           *bool `yaml:"mirrorActors" toml:"mirrorActors" json:"mirrorActors"`
	RightAngles            bool  `yaml:"rightAngles" toml:"rightAngles" json:"rightAngles"`
	Wrap                   bool  `yaml:"wrap" toml:"wrap" json:"wrap"`
	HideUnusedParticipants bool  `yaml:"hideUnusedParticipants" toml:"hideUnusedParticipants" json:"hideUnusedParticipants"`

	// FontFamily, FontSize and FontWeight override the per element fonts below.
	FontFamily string `yaml:"fontFamily" toml:"fontFamily" json:"fontFamily,omitempty"`
	FontSize   int    `yaml:"fontSize" toml:"fontSize" json:"fontSize,omitempty"`
	FontWeight string `yaml:"fontWeight" toml:"fontWeight" json:"fontWeight,omitempty"`

	ActorFontFamily   string `yaml:"actorFontFamily" toml:"actorFontFamily" json:"actorFontFamily"`
	ActorFontSize     int    `yaml:"actorFontSize" toml:"actorFontSize" json:"actorFontSize"`
	ActorFontWeight   string `yaml:"actorFontWeight" toml:"actorFontWeight" json:"actorFontWeight"`
	NoteFontFamily    string `yaml:"noteFontFamily" toml:"noteFontFamily" json:"noteFontFamily"`
	NoteFontSize      int    `yaml:"noteFontSize" toml:"noteFontSize" json:"noteFontSize"`
	NoteFontWeight    string `yaml:"noteFontWeight" toml:"noteFontWeight" json:"noteFontWeight"`
	MessageFontFamily string `yaml:"messageFontFamily" toml:"messageFontFamily" json:"messageFontFamily"`
	MessageFontSize   int    `yaml:"messageFontSize" toml:"messageFontSize" json:"messageFontSize"`
	MessageFontWeight string `yaml:"messageFontWeight" toml:"messageFontWeight" json:"messageFontWeight"`
}

func Default() *Config {
	mirror := true
	return &Config{
		Width:           150,
		Height:          65,
		BoxMargin:       10,
		BoxTextMargin:   5,
		NoteMargin:      10,
		MessageMargin:   35,
		ActorMargin:     50,
		WrapPadding:     10,
		DiagramMarginX:  50,
		DiagramMarginY:  10,
		BottomMarginAdj: 1,
		MirrorActors:    &mirror,

		ActorFontFamily:   string(commfonts.GoSans),
		ActorFontSize:     commfonts.FONT_SIZE_S,
		ActorFontWeight:   "400",
		NoteFontFamily:    string(commfonts.GoSans),
		NoteFontSize:      commfonts.FONT_SIZE_S,
		NoteFontWeight:    "400",
		MessageFontFamily: string(commfonts.GoSans),
		MessageFontSize:   commfonts.FONT_SIZE_M,
		MessageFontWeight: "400",
	}
}

// Mirrored reports whether actors are repeated below the diagram.
func (c *Config) Mirrored() bool {
	return c.MirrorActors == nil || *c.MirrorActors
}

func (c *Config) ActorFont() commfonts.Font {
	return font(c.ActorFontFamily, c.ActorFontSize, c.ActorFontWeight)
}

func (c *Config) NoteFont() commfonts.Font {
	return font(c.NoteFontFamily, c.NoteFontSize, c.NoteFontWeight)
}

func (c *Config) MessageFont() commfonts.Font {
	return font(c.MessageFontFamily, c.MessageFontSize, c.MessageFontWeight)
}

func font(family string, size int, weight string) commfonts.Font {
	return commfonts.ParseFamily(family).Font(size, commfonts.ParseStyle(weight))
}

// Merge overlays the non zero fields of o onto c. The global font settings of
// o are then applied to every element font.
func (c *Config) Merge(o *Config) {
	setFloat(&c.Width, o.Width)
	setFloat(&c.Height, o.Height)
	setFloat(&c.BoxMargin, o.BoxMargin)
	setFloat(&c.BoxTextMargin, o.BoxTextMargin)
	setFloat(&c.NoteMargin, o.NoteMargin)
	setFloat(&c.MessageMargin, o.MessageMargin)
	setFloat(&c.ActorMargin, o.ActorMargin)
	setFloat(&c.WrapPadding, o.WrapPadding)
	setFloat(&c.DiagramMarginX, o.DiagramMarginX)
	setFloat(&c.DiagramMarginY, o.DiagramMarginY)
	setFloat(&c.BottomMarginAdj, o.BottomMarginAdj)

	if o.MirrorActors != nil {
		mirror := *o.MirrorActors
		c.MirrorActors = &mirror
	}
	c.RightAngles = c.RightAngles || o.RightAngles
	c.Wrap = c.Wrap || o.Wrap
	c.HideUnusedParticipants = c.HideUnusedParticipants || o.HideUnusedParticipants

	setString(&c.ActorFontFamily, o.ActorFontFamily)
	setInt(&c.ActorFontSize, o.ActorFontSize)
	setString(&c.ActorFontWeight, o.ActorFontWeight)
	setString(&c.NoteFontFamily, o.NoteFontFamily)
	setInt(&c.NoteFontSize, o.NoteFontSize)
	setString(&c.NoteFontWeight, o.NoteFontWeight)
	setString(&c.MessageFontFamily, o.MessageFontFamily)
	setInt(&c.MessageFontSize, o.MessageFontSize)
	setString(&c.MessageFontWeight, o.MessageFontWeight)

	if o.FontFamily != "" {
		c.FontFamily = o.FontFamily
		c.ActorFontFamily, c.NoteFontFamily, c.MessageFontFamily = o.FontFamily, o.FontFamily, o.FontFamily
	}
	if o.FontSize != 0 {
		c.FontSize = o.FontSize
		c.ActorFontSize, c.NoteFontSize, c.MessageFontSize = o.FontSize, o.FontSize, o.FontSize
	}
	if o.FontWeight != "" {
		c.FontWeight = o.FontWeight
		c.ActorFontWeight, c.NoteFontWeight, c.MessageFontWeight = o.FontWeight, o.FontWeight, o.FontWeight
	}
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate rejects configurations that cannot produce a layout.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"width", c.Width},
		{"height", c.Height},
		{"boxMargin", c.BoxMargin},
		{"boxTextMargin", c.BoxTextMargin},
		{"noteMargin", c.NoteMargin},
		{"messageMargin", c.MessageMargin},
		{"actorMargin", c.ActorMargin},
		{"wrapPadding", c.WrapPadding},
		{"diagramMarginX", c.DiagramMarginX},
		{"diagramMarginY", c.DiagramMarginY},
	} {
		if f.v < 0 {
			return fmt.Errorf("%s must not be negative: %v", f.name, f.v)
		}
	}
	for _, size := range []int{c.ActorFontSize, c.NoteFontSize, c.MessageFontSize} {
		if size <= 0 {
			return fmt.Errorf("font sizes must be positive: %d", size)
		}
	}
	return nil
}

// Parse decodes data as YAML, or as TOML when ext is ".toml", and merges it
// onto the defaults. Unknown keys are rejected.
func Parse(ext string, data []byte) (*Config, error) {
	var o Config
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), &o)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
		}
	case ".yaml", ".yml", "":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	c := Default()
	c.Merge(&o)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the config file at path.
func Load(path string) (_ *Config, err error) {
	defer xdefer.Errorf(&err, "failed to load config %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(filepath.Ext(path), data)
}
