// Package commtarget is the fully resolved geometry of a communication
// diagram, ready to be drawn without further layout.
package commtarget

import (
	"encoding/json"
	"fmt"
	"hash/fnv"

	"oss.terrastruct.com/commdiagram/commfonts"
	"oss.terrastruct.com/commdiagram/lib/color"
	"oss.terrastruct.com/commdiagram/lib/geo"
)

const (
	BG_COLOR   = color.N7
	FG_COLOR   = color.N1
	NOTE_COLOR = color.Y5
	LOOP_COLOR = color.N4
)

// Bounds is a rectangle whose edges are unset until something is inserted.
type Bounds struct {
	StartX *float64 `json:"startx,omitempty"`
	StartY *float64 `json:"starty,omitempty"`
	StopX  *float64 `json:"stopx,omitempty"`
	StopY  *float64 `json:"stopy,omitempty"`
}

func (b Bounds) IsEmpty() bool {
	return b.StartX == nil && b.StartY == nil && b.StopX == nil && b.StopY == nil
}

// Rect returns b with unset edges as 0.
func (b Bounds) Rect() geo.Rect {
	return geo.Rect{
		StartX: deref(b.StartX),
		StartY: deref(b.StartY),
		StopX:  deref(b.StopX),
		StopY:  deref(b.StopY),
	}
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

type ViewBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (vb ViewBox) String() string {
	return fmt.Sprintf("%v %v %v %v", vb.X, vb.Y, vb.Width, vb.Height)
}

type Diagram struct {
	Title    string     `json:"title,omitempty"`
	TitlePos *geo.Point `json:"titlePos,omitempty"`

	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	ViewBox ViewBox `json:"viewBox"`
	Bounds  Bounds  `json:"bounds"`

	ActorFont   commfonts.Font `json:"actorFont"`
	NoteFont    commfonts.Font `json:"noteFont"`
	MessageFont commfonts.Font `json:"messageFont"`
	RightAngles bool           `json:"rightAngles"`

	Actors       []Actor    `json:"actors"`
	FooterActors []Actor    `json:"footerActors,omitempty"`
	Lifelines    []Lifeline `json:"lifelines"`
	Boxes        []Box      `json:"boxes"`
	Loops        []Loop     `json:"loops"`
	Messages     []Message  `json:"messages"`
	Notes        []Note     `json:"notes"`
}

func (d Diagram) Bytes() ([]byte, error) {
	return json.Marshal(d)
}

// HashID is a short stable hash of the diagram, used to namespace SVG ids.
func (d Diagram) HashID() (string, error) {
	b, err := d.Bytes()
	if err != nil {
		return "", err
	}
	h := fnv.New32a()
	_, err = h.Write(b)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(h.Sum32()), nil
}

type ActorShape string

const (
	ActorShapeBox    ActorShape = "participant"
	ActorShapePerson ActorShape = "actor"
)

type Actor struct {
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Shape ActorShape `json:"shape"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center is the x of the actor's lifeline.
func (a Actor) Center() float64 {
	return a.X + a.Width/2
}

type Lifeline struct {
	ActorID string  `json:"actorID"`
	X       float64 `json:"x"`
	StartY  float64 `json:"startY"`
	StopY   float64 `json:"stopY"`
}

type Box struct {
	Label  string `json:"label"`
	Fill   string `json:"fill"`
	Stroke string `json:"stroke"`

	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	TextMaxHeight float64 `json:"textMaxHeight"`
}

type Loop struct {
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Arrowhead string

const (
	NoArrowhead     Arrowhead = "none"
	ArrowArrowhead  Arrowhead = "arrow"
	CrossArrowhead  Arrowhead = "cross"
	FilledArrowhead Arrowhead = "filled"
)

type Message struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`

	Dotted    bool      `json:"dotted"`
	Arrowhead Arrowhead `json:"arrowhead"`

	StartX     float64 `json:"startX"`
	StopX      float64 `json:"stopX"`
	StartY     float64 `json:"startY"`
	StopY      float64 `json:"stopY"`
	LineStartY float64 `json:"lineStartY"`
	// LoopWidth is how far right of its actor a self message reaches.
	LoopWidth float64 `json:"loopWidth,omitempty"`
}

// IsSelf reports whether the message loops back onto its actor.
func (m Message) IsSelf() bool {
	return m.StartX == m.StopX
}

type Note struct {
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
