// Package commgraph is the in-memory model of a communication diagram: actors
// in declaration order, the boxes grouping them and the ordered list of
// messages and notes exchanged between them.
//
// The layout engine reads the model and writes only the derived geometry
// fields (Width, Height, Margin, X, Y, ...) of actors and boxes.
package commgraph

import (
	"fmt"

	"oss.terrastruct.com/commdiagram/lib/go2"
)

type LineType int

// Values follow the order in which the diagram grammar assigns them.
const (
	LineSolid       LineType = 0
	LineDotted      LineType = 1
	LineNote        LineType = 2
	LineSolidCross  LineType = 3
	LineDottedCross LineType = 4
	LineSolidOpen   LineType = 5
	LineDottedOpen  LineType = 6
	LineLoopStart   LineType = 10
	LineLoopEnd     LineType = 11
	LineSolidPoint  LineType = 24
	LineDottedPoint LineType = 25
)

// IsDotted reports whether lines of type t are drawn dashed.
func (t LineType) IsDotted() bool {
	switch t {
	case LineDotted, LineDottedCross, LineDottedOpen, LineDottedPoint:
		return true
	}
	return false
}

// IsMessage reports whether t connects two actors with a line.
func (t LineType) IsMessage() bool {
	switch t {
	case LineNote, LineLoopStart, LineLoopEnd:
		return false
	}
	return true
}

type Placement int

const (
	LeftOf Placement = iota
	RightOf
	Over
)

func (p Placement) String() string {
	switch p {
	case LeftOf:
		return "left of"
	case RightOf:
		return "right of"
	case Over:
		return "over"
	}
	return fmt.Sprintf("Placement(%d)", int(p))
}

type ActorType string

const (
	Participant ActorType = "participant"
	Person      ActorType = "actor"
)

// Text is a label together with its explicit wrap directive, if any.
type Text struct {
	Text string
	Wrap *bool
}

type Box struct {
	Name string `json:"name"`
	Wrap bool   `json:"wrap"`
	Fill string `json:"fill"`
	// ActorKeys are the members of the box, contiguous in the actor order.
	ActorKeys []string `json:"actorKeys"`

	// Label is Name as wrapped by the layout.
	Label         string  `json:"label"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Margin        float64 `json:"margin"`
	TextMaxHeight float64 `json:"textMaxHeight"`
}

type Actor struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Wrap        bool      `json:"wrap"`
	Type        ActorType `json:"type"`

	// Box is shared with the other members, never owned.
	Box *Box `json:"-"`

	// PrevActor and NextActor are keys into Graph.Actors, empty at either end.
	PrevActor string `json:"prevActor,omitempty"`
	NextActor string `json:"nextActor,omitempty"`

	// Label is Description as wrapped by the layout.
	Label  string  `json:"label"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin float64 `json:"margin"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type Message struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Text string   `json:"text"`
	Wrap bool     `json:"wrap"`
	Type LineType `json:"type"`
	// Placement is only set on notes.
	Placement *Placement `json:"placement,omitempty"`
}

// IsNote reports whether m is the message form of a note.
func (m *Message) IsNote() bool {
	return m.Placement != nil
}

type Note struct {
	Actors    []string  `json:"actors"`
	Placement Placement `json:"placement"`
	Text      string    `json:"text"`
	Wrap      bool      `json:"wrap"`
}

type Graph struct {
	Title string `json:"title,omitempty"`

	Actors    map[string]*Actor `json:"actors"`
	ActorKeys []string          `json:"actorKeys"`
	Boxes     []*Box            `json:"boxes"`
	Messages  []*Message        `json:"messages"`
	Notes     []*Note           `json:"notes"`

	// DefaultWrap is used for text without a wrap directive when SetWrap was
	// never called.
	DefaultWrap bool `json:"-"`

	wrapEnabled *bool
	prevActor   string
	currentBox  *Box
}

func NewGraph() *Graph {
	return &Graph{
		Actors: make(map[string]*Actor),
	}
}

// Clear empties the model for the next diagram.
func (g *Graph) Clear() {
	defaultWrap := g.DefaultWrap
	*g = *NewGraph()
	g.DefaultWrap = defaultWrap
}

func (g *Graph) SetTitle(title string) {
	g.Title = title
}

func (g *Graph) SetWrap(wrap bool) {
	g.wrapEnabled = go2.Pointer(wrap)
}

// AutoWrap is the wrap setting for text without an explicit directive.
func (g *Graph) AutoWrap() bool {
	if g.wrapEnabled != nil {
		return *g.wrapEnabled
	}
	return g.DefaultWrap
}

func (g *Graph) shouldWrap(t Text) bool {
	return (t.Wrap == nil && g.AutoWrap()) || go2.Deref(t.Wrap)
}

// AddBox opens a box. Actors added until EndBox become its members.
func (g *Graph) AddBox(data BoxData) {
	box := &Box{
		Name: data.Text,
		Wrap: (data.Wrap == nil && g.AutoWrap()) || go2.Deref(data.Wrap),
		Fill: data.Color,
	}
	g.Boxes = append(g.Boxes, box)
	g.currentBox = box
}

func (g *Graph) EndBox() {
	g.currentBox = nil
}

// BoxConflictError is returned when an actor is declared inside a second box.
type BoxConflictError struct {
	Actor    string
	Box      string
	OtherBox string
}

func (e *BoxConflictError) Error() string {
	return fmt.Sprintf("A same participant should only be defined in one Box: %s can't be in '%s' and in '%s' at the same time.", e.Actor, e.Box, e.OtherBox)
}

// AddActor declares the actor id. Declaring an existing actor updates its
// description and may place it in the current box, but never moves it in the
// actor order nor into a second box.
func (g *Graph) AddActor(id, name string, description *Text, typ ActorType) error {
	if typ == "" {
		typ = Participant
	}
	if description == nil || description.Text == "" {
		description = &Text{Text: name}
	}

	if old, ok := g.Actors[id]; ok {
		if g.currentBox != nil && old.Box != nil && g.currentBox != old.Box {
			return &BoxConflictError{
				Actor:    old.Name,
				Box:      old.Box.Name,
				OtherBox: g.currentBox.Name,
			}
		}
		if old.Box == nil && g.currentBox != nil {
			old.Box = g.currentBox
			g.currentBox.ActorKeys = append(g.currentBox.ActorKeys, id)
		}
		old.Name = name
		old.Description = description.Text
		old.Wrap = g.shouldWrap(*description)
		old.Type = typ
		return nil
	}

	a := &Actor{
		Key:         id,
		Name:        name,
		Description: description.Text,
		Wrap:        g.shouldWrap(*description),
		Type:        typ,
		Box:         g.currentBox,
		PrevActor:   g.prevActor,
	}
	g.Actors[id] = a
	g.ActorKeys = append(g.ActorKeys, id)
	if prev, ok := g.Actors[g.prevActor]; ok {
		prev.NextActor = id
	}
	if g.currentBox != nil {
		g.currentBox.ActorKeys = append(g.currentBox.ActorKeys, id)
	}
	g.prevActor = id
	return nil
}

// AddSignal appends a message from one actor to another.
func (g *Graph) AddSignal(from, to string, text Text, typ LineType) {
	g.Messages = append(g.Messages, &Message{
		From: from,
		To:   to,
		Text: text.Text,
		Wrap: g.shouldWrap(text),
		Type: typ,
	})
}

// AddNote records a note over one or two actors. The note is also appended to
// the message list, normalized to a (from, to) pair, so that it is laid out
// in sequence with the messages.
func (g *Graph) AddNote(actors []string, placement Placement, text Text) {
	wrap := g.shouldWrap(text)
	g.Notes = append(g.Notes, &Note{
		Actors:    actors,
		Placement: placement,
		Text:      text.Text,
		Wrap:      wrap,
	})
	if len(actors) == 0 {
		return
	}

	from, to := actors[0], actors[0]
	if len(actors) > 1 {
		to = actors[1]
	}
	g.Messages = append(g.Messages, &Message{
		From:      from,
		To:        to,
		Text:      text.Text,
		Wrap:      wrap,
		Type:      LineNote,
		Placement: go2.Pointer(placement),
	})
}

// AddLoopStart opens a loop fragment around the messages that follow it.
func (g *Graph) AddLoopStart(text Text) {
	g.Messages = append(g.Messages, &Message{
		Text: text.Text,
		Wrap: g.shouldWrap(text),
		Type: LineLoopStart,
	})
}

func (g *Graph) AddLoopEnd() {
	g.Messages = append(g.Messages, &Message{
		Type: LineLoopEnd,
	})
}

func (g *Graph) HasAtLeastOneBox() bool {
	return len(g.Boxes) > 0
}

func (g *Graph) HasAtLeastOneBoxWithTitle() bool {
	for _, b := range g.Boxes {
		if b.Name != "" {
			return true
		}
	}
	return false
}
