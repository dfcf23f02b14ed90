package commlayout

import (
	"oss.terrastruct.com/commdiagram/commgraph"
)

// Geometry is the resolved rectangle of a laid out element.
type Geometry struct {
	StartX float64 `json:"startx"`
	StartY float64 `json:"starty"`
	StopX  float64 `json:"stopx"`
	StopY  float64 `json:"stopy"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type MessageModel struct {
	Geometry

	From string             `json:"from"`
	To   string             `json:"to"`
	Type commgraph.LineType `json:"type"`
	Wrap bool               `json:"wrap"`
	// Text is the label after wrapping.
	Text string `json:"text"`

	// FromBounds and ToBounds are the outermost x reached by the message,
	// including the activation slots of both actors.
	FromBounds float64 `json:"fromBounds"`
	ToBounds   float64 `json:"toBounds"`

	// LineStartY is where the line is drawn, below the label.
	LineStartY float64 `json:"lineStartY"`
	TextWidth  float64 `json:"textWidth"`
}

// IsSelf reports whether the message starts and ends on the same actor.
func (m *MessageModel) IsSelf() bool {
	return m.StartX == m.StopX
}

type NoteModel struct {
	Geometry

	From      string              `json:"from"`
	To        string              `json:"to"`
	Placement commgraph.Placement `json:"placement"`
	// Text is the label after wrapping against the final width.
	Text string `json:"text"`
}

type LoopModel struct {
	Geometry

	Title string `json:"title"`
	Wrap  bool   `json:"wrap"`
}

// Models are the laid out elements in insertion order.
type Models struct {
	Actors   []*commgraph.Actor `json:"actors"`
	Boxes    []*commgraph.Box   `json:"boxes"`
	Loops    []*LoopModel       `json:"loops"`
	Messages []*MessageModel    `json:"messages"`
	Notes    []*NoteModel       `json:"notes"`
}

func (m *Models) clear() {
	m.Actors = nil
	m.Boxes = nil
	m.Loops = nil
	m.Messages = nil
	m.Notes = nil
}

func (m *Models) AddActor(a *commgraph.Actor) {
	m.Actors = append(m.Actors, a)
}

func (m *Models) AddBox(b *commgraph.Box) {
	m.Boxes = append(m.Boxes, b)
}

func (m *Models) AddLoop(l *LoopModel) {
	m.Loops = append(m.Loops, l)
}

func (m *Models) AddMessage(msg *MessageModel) {
	m.Messages = append(m.Messages, msg)
}

func (m *Models) AddNote(n *NoteModel) {
	m.Notes = append(m.Notes, n)
}
