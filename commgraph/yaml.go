package commgraph

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"oss.terrastruct.com/xdefer"
)

// Arrows maps the arrow tokens accepted in diagram files to line types.
var Arrows = map[string]LineType{
	"->>":  LineSolid,
	"-->>": LineDotted,
	"->":   LineSolidOpen,
	"-->":  LineDottedOpen,
	"-x":   LineSolidCross,
	"--x":  LineDottedCross,
	"-)":   LineSolidPoint,
	"--)":  LineDottedPoint,
}

const DefaultArrow = "->>"

// ParsePlacement parses "left of", "right of" or "over".
func ParsePlacement(s string) (Placement, bool) {
	switch strings.Join(strings.Fields(strings.ToLower(s)), " ") {
	case "left of", "leftof":
		return LeftOf, true
	case "right of", "rightof":
		return RightOf, true
	case "over":
		return Over, true
	}
	return 0, false
}

// ParseError is an error at a position of a diagram file.
type ParseError struct {
	Path string
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Col, e.Msg)
}

type document struct {
	Title      string    `yaml:"title"`
	Wrap       *bool     `yaml:"wrap"`
	Statements yaml.Node `yaml:"statements"`
}

type statement struct {
	Participant string `yaml:"participant"`
	Actor       string `yaml:"actor"`
	As          string `yaml:"as"`

	Box          *string   `yaml:"box"`
	Participants yaml.Node `yaml:"participants"`

	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Arrow string `yaml:"arrow"`
	Text  string `yaml:"text"`

	Note   string   `yaml:"note"`
	Actors []string `yaml:"actors"`

	Loop       *string   `yaml:"loop"`
	Statements yaml.Node `yaml:"statements"`
}

// LoadYAML reads a diagram file into a new Graph. defaultWrap is the wrap
// setting for labels without a directive when the file does not set one.
//
//	title: Greetings
//	statements:
//	  - participant: A
//	    as: Alice
//	  - box: Aqua Backend
//	    participants:
//	      - participant: B
//	  - from: A
//	    to: B
//	    arrow: "-->>"
//	    text: hello
//	  - note: right of
//	    actors: [B]
//	    text: thinking
//	  - loop: every minute
//	    statements:
//	      - {from: B, to: A, text: ping}
func LoadYAML(path string, data []byte, defaultWrap bool) (_ *Graph, err error) {
	defer xdefer.Errorf(&err, "failed to load %s", path)

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	g := NewGraph()
	g.DefaultWrap = defaultWrap
	if doc.Wrap != nil {
		g.SetWrap(*doc.Wrap)
	}
	if doc.Title != "" {
		g.SetTitle(doc.Title)
	}

	l := &loader{g: g, path: path}
	if err := l.statements(&doc.Statements, false); err != nil {
		return nil, err
	}
	return g, nil
}

type loader struct {
	g    *Graph
	path string
}

func (l *loader) errorf(n *yaml.Node, format string, v ...interface{}) error {
	return &ParseError{
		Path: l.path,
		Line: n.Line,
		Col:  n.Column,
		Msg:  fmt.Sprintf(format, v...),
	}
}

func (l *loader) statements(n *yaml.Node, inBox bool) error {
	if n.Kind == 0 {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		return l.errorf(n, "expected a list of statements")
	}
	for _, sn := range n.Content {
		var st statement
		if err := sn.Decode(&st); err != nil {
			return l.errorf(sn, "%v", err)
		}
		if err := l.statement(sn, &st, inBox); err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) statement(n *yaml.Node, st *statement, inBox bool) error {
	switch {
	case st.Participant != "" || st.Actor != "":
		id, typ := st.Participant, Participant
		if st.Actor != "" {
			id, typ = st.Actor, Person
		}
		var desc *Text
		if st.As != "" {
			t := ParseMessage(st.As)
			desc = &t
		}
		if err := l.g.AddActor(id, id, desc, typ); err != nil {
			return l.errorf(n, "%v", err)
		}
		return nil

	case st.Box != nil:
		if inBox {
			return l.errorf(n, "boxes cannot be nested")
		}
		l.g.AddBox(ParseBoxData(*st.Box))
		defer l.g.EndBox()
		return l.statements(&st.Participants, true)

	case st.Note != "":
		p, ok := ParsePlacement(st.Note)
		if !ok {
			return l.errorf(n, "unknown note placement %q", st.Note)
		}
		if len(st.Actors) == 0 || len(st.Actors) > 2 {
			return l.errorf(n, "a note is placed over one or two actors, got %d", len(st.Actors))
		}
		for _, id := range st.Actors {
			l.ensureActor(id)
		}
		l.g.AddNote(st.Actors, p, ParseMessage(st.Text))
		return nil

	case st.Loop != nil:
		if inBox {
			return l.errorf(n, "only participants may be declared in a box")
		}
		l.g.AddLoopStart(ParseMessage(*st.Loop))
		if err := l.statements(&st.Statements, false); err != nil {
			return err
		}
		l.g.AddLoopEnd()
		return nil

	case st.From != "" || st.To != "":
		if inBox {
			return l.errorf(n, "only participants may be declared in a box")
		}
		if st.From == "" || st.To == "" {
			return l.errorf(n, "a message needs both from and to")
		}
		arrow := st.Arrow
		if arrow == "" {
			arrow = DefaultArrow
		}
		typ, ok := Arrows[arrow]
		if !ok {
			return l.errorf(n, "unknown arrow %q", arrow)
		}
		l.ensureActor(st.From)
		l.ensureActor(st.To)
		l.g.AddSignal(st.From, st.To, ParseMessage(st.Text), typ)
		return nil
	}
	return l.errorf(n, "unrecognized statement")
}

// ensureActor declares id on first use, the way an undeclared participant in a
// message is implicitly created.
func (l *loader) ensureActor(id string) {
	if _, ok := l.g.Actors[id]; ok {
		return
	}
	// Outside of a box AddActor cannot conflict.
	_ = l.g.AddActor(id, id, nil, Participant)
}
