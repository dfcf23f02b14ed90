package commlayout

import (
	"fmt"
	"math"

	"oss.terrastruct.com/commdiagram/commconfig"
	"oss.terrastruct.com/commdiagram/commgraph"
	"oss.terrastruct.com/commdiagram/lib/go2"
)

// BuildNoteModel computes the horizontal extent of a note from the placed
// actors it is attached to. The vertical extent is set by (*Bounds).BoundNote.
//
// A wrapped note is sized from a first wrap of its text, then wrapped again
// against the width it ends up with.
func BuildNoteModel(msg *commgraph.Message, actors map[string]*commgraph.Actor, tm TextMetrics, cfg *commconfig.Config) (*NoteModel, error) {
	from, ok := actors[msg.From]
	if !ok {
		return nil, fmt.Errorf("note references unknown actor %q", msg.From)
	}
	to, ok := actors[msg.To]
	if !ok {
		return nil, fmt.Errorf("note references unknown actor %q", msg.To)
	}

	font := cfg.NoteFont()
	startx := from.X
	stopx := to.X
	shouldWrap := msg.Wrap && msg.Text != ""

	text := msg.Text
	if shouldWrap {
		text = tm.Wrap(font, msg.Text, cfg.Width)
	}
	textWidth, _ := measure(tm, font, text)

	nm := &NoteModel{
		From: msg.From,
		To:   msg.To,
		Text: msg.Text,
	}
	nm.StartX = from.X
	if shouldWrap {
		nm.Width = cfg.Width
	} else {
		nm.Width = go2.Max(cfg.Width, textWidth+2*cfg.NoteMargin)
	}

	placement := commgraph.Over
	if msg.Placement != nil {
		placement = *msg.Placement
	}
	nm.Placement = placement

	switch {
	case msg.Placement != nil && placement == commgraph.RightOf:
		if shouldWrap {
			nm.Width = go2.Max(cfg.Width, textWidth)
		} else {
			nm.Width = go2.Max(from.Width/2+to.Width/2, textWidth+2*cfg.NoteMargin)
		}
		nm.StartX = startx + (from.Width+cfg.ActorMargin)/2

	case msg.Placement != nil && placement == commgraph.LeftOf:
		if shouldWrap {
			nm.Width = go2.Max(cfg.Width, textWidth+2*cfg.NoteMargin)
		} else {
			nm.Width = go2.Max(from.Width/2+to.Width/2, textWidth+2*cfg.NoteMargin)
		}
		nm.StartX = startx - nm.Width + (from.Width-cfg.ActorMargin)/2

	case msg.To == msg.From:
		text = msg.Text
		if shouldWrap {
			text = tm.Wrap(font, msg.Text, go2.Max(cfg.Width, from.Width))
		}
		textWidth, _ = measure(tm, font, text)
		if shouldWrap {
			nm.Width = go2.Max(cfg.Width, from.Width)
		} else {
			nm.Width = go2.MaxOf(from.Width, cfg.Width, textWidth+2*cfg.NoteMargin)
		}
		nm.StartX = startx + (from.Width-nm.Width)/2

	default:
		nm.Width = math.Abs(startx+from.Width/2-(stopx+to.Width/2)) + cfg.ActorMargin
		if startx < stopx {
			nm.StartX = startx + from.Width/2 - cfg.ActorMargin/2
		} else {
			nm.StartX = stopx + to.Width/2 - cfg.ActorMargin/2
		}
	}

	if shouldWrap {
		nm.Text = tm.Wrap(font, msg.Text, nm.Width-2*cfg.WrapPadding)
	}
	return nm, nil
}

// BoundNote places nm below the cursor, sizes it to its text and inserts it.
func (b *Bounds) BoundNote(nm *NoteModel, tm TextMetrics, cfg *commconfig.Config) {
	_, textHeight := measure(tm, cfg.NoteFont(), nm.Text)

	b.BumpVerticalPos(cfg.BoxMargin)
	nm.Height = cfg.BoxMargin
	nm.StartY = b.GetVerticalPos()
	if nm.Width == 0 {
		nm.Width = cfg.Width
	}

	h := math.Round(textHeight) + 2*cfg.NoteMargin

	nm.Height += h
	b.BumpVerticalPos(h)
	nm.StopY = nm.StartY + h
	nm.StopX = nm.StartX + nm.Width
	b.Insert(nm.StartX, nm.StartY, nm.StopX, nm.StopY)
	b.models.AddNote(nm)
}
