package commlayout

import (
	"fmt"
	"math"

	"oss.terrastruct.com/commdiagram/commconfig"
	"oss.terrastruct.com/commdiagram/commgraph"
	"oss.terrastruct.com/commdiagram/lib/go2"
)

// activationBounds is the slot around an actor's lifeline that messages
// attach to.
func activationBounds(a *commgraph.Actor) [2]float64 {
	center := a.X + a.Width/2
	return [2]float64{center - ACTIVATION_HALF_WIDTH, center + ACTIVATION_HALF_WIDTH}
}

// BuildMessageModel computes the horizontal extent of a message between two
// placed actors. The message runs from the side of the sender's slot facing
// the receiver to the side of the receiver's slot facing the sender, so a self
// message starts and stops at the same x.
func BuildMessageModel(msg *commgraph.Message, actors map[string]*commgraph.Actor, tm TextMetrics, cfg *commconfig.Config) (*MessageModel, error) {
	if !msg.Type.IsMessage() {
		return nil, fmt.Errorf("line type %d is not a message", msg.Type)
	}
	from, ok := actors[msg.From]
	if !ok {
		return nil, fmt.Errorf("message references unknown actor %q", msg.From)
	}
	to, ok := actors[msg.To]
	if !ok {
		return nil, fmt.Errorf("message references unknown actor %q", msg.To)
	}

	fromBounds := activationBounds(from)
	toBounds := activationBounds(to)
	fromIdx, toIdx := 0, 1
	if fromBounds[0] <= toBounds[0] {
		fromIdx = 1
	}
	if fromBounds[0] < toBounds[0] {
		toIdx = 0
	}
	boundedWidth := math.Abs(toBounds[toIdx] - fromBounds[fromIdx])

	font := cfg.MessageFont()
	text := msg.Text
	if msg.Wrap && msg.Text != "" {
		text = tm.Wrap(font, msg.Text, go2.Max(boundedWidth+2*cfg.WrapPadding, cfg.Width))
	}
	labelWidth := 0.
	if !msg.Wrap {
		w, _ := measure(tm, font, text)
		labelWidth = w + 2*cfg.WrapPadding
	}

	mm := &MessageModel{
		From:       msg.From,
		To:         msg.To,
		Type:       msg.Type,
		Wrap:       msg.Wrap,
		Text:       text,
		FromBounds: go2.Min(fromBounds[0], toBounds[0]),
		ToBounds:   go2.Max(fromBounds[1], toBounds[1]),
	}
	mm.StartX = fromBounds[fromIdx]
	mm.StopX = toBounds[toIdx]
	mm.Width = go2.MaxOf(labelWidth, boundedWidth+2*cfg.WrapPadding, cfg.Width)
	return mm, nil
}

// BoundMessage lays mm out below the cursor: a gap, the label, then the line.
// It inserts the footprint of the message and returns the y of its line.
//
// A self message loops back below its line, so it reserves extra height and
// extends sideways by half the wider of its label and an actor.
func (b *Bounds) BoundMessage(mm *MessageModel, tm TextMetrics, cfg *commconfig.Config) float64 {
	textWidth, textHeight := measure(tm, cfg.MessageFont(), mm.Text)

	mm.StartY = b.GetVerticalPos()
	mm.Height = 0
	b.BumpVerticalPos(MESSAGE_PRE_GAP)

	lineHeight := textHeight / float64(lineCount(mm.Text))
	mm.Height += lineHeight
	b.BumpVerticalPos(lineHeight)

	var lineStartY float64
	totalOffset := textHeight - MESSAGE_PRE_GAP
	if mm.IsSelf() {
		lineStartY = b.GetVerticalPos() + totalOffset
		if !cfg.RightAngles {
			totalOffset += cfg.BoxMargin
			lineStartY = b.GetVerticalPos() + totalOffset
		}
		totalOffset += SELF_LOOP_HEIGHT
		dx := go2.Max(textWidth/2, cfg.Width/2)
		b.Insert(
			mm.StartX-dx,
			b.GetVerticalPos()-MESSAGE_PRE_GAP+totalOffset,
			mm.StopX+dx,
			b.GetVerticalPos()+SELF_LOOP_HEIGHT+totalOffset,
		)
	} else {
		totalOffset += cfg.BoxMargin
		lineStartY = b.GetVerticalPos() + totalOffset
		b.Insert(mm.StartX, lineStartY-MESSAGE_PRE_GAP, mm.StopX, lineStartY)
	}

	b.BumpVerticalPos(totalOffset)
	mm.Height += totalOffset
	mm.StopY = mm.StartY + mm.Height
	mm.LineStartY = lineStartY
	mm.TextWidth = textWidth
	b.Insert(mm.FromBounds, mm.StartY, mm.ToBounds, mm.StopY)
	b.models.AddMessage(mm)
	return lineStartY
}
