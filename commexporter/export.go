package commexporter

import (
	"context"

	"cdr.dev/slog"

	"oss.terrastruct.com/commdiagram/commconfig"
	"oss.terrastruct.com/commdiagram/commgraph"
	"oss.terrastruct.com/commdiagram/commlayout"
	"oss.terrastruct.com/commdiagram/commtarget"
	"oss.terrastruct.com/commdiagram/lib/color"
	"oss.terrastruct.com/commdiagram/lib/go2"
	"oss.terrastruct.com/commdiagram/lib/log"
)

func Export(ctx context.Context, res *commlayout.Result, cfg *commconfig.Config) (*commtarget.Diagram, error) {
	diagram := &commtarget.Diagram{
		Title:       res.Title,
		TitlePos:    res.TitlePos,
		Width:       res.Width,
		Height:      res.Height,
		ViewBox:     res.ViewBox,
		Bounds:      res.Bounds,
		ActorFont:   cfg.ActorFont(),
		NoteFont:    cfg.NoteFont(),
		MessageFont: cfg.MessageFont(),
		RightAngles: cfg.RightAngles,
	}

	for _, a := range res.Models.Actors {
		actor := toActor(a)
		diagram.Actors = append(diagram.Actors, actor)
		diagram.Lifelines = append(diagram.Lifelines, commtarget.Lifeline{
			ActorID: a.Key,
			X:       actor.Center(),
			StartY:  a.Y + a.Height,
			StopY:   res.LifelineStopY,
		})
		if res.FooterY != nil {
			footer := actor
			footer.Y = *res.FooterY
			diagram.FooterActors = append(diagram.FooterActors, footer)
		}
	}

	for _, b := range res.Models.Boxes {
		diagram.Boxes = append(diagram.Boxes, toBox(ctx, b))
	}

	for _, l := range res.Models.Loops {
		diagram.Loops = append(diagram.Loops, commtarget.Loop{
			Label:  l.Title,
			X:      l.StartX,
			Y:      l.StartY,
			Width:  l.Width,
			Height: l.Height,
		})
	}

	for _, mm := range res.Models.Messages {
		diagram.Messages = append(diagram.Messages, toMessage(mm, cfg))
	}

	for _, nm := range res.Models.Notes {
		diagram.Notes = append(diagram.Notes, commtarget.Note{
			Label:  nm.Text,
			X:      nm.StartX,
			Y:      nm.StartY,
			Width:  nm.Width,
			Height: nm.StopY - nm.StartY,
		})
	}

	return diagram, nil
}

func toActor(a *commgraph.Actor) commtarget.Actor {
	shape := commtarget.ActorShapeBox
	if a.Type == commgraph.Person {
		shape = commtarget.ActorShapePerson
	}
	return commtarget.Actor{
		ID:     a.Key,
		Label:  a.Label,
		Shape:  shape,
		X:      a.X,
		Y:      a.Y,
		Width:  a.Width,
		Height: a.Height,
	}
}

func toBox(ctx context.Context, b *commgraph.Box) commtarget.Box {
	fill := b.Fill
	if fill == "" {
		fill = color.Transparent
	}
	stroke := commlayout.BOX_STROKE
	if !color.IsTransparent(fill) {
		darker, err := color.Darken(fill)
		if err != nil {
			log.Warn(ctx, "failed to darken box fill", slog.F("fill", fill), slog.Error(err))
		} else {
			stroke = darker
		}
	}
	return commtarget.Box{
		Label:         b.Label,
		Fill:          fill,
		Stroke:        stroke,
		X:             b.X,
		Y:             b.Y,
		Width:         b.Width,
		Height:        b.Height,
		TextMaxHeight: b.TextMaxHeight,
	}
}

func toMessage(mm *commlayout.MessageModel, cfg *commconfig.Config) commtarget.Message {
	m := commtarget.Message{
		From:       mm.From,
		To:         mm.To,
		Label:      mm.Text,
		Dotted:     mm.Type.IsDotted(),
		Arrowhead:  arrowhead(mm.Type),
		StartX:     mm.StartX,
		StopX:      mm.StopX,
		StartY:     mm.StartY,
		StopY:      mm.StopY,
		LineStartY: mm.LineStartY,
	}
	if mm.IsSelf() {
		m.LoopWidth = go2.Max(cfg.Width, mm.TextWidth) / 2
	}
	return m
}

func arrowhead(t commgraph.LineType) commtarget.Arrowhead {
	switch t {
	case commgraph.LineSolid, commgraph.LineDotted:
		return commtarget.ArrowArrowhead
	case commgraph.LineSolidCross, commgraph.LineDottedCross:
		return commtarget.CrossArrowhead
	case commgraph.LineSolidPoint, commgraph.LineDottedPoint:
		return commtarget.FilledArrowhead
	}
	return commtarget.NoArrowhead
}
