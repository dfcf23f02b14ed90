package commlayout

import (
	"context"
	"fmt"

	"cdr.dev/slog"

	"oss.terrastruct.com/xdefer"

	"oss.terrastruct.com/commdiagram/commconfig"
	"oss.terrastruct.com/commdiagram/commgraph"
	"oss.terrastruct.com/commdiagram/commtarget"
	"oss.terrastruct.com/commdiagram/lib/geo"
	"oss.terrastruct.com/commdiagram/lib/go2"
	"oss.terrastruct.com/commdiagram/lib/log"
)

type Result struct {
	Title    string     `json:"title,omitempty"`
	TitlePos *geo.Point `json:"titlePos,omitempty"`

	Bounds commtarget.Bounds `json:"bounds"`
	Models *Models           `json:"models"`

	// FooterY is the top of the mirrored actor row, if there is one.
	FooterY       *float64 `json:"footerY,omitempty"`
	LifelineStopY float64  `json:"lifelineStopY"`

	Width   float64            `json:"width"`
	Height  float64            `json:"height"`
	ViewBox commtarget.ViewBox `json:"viewBox"`
}

// Layout positions every actor, box, message, note and loop of g and sizes
// the canvas around them. Only the derived geometry fields of g's actors and
// boxes are written, and they are reset first, so laying out the same graph
// twice yields the same result.
//
// A message or note that cannot be laid out is logged and dropped.
func Layout(ctx context.Context, g *commgraph.Graph, tm TextMetrics, cfg *commconfig.Config) (_ *Result, err error) {
	defer xdefer.Errorf(&err, "failed to lay out communication diagram")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	resetGeometry(g)
	b := NewBounds(cfg.BoxMargin)
	b.Reset()

	keys := g.ActorKeys
	if cfg.HideUnusedParticipants {
		keys = usedActors(g)
	}

	widths := ComputeMaxMessageWidthPerActor(ctx, g.Actors, g.Messages, tm, cfg)
	rowHeight := ComputeActorSizing(g.Actors, g.ActorKeys, tm, cfg)
	ComputeActorMargins(g.Actors, widths, cfg)
	ComputeBoxSizing(g.Boxes, g.Actors, tm, cfg)

	hasBoxes := g.HasAtLeastOneBox()
	if hasBoxes {
		b.BumpVerticalPos(cfg.BoxMargin)
		if g.HasAtLeastOneBoxWithTitle() {
			b.BumpVerticalPos(g.Boxes[0].TextMaxHeight)
		}
	}

	placeActors(b, g.Actors, keys, 0, rowHeight, cfg)
	layoutMessages(ctx, b, g, tm, cfg)

	res := &Result{
		Title: g.Title,
	}

	lifelineStopY := 0.
	if cfg.Mirrored() {
		b.BumpVerticalPos(cfg.BoxMargin * 2)
		res.FooterY = go2.Pointer(b.GetVerticalPos())
		lifelineStopY = *res.FooterY
		placeFooter(b, g.Actors, keys, *res.FooterY)
		b.BumpVerticalPos(cfg.BoxMargin)
	}

	for _, box := range b.models.Boxes {
		box.Height = b.GetVerticalPos() - box.Y
		b.Insert(box.X, box.Y, box.X+box.Width, box.Y+box.Height)
	}
	if hasBoxes {
		b.BumpVerticalPos(cfg.BoxMargin)
	}

	bounds, models := b.GetBounds()
	res.Bounds = bounds
	res.Models = models

	r := bounds.Rect()
	if !cfg.Mirrored() {
		lifelineStopY = r.StopY
	}
	res.LifelineStopY = lifelineStopY

	res.Height = r.Height() + 2*cfg.DiagramMarginY
	if cfg.Mirrored() {
		res.Height = res.Height - cfg.BoxMargin + cfg.BottomMarginAdj
	}
	res.Width = r.Width() + 2*cfg.DiagramMarginX

	titleHeight := 0.
	if g.Title != "" {
		titleHeight = TITLE_HEIGHT
		res.TitlePos = geo.NewPoint(r.Width()/2-2*cfg.DiagramMarginX, TITLE_Y)
	}
	res.ViewBox = commtarget.ViewBox{
		X:      r.StartX - cfg.DiagramMarginX,
		Y:      -(cfg.DiagramMarginY + titleHeight),
		Width:  res.Width,
		Height: res.Height + titleHeight,
	}

	log.Debug(ctx, "laid out communication diagram",
		slog.F("bounds", r.ToString()),
		slog.F("actors", len(models.Actors)),
		slog.F("messages", len(models.Messages)),
		slog.F("notes", len(models.Notes)),
	)
	return res, nil
}

func resetGeometry(g *commgraph.Graph) {
	for _, a := range g.Actors {
		a.Label = ""
		a.Width, a.Height, a.Margin = 0, 0, 0
		a.X, a.Y = 0, 0
	}
	for _, box := range g.Boxes {
		box.Label = ""
		box.X, box.Y, box.Width, box.Height = 0, 0, 0, 0
		box.Margin, box.TextMaxHeight = 0, 0
	}
}

// usedActors filters out actors that neither send nor receive anything.
func usedActors(g *commgraph.Graph) []string {
	used := make(map[string]struct{})
	for _, msg := range g.Messages {
		used[msg.From] = struct{}{}
		used[msg.To] = struct{}{}
	}
	return go2.Filter(g.ActorKeys, func(key string) bool {
		_, ok := used[key]
		return ok
	})
}

// placeActors places the actors of keys left to right, each one its margin
// away from the previous one, opening and closing the boxes around them.
func placeActors(b *Bounds, actors map[string]*commgraph.Actor, keys []string, rowY, rowHeight float64, cfg *commconfig.Config) {
	prevWidth := 0.
	prevMargin := 0.
	maxHeight := 0.
	var prevBox *commgraph.Box

	for _, key := range keys {
		actor, ok := actors[key]
		if !ok {
			continue
		}
		box := actor.Box

		// end of box
		if prevBox != nil && prevBox != box {
			b.models.AddBox(prevBox)
			prevMargin += cfg.BoxMargin + prevBox.Margin
		}

		// new box
		if box != nil && box != prevBox {
			box.X = prevWidth + prevMargin
			box.Y = rowY
			prevMargin += box.Margin
		}

		if actor.Width == 0 {
			actor.Width = cfg.Width
		}
		actor.Height = go2.Max(actor.Height, rowHeight)
		if actor.Margin == 0 {
			actor.Margin = cfg.ActorMargin
		}

		actor.X = prevWidth + prevMargin
		actor.Y = b.GetVerticalPos()
		maxHeight = go2.Max(maxHeight, actor.Height)
		b.Insert(actor.X, rowY, actor.X+actor.Width, actor.Y+actor.Height)

		prevWidth += actor.Width + prevMargin
		if box != nil {
			box.Width = prevWidth + box.Margin - box.X
		}
		prevMargin = actor.Margin
		prevBox = box
		b.models.AddActor(actor)
	}

	if prevBox != nil {
		b.models.AddBox(prevBox)
	}

	b.BumpVerticalPos(maxHeight)
}

// placeFooter repeats the placed actors of keys in a row starting at y.
func placeFooter(b *Bounds, actors map[string]*commgraph.Actor, keys []string, y float64) {
	maxHeight := 0.
	for _, key := range keys {
		actor, ok := actors[key]
		if !ok {
			continue
		}
		b.Insert(actor.X, y, actor.X+actor.Width, y+actor.Height)
		maxHeight = go2.Max(maxHeight, actor.Height)
	}
	b.BumpVerticalPos(maxHeight)
}

func layoutMessages(ctx context.Context, b *Bounds, g *commgraph.Graph, tm TextMetrics, cfg *commconfig.Config) {
	for i, msg := range g.Messages {
		switch msg.Type {
		case commgraph.LineNote:
			err := recoverFault(func() error {
				nm, err := BuildNoteModel(msg, g.Actors, tm, cfg)
				if err != nil {
					return err
				}
				b.BoundNote(nm, tm, cfg)
				log.Debug(ctx, "note model", slog.F("note", nm))
				return nil
			})
			if err != nil {
				log.Error(ctx, "dropping note", slog.F("index", i), slog.Error(err))
			}

		case commgraph.LineLoopStart:
			err := recoverFault(func() error {
				startLoop(b, msg, tm, cfg)
				return nil
			})
			if err != nil {
				log.Error(ctx, "dropping loop label", slog.F("index", i), slog.Error(err))
				b.NewLoop("", msg.Wrap)
			}

		case commgraph.LineLoopEnd:
			if !endLoop(b) {
				log.Warn(ctx, "loop end without a matching loop start", slog.F("index", i))
			}

		default:
			err := recoverFault(func() error {
				mm, err := BuildMessageModel(msg, g.Actors, tm, cfg)
				if err != nil {
					return err
				}
				b.BoundMessage(mm, tm, cfg)
				return nil
			})
			if err != nil {
				log.Error(ctx, "dropping message", slog.F("index", i), slog.Error(err))
			}
		}
	}

	if n := b.OpenRegions(); n > 0 {
		log.Warn(ctx, "closing unterminated loops", slog.F("count", n))
		for endLoop(b) {
		}
	}
}

// recoverFault runs fn and returns a panic raised by the text metrics as an
// error. Every measurement happens before the cursor moves, so a fault leaves
// the bounds untouched.
func recoverFault(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic recovered: %v", r)
		}
	}()
	return fn()
}

// startLoop opens a region below the cursor and reserves room for its label.
func startLoop(b *Bounds, msg *commgraph.Message, tm TextMetrics, cfg *commconfig.Config) {
	title := msg.Text
	if msg.Wrap && title != "" {
		title = tm.Wrap(cfg.MessageFont(), title, cfg.Width)
	}
	labelHeight := LOOP_LABEL_HEIGHT
	if title != "" {
		_, h := measure(tm, cfg.MessageFont(), title)
		labelHeight = go2.Max(h, LOOP_LABEL_HEIGHT)
	}

	b.BumpVerticalPos(cfg.BoxMargin)
	b.NewLoop(title, msg.Wrap)
	b.BumpVerticalPos(labelHeight + cfg.BoxTextMargin)
}

func endLoop(b *Bounds) bool {
	lm, ok := b.EndLoop()
	if !ok {
		return false
	}
	if lm.StopY > b.GetVerticalPos() {
		b.BumpVerticalPos(lm.StopY - b.GetVerticalPos())
	}
	b.models.AddLoop(lm)
	return true
}
