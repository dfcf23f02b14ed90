package commlayout

import (
	"context"

	"cdr.dev/slog"

	"oss.terrastruct.com/commdiagram/commconfig"
	"oss.terrastruct.com/commdiagram/commgraph"
	"oss.terrastruct.com/commdiagram/lib/go2"
	"oss.terrastruct.com/commdiagram/lib/log"
)

// ComputeActorSizing sizes every actor in keys from its label and returns the
// tallest height, never less than cfg.Height.
func ComputeActorSizing(actors map[string]*commgraph.Actor, keys []string, tm TextMetrics, cfg *commconfig.Config) float64 {
	font := cfg.ActorFont()
	maxHeight := 0.
	for _, key := range keys {
		actor, ok := actors[key]
		if !ok {
			continue
		}
		actor.Label = actor.Description
		if actor.Wrap {
			actor.Label = tm.Wrap(font, actor.Description, cfg.Width-2*cfg.WrapPadding)
		}
		w, h := measure(tm, font, actor.Label)
		if actor.Wrap {
			actor.Width = cfg.Width
			actor.Height = go2.Max(h, cfg.Height)
		} else {
			actor.Width = go2.Max(cfg.Width, w+2*cfg.WrapPadding)
			actor.Height = cfg.Height
		}
		maxHeight = go2.Max(maxHeight, actor.Height)
	}
	return go2.Max(maxHeight, cfg.Height)
}

// ComputeMaxMessageWidthPerActor returns, per actor key, the widest message or
// note that the space to the right of that actor has to fit.
//
// Messages between neighbors are attributed to the left one of the pair, self
// messages to their actor at half width. Notes right of an actor are
// attributed to it, notes left of it to its previous actor and notes over it
// half to each. Messages between non adjacent actors and notes touching
// unknown actors contribute nothing.
func ComputeMaxMessageWidthPerActor(ctx context.Context, actors map[string]*commgraph.Actor, messages []*commgraph.Message, tm TextMetrics, cfg *commconfig.Config) map[string]float64 {
	widths := make(map[string]float64)
	attribute := func(key string, w float64) {
		widths[key] = go2.Max(widths[key], w)
	}

	for _, msg := range messages {
		actor, ok := actors[msg.To]
		if !ok {
			continue
		}
		if _, ok := actors[msg.From]; !ok {
			continue
		}

		// nothing to space against
		if msg.Placement != nil && *msg.Placement == commgraph.LeftOf && actor.PrevActor == "" {
			continue
		}
		if msg.Placement != nil && *msg.Placement == commgraph.RightOf && actor.NextActor == "" {
			continue
		}

		isNote := msg.IsNote()
		isMessage := !isNote

		font := cfg.MessageFont()
		if isNote {
			font = cfg.NoteFont()
		}
		text := msg.Text
		if msg.Wrap {
			text = tm.Wrap(font, msg.Text, cfg.Width-2*cfg.WrapPadding)
		}
		w, _ := measure(tm, font, text)
		messageWidth := w + 2*cfg.WrapPadding

		switch {
		case isMessage && msg.From == actor.NextActor:
			attribute(msg.To, messageWidth)
		case isMessage && msg.From == actor.PrevActor:
			attribute(msg.From, messageWidth)
		case isMessage && msg.From == msg.To:
			attribute(msg.From, messageWidth/2)
			attribute(msg.To, messageWidth/2)
		case isNote && *msg.Placement == commgraph.RightOf:
			attribute(msg.From, messageWidth)
		case isNote && *msg.Placement == commgraph.LeftOf:
			attribute(actor.PrevActor, messageWidth)
		case isNote && *msg.Placement == commgraph.Over:
			if actor.PrevActor != "" {
				attribute(actor.PrevActor, messageWidth/2)
			}
			if actor.NextActor != "" {
				attribute(msg.From, messageWidth/2)
			}
		}
	}

	log.Debug(ctx, "max message width per actor", slog.F("widths", widths))
	return widths
}

// ComputeActorMargins sets the margin right of every actor in widths so that
// its widest message fits between it and the next actor. Actors missing from
// widths are left alone.
func ComputeActorMargins(actors map[string]*commgraph.Actor, widths map[string]float64, cfg *commconfig.Config) {
	for key, messageWidth := range widths {
		actor, ok := actors[key]
		if !ok {
			continue
		}

		margin := messageWidth + cfg.ActorMargin - actor.Width/2
		if next, ok := actors[actor.NextActor]; ok {
			margin -= next.Width / 2
		}
		actor.Margin = go2.Max(margin, cfg.ActorMargin)
	}
}

// ComputeBoxSizing sets the margin and title of every box, widening the
// margin when the title is wider than the members. All boxes get the height
// of the tallest title so the title rows line up.
func ComputeBoxSizing(boxes []*commgraph.Box, actors map[string]*commgraph.Actor, tm TextMetrics, cfg *commconfig.Config) {
	font := cfg.MessageFont()
	maxTextHeight := 0.
	for _, box := range boxes {
		totalWidth := 0.
		for _, key := range box.ActorKeys {
			if a, ok := actors[key]; ok {
				totalWidth += a.Width + a.Margin
			}
		}
		totalWidth -= 2 * cfg.BoxTextMargin

		box.Label = box.Name
		if box.Wrap {
			box.Label = tm.Wrap(font, box.Name, totalWidth-2*cfg.WrapPadding)
		}
		w, h := measure(tm, font, box.Label)
		maxTextHeight = go2.Max(maxTextHeight, h)

		minWidth := go2.Max(totalWidth, w+2*cfg.WrapPadding)
		box.Margin = cfg.BoxTextMargin
		if totalWidth < minWidth {
			box.Margin += (minWidth - totalWidth) / 2
		}
	}
	for _, box := range boxes {
		box.TextMaxHeight = maxTextHeight
	}
}
