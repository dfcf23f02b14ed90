package commlib_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/commdiagram/commconfig"
	"oss.terrastruct.com/commdiagram/commgraph"
	"oss.terrastruct.com/commdiagram/commlib"
	"oss.terrastruct.com/commdiagram/lib/log"
)

const greetings = `
title: Greetings
statements:
  - participant: A
    as: Alice
  - actor: B
  - {from: A, to: B, text: hello}
  - {from: B, to: B, arrow: "--x", text: think}
  - note: over
    actors: [A, B]
    text: shared
`

func TestCompile(t *testing.T) {
	t.Parallel()

	ctx := log.WithTB(context.Background(), t, nil)
	diagram, g, err := commlib.Compile(ctx, "greetings.yaml", []byte(greetings), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, g.ActorKeys)
	assert.Equal(t, "Greetings", diagram.Title)
	require.Len(t, diagram.Actors, 2)
	assert.Equal(t, "Alice", diagram.Actors[0].Label)
	require.Len(t, diagram.Messages, 2)
	assert.True(t, diagram.Messages[1].IsSelf())
	assert.True(t, diagram.Messages[1].Dotted)
	require.Len(t, diagram.Notes, 1)
	assert.Greater(t, diagram.Notes[0].Width, 0.)
	assert.Greater(t, diagram.Width, 0.)
	assert.Greater(t, diagram.Height, 0.)
}

func TestCompileConfig(t *testing.T) {
	t.Parallel()

	ctx := log.WithTB(context.Background(), t, nil)
	cfg := commconfig.Default()
	cfg.MirrorActors = new(bool)
	diagram, _, err := commlib.Compile(ctx, "greetings.yaml", []byte(greetings), &commlib.CompileOptions{
		Config: cfg,
	})
	require.NoError(t, err)
	assert.Empty(t, diagram.FooterActors)

	diagram, _, err = commlib.Compile(ctx, "greetings.yaml", []byte(greetings), nil)
	require.NoError(t, err)
	assert.Len(t, diagram.FooterActors, 2)
}

func TestCompileParseError(t *testing.T) {
	t.Parallel()

	ctx := log.WithTB(context.Background(), t, nil)
	_, _, err := commlib.Compile(ctx, "bad.yaml", []byte(`
statements:
  - {from: A, to: B, arrow: "~~>"}
`), nil)
	require.Error(t, err)

	var perr *commgraph.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.Line)
}
