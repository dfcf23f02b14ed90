package commgraph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/commdiagram/commgraph"
)

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	g, err := commgraph.LoadYAML("test.yaml", []byte(`
title: Greetings
statements:
  - participant: A
    as: Alice
  - box: Aqua Backend
    participants:
      - participant: B
      - actor: C
  - from: A
    to: B
    arrow: "-->>"
    text: "wrap: hello"
  - note: right of
    actors: [B]
    text: thinking
  - loop: every minute
    statements:
      - {from: B, to: D, arrow: "-)", text: ping}
`), false)
	require.NoError(t, err)

	assert.Equal(t, "Greetings", g.Title)
	assert.Equal(t, []string{"A", "B", "C", "D"}, g.ActorKeys)
	assert.Equal(t, "Alice", g.Actors["A"].Description)
	assert.Equal(t, commgraph.Person, g.Actors["C"].Type)
	require.Len(t, g.Boxes, 1)
	assert.Equal(t, "Backend", g.Boxes[0].Name)
	assert.Equal(t, "Aqua", g.Boxes[0].Fill)
	assert.Equal(t, []string{"B", "C"}, g.Boxes[0].ActorKeys)

	require.Len(t, g.Messages, 5)
	assert.Equal(t, commgraph.LineDotted, g.Messages[0].Type)
	assert.Equal(t, "hello", g.Messages[0].Text)
	assert.True(t, g.Messages[0].Wrap)
	assert.Equal(t, commgraph.LineNote, g.Messages[1].Type)
	assert.Equal(t, commgraph.LineLoopStart, g.Messages[2].Type)
	assert.Equal(t, "every minute", g.Messages[2].Text)
	assert.Equal(t, commgraph.LineSolidPoint, g.Messages[3].Type)
	assert.Equal(t, commgraph.LineLoopEnd, g.Messages[4].Type)
}

func TestLoadYAMLErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		text string
		line int
	}{
		{
			name: "unknown_arrow",
			text: `statements:
  - from: A
    to: B
    arrow: "=>"
`,
			line: 2,
		},
		{
			name: "bad_placement",
			text: `statements:
  - participant: A
  - note: under
    actors: [A]
`,
			line: 3,
		},
		{
			name: "nested_box",
			text: `statements:
  - box: outer
    participants:
      - box: inner
`,
			line: 4,
		},
		{
			name: "box_conflict",
			text: `statements:
  - box: one
    participants:
      - participant: A
  - box: two
    participants:
      - participant: A
`,
			line: 7,
		},
		{
			name: "unrecognized",
			text: `statements:
  - hello: world
`,
			line: 2,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := commgraph.LoadYAML("test.yaml", []byte(tc.text), false)
			require.Error(t, err)

			var perr *commgraph.ParseError
			require.True(t, errors.As(err, &perr), err.Error())
			assert.Equal(t, tc.line, perr.Line)
		})
	}
}
