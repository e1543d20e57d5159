package text

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaanHessen/storywindow/internal/engine"
)

func testSeed(t *testing.T, text string) engine.StorySeed {
	t.Helper()
	seed, err := engine.NewStorySeed(text)
	require.NoError(t, err)
	return seed
}

func TestTemplateNarratorDeterminism(t *testing.T) {
	ctx := context.Background()
	a := NewTemplateNarrator(testSeed(t, "jade"))
	b := NewTemplateNarrator(testSeed(t, "jade"))

	openA, err := a.Open(ctx)
	require.NoError(t, err)
	openB, err := b.Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, openA, openB)
	assert.NotEmpty(t, openA.Paragraphs)
	assert.Len(t, openA.Choices, 3)

	nextA, err := a.Continue(ctx, openA.Paragraphs, openA.Choices[1])
	require.NoError(t, err)
	nextB, err := b.Continue(ctx, openB.Paragraphs, openB.Choices[1])
	require.NoError(t, err)
	assert.Equal(t, nextA, nextB)
	assert.GreaterOrEqual(t, len(nextA.Paragraphs), 3)
}

func TestTemplateNarratorChoicesAreDistinct(t *testing.T) {
	n := NewTemplateNarrator(testSeed(t, "distinct"))
	history := []string{}
	choice := engine.Custom("look around")
	for turn := 0; turn < 20; turn++ {
		beat, err := n.Continue(context.Background(), history, choice)
		require.NoError(t, err)
		seen := map[string]bool{}
		for i, c := range beat.Choices {
			assert.Equal(t, i, c.Index)
			assert.False(t, seen[c.Label], "duplicate choice %q", c.Label)
			seen[c.Label] = true
		}
		history = append(history, beat.Paragraphs...)
		choice = beat.Choices[0]
	}
}

func TestTemplateNarratorHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := NewTemplateNarrator(testSeed(t, "cancel"))
	_, err := n.Open(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = n.Continue(ctx, nil, engine.Custom("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChronicle(t *testing.T) {
	seed := testSeed(t, "chronicle")
	paragraphs := Chronicle(seed, 200)
	require.Len(t, paragraphs, 200)
	assert.Equal(t, "## Record 1", paragraphs[0])
	assert.Equal(t, "## Record 2", paragraphs[40])
	assert.Equal(t, paragraphs, Chronicle(seed, 200))
	assert.Empty(t, Chronicle(seed, 0))
}

type failingNarrator struct{}

var errBackend = errors.New("backend down")

func (failingNarrator) Open(context.Context) (engine.Beat, error) { return engine.Beat{}, errBackend }
func (failingNarrator) Continue(context.Context, []string, engine.Choice) (engine.Beat, error) {
	return engine.Beat{}, errBackend
}

func TestWithFallback(t *testing.T) {
	ctx := context.Background()
	backup := NewTemplateNarrator(testSeed(t, "backup"))
	want, _ := backup.Open(ctx)

	for _, primary := range []Narrator{nil, failingNarrator{}} {
		n := WithFallback(primary, backup)
		got, err := n.Open(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		_, err = n.Continue(ctx, nil, engine.Custom("rest"))
		require.NoError(t, err)
	}

	_, err := WithFallback(failingNarrator{}, failingNarrator{}).Open(ctx)
	assert.ErrorIs(t, err, errBackend)
}

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "blank only", in: "\n \n\t\n", want: nil},
		{name: "single", in: "one line", want: []string{"one line"}},
		{name: "joins soft breaks", in: "first half\nsecond half\n\nnext", want: []string{"first half second half", "next"}},
		{name: "crlf and padding", in: "  a  \r\n\r\n\r\n b\r\n", want: []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitParagraphs(tt.in))
		})
	}
}
