package text

import (
	"context"
	"fmt"
	"strings"

	"github.com/DaanHessen/storywindow/internal/engine"
)

// Narrator is the story backend: it opens a story and continues it after each choice.
type Narrator interface {
	Open(ctx context.Context) (engine.Beat, error)
	Continue(ctx context.Context, history []string, choice engine.Choice) (engine.Beat, error)
}

// templateNarrator is a deterministic, offline narrator driven by the story seed.
type templateNarrator struct {
	seed engine.StorySeed
}

func NewTemplateNarrator(seed engine.StorySeed) Narrator { return &templateNarrator{seed: seed} }

var (
	places = []string{
		"the mist-bound sect gate", "the cold pool beneath Azure Peak", "the library pavilion",
		"the outer disciples' courtyard", "a ruined shrine on the ridge", "the herb terraces",
	}
	omens = []string{
		"A bell tolls once, though no one is near it.",
		"The qi in the air thickens like rain that refuses to fall.",
		"Frost creeps along the stone in the shape of a character you almost recognise.",
		"Somewhere below, a beast answers a call you did not hear.",
		"The lantern flames lean toward you as if listening.",
	}
	deeds = []string{
		"meditate until the breath runs thin", "study the torn scroll", "seek out the elder",
		"follow the cold current", "spar with the senior disciple", "gather spirit herbs",
		"wait for nightfall", "leave the sect road",
	}
)

func (t *templateNarrator) Open(ctx context.Context) (engine.Beat, error) {
	if err := ctx.Err(); err != nil {
		return engine.Beat{}, err
	}
	s := t.seed.Stream("beat:0")
	return engine.Beat{
		Paragraphs: []string{
			"## Chapter 1",
			fmt.Sprintf("Dawn finds you at %s, a nameless disciple with a cracked spiritual root and a debt to no one.", engine.Pick(s, places)),
			engine.Pick(s.Child("omen"), omens),
			"You could wait for the world to notice you. You have waited long enough.",
		},
		Choices: t.choices(s),
	}, nil
}

func (t *templateNarrator) Continue(ctx context.Context, history []string, choice engine.Choice) (engine.Beat, error) {
	if err := ctx.Err(); err != nil {
		return engine.Beat{}, err
	}
	turn := len(history)
	s := t.seed.Stream(fmt.Sprintf("beat:%d:%s", turn, choice.Label))
	var out []string
	if turn > 0 && s.Intn(5) == 0 {
		out = append(out, fmt.Sprintf("## Chapter %d", 2+s.Intn(turn+1)))
	}
	out = append(out, fmt.Sprintf("You choose to %s.", strings.TrimSuffix(strings.ToLower(choice.Label), ".")))
	for i, n := 0, 2+s.Intn(3); i < n; i++ {
		out = append(out, t.paragraph(s.Child(fmt.Sprint(i))))
	}
	return engine.Beat{Paragraphs: out, Choices: t.choices(s)}, nil
}

func (t *templateNarrator) paragraph(s *engine.Stream) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("The path leads to %s.", engine.Pick(s, places)))
	for i, n := 0, 1+s.Intn(4); i < n; i++ {
		b.WriteString(" ")
		b.WriteString(engine.Pick(s, omens))
	}
	return b.String()
}

func (t *templateNarrator) choices(s *engine.Stream) []engine.Choice {
	picked := map[string]bool{}
	var out []engine.Choice
	c := s.Child("choices")
	for len(out) < 3 {
		d := engine.Pick(c, deeds)
		if picked[d] {
			continue
		}
		picked[d] = true
		out = append(out, engine.Choice{Index: len(out), Label: strings.ToUpper(d[:1]) + d[1:]})
	}
	return out
}

// Chronicle produces n paragraphs of filler prose, used to preload long stories.
func Chronicle(seed engine.StorySeed, n int) []string {
	t := &templateNarrator{seed: seed}
	out := make([]string, 0, n)
	s := seed.Stream("chronicle")
	for i := 0; i < n; i++ {
		if i%40 == 0 {
			out = append(out, fmt.Sprintf("## Record %d", i/40+1))
			continue
		}
		out = append(out, t.paragraph(s.Child(fmt.Sprint(i))))
	}
	return out
}

// WithFallback returns a narrator that prefers primary and falls back on error.
func WithFallback(primary, fallback Narrator) Narrator { return &fallbackNarrator{p: primary, f: fallback} }

type fallbackNarrator struct{ p, f Narrator }

func (n *fallbackNarrator) Open(ctx context.Context) (engine.Beat, error) {
	if n.p == nil {
		return n.f.Open(ctx)
	}
	if b, err := n.p.Open(ctx); err == nil {
		return b, nil
	}
	return n.f.Open(ctx)
}

func (n *fallbackNarrator) Continue(ctx context.Context, history []string, choice engine.Choice) (engine.Beat, error) {
	if n.p == nil {
		return n.f.Continue(ctx, history, choice)
	}
	if b, err := n.p.Continue(ctx, history, choice); err == nil {
		return b, nil
	}
	return n.f.Continue(ctx, history, choice)
}

// SplitParagraphs breaks backend prose on blank lines and drops empty blocks.
func SplitParagraphs(prose string) []string {
	prose = strings.ReplaceAll(prose, "\r\n", "\n")
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, " "))
			cur = cur[:0]
		}
	}
	for _, line := range strings.Split(prose, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return out
}
