package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// SeedFromString hashes an arbitrary seed string into a 64-bit root.
func SeedFromString(s string) uint64 {
	h := sha256.Sum256([]byte(s))
	return binary.LittleEndian.Uint64(h[:8])
}

// Derive returns a child seed for a stable label such as "beat:3:prose".
func Derive(base uint64, label string) uint64 {
	key := make([]byte, 8)
	binary.LittleEndian.PutUint64(key, base)
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(label))
	return binary.LittleEndian.Uint64(m.Sum(nil)[:8])
}

// StorySeed is the textual seed of a story plus its hashed root.
type StorySeed struct {
	Text string
	root uint64
}

// NewStorySeed rejects empty seed text.
func NewStorySeed(text string) (StorySeed, error) {
	if text == "" {
		return StorySeed{}, fmt.Errorf("seed text must not be empty")
	}
	return StorySeed{Text: text, root: SeedFromString(text)}, nil
}

// WithStory mixes a persisted story id into the root so two stories started from
// the same seed text diverge once saved.
func (s StorySeed) WithStory(storyID string) StorySeed {
	if storyID == "" {
		return s
	}
	return StorySeed{Text: s.Text, root: Derive(s.root, "story|"+storyID)}
}

// Stream returns the deterministic stream for label.
func (s StorySeed) Stream(label string) *Stream { return newStream(Derive(s.root, label)) }

// Stream is a SplitMix64 generator that can fork labelled children.
type Stream struct {
	base  uint64
	state uint64
}

func newStream(seed uint64) *Stream { return &Stream{base: seed, state: seed} }

func (s *Stream) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Intn returns a value in [0, n); 0 when n <= 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.next() % uint64(n))
}

func (s *Stream) Uint64() uint64 { return s.next() }

// Pick returns one element of options, or the zero value for an empty slice.
func Pick[T any](s *Stream, options []T) T {
	var zero T
	if len(options) == 0 {
		return zero
	}
	return options[s.Intn(len(options))]
}

// Child derives an independent stream from this stream's seed, not its position.
func (s *Stream) Child(label string) *Stream { return newStream(Derive(s.base, label)) }
