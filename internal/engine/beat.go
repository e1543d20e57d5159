package engine

import "strings"

// Choice is one option offered to the reader after a beat.
type Choice struct {
	Index int // -1 for free-text actions
	Label string
}

// Custom wraps free text typed by the reader as a choice.
func Custom(text string) Choice {
	return Choice{Index: -1, Label: strings.TrimSpace(text)}
}

func (c Choice) IsCustom() bool { return c.Index < 0 }

// Beat is one narrator response: new paragraphs and the choices that follow them.
type Beat struct {
	Paragraphs []string
	Choices    []Choice
}

// Empty reports whether the beat adds nothing to the story.
func (b Beat) Empty() bool { return len(b.Paragraphs) == 0 && len(b.Choices) == 0 }
