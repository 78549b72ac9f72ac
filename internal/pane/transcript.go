package pane

import (
	"slices"
	"strings"
)

// Greeting opens every new transcript.
const Greeting = "Say hi 👋"

type SegmentKind int

const (
	SegmentGreeting SegmentKind = iota
	SegmentUser
	SegmentMarker
	SegmentAnswer
)

type Segment struct {
	Kind SegmentKind
	Text string
}

func (s Segment) render() string {
	switch s.Kind {
	case SegmentUser:
		return "\n\nYou: " + s.Text + "\n"
	case SegmentMarker:
		return "Assistant: "
	default:
		return s.Text
	}
}

// Transcript is an append-only log of chat segments. Appending never touches
// storage shared with an earlier Transcript value.
type Transcript struct {
	segs []Segment
}

func NewTranscript() Transcript {
	return Transcript{segs: []Segment{{Kind: SegmentGreeting, Text: Greeting}}}
}

func (t Transcript) Append(seg Segment) Transcript {
	return Transcript{segs: append(slices.Clip(t.segs), seg)}
}

func (t Transcript) Len() int { return len(t.segs) }

func (t Transcript) Segments() []Segment { return slices.Clone(t.segs) }

func (t Transcript) String() string {
	var b strings.Builder
	for _, s := range t.segs {
		b.WriteString(s.render())
	}
	return b.String()
}
