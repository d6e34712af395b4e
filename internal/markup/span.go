package markup

import (
	"fmt"
	"strings"
)

// Span is a half-open byte range [Start, End) within a line.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Replacement pairs a span with the text that replaces it.
type Replacement struct {
	Span
	Text string
}

// ReplaceN returns s with every span replaced by its text. Text outside the
// spans is copied verbatim. An empty list returns s unchanged.
//
// Spans must be ascending and non-overlapping with Start < End <= len(s).
// A violation is a bug in the recognizer that produced them, so ReplaceN
// panics before building any output.
func ReplaceN(s string, reps []Replacement) string {
	if len(reps) == 0 {
		return s
	}
	checkSpans(s, reps)

	var b strings.Builder
	b.Grow(len(s))

	last := 0
	for _, r := range reps {
		b.WriteString(s[last:r.Start])
		b.WriteString(r.Text)
		last = r.End
	}
	b.WriteString(s[last:])
	return b.String()
}

// checkSpans panics if reps violates the ReplaceN precondition.
func checkSpans(s string, reps []Replacement) {
	prevEnd := 0
	for i, r := range reps {
		if r.Start < 0 || r.Len() <= 0 || r.End > len(s) {
			panic(fmt.Sprintf("markup: span %d [%d,%d) invalid for string of length %d", i, r.Start, r.End, len(s)))
		}
		if r.Start < prevEnd {
			panic(fmt.Sprintf("markup: span %d [%d,%d) overlaps or precedes previous span ending at %d", i, r.Start, r.End, prevEnd))
		}
		prevEnd = r.End
	}
}
