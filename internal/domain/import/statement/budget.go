package statement

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars is generous enough that typical multi-page statements are
// never cut before transactions are mined.
const DefaultMaxChars = 500_000

// TextBuffer accumulates display text under a character budget. Once a line
// does not fit, the fitting prefix is kept, the marker is appended and every
// later write is refused.
type TextBuffer struct {
	max       int
	marker    string
	b         strings.Builder
	used      int
	lines     int
	truncated bool
}

// NewTextBuffer creates a buffer holding at most maxChars runes of content.
// maxChars <= 0 selects DefaultMaxChars.
func NewTextBuffer(maxChars int, marker string) *TextBuffer {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &TextBuffer{max: maxChars, marker: marker}
}

// WriteLine appends one line. It reports false once the budget is exhausted.
func (t *TextBuffer) WriteLine(line string) bool {
	if t.truncated {
		return false
	}

	// the newline joining lines counts against the budget
	need := utf8.RuneCountInString(line)
	if t.lines > 0 {
		need++
	}
	remaining := t.max - t.used
	if need > remaining {
		if t.lines > 0 && remaining > 0 {
			t.b.WriteByte('\n')
			remaining--
		}
		if remaining > 0 {
			t.b.WriteString(TruncateRunes(line, remaining))
		}
		t.used = t.max
		t.truncated = true
		t.b.WriteString(t.marker)
		return false
	}

	if t.lines > 0 {
		t.b.WriteByte('\n')
	}
	t.b.WriteString(line)
	t.used += need
	t.lines++
	return true
}

// Truncated reports whether any content was dropped.
func (t *TextBuffer) Truncated() bool { return t.truncated }

// Lines returns how many complete lines were written.
func (t *TextBuffer) Lines() int { return t.lines }

func (t *TextBuffer) String() string {
	return strings.TrimSpace(t.b.String())
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
