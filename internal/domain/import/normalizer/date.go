package normalizer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	errEmptyAmount = errors.New("empty amount")
	errEmptyDate   = errors.New("empty date")
)

// dateLayouts are tried in order. Year-first forms come before day-first
// ones, and day-first wins over month-first for ambiguous values.
var dateLayouts = []string{
	"2006.1.2",
	"2006.1.2 15:04:05",
	"2006.1.2 3:04:05PM",
	"2006.1.2 3:04:05 PM",
	"2006.1.2 15:04",
	"2006-1-2",
	"2006-1-2 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006/1/2",
	"2006/1/2 15:04:05",
	"2.1.2006",
	"2.1.2006 15:04:05",
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2-1-2006",
}

// datePrefix pulls a leading date out of strings like "2025.01.10Гүйлгээ".
var datePrefix = regexp.MustCompile(`^(\d{4}[./-]\d{1,2}[./-]\d{1,2}|\d{1,2}[./-]\d{1,2}[./-]\d{4})`)

// ParseDate parses a statement date. The whole string is tried first, then
// its first whitespace-separated field, then a leading date prefix, so values
// with a trailing time such as "2025.2.1 3:32:01AM" resolve to their date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmptyDate
	}

	if t, ok := parseWithLayouts(s); ok {
		return t, nil
	}

	if fields := strings.Fields(s); len(fields) > 1 {
		if t, ok := parseWithLayouts(fields[0]); ok {
			return t, nil
		}
	}

	if m := datePrefix.FindString(s); m != "" && m != s {
		if t, ok := parseWithLayouts(m); ok {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

func parseWithLayouts(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateOnly drops the time of day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
