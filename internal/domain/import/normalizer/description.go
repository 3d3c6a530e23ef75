package normalizer

import (
	"regexp"
	"strings"
)

// MaxDescriptionRunes caps synthesized descriptions.
const MaxDescriptionRunes = 200

var (
	spaceRun   = regexp.MustCompile(`\s+`)
	timeOfDay  = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?$`)
	meridiem   = regexp.MustCompile(`(?i)^(am|pm)$`)
	timeSuffix = regexp.MustCompile(`(?i)^\d{1,2}:\d{2}(:\d{2})?(am|pm)$`)
)

// CleanDescription trims and collapses whitespace, including tabs and
// line breaks left behind by PDF cell wrapping.
func CleanDescription(raw string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(raw, " "))
}

// IsTimeToken reports whether a token is a time of day or an AM/PM marker.
func IsTimeToken(s string) bool {
	s = strings.TrimSpace(s)
	return timeOfDay.MatchString(s) || meridiem.MatchString(s) || timeSuffix.MatchString(s)
}
