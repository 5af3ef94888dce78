package dateutil

import (
	"regexp"
	"strings"
	"time"
)

// the shapes councils have been observed to publish dates in
var dateLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"2/1/2006",
	"Monday, 2 January 2006",
	"Monday, 2 Jan 2006",
}

var innerWhitespace = regexp.MustCompile(`\s+`)

// ParseFlexibleDate parses a textual date in any of the forms
// "D Mon YYYY", "D Month YYYY", "D/M/YYYY" or "Weekday, D Month YYYY",
// returning local midnight in loc. It reports false instead of an
// error on anything it doesn't recognize, including years outside
// 2020-2100; callers treat unparsed text as "not found", not as a
// failure.
func ParseFlexibleDate(text string, loc *time.Location) (time.Time, bool) {
	text = strings.TrimSpace(text)
	text = innerWhitespace.ReplaceAllString(text, " ")
	if text == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		if parsed.Year() < 2020 || parsed.Year() > 2100 {
			return time.Time{}, false
		}
		return time.Date(
			parsed.Year(), parsed.Month(), parsed.Day(),
			0, 0, 0, 0, loc,
		), true
	}

	return time.Time{}, false
}
