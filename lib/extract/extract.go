// Package extract pulls per-stream "next service" date fragments out
// of the semi-structured text councils publish. It is deliberately the
// only place pattern-based scraping lives, so a structured parser can
// replace it someday without touching the adapters.
package extract

import (
	"regexp"
	"time"

	"binday-backend/lib/dateutil"
	"binday-backend/lib/waste"
)

// Patterns maps a stream to the pattern locating its date fragment in
// a service-summary document. The first capture group must cover the
// date text. A stream without a pattern is simply not offered by the
// council.
type Patterns map[waste.Stream]*regexp.Regexp

// MustPatterns compiles a pattern set from config literals, panicking
// on a bad expression. Only called at process start on static data.
func MustPatterns(sources map[waste.Stream]string) Patterns {
	p := Patterns{}
	for stream, src := range sources {
		p[stream] = regexp.MustCompile(src)
	}
	return p
}

// Dates extracts every stream's next-service date from a raw document.
// Streams without a pattern stay absent. A pattern that matches but
// whose fragment won't parse as a date also stays absent: broken markup
// for one stream must not take down extraction of the other four. The
// caller owns deciding whether the document as a whole was malformed.
func Dates(text string, patterns Patterns, loc *time.Location) map[waste.Stream]time.Time {
	out := map[waste.Stream]time.Time{}
	for stream, pattern := range patterns {
		if pattern == nil {
			continue
		}
		match := pattern.FindStringSubmatch(text)
		if len(match) < 2 {
			continue
		}
		date, ok := dateutil.ParseFlexibleDate(match[1], loc)
		if !ok {
			continue
		}
		out[stream] = date
	}
	return out
}
