package dateutil

import (
	"strings"
	"time"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WeekdayFromName resolves a weekday name case-insensitively. Councils
// publish day names with trailing qualifiers ("Thursday (Declared)",
// "Monday - Zone 2") so only the leading word is matched.
func WeekdayFromName(name string) (time.Weekday, bool) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return 0, false
	}
	if idx := strings.IndexAny(name, " \t(,-"); idx >= 0 {
		name = name[:idx]
	}
	day, ok := weekdays[name]
	return day, ok
}

// NextWeekdayOccurrence returns local midnight of the next date whose
// weekday matches name, counting from (and including) from's calendar
// day in loc. If today is the named weekday it returns today, not a
// week later.
func NextWeekdayOccurrence(name string, from time.Time, loc *time.Location) (time.Time, bool) {
	target, ok := WeekdayFromName(name)
	if !ok {
		return time.Time{}, false
	}

	day := startOfDay(from, loc)
	offset := (int(target) - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, offset), true
}

// NextIntervalOccurrence returns the next date on the fixed rotation
// anchored at reference with a period of intervalDays, counting from
// (and including) from's calendar day. All arithmetic happens in
// reference's timezone so daylight-saving transitions never shift the
// returned calendar day.
func NextIntervalOccurrence(reference time.Time, intervalDays int, from time.Time) time.Time {
	loc := reference.Location()
	ref := startOfDay(reference, loc)
	today := startOfDay(from, loc)

	elapsed := daysBetween(ref, today)
	intervals := elapsed / intervalDays
	if elapsed < 0 && elapsed%intervalDays != 0 {
		intervals--
	}

	next := ref.AddDate(0, 0, intervals*intervalDays)
	if next.Before(today) {
		next = next.AddDate(0, 0, intervalDays)
	}
	return next
}

// daysBetween counts civil days from a to b. Both must already be
// local midnights; the rounding absorbs the DST hour.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Round(24*time.Hour) / (24 * time.Hour))
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
