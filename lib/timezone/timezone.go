package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Australia/Melbourne")
	if err != nil {
		panic(err)
	}
}

// force the clock into the councils' civil timezone because our servers
// don't live in Australia, and date arithmetic based on
// <time.Time>.Year()/Month()/Day()/Weekday() would otherwise report the
// wrong calendar day for part of every day
func Now() time.Time {
	return time.Now().In(Location)
}

// StartOfDay truncates t to local midnight in the council timezone.
func StartOfDay(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}
