package waste

import (
	"time"

	"binday-backend/lib/timezone"
)

// Stream is one of the five waste categories a council may collect.
type Stream int

const (
	Landfill Stream = iota
	Recycling
	FoodAndGardenWaste
	HardWaste
	Glass
)

var streamNames = [...]string{
	Landfill:           "landfill",
	Recycling:          "recycling",
	FoodAndGardenWaste: "food_and_garden_waste",
	HardWaste:          "hard_waste",
	Glass:              "glass",
}

func (s Stream) String() string {
	if int(s) < 0 || int(s) >= len(streamNames) {
		return "unknown"
	}
	return streamNames[s]
}

// Streams lists every stream in display order.
func Streams() []Stream {
	return []Stream{Landfill, Recycling, FoodAndGardenWaste, HardWaste, Glass}
}

// CollectionResult holds the next scheduled collection date per stream.
// A nil date means the council does not offer that stream at the
// address (or didn't publish one); it is a valid terminal answer and
// never an error.
type CollectionResult struct {
	Landfill           *time.Time
	Recycling          *time.Time
	FoodAndGardenWaste *time.Time
	HardWaste          *time.Time
	Glass              *time.Time
}

// Date returns the stored date for a stream.
func (r CollectionResult) Date(s Stream) *time.Time {
	switch s {
	case Landfill:
		return r.Landfill
	case Recycling:
		return r.Recycling
	case FoodAndGardenWaste:
		return r.FoodAndGardenWaste
	case HardWaste:
		return r.HardWaste
	case Glass:
		return r.Glass
	}
	return nil
}

// SetDate stores a date for a stream, truncated to local midnight in
// the council timezone.
func (r *CollectionResult) SetDate(s Stream, t time.Time) {
	day := timezone.StartOfDay(t)
	switch s {
	case Landfill:
		r.Landfill = &day
	case Recycling:
		r.Recycling = &day
	case FoodAndGardenWaste:
		r.FoodAndGardenWaste = &day
	case HardWaste:
		r.HardWaste = &day
	case Glass:
		r.Glass = &day
	}
}

// EpochSeconds renders the result as unix seconds per stream, the shape
// the app consumes. Streams without a date are omitted.
func (r CollectionResult) EpochSeconds() map[Stream]int64 {
	out := map[Stream]int64{}
	for _, s := range Streams() {
		if d := r.Date(s); d != nil {
			out[s] = d.Unix()
		}
	}
	return out
}
