package resolver

import (
	"time"

	"binday-backend/lib/address"
	"binday-backend/lib/extract"
	"binday-backend/lib/providers"
	"binday-backend/lib/providers/calfeed"
	"binday-backend/lib/providers/portal"
	"binday-backend/lib/providers/scrapeweb"
	"binday-backend/lib/providers/zoned"
	"binday-backend/lib/timezone"
	"binday-backend/lib/waste"
)

// AuthorityID identifies a supported council. The set is closed: adding
// a council means adding a constant here and an entry to the registry,
// nothing else.
type AuthorityID string

const (
	Boroondara  AuthorityID = "boroondara"
	GlenEira    AuthorityID = "glen-eira"
	Monash      AuthorityID = "monash"
	Whitehorse  AuthorityID = "whitehorse"
	Manningham  AuthorityID = "manningham"
	Stonnington AuthorityID = "stonnington"
	PortPhillip AuthorityID = "port-phillip"
	Bayside     AuthorityID = "bayside"
)

// AuthorityIDs lists every supported council.
func AuthorityIDs() []AuthorityID {
	return []AuthorityID{
		Boroondara,
		GlenEira,
		Monash,
		Whitehorse,
		Manningham,
		Stonnington,
		PortPhillip,
		Bayside,
	}
}

// the "next service" fragment as rendered by the myarea-style waste
// services widget the scrapeweb councils share
func myareaPatterns(streams ...waste.Stream) extract.Patterns {
	fragments := map[waste.Stream]string{
		waste.Landfill:           `(?s)General [Ww]aste.*?Next [Ss]ervice[:<>/\w\s"=-]*?>\s*([0-9]{1,2} [A-Za-z]+ [0-9]{4})`,
		waste.Recycling:          `(?s)Recycling.*?Next [Ss]ervice[:<>/\w\s"=-]*?>\s*([0-9]{1,2} [A-Za-z]+ [0-9]{4})`,
		waste.FoodAndGardenWaste: `(?s)(?:Food and [Gg]arden|Green) [Ww]aste.*?Next [Ss]ervice[:<>/\w\s"=-]*?>\s*([0-9]{1,2} [A-Za-z]+ [0-9]{4})`,
		waste.HardWaste:          `(?s)Hard [Ww]aste.*?Next [Ss]ervice[:<>/\w\s"=-]*?>\s*([0-9]{1,2} [A-Za-z]+ [0-9]{4})`,
		waste.Glass:              `(?s)Glass.*?Next [Ss]ervice[:<>/\w\s"=-]*?>\s*([0-9]{1,2} [A-Za-z]+ [0-9]{4})`,
	}
	sources := map[waste.Stream]string{}
	for _, s := range streams {
		sources[s] = fragments[s]
	}
	return extract.MustPatterns(sources)
}

// the portal family's caption set differs only in wording per council
func portalCaptions(landfillCaption, recyclingCaption, greenCaption string) []portal.CaptionRule {
	return []portal.CaptionRule{
		{
			Stream:   waste.Landfill,
			Matchers: []string{landfillCaption},
			Strategy: portal.StrategyWeekday,
		},
		{
			Stream:   waste.Recycling,
			Matchers: []string{recyclingCaption},
			Strategy: portal.StrategyNextDate,
		},
		{
			Stream:   waste.FoodAndGardenWaste,
			Matchers: []string{greenCaption},
			Strategy: portal.StrategyCompositeNext,
		},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, timezone.Location)
}

// stonningtonZones is the council's published zone rotation. Reference
// dates are known past collection days for each zone; glass runs on a
// four-week cycle offset per zone.
func stonningtonZones() map[string]zoned.Zone {
	zone := func(description string, landfillRef, recyclingRef, greenRef, glassRef time.Time, affected bool) zoned.Zone {
		return zoned.Zone{
			Description: description,
			Schedules: map[waste.Stream]zoned.StreamSchedule{
				waste.Landfill:           {Reference: landfillRef, IntervalDays: zoned.Weekly},
				waste.Recycling:          {Reference: recyclingRef, IntervalDays: zoned.Fortnightly},
				waste.FoodAndGardenWaste: {Reference: greenRef, IntervalDays: zoned.Weekly},
				waste.Glass:              {Reference: glassRef, IntervalDays: zoned.FourWeekly},
			},
			HolidayAffected: affected,
		}
	}

	return map[string]zoned.Zone{
		"Monday A": zone("Monday, rotation A",
			day(2025, time.June, 2), day(2025, time.June, 2),
			day(2025, time.June, 2), day(2025, time.June, 9), true),
		"Monday B": zone("Monday, rotation B",
			day(2025, time.June, 2), day(2025, time.June, 9),
			day(2025, time.June, 2), day(2025, time.June, 23), true),
		"Thursday A": zone("Thursday, rotation A",
			day(2025, time.June, 5), day(2025, time.June, 5),
			day(2025, time.June, 5), day(2025, time.June, 12), false),
		"Thursday B": zone("Thursday, rotation B",
			day(2025, time.June, 5), day(2025, time.June, 12),
			day(2025, time.June, 5), day(2025, time.June, 26), false),
	}
}

// defaultRegistry wires every supported council to its adapter
// configuration. Constructed once at process start; read-only
// afterwards.
func defaultRegistry() map[AuthorityID]providers.Provider {
	return map[AuthorityID]providers.Provider{
		Boroondara: scrapeweb.New(scrapeweb.Config{
			Name:        string(Boroondara),
			SearchURL:   "https://www.boroondara.vic.gov.au/api/v1/myarea/search",
			SearchParam: "keywords",
			DetailURL:   "https://www.boroondara.vic.gov.au/ocapi/public/myarea/wasteservices",
			DetailParam: "geolocationid",
			Patterns: myareaPatterns(
				waste.Landfill, waste.Recycling, waste.FoodAndGardenWaste, waste.HardWaste),
		}),
		GlenEira: scrapeweb.New(scrapeweb.Config{
			Name:        string(GlenEira),
			SearchURL:   "https://www.gleneira.vic.gov.au/api/v1/myarea/search",
			SearchParam: "keywords",
			DetailURL:   "https://www.gleneira.vic.gov.au/ocapi/public/myarea/wasteservices",
			DetailParam: "geolocationid",
			Patterns: myareaPatterns(
				waste.Landfill, waste.Recycling, waste.FoodAndGardenWaste, waste.Glass),
		}),
		Monash: scrapeweb.New(scrapeweb.Config{
			Name:        string(Monash),
			SearchURL:   "https://www.monash.vic.gov.au/api/v1/myarea/search",
			SearchParam: "keywords",
			DetailURL:   "https://www.monash.vic.gov.au/ocapi/public/myarea/wasteservices",
			DetailParam: "geolocationid",
			Patterns: myareaPatterns(
				waste.Landfill, waste.Recycling, waste.FoodAndGardenWaste),
		}),
		Whitehorse: portal.New(portal.Config{
			Name:       string(Whitehorse),
			BaseURL:    "https://mapping.whitehorse.vic.gov.au",
			ProjectID:  "whitehorse-public",
			ModuleName: "Waste Collection",
			FormName:   "Address Search",
			Render:     address.RenderOptions{OmitSuburb: true, Uppercase: true},
			Captions: portalCaptions(
				"garbage collection day", "recycling collection", "green waste collection"),
		}),
		Manningham: portal.New(portal.Config{
			Name:              string(Manningham),
			BaseURL:           "https://mapping.manningham.vic.gov.au",
			ProjectID:         "manningham-public",
			ModuleName:        "Waste Services",
			FormName:          "Property Search",
			FormNameSubstring: true,
			Render:            address.RenderOptions{OmitSuburb: true, Uppercase: true},
			Captions: portalCaptions(
				"garbage day", "recycling", "fogo"),
		}),
		Stonnington: zoned.New(zoned.Config{
			Name:      string(Stonnington),
			LookupURL: "https://data.stonnington.vic.gov.au/api/waste/zone",
			Zones:     stonningtonZones(),
			Holiday: &zoned.HolidayShift{
				Start:     day(2025, time.December, 25),
				End:       day(2026, time.January, 1),
				ShiftDays: 1,
			},
		}),
		PortPhillip: calfeed.New(calfeed.Config{
			Name:        string(PortPhillip),
			CalendarURL: "https://www.portphillip.vic.gov.au/api/waste-calendar/render",
		}),
		Bayside: calfeed.New(calfeed.Config{
			Name:        string(Bayside),
			CalendarURL: "https://www.bayside.vic.gov.au/api/waste-calendar/render",
		}),
	}
}
