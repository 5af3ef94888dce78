// Package calfeed implements the calendar-feed protocol family. The
// council renders a month-by-month HTML calendar with per-day icon
// tables marking which bins go out; the adapter parses the grid back
// into dates and keeps each stream's soonest future marking.
package calfeed

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"binday-backend/lib/address"
	"binday-backend/lib/htmlutil"
	"binday-backend/lib/providers"
	"binday-backend/lib/timezone"
	"binday-backend/lib/waste"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("binday.providers.calfeed")

// Config describes one council on the calendar-feed family.
type Config struct {
	Name        string
	CalendarURL string
	Render      address.RenderOptions
	// test seam; timezone.Now when nil
	Clock func() time.Time
}

type Adapter struct {
	config Config
	http   *resty.Client
}

func New(config Config) *Adapter {
	if config.Clock == nil {
		config.Clock = timezone.Now
	}
	return &Adapter{
		config: config,
		http: providers.NewHTTPClient(providers.ClientOptions{
			TracerName: fmt.Sprintf("binday.providers.calfeed/%s", config.Name),
		}),
	}
}

const (
	calendarSelector = ".waste-calendar"
	monthSelector    = ".calendar-month"
	headingSelector  = ".month-title"
	daySelector      = ".calendar-day"
	dateSelector     = ".date"
	markerSelector   = "table td"

	noResultsMarker = "no results found"
)

// fixed mapping from marker class names to streams, shared by the
// whole family
var markerStreams = map[string]waste.Stream{
	"garbage":     waste.Landfill,
	"recycle":     waste.Recycling,
	"green-waste": waste.FoodAndGardenWaste,
	"hard-waste":  waste.HardWaste,
	"glass":       waste.Glass,
}

type event struct {
	date    time.Time
	streams []waste.Stream
}

func (a *Adapter) Resolve(ctx context.Context, addr address.Canonical) (waste.CollectionResult, error) {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()

	res, err := a.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"address": addr.SearchString(a.config.Render),
			"lat":     addr.Location.Lat,
			"lng":     addr.Location.Lng,
			"options": map[string]any{"months": 2, "icons": true},
		}).
		Post(a.config.CalendarURL)
	if err != nil {
		span.SetStatus(codes.Error, "calendar request failed")
		return waste.CollectionResult{}, waste.Upstream("calendar render", err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "calendar returned non-success status")
		return waste.CollectionResult{}, waste.UpstreamStatus("calendar render", res.StatusCode())
	}

	body := res.String()
	if strings.Contains(strings.ToLower(body), noResultsMarker) {
		return waste.CollectionResult{}, waste.NotFound("calendar reported no results for the address")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBufferString(body))
	if err != nil {
		span.SetStatus(codes.Error, "calendar html unparseable")
		return waste.CollectionResult{}, waste.Malformed("parsing calendar html", err)
	}
	container := doc.Find(calendarSelector)
	if container.Length() == 0 {
		span.SetStatus(codes.Error, "calendar container missing")
		return waste.CollectionResult{}, waste.Malformed("calendar response lacks the calendar container", nil)
	}

	events := parseEvents(container)
	if len(events) == 0 {
		return waste.CollectionResult{}, waste.NotFound("calendar held no collection markings")
	}

	return nextPerStream(events, a.config.Clock()), nil
}

// parseEvents walks the month sections of the grid, collecting one
// event per day cell that carries an embedded marker table. Cells that
// won't parse are skipped; whether the document as a whole was usable
// has already been decided by the container check.
func parseEvents(container *goquery.Selection) []event {
	var events []event

	container.Find(monthSelector).Each(func(_ int, month *goquery.Selection) {
		heading := htmlutil.CleanText(month.Find(headingSelector))
		monthStart, err := time.ParseInLocation("January 2006", heading, timezone.Location)
		if err != nil {
			return
		}

		month.Find(daySelector).Each(func(_ int, cell *goquery.Selection) {
			day, err := strconv.Atoi(htmlutil.CleanText(cell.Find(dateSelector)))
			if err != nil || day < 1 || day > 31 {
				return
			}

			var streams []waste.Stream
			cell.Find(markerSelector).Each(func(_ int, marker *goquery.Selection) {
				class := marker.AttrOr("class", "")
				for _, name := range strings.Fields(class) {
					if stream, ok := markerStreams[name]; ok {
						streams = append(streams, stream)
					}
				}
			})
			if len(streams) == 0 {
				return
			}

			events = append(events, event{
				date: time.Date(
					monthStart.Year(), monthStart.Month(), day,
					0, 0, 0, 0, timezone.Location,
				),
				streams: streams,
			})
		})
	})

	return events
}

// nextPerStream discards events already in the past and keeps the
// earliest remaining date per stream. A marking on today still counts.
func nextPerStream(events []event, now time.Time) waste.CollectionResult {
	today := timezone.StartOfDay(now)

	var result waste.CollectionResult
	for _, ev := range events {
		if ev.date.Before(today) {
			continue
		}
		for _, stream := range ev.streams {
			current := result.Date(stream)
			if current == nil || ev.date.Before(*current) {
				result.SetDate(stream, ev.date)
			}
		}
	}
	return result
}
