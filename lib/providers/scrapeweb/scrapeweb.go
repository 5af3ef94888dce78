// Package scrapeweb implements the stateless search-and-scrape
// protocol family: one GET to a keyword-search endpoint, an optional
// nearest-candidate disambiguation, and one GET of a service-summary
// document that gets fed through the extraction engine.
package scrapeweb

import (
	"context"
	"fmt"
	"log/slog"

	"binday-backend/lib/address"
	"binday-backend/lib/extract"
	"binday-backend/lib/geo"
	"binday-backend/lib/providers"
	"binday-backend/lib/timezone"
	"binday-backend/lib/waste"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("binday.providers.scrapeweb")

// Config describes one council on this family. Pure data: the family
// has exactly one adapter implementation.
type Config struct {
	Name string
	// keyword-search endpoint
	SearchURL string
	// query parameter carrying the keyword, "keyword" when empty
	SearchParam string
	// service-summary endpoint, keyed by candidate id
	DetailURL string
	// query parameter carrying the candidate id, "id" when empty
	DetailParam string
	Render      address.RenderOptions
	Patterns    extract.Patterns
}

type Adapter struct {
	config Config
	http   *resty.Client
}

func New(config Config) *Adapter {
	if config.SearchParam == "" {
		config.SearchParam = "keyword"
	}
	if config.DetailParam == "" {
		config.DetailParam = "id"
	}
	return &Adapter{
		config: config,
		http: providers.NewHTTPClient(providers.ClientOptions{
			TracerName: fmt.Sprintf("binday.providers.scrapeweb/%s", config.Name),
		}),
	}
}

type candidate struct {
	Id      string   `json:"id"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

type searchResponse struct {
	Items []candidate `json:"items"`
}

func (a *Adapter) Resolve(ctx context.Context, addr address.Canonical) (waste.CollectionResult, error) {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()

	keyword := addr.SearchString(a.config.Render)

	res, err := a.http.R().
		SetContext(ctx).
		SetQueryParam(a.config.SearchParam, keyword).
		Get(a.config.SearchURL)
	if err != nil {
		span.SetStatus(codes.Error, "search request failed")
		return waste.CollectionResult{}, waste.Upstream("address search", err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "search returned non-success status")
		return waste.CollectionResult{}, waste.UpstreamStatus("address search", res.StatusCode())
	}

	var search searchResponse
	err = waste.DecodeJSON(res.Body(), &search, "search response")
	if err != nil {
		span.SetStatus(codes.Error, "search response unparseable")
		return waste.CollectionResult{}, err
	}
	if len(search.Items) == 0 {
		return waste.CollectionResult{}, waste.NotFound(fmt.Sprintf("no candidates for %q", keyword))
	}

	selected := selectCandidate(search.Items, addr.Location)
	slog.DebugContext(
		ctx, "selected candidate",
		"council", a.config.Name,
		"id", selected.Id,
		"address", selected.Address,
	)

	res, err = a.http.R().
		SetContext(ctx).
		SetQueryParam(a.config.DetailParam, selected.Id).
		Get(a.config.DetailURL)
	if err != nil {
		span.SetStatus(codes.Error, "summary request failed")
		return waste.CollectionResult{}, waste.Upstream("service summary", err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "summary returned non-success status")
		return waste.CollectionResult{}, waste.UpstreamStatus("service summary", res.StatusCode())
	}

	var result waste.CollectionResult
	for stream, date := range extract.Dates(res.String(), a.config.Patterns, timezone.Location) {
		result.SetDate(stream, date)
	}
	return result, nil
}

// selectCandidate picks the candidate nearest to the geocoded input
// when coordinates are available, falling back to the publisher's own
// first-ranked candidate when no candidate carries them. The fallback
// is decided per response, not per council: the same council's API has
// been seen to omit coordinates intermittently.
func selectCandidate(items []candidate, from address.LatLng) candidate {
	best := -1
	bestDistance := 0.0

	for i, c := range items {
		if c.Lat == nil || c.Lng == nil {
			continue
		}
		d := geo.DistanceKm(from.Lat, from.Lng, *c.Lat, *c.Lng)
		if best == -1 || d < bestDistance {
			best = i
			bestDistance = d
		}
	}

	if best == -1 {
		return items[0]
	}
	return items[best]
}
