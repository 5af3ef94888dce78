// Package portal implements the stateful GIS-portal protocol family.
// Resolution is a strict four-step negotiation: bootstrap a session,
// discover the address-search form, search for the property feature,
// then read the feature's attribute panel. Each step depends on the
// previous one's output and nothing is retried; a failed step fails
// the whole resolution.
package portal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"binday-backend/lib/address"
	"binday-backend/lib/dateutil"
	"binday-backend/lib/providers"
	"binday-backend/lib/textutil"
	"binday-backend/lib/timezone"
	"binday-backend/lib/waste"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("binday.providers.portal")

// Strategy tells the adapter how to turn an attribute caption's value
// into a date.
type Strategy int

const (
	// value is a bare weekday name, possibly with a trailing
	// qualifier ("Thursday (Declared)")
	StrategyWeekday Strategy = iota
	// value is an explicit "Next: <date>" sentence
	StrategyNextDate
	// value is a composite sentence ending in "Next: <date>"
	// ("Fortnightly on Thursday, Next: 24 Jul 2025")
	StrategyCompositeNext
)

// CaptionRule maps an attribute caption onto a stream and the strategy
// for decoding its value. One rule set per council; the adapter itself
// never branches on the council.
type CaptionRule struct {
	Stream   waste.Stream
	Matchers []string
	Strategy Strategy
}

// Config describes one council on the portal family.
type Config struct {
	Name    string
	BaseURL string
	// project identifier posted to the bootstrap endpoint
	ProjectID string
	// response header carrying the session identifier
	SessionHeader string
	// module to select out of the bootstrap response
	ModuleName string
	// form to select out of the form-discovery response
	FormName string
	// when true FormName matches as a substring instead of exactly
	FormNameSubstring bool
	Render            address.RenderOptions
	Captions          []CaptionRule
}

const (
	bootstrapPath = "/engine/projects"
	formsPath     = "/engine/modules"
	searchPath    = "/engine/search"
	infoPath      = "/engine/info"

	defaultSessionHeader = "X-Portal-Session"
)

type Adapter struct {
	config Config
	http   *resty.Client
}

func New(config Config) *Adapter {
	if config.SessionHeader == "" {
		config.SessionHeader = defaultSessionHeader
	}
	return &Adapter{
		config: config,
		http: providers.NewHTTPClient(providers.ClientOptions{
			BaseURL:    config.BaseURL,
			TracerName: fmt.Sprintf("binday.providers.portal/%s", config.Name),
		}),
	}
}

type module struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type bootstrapResponse struct {
	Modules []module `json:"modules"`
}

type form struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type formsResponse struct {
	Forms []form `json:"forms"`
}

// the three correlated keys identifying a property feature
type featureKeys struct {
	SelectionLayer string `json:"selectionLayer"`
	MapKey         string `json:"mapKey"`
	DbKey          string `json:"dbKey"`
}

type searchResult struct {
	DisplayValue string `json:"displayValue"`
	featureKeys
}

type searchResponse struct {
	Results []searchResult `json:"fullText"`
}

type attributeField struct {
	Caption string `json:"caption"`
	Value   string `json:"value"`
}

type infoResponse struct {
	Fields []attributeField `json:"fields"`
}

func (a *Adapter) Resolve(ctx context.Context, addr address.Canonical) (waste.CollectionResult, error) {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()

	sessionId, moduleId, err := a.acquireSession(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return waste.CollectionResult{}, err
	}

	formId, err := a.discoverForm(ctx, sessionId, moduleId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return waste.CollectionResult{}, err
	}

	keys, err := a.searchAddress(ctx, sessionId, formId, addr.SearchString(a.config.Render))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return waste.CollectionResult{}, err
	}

	fields, err := a.fetchAttributes(ctx, sessionId, keys)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return waste.CollectionResult{}, err
	}

	return a.mapAttributes(ctx, fields), nil
}

// acquireSession bootstraps the portal project, yielding the session
// identifier (a bespoke response header) and the id of the configured
// module out of the response body.
func (a *Adapter) acquireSession(ctx context.Context) (sessionId, moduleId string, err error) {
	ctx, span := tracer.Start(ctx, "acquireSession")
	defer span.End()

	res, err := a.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"project": a.config.ProjectID}).
		Post(bootstrapPath)
	if err != nil {
		return "", "", waste.Upstream("session bootstrap", err)
	}
	if res.IsError() {
		return "", "", waste.UpstreamStatus("session bootstrap", res.StatusCode())
	}

	sessionId = res.Header().Get(a.config.SessionHeader)
	if sessionId == "" {
		return "", "", waste.Malformed(
			fmt.Sprintf("bootstrap response missing %s header", a.config.SessionHeader), nil)
	}

	var bootstrap bootstrapResponse
	err = waste.DecodeJSON(res.Body(), &bootstrap, "bootstrap response")
	if err != nil {
		return "", "", err
	}

	for _, m := range bootstrap.Modules {
		if textutil.MatchCaption(m.Name, []string{a.config.ModuleName}) {
			return sessionId, m.Id, nil
		}
	}
	return "", "", waste.Malformed(
		fmt.Sprintf("no module matching %q in bootstrap response", a.config.ModuleName), nil)
}

func (a *Adapter) discoverForm(ctx context.Context, sessionId, moduleId string) (string, error) {
	ctx, span := tracer.Start(ctx, "discoverForm")
	defer span.End()

	res, err := a.http.R().
		SetContext(ctx).
		SetHeader(a.config.SessionHeader, sessionId).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"module": moduleId}).
		Post(formsPath)
	if err != nil {
		return "", waste.Upstream("form discovery", err)
	}
	if res.IsError() {
		return "", waste.UpstreamStatus("form discovery", res.StatusCode())
	}

	var forms formsResponse
	err = waste.DecodeJSON(res.Body(), &forms, "forms response")
	if err != nil {
		return "", err
	}

	for _, f := range forms.Forms {
		if a.formNameMatches(f.Name) {
			return f.Id, nil
		}
	}
	return "", waste.Malformed(
		fmt.Sprintf("no form matching %q in forms response", a.config.FormName), nil)
}

func (a *Adapter) formNameMatches(name string) bool {
	if a.config.FormNameSubstring {
		return textutil.MatchCaption(name, []string{a.config.FormName})
	}
	return strings.EqualFold(strings.TrimSpace(name), a.config.FormName)
}

func (a *Adapter) searchAddress(ctx context.Context, sessionId, formId, search string) (featureKeys, error) {
	ctx, span := tracer.Start(ctx, "searchAddress")
	defer span.End()

	res, err := a.http.R().
		SetContext(ctx).
		SetHeader(a.config.SessionHeader, sessionId).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"form":   formId,
			"fields": []string{search},
		}).
		Post(searchPath)
	if err != nil {
		return featureKeys{}, waste.Upstream("address search", err)
	}
	if res.IsError() {
		return featureKeys{}, waste.UpstreamStatus("address search", res.StatusCode())
	}

	var results searchResponse
	err = waste.DecodeJSON(res.Body(), &results, "search response")
	if err != nil {
		return featureKeys{}, err
	}
	if len(results.Results) == 0 {
		return featureKeys{}, waste.NotFound(fmt.Sprintf("no results for %q", search))
	}

	return results.Results[0].featureKeys, nil
}

func (a *Adapter) fetchAttributes(ctx context.Context, sessionId string, keys featureKeys) ([]attributeField, error) {
	ctx, span := tracer.Start(ctx, "fetchAttributes")
	defer span.End()

	res, err := a.http.R().
		SetContext(ctx).
		SetHeader(a.config.SessionHeader, sessionId).
		SetHeader("Content-Type", "application/json").
		SetBody(keys).
		Post(infoPath)
	if err != nil {
		return nil, waste.Upstream("feature attributes", err)
	}
	if res.IsError() {
		return nil, waste.UpstreamStatus("feature attributes", res.StatusCode())
	}

	var info infoResponse
	err = waste.DecodeJSON(res.Body(), &info, "info response")
	if err != nil {
		return nil, err
	}
	return info.Fields, nil
}

// mapAttributes walks the flat caption/value list, decoding each
// configured caption into its stream's next date. A caption that is
// absent, or whose value won't decode, leaves its stream null; the
// other streams still resolve.
func (a *Adapter) mapAttributes(ctx context.Context, fields []attributeField) waste.CollectionResult {
	var result waste.CollectionResult

	for _, rule := range a.config.Captions {
		for _, field := range fields {
			if !textutil.MatchCaption(field.Caption, rule.Matchers) {
				continue
			}
			date, ok := decodeValue(field.Value, rule.Strategy)
			if !ok {
				slog.WarnContext(
					ctx, "undecodable attribute value",
					"council", a.config.Name,
					"caption", field.Caption,
					"value", field.Value,
				)
				continue
			}
			result.SetDate(rule.Stream, date)
			break
		}
	}
	return result
}

const nextMarker = "Next:"

func decodeValue(value string, strategy Strategy) (time.Time, bool) {
	switch strategy {
	case StrategyWeekday:
		return dateutil.NextWeekdayOccurrence(value, timezone.Now(), timezone.Location)
	case StrategyNextDate, StrategyCompositeNext:
		fragment, found := textutil.AfterMarker(value, nextMarker)
		if !found {
			return time.Time{}, false
		}
		return dateutil.ParseFlexibleDate(fragment, timezone.Location)
	}
	return time.Time{}, false
}
