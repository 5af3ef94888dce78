package scrapeweb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"binday-backend/lib/address"
	"binday-backend/lib/extract"
	"binday-backend/lib/telemetry"
	"binday-backend/lib/timezone"
	"binday-backend/lib/waste"

	"github.com/stretchr/testify/require"
)

var testAddress = address.Canonical{
	StreetNumber: "14",
	StreetName:   "Whitehorse Road",
	Suburb:       "Blackburn",
	Location:     address.LatLng{Lat: -37.8190, Lng: 145.1515},
}

func testPatterns() extract.Patterns {
	return extract.MustPatterns(map[waste.Stream]string{
		waste.Landfill:  `Garbage: ([0-9]+ [A-Za-z]+ [0-9]{4})`,
		waste.Recycling: `Recycling: ([0-9]+ [A-Za-z]+ [0-9]{4})`,
	})
}

func fixtureServer(t *testing.T, searchBody string, summaries map[string]string) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			fmt.Fprint(w, searchBody)
		case "/detail":
			summary, ok := summaries[r.URL.Query().Get("id")]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprint(w, summary)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestAdapter(server *httptest.Server) *Adapter {
	return New(Config{
		Name:      "testcouncil",
		SearchURL: server.URL + "/search",
		DetailURL: server.URL + "/detail",
		Patterns:  testPatterns(),
	})
}

func TestResolveSelectsNearestCandidate(t *testing.T) {
	defer telemetry.SetupForTesting(t, "test:providers/scrapeweb")()

	// first candidate ~3km away, second ~0.5km away
	search := `{"items":[
		{"id":"far","address":"14 Whitehorse Rd Mitcham","lat":-37.8190,"lng":145.1855},
		{"id":"near","address":"14 Whitehorse Rd Blackburn","lat":-37.8200,"lng":145.1570}
	]}`
	server := fixtureServer(t, search, map[string]string{
		"near": "Garbage: 24 Jul 2025 Recycling: 31 Jul 2025",
		"far":  "Garbage: 1 Jan 2025 Recycling: 1 Jan 2025",
	})

	result, err := newTestAdapter(server).Resolve(context.Background(), testAddress)
	require.NoError(t, err)

	require.NotNil(t, result.Landfill)
	require.Equal(t, time.Date(2025, time.July, 24, 0, 0, 0, 0, timezone.Location), *result.Landfill)
	require.NotNil(t, result.Recycling)
	require.Nil(t, result.Glass)
}

func TestResolveFallsBackToFirstCandidate(t *testing.T) {
	defer telemetry.SetupForTesting(t, "test:providers/scrapeweb")()

	// no candidate carries coordinates: publisher rank wins
	search := `{"items":[
		{"id":"first","address":"14 Whitehorse Rd Blackburn"},
		{"id":"second","address":"14 Whitehorse Rd Mitcham"}
	]}`
	server := fixtureServer(t, search, map[string]string{
		"first":  "Garbage: 24 Jul 2025",
		"second": "Garbage: 1 Jan 2025",
	})

	result, err := newTestAdapter(server).Resolve(context.Background(), testAddress)
	require.NoError(t, err)
	require.NotNil(t, result.Landfill)
	require.Equal(t, time.Date(2025, time.July, 24, 0, 0, 0, 0, timezone.Location), *result.Landfill)
}

func TestResolveNoCandidates(t *testing.T) {
	server := fixtureServer(t, `{"items":[]}`, nil)

	_, err := newTestAdapter(server).Resolve(context.Background(), testAddress)
	kind, ok := waste.KindOf(err)
	require.True(t, ok)
	require.Equal(t, waste.KindAddressNotFound, kind)
}

func TestResolveUpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	_, err := newTestAdapter(server).Resolve(context.Background(), testAddress)
	kind, ok := waste.KindOf(err)
	require.True(t, ok)
	require.Equal(t, waste.KindUpstreamFailure, kind)
}

func TestResolveMalformedSearch(t *testing.T) {
	server := fixtureServer(t, `<html>service unavailable</html>`, nil)

	_, err := newTestAdapter(server).Resolve(context.Background(), testAddress)
	kind, ok := waste.KindOf(err)
	require.True(t, ok)
	require.Equal(t, waste.KindMalformedResponse, kind)
}
