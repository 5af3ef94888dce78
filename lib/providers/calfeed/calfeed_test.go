package calfeed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"binday-backend/lib/address"
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

const fixtureCalendar = `<html><body>
<div class="waste-calendar">
  <div class="calendar-month">
    <h3 class="month-title">July 2025</h3>
    <div class="calendar-day"><span class="date">3</span>
      <table><tr><td class="garbage"></td><td class="green-waste"></td></tr></table>
    </div>
    <div class="calendar-day"><span class="date">10</span></div>
    <div class="calendar-day"><span class="date">17</span>
      <table><tr><td class="garbage"></td><td class="recycle"></td></tr></table>
    </div>
    <div class="calendar-day"><span class="date">24</span>
      <table><tr><td class="garbage"></td><td class="glass icon-small"></td></tr></table>
    </div>
  </div>
  <div class="calendar-month">
    <h3 class="month-title">August 2025</h3>
    <div class="calendar-day"><span class="date">7</span>
      <table><tr><td class="recycle"></td></tr></table>
    </div>
  </div>
</div>
</body></html>`

func serveCalendar(t *testing.T, body string, status int) *Adapter {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)

	return New(Config{
		Name:        "testcouncil",
		CalendarURL: server.URL + "/calendar",
		Clock: func() time.Time {
			return time.Date(2025, time.July, 15, 10, 0, 0, 0, timezone.Location)
		},
	})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, timezone.Location)
}

func TestResolveKeepsSoonestFutureDate(t *testing.T) {
	defer telemetry.SetupForTesting(t, "test:providers/calfeed")()

	adapter := serveCalendar(t, fixtureCalendar, http.StatusOK)
	result, err := adapter.Resolve(context.Background(), testAddress)
	require.NoError(t, err)

	// July 3 markings are in the past relative to July 15: the
	// garbage result must be the 17th, not the 3rd
	require.NotNil(t, result.Landfill)
	require.Equal(t, day(2025, time.July, 17), *result.Landfill)

	require.NotNil(t, result.Recycling)
	require.Equal(t, day(2025, time.July, 17), *result.Recycling)

	require.NotNil(t, result.Glass)
	require.Equal(t, day(2025, time.July, 24), *result.Glass)

	// green waste only ever appeared in the past: null
	require.Nil(t, result.FoodAndGardenWaste)
	require.Nil(t, result.HardWaste)
}

func TestResolveNoResultsMarker(t *testing.T) {
	adapter := serveCalendar(t, `<html><body><p>No results found for that address.</p></body></html>`, http.StatusOK)

	_, err := adapter.Resolve(context.Background(), testAddress)
	kind, ok := waste.KindOf(err)
	require.True(t, ok)
	require.Equal(t, waste.KindAddressNotFound, kind)
}

func TestResolveMissingContainer(t *testing.T) {
	adapter := serveCalendar(t, `<html><body><div class="something-else"></div></body></html>`, http.StatusOK)

	_, err := adapter.Resolve(context.Background(), testAddress)
	kind, ok := waste.KindOf(err)
	require.True(t, ok)
	require.Equal(t, waste.KindMalformedResponse, kind)
}

func TestResolveEmptyCalendar(t *testing.T) {
	adapter := serveCalendar(t, `<html><body><div class="waste-calendar"></div></body></html>`, http.StatusOK)

	_, err := adapter.Resolve(context.Background(), testAddress)
	kind, ok := waste.KindOf(err)
	require.True(t, ok)
	require.Equal(t, waste.KindAddressNotFound, kind)
}

func TestResolveUpstreamStatus(t *testing.T) {
	adapter := serveCalendar(t, "", http.StatusInternalServerError)

	_, err := adapter.Resolve(context.Background(), testAddress)
	kind, ok := waste.KindOf(err)
	require.True(t, ok)
	require.Equal(t, waste.KindUpstreamFailure, kind)
}
