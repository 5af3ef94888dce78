package zoned

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
	Location:     address.LatLng{Lat: -37.8190, Lng: 145.1515},
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, timezone.Location)
}

func testZones() map[string]Zone {
	// 2025-06-02 is a Monday
	return map[string]Zone{
		"Monday A": {
			Description: "Monday, rotation A",
			Schedules: map[waste.Stream]StreamSchedule{
				waste.Landfill:           {Reference: day(2025, time.June, 2), IntervalDays: Weekly},
				waste.Recycling:          {Reference: day(2025, time.June, 2), IntervalDays: Fortnightly},
				waste.FoodAndGardenWaste: {Reference: day(2025, time.June, 2), IntervalDays: Weekly},
				waste.Glass:              {Reference: day(2025, time.June, 9), IntervalDays: FourWeekly},
			},
			HolidayAffected: true,
		},
		"Monday B": {
			Description: "Monday, rotation B",
			Schedules: map[waste.Stream]StreamSchedule{
				waste.Landfill:  {Reference: day(2025, time.June, 2), IntervalDays: Weekly},
				waste.Recycling: {Reference: day(2025, time.June, 9), IntervalDays: Fortnightly},
			},
		},
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestResolveWithOverride(t *testing.T) {
	adapter := New(Config{
		Name:         "testcouncil",
		Zones:        testZones(),
		ZoneOverride: "Monday A",
		// one day after the green bin reference date
		Clock: fixedClock(day(2025, time.June, 3)),
	})

	result, err := adapter.Resolve(context.Background(), testAddress)
	require.NoError(t, err)

	// next boundary, not the reference date itself
	require.NotNil(t, result.FoodAndGardenWaste)
	require.Equal(t, day(2025, time.June, 9), *result.FoodAndGardenWaste)

	require.NotNil(t, result.Landfill)
	require.Equal(t, day(2025, time.June, 9), *result.Landfill)

	require.NotNil(t, result.Recycling)
	require.Equal(t, day(2025, time.June, 16), *result.Recycling)

	require.NotNil(t, result.Glass)
	require.Equal(t, day(2025, time.June, 9), *result.Glass)

	// no hard waste rotation: stays null
	require.Nil(t, result.HardWaste)
}

func TestResolveLooksUpZone(t *testing.T) {
	defer telemetry.SetupForTesting(t, "test:providers/zoned")()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.URL.Query().Get("lat"))
		require.NotEmpty(t, r.URL.Query().Get("lng"))
		// the upstream quotes the zone name
		fmt.Fprint(w, "\"Monday B\"\n")
	}))
	t.Cleanup(server.Close)

	adapter := New(Config{
		Name:      "testcouncil",
		LookupURL: server.URL + "/zone",
		Zones:     testZones(),
		Clock:     fixedClock(day(2025, time.June, 3)),
	})

	result, err := adapter.Resolve(context.Background(), testAddress)
	require.NoError(t, err)
	require.NotNil(t, result.Landfill)
	require.Equal(t, day(2025, time.June, 9), *result.Landfill)
}

func TestResolveUnknownZone(t *testing.T) {
	adapter := New(Config{
		Name:         "testcouncil",
		Zones:        testZones(),
		ZoneOverride: "Sunday Z",
	})

	_, err := adapter.Resolve(context.Background(), testAddress)
	kind, ok := waste.KindOf(err)
	require.True(t, ok)
	require.Equal(t, waste.KindMalformedResponse, kind)
}

func TestHolidayShift(t *testing.T) {
	holiday := &HolidayShift{
		Start:     day(2025, time.December, 25),
		End:       day(2026, time.January, 1),
		ShiftDays: 1,
	}

	// Thursday 2025-12-25 lands inside the window
	clock := fixedClock(day(2025, time.December, 23))
	zones := map[string]Zone{
		"affected": {
			Schedules: map[waste.Stream]StreamSchedule{
				waste.Landfill: {Reference: day(2025, time.December, 18), IntervalDays: Weekly},
			},
			HolidayAffected: true,
		},
		"unaffected": {
			Schedules: map[waste.Stream]StreamSchedule{
				waste.Landfill: {Reference: day(2025, time.December, 18), IntervalDays: Weekly},
			},
		},
	}

	adapter := New(Config{
		Name: "testcouncil", Zones: zones, Holiday: holiday,
		ZoneOverride: "affected", Clock: clock,
	})
	result, err := adapter.Resolve(context.Background(), testAddress)
	require.NoError(t, err)
	require.Equal(t, day(2025, time.December, 26), *result.Landfill)

	adapter = New(Config{
		Name: "testcouncil", Zones: zones, Holiday: holiday,
		ZoneOverride: "unaffected", Clock: clock,
	})
	result, err = adapter.Resolve(context.Background(), testAddress)
	require.NoError(t, err)
	require.Equal(t, day(2025, time.December, 25), *result.Landfill)
}

func TestResolveUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	adapter := New(Config{
		Name:      "testcouncil",
		LookupURL: server.URL + "/zone",
		Zones:     testZones(),
	})

	_, err := adapter.Resolve(context.Background(), testAddress)
	kind, ok := waste.KindOf(err)
	require.True(t, ok)
	require.Equal(t, waste.KindUpstreamFailure, kind)
}
