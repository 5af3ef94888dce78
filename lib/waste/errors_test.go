package waste

import (
	"testing"
	"time"

	"binday-backend/lib/timezone"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(NotFound("no candidates"))
	require.True(t, ok)
	require.Equal(t, KindAddressNotFound, kind)

	kind, ok = KindOf(UpstreamStatus("search", 503))
	require.True(t, ok)
	require.Equal(t, KindUpstreamFailure, kind)

	_, ok = KindOf(nil)
	require.False(t, ok)
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	require.NoError(t, DecodeJSON([]byte(`{"name":"x"}`), &v, "search response"))
	require.Equal(t, "x", v.Name)

	err := DecodeJSON([]byte(`<html>`), &v, "search response")
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindMalformedResponse, kind)
	require.Contains(t, err.Error(), "search response")
}

func TestCollectionResultDates(t *testing.T) {
	var r CollectionResult
	require.Nil(t, r.Date(Glass))
	require.Empty(t, r.EpochSeconds())

	when := time.Date(2025, time.July, 24, 15, 30, 0, 0, timezone.Location)
	r.SetDate(Recycling, when)

	stored := r.Date(Recycling)
	require.NotNil(t, stored)
	// dates are truncated to local midnight
	require.Equal(t, time.Date(2025, time.July, 24, 0, 0, 0, 0, timezone.Location), *stored)

	epochs := r.EpochSeconds()
	require.Len(t, epochs, 1)
	require.Equal(t, stored.Unix(), epochs[Recycling])
}
