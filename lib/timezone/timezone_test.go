package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartOfDay(t *testing.T) {
	cases := []struct {
		in     time.Time
		expect time.Time
	}{
		{
			in:     time.Date(2025, time.July, 24, 18, 45, 12, 0, Location),
			expect: time.Date(2025, time.July, 24, 0, 0, 0, 0, Location),
		},
		{
			// 13:00 UTC on the 24th is already the 25th in Melbourne
			in:     time.Date(2025, time.July, 24, 15, 0, 0, 0, time.UTC),
			expect: time.Date(2025, time.July, 25, 0, 0, 0, 0, Location),
		},
	}

	for _, test := range cases {
		require.Equal(t, test.expect, StartOfDay(test.in))
	}
}
