package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchCaption(t *testing.T) {
	require.True(t, MatchCaption("Garbage Collection Day", []string{"garbagecollection"}))
	require.True(t, MatchCaption("  Property\tSearch ", []string{"property search"}))
	require.False(t, MatchCaption("Green Waste", []string{"glass"}))
	require.False(t, MatchCaption("anything", nil))
}

func TestAfterMarker(t *testing.T) {
	got, ok := AfterMarker("Fortnightly on Thursday, Next: 24 Jul 2025", "Next:")
	require.True(t, ok)
	require.Equal(t, "24 Jul 2025", got)

	_, ok = AfterMarker("Weekly on Monday", "Next:")
	require.False(t, ok)
}
