package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistanceKm(t *testing.T) {
	// Melbourne CBD to Box Hill is roughly 14km as the crow flies
	d := DistanceKm(-37.8136, 144.9631, -37.8190, 145.1224)
	require.InDelta(t, 14, d, 1)

	require.Zero(t, DistanceKm(-37.8136, 144.9631, -37.8136, 144.9631))

	// closer candidate must rank below the further one
	near := DistanceKm(-37.8136, 144.9631, -37.8150, 144.9700)
	far := DistanceKm(-37.8136, 144.9631, -37.9000, 145.2000)
	require.Less(t, near, far)
}
