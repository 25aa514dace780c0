package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm_SamePointIsZero(t *testing.T) {
	assert.Equal(t, 0.0, DistanceKm(-26.8521, 26.6667, -26.8521, 26.6667))
	assert.Equal(t, 0.0, DistanceKm(0, 0, 0, 0))
	assert.Equal(t, 0.0, DistanceKm(89.9, -179.9, 89.9, -179.9))
}

func TestDistanceKm_Symmetry(t *testing.T) {
	d1 := DistanceKm(-26.8521, 26.6667, -26.1952, 28.0341)
	d2 := DistanceKm(-26.1952, 28.0341, -26.8521, 26.6667)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestDistanceKm_KnownDistance(t *testing.T) {
	// Klerksdorp to Johannesburg is roughly 152 km as the crow flies.
	d := DistanceKm(-26.8521, 26.6667, -26.2041, 28.0473)
	assert.InDelta(t, 152, d, 5)
}

func TestDistanceKm_ShortDistance(t *testing.T) {
	// Two points ~1.11 km apart along a meridian (0.01 degrees of latitude).
	d := DistanceKm(-26.85, 26.66, -26.84, 26.66)
	assert.InDelta(t, 1.11, d, 0.02)
}
