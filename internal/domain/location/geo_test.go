package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	assert.InDelta(t, 0, HaversineKm(-22.9, -43.2, -22.9, -43.2), 1e-9)
	// Rio de Janeiro to São Paulo is roughly 360 km.
	assert.InDelta(t, 361, HaversineKm(-22.9068, -43.1729, -23.5505, -46.6333), 5)
	// Symmetric across the antimeridian.
	assert.InDelta(t, HaversineKm(0, 179.9, 0, -179.9), HaversineKm(0, -179.9, 0, 179.9), 1e-9)
	assert.InDelta(t, 22.24, HaversineKm(0, 179.9, 0, -179.9), 0.1)
}

func TestBoundingBoxNeverExcludesInRangePoints(t *testing.T) {
	box := newBoundingBox(0, 179.9, 50)
	assert.True(t, box.contains(0, -179.9))
	assert.False(t, box.contains(5, 179.9))

	polar := newBoundingBox(89.9, 0, 50)
	assert.True(t, polar.contains(89.9, 180))
}

func TestFoldName(t *testing.T) {
	assert.Equal(t, "point de itauna", foldName("  Point  de ITAÚNA "))
	assert.Equal(t, "sao paulo", foldName("São Paulo"))
}
