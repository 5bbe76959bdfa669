package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMilesToRadians(t *testing.T) {
	assert.InDelta(t, 1.0, MilesToRadians(EarthRadiusMiles), 1e-12)
	assert.InDelta(t, 0.0, MilesToRadians(0), 1e-12)
}

func TestAngularDistance(t *testing.T) {
	assert.InDelta(t, 0.0, AngularDistance(42.35, -71.06, 42.35, -71.06), 1e-12)

	// quarter of a great circle along the equator
	assert.InDelta(t, math.Pi/2, AngularDistance(0, 0, 0, 90), 1e-9)

	// Boston -> New York is roughly 190 miles
	miles := AngularDistance(42.3601, -71.0589, 40.7128, -74.0060) * EarthRadiusMiles
	assert.InDelta(t, 190, miles, 5)
}
