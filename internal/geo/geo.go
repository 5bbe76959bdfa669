// Package geo holds the spherical math behind radius search.
package geo

import "math"

// EarthRadiusMiles is the radius used to turn a distance in miles into radians.
const EarthRadiusMiles = 3963.0

func MilesToRadians(miles float64) float64 {
	return miles / EarthRadiusMiles
}

// AngularDistance returns the haversine central angle in radians between two points given in degrees.
func AngularDistance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Pow(math.Sin(dLng/2), 2)

	return 2 * math.Asin(math.Min(1, math.Sqrt(a)))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
