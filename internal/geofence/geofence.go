// Package geofence implements the great-circle distance check that gates
// location-bound actions such as delivery confirmation.
package geofence

import (
	"math"

	"sahayak/internal/location"
)

// earthRadiusMeters is the mean Earth radius used by the Haversine formula.
const earthRadiusMeters = 6371000

// Distance returns the great-circle distance between two coordinates in
// meters. Standard double-precision trigonometry; village-scale distances
// need no antipodal special-casing.
func Distance(a, b location.Coordinate) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMeters * c
}

// Within reports whether a is inside the fence of radiusMeters around center.
// The boundary is inclusive.
func Within(a, center location.Coordinate, radiusMeters float64) bool {
	return Distance(a, center) <= radiusMeters
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180)
}
