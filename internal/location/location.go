// Package location defines the coordinate type and the provider contract for
// the device's GPS. Location is advisory: a device can report arbitrary
// coordinates, and an unavailable provider degrades features rather than
// blocking them.
package location

import "context"

// Coordinate is a geographic point in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

// Provider reports the device's current position. ok is false when location
// is unavailable (permission denied, no fix); that is not an error.
type Provider interface {
	Current(ctx context.Context) (coord Coordinate, ok bool)
}

// Static always reports a fixed coordinate. Used in tests and for devices
// that post their position explicitly.
type Static struct {
	Coord Coordinate
}

func (s Static) Current(context.Context) (Coordinate, bool) {
	return s.Coord, true
}

// Unavailable never reports a position.
type Unavailable struct{}

func (Unavailable) Current(context.Context) (Coordinate, bool) {
	return Coordinate{}, false
}
