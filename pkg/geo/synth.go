package geo

import "math/rand/v2"

// Default synthesis parameters. WalkingSpeedKmh matches the study's assumed
// constant pedestrian pace; ShrinkFactor pulls projected destinations back
// toward the origin so routes stay visually plausible on a map.
const (
	WalkingSpeedKmh = 4.8
	ShrinkFactor    = 0.6
)

// BearingSource yields a bearing in degrees [0, 360). The production source
// is uniformly random; tests inject fixed sequences for reproducibility.
type BearingSource func() float64

// RandomBearing returns a uniformly distributed bearing source.
func RandomBearing() BearingSource {
	return func() float64 { return rand.Float64() * 360 }
}

// Synthesizer turns a target walking duration and an origin into a
// candidate destination coordinate. Each call draws a fresh bearing, so
// successive calls for the same inputs scatter destinations around the
// origin.
type Synthesizer struct {
	SpeedKmh float64
	Shrink   float64
	Bearing  BearingSource
}

// NewSynthesizer creates a Synthesizer with the study defaults and a
// uniformly random bearing source.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{
		SpeedKmh: WalkingSpeedKmh,
		Shrink:   ShrinkFactor,
		Bearing:  RandomBearing(),
	}
}

// Synthesize generates a destination roughly consistent with walking for
// durationMinutes from origin: the duration converts to a great-circle
// distance at the configured speed, a destination is projected along a
// random bearing, and the result is pulled back toward the origin by the
// shrink factor in each coordinate.
func (s *Synthesizer) Synthesize(durationMinutes float64, origin Coordinate) Coordinate {
	distanceKm := durationMinutes / 60 * s.SpeedKmh
	projected := Project(origin, distanceKm, s.Bearing())

	return Coordinate{
		Lat: origin.Lat + s.Shrink*(projected.Lat-origin.Lat),
		Lng: origin.Lng + s.Shrink*(projected.Lng-origin.Lng),
	}
}
