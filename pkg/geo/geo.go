// Package geo provides the coordinate model and spherical-earth math used
// by the trip pipeline: great-circle distance, forward projection along a
// bearing, and synthetic destination generation.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for spherical calculations.
const EarthRadiusKm = 6371.0

// Coordinate is a WGS84 point. Serialized as {lat, lng}.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Haversine calculates the great-circle distance between two points in
// kilometers.
func Haversine(p1, p2 Coordinate) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lng1 := p1.Lng * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	lng2 := p2.Lng * math.Pi / 180

	dlat := lat2 - lat1
	dlng := lng2 - lng1
	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlng/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Project returns the point reached by travelling distanceKm from origin
// along the initial bearing (degrees clockwise from north), using the
// standard forward geodesic on a sphere.
func Project(origin Coordinate, distanceKm, bearingDeg float64) Coordinate {
	lat1 := origin.Lat * math.Pi / 180
	lng1 := origin.Lng * math.Pi / 180
	bearing := bearingDeg * math.Pi / 180
	angular := distanceKm / EarthRadiusKm

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(angular) +
		math.Cos(lat1)*math.Sin(angular)*math.Cos(bearing))
	lng2 := lng1 + math.Atan2(
		math.Sin(bearing)*math.Sin(angular)*math.Cos(lat1),
		math.Cos(angular)-math.Sin(lat1)*math.Sin(lat2))

	return Coordinate{
		Lat: lat2 * 180 / math.Pi,
		Lng: lng2 * 180 / math.Pi,
	}
}
