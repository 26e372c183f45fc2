// Package ors implements the OpenRouteService directions client used to
// enrich trips with route geometry and timing.
//
// A single GET per (profile, start, end) query returns a GeoJSON-like
// feature collection. The client never retries at the route level; deciding
// whether to retry with a fresh destination belongs to the enricher. The
// only retries performed here are transport-level (network failures and
// 5xx responses).
package ors

import "encoding/json"

// Routing profiles accepted by the directions endpoint.
const (
	ProfileWalking = "foot-walking"
	ProfileDriving = "driving-car"
)

// RouteResponse is a directions response. A response is usable only when
// Valid() reports true: no error field and at least one feature.
type RouteResponse struct {
	Error    *ResponseError `json:"error,omitempty"`
	Features []Feature      `json:"features,omitempty"`

	// Metadata and bbox are carried through untouched so persisted
	// responses stay faithful to what the service returned.
	Metadata json.RawMessage `json:"metadata,omitempty"`
	BBox     []float64       `json:"bbox,omitempty"`
}

// ResponseError is the error object the service embeds in failed responses.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Feature is one routed alternative.
type Feature struct {
	Type       string     `json:"type"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

// Geometry is the route path. Coordinates are [lng, lat] pairs, in route
// order, as returned by the service.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// Properties holds per-feature route metadata.
type Properties struct {
	Summary Summary `json:"summary"`
}

// Summary is the route totals: distance in meters, duration in seconds.
type Summary struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

// Valid reports whether the response can back an enriched trip: the
// service reported no error and returned at least one feature.
func (r *RouteResponse) Valid() bool {
	return r != nil && r.Error == nil && len(r.Features) > 0
}

// Path returns the first feature's coordinate sequence, or nil when the
// response is invalid or carries no geometry.
func (r *RouteResponse) Path() [][]float64 {
	if !r.Valid() {
		return nil
	}
	return r.Features[0].Geometry.Coordinates
}

// RouteSummary returns the first feature's summary. The second return
// value is false when the response is invalid.
func (r *RouteResponse) RouteSummary() (Summary, bool) {
	if !r.Valid() {
		return Summary{}, false
	}
	return r.Features[0].Properties.Summary, true
}
