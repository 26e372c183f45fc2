// Package trip defines the study's trip records and their persistence:
// the immutable input trips, the enriched records produced by the
// enrichment loop, a write-once JSON document, and an optional MongoDB
// archive.
package trip

import (
	"github.com/routelab/routestim/pkg/geo"
	"github.com/routelab/routestim/pkg/ors"
)

// Trip is one input record from the study's trip list. Immutable.
type Trip struct {
	DestinationPoint string  `json:"destination_point"`
	WalkingDuration  float64 `json:"walking_duration"` // minutes
	TripLengthMiles  float64 `json:"trip_length_miles"`
}

// Enriched is a trip successfully paired with valid walking and driving
// routes for one home-coordinate version. Constructed only on a fully
// successful attempt loop, never partially populated, and immutable once
// created.
type Enriched struct {
	Trip

	// TripIndex is the positional index of the source trip in the input
	// list. Screenshot names key on it, and re-rendering from a persisted
	// document must not depend on recomputing positions.
	TripIndex int `json:"trip_index"`

	StartCoords geo.Coordinate `json:"start_coords"`
	EndCoords   geo.Coordinate `json:"end_coords"`

	// Version is the index into the home-coordinate version set.
	Version int `json:"version"`

	Walking *ors.RouteResponse `json:"ors_walking"`
	Driving *ors.RouteResponse `json:"ors_driving"`
}
