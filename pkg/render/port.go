// Package render turns enriched trips into map screenshot files, one image
// per (record, travel mode) pair.
package render

import "context"

// Travel modes rendered for each record.
const (
	ModeWalking = "walking"
	ModeDriving = "driving"
)

// Route is everything the map page needs to draw one route.
type Route struct {
	// Geometry is the route path as [lng, lat] pairs, as returned by the
	// routing service.
	Geometry [][]float64 `json:"geometry"`
	// Start and End are [lat, lng] marker positions.
	Start [2]float64 `json:"start"`
	End   [2]float64 `json:"end"`
	// Mode selects the line style: ModeWalking or ModeDriving.
	Mode string `json:"mode"`
	// Label is the text overlaid near the route midpoint. Lines are
	// separated by \n.
	Label string `json:"label"`
}

// Port is a rendering surface that can draw a route and capture it as a
// PNG. The production implementation drives a headless browser; tests use
// an in-memory fake.
type Port interface {
	RenderRoute(ctx context.Context, route Route) error
	Capture(ctx context.Context) ([]byte, error)
	Close() error
}
