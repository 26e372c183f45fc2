package ors

import "testing"

func TestRouteResponse_Valid(t *testing.T) {
	feature := Feature{
		Geometry:   Geometry{Coordinates: [][]float64{{-122.27, 37.87}}},
		Properties: Properties{Summary: Summary{Distance: 100, Duration: 60}},
	}

	tests := []struct {
		name  string
		route *RouteResponse
		want  bool
	}{
		{"nil response", nil, false},
		{"empty response", &RouteResponse{}, false},
		{"error field set", &RouteResponse{Error: &ResponseError{Code: 2009}, Features: []Feature{feature}}, false},
		{"one feature", &RouteResponse{Features: []Feature{feature}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.route.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRouteResponse_AccessorsOnInvalid(t *testing.T) {
	var nilRoute *RouteResponse
	if nilRoute.Path() != nil {
		t.Error("Path() on nil response should be nil")
	}
	if _, ok := nilRoute.RouteSummary(); ok {
		t.Error("RouteSummary() ok on nil response")
	}

	empty := &RouteResponse{}
	if empty.Path() != nil {
		t.Error("Path() on empty response should be nil")
	}
	if _, ok := empty.RouteSummary(); ok {
		t.Error("RouteSummary() ok on empty response")
	}
}
