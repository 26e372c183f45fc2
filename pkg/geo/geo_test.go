package geo

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 Coordinate
		wantKm float64
		tolKm  float64
	}{
		{
			name:   "same point",
			p1:     Coordinate{Lat: 37.8715, Lng: -122.2730},
			p2:     Coordinate{Lat: 37.8715, Lng: -122.2730},
			wantKm: 0,
			tolKm:  1e-9,
		},
		{
			name:   "berkeley to san francisco",
			p1:     Coordinate{Lat: 37.8715, Lng: -122.2730},
			p2:     Coordinate{Lat: 37.7749, Lng: -122.4194},
			wantKm: 16.7,
			tolKm:  0.5,
		},
		{
			name:   "one degree of latitude",
			p1:     Coordinate{Lat: 0, Lng: 0},
			p2:     Coordinate{Lat: 1, Lng: 0},
			wantKm: 111.2,
			tolKm:  0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.p1, tt.p2)
			if math.Abs(got-tt.wantKm) > tt.tolKm {
				t.Errorf("Haversine() = %.3f km, want %.3f ± %.3f", got, tt.wantKm, tt.tolKm)
			}
		})
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	a := Coordinate{Lat: 37.87, Lng: -122.27}
	b := Coordinate{Lat: 37.80, Lng: -122.41}
	if d1, d2 := Haversine(a, b), Haversine(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Errorf("Haversine not symmetric: %v vs %v", d1, d2)
	}
}

func TestProject_RoundTripsDistance(t *testing.T) {
	origin := Coordinate{Lat: 37.8715, Lng: -122.2730}

	for _, bearing := range []float64{0, 45, 90, 135, 180, 225, 270, 315} {
		for _, distKm := range []float64{0.1, 1.0, 5.0} {
			dest := Project(origin, distKm, bearing)
			got := Haversine(origin, dest)
			if math.Abs(got-distKm) > distKm*0.001 {
				t.Errorf("Project(%.0f°, %.1f km): haversine back = %.4f km", bearing, distKm, got)
			}
		}
	}
}

func TestProject_BearingDirection(t *testing.T) {
	origin := Coordinate{Lat: 0, Lng: 0}

	north := Project(origin, 10, 0)
	if north.Lat <= origin.Lat {
		t.Errorf("bearing 0 should move north, got lat %v", north.Lat)
	}
	east := Project(origin, 10, 90)
	if east.Lng <= origin.Lng {
		t.Errorf("bearing 90 should move east, got lng %v", east.Lng)
	}
	south := Project(origin, 10, 180)
	if south.Lat >= origin.Lat {
		t.Errorf("bearing 180 should move south, got lat %v", south.Lat)
	}
	west := Project(origin, 10, 270)
	if west.Lng >= origin.Lng {
		t.Errorf("bearing 270 should move west, got lng %v", west.Lng)
	}
}
