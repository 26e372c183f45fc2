package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/routelab/routestim/pkg/geo"
	"github.com/routelab/routestim/pkg/ors"
	"github.com/routelab/routestim/pkg/trip"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		minutes float64
		miles   float64
		version int
		mode    string
		want    string
	}{
		{"integers", 0, 12, 1, 2, ModeWalking, "trip_0_12min_1miles_v2_walking.png"},
		{"fractional miles", 0, 12, 0.8, 2, ModeWalking, "trip_0_12min_0_8miles_v2_walking.png"},
		{"fractional minutes", 3, 7.5, 0.25, 0, ModeDriving, "trip_3_7_5min_0_25miles_v0_driving.png"},
		{"large index", 41, 60, 2.4, 4, ModeDriving, "trip_41_60min_2_4miles_v4_driving.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filename(tt.index, tt.minutes, tt.miles, tt.version, tt.mode)
			if got != tt.want {
				t.Errorf("Filename() = %q, want %q", got, tt.want)
			}
		})
	}
}

// fakePort records rendered routes and returns a fixed PNG payload.
type fakePort struct {
	routes    []Route
	captures  int
	renderErr error
	capErr    error
	closed    bool
}

func (f *fakePort) RenderRoute(ctx context.Context, route Route) error {
	if f.renderErr != nil {
		return f.renderErr
	}
	f.routes = append(f.routes, route)
	return nil
}

func (f *fakePort) Capture(ctx context.Context) ([]byte, error) {
	if f.capErr != nil {
		return nil, f.capErr
	}
	f.captures++
	return []byte("\x89PNG fake"), nil
}

func (f *fakePort) Close() error {
	f.closed = true
	return nil
}

func validRoute(durationSec float64) *ors.RouteResponse {
	return &ors.RouteResponse{
		Features: []ors.Feature{{
			Geometry:   ors.Geometry{Type: "LineString", Coordinates: [][]float64{{-122.27, 37.87}, {-122.26, 37.86}}},
			Properties: ors.Properties{Summary: ors.Summary{Distance: 1200, Duration: durationSec}},
		}},
	}
}

func record(index, version int, minutes, miles float64) trip.Enriched {
	return trip.Enriched{
		Trip:        trip.Trip{DestinationPoint: "Library", WalkingDuration: minutes, TripLengthMiles: miles},
		TripIndex:   index,
		StartCoords: geo.Coordinate{Lat: 37.87, Lng: -122.27},
		EndCoords:   geo.Coordinate{Lat: 37.86, Lng: -122.26},
		Version:     version,
		Walking:     validRoute(minutes * 60),
		Driving:     validRoute(300),
	}
}

func newTestRenderer(t *testing.T, port Port) *Renderer {
	t.Helper()
	r := NewRenderer(port, t.TempDir(), nil)
	r.Sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return r
}

func TestRender_WritesBothModes(t *testing.T) {
	port := &fakePort{}
	r := newTestRenderer(t, port)

	n, err := r.Render(context.Background(), []trip.Enriched{record(0, 2, 12, 0.8)})
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("Render() wrote %d screenshots, want 2", n)
	}

	for _, name := range []string{
		"trip_0_12min_0_8miles_v2_walking.png",
		"trip_0_12min_0_8miles_v2_driving.png",
	} {
		if _, err := os.Stat(filepath.Join(r.OutDir, name)); err != nil {
			t.Errorf("missing screenshot %s: %v", name, err)
		}
	}
}

func TestRender_Labels(t *testing.T) {
	port := &fakePort{}
	r := newTestRenderer(t, port)

	// Driving summary duration is 300s, so its label shows 5 minutes while
	// the walking label keeps the trip's stated duration.
	if _, err := r.Render(context.Background(), []trip.Enriched{record(0, 0, 12, 0.8)}); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if len(port.routes) != 2 {
		t.Fatalf("rendered %d routes, want 2", len(port.routes))
	}

	walking, driving := port.routes[0], port.routes[1]
	if walking.Mode != ModeWalking || driving.Mode != ModeDriving {
		t.Fatalf("mode order = %q, %q", walking.Mode, driving.Mode)
	}
	if walking.Label != "12min\n0.8mi" {
		t.Errorf("walking label = %q, want %q", walking.Label, "12min\n0.8mi")
	}
	if driving.Label != "5min\n0.8mi" {
		t.Errorf("driving label = %q, want %q", driving.Label, "5min\n0.8mi")
	}
}

func TestRender_RoutePayload(t *testing.T) {
	port := &fakePort{}
	r := newTestRenderer(t, port)

	rec := record(1, 3, 20, 1.2)
	if _, err := r.Render(context.Background(), []trip.Enriched{rec}); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	got := port.routes[0]
	if got.Start != [2]float64{37.87, -122.27} || got.End != [2]float64{37.86, -122.26} {
		t.Errorf("marker positions = %v / %v", got.Start, got.End)
	}
	if len(got.Geometry) != 2 || got.Geometry[0][0] != -122.27 {
		t.Errorf("geometry not passed through: %v", got.Geometry)
	}
}

func TestRender_SkipsMissingRoutes(t *testing.T) {
	port := &fakePort{}
	r := newTestRenderer(t, port)

	rec := record(0, 0, 10, 0.5)
	rec.Driving = &ors.RouteResponse{Error: &ors.ResponseError{Code: 2010, Message: "no routable point"}}

	n, err := r.Render(context.Background(), []trip.Enriched{rec})
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Render() wrote %d screenshots, want 1 (driving skipped)", n)
	}
}

func TestRender_ManyRecords(t *testing.T) {
	port := &fakePort{}
	r := newTestRenderer(t, port)

	var records []trip.Enriched
	for v := 0; v < 5; v++ {
		records = append(records, record(0, v, 15, 0.9))
	}
	n, err := r.Render(context.Background(), records)
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if n != 10 {
		t.Errorf("Render() wrote %d screenshots, want 10", n)
	}
	entries, err := os.ReadDir(r.OutDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 10 {
		t.Errorf("output dir holds %d files, want 10", len(entries))
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".png") {
			t.Errorf("unexpected file %s", e.Name())
		}
	}
}

func TestRender_CaptureFailureContinues(t *testing.T) {
	port := &fakePort{capErr: errors.New("target crashed")}
	r := newTestRenderer(t, port)

	n, err := r.Render(context.Background(), []trip.Enriched{record(0, 0, 10, 0.5), record(1, 0, 20, 1)})
	if err != nil {
		t.Fatalf("Render() failed: %v (per-image failures must not abort)", err)
	}
	if n != 0 {
		t.Errorf("Render() reported %d screenshots despite capture failures", n)
	}
}

func TestRender_BadOutputDirFails(t *testing.T) {
	port := &fakePort{}
	r := NewRenderer(port, filepath.Join(t.TempDir(), "file-in-the-way", "out"), nil)
	r.Sleep = func(ctx context.Context, d time.Duration) error { return nil }

	// Occupy the parent path with a regular file so MkdirAll cannot succeed.
	parent := filepath.Dir(r.OutDir)
	if err := os.WriteFile(parent, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := r.Render(context.Background(), []trip.Enriched{record(0, 0, 10, 0.5)}); err == nil {
		t.Fatal("Render() with unusable output dir did not fail")
	}
}

func TestRender_ContextCancelled(t *testing.T) {
	port := &fakePort{}
	r := NewRenderer(port, t.TempDir(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, []trip.Enriched{record(0, 0, 10, 0.5)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Render() err = %v, want context.Canceled", err)
	}
}
