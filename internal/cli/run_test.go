package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/routelab/routestim/pkg/render"
)

type stubPort struct {
	closed bool
}

func (s *stubPort) RenderRoute(ctx context.Context, route render.Route) error { return nil }
func (s *stubPort) Capture(ctx context.Context) ([]byte, error)               { return []byte("png"), nil }
func (s *stubPort) Close() error {
	s.closed = true
	return nil
}

func TestStartBrowser(t *testing.T) {
	want := &stubPort{}
	orig := newBrowser
	newBrowser = func(ctx context.Context) (render.Port, error) { return want, nil }
	defer func() { newBrowser = orig }()

	port, err := startBrowser(context.Background())
	if err != nil {
		t.Fatalf("startBrowser() failed: %v", err)
	}
	if port != want {
		t.Error("startBrowser() did not return the constructed port")
	}
}

func TestStartBrowser_Error(t *testing.T) {
	wantErr := errors.New("chrome not found")
	orig := newBrowser
	newBrowser = func(ctx context.Context) (render.Port, error) { return nil, wantErr }
	defer func() { newBrowser = orig }()

	if _, err := startBrowser(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("startBrowser() err = %v, want %v", err, wantErr)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := &Config{OutputDir: "screenshots", RoutesFile: "routes.json"}

	applyOverrides(cfg, &runOpts{})
	if cfg.OutputDir != "screenshots" || cfg.RoutesFile != "routes.json" {
		t.Errorf("empty overrides changed config: %+v", cfg)
	}

	applyOverrides(cfg, &runOpts{outputDir: "out", routesFile: "enriched.json"})
	if cfg.OutputDir != "out" || cfg.RoutesFile != "enriched.json" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}
