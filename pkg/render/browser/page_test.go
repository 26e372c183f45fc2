package browser

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestPageServer_ServesMapPage(t *testing.T) {
	ps, err := NewPageServer()
	if err != nil {
		t.Fatalf("NewPageServer() failed: %v", err)
	}
	defer ps.Close()

	resp, err := http.Get(ps.URL())
	if err != nil {
		t.Fatalf("GET %s failed: %v", ps.URL(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"renderRoute", "window.mapReady", "leaflet"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestPageServer_Healthz(t *testing.T) {
	ps, err := NewPageServer()
	if err != nil {
		t.Fatalf("NewPageServer() failed: %v", err)
	}
	defer ps.Close()

	resp, err := http.Get(ps.URL() + "healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", resp.StatusCode)
	}
}
