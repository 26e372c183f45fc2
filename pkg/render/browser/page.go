// Package browser renders routes in a headless Chrome instance. The map
// page is embedded in the binary and served from a loopback HTTP server so
// the browser loads it over a real origin rather than file://.
package browser

import (
	"context"
	_ "embed"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/routelab/routestim/pkg/errors"
)

//go:embed map.html
var mapPage []byte

// PageServer serves the embedded map page on a loopback port.
type PageServer struct {
	srv      *http.Server
	listener net.Listener
}

// NewPageServer binds a random loopback port and starts serving.
func NewPageServer() (*PageServer, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBrowser, err, "binding map page listener")
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(mapPage)
	})
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ps := &PageServer{
		srv:      &http.Server{Handler: r, ReadHeaderTimeout: 5 * time.Second},
		listener: ln,
	}
	go ps.srv.Serve(ln)
	return ps, nil
}

// URL returns the address the browser should navigate to.
func (p *PageServer) URL() string {
	return "http://" + p.listener.Addr().String() + "/"
}

// Close stops the server.
func (p *PageServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return p.srv.Shutdown(ctx)
}
