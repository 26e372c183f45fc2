package render

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/routelab/routestim/pkg/errors"
	"github.com/routelab/routestim/pkg/httputil"
	"github.com/routelab/routestim/pkg/trip"
)

// DefaultSettleDelay is how long the map gets to finish tiles and
// animations before a capture.
const DefaultSettleDelay = 2 * time.Second

// Renderer walks enriched records and writes one screenshot per
// (record, mode) pair into OutDir.
type Renderer struct {
	Port        Port
	OutDir      string
	SettleDelay time.Duration
	Sleep       httputil.SleepFunc
	Logger      *log.Logger
}

// NewRenderer creates a Renderer with the default settle delay.
func NewRenderer(port Port, outDir string, logger *log.Logger) *Renderer {
	return &Renderer{
		Port:        port,
		OutDir:      outDir,
		SettleDelay: DefaultSettleDelay,
		Sleep:       httputil.Sleep,
		Logger:      logger,
	}
}

// Render captures both modes for every record and returns the number of
// screenshots written. Records missing a usable route for a mode are
// skipped for that mode; render or capture failures for one image are
// logged and the run continues. Only an unusable output directory or a
// cancelled context aborts.
func (r *Renderer) Render(ctx context.Context, records []trip.Enriched) (int, error) {
	if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
		return 0, errors.Wrap(errors.ErrCodeStorage, err, "creating output directory")
	}

	written := 0
	for _, rec := range records {
		for _, mode := range []string{ModeWalking, ModeDriving} {
			route, ok := r.routeFor(rec, mode)
			if !ok {
				continue
			}
			if err := r.capture(ctx, rec, mode, route); err != nil {
				if ctx.Err() != nil {
					return written, ctx.Err()
				}
				r.logger().Error("screenshot failed",
					"trip", rec.TripIndex,
					"version", rec.Version,
					"mode", mode,
					"err", err)
				continue
			}
			written++
		}
	}
	return written, nil
}

func (r *Renderer) capture(ctx context.Context, rec trip.Enriched, mode string, route Route) error {
	if err := r.Port.RenderRoute(ctx, route); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "rendering route")
	}
	if err := r.sleep(ctx, r.settle()); err != nil {
		return err
	}
	png, err := r.Port.Capture(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeCaptureFailed, err, "capturing screenshot")
	}

	name := Filename(rec.TripIndex, rec.WalkingDuration, rec.TripLengthMiles, rec.Version, mode)
	path := filepath.Join(r.OutDir, name)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "writing %s", name)
	}
	r.logger().Info("screenshot written", "file", name)
	return nil
}

// routeFor assembles the page payload for one mode, or reports false when
// the record carries no usable route for it.
func (r *Renderer) routeFor(rec trip.Enriched, mode string) (Route, bool) {
	resp := rec.Walking
	if mode == ModeDriving {
		resp = rec.Driving
	}
	path := resp.Path()
	if len(path) == 0 {
		return Route{}, false
	}

	minutes := rec.WalkingDuration
	if mode == ModeDriving {
		sum, ok := resp.RouteSummary()
		if !ok {
			return Route{}, false
		}
		minutes = math.Round(sum.Duration / 60)
	}
	label := fmt.Sprintf("%smin\n%smi",
		strconv.FormatFloat(minutes, 'f', -1, 64),
		strconv.FormatFloat(rec.TripLengthMiles, 'f', -1, 64))

	return Route{
		Geometry: path,
		Start:    [2]float64{rec.StartCoords.Lat, rec.StartCoords.Lng},
		End:      [2]float64{rec.EndCoords.Lat, rec.EndCoords.Lng},
		Mode:     mode,
		Label:    label,
	}, true
}

func (r *Renderer) settle() time.Duration {
	if r.SettleDelay > 0 {
		return r.SettleDelay
	}
	return DefaultSettleDelay
}

func (r *Renderer) sleep(ctx context.Context, d time.Duration) error {
	fn := r.Sleep
	if fn == nil {
		fn = httputil.Sleep
	}
	return fn(ctx, d)
}

func (r *Renderer) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}
