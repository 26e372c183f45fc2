// Package pipeline provides the stimulus generation pipeline: enrich trips
// with routes, persist the enriched document, and render map screenshots.
//
// The stages mirror the CLI commands. `run` executes all of them;
// `enrich` and `render` execute one stage against a persisted document, so
// an expensive enrichment run never has to be repeated just to re-capture
// images.
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    Trips:    trips,
//	    Versions: homeCoords,
//	    Routes:   orsClient,
//	    Port:     browserPort,
//	}
//	result, err := runner.Execute(ctx, opts)
package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/routelab/routestim/pkg/enrich"
	"github.com/routelab/routestim/pkg/errors"
	"github.com/routelab/routestim/pkg/geo"
	"github.com/routelab/routestim/pkg/httputil"
	"github.com/routelab/routestim/pkg/render"
	"github.com/routelab/routestim/pkg/trip"
)

// Defaults shared by the CLI and config layer.
const (
	// DefaultRoutesFile is where the enriched document is written.
	DefaultRoutesFile = "trips_with_routes.json"

	// DefaultOutputDir receives the screenshot files.
	DefaultOutputDir = "screenshots"
)

// Archiver stores enriched records in an external archive after a
// successful enrichment stage. Optional; nil disables archiving.
type Archiver interface {
	Archive(ctx context.Context, runID string, records []trip.Enriched) error
}

// Options contains all configuration for a pipeline run.
type Options struct {
	// Trips is the input trip list.
	Trips []trip.Trip

	// Versions are the home coordinates; each trip is enriched once per
	// version.
	Versions []geo.Coordinate

	// RoutesFile is the path of the enriched JSON document.
	RoutesFile string

	// OutputDir receives the screenshots.
	OutputDir string

	// Pacing overrides the enrichment delays when non-zero.
	Pacing enrich.Config

	// SettleDelay overrides the pre-capture settle pause when non-zero.
	SettleDelay time.Duration

	// SkipRender stops after the enriched document is written.
	SkipRender bool

	// Runtime dependencies.
	Routes  enrich.RouteFetcher
	Port    render.Port
	Archive Archiver
	Synth   *geo.Synthesizer
	Sleep   httputil.SleepFunc
	Logger  *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Trips) == 0 {
		return errors.New(errors.ErrCodeInvalidTrips, "no trips to process")
	}
	if len(o.Versions) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no home coordinate versions configured")
	}
	if o.Routes == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "no route client configured")
	}
	if !o.SkipRender && o.Port == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "no render port configured")
	}

	if o.RoutesFile == "" {
		o.RoutesFile = DefaultRoutesFile
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	defaults := enrich.DefaultConfig()
	if o.Pacing.Attempts <= 0 {
		o.Pacing.Attempts = defaults.Attempts
	}
	if o.Pacing.RetryDelay <= 0 {
		o.Pacing.RetryDelay = defaults.RetryDelay
	}
	if o.Pacing.VersionDelay <= 0 {
		o.Pacing.VersionDelay = defaults.VersionDelay
	}
	if o.Pacing.TripDelay <= 0 {
		o.Pacing.TripDelay = defaults.TripDelay
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = render.DefaultSettleDelay
	}
	if o.Synth == nil {
		o.Synth = geo.NewSynthesizer()
	}
	if o.Sleep == nil {
		o.Sleep = httputil.Sleep
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this execution in logs and the archive.
	RunID string

	// Trips is the number of input trips.
	Trips int

	// Enriched holds the records that got both routes.
	Enriched []trip.Enriched

	// Screenshots is the number of images written.
	Screenshots int

	// MaxScreenshots is the upper bound: two per enriched record.
	MaxScreenshots int

	// Stats contains timing information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	EnrichTime time.Duration
	RenderTime time.Duration
}
