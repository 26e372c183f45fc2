package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/routelab/routestim/pkg/enrich"
	"github.com/routelab/routestim/pkg/errors"
	"github.com/routelab/routestim/pkg/render"
	"github.com/routelab/routestim/pkg/trip"
)

// Runner executes pipeline stages. Stateless apart from the logger, so one
// Runner can serve multiple runs.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger falls back to the default.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs enrich → persist → archive → render and returns the
// combined result.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID: uuid.NewString(),
		Trips: len(opts.Trips),
	}
	r.Logger.Info("starting run",
		"run_id", result.RunID,
		"trips", len(opts.Trips),
		"versions", len(opts.Versions))

	records, err := r.Enrich(ctx, opts, result)
	if err != nil {
		// Enrichment is the expensive stage; whatever it produced before
		// the abort is still a usable document for a later render.
		if len(records) > 0 {
			if werr := trip.ExportJSON(records, opts.RoutesFile); werr != nil {
				r.Logger.Error("writing partial results", "file", opts.RoutesFile, "err", werr)
			} else {
				r.Logger.Warn("run aborted, wrote partial results",
					"file", opts.RoutesFile, "records", len(records))
			}
		}
		return result, err
	}

	if err := trip.ExportJSON(records, opts.RoutesFile); err != nil {
		return result, errors.Wrap(errors.ErrCodeStorage, err, "writing %s", opts.RoutesFile)
	}
	r.Logger.Info("wrote enriched trips", "file", opts.RoutesFile, "records", len(records))

	if opts.Archive != nil {
		if err := opts.Archive.Archive(ctx, result.RunID, records); err != nil {
			return result, errors.Wrap(errors.ErrCodeStorage, err, "archiving run %s", result.RunID)
		}
		r.Logger.Info("archived run", "run_id", result.RunID)
	}

	if opts.SkipRender {
		return result, nil
	}
	if err := r.RenderScreenshots(ctx, opts, records, result); err != nil {
		return result, err
	}
	return result, nil
}

// Enrich runs the enrichment stage and records its outcome on result.
func (r *Runner) Enrich(ctx context.Context, opts Options, result *Result) ([]trip.Enriched, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	enricher := &enrich.Enricher{
		Routes:   opts.Routes,
		Synth:    opts.Synth,
		Versions: opts.Versions,
		Config:   opts.Pacing,
		Sleep:    opts.Sleep,
		Logger:   r.Logger,
	}
	records, err := enricher.Enrich(ctx, opts.Trips)
	result.Enriched = records
	result.MaxScreenshots = 2 * len(records)
	result.Stats.EnrichTime = time.Since(start)
	if err != nil {
		return records, err
	}

	r.Logger.Info("enrichment complete",
		"records", len(records),
		"possible", len(opts.Trips)*len(opts.Versions),
		"duration", result.Stats.EnrichTime)
	return records, nil
}

// RenderScreenshots runs the screenshot stage over already-enriched
// records.
func (r *Runner) RenderScreenshots(ctx context.Context, opts Options, records []trip.Enriched, result *Result) error {
	if opts.Port == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "no render port configured")
	}

	start := time.Now()
	renderer := &render.Renderer{
		Port:        opts.Port,
		OutDir:      opts.OutputDir,
		SettleDelay: opts.SettleDelay,
		Sleep:       opts.Sleep,
		Logger:      r.Logger,
	}
	n, err := renderer.Render(ctx, records)
	result.Screenshots = n
	result.MaxScreenshots = 2 * len(records)
	result.Stats.RenderTime = time.Since(start)
	if err != nil {
		return err
	}

	r.Logger.Info("rendering complete",
		"screenshots", n,
		"possible", result.MaxScreenshots,
		"duration", result.Stats.RenderTime)
	return nil
}
