// Package enrich pairs synthetic trips with real road-network routes. For
// every trip and home-coordinate version it synthesizes candidate
// destinations until the routing service can produce both a walking and a
// driving route, pacing requests so bulk runs stay polite to the API.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/routelab/routestim/pkg/geo"
	"github.com/routelab/routestim/pkg/httputil"
	"github.com/routelab/routestim/pkg/ors"
	"github.com/routelab/routestim/pkg/trip"
)

// RouteFetcher fetches directions between two coordinates for a travel
// profile. *ors.Client satisfies it; tests supply scripted fakes.
type RouteFetcher interface {
	Directions(ctx context.Context, profile string, start, end geo.Coordinate) (*ors.RouteResponse, error)
}

// Config controls retry and pacing behavior.
type Config struct {
	// Attempts is the number of destination candidates tried per version
	// before giving up on it.
	Attempts int
	// RetryDelay is the pause between consecutive attempts for one version.
	RetryDelay time.Duration
	// VersionDelay is the pause between versions of the same trip.
	VersionDelay time.Duration
	// TripDelay is the pause between trips.
	TripDelay time.Duration
}

// DefaultConfig returns the pacing used for production runs.
func DefaultConfig() Config {
	return Config{
		Attempts:     5,
		RetryDelay:   3 * time.Second,
		VersionDelay: 3 * time.Second,
		TripDelay:    10 * time.Second,
	}
}

// RouteNotFoundError reports that no routable destination was found for one
// version of a trip after all attempts. It is recorded and skipped rather
// than aborting the run.
type RouteNotFoundError struct {
	Destination string
	Version     int
	Attempts    int
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("no route found for %q version %d after %d attempts", e.Destination, e.Version, e.Attempts)
}

// Enricher drives the trip enrichment loop.
type Enricher struct {
	Routes   RouteFetcher
	Synth    *geo.Synthesizer
	Versions []geo.Coordinate
	Config   Config
	Sleep    httputil.SleepFunc
	Logger   *log.Logger
}

// New creates an Enricher with default pacing and a random-bearing
// synthesizer.
func New(routes RouteFetcher, versions []geo.Coordinate, logger *log.Logger) *Enricher {
	return &Enricher{
		Routes:   routes,
		Synth:    geo.NewSynthesizer(),
		Versions: versions,
		Config:   DefaultConfig(),
		Sleep:    httputil.Sleep,
		Logger:   logger,
	}
}

// Enrich processes every trip against every home-coordinate version and
// returns the records for which both a walking and a driving route were
// found. Versions that exhaust their attempts are logged and skipped, and
// transport failures count as failed attempts like any other; the only
// error returned is context cancellation, with the records accumulated so
// far.
func (e *Enricher) Enrich(ctx context.Context, trips []trip.Trip) ([]trip.Enriched, error) {
	records := make([]trip.Enriched, 0, len(trips)*len(e.Versions))

	for i, t := range trips {
		if i > 0 {
			if err := e.sleep(ctx, e.Config.TripDelay); err != nil {
				return records, err
			}
		}
		e.logger().Info("enriching trip",
			"index", i,
			"destination", t.DestinationPoint,
			"duration_min", t.WalkingDuration)

		for v, origin := range e.Versions {
			if v > 0 {
				if err := e.sleep(ctx, e.Config.VersionDelay); err != nil {
					return records, err
				}
			}

			rec, err := e.enrichVersion(ctx, t, i, v, origin)
			if err != nil {
				var notFound *RouteNotFoundError
				if errors.As(err, &notFound) {
					e.logger().Warn("skipping version", "err", notFound)
					continue
				}
				return records, err
			}
			records = append(records, *rec)
		}
	}
	return records, nil
}

// enrichVersion tries up to Config.Attempts fresh destinations for one trip
// version and returns the first record with both routes valid.
func (e *Enricher) enrichVersion(ctx context.Context, t trip.Trip, tripIndex, version int, origin geo.Coordinate) (*trip.Enriched, error) {
	for attempt := 1; attempt <= e.Config.Attempts; attempt++ {
		if attempt > 1 {
			if err := e.sleep(ctx, e.Config.RetryDelay); err != nil {
				return nil, err
			}
		}

		dest := e.Synth.Synthesize(t.WalkingDuration, origin)

		// A transport failure that survives the client's own retries is a
		// failed attempt like an unroutable destination: the pacing between
		// attempts gives a brief outage room to pass, and a version that
		// never recovers exhausts through the normal RouteNotFoundError
		// path instead of discarding the rest of the run.
		walking, err := e.Routes.Directions(ctx, ors.ProfileWalking, origin, dest)
		if err != nil {
			if cerr := e.attemptFailed(ctx, tripIndex, version, attempt, ors.ProfileWalking, err); cerr != nil {
				return nil, cerr
			}
			continue
		}
		driving, err := e.Routes.Directions(ctx, ors.ProfileDriving, origin, dest)
		if err != nil {
			if cerr := e.attemptFailed(ctx, tripIndex, version, attempt, ors.ProfileDriving, err); cerr != nil {
				return nil, cerr
			}
			continue
		}

		if walking.Valid() && driving.Valid() {
			return &trip.Enriched{
				Trip:        t,
				TripIndex:   tripIndex,
				StartCoords: origin,
				EndCoords:   dest,
				Version:     version,
				Walking:     walking,
				Driving:     driving,
			}, nil
		}
		e.logger().Debug("destination not routable",
			"trip", tripIndex,
			"version", version,
			"attempt", attempt,
			"lat", dest.Lat,
			"lng", dest.Lng)
	}
	return nil, &RouteNotFoundError{
		Destination: t.DestinationPoint,
		Version:     version,
		Attempts:    e.Config.Attempts,
	}
}

// attemptFailed logs a failed route request. It returns an error only when
// the context is done, which is the one condition that aborts the loop.
func (e *Enricher) attemptFailed(ctx context.Context, tripIndex, version, attempt int, profile string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	e.logger().Warn("route request failed",
		"trip", tripIndex,
		"version", version,
		"attempt", attempt,
		"profile", profile,
		"err", err)
	return nil
}

func (e *Enricher) sleep(ctx context.Context, d time.Duration) error {
	fn := e.Sleep
	if fn == nil {
		fn = httputil.Sleep
	}
	return fn(ctx, d)
}

func (e *Enricher) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.Default()
}
