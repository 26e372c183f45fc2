package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/routelab/routestim/pkg/ors"
	"github.com/routelab/routestim/pkg/pipeline"
	"github.com/routelab/routestim/pkg/render"
	"github.com/routelab/routestim/pkg/render/browser"
	"github.com/routelab/routestim/pkg/trip"
)

// runOpts holds the command-line flags shared by run and enrich.
type runOpts struct {
	configPath string // TOML config file path
	outputDir  string // overrides config output_dir
	routesFile string // overrides config routes_file
	refresh    bool   // bypass cached route responses
	noCache    bool   // disable route response caching entirely
}

func (o *runOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "study.toml", "study configuration file")
	cmd.Flags().StringVarP(&o.outputDir, "output", "o", "", "screenshot output directory (overrides config)")
	cmd.Flags().StringVar(&o.routesFile, "routes-file", "", "enriched routes file (overrides config)")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "bypass cached route responses")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable route response caching")
}

// runCommand creates the run command: enrich and render in one pass.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Enrich trips with routes and capture map screenshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPipeline(cmd.Context(), &opts, false)
		},
	}
	opts.register(cmd)
	return cmd
}

// enrichCommand creates the enrich command: routes only, no screenshots.
func (c *CLI) enrichCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Enrich trips with routes and write the routes document",
		Long:  `Enrich runs the route-fetching stage only and writes the enriched document, so screenshots can be captured later with the render command without repeating the (slow, rate-limited) route requests.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPipeline(cmd.Context(), &opts, true)
		},
	}
	opts.register(cmd)
	return cmd
}

func (c *CLI) runPipeline(ctx context.Context, opts *runOpts, skipRender bool) error {
	cfg, err := LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)

	trips, err := trip.LoadTrips(cfg.Trips)
	if err != nil {
		return err
	}
	printInfo("Loaded %d trips from %s", len(trips), cfg.Trips)

	client, err := c.newRouteClient(ctx, cfg, opts)
	if err != nil {
		return err
	}

	pipeOpts := pipeline.Options{
		Trips:       trips,
		Versions:    cfg.HomeCoordinates(),
		RoutesFile:  cfg.RoutesFile,
		OutputDir:   cfg.OutputDir,
		Pacing:      cfg.PacingOverrides(),
		SettleDelay: cfg.SettleDelay(),
		SkipRender:  skipRender,
		Routes:      client,
	}

	if !skipRender {
		port, err := startBrowser(ctx)
		if err != nil {
			return err
		}
		defer port.Close()
		pipeOpts.Port = port
	}

	if cfg.Mongo.URI != "" {
		store, err := trip.NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())
		pipeOpts.Archive = store
	}

	prog := newProgress(c.Logger)
	result, err := pipeline.NewRunner(c.Logger).Execute(ctx, pipeOpts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Processed %d trips", result.Trips))

	printSuccess("Enriched %d of %d trip versions", len(result.Enriched), result.Trips*len(pipeOpts.Versions))
	printFile(pipeOpts.RoutesFile)
	if !skipRender {
		printSuccess("Captured %d of %d screenshots", result.Screenshots, result.MaxScreenshots)
		printFile(pipeOpts.OutputDir)
	} else {
		printDetail("Run %q to capture screenshots", appName+" render "+pipeOpts.RoutesFile)
	}
	return nil
}

// newBrowser starts the headless browser. A variable so tests can stub
// out the Chrome dependency.
var newBrowser = func(ctx context.Context) (render.Port, error) {
	return browser.New(ctx)
}

// startBrowser launches the headless browser behind a spinner: Chrome
// startup and the map page load take a noticeable moment with no log
// output of their own.
func startBrowser(ctx context.Context) (render.Port, error) {
	sp := newSpinnerWithContext(ctx, "Starting headless browser...")
	sp.Start()
	port, err := newBrowser(ctx)
	if err != nil {
		sp.StopWithError("Browser failed to start")
		return nil, err
	}
	sp.Stop()
	return port, nil
}

func applyOverrides(cfg *Config, opts *runOpts) {
	if opts.outputDir != "" {
		cfg.OutputDir = opts.outputDir
	}
	if opts.routesFile != "" {
		cfg.RoutesFile = opts.routesFile
	}
}

func (c *CLI) newRouteClient(ctx context.Context, cfg *Config, opts *runOpts) (*ors.Client, error) {
	key, err := APIKey()
	if err != nil {
		return nil, err
	}

	cacheCfg := cfg.Cache
	if opts.noCache {
		cacheCfg.Backend = CacheBackendNone
	}
	store, err := newCache(ctx, cacheCfg)
	if err != nil {
		return nil, err
	}

	return ors.NewClient(cfg.BaseURL(), key,
		ors.WithCache(store),
		ors.WithRefresh(opts.refresh),
	), nil
}
