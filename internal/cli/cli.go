// Package cli implements the routestim command-line interface.
//
// The main commands are:
//   - run: enrich trips with routes and capture map screenshots
//   - enrich: enrich trips and write the routes document, no screenshots
//   - render: capture screenshots from an existing routes document
//   - trips: inspect and interactively browse the input trip list
//   - cache: manage the route response cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/routelab/routestim/pkg/buildinfo"
	"github.com/routelab/routestim/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "routestim"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Routestim generates route map stimuli for behavioral studies",
		Long:         `Routestim pairs a list of study trips with real walking and driving routes and captures labeled map screenshots, one image per trip, home-coordinate version, and travel mode.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.runCommand())
	root.AddCommand(c.enrichCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.tripsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/routestim/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// newCache builds the route cache from config. An unusable file cache
// degrades to no caching rather than failing the command; an unreachable
// Redis is an error, since it was configured explicitly.
func newCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case CacheBackendNone:
		return cache.NewNullCache(), nil
	case CacheBackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	default:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}
