package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/routelab/routestim/pkg/enrich"
	"github.com/routelab/routestim/pkg/errors"
	"github.com/routelab/routestim/pkg/geo"
	"github.com/routelab/routestim/pkg/ors"
)

// Cache backends selectable in config.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// apiKeyEnv is the environment variable holding the OpenRouteService key.
const apiKeyEnv = "ORS_API_KEY"

// Config is the study configuration, loaded from a TOML file. The API key
// deliberately never appears here; it comes from the environment.
type Config struct {
	// Trips is the path of the input trip list (JSON).
	Trips string `toml:"trips"`

	// OutputDir receives screenshots.
	OutputDir string `toml:"output_dir"`

	// RoutesFile is where the enriched document is written.
	RoutesFile string `toml:"routes_file"`

	// Versions are the home coordinates, one per study version.
	Versions []VersionConfig `toml:"versions"`

	ORS     ORSConfig     `toml:"ors"`
	Pacing  PacingConfig  `toml:"pacing"`
	Browser BrowserConfig `toml:"browser"`
	Mongo   MongoConfig   `toml:"mongo"`
	Cache   CacheConfig   `toml:"cache"`
}

// VersionConfig is one home coordinate.
type VersionConfig struct {
	Lat float64 `toml:"lat"`
	Lng float64 `toml:"lng"`
}

// ORSConfig configures the routing service client.
type ORSConfig struct {
	BaseURL string `toml:"base_url"`
}

// PacingConfig overrides the enrichment delays. Zero values keep the
// defaults.
type PacingConfig struct {
	Attempts        int `toml:"attempts"`
	RetryDelaySec   int `toml:"retry_delay_sec"`
	VersionDelaySec int `toml:"version_delay_sec"`
	TripDelaySec    int `toml:"trip_delay_sec"`
}

// BrowserConfig configures the screenshot stage.
type BrowserConfig struct {
	SettleDelaySec int `toml:"settle_delay_sec"`
}

// MongoConfig enables the optional run archive when URI is set.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// CacheConfig selects the route response cache backend.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// LoadConfig reads and validates a TOML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading config %s", path)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Trips == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "config has no trips file")
	}
	if len(c.Versions) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "config has no home coordinate versions")
	}
	for i, v := range c.Versions {
		if v.Lat < -90 || v.Lat > 90 || v.Lng < -180 || v.Lng > 180 {
			return errors.New(errors.ErrCodeInvalidConfig, "version %d has out-of-range coordinate (%v, %v)", i, v.Lat, v.Lng)
		}
	}
	switch c.Cache.Backend {
	case "", CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheBackendRedis && c.Cache.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "redis cache backend needs an addr")
	}
	return nil
}

// HomeCoordinates converts the configured versions to coordinates.
func (c *Config) HomeCoordinates() []geo.Coordinate {
	coords := make([]geo.Coordinate, len(c.Versions))
	for i, v := range c.Versions {
		coords[i] = geo.Coordinate{Lat: v.Lat, Lng: v.Lng}
	}
	return coords
}

// PacingOverrides converts the pacing section to enrichment config. Zero
// fields stay zero so pipeline defaults apply.
func (c *Config) PacingOverrides() enrich.Config {
	return enrich.Config{
		Attempts:     c.Pacing.Attempts,
		RetryDelay:   time.Duration(c.Pacing.RetryDelaySec) * time.Second,
		VersionDelay: time.Duration(c.Pacing.VersionDelaySec) * time.Second,
		TripDelay:    time.Duration(c.Pacing.TripDelaySec) * time.Second,
	}
}

// SettleDelay returns the configured settle delay, or zero to keep the
// default.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Browser.SettleDelaySec) * time.Second
}

// BaseURL returns the routing service base URL, defaulted when unset.
func (c *Config) BaseURL() string {
	if c.ORS.BaseURL != "" {
		return c.ORS.BaseURL
	}
	return ors.DefaultBaseURL
}

// APIKey reads the routing service key from the environment.
func APIKey() (string, error) {
	key := os.Getenv(apiKeyEnv)
	if key == "" {
		return "", errors.New(errors.ErrCodeInvalidConfig, "%s is not set", apiKeyEnv)
	}
	return key, nil
}
