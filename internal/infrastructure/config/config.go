package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"

	"github.com/civiclens/portal-client/internal/core/domain"
)

type Config struct {
	APIBaseURL string `env:"CIVIC_API_URL, default=http://localhost:8000"`
	WSBaseURL  string `env:"CIVIC_WS_URL,  default=ws://localhost:8000"`

	// SessionFile overrides the default location under the user config
	// dir when non-empty.
	SessionFile string `env:"CIVIC_SESSION_FILE"`

	LogLevel  string `env:"CIVIC_LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"CIVIC_LOG_PRETTY, default=true"`

	HTTPTimeout string `env:"CIVIC_HTTP_TIMEOUT, default=30s"`

	// Lat/Lng stand in for the browser geolocation fix; both must be set
	// for a fix to exist. HighAccuracyLat/Lng model the fresher fix taken
	// when a photo is attached.
	Lat             *float64 `env:"CIVIC_LAT"`
	Lng             *float64 `env:"CIVIC_LNG"`
	HighAccuracyLat *float64 `env:"CIVIC_PHOTO_LAT"`
	HighAccuracyLng *float64 `env:"CIVIC_PHOTO_LNG"`

	// MetricsAddr enables the Prometheus endpoint during watch when
	// non-empty (e.g. ":9105").
	MetricsAddr string `env:"CIVIC_METRICS_ADDR"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LocationFix returns the configured loose-accuracy coordinates, or nil
// when geolocation is "denied".
func (c *Config) LocationFix() *domain.Coordinates {
	if c.Lat == nil || c.Lng == nil {
		return nil
	}
	return &domain.Coordinates{Lat: *c.Lat, Lng: *c.Lng}
}

// HighAccuracyFix returns the photo-time coordinates, or nil when unset.
func (c *Config) HighAccuracyFix() *domain.Coordinates {
	if c.HighAccuracyLat == nil || c.HighAccuracyLng == nil {
		return nil
	}
	return &domain.Coordinates{Lat: *c.HighAccuracyLat, Lng: *c.HighAccuracyLng}
}
