// Package config loads dashboard settings: environment defaults first, then command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/iafilius/StatePopulationDashboard/src/dataset"
	"github.com/iafilius/StatePopulationDashboard/src/logging"
)

// Defaults shared with the desktop viewer and the reader. Fields without envDefault take these
// values before the environment is parsed.
const (
	// DefaultAssetsHost serves the echarts bundle used by the interactive page.
	DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"
	// DefaultSumTolerancePct allows for the overlapping race categories in census counts.
	DefaultSumTolerancePct = 15.0
)

// Config holds every runtime setting of the dashboard.
type Config struct {
	Addr            string        `env:"POPDASH_ADDR" envDefault:"127.0.0.1:8050"`
	LogLevel        string        `env:"POPDASH_LOG_LEVEL" envDefault:"info"`
	OpenBrowser     bool          `env:"POPDASH_OPEN_BROWSER" envDefault:"true"`
	DataPath        string        `env:"POPDASH_DATA"`
	Strict          bool          `env:"POPDASH_STRICT" envDefault:"false"`
	SumTolerancePct float64       `env:"POPDASH_SUM_TOLERANCE_PCT"`
	AssetsHost      string        `env:"POPDASH_ASSETS_HOST"`
	CacheTTL        time.Duration `env:"POPDASH_CACHE_TTL" envDefault:"10m"`
	CORSOrigins     []string      `env:"POPDASH_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Defaults returns a Config holding the constant defaults; env.Parse leaves them in place when unset.
func Defaults() Config {
	return Config{AssetsHost: DefaultAssetsHost, SumTolerancePct: DefaultSumTolerancePct}
}

// ParseEnv fills cfg from the environment.
func ParseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Parse loads env defaults, registers flags on fs that override them, parses args and validates.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Defaults()
	if fs == nil {
		return cfg, errors.New("config: flag set is required")
	}
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address (host:port) of the dashboard")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.BoolVar(&cfg.OpenBrowser, "open", cfg.OpenBrowser, "Open the default browser once the server is listening")
	fs.StringVar(&cfg.DataPath, "data", cfg.DataPath, "Optional JSON/JSONC dataset file (default: embedded dataset)")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "Refuse to start when category counts do not add up to state totals")
	fs.Float64Var(&cfg.SumTolerancePct, "sum-tolerance", cfg.SumTolerancePct, "Allowed deviation (percent) between category sum and total")
	fs.StringVar(&cfg.AssetsHost, "assets-host", cfg.AssetsHost, "Base URL of the echarts JavaScript assets")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "Lifetime of cached rendered charts")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("parse flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at startup.
func (c Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("config: addr %q: %w", c.Addr, err)
	}
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	if c.SumTolerancePct < 0 {
		return fmt.Errorf("config: sum tolerance must be >= 0, got %v", c.SumTolerancePct)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config: cache ttl must be >= 0, got %s", c.CacheTTL)
	}
	return nil
}

// URL is the address users open in a browser. Wildcard hosts are shown as 127.0.0.1.
func (c Config) URL() string {
	host, port, err := net.SplitHostPort(c.Addr)
	if err != nil {
		return "http://" + c.Addr + "/"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}

// LoadDataset loads the configured dataset and checks category sums against totals.
// Mismatches are logged; in strict mode they abort startup.
func LoadDataset(c Config) (*dataset.Dataset, error) {
	var (
		ds  *dataset.Dataset
		err error
	)
	if strings.TrimSpace(c.DataPath) != "" {
		ds, err = dataset.LoadFile(c.DataPath)
	} else {
		ds, err = dataset.Default()
	}
	if err != nil {
		return nil, err
	}
	mismatches := ds.Validate(c.SumTolerancePct)
	for _, m := range mismatches {
		logging.Warnf("dataset: %s", m)
	}
	if c.Strict && len(mismatches) > 0 {
		return nil, fmt.Errorf("dataset: %d state(s) exceed %.2f%% sum tolerance", len(mismatches), c.SumTolerancePct)
	}
	logging.Infof("dataset: %d states loaded", ds.Len())
	return ds, nil
}
