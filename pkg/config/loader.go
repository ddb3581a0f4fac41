package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/b/snapmixer/pkg/health"
)

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Load is LoadConfig that treats a missing file as an empty one.
func Load(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func applyDefaults(cfg *Config) {
	if cfg.Server == "" {
		cfg.Server = DefaultServer
	}
	if cfg.Theme == "" {
		cfg.Theme = "auto"
	}
	if cfg.Unicode == "" {
		cfg.Unicode = UnicodeAuto
	}
	if cfg.Steps.Small == 0 {
		cfg.Steps.Small = 1
	}
	if cfg.Steps.Large == 0 {
		cfg.Steps.Large = 5
	}

	def := health.DefaultTiming()
	if cfg.Timing.Response == 0 {
		cfg.Timing.Response = def.Response
	}
	if cfg.Timing.Quiet == 0 {
		cfg.Timing.Quiet = def.Quiet
	}
	if cfg.Timing.SuspendInterval == 0 {
		cfg.Timing.SuspendInterval = def.SuspendInterval
	}
	if cfg.Timing.SuspendThreshold == 0 {
		cfg.Timing.SuspendThreshold = def.SuspendThreshold
	}

	if cfg.Discovery.Service == "" {
		cfg.Discovery.Service = DefaultDiscoveryService
	}
	if cfg.Discovery.Domain == "" {
		cfg.Discovery.Domain = DefaultDiscoveryDomain
	}
	if cfg.Discovery.Timeout == 0 {
		cfg.Discovery.Timeout = 3 * time.Second
	}
}
