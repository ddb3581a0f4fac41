package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/b/snapmixer/pkg/health"
	"github.com/b/snapmixer/pkg/snapcast"
)

var (
	ErrInvalidServer = errors.New("invalid server address")
	ErrInvalidConfig = errors.New("invalid config")
)

// Unicode modes.
const (
	UnicodeAuto   = "auto"
	UnicodeAlways = "always"
	UnicodeNever  = "never"
)

const (
	DefaultServer           = "localhost"
	DefaultDiscoveryService = "_snapcast-jsonrpc._tcp"
	DefaultDiscoveryDomain  = "local."
)

type Config struct {
	Server    string    `yaml:"server"`
	Theme     string    `yaml:"theme"`
	Unicode   string    `yaml:"unicode"`
	Steps     Steps     `yaml:"steps"`
	Timing    Timing    `yaml:"timing"`
	Discovery Discovery `yaml:"discovery"`
}

// Steps are the relative volume nudges in percent.
type Steps struct {
	Small int `yaml:"small"`
	Large int `yaml:"large"`
}

type Timing struct {
	Response         time.Duration `yaml:"response"`
	Quiet            time.Duration `yaml:"quiet"`
	SuspendInterval  time.Duration `yaml:"suspend_interval"`
	SuspendThreshold time.Duration `yaml:"suspend_threshold"`
}

type Discovery struct {
	Service string        `yaml:"service"`
	Domain  string        `yaml:"domain"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Watchdog converts the timing section for the health watchdog.
func (t Timing) Watchdog() health.Timing {
	return health.Timing{
		Response:         t.Response,
		Quiet:            t.Quiet,
		SuspendInterval:  t.SuspendInterval,
		SuspendThreshold: t.SuspendThreshold,
	}
}

// Validate rejects values the program cannot run with.
func (c *Config) Validate() error {
	switch c.Unicode {
	case UnicodeAuto, UnicodeAlways, UnicodeNever:
	default:
		return fmt.Errorf("%w: unicode must be auto, always or never, got %q", ErrInvalidConfig, c.Unicode)
	}
	if c.Steps.Small < 1 || c.Steps.Small > 100 || c.Steps.Large < 1 || c.Steps.Large > 100 {
		return fmt.Errorf("%w: steps must be within 1..100", ErrInvalidConfig)
	}
	if err := c.Timing.Watchdog().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := ParseServer(c.Server); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ParseServer normalizes HOST[:PORT] to host:port, defaulting the port
// to the Snapcast control port.
func ParseServer(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidServer)
	}
	defaultPort := strconv.Itoa(snapcast.DefaultPort)

	// A bare IPv6 literal has colons but no port.
	if ip := net.ParseIP(strings.Trim(s, "[]")); ip != nil && strings.Count(s, ":") > 1 && !strings.Contains(s, "]:") {
		return net.JoinHostPort(ip.String(), defaultPort), nil
	}

	host, port, err := net.SplitHostPort(s)
	if err != nil {
		if !strings.Contains(s, ":") {
			return net.JoinHostPort(s, defaultPort), nil
		}
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidServer, s, err)
	}
	if host == "" {
		return "", fmt.Errorf("%w: %q: missing host", ErrInvalidServer, s)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return "", fmt.Errorf("%w: %q: bad port", ErrInvalidServer, s)
	}
	return net.JoinHostPort(host, port), nil
}
