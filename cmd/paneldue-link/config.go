package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/paneldue/paneldue-go/pkg/connection"
	"github.com/paneldue/paneldue-go/pkg/discovery"
	"github.com/paneldue/paneldue-go/pkg/poll"
	"github.com/paneldue/paneldue-go/pkg/transport"
	"github.com/paneldue/paneldue-go/pkg/wire"
)

// ErrNoEndpoint is returned when neither a port, an address nor discovery
// is configured.
var ErrNoEndpoint = errors.New("no controller endpoint: set -port, -address or -discover")

// Config holds the daemon configuration. Values from the -config file are
// overridden by flags given on the command line.
type Config struct {
	Port     string `yaml:"port"`
	Baud     int    `yaml:"baud"`
	Address  string `yaml:"address"`
	Discover bool   `yaml:"discover"`

	Discovery discovery.BrowserConfig `yaml:"discovery"`
	Redial    connection.RedialConfig `yaml:"redial"`

	PollInterval     time.Duration `yaml:"poll_interval"`
	SlowPollInterval time.Duration `yaml:"slow_poll_interval"`
	PollTimeout      time.Duration `yaml:"poll_timeout"`
	Fetch            []string      `yaml:"fetch"`

	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
	ProtocolLog string `yaml:"protocol_log"`
	TraceLog    bool   `yaml:"trace"`
	HTTP        string `yaml:"http"`
	Interactive bool   `yaml:"interactive"`
	StateDir    string `yaml:"state_dir"`
}

// DefaultConfig returns the built-in configuration. Redial.Initial stays
// zero so that the first redial waits one poll timeout.
func DefaultConfig() Config {
	p := poll.DefaultConfig()
	return Config{
		Baud:             transport.DefaultBaudRate,
		Discovery:        discovery.DefaultBrowserConfig(),
		Redial:           connection.RedialConfig{Max: connection.DefaultRedialMax, Jitter: connection.DefaultRedialJitter},
		PollInterval:     p.PollInterval,
		SlowPollInterval: p.SlowPollInterval,
		PollTimeout:      p.PollTimeout,
		LogLevel:         "info",
	}
}

// loadConfig parses args. A -config file is read first so that explicit
// flags win over file values.
func loadConfig(args []string) (Config, error) {
	var path string
	probe := DefaultConfig()
	fs := newFlagSet(&probe, &path, os.Stderr)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	if path != "" {
		if err := readConfigFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	fs = newFlagSet(&cfg, &path, io.Discard)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return cfg, nil
}

func newFlagSet(cfg *Config, configPath *string, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("paneldue-link", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(configPath, "config", *configPath, "Configuration file path (YAML)")
	fs.StringVar(&cfg.Port, "port", cfg.Port, "Serial device, e.g. /dev/ttyACM0")
	fs.IntVar(&cfg.Baud, "baud", cfg.Baud, "Serial baud rate")
	fs.StringVar(&cfg.Address, "address", cfg.Address, "Controller host[:port] for a TCP link")
	fs.BoolVar(&cfg.Discover, "discover", cfg.Discover, "Find the controller with mDNS")
	fs.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "Poll interval")
	fs.DurationVar(&cfg.SlowPollInterval, "slow-poll", cfg.SlowPollInterval, "Poll interval while idle")
	fs.DurationVar(&cfg.PollTimeout, "poll-timeout", cfg.PollTimeout, "Time to wait for a response before resending")
	fs.Func("fetch", "Comma-separated subsystems to fetch (default: all supported)", func(s string) error {
		cfg.Fetch = strings.Split(s, ",")
		return nil
	})
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write the operational log to a rotated file")
	fs.StringVar(&cfg.ProtocolLog, "protocol-log", cfg.ProtocolLog, "File path for protocol event logging (CBOR format)")
	fs.BoolVar(&cfg.TraceLog, "trace", cfg.TraceLog, "Also write protocol events to the operational log")
	fs.StringVar(&cfg.HTTP, "http", cfg.HTTP, "Listen address for the status API, e.g. :8080")
	fs.BoolVar(&cfg.Interactive, "interactive", cfg.Interactive, "Enable interactive command mode")
	fs.StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "Directory for persistent state (last known controller)")
	return fs
}

func readConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// PollConfig returns the scheduler configuration.
func (c *Config) PollConfig() (poll.Config, error) {
	p := poll.DefaultConfig()
	if c.PollInterval > 0 {
		p.PollInterval = c.PollInterval
	}
	if c.SlowPollInterval > 0 {
		p.SlowPollInterval = c.SlowPollInterval
	}
	if c.PollTimeout > 0 {
		p.PollTimeout = c.PollTimeout
	}
	if len(c.Fetch) > 0 {
		set, err := wire.ParseSubsystemSet(c.Fetch)
		if err != nil {
			return poll.Config{}, err
		}
		p.Fetch = set
	}
	return p, nil
}

// Level returns the slog level for LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// StaticDialer returns the dialer for a configured port or address. It
// returns ErrNoEndpoint when the endpoint must be discovered.
func (c *Config) StaticDialer() (transport.Dialer, error) {
	switch {
	case c.Port != "":
		sc := transport.DefaultSerialConfig(c.Port)
		if c.Baud > 0 {
			sc.BaudRate = c.Baud
		}
		return transport.SerialDialer{Config: sc}, nil
	case c.Address != "":
		return transport.TCPDialer{Address: c.Address}, nil
	default:
		return nil, ErrNoEndpoint
	}
}
