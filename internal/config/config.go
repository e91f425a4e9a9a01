package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen Listen `yaml:"listen"`
	Viewer Viewer `yaml:"viewer"`
	Status Status `yaml:"status"`
}

// Listen configures the stream ingest port.
type Listen struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Viewer configures the coordinator loop and the layout.
type Viewer struct {
	// Tick bounds how long the coordinator waits for a bus event
	// before running another UI poll. Matched to a 60 Hz refresh by
	// default.
	Tick time.Duration `yaml:"tick"`

	// Padding is the horizontal gap between neighboring windows.
	Padding int `yaml:"padding"`

	// EventBuffer is the bus capacity. Producers block when it fills.
	EventBuffer int `yaml:"event_buffer"`

	// HeadlessWidth/HeadlessHeight size the virtual screen when the
	// viewer runs without a render back end.
	HeadlessWidth  int `yaml:"headless_width"`
	HeadlessHeight int `yaml:"headless_height"`
}

// Status configures the optional HTTP status server.
type Status struct {
	Enabled           bool          `yaml:"enabled"`
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	SnapshotInterval  time.Duration `yaml:"snapshot_interval"`
	BroadcastThrottle time.Duration `yaml:"broadcast_throttle"`
}

func defaultConfig() *Config {
	return &Config{
		Listen: Listen{
			Host: "0.0.0.0",
			Port: 1218,
		},
		Viewer: Viewer{
			Tick:           time.Second / 60,
			Padding:        20,
			EventBuffer:    64,
			HeadlessWidth:  1920,
			HeadlessHeight: 1080,
		},
		Status: Status{
			Enabled:           false,
			Host:              "127.0.0.1",
			Port:              8021,
			SnapshotInterval:  5 * time.Second,
			BroadcastThrottle: 100 * time.Millisecond,
		},
	}
}

// Load reads the config file at path over the built-in defaults. A
// missing file is not an error: the defaults already describe a working
// viewer.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Listen.Port < 0 || c.Listen.Port > 65535 {
		return fmt.Errorf("listen port %d out of range", c.Listen.Port)
	}
	if c.Viewer.Tick <= 0 {
		return fmt.Errorf("viewer tick must be positive, got %s", c.Viewer.Tick)
	}
	if c.Viewer.Padding < 0 {
		return fmt.Errorf("viewer padding must not be negative, got %d", c.Viewer.Padding)
	}
	if c.Viewer.EventBuffer < 1 {
		return fmt.Errorf("viewer event_buffer must be at least 1, got %d", c.Viewer.EventBuffer)
	}
	return nil
}
