package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"wildfire-ca/internal/sims/forestfire"
)

// ErrBadOverride is returned for -set values not of the form key=value.
var ErrBadOverride = errors.New("override must be key=value")

// KVList collects repeatable key=value flags.
type KVList []string

func (l *KVList) String() string {
	return strings.Join(*l, ",")
}

// Set appends one flag value.
func (l *KVList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// Config represents the command-line parameters shared by the drivers.
type Config struct {
	Scale    int
	TPS      int
	HUDWidth int

	// ConfigPath names an optional YAML file layered over the defaults.
	ConfigPath string
	// Overrides are applied after the file, in order.
	Overrides KVList
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Scale: 3, TPS: 15, HUDWidth: 260}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation steps per second")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "parameter panel width in pixels (0 hides it)")
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML file with simulation parameters")
	fs.Var(&c.Overrides, "set", "parameter override in key=value form (repeatable)")
}

// SimConfig loads the simulation configuration: defaults, then the config
// file, then each override.
func (c *Config) SimConfig() (forestfire.Config, error) {
	cfg, err := forestfire.LoadConfig(c.ConfigPath)
	if err != nil {
		return cfg, err
	}
	if err := ApplyOverrides(&cfg, c.Overrides); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyOverrides sets each key=value pair on cfg, stopping at the first
// malformed pair or rejected value.
func ApplyOverrides(cfg *forestfire.Config, overrides []string) error {
	for _, kv := range overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: %q", ErrBadOverride, kv)
		}
		if err := cfg.Set(strings.TrimSpace(key), value); err != nil {
			return fmt.Errorf("override %q: %w", kv, err)
		}
	}
	return nil
}
