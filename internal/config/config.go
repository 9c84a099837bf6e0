// Package config assembles namepick settings from defaults, an optional config file,
// NAMEPICK_* environment variables (a .env file is honoured) and command line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "NAMEPICK"

// Config is the resolved program configuration.
type Config struct {
	Header        bool          `mapstructure:"header"`
	MaxInputBytes int           `mapstructure:"max_input_bytes"`
	Log           LogConfig     `mapstructure:"log"`
	Cheat         CheatConfig   `mapstructure:"cheat"`
	Metrics       MetricsConfig `mapstructure:"metrics"`
	Trace         TraceConfig   `mapstructure:"trace"`
}

// LogConfig mirrors logger.Config.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Encoding    string `mapstructure:"encoding"`
	Development bool   `mapstructure:"development"`
}

// CheatConfig locates the pointing device and the display it moves on.
type CheatConfig struct {
	Device  string        `mapstructure:"device"`
	Display DisplayConfig `mapstructure:"display"`
}

// DisplayConfig is the display size in pixels.
type DisplayConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// MetricsConfig names the Prometheus textfile to write after each run. Empty disables it.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// TraceConfig toggles span export.
type TraceConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"header":    "header",
	"max-input": "max_input_bytes",
	"log-level": "log.level",
	"device":    "cheat.device",
	"trace":     "trace.enabled",
	"metrics":   "metrics.textfile",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("header", false)
	v.SetDefault("max_input_bytes", 0)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", false)
	v.SetDefault("cheat.device", "/dev/input/mice")
	v.SetDefault("cheat.display.width", 1920)
	v.SetDefault("cheat.display.height", 1080)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("trace.enabled", false)
}

// Load resolves the configuration. path may be empty; flags may be nil. Only flags
// the user actually set override lower layers.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	// Ignore error if .env doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxInputBytes < 0 {
		errs = append(errs, fmt.Errorf("max_input_bytes must not be negative, got %d", c.MaxInputBytes))
	}
	if c.Cheat.Display.Width <= 0 || c.Cheat.Display.Height <= 0 {
		errs = append(errs, fmt.Errorf("cheat.display must be positive, got %dx%d",
			c.Cheat.Display.Width, c.Cheat.Display.Height))
	}
	return errors.Join(errs...)
}
