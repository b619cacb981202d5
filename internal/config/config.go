// Package config handles configuration loading using viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/rizard/tapagg/internal/core"
	"github.com/rizard/tapagg/internal/log"
)

// Config is the top-level configuration for the tapagg tool.
type Config struct {
	Log     log.Config    `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Capture CaptureConfig `mapstructure:"capture"`
}

// MetricsConfig controls the Prometheus endpoint of the live command.
type MetricsConfig struct {
	// Listen is the address of the /metrics endpoint; empty disables it.
	Listen string `mapstructure:"listen"`
}

// CaptureConfig holds live-capture tuning knobs.
type CaptureConfig struct {
	SnapLen      int `mapstructure:"snap_len"`
	BufferSizeMB int `mapstructure:"buffer_size_mb"`
	TimeoutMs    int `mapstructure:"timeout_ms"`
}

// Load reads configuration from path, with environment variable
// overrides (TAPAGG_LOG_LEVEL etc.) and defaults. An empty path loads
// defaults only.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("tapagg")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := log.DefaultConfig()
	v.SetDefault("log.level", def.Level)
	v.SetDefault("log.pattern", def.Pattern)
	v.SetDefault("log.time", def.Time)

	v.SetDefault("capture.snap_len", 65535)
	v.SetDefault("capture.buffer_size_mb", 8)
	v.SetDefault("capture.timeout_ms", 100)
}

func (c *Config) validate() error {
	if c.Capture.SnapLen <= 0 {
		return fmt.Errorf("%w: capture.snap_len must be positive", core.ErrConfigInvalid)
	}
	if c.Capture.BufferSizeMB <= 0 {
		return fmt.Errorf("%w: capture.buffer_size_mb must be positive", core.ErrConfigInvalid)
	}
	if c.Capture.TimeoutMs <= 0 {
		return fmt.Errorf("%w: capture.timeout_ms must be positive", core.ErrConfigInvalid)
	}
	return nil
}
