package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// envPrefix prefixes all recognized environment variables.
const envPrefix = "PROCTERM_"

// Load builds the configuration: defaults, overlaid by the YAML file at
// path (skipped when path is empty or missing), overlaid by environment
// variables. The returned warnings describe ignored values; the error is
// only non-nil for an unreadable or unparsable file, and the returned
// Config is still usable in that case.
func Load(path string) (Config, []string, error) {
	cfg := Default()
	var loadErr error

	if path != "" {
		if err := loadFile(&cfg, path); err != nil && !os.IsNotExist(err) {
			loadErr = fmt.Errorf("config file %s: %w", path, err)
		}
	}

	loadEnv(&cfg)
	warnings := cfg.normalize()

	return cfg, warnings, loadErr
}

// fileConfig mirrors Config for YAML decoding. Durations are strings in
// Go duration syntax ("50ms", "2s"); yaml.v3 has no native duration type.
type fileConfig struct {
	TickInterval    string `yaml:"tickInterval"`
	MainPaneRatio   *int   `yaml:"mainPaneRatio"`
	QueueSize       *int   `yaml:"queueSize"`
	ShutdownTimeout string `yaml:"shutdownTimeout"`
	LogLevel        string `yaml:"logLevel"`
}

// loadFile overlays values from a YAML file onto cfg. Absent fields leave
// cfg untouched; unparsable durations zero the field so normalize flags it.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.TickInterval != "" {
		if d, err := time.ParseDuration(fc.TickInterval); err == nil {
			cfg.TickInterval = d
		} else {
			cfg.TickInterval = 0
		}
	}
	if fc.MainPaneRatio != nil {
		cfg.MainPaneRatio = *fc.MainPaneRatio
	}
	if fc.QueueSize != nil {
		cfg.QueueSize = *fc.QueueSize
	}
	if fc.ShutdownTimeout != "" {
		if d, err := time.ParseDuration(fc.ShutdownTimeout); err == nil {
			cfg.ShutdownTimeout = d
		} else {
			cfg.ShutdownTimeout = 0
		}
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}

	return nil
}

// loadEnv overlays values from PROCTERM_* environment variables onto cfg.
// Unparsable values are left to normalize to catch via zeroing.
func loadEnv(cfg *Config) {
	if v, ok := os.LookupEnv(envPrefix + "TICK_INTERVAL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TickInterval = d
		} else {
			cfg.TickInterval = 0
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "MAIN_PANE_RATIO"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MainPaneRatio = n
		} else {
			cfg.MainPaneRatio = 0
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "QUEUE_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.QueueSize = n
		} else {
			cfg.QueueSize = 0
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "SHUTDOWN_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ShutdownTimeout = d
		} else {
			cfg.ShutdownTimeout = 0
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
}
