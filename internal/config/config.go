// Package config holds procterm's runtime configuration. Values are
// layered in load order: built-in defaults, then an optional YAML file,
// then PROCTERM_* environment variables. Invalid values fall back to the
// default for that field; configuration problems are never fatal.
package config

import "time"

// Config is the terminal's runtime configuration.
type Config struct {
	// TickInterval is the redraw cadence of the render loop.
	TickInterval time.Duration

	// MainPaneRatio is the percent of the width given to the main pane
	// when session panes are shown. Valid range is 10..90.
	MainPaneRatio int

	// QueueSize is the capacity of the event queue feeding the render
	// loop.
	QueueSize int

	// ShutdownTimeout bounds how long teardown waits for capture
	// workers before detaching them.
	ShutdownTimeout time.Duration

	// LogLevel sets the minimum level of the terminal's logger
	// (debug, info, warn, error).
	LogLevel string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TickInterval:    50 * time.Millisecond,
		MainPaneRatio:   30,
		QueueSize:       256,
		ShutdownTimeout: 5 * time.Second,
		LogLevel:        "info",
	}
}

// normalize replaces out-of-range values with defaults and reports which
// fields were replaced.
func (c *Config) normalize() []string {
	def := Default()
	var fixed []string

	if c.TickInterval <= 0 {
		c.TickInterval = def.TickInterval
		fixed = append(fixed, "tickInterval")
	}
	if c.MainPaneRatio < 10 || c.MainPaneRatio > 90 {
		c.MainPaneRatio = def.MainPaneRatio
		fixed = append(fixed, "mainPaneRatio")
	}
	if c.QueueSize <= 0 {
		c.QueueSize = def.QueueSize
		fixed = append(fixed, "queueSize")
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = def.ShutdownTimeout
		fixed = append(fixed, "shutdownTimeout")
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
		fixed = append(fixed, "logLevel")
	}

	return fixed
}
