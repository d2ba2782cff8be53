package channel

import (
	"time"

	"datasync/core/match"
)

// Config holds the run settings shared by configured channels.
type Config struct {
	// Completion is the partial match completion mode: none, each or batch.
	Completion string `mapstructure:"completion" default:"batch"`
	// ContinueOnDispatchError counts faulting actions as failed instead of aborting the run.
	ContinueOnDispatchError bool `mapstructure:"continue_on_dispatch_error" default:"false"`
	// IntervalSeconds triggers a run periodically while the server runs. Zero disables it.
	IntervalSeconds int `mapstructure:"interval_seconds" default:"0"`
}

// Interval returns the periodic run interval, zero when disabled.
func (c Config) Interval() time.Duration {
	if c.IntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Options translates the settings into channel options. target is the side
// batch completion fills in.
func (c Config) Options(target match.Side) []Option {
	opts := []Option{WithCompletion(ParseCompletion(c.Completion), target)}
	if c.ContinueOnDispatchError {
		opts = append(opts, WithContinueOnDispatchError())
	}
	return opts
}
