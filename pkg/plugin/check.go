// Package plugin implements the shared check engine for the db2check
// plugin suite.
//
// A Check is the per-type strategy: it gathers raw text from the
// monitored system's administration tools, extracts typed metrics from
// it, and evaluates them against the configured thresholds. The Engine
// owns the rest of the lifecycle — flag parsing, validation, trace
// logging, output formatting, and the exit code — so each check type
// only contains its own field layout and threshold semantics.
//
// Results are rendered in either the standard two-line plugin encoding
// or the single-line Check_MK encoding; both layouts and the exit code
// taxonomy 0..3 are compatibility contracts with the consuming
// monitoring systems.
package plugin

import (
	"context"
)

// Raw holds named blocks of administrative tool output gathered for
// one invocation, e.g. {"connect": ..., "dbsize": ...}.
type Raw map[string]string

// Metrics is the set of values extracted from one Raw sample. Values
// holds numeric fields, Labels categorical ones (roles, states).
// Metrics live only between extraction and evaluation; they are never
// persisted.
type Metrics struct {
	Values map[string]int64
	Labels map[string]string
}

// NewMetrics returns an empty Metrics set.
func NewMetrics() Metrics {
	return Metrics{
		Values: make(map[string]int64),
		Labels: make(map[string]string),
	}
}

// Check is the interface all check types implement. The engine drives
// Gather, Extract and Evaluate exactly once, in that order, and maps
// any returned error to an UNKNOWN verdict.
type Check interface {
	// Type returns the check type name (e.g. "db2_memory"), used for
	// the trace log path and the Check_MK service name.
	Type() string

	// Requires declares which target identifiers must be configured
	// before any external command is run.
	Requires() Requirements

	// Gather queries the monitored system and returns the raw text
	// blocks this check type parses.
	Gather(ctx context.Context, cfg *Config) (Raw, error)

	// Extract parses the raw blocks into typed metrics. A missing or
	// malformed field fails the whole check with a DataShapeError
	// naming the field; nothing is defaulted silently.
	Extract(raw Raw) (Metrics, error)

	// Evaluate classifies the metrics against the configured
	// thresholds and builds the Verdict.
	Evaluate(cfg *Config, m Metrics) Verdict
}
