// Package connection implements the database connectivity check.
//
// It attaches one administrative session, parses the connection
// report, and evaluates the connect time in milliseconds against the
// configured thresholds.
package connection

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/kylerisse/db2check/pkg/db2"
	"github.com/kylerisse/db2check/pkg/plugin"
	"github.com/kylerisse/db2check/pkg/threshold"
)

// TypeName is the registered name for this check type.
const TypeName = "db2_connection"

// Check implements plugin.Check for connectivity.
type Check struct {
	runner db2.Runner
}

// Option is a functional option for configuring a connection Check.
type Option func(*Check)

// WithRunner replaces the command runner (used in tests).
func WithRunner(r db2.Runner) Option {
	return func(c *Check) {
		c.runner = r
	}
}

// New creates a connection Check.
func New(opts ...Option) *Check {
	c := &Check{
		runner: db2.ExecRunner{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Type returns the check type name.
func (c *Check) Type() string {
	return TypeName
}

// Requires declares the target identifiers this check needs.
func (c *Check) Requires() plugin.Requirements {
	return plugin.Requirements{Database: true, Instance: true}
}

// Gather connects, times the attach, and disconnects. The elapsed
// milliseconds travel as their own raw block so the extractor stays a
// pure parser.
func (c *Check) Gather(ctx context.Context, cfg *plugin.Config) (plugin.Raw, error) {
	inst, err := db2.ResolveInstance(cfg.Instance)
	if err != nil {
		return nil, err
	}

	sess := db2.NewSession(inst, cfg.Database, db2.WithRunner(c.runner))

	start := time.Now()
	out, err := sess.Connect(ctx)
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}
	sess.Disconnect(ctx)

	return plugin.Raw{
		"connect":    out,
		"elapsed_ms": strconv.FormatInt(elapsed.Milliseconds(), 10),
	}, nil
}

// Extract parses the connection report and the elapsed time.
func (c *Check) Extract(raw plugin.Raw) (plugin.Metrics, error) {
	m := plugin.NewMetrics()

	server, err := reportField(raw["connect"], "Database server")
	if err != nil {
		return plugin.Metrics{}, err
	}
	m.Labels["server"] = server

	if alias, err := reportField(raw["connect"], "Local database alias"); err == nil {
		m.Labels["alias"] = alias
	}
	if authID, err := reportField(raw["connect"], "SQL authorization ID"); err == nil {
		m.Labels["authid"] = authID
	}

	ms, err := strconv.ParseInt(raw["elapsed_ms"], 10, 64)
	if err != nil {
		return plugin.Metrics{}, &plugin.DataShapeError{Field: "elapsed_ms", Reason: "missing connect timing"}
	}
	m.Values["connect_ms"] = ms
	return m, nil
}

// reportField finds a "Label = value" row in the connection report.
func reportField(out, label string) (string, error) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, label) {
			continue
		}
		if _, v, found := strings.Cut(line, "="); found {
			return strings.TrimSpace(v), nil
		}
	}
	return "", &plugin.DataShapeError{Field: label, Reason: "not found in connection report"}
}

// Evaluate classifies the connect time (>= milliseconds).
func (c *Check) Evaluate(cfg *plugin.Config, m plugin.Metrics) plugin.Verdict {
	bounds := threshold.Bounds{
		Warning:  cfg.Warning,
		Critical: cfg.Critical,
		Cmp:      threshold.GreaterEqual,
	}
	ms := m.Values["connect_ms"]
	status := threshold.Evaluate(ms, bounds, cfg.Ignore)

	note := ""
	if cfg.Ignore {
		note = " (thresholds ignored)"
	}

	v := plugin.Statusf(status, "connected to %s in %d ms (%s)%s",
		cfg.Database, ms, m.Labels["server"], note)
	v.Perf = []plugin.Perf{
		{
			Label: "connect_time", Value: ms, Unit: "ms",
			Warn: bounds.WarningPtr(), Crit: bounds.CriticalPtr(),
			Min: plugin.Int64(0),
		},
	}
	if authID := m.Labels["authid"]; authID != "" {
		v.Long = "authorization ID " + authID
	}
	return v
}
