// Package dbsize implements the database size check.
//
// It calls the GET_DBSIZE_INFO stored procedure and compares the
// current database size against its allocated capacity. The procedure
// maintains a server-side result cache; the refresh option is passed
// through so the server can coalesce repeated expensive recomputation
// (-1 = server default window, 0 = force recomputation).
package dbsize

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kylerisse/db2check/pkg/db2"
	"github.com/kylerisse/db2check/pkg/plugin"
	"github.com/kylerisse/db2check/pkg/threshold"
)

// TypeName is the registered name for this check type.
const TypeName = "db2_database_size"

// Check implements plugin.Check for database size.
type Check struct {
	runner db2.Runner
}

// Option is a functional option for configuring a dbsize Check.
type Option func(*Check)

// WithRunner replaces the command runner (used in tests).
func WithRunner(r db2.Runner) Option {
	return func(c *Check) {
		c.runner = r
	}
}

// New creates a dbsize Check.
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

// Gather connects, calls GET_DBSIZE_INFO and disconnects.
func (c *Check) Gather(ctx context.Context, cfg *plugin.Config) (plugin.Raw, error) {
	inst, err := db2.ResolveInstance(cfg.Instance)
	if err != nil {
		return nil, err
	}

	sess := db2.NewSession(inst, cfg.Database, db2.WithRunner(c.runner))
	connOut, err := sess.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Disconnect(ctx)

	stmt := fmt.Sprintf("CALL SYSPROC.GET_DBSIZE_INFO(?, ?, ?, %d)", cfg.Refresh)
	out, err := sess.Call(ctx, stmt)
	if err != nil {
		return nil, err
	}

	return plugin.Raw{"connect": connOut, "dbsize": out}, nil
}

// Extract pulls the size and capacity rows out of the procedure
// output, plus the server identity from the connection report.
func (c *Check) Extract(raw plugin.Raw) (plugin.Metrics, error) {
	m, err := parseSizeInfo(raw["dbsize"])
	if err != nil {
		return plugin.Metrics{}, err
	}
	if server := reportField(raw["connect"], "Database server"); server != "" {
		m.Labels["server"] = server
	}
	return m, nil
}

// reportField finds a "Label = value" row in the connection report.
// The report is informational here, so a missing row is not an error.
func reportField(out, label string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, label) {
			continue
		}
		if _, v, found := strings.Cut(line, "="); found {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// parseSizeInfo reads the CLP's formatted parameter listing. The
// procedure returns three output parameters in fixed order (snapshot
// timestamp, database size, database capacity); the numeric rows sit
// at fixed offsets among the "Parameter Value" lines.
func parseSizeInfo(out string) (plugin.Metrics, error) {
	var values []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "Parameter Value") {
			continue
		}
		_, v, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		values = append(values, strings.TrimSpace(v))
	}

	if len(values) < 3 {
		return plugin.Metrics{}, &plugin.DataShapeError{
			Field:  "Parameter Value",
			Reason: fmt.Sprintf("expected 3 output parameter rows, got %d", len(values)),
		}
	}

	size, err := strconv.ParseInt(values[1], 10, 64)
	if err != nil {
		return plugin.Metrics{}, &plugin.DataShapeError{Field: "DATABASESIZE", Reason: fmt.Sprintf("not a number: %q", values[1])}
	}
	capacity, err := strconv.ParseInt(values[2], 10, 64)
	if err != nil {
		return plugin.Metrics{}, &plugin.DataShapeError{Field: "DATABASECAPACITY", Reason: fmt.Sprintf("not a number: %q", values[2])}
	}
	if capacity <= 0 {
		return plugin.Metrics{}, &plugin.DataShapeError{Field: "DATABASECAPACITY", Reason: "capacity is zero"}
	}

	m := plugin.NewMetrics()
	m.Values["size_bytes"] = size
	m.Values["capacity_bytes"] = capacity
	m.Values["used_pct"] = size * 100 / capacity
	m.Labels["snapshot"] = values[0]
	return m, nil
}

// Evaluate combines the absolute size thresholds (strict >) with the
// independent percentage trigger (>=, WARNING level). The overall
// status is the worst of the two, so a critical absolute breach wins
// over a simultaneous percentage breach.
func (c *Check) Evaluate(cfg *plugin.Config, m plugin.Metrics) plugin.Verdict {
	size := m.Values["size_bytes"]
	capacity := m.Values["capacity_bytes"]
	pct := m.Values["used_pct"]

	abs := threshold.Bounds{
		Warning:  cfg.Warning,
		Critical: cfg.Critical,
		Cmp:      threshold.Greater,
	}
	status := threshold.Evaluate(size, abs, cfg.Ignore)

	pctBounds := threshold.Bounds{Warning: cfg.Percentage, Critical: plugin.Unset, Cmp: threshold.GreaterEqual}
	if cfg.Percentage != plugin.Unset {
		status = plugin.Worst(status, threshold.Evaluate(pct, pctBounds, cfg.Ignore))
	}

	note := ""
	if cfg.Ignore {
		note = " (thresholds ignored)"
	}

	v := plugin.Statusf(status, "database %s size %d bytes of %d allocated (%d%% used)%s",
		cfg.Database, size, capacity, pct, note)
	v.Perf = []plugin.Perf{
		{
			Label: "size", Value: size, Unit: "B",
			Warn: abs.WarningPtr(), Crit: abs.CriticalPtr(),
			Min: plugin.Int64(0), Max: plugin.Int64(capacity),
		},
		{
			Label: "used", Value: pct, Unit: "%",
			Warn: pctBounds.WarningPtr(),
			Min:  plugin.Int64(0), Max: plugin.Int64(100),
		},
	}
	var long []string
	if snap := m.Labels["snapshot"]; snap != "" {
		long = append(long, "size snapshot taken "+snap)
	}
	if server := m.Labels["server"]; server != "" {
		long = append(long, "server "+server)
	}
	v.Long = strings.Join(long, ", ")
	return v
}
