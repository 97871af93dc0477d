// Package memory implements the system memory usage check.
//
// It reads the kernel memory report, extracts total and free
// kilobytes, and evaluates the resulting usage percentage against the
// configured thresholds. All arithmetic is integer and truncating; the
// reported percentage must match the historical plugin output
// bit-for-bit.
package memory

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kylerisse/db2check/pkg/plugin"
	"github.com/kylerisse/db2check/pkg/threshold"
)

const (
	// TypeName is the registered name for this check type.
	TypeName = "db2_memory"

	// DefaultReportPath is the kernel memory report.
	DefaultReportPath = "/proc/meminfo"
)

// Check implements plugin.Check for system memory usage.
type Check struct {
	reportPath string
}

// Option is a functional option for configuring a memory Check.
type Option func(*Check)

// WithReportPath overrides the memory report location (used in tests).
func WithReportPath(path string) Option {
	return func(c *Check) {
		c.reportPath = path
	}
}

// New creates a memory Check.
func New(opts ...Option) *Check {
	c := &Check{
		reportPath: DefaultReportPath,
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

// Requires declares the target identifiers this check needs. Memory is
// a host-level probe; it runs without a database or instance.
func (c *Check) Requires() plugin.Requirements {
	return plugin.Requirements{}
}

// RegisterFlags adds the memory-specific flags.
func (c *Check) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.reportPath, "report", c.reportPath, "memory report file")
}

// Gather reads the memory report.
func (c *Check) Gather(_ context.Context, _ *plugin.Config) (plugin.Raw, error) {
	data, err := os.ReadFile(c.reportPath)
	if err != nil {
		return nil, &plugin.EnvironmentError{Path: c.reportPath, Reason: err.Error()}
	}
	return plugin.Raw{"meminfo": string(data)}, nil
}

// Extract parses total and free kilobytes from the report and derives
// usage and usage percentage.
func (c *Check) Extract(raw plugin.Raw) (plugin.Metrics, error) {
	return parseReport(raw["meminfo"])
}

func parseReport(report string) (plugin.Metrics, error) {
	total, err := reportValue(report, "MemTotal")
	if err != nil {
		return plugin.Metrics{}, err
	}
	free, err := reportValue(report, "MemFree")
	if err != nil {
		return plugin.Metrics{}, err
	}
	if total <= 0 {
		return plugin.Metrics{}, &plugin.DataShapeError{Field: "MemTotal", Reason: "total memory is zero"}
	}

	used := total - free

	m := plugin.NewMetrics()
	m.Values["total_kb"] = total
	m.Values["free_kb"] = free
	m.Values["used_kb"] = used
	m.Values["used_pct"] = used * 100 / total
	return m, nil
}

// reportValue finds a labeled kilobyte row, e.g. "MemTotal: 2048000 kB".
func reportValue(report, label string) (int64, error) {
	for _, line := range strings.Split(report, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, label+":") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, &plugin.DataShapeError{Field: label, Reason: "no value column"}
		}
		v, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0, &plugin.DataShapeError{Field: label, Reason: fmt.Sprintf("not a number: %q", fields[1])}
		}
		return v, nil
	}
	return 0, &plugin.DataShapeError{Field: label, Reason: "not found in memory report"}
}

// Evaluate classifies the usage percentage. Thresholds are on the
// 0-100 scale and breach at >=.
func (c *Check) Evaluate(cfg *plugin.Config, m plugin.Metrics) plugin.Verdict {
	bounds := threshold.Bounds{
		Warning:  cfg.Warning,
		Critical: cfg.Critical,
		Cmp:      threshold.GreaterEqual,
	}
	pct := m.Values["used_pct"]
	status := threshold.Evaluate(pct, bounds, cfg.Ignore)

	note := ""
	if cfg.Ignore {
		note = " (thresholds ignored)"
	}

	v := plugin.Statusf(status, "memory used %d%% (%d of %d kB)%s",
		pct, m.Values["used_kb"], m.Values["total_kb"], note)
	v.Perf = []plugin.Perf{
		{
			Label: "usage", Value: pct, Unit: "%",
			Warn: bounds.WarningPtr(), Crit: bounds.CriticalPtr(),
			Min: plugin.Int64(0), Max: plugin.Int64(100),
		},
		{
			Label: "used", Value: m.Values["used_kb"], Unit: "KB",
			Min: plugin.Int64(0), Max: plugin.Int64(m.Values["total_kb"]),
		},
	}
	v.Long = fmt.Sprintf("%d kB free of %d kB total", m.Values["free_kb"], m.Values["total_kb"])
	return v
}
