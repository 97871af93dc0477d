// Package logusage implements the transaction log consumption check.
//
// It sums the sizes of the archive log files written during the
// current calendar day and evaluates the total, truncated to whole
// megabytes, against the configured thresholds. A standby database
// does not archive its own logs, so the check first reads the HADR
// role and skips the archive computation entirely on a standby.
package logusage

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/kylerisse/db2check/pkg/db2"
	"github.com/kylerisse/db2check/pkg/plugin"
	"github.com/kylerisse/db2check/pkg/threshold"
)

// TypeName is the registered name for this check type.
const TypeName = "db2_log_consumption"

const dayLayout = "2006-01-02"

// Check implements plugin.Check for transaction log consumption.
type Check struct {
	runner      db2.Runner
	archivePath string
	now         func() time.Time
}

// Option is a functional option for configuring a logusage Check.
type Option func(*Check)

// WithRunner replaces the command runner (used in tests).
func WithRunner(r db2.Runner) Option {
	return func(c *Check) {
		c.runner = r
	}
}

// WithArchivePath sets the archive log directory.
func WithArchivePath(path string) Option {
	return func(c *Check) {
		c.archivePath = path
	}
}

// WithClock replaces the time source (used in tests).
func WithClock(now func() time.Time) Option {
	return func(c *Check) {
		c.now = now
	}
}

// New creates a logusage Check.
func New(opts ...Option) *Check {
	c := &Check{
		runner: db2.ExecRunner{},
		now:    time.Now,
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

// RegisterFlags adds the logusage-specific flags.
func (c *Check) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.archivePath, "archive-path", c.archivePath, "transaction log archive directory")
}

// Gather reads the HADR role first. A standby archives nothing, so
// on a standby it returns only the role and never touches the archive
// directory; a standby host commonly has none. Otherwise it lists the
// archive directory as one "size<TAB>day<TAB>name" line per regular
// file, so the extractor stays a pure text parser testable against
// fixtures.
func (c *Check) Gather(ctx context.Context, cfg *plugin.Config) (plugin.Raw, error) {
	inst, err := db2.ResolveInstance(cfg.Instance)
	if err != nil {
		return nil, err
	}

	sess := db2.NewSession(inst, cfg.Database, db2.WithRunner(c.runner))
	hadrOut, err := sess.HADR(ctx)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(hadrRole(hadrOut), "STANDBY") {
		return plugin.Raw{"hadr": hadrOut}, nil
	}

	if c.archivePath == "" {
		defaults, err := plugin.LoadDefaults()
		if err == nil {
			c.archivePath = defaults.ArchivePath
		}
	}
	if c.archivePath == "" {
		return nil, &plugin.ConfigError{Reason: "archive directory is required (--archive-path)"}
	}

	listing, err := listArchive(c.archivePath)
	if err != nil {
		return nil, err
	}

	return plugin.Raw{"hadr": hadrOut, "archive": listing}, nil
}

// hadrRole returns the HADR_ROLE value from a db2pd dump. A database
// without HADR reports no role and counts as STANDARD.
func hadrRole(dump string) string {
	role := "STANDARD"
	for _, line := range strings.Split(dump, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "HADR_ROLE") {
			continue
		}
		if _, v, found := strings.Cut(line, "="); found {
			role = strings.TrimSpace(v)
		}
	}
	return role
}

func listArchive(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", &plugin.EnvironmentError{Path: dir, Reason: err.Error()}
	}

	var b strings.Builder
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "%d\t%s\t%s\n", info.Size(), info.ModTime().Format(dayLayout), entry.Name())
	}
	return b.String(), nil
}

// Extract reads the HADR role and sums today's archive file sizes.
func (c *Check) Extract(raw plugin.Raw) (plugin.Metrics, error) {
	m := plugin.NewMetrics()
	m.Labels["role"] = hadrRole(raw["hadr"])

	today := c.now().Format(dayLayout)
	var total, count int64
	for _, line := range strings.Split(raw["archive"], "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return plugin.Metrics{}, &plugin.DataShapeError{Field: "archive listing", Reason: fmt.Sprintf("malformed line %q", line)}
		}
		size, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return plugin.Metrics{}, &plugin.DataShapeError{Field: "archive listing", Reason: fmt.Sprintf("unparseable size %q", fields[0])}
		}
		if fields[1] != today {
			continue
		}
		total += size
		count++
	}

	m.Values["archived_bytes"] = total
	m.Values["archived_mb"] = total / (1024 * 1024)
	m.Values["archived_files"] = count
	return m, nil
}

// Evaluate skips archiving on a standby, otherwise classifies today's
// archived megabytes (>=).
func (c *Check) Evaluate(cfg *plugin.Config, m plugin.Metrics) plugin.Verdict {
	if strings.EqualFold(m.Labels["role"], "STANDBY") {
		return plugin.Statusf(plugin.OK, "standby role, log archiving not evaluated")
	}

	bounds := threshold.Bounds{
		Warning:  cfg.Warning,
		Critical: cfg.Critical,
		Cmp:      threshold.GreaterEqual,
	}
	mb := m.Values["archived_mb"]
	status := threshold.Evaluate(mb, bounds, cfg.Ignore)

	note := ""
	if cfg.Ignore {
		note = " (thresholds ignored)"
	}

	v := plugin.Statusf(status, "archived %d MB today (%d log files)%s", mb, m.Values["archived_files"], note)
	v.Perf = []plugin.Perf{
		{
			Label: "archived", Value: mb, Unit: "MB",
			Warn: bounds.WarningPtr(), Crit: bounds.CriticalPtr(),
			Min: plugin.Int64(0),
		},
		{Label: "log_files", Value: m.Values["archived_files"], Min: plugin.Int64(0)},
	}
	return v
}
