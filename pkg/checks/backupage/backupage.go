// Package backupage implements the backup age check.
//
// It queries the recovery history for completed backups, takes the
// most recent start time per backup category (full, incremental,
// delta), and evaluates each elapsed age in seconds against the
// configured thresholds. The overall status is the worst sub-status;
// the summary lists the categories in fixed order full, incremental,
// delta.
package backupage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kylerisse/db2check/pkg/db2"
	"github.com/kylerisse/db2check/pkg/plugin"
	"github.com/kylerisse/db2check/pkg/threshold"
)

// TypeName is the registered name for this check type.
const TypeName = "db2_backup_age"

// historyQuery lists completed backup operations with their type code
// and start timestamp (char(14), YYYYMMDDHHMMSS).
const historyQuery = "SELECT OPERATIONTYPE, START_TIME FROM SYSIBMADM.DB_HISTORY WHERE OPERATION = 'B'"

const startTimeLayout = "20060102150405"

// Check implements plugin.Check for backup age.
type Check struct {
	runner db2.Runner
	now    func() time.Time
}

// Option is a functional option for configuring a backupage Check.
type Option func(*Check)

// WithRunner replaces the command runner (used in tests).
func WithRunner(r db2.Runner) Option {
	return func(c *Check) {
		c.runner = r
	}
}

// WithClock replaces the time source (used in tests).
func WithClock(now func() time.Time) Option {
	return func(c *Check) {
		c.now = now
	}
}

// New creates a backupage Check.
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

// Gather connects, queries the recovery history and disconnects.
func (c *Check) Gather(ctx context.Context, cfg *plugin.Config) (plugin.Raw, error) {
	inst, err := db2.ResolveInstance(cfg.Instance)
	if err != nil {
		return nil, err
	}

	sess := db2.NewSession(inst, cfg.Database, db2.WithRunner(c.runner))
	if _, err := sess.Connect(ctx); err != nil {
		return nil, err
	}
	defer sess.Disconnect(ctx)

	out, err := sess.Query(ctx, historyQuery)
	if err != nil {
		return nil, err
	}
	return plugin.Raw{"history": out}, nil
}

// categories maps the history operation type codes onto the three
// backup categories. Offline and online variants share a category.
var categories = map[string]string{
	"F": "full", "N": "full",
	"I": "incremental", "O": "incremental",
	"D": "delta", "E": "delta",
}

// Extract selects the most recent start time per category and derives
// the elapsed ages in seconds. A database with no full backup at all
// is a data shape failure; missing incremental or delta history is
// normal (not every site schedules them) and simply leaves that age
// out.
func (c *Check) Extract(raw plugin.Raw) (plugin.Metrics, error) {
	latest := make(map[string]time.Time)

	for _, line := range strings.Split(raw["history"], "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		category, ok := categories[fields[0]]
		if !ok {
			continue
		}
		start, err := time.ParseInLocation(startTimeLayout, fields[1], time.Local)
		if err != nil {
			return plugin.Metrics{}, &plugin.DataShapeError{
				Field:  "START_TIME",
				Reason: fmt.Sprintf("unparseable timestamp %q", fields[1]),
			}
		}
		if start.After(latest[category]) {
			latest[category] = start
		}
	}

	if latest["full"].IsZero() {
		return plugin.Metrics{}, &plugin.DataShapeError{
			Field:  "full backup",
			Reason: "no completed full backup found in history",
		}
	}

	m := plugin.NewMetrics()
	now := c.now()
	for category, start := range latest {
		m.Values[category+"_age"] = int64(now.Sub(start).Seconds())
	}
	return m, nil
}

// Evaluate checks each backup age independently (>= seconds) and
// combines the sub-statuses via severity max.
func (c *Check) Evaluate(cfg *plugin.Config, m plugin.Metrics) plugin.Verdict {
	bounds := threshold.Bounds{
		Warning:  cfg.Warning,
		Critical: cfg.Critical,
		Cmp:      threshold.GreaterEqual,
	}

	status := plugin.OK
	var clauses []string
	var perf []plugin.Perf

	for _, category := range []string{"full", "incremental", "delta"} {
		age, ok := m.Values[category+"_age"]
		if !ok {
			clauses = append(clauses, category+" none")
			continue
		}
		status = plugin.Worst(status, threshold.Evaluate(age, bounds, cfg.Ignore))
		clauses = append(clauses, fmt.Sprintf("%s %s old", category, formatAge(age)))
		perf = append(perf, plugin.Perf{
			Label: category + "_age", Value: age, Unit: "s",
			Warn: bounds.WarningPtr(), Crit: bounds.CriticalPtr(),
			Min: plugin.Int64(0),
		})
	}

	note := ""
	if cfg.Ignore {
		note = " (thresholds ignored)"
	}

	v := plugin.Statusf(status, "last backups: %s%s", strings.Join(clauses, ", "), note)
	v.Perf = perf
	return v
}

// formatAge renders an age in seconds as a short human-readable span.
func formatAge(seconds int64) string {
	days := seconds / 86400
	hours := seconds % 86400 / 3600
	minutes := seconds % 3600 / 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd%dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh%dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
