// Package hadr implements the HADR replication status check.
//
// It dumps the replication pair state with db2pd and classifies the
// database role and peer state. The gap between the primary and
// standby log positions comes from the two log lines of the dump:
// the log position field is hexadecimal and subtracted as such, the
// page and log file number fields are decimal.
package hadr

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
const TypeName = "db2_hadr"

// Check implements plugin.Check for HADR status.
type Check struct {
	runner db2.Runner
}

// Option is a functional option for configuring a hadr Check.
type Option func(*Check)

// WithRunner replaces the command runner (used in tests).
func WithRunner(r db2.Runner) Option {
	return func(c *Check) {
		c.runner = r
	}
}

// New creates a hadr Check.
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

// Gather dumps the replication status. No connect is needed; db2pd
// attaches to the database memory sets directly.
func (c *Check) Gather(ctx context.Context, cfg *plugin.Config) (plugin.Raw, error) {
	inst, err := db2.ResolveInstance(cfg.Instance)
	if err != nil {
		return nil, err
	}

	sess := db2.NewSession(inst, cfg.Database, db2.WithRunner(c.runner))
	out, err := sess.HADR(ctx)
	if err != nil {
		return nil, err
	}
	return plugin.Raw{"hadr": out}, nil
}

// Extract parses the role, peer state and log position gaps.
func (c *Check) Extract(raw plugin.Raw) (plugin.Metrics, error) {
	return parseStatus(raw["hadr"])
}

func parseStatus(out string) (plugin.Metrics, error) {
	m := plugin.NewMetrics()

	role, err := fieldValue(out, "HADR_ROLE")
	if err != nil {
		return plugin.Metrics{}, err
	}
	m.Labels["role"] = role

	// A STANDARD database carries no state or log lines; the role
	// alone decides the verdict.
	if strings.EqualFold(role, "STANDARD") {
		return m, nil
	}

	state, err := fieldValue(out, "HADR_STATE")
	if err != nil {
		return plugin.Metrics{}, err
	}
	m.Labels["state"] = state

	pFile, pPage, pPos, err := logTriple(out, "PRIMARY_LOG_FILE,PAGE,POS")
	if err != nil {
		return plugin.Metrics{}, err
	}
	sFile, sPage, sPos, err := logTriple(out, "STANDBY_LOG_FILE,PAGE,POS")
	if err != nil {
		return plugin.Metrics{}, err
	}

	m.Values["log_gap"] = pPos - sPos
	m.Values["page_gap"] = pPage - sPage
	m.Values["file_gap"] = pFile - sFile
	return m, nil
}

// fieldValue finds a "LABEL = value" line in the dump.
func fieldValue(out, label string) (string, error) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, label) {
			continue
		}
		_, v, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		return strings.TrimSpace(v), nil
	}
	return "", &plugin.DataShapeError{Field: label, Reason: "not found in HADR dump"}
}

// logTriple parses a "file, page, pos" value, e.g.
// "S0000012.LOG, 345, 0x0000000012E90471". The log file number is the
// numeric part of the file name, the page is decimal, the position is
// hexadecimal.
func logTriple(out, label string) (file, page, pos int64, err error) {
	v, err := fieldValue(out, label)
	if err != nil {
		return 0, 0, 0, err
	}

	parts := strings.Split(v, ",")
	if len(parts) != 3 {
		return 0, 0, 0, &plugin.DataShapeError{Field: label, Reason: fmt.Sprintf("expected 3 columns, got %d", len(parts))}
	}

	name := strings.TrimSpace(parts[0])
	numPart := strings.TrimSuffix(strings.TrimPrefix(name, "S"), ".LOG")
	file, err = strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, 0, 0, &plugin.DataShapeError{Field: label, Reason: fmt.Sprintf("unparseable log file name %q", name)}
	}

	page, err = strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, 0, &plugin.DataShapeError{Field: label, Reason: fmt.Sprintf("unparseable page %q", parts[1])}
	}

	hexPos := strings.TrimPrefix(strings.TrimSpace(parts[2]), "0x")
	u, err := strconv.ParseUint(hexPos, 16, 64)
	if err != nil {
		return 0, 0, 0, &plugin.DataShapeError{Field: label, Reason: fmt.Sprintf("unparseable log position %q", parts[2])}
	}
	return file, page, int64(u), nil
}

// Evaluate classifies role and peer state, then folds in the log gap
// thresholds when set. A STANDARD role means HADR is not configured
// at all, which is always UNKNOWN regardless of any other option.
func (c *Check) Evaluate(cfg *plugin.Config, m plugin.Metrics) plugin.Verdict {
	role := m.Labels["role"]
	if strings.EqualFold(role, "STANDARD") {
		return plugin.Unknownf("HADR not configured on %s (role STANDARD)", cfg.Database)
	}

	state := m.Labels["state"]
	status := plugin.OK
	note := ""

	gapBounds := threshold.Bounds{
		Warning:  cfg.Warning,
		Critical: cfg.Critical,
		Cmp:      threshold.GreaterEqual,
	}
	gap := m.Values["log_gap"]

	if cfg.Ignore {
		note = " (thresholds ignored)"
	} else {
		switch strings.ToUpper(state) {
		case "PEER":
			status = plugin.OK
		case "DISCONNECTEDPEER", "DISCONNECTED_PEER":
			status = plugin.Warning
		case "DISCONNECTED":
			status = plugin.Critical
		default:
			// Catchup and other transient states are worth an eye.
			status = plugin.Warning
		}
		status = plugin.Worst(status, threshold.Evaluate(gap, gapBounds, false))
	}

	v := plugin.Statusf(status, "HADR role %s, state %s, log gap %d bytes%s", role, state, gap, note)
	v.Perf = []plugin.Perf{
		{
			Label: "log_gap", Value: gap, Unit: "B",
			Warn: gapBounds.WarningPtr(), Crit: gapBounds.CriticalPtr(),
		},
		{Label: "page_gap", Value: m.Values["page_gap"]},
		{Label: "file_gap", Value: m.Values["file_gap"]},
	}
	v.Long = fmt.Sprintf("log file gap %d, page gap %d", m.Values["file_gap"], m.Values["page_gap"])
	return v
}
