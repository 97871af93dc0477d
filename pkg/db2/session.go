package db2

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kylerisse/db2check/pkg/plugin"
)

// Session is one connect -> query -> disconnect administrative session
// against a single database. Checks perform at most one session per
// invocation; nothing is retried, because repeated administrative
// queries against a live database are expensive.
type Session struct {
	inst     *Instance
	database string
	runner   Runner
	log      *logrus.Logger
}

// SessionOption is a functional option for configuring a Session.
type SessionOption func(*Session)

// WithRunner replaces the command runner (used in tests).
func WithRunner(r Runner) SessionOption {
	return func(s *Session) {
		s.runner = r
	}
}

// WithLogger attaches a diagnostic logger.
func WithLogger(log *logrus.Logger) SessionOption {
	return func(s *Session) {
		s.log = log
	}
}

// NewSession creates a Session for the given instance and database.
func NewSession(inst *Instance, database string, opts ...SessionOption) *Session {
	s := &Session{
		inst:     inst,
		database: database,
		runner:   ExecRunner{},
		log:      logrus.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect attaches the session to its database and returns the raw
// connection report. Failure to reach or authenticate to the database
// is a ConnectivityError.
func (s *Session) Connect(ctx context.Context) (string, error) {
	out, err := s.runner.Run(ctx, s.inst.Env(), s.inst.DB2(), "connect", "to", s.database)
	s.log.Debugf("connect to %s:\n%s", s.database, out)

	if cerr := classify("connect to "+s.database, out); cerr != nil {
		return out, cerr
	}
	if err != nil {
		return out, &plugin.ConnectivityError{Target: s.database, Reason: firstLine(out, err.Error())}
	}
	if !strings.Contains(out, "Database Connection Information") {
		return out, &plugin.ConnectivityError{Target: s.database, Reason: firstLine(out, "no connection information returned")}
	}
	return out, nil
}

// Query runs one SQL statement through the command-line processor in
// unformatted (-x) mode and returns its raw output.
func (s *Session) Query(ctx context.Context, sql string) (string, error) {
	out, err := s.runner.Run(ctx, s.inst.Env(), s.inst.DB2(), "-x", sql)
	s.log.Debugf("query %q:\n%s", sql, out)

	if cerr := classify(sql, out); cerr != nil {
		return out, cerr
	}
	if err != nil {
		return out, fmt.Errorf("query %q failed: %s", sql, firstLine(out, err.Error()))
	}
	return out, nil
}

// Call invokes a stored procedure. Unlike Query, the output keeps the
// CLP's formatted parameter listing, which the callers parse by label.
func (s *Session) Call(ctx context.Context, stmt string) (string, error) {
	out, err := s.runner.Run(ctx, s.inst.Env(), s.inst.DB2(), stmt)
	s.log.Debugf("call %q:\n%s", stmt, out)

	if cerr := classify(stmt, out); cerr != nil {
		return out, cerr
	}
	if err != nil {
		return out, fmt.Errorf("call %q failed: %s", stmt, firstLine(out, err.Error()))
	}
	return out, nil
}

// HADR dumps the replication status through db2pd. It does not require
// a prior Connect.
func (s *Session) HADR(ctx context.Context) (string, error) {
	out, err := s.runner.Run(ctx, s.inst.Env(), s.inst.DB2pd(), "-db", s.database, "-hadr")
	s.log.Debugf("db2pd -hadr for %s:\n%s", s.database, out)

	if err != nil {
		return out, &plugin.ConnectivityError{Target: s.database, Reason: firstLine(out, err.Error())}
	}
	return out, nil
}

// Disconnect resets the connection. Best effort: a failed reset leaves
// nothing behind once the process exits.
func (s *Session) Disconnect(ctx context.Context) {
	out, err := s.runner.Run(ctx, s.inst.Env(), s.inst.DB2(), "connect", "reset")
	if err != nil {
		s.log.Debugf("connect reset failed: %v\n%s", err, out)
	}
}

// classify recognizes DB2 diagnostic codes in tool output and maps them
// to the plugin error taxonomy.
func classify(op, out string) error {
	switch {
	case strings.Contains(out, "SQL0551N"), strings.Contains(out, "SQL0552N"):
		return &plugin.PermissionError{Op: op, Diag: strings.TrimSpace(out)}
	case strings.Contains(out, "SQL30081N"),
		strings.Contains(out, "SQL30082N"),
		strings.Contains(out, "SQL1032N"),
		strings.Contains(out, "SQL1031N"),
		strings.Contains(out, "SQL1013N"):
		return &plugin.ConnectivityError{Target: op, Reason: firstLine(out, "database unavailable")}
	}
	return nil
}

// firstLine picks the first non-empty output line for a one-line
// diagnostic, or falls back to the given message.
func firstLine(out, fallback string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return fallback
}
