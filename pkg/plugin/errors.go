package plugin

import (
	"errors"
	"fmt"
)

// The error taxonomy below covers every way a check can fail before a
// threshold is ever evaluated. All of them terminate the invocation
// with an UNKNOWN verdict; none are retried.

// ConfigError reports bad or missing command-line configuration.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// EnvironmentError reports that the target instance environment could
// not be found or loaded.
type EnvironmentError struct {
	Path   string
	Reason string
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("instance environment %q: %s", e.Path, e.Reason)
}

// ConnectivityError reports that the target database could not be
// reached or authenticated to.
type ConnectivityError struct {
	Target string
	Reason string
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("cannot connect to %q: %s", e.Target, e.Reason)
}

// PermissionError reports that the target denied the administrative
// query. The raw diagnostic is preserved for the long description but
// deliberately kept out of the summary line.
type PermissionError struct {
	Op   string
	Diag string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied for %s", e.Op)
}

// DataShapeError reports that an expected field was absent or malformed
// in the administrative tool output. Field names which field, so the
// operator can tell a tool format change from a connectivity problem.
type DataShapeError struct {
	Field  string
	Reason string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

// StandbyError reports that the target is a replication standby and the
// requested operation is only meaningful on a primary.
type StandbyError struct {
	Role string
}

func (e *StandbyError) Error() string {
	return fmt.Sprintf("target is in replication role %s", e.Role)
}

// VerdictFromError maps a taxonomy error (or any other error) to the
// terminal UNKNOWN verdict for the invocation.
func VerdictFromError(err error) Verdict {
	var permErr *PermissionError
	if errors.As(err, &permErr) {
		v := Unknownf("%s", permErr.Error())
		v.Long = permErr.Diag
		return v
	}
	return Unknownf("%s", err.Error())
}
