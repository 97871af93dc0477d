package plugin

// Status is the four-level plugin outcome. Its integer value doubles as
// the process exit code, following the Nagios plugin convention.
type Status int

const (
	// OK means everything observed is within thresholds.
	OK Status = 0

	// Warning means the warning threshold was breached.
	Warning Status = 1

	// Critical means the critical threshold was breached.
	Critical Status = 2

	// Unknown means the check itself could not produce a result:
	// bad arguments, unreachable target, unparseable tool output,
	// or an informational request (help/version).
	Unknown Status = 3
)

// String returns the conventional uppercase status word.
func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case Warning:
		return "WARNING"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ExitCode returns the process exit code for this status.
func (s Status) ExitCode() int {
	if s < OK || s > Unknown {
		return int(Unknown)
	}
	return int(s)
}

// Worst combines sub-verdict statuses into an overall status.
// The ordering OK < WARNING < CRITICAL < UNKNOWN makes the combination
// both associative and monotonic: the result is never less severe than
// any input.
func Worst(statuses ...Status) Status {
	worst := OK
	for _, s := range statuses {
		if s > worst {
			worst = s
		}
	}
	return worst
}
