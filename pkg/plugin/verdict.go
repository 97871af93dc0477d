package plugin

import "fmt"

// Verdict is the immutable outcome of one check invocation: a status,
// a one-line summary, an optional long description, and the performance
// data for both lines. Exactly one Verdict is produced per invocation.
type Verdict struct {
	Status   Status
	Summary  string
	Long     string
	Perf     []Perf
	LongPerf []Perf
}

// Statusf builds a Verdict with a formatted summary. The summary is
// prefixed with the status word, e.g. "WARNING - memory used 92%".
func Statusf(status Status, format string, args ...any) Verdict {
	return Verdict{
		Status:  status,
		Summary: fmt.Sprintf("%s - %s", status, fmt.Sprintf(format, args...)),
	}
}

// Unknownf builds an UNKNOWN Verdict with a formatted summary.
func Unknownf(format string, args ...any) Verdict {
	return Statusf(Unknown, format, args...)
}
