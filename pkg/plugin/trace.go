package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTraceDir is where per-check trace logs are appended.
const DefaultTraceDir = "/var/log/db2check"

// TracePath returns the fixed trace log path for a check type.
func TracePath(dir, checkType string) string {
	if dir == "" {
		dir = DefaultTraceDir
	}
	return filepath.Join(dir, checkType+".trc")
}

// WriteTrace appends one delimited block for this invocation. The
// block is assembled in memory and written with a single O_APPEND
// write, so concurrent invocations sharing the log cannot interleave
// inside each other's records. The layout is for human diagnosis only;
// only the append-only, non-corrupting nature is a contract.
func WriteTrace(path, checkType string, args []string, v Verdict) error {
	var b strings.Builder
	fmt.Fprintf(&b, "---- %s trace start ----\n", checkType)
	fmt.Fprintf(&b, "time: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "pid: %d\n", os.Getpid())
	fmt.Fprintf(&b, "args: %s\n", strings.Join(args, " "))
	fmt.Fprintf(&b, "status: %s\n", v.Status)
	fmt.Fprintf(&b, "summary: %s\n", v.Summary)
	if v.Long != "" {
		fmt.Fprintf(&b, "long: %s\n", strings.ReplaceAll(v.Long, "\n", "\n      "))
	}
	fmt.Fprintf(&b, "---- %s trace end ----\n", checkType)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("could not open trace log %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("could not append to trace log %s: %w", path, err)
	}
	return nil
}
