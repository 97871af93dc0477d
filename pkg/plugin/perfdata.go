package plugin

import (
	"fmt"
	"strconv"
	"strings"
)

// Perf is a single performance data tuple, rendered as
// 'label'=value[unit];warn;crit;min;max with trailing empty fields
// omitted. This layout is a compatibility contract with the consuming
// monitoring system.
type Perf struct {
	Label string
	Value int64
	Unit  string
	Warn  *int64
	Crit  *int64
	Min   *int64
	Max   *int64
}

// Int64 returns a pointer to v, for the optional Perf fields.
func Int64(v int64) *int64 {
	return &v
}

// String renders the tuple in plugin performance data syntax.
func (p Perf) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "'%s'=%d%s", p.Label, p.Value, p.Unit)

	fields := []string{
		formatOpt(p.Warn),
		formatOpt(p.Crit),
		formatOpt(p.Min),
		formatOpt(p.Max),
	}

	// Drop trailing unset fields, keep interior ones as empty slots.
	last := -1
	for i, f := range fields {
		if f != "" {
			last = i
		}
	}
	for i := 0; i <= last; i++ {
		b.WriteByte(';')
		b.WriteString(fields[i])
	}
	return b.String()
}

func formatOpt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

// renderPerf joins perf tuples with the given separator. The standard
// encoding uses a space, Check_MK uses a pipe.
func renderPerf(perf []Perf, sep string) string {
	parts := make([]string, 0, len(perf))
	for _, p := range perf {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, sep)
}
