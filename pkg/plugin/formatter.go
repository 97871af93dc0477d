package plugin

import (
	"fmt"
	"strings"
)

// OutputMode selects the report encoding.
type OutputMode int

const (
	// ModeStandard is the two-line Nagios plugin encoding.
	ModeStandard OutputMode = iota

	// ModeCheckMK is the single-line Check_MK local check encoding.
	ModeCheckMK
)

// placeholderSummary is substituted when the engine short-circuited
// before a summary was produced. The formatter itself never fails.
const placeholderSummary = "UNKNOWN - no check output"

// Render formats the verdict in the given encoding. service is the
// composed Check_MK service name and is ignored in standard mode.
func (v Verdict) Render(mode OutputMode, service string) string {
	if mode == ModeCheckMK {
		return v.renderCheckMK(service)
	}
	return v.renderStandard()
}

func (v Verdict) renderStandard() string {
	summary := v.Summary
	if summary == "" {
		summary = placeholderSummary
	}

	var b strings.Builder
	b.WriteString(summary)
	if len(v.Perf) > 0 {
		b.WriteByte('|')
		b.WriteString(renderPerf(v.Perf, " "))
	}
	if v.Long != "" || len(v.LongPerf) > 0 {
		b.WriteByte('\n')
		b.WriteString(v.Long)
		if len(v.LongPerf) > 0 {
			b.WriteByte('|')
			b.WriteString(renderPerf(v.LongPerf, " "))
		}
	}
	return b.String()
}

func (v Verdict) renderCheckMK(service string) string {
	summary := v.Summary
	if summary == "" {
		summary = placeholderSummary
	}
	summary = strings.ReplaceAll(summary, "\n", " ")

	perf := "-"
	if len(v.Perf) > 0 {
		perf = renderPerf(v.Perf, "|")
	}
	return fmt.Sprintf("%d %s %s %s", v.Status.ExitCode(), service, perf, summary)
}
