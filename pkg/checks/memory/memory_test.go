package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylerisse/db2check/pkg/plugin"
)

const report = `MemTotal:        2048000 kB
MemFree:          204800 kB
Buffers:           81920 kB
Cached:           409600 kB
SwapTotal:       1048576 kB
SwapFree:        1048576 kB
`

func TestParseReport(t *testing.T) {
	m, err := parseReport(report)
	require.NoError(t, err)

	assert.Equal(t, int64(2048000), m.Values["total_kb"])
	assert.Equal(t, int64(204800), m.Values["free_kb"])
	assert.Equal(t, int64(1843200), m.Values["used_kb"])
	assert.Equal(t, int64(90), m.Values["used_pct"])
}

// Percentage arithmetic truncates, it never rounds.
func TestParseReportTruncates(t *testing.T) {
	m, err := parseReport("MemTotal: 3000 kB\nMemFree: 1001 kB\n")
	require.NoError(t, err)
	// used = 1999, 1999*100/3000 = 66.63..., truncated to 66
	assert.Equal(t, int64(66), m.Values["used_pct"])
}

func TestParseReportMissingField(t *testing.T) {
	_, err := parseReport("MemTotal: 2048000 kB\n")
	var dsErr *plugin.DataShapeError
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, "MemFree", dsErr.Field)
}

func TestParseReportMalformedValue(t *testing.T) {
	_, err := parseReport("MemTotal: lots kB\nMemFree: 204800 kB\n")
	var dsErr *plugin.DataShapeError
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, "MemTotal", dsErr.Field)
}

func TestParseReportZeroTotal(t *testing.T) {
	_, err := parseReport("MemTotal: 0 kB\nMemFree: 0 kB\n")
	var dsErr *plugin.DataShapeError
	assert.ErrorAs(t, err, &dsErr)
}

// 90% usage with warning=90 is a breach: the metric is not below the
// warning level.
func TestEvaluateWarningAtBoundary(t *testing.T) {
	m, err := parseReport(report)
	require.NoError(t, err)

	cfg := plugin.NewConfig()
	cfg.Warning = 90
	cfg.Critical = 95

	v := New().Evaluate(cfg, m)
	assert.Equal(t, plugin.Warning, v.Status)
	assert.Contains(t, v.Summary, "WARNING - memory used 90% (1843200 of 2048000 kB)")
	require.NotEmpty(t, v.Perf)
	assert.Equal(t, "'usage'=90%;90;95;0;100", v.Perf[0].String())
}

func TestEvaluateOK(t *testing.T) {
	m, err := parseReport(report)
	require.NoError(t, err)

	cfg := plugin.NewConfig()
	cfg.Warning = 91
	cfg.Critical = 95

	v := New().Evaluate(cfg, m)
	assert.Equal(t, plugin.OK, v.Status)
}

func TestEvaluateIgnore(t *testing.T) {
	m, err := parseReport(report)
	require.NoError(t, err)

	cfg := plugin.NewConfig()
	cfg.Warning = 10
	cfg.Critical = 20
	cfg.Ignore = true

	v := New().Evaluate(cfg, m)
	assert.Equal(t, plugin.OK, v.Status)
	assert.Contains(t, v.Summary, "thresholds ignored")
}

func TestGather(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meminfo")
	require.NoError(t, os.WriteFile(path, []byte(report), 0o644))

	c := New(WithReportPath(path))
	raw, err := c.Gather(context.Background(), plugin.NewConfig())
	require.NoError(t, err)
	assert.Equal(t, report, raw["meminfo"])
}

func TestGatherMissingReport(t *testing.T) {
	c := New(WithReportPath(filepath.Join(t.TempDir(), "absent")))
	_, err := c.Gather(context.Background(), plugin.NewConfig())
	var envErr *plugin.EnvironmentError
	assert.ErrorAs(t, err, &envErr)
}
