package logusage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylerisse/db2check/pkg/plugin"
)

var testNow = time.Date(2026, 8, 30, 15, 0, 0, 0, time.Local)

// fakeRunner returns the same canned output for every command.
type fakeRunner struct {
	output string
	calls  [][]string
}

func (f *fakeRunner) Run(_ context.Context, _ []string, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.output, nil
}

// newTestHome creates an instance home with an sqllib directory.
func newTestHome(t *testing.T) string {
	t.Helper()
	home := filepath.Join(t.TempDir(), "db2inst1")
	require.NoError(t, os.MkdirAll(filepath.Join(home, "sqllib"), 0o755))
	return home
}

const listing = "5242880\t2026-08-30\tS0000101.LOG\n" +
	"5242880\t2026-08-30\tS0000102.LOG\n" +
	"1048576\t2026-08-29\tS0000100.LOG\n" +
	"524288\t2026-08-30\tS0000103.LOG\n"

func newTestCheck(opts ...Option) *Check {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return New(opts...)
}

func TestExtractSumsToday(t *testing.T) {
	raw := plugin.Raw{"hadr": "HADR_ROLE = PRIMARY\n", "archive": listing}

	m, err := newTestCheck().Extract(raw)
	require.NoError(t, err)

	// 5 MB + 5 MB + 0.5 MB today; yesterday's file is excluded.
	assert.Equal(t, int64(2*5242880+524288), m.Values["archived_bytes"])
	assert.Equal(t, int64(10), m.Values["archived_mb"], "megabytes truncate")
	assert.Equal(t, int64(3), m.Values["archived_files"])
	assert.Equal(t, "PRIMARY", m.Labels["role"])
}

func TestExtractNoRoleMeansStandard(t *testing.T) {
	raw := plugin.Raw{"hadr": "Database Member 0 -- Database SAMPLE\n", "archive": ""}

	m, err := newTestCheck().Extract(raw)
	require.NoError(t, err)
	assert.Equal(t, "STANDARD", m.Labels["role"])
	assert.Equal(t, int64(0), m.Values["archived_mb"])
}

func TestExtractMalformedListing(t *testing.T) {
	raw := plugin.Raw{"hadr": "", "archive": "not-a-listing\n"}

	_, err := newTestCheck().Extract(raw)
	var dsErr *plugin.DataShapeError
	assert.ErrorAs(t, err, &dsErr)
}

// A standby does not archive its own logs; the check reports OK
// without evaluating anything.
func TestEvaluateStandbySkips(t *testing.T) {
	m := plugin.NewMetrics()
	m.Labels["role"] = "STANDBY"
	m.Values["archived_mb"] = 99999

	cfg := plugin.NewConfig()
	cfg.Warning = 1
	cfg.Critical = 2

	v := newTestCheck().Evaluate(cfg, m)
	assert.Equal(t, plugin.OK, v.Status)
	assert.Contains(t, v.Summary, "standby role")
	assert.Empty(t, v.Perf)
}

func TestEvaluateThresholds(t *testing.T) {
	m := plugin.NewMetrics()
	m.Labels["role"] = "PRIMARY"
	m.Values["archived_mb"] = 10
	m.Values["archived_files"] = 3

	cfg := plugin.NewConfig()
	cfg.Warning = 10
	cfg.Critical = 50

	v := newTestCheck().Evaluate(cfg, m)
	assert.Equal(t, plugin.Warning, v.Status)
	assert.Contains(t, v.Summary, "archived 10 MB today (3 log files)")
	require.NotEmpty(t, v.Perf)
	assert.Equal(t, "'archived'=10MB;10;50;0", v.Perf[0].String())
}

func TestListArchive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "S0000101.LOG"), make([]byte, 1024), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	out, err := listArchive(dir)
	require.NoError(t, err)

	today := time.Now().Format(dayLayout)
	assert.Equal(t, fmt.Sprintf("1024\t%s\tS0000101.LOG\n", today), out)
}

func TestGatherMissingArchivePath(t *testing.T) {
	t.Setenv("DB2CHECK_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg := plugin.NewConfig()
	cfg.Database = "SAMPLE"
	cfg.Instance = newTestHome(t)

	runner := &fakeRunner{output: "HADR_ROLE = PRIMARY\n"}
	_, err := newTestCheck(WithRunner(runner)).Gather(context.Background(), cfg)
	var cfgErr *plugin.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

// A standby host commonly has no archive directory at all; the role
// decides before the directory is ever touched, so the check still
// comes out OK end to end.
func TestGatherStandbyIgnoresMissingArchiveDir(t *testing.T) {
	cfg := plugin.NewConfig()
	cfg.Database = "SAMPLE"
	cfg.Instance = newTestHome(t)
	cfg.Warning = 1
	cfg.Critical = 2

	runner := &fakeRunner{output: "HADR_ROLE = STANDBY\nHADR_STATE = PEER\n"}
	c := newTestCheck(
		WithRunner(runner),
		WithArchivePath(filepath.Join(t.TempDir(), "no-such-archive")),
	)

	raw, err := c.Gather(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotContains(t, raw, "archive")

	m, err := c.Extract(raw)
	require.NoError(t, err)

	v := c.Evaluate(cfg, m)
	assert.Equal(t, plugin.OK, v.Status)
	assert.Contains(t, v.Summary, "standby role")
}

// The standby short-circuit also means --archive-path is not required
// on a standby.
func TestGatherStandbyWithoutArchivePath(t *testing.T) {
	t.Setenv("DB2CHECK_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg := plugin.NewConfig()
	cfg.Database = "SAMPLE"
	cfg.Instance = newTestHome(t)

	runner := &fakeRunner{output: "HADR_ROLE = STANDBY\n"}
	raw, err := newTestCheck(WithRunner(runner)).Gather(context.Background(), cfg)
	require.NoError(t, err)
	assert.Contains(t, raw["hadr"], "STANDBY")
}

func TestGatherPrimaryListsArchive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "S0000101.LOG"), make([]byte, 2048), 0o644))

	cfg := plugin.NewConfig()
	cfg.Database = "SAMPLE"
	cfg.Instance = newTestHome(t)

	runner := &fakeRunner{output: "HADR_ROLE = PRIMARY\n"}
	raw, err := newTestCheck(WithRunner(runner), WithArchivePath(dir)).Gather(context.Background(), cfg)
	require.NoError(t, err)
	assert.Contains(t, raw["archive"], "S0000101.LOG")
}
