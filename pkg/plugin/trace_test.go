package plugin

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTraceAppends(t *testing.T) {
	path := TracePath(t.TempDir(), "db2_memory")

	v1 := Statusf(OK, "memory used 10%%")
	v2 := Statusf(Warning, "memory used 92%%")
	require.NoError(t, WriteTrace(path, "db2_memory", []string{"-w", "90"}, v1))
	require.NoError(t, WriteTrace(path, "db2_memory", []string{"-w", "90"}, v2))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Equal(t, 2, strings.Count(content, "---- db2_memory trace start ----"))
	assert.Equal(t, 2, strings.Count(content, "---- db2_memory trace end ----"))
	assert.Contains(t, content, "status: OK")
	assert.Contains(t, content, "status: WARNING")
	assert.Contains(t, content, "args: -w 90")

	// Each block is self-contained: the second start marker comes
	// after the first end marker.
	firstEnd := strings.Index(content, "trace end ----")
	secondStart := strings.LastIndex(content, "trace start ----")
	assert.Less(t, firstEnd, secondStart)
}

func TestTracePath(t *testing.T) {
	assert.Equal(t, filepath.Join(DefaultTraceDir, "db2_hadr.trc"), TracePath("", "db2_hadr"))
	assert.Equal(t, "/tmp/x/db2_hadr.trc", TracePath("/tmp/x", "db2_hadr"))
}
