package db2

import (
	"bytes"
	"context"
	"os/exec"
)

// Runner executes one administration command and returns its combined
// output. The exec error is returned alongside the output because DB2
// tools print their diagnostics to the streams even when they exit
// non-zero.
type Runner interface {
	Run(ctx context.Context, env []string, name string, args ...string) (string, error)
}

// ExecRunner shells out to the real administration tools.
type ExecRunner struct{}

// Run executes the command with the given environment and captures
// stdout and stderr combined.
func (ExecRunner) Run(ctx context.Context, env []string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = env

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	return out.String(), err
}
