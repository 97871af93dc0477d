// Package db2 wraps the DB2 command-line administration tools as the
// external data source for the check suite. It resolves the instance
// environment, shells out to db2/db2pd, and classifies the diagnostic
// codes in their output into the plugin error taxonomy. The tools
// themselves are black boxes; this package only handles invoking them
// and recognizing failure, not interpreting check-specific fields.
package db2

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kylerisse/db2check/pkg/plugin"
)

// Instance is a resolved DB2 instance environment.
type Instance struct {
	// Home is the instance owner's home directory, e.g. /home/db2inst1.
	Home string

	// Name is the instance name, taken from the home directory's base.
	Name string
}

// ResolveInstance validates the instance home path and returns the
// environment needed to run its administration tools. A missing or
// incomplete sqllib tree is an EnvironmentError.
func ResolveInstance(home string) (*Instance, error) {
	if home == "" {
		return nil, &plugin.EnvironmentError{Path: home, Reason: "no instance home path given"}
	}

	sqllib := filepath.Join(home, "sqllib")
	info, err := os.Stat(sqllib)
	if err != nil {
		return nil, &plugin.EnvironmentError{Path: home, Reason: "sqllib not found"}
	}
	if !info.IsDir() {
		return nil, &plugin.EnvironmentError{Path: home, Reason: "sqllib is not a directory"}
	}

	return &Instance{
		Home: home,
		Name: filepath.Base(home),
	}, nil
}

// Env returns the process environment for running this instance's
// administration tools.
func (i *Instance) Env() []string {
	bin := filepath.Join(i.Home, "sqllib", "bin")
	adm := filepath.Join(i.Home, "sqllib", "adm")
	return append(os.Environ(),
		"DB2INSTANCE="+i.Name,
		fmt.Sprintf("PATH=%s:%s:%s", bin, adm, os.Getenv("PATH")),
	)
}

// DB2 returns the path of the db2 command-line processor.
func (i *Instance) DB2() string {
	return filepath.Join(i.Home, "sqllib", "bin", "db2")
}

// DB2pd returns the path of the db2pd monitoring tool.
func (i *Instance) DB2pd() string {
	return filepath.Join(i.Home, "sqllib", "adm", "db2pd")
}
