// db2check is the combined multi-tool binary: it runs any of the
// check types by name, so a single deployment artifact can back every
// service definition. `db2check <type> [options]` behaves exactly like
// the dedicated check_db2_* binary of that type.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kylerisse/db2check/pkg/checks/backupage"
	"github.com/kylerisse/db2check/pkg/checks/connection"
	"github.com/kylerisse/db2check/pkg/checks/dbsize"
	"github.com/kylerisse/db2check/pkg/checks/hadr"
	"github.com/kylerisse/db2check/pkg/checks/logusage"
	"github.com/kylerisse/db2check/pkg/checks/memory"
	"github.com/kylerisse/db2check/pkg/plugin"
)

func newRegistry() *plugin.Registry {
	registry := plugin.NewRegistry()

	factories := map[string]plugin.Factory{
		connection.TypeName: func() plugin.Check { return connection.New() },
		memory.TypeName:     func() plugin.Check { return memory.New() },
		dbsize.TypeName:     func() plugin.Check { return dbsize.New() },
		backupage.TypeName:  func() plugin.Check { return backupage.New() },
		hadr.TypeName:       func() plugin.Check { return hadr.New() },
		logusage.TypeName:   func() plugin.Check { return logusage.New() },
	}
	for name, factory := range factories {
		if err := registry.Register(name, factory); err != nil {
			fmt.Printf("UNKNOWN - %v\n", err)
			os.Exit(plugin.Unknown.ExitCode())
		}
	}
	return registry
}

func main() {
	registry := newRegistry()

	if len(os.Args) < 2 {
		fmt.Printf("UNKNOWN - no check type given, available: %s\n",
			strings.Join(registry.Types(), ", "))
		os.Exit(plugin.Unknown.ExitCode())
	}

	check, err := registry.Create(os.Args[1])
	if err != nil {
		fmt.Printf("UNKNOWN - %v, available: %s\n", err, strings.Join(registry.Types(), ", "))
		os.Exit(plugin.Unknown.ExitCode())
	}

	engine := plugin.NewEngine(check)
	os.Exit(engine.Run(context.Background(), os.Args[2:]))
}
