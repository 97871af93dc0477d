package main

import (
	"context"
	"os"

	"github.com/kylerisse/db2check/pkg/checks/logusage"
	"github.com/kylerisse/db2check/pkg/plugin"
)

func main() {
	engine := plugin.NewEngine(logusage.New())
	os.Exit(engine.Run(context.Background(), os.Args[1:]))
}
