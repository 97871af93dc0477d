package main

import (
	"context"
	"os"

	"github.com/kylerisse/db2check/pkg/checks/memory"
	"github.com/kylerisse/db2check/pkg/plugin"
)

func main() {
	engine := plugin.NewEngine(memory.New())
	os.Exit(engine.Run(context.Background(), os.Args[1:]))
}
