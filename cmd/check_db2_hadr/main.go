package main

import (
	"context"
	"os"

	"github.com/kylerisse/db2check/pkg/checks/hadr"
	"github.com/kylerisse/db2check/pkg/plugin"
)

func main() {
	engine := plugin.NewEngine(hadr.New())
	os.Exit(engine.Run(context.Background(), os.Args[1:]))
}
