package main

import (
	"context"
	"os"

	"github.com/kylerisse/db2check/pkg/checks/connection"
	"github.com/kylerisse/db2check/pkg/plugin"
)

func main() {
	engine := plugin.NewEngine(connection.New())
	os.Exit(engine.Run(context.Background(), os.Args[1:]))
}
