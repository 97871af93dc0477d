package main

import (
	"context"
	"os"

	"github.com/kylerisse/db2check/pkg/checks/dbsize"
	"github.com/kylerisse/db2check/pkg/plugin"
)

func main() {
	engine := plugin.NewEngine(dbsize.New())
	os.Exit(engine.Run(context.Background(), os.Args[1:]))
}
