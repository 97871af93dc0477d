package main

import (
	"context"
	"os"

	"github.com/kylerisse/db2check/pkg/checks/backupage"
	"github.com/kylerisse/db2check/pkg/plugin"
)

func main() {
	engine := plugin.NewEngine(backupage.New())
	os.Exit(engine.Run(context.Background(), os.Args[1:]))
}
