package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pageza/pantry/backend/internal/cli"
	"github.com/pageza/pantry/backend/internal/logging"
)

func main() {
	logger, err := logging.New(logging.ConfigFromEnv())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := cli.NewRootCommand(cli.DefaultOptions(logger)).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
