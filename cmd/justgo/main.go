// Command justgo is the JustGo integration CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/justgo-bridge/internal/adapters/driven/config/file"
	"github.com/custodia-labs/justgo-bridge/internal/adapters/driving/cli"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
	"github.com/custodia-labs/justgo-bridge/internal/logger"
)

// version is set at build time.
var version = "dev"

func main() {
	if err := file.LoadDotEnv(); err != nil {
		logger.Warn("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetFactory(buildServices)
	cli.SetConfigOpener(func(path string) (driven.ConfigStore, error) {
		return file.NewConfigStore(path)
	})

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
