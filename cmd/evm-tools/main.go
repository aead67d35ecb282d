package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"evm-tools/internal/version"
	"evm-tools/pkg/commands"
	"evm-tools/pkg/commands/keystore"
	"evm-tools/pkg/common"
	devcontext "evm-tools/pkg/context"
	"evm-tools/pkg/hooks"
)

func main() {
	// -v is --verbose
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Usage: "print the version"}

	ctx, cancel := devcontext.WithShutdown(context.Background())
	defer cancel()

	app := &cli.App{
		Name:    "evm-tools",
		Usage:   "Fund and create wallets on EVM chains",
		Version: version.String(),
		Flags:   common.RootFlags,
		Commands: []*cli.Command{
			commands.SupplyCommand,
			commands.CreateWalletCommand,
			commands.ConfigCommand,
			keystore.KeystoreCommand,
		},
		Before:                 hooks.LoadEnvBefore,
		UseShortOptionHandling: true,
	}

	actionChain := hooks.NewActionChain()
	actionChain.Use(hooks.WithEnvLoader)
	actionChain.Use(hooks.WithCommandDependencyCheck)
	actionChain.Use(hooks.WithTelemetry)

	hooks.ApplyMiddleware(app.Commands, actionChain)

	// exit-coded errors are handled (and exit) inside RunContext
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
