package hooks

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"evm-tools/pkg/common"
)

// InputRequirement names a file flag that must point at an existing file
// before the command runs.
type InputRequirement struct {
	Flag         string
	ErrorMessage string
	// SkipIf lets the requirement be waived by another flag (e.g. --rpc-url bypasses the config).
	SkipIf func(*cli.Context) bool
}

// CommandDependency lists the inputs a command needs.
type CommandDependency struct {
	Command  string
	Requires []InputRequirement
}

func rpcURLGiven(cCtx *cli.Context) bool {
	return strings.TrimSpace(common.LookupString(cCtx, "rpc-url")) != ""
}

// CommandInputDependencies defines the file inputs per command.
var CommandInputDependencies = []CommandDependency{
	{
		Command: "supply",
		Requires: []InputRequirement{
			{
				Flag:         "wallets-path",
				ErrorMessage: "The 'supply' command needs a recipient list. Pass --wallets-path <file> with one address per line.",
			},
			{
				Flag:         "config",
				ErrorMessage: "The 'supply' command needs a config with network RPC URLs. Run 'evm-tools config init' or pass --rpc-url.",
				SkipIf:       rpcURLGiven,
			},
		},
	},
	{
		Command: "validate",
		Requires: []InputRequirement{
			{Flag: "config", ErrorMessage: "No config file to validate. Run 'evm-tools config init' first."},
		},
	},
	{
		Command: "list",
		Requires: []InputRequirement{
			{Flag: "config", ErrorMessage: "No config file found. Run 'evm-tools config init' first."},
		},
	},
}

// WithCommandDependencyCheck fails fast when a command's input files are missing.
func WithCommandDependencyCheck(action cli.ActionFunc) cli.ActionFunc {
	return func(cCtx *cli.Context) error {
		if err := checkInputs(cCtx); err != nil {
			return err
		}
		return action(cCtx)
	}
}

func checkInputs(cCtx *cli.Context) error {
	dep := findCommandDependency(cCtx.Command.Name)
	if dep == nil {
		return nil
	}
	for _, req := range dep.Requires {
		if req.SkipIf != nil && req.SkipIf(cCtx) {
			continue
		}
		path := common.LookupString(cCtx, req.Flag)
		if path == "" || !common.FileExists(path) {
			return fmt.Errorf("%s\n\nMissing file: %q (--%s)", req.ErrorMessage, path, req.Flag)
		}
	}
	return nil
}

// findCommandDependency finds the dependency rule for a command
func findCommandDependency(cmdName string) *CommandDependency {
	for i := range CommandInputDependencies {
		if CommandInputDependencies[i].Command == cmdName {
			return &CommandInputDependencies[i]
		}
	}
	return nil
}
