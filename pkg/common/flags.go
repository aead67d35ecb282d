package common

import "github.com/urfave/cli/v2"

// GlobalFlags are accepted by the root app and by every command.
var GlobalFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Enable verbose logging",
	},
	&cli.StringFlag{
		Name:  "log-format",
		Usage: "Log output: console or json",
		Value: "console",
	},
}

// ConfigFlags select the config file and the network inside it.
var ConfigFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the config file (.json, .yaml or .toml)",
		Value:   DefaultConfigPath,
		EnvVars: []string{EnvConfigPath},
	},
	&cli.StringFlag{
		Name:    "network",
		Aliases: []string{"n"},
		Usage:   "Network name to look up in the config",
		Value:   DefaultNetwork,
		EnvVars: []string{EnvNetwork},
	},
}

// RootFlags are defined on the app itself so that "evm-tools -n sepolia supply ..." works.
// Commands read them with LookupString, which prefers the innermost value that was set.
var RootFlags = append(append([]cli.Flag{}, GlobalFlags...), ConfigFlags...)
