package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"evm-tools/config"
	"evm-tools/pkg/common"
	"evm-tools/pkg/common/iface"
)

var ConfigCommand = &cli.Command{
	Name:  "config",
	Usage: "Create, inspect or validate the evm-tools config file",
	Subcommands: []*cli.Command{
		{
			Name:   "init",
			Usage:  "Write the default config to --config (format follows the file extension)",
			Flags:  append(append([]cli.Flag{}, common.ConfigFlags...), common.GlobalFlags...),
			Action: configInitAction,
		},
		{
			Name:   "list",
			Usage:  "Show configured networks and supply settings",
			Flags:  append(append([]cli.Flag{}, common.ConfigFlags...), common.GlobalFlags...),
			Action: configListAction,
		},
		{
			Name:   "validate",
			Usage:  "Check the config file for errors",
			Flags:  append(append([]cli.Flag{}, common.ConfigFlags...), common.GlobalFlags...),
			Action: configValidateAction,
		},
	},
}

func configInitAction(cCtx *cli.Context) error {
	log := common.CommandLogger(cCtx)
	path := common.LookupString(cCtx, "config")

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists; remove it first to start over", path)
	}

	data, err := defaultConfigFor(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.InfoWithActor(iface.ActorConfig, "✅ Wrote default config to %s", path)
	return nil
}

// defaultConfigFor returns the embedded default config encoded for path's extension.
// YAML targets get the commented template as is.
func defaultConfigFor(path string) ([]byte, error) {
	format, err := common.FormatForPath(path)
	if err != nil {
		return nil, err
	}
	if format == common.FormatYAML {
		return []byte(config.DefaultConfigYaml), nil
	}
	cfg, err := common.ParseConfig([]byte(config.DefaultConfigYaml), common.FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded default config is invalid: %w", err)
	}
	return common.EncodeConfig(cfg, format)
}

func configValidateAction(cCtx *cli.Context) error {
	log := common.CommandLogger(cCtx)
	path := common.LookupString(cCtx, "config")

	cfg, err := common.LoadConfig(path)
	if err != nil {
		return err
	}

	result := common.ValidateConfig(cfg)
	if !result.Valid {
		for _, e := range result.Errors {
			log.ErrorWithActor(iface.ActorConfig, "%s", e.Error())
		}
		return result.Err()
	}

	log.InfoWithActor(iface.ActorConfig, "✅ %s is valid (%d networks)", path, len(cfg.NetworkNames()))
	return nil
}
