package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"evm-tools/pkg/common"
	"evm-tools/pkg/common/iface"
	"evm-tools/pkg/wallet"
)

var CreateWalletCommand = &cli.Command{
	Name:  "create-wallet",
	Usage: "Generate new EVM keypairs and save them to a CSV file",
	Flags: append([]cli.Flag{
		&cli.IntFlag{
			Name:  "count",
			Usage: "Number of wallets to generate",
			Value: 1,
		},
		&cli.StringFlag{
			Name:  "out-dir",
			Usage: "Directory for the created_evm_<timestamp>.csv file",
			Value: common.DefaultWalletsDir,
		},
		&cli.StringFlag{
			Name:  "addresses-out",
			Usage: "Also append the new addresses to this file (usable as a supply --wallets-path)",
		},
		&cli.StringFlag{
			Name:  "keystore-dir",
			Usage: "Also write one encrypted keystore per wallet into this directory",
		},
		&cli.StringFlag{
			Name:    "keystore-password",
			Usage:   "Password for the keystores; prompted for when empty",
			EnvVars: []string{common.EnvKeystorePassword},
		},
		&cli.BoolFlag{
			Name:  "light-kdf",
			Usage: "Use light scrypt parameters for the keystores (fast, weaker)",
		},
	}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		log := common.CommandLogger(cCtx)
		start := time.Now()

		count := cCtx.Int("count")
		log.TitleWithActor(iface.ActorWallet, "Creating %d wallet(s)", count)

		wallets, err := generateWithProgress(count, log)
		if err != nil {
			return err
		}

		path, err := wallet.SaveCSV(cCtx.String("out-dir"), wallets, start)
		if err != nil {
			return err
		}
		log.InfoWithActor(iface.ActorWallet, "✅ Saved %d wallet(s) to %s", len(wallets), path)

		if out := cCtx.String("addresses-out"); out != "" {
			if err := appendAddresses(out, wallets); err != nil {
				return err
			}
			log.InfoWithActor(iface.ActorWallet, "📄 Appended addresses to %s", out)
		}

		if dir := cCtx.String("keystore-dir"); dir != "" {
			password, err := keystorePassword(cCtx, "keystore-password")
			if err != nil {
				return err
			}
			strength := wallet.ScryptStandard
			if cCtx.Bool("light-kdf") {
				strength = wallet.ScryptLight
			}
			paths, err := wallet.SaveKeystores(dir, wallets, password, strength)
			if err != nil {
				return err
			}
			log.InfoWithActor(iface.ActorWallet, "🔐 Wrote %d keystore(s) to %s", len(paths), dir)
		}

		log.InfoWithActor(iface.ActorWallet, "Done in %s", time.Since(start).Round(time.Millisecond))
		return nil
	},
}

// generateWithProgress generates wallets in chunks so the tracker has something to show for large counts.
func generateWithProgress(count int, log iface.ProgressLogger) ([]wallet.Wallet, error) {
	if count <= 0 {
		return nil, fmt.Errorf("--count must be positive, got %d", count)
	}
	const chunk = 100

	out := make([]wallet.Wallet, 0, count)
	for len(out) < count {
		n := min(chunk, count-len(out))
		batch, err := wallet.Generate(n)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		log.SetProgress("wallets", len(out)*100/count, fmt.Sprintf("%d/%d wallets", len(out), count))
		log.PrintProgress()
	}
	log.ClearProgress()
	return out, nil
}

func appendAddresses(path string, wallets []wallet.Wallet) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := wallet.WriteAddresses(f, wallets); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
