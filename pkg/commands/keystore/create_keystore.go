package keystore

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/urfave/cli/v2"

	"evm-tools/pkg/chain"
	"evm-tools/pkg/common"
	"evm-tools/pkg/common/iface"
	"evm-tools/pkg/wallet"
)

// KeystoreCommand groups the keystore subcommands.
var KeystoreCommand = &cli.Command{
	Name:        "keystore",
	Usage:       "Encrypt or decrypt ECDSA keys as Web3 Secret Storage JSON",
	Subcommands: []*cli.Command{CreateCommand, ReadCommand},
}

var CreateCommand = &cli.Command{
	Name:  "create",
	Usage: "Encrypts an ECDSA private key into a keystore JSON file",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:     "key",
			Usage:    "Hex private key, with or without 0x",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "path",
			Usage:    "Full path to save keystore file, including filename (e.g., ./keys/supplier.json)",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "password",
			Usage:   "Password to encrypt the keystore file; prompted for when empty",
			EnvVars: []string{common.EnvKeystorePassword},
		},
		&cli.BoolFlag{
			Name:  "light-kdf",
			Usage: "Use light scrypt parameters (fast, weaker)",
		},
	}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		log := common.CommandLogger(cCtx)

		path := cCtx.String("path")
		log.DebugWithActor(iface.ActorWallet, "🔐 Starting keystore creation")
		log.DebugWithActor(iface.ActorWallet, "• Output Path: %s", path)

		password, err := passwordFlag(cCtx)
		if err != nil {
			return err
		}

		strength := wallet.ScryptStandard
		if cCtx.Bool("light-kdf") {
			strength = wallet.ScryptLight
		}
		return CreateKeystore(cCtx.App.Writer, cCtx.String("key"), path, password, strength)
	},
}

// CreateKeystore encrypts privateKey to path and reads it back to make sure the password works.
func CreateKeystore(out io.Writer, privateKey, path, password string, strength wallet.ScryptStrength) error {
	key, err := chain.ParsePrivateKey(privateKey)
	if err != nil {
		return err
	}

	if err := wallet.SaveKeystore(key, path, password, strength); err != nil {
		return fmt.Errorf("failed to create keystore: %w", err)
	}

	loaded, err := wallet.LoadKeystore(path, password)
	if err != nil {
		return fmt.Errorf("keystore written but could not be decrypted: %w", err)
	}

	fmt.Fprintln(out, "✅ Keystore generated successfully")
	fmt.Fprintf(out, "📬 Address: %s\n", crypto.PubkeyToAddress(loaded.PublicKey).Hex())
	fmt.Fprintf(out, "📁 Path:    %s\n", path)
	return nil
}

func passwordFlag(cCtx *cli.Context) (string, error) {
	if cCtx.IsSet("password") {
		return cCtx.String("password"), nil
	}
	return common.ReadPassword("Keystore password: ")
}
