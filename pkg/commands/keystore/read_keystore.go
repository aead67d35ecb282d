package keystore

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/urfave/cli/v2"

	"evm-tools/pkg/common"
	"evm-tools/pkg/wallet"
)

var ReadCommand = &cli.Command{
	Name:  "read",
	Usage: "Decrypt a keystore file and print its address and private key",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:     "path",
			Usage:    "Path to the keystore JSON",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "password",
			Usage:   "Password to decrypt the keystore file; prompted for when empty",
			EnvVars: []string{common.EnvKeystorePassword},
		},
	}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		password, err := passwordFlag(cCtx)
		if err != nil {
			return err
		}
		return ReadKeystore(cCtx.App.Writer, cCtx.String("path"), password)
	},
}

func ReadKeystore(out io.Writer, path, password string) error {
	key, err := wallet.LoadKeystore(path, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "📬 Address: %s\n", crypto.PubkeyToAddress(key.PublicKey).Hex())
	fmt.Fprintln(out, "🔑 Save this private key in a secure location:")
	fmt.Fprintf(out, "    %s\n", hexutil.Encode(crypto.FromECDSA(key)))
	return nil
}
