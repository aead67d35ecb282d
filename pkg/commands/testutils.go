package commands

import (
	"io"

	"github.com/urfave/cli/v2"

	"evm-tools/pkg/common"
)

// NewTestApp builds an app around cmds that writes to out and returns
// exit-coded errors instead of calling os.Exit.
func NewTestApp(out io.Writer, cmds ...*cli.Command) *cli.App {
	return &cli.App{
		Name:           "evm-tools",
		Writer:         out,
		ErrWriter:      out,
		Flags:          common.RootFlags,
		Commands:       cmds,
		ExitErrHandler: func(*cli.Context, error) {},
	}
}
