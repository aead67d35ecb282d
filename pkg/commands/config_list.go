package commands

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"evm-tools/pkg/chain"
	"evm-tools/pkg/common"
)

func configListAction(cCtx *cli.Context) error {
	path := common.LookupString(cCtx, "config")
	cfg, err := common.LoadConfig(path)
	if err != nil {
		return err
	}
	return listConfig(cCtx.App.Writer, path, cfg, common.LookupString(cCtx, "network"))
}

func listConfig(w io.Writer, path string, cfg *common.Config, selected string) error {
	fmt.Fprintf(w, "Config: %s\n\n", path)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", "Network", "RPC URL"})
	table.SetAutoWrapText(false)
	for _, name := range cfg.NetworkNames() {
		url, _ := cfg.RPCForNetwork(name)
		marker := ""
		if name == selected {
			marker = "*"
		}
		table.Append([]string{marker, name, url})
	}
	table.Render()

	key := "(not set)"
	if cfg.SupplierPrivateKey != "" {
		key = chain.MaskHex(cfg.SupplierPrivateKey)
	}
	s := cfg.Supply
	fmt.Fprintf(w, "\nSupplier key:      %s\n", key)
	fmt.Fprintf(w, "Priority fee:      %s\n", orDefault(s.PriorityFeeGwei, "default", " gwei"))
	fmt.Fprintf(w, "Receipt timeout:   %s\n", orDefault(durationString(s.ReceiptTimeout), "default", ""))
	fmt.Fprintf(w, "Poll interval:     %s\n", orDefault(durationString(s.PollInterval), "default", ""))
	fmt.Fprintf(w, "Nonce policy:      %s\n", cases.Title(language.English).String(orDefault(s.NoncePolicy, "consume", "")))
	if s.TxRate > 0 {
		fmt.Fprintf(w, "Tx rate:           %g/s\n", s.TxRate)
	}
	return nil
}

func durationString(d common.Duration) string {
	if d.Duration == 0 {
		return ""
	}
	return d.String()
}

func orDefault(v, def, suffix string) string {
	if v == "" {
		return def
	}
	return v + suffix
}
