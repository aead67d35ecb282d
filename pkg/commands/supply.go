package commands

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"evm-tools/pkg/chain"
	"evm-tools/pkg/common"
	"evm-tools/pkg/common/iface"
	"evm-tools/pkg/supply"
	"evm-tools/pkg/telemetry"
	"evm-tools/pkg/wallet"
)

// Exit codes of the supply command besides 0 and 1.
const (
	ExitPartialFailure = 2
	ExitInterrupted    = 130
)

// ChainDialer opens a chain connection and returns the client, its chain ID and a close func.
type ChainDialer func(ctx context.Context, url string, opts supply.Options) (chain.Client, *big.Int, func(), error)

// DialChain is the default ChainDialer. Tests replace it to run against a simulated backend.
var DialChain ChainDialer = func(ctx context.Context, url string, opts supply.Options) (chain.Client, *big.Int, func(), error) {
	client, chainID, err := supply.Connect(ctx, url, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	return client, chainID, client.Close, nil
}

var SupplyCommand = &cli.Command{
	Name:  "supply",
	Usage: "Distribute native currency from the supplier account to a list of wallets",
	Flags: append(append([]cli.Flag{
		&cli.StringFlag{
			Name:  "wallets-path",
			Usage: "File with one recipient address per line",
			Value: common.DefaultWalletsPath,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "Total amount in ETH to split across all recipients (e.g. 0.5)",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "rpc-url",
			Usage:   "RPC endpoint; overrides the network lookup in the config",
			EnvVars: []string{common.EnvRPCURL},
		},
		&cli.StringFlag{
			Name:  "private-key-path",
			Usage: "File whose first line is the supplier private key",
		},
		&cli.StringFlag{
			Name:  "keystore",
			Usage: "Encrypted keystore JSON holding the supplier key",
		},
		&cli.StringFlag{
			Name:    "keystore-password",
			Usage:   "Password for --keystore; prompted for when empty",
			EnvVars: []string{common.EnvKeystorePassword},
		},
		&cli.StringFlag{
			Name:  "priority-fee-gwei",
			Usage: "Priority fee added on top of the base fee, in gwei",
		},
		&cli.DurationFlag{
			Name:  "receipt-timeout",
			Usage: "How long to wait for each transaction to be included",
		},
		&cli.DurationFlag{
			Name:  "poll-interval",
			Usage: "Receipt polling interval",
		},
		&cli.StringFlag{
			Name:  "nonce-policy",
			Usage: "What a rejected submission does to the nonce: consume or reuse",
		},
		&cli.Float64Flag{
			Name:  "tx-rate",
			Usage: "Maximum submissions per second (0 = unlimited)",
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "Write a CSV row per transfer to this file",
		},
		&cli.StringFlag{
			Name:  "failed-out",
			Usage: "Write the recipients that failed to this file, one per line",
		},
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Skip the confirmation prompt",
		},
	}, common.ConfigFlags...), common.GlobalFlags...),
	Action: supplyAction,
}

func supplyAction(cCtx *cli.Context) error {
	log := common.CommandLogger(cCtx)
	ctx := cCtx.Context

	total, err := chain.ParseEther(cCtx.String("amount"))
	if err != nil {
		return &supply.Error{Kind: supply.KindInvalidAmount, Op: "--amount", Err: err}
	}
	if total.Sign() <= 0 {
		return &supply.Error{Kind: supply.KindInvalidAmount, Op: "--amount", Err: fmt.Errorf("must be positive, got %s", cCtx.String("amount"))}
	}

	recipients, err := supply.ReadRecipients(cCtx.String("wallets-path"))
	if err != nil {
		return err
	}
	log.InfoWithActor(iface.ActorSystem, "📄 Loaded %d recipients from %s", len(recipients), cCtx.String("wallets-path"))

	cfg, err := loadOptionalConfig(cCtx)
	if err != nil {
		return err
	}

	rpcURL, err := resolveRPCURL(cCtx, cfg)
	if err != nil {
		return err
	}

	opts, err := supplyOptions(cCtx, cfg)
	if err != nil {
		return err
	}

	key, err := resolveSupplierKey(cCtx, cfg, log)
	if err != nil {
		return err
	}

	client, chainID, closeClient, err := DialChain(ctx, rpcURL, opts)
	if err != nil {
		return err
	}
	defer closeClient()
	log.DebugWithActor(iface.ActorSystem, "Connected to %s (chain %s)", rpcURL, chainID)

	funder := chain.NewFunder(key, chainID)

	metrics, _ := telemetry.MetricsFromContext(ctx)
	reporters := supply.MultiReporter{
		supply.NewLogReporter(log),
		supply.NewMetricsReporter(metrics),
	}

	var closers []func() error
	defer func() {
		for _, c := range closers {
			_ = c()
		}
	}()

	var csvReport *supply.CSVReporter
	if path := cCtx.String("report"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		closers = append(closers, f.Close)
		csvReport = supply.NewCSVReporter(f)
		reporters = append(reporters, csvReport)
	}

	var failedOut *supply.FailedReporter
	if path := cCtx.String("failed-out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create failed-recipients file: %w", err)
		}
		closers = append(closers, f.Close)
		failedOut = supply.NewFailedReporter(f)
		reporters = append(reporters, failedOut)
	}

	reporters = append(reporters, supply.NewTableSummary(cCtx.App.Writer))

	runner := supply.NewRunner(client, reporters, log).
		WithConfirm(confirmBatch(cCtx))

	outcome, err := runner.Run(ctx, supply.Batch{
		Funder:     funder,
		Recipients: recipients,
		Total:      total,
		Options:    opts,
	})

	if csvReport != nil && csvReport.Err() != nil {
		log.WarnWithActor(iface.ActorSystem, "Report file incomplete: %v", csvReport.Err())
	}
	if failedOut != nil && failedOut.Err() != nil {
		log.WarnWithActor(iface.ActorSystem, "Failed-recipients file incomplete: %v", failedOut.Err())
	}

	return supplyExit(err, outcome, log)
}

// supplyExit is the single place where batch errors turn into exit behavior.
func supplyExit(err error, outcome *supply.Outcome, log iface.Logger) error {
	switch {
	case errors.Is(err, common.ErrAborted):
		log.WarnWithActor(iface.ActorSystem, "Batch aborted, nothing was sent")
		return nil
	case supply.KindOf(err) == supply.KindCancelled:
		sent := 0
		if outcome != nil {
			sent = outcome.Summary.Succeeded
		}
		return cli.Exit(fmt.Sprintf("interrupted: %d transfers completed before shutdown", sent), ExitInterrupted)
	case err != nil:
		var insufficient *supply.InsufficientFundsError
		if errors.As(err, &insufficient) {
			log.ErrorWithActor(iface.ActorFunder, "❌ Not enough funds: %v", insufficient)
		}
		return err
	}

	if outcome.Summary.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d transfers failed", outcome.Summary.Failed, outcome.Summary.Recipients), ExitPartialFailure)
	}
	return nil
}

func confirmBatch(cCtx *cli.Context) supply.ConfirmFunc {
	return func(p supply.Preview) error {
		if cCtx.Bool("yes") || !common.StdinIsTerminal() {
			return nil
		}
		ok, err := common.Confirm(cCtx.Context, cCtx.App.Reader, cCtx.App.Writer, fmt.Sprintf(
			"Send %s ETH to %d wallets from %s (max %s ETH including fees)?",
			chain.FormatEther(new(big.Int).Mul(p.Plan.Share, big.NewInt(int64(p.Plan.RecipientCount)))),
			p.Plan.RecipientCount, p.Funder.Address.Hex(), chain.FormatEther(p.Plan.TotalRequired)))
		if err != nil {
			return err
		}
		if !ok {
			return common.ErrAborted
		}
		return nil
	}
}

// loadOptionalConfig loads the config file. A missing file is fine when --rpc-url is given.
func loadOptionalConfig(cCtx *cli.Context) (*common.Config, error) {
	path := common.LookupString(cCtx, "config")
	if !common.FileExists(path) {
		if cCtx.String("rpc-url") != "" {
			return nil, nil
		}
		return nil, fmt.Errorf("config file %s not found; run 'evm-tools config init' or pass --rpc-url", path)
	}
	cfg, err := common.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateConfig(cfg).Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveRPCURL(cCtx *cli.Context, cfg *common.Config) (string, error) {
	if url := strings.TrimSpace(cCtx.String("rpc-url")); url != "" {
		return url, nil
	}
	if cfg == nil {
		return "", errors.New("no RPC endpoint: pass --rpc-url or provide a config")
	}
	return cfg.RPCForNetwork(common.LookupString(cCtx, "network"))
}

// supplyOptions merges config settings with flags; flags win.
func supplyOptions(cCtx *cli.Context, cfg *common.Config) (supply.Options, error) {
	var opts supply.Options
	var settings common.SupplySettings
	if cfg != nil {
		settings = cfg.Supply
	}

	prio := settings.PriorityFeeGwei
	if cCtx.IsSet("priority-fee-gwei") {
		prio = cCtx.String("priority-fee-gwei")
	}
	if prio != "" {
		fee, err := chain.ParseGwei(prio)
		if err != nil {
			return opts, &supply.Error{Kind: supply.KindInvalidAmount, Op: "priority fee", Err: err}
		}
		opts.PriorityFee = fee
	}

	opts.ReceiptTimeout = pickDuration(cCtx, "receipt-timeout", settings.ReceiptTimeout.Duration)
	opts.PollInterval = pickDuration(cCtx, "poll-interval", settings.PollInterval.Duration)
	opts.RPCRetries = settings.RPCRetries

	policy := settings.NoncePolicy
	if cCtx.IsSet("nonce-policy") {
		policy = cCtx.String("nonce-policy")
	}
	np, err := supply.ParseNoncePolicy(policy)
	if err != nil {
		return opts, err
	}
	opts.NoncePolicy = np

	opts.TxRate = settings.TxRate
	if cCtx.IsSet("tx-rate") {
		opts.TxRate = cCtx.Float64("tx-rate")
	}
	if opts.TxRate < 0 {
		return opts, fmt.Errorf("--tx-rate cannot be negative")
	}
	return opts, nil
}

func pickDuration(cCtx *cli.Context, flag string, fallback time.Duration) time.Duration {
	if cCtx.IsSet(flag) {
		return cCtx.Duration(flag)
	}
	return fallback
}

// resolveSupplierKey picks the key from --keystore, --private-key-path, SUPPLIER_PRIVATE_KEY
// or the config, in that order.
func resolveSupplierKey(cCtx *cli.Context, cfg *common.Config, log iface.Logger) (*ecdsa.PrivateKey, error) {
	if path := cCtx.String("keystore"); path != "" {
		password, err := keystorePassword(cCtx, "keystore-password")
		if err != nil {
			return nil, err
		}
		log.DebugWithActor(iface.ActorFunder, "Using supplier key from keystore %s", path)
		return wallet.LoadKeystore(path, password)
	}

	if path := cCtx.String("private-key-path"); path != "" {
		line, err := common.ReadFirstLine(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key file: %w", err)
		}
		log.DebugWithActor(iface.ActorFunder, "Using supplier key from %s", path)
		return chain.ParsePrivateKey(line)
	}

	if v := strings.TrimSpace(os.Getenv(common.EnvSupplierPrivateKey)); v != "" {
		log.DebugWithActor(iface.ActorFunder, "Using supplier key from $%s", common.EnvSupplierPrivateKey)
		return chain.ParsePrivateKey(v)
	}

	if cfg != nil && strings.TrimSpace(cfg.SupplierPrivateKey) != "" {
		log.DebugWithActor(iface.ActorFunder, "Using supplier key from config")
		return chain.ParsePrivateKey(cfg.SupplierPrivateKey)
	}

	return nil, fmt.Errorf("no supplier key found: use --keystore or --private-key-path, or set %s", common.EnvSupplierPrivateKey)
}

// keystorePassword returns the flag value, prompting on the terminal when it is not set.
func keystorePassword(cCtx *cli.Context, flag string) (string, error) {
	if cCtx.IsSet(flag) {
		return cCtx.String(flag), nil
	}
	return common.ReadPassword("Keystore password: ")
}
