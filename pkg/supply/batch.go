package supply

import (
	"context"
	"math/big"

	"github.com/google/uuid"

	"evm-tools/pkg/chain"
	"evm-tools/pkg/common/iface"
	"evm-tools/pkg/common/logger"
)

// Batch describes one distribution run.
type Batch struct {
	Funder     *chain.Funder
	Recipients []Recipient
	// Total is the amount to split across all recipients, in wei.
	Total   *big.Int
	Options Options
}

// Preview is what the operator sees before anything is sent.
type Preview struct {
	RunID   string
	Funder  *chain.Funder
	Quote   FeeQuote
	Plan    TransferPlan
	Balance *big.Int
	Nonce   uint64
}

// ConfirmFunc may veto a batch after the balance check. A non-nil error aborts before any submission.
type ConfirmFunc func(Preview) error

// Outcome carries everything a run learned, including partial state when it stops early.
type Outcome struct {
	Preview Preview
	Results []TransferResult
	Summary BatchSummary
}

// Runner wires fee estimation, allocation, the balance guard and the dispatcher together.
type Runner struct {
	client   chain.Client
	reporter Reporter
	logger   iface.Logger
	confirm  ConfirmFunc
}

func NewRunner(client chain.Client, reporter Reporter, log iface.Logger) *Runner {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if reporter == nil {
		reporter = MultiReporter{}
	}
	return &Runner{client: client, reporter: reporter, logger: log}
}

// WithConfirm installs a hook that runs between the balance check and the first submission.
func (r *Runner) WithConfirm(confirm ConfirmFunc) *Runner {
	r.confirm = confirm
	return r
}

// Run executes the batch. Fatal errors are returned before any transaction is sent.
// Per-recipient failures are only recorded in the outcome. If ctx is cancelled mid-batch
// the outcome is complete and the error is of kind Cancelled.
func (r *Runner) Run(ctx context.Context, batch Batch) (*Outcome, error) {
	opts := batch.Options.withDefaults()
	out := &Outcome{Preview: Preview{RunID: uuid.NewString(), Funder: batch.Funder}}

	if err := validateAmount(batch.Total, len(batch.Recipients)); err != nil {
		return out, err
	}

	quote, nonce, err := EstimateFees(ctx, r.client, batch.Funder.Address, opts)
	if err != nil {
		return out, err
	}
	out.Preview.Quote = quote
	out.Preview.Nonce = nonce
	r.logger.InfoWithActor(iface.ActorFunder, "⛽ Base fee: %s GWEI | Priority fee: %s GWEI | Max fee: %s GWEI",
		chain.FormatGwei(quote.BaseFee), chain.FormatGwei(quote.PriorityFee), chain.FormatGwei(quote.MaxFeePerGas))

	plan, err := NewTransferPlan(batch.Total, len(batch.Recipients), quote)
	if err != nil {
		return out, err
	}
	out.Preview.Plan = plan

	balance, err := CheckBalance(ctx, r.client, batch.Funder.Address, plan, opts)
	out.Preview.Balance = balance
	if err != nil {
		return out, err
	}
	r.logger.InfoWithActor(iface.ActorFunder, "💰 Supplier %s | Balance: %s ETH | Nonce: %d",
		batch.Funder.Address.Hex(), chain.FormatEther(balance), nonce)
	r.logger.InfoWithActor(iface.ActorFunder, "📦 Sending %s ETH to %d wallets (%s ETH each, %s ETH total)",
		chain.FormatEther(batch.Total), plan.RecipientCount, chain.FormatEther(plan.PerRecipientAmount), chain.FormatEther(plan.TotalRequired))

	if r.confirm != nil {
		if err := r.confirm(out.Preview); err != nil {
			return out, err
		}
	}

	if err := ctx.Err(); err != nil {
		return out, newError(KindCancelled, "before dispatch", err)
	}

	dispatcher := NewDispatcher(r.client, batch.Funder, plan, quote, nonce, opts, r.logger)
	out.Results = dispatcher.Dispatch(ctx, batch.Recipients, r.reporter)
	out.Summary = Summarize(out.Preview.RunID, out.Results, nonce, dispatcher.NextNonce())
	r.reporter.Summary(out.Summary)

	if err := ctx.Err(); err != nil {
		return out, newError(KindCancelled, "dispatch", err)
	}
	return out, nil
}
