package supply

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/time/rate"

	"evm-tools/pkg/chain"
	"evm-tools/pkg/common/iface"
	"evm-tools/pkg/common/logger"
)

var errReceiptTimeout = errors.New("no receipt before timeout")

// Dispatcher sends one transfer per recipient, strictly in order, and owns the nonce counter.
// It is not safe for concurrent use.
type Dispatcher struct {
	client  chain.Client
	funder  *chain.Funder
	plan    TransferPlan
	quote   FeeQuote
	opts    Options
	limiter *rate.Limiter
	logger  iface.Logger

	nonce uint64
}

func NewDispatcher(client chain.Client, funder *chain.Funder, plan TransferPlan, quote FeeQuote, startNonce uint64, opts Options, log iface.Logger) *Dispatcher {
	opts = opts.withDefaults()
	if log == nil {
		log = logger.NewNopLogger()
	}
	d := &Dispatcher{
		client: client,
		funder: funder,
		plan:   plan,
		quote:  quote,
		opts:   opts,
		logger: log,
		nonce:  startNonce,
	}
	if opts.TxRate > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(opts.TxRate), 1)
	}
	return d
}

// NextNonce is the nonce the next submission would use.
func (d *Dispatcher) NextNonce() uint64 {
	return d.nonce
}

// Dispatch processes every recipient and returns one result per recipient in input order.
// Cancelling ctx stops the batch between recipients; a transfer already submitted is
// still awaited, bounded by the receipt timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, recipients []Recipient, reporter Reporter) []TransferResult {
	results := make([]TransferResult, 0, len(recipients))
	progress := Progress{Total: len(recipients)}

	for _, r := range recipients {
		var res TransferResult
		if err := d.pace(ctx); err != nil {
			res = TransferResult{
				Index:     r.Index,
				Recipient: r.Raw,
				Kind:      KindCancelled,
				Err:       newError(KindCancelled, "dispatch", err),
			}
		} else {
			res = d.transfer(ctx, r)
		}

		progress.add(res)
		results = append(results, res)
		if reporter != nil {
			reporter.Report(res, progress)
		}
	}
	return results
}

func (d *Dispatcher) pace(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.limiter == nil {
		return nil
	}
	return d.limiter.Wait(ctx)
}

func (d *Dispatcher) transfer(ctx context.Context, r Recipient) TransferResult {
	res := TransferResult{
		Index:     r.Index,
		Recipient: r.Raw,
		Amount:    new(big.Int).Set(d.plan.PerRecipientAmount),
	}

	to, err := chain.ParseAddress(r.Raw)
	if err != nil {
		return res.failed(newError(KindInvalidAddress, "parse", err))
	}
	res.Address = to

	nonce := d.nonce
	tx, err := d.funder.Sign(types.NewTx(&types.DynamicFeeTx{
		ChainID:   d.funder.ChainID,
		Nonce:     nonce,
		GasTipCap: d.quote.PriorityFee,
		GasFeeCap: d.quote.MaxFeePerGas,
		Gas:       TransferGasLimit,
		To:        &to,
		Value:     res.Amount,
	}))
	if err != nil {
		return res.failed(newError(KindSubmissionFailed, "sign", err))
	}
	res.TxHash = tx.Hash()

	// Once signed, the transfer runs to completion even if the batch is interrupted.
	submitCtx := context.WithoutCancel(ctx)

	if err := d.client.SendTransaction(submitCtx, tx); err != nil {
		if d.opts.NoncePolicy == NonceReuse {
			d.logger.Debug("nonce %d rejected, reusing it for the next recipient", nonce)
		} else {
			res.Nonce = &nonce
			d.nonce++
		}
		return res.failed(newError(KindSubmissionFailed, "eth_sendRawTransaction", err))
	}
	res.Nonce = &nonce
	d.nonce++
	d.logger.Debug("submitted %s nonce=%d to=%s", tx.Hash().Hex(), nonce, to.Hex())

	receipt, err := d.waitForReceipt(submitCtx, tx.Hash())
	if err != nil {
		return res.failed(newError(KindTransactionPending, "wait for receipt", err))
	}

	if receipt.BlockNumber != nil {
		res.BlockNumber = receipt.BlockNumber.Uint64()
	}
	res.EffectiveFeePaid = feePaid(receipt)

	if receipt.Status == types.ReceiptStatusFailed {
		return res.failed(newError(KindTransactionReverted, "receipt", fmt.Errorf("transaction %s reverted in block %d", tx.Hash().Hex(), res.BlockNumber)))
	}

	res.Success = true
	return res
}

func (r TransferResult) failed(err *Error) TransferResult {
	r.Success = false
	r.Kind = err.Kind
	r.Err = err
	return r
}

// waitForReceipt polls until the transaction is mined or the receipt timeout elapses.
// Lookup errors other than NotFound are treated as transient.
func (d *Dispatcher) waitForReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, d.opts.ReceiptTimeout)
	defer cancel()

	ticker := time.NewTicker(d.opts.PollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		receipt, err := d.client.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) && ctx.Err() == nil {
			lastErr = err
			d.logger.Debug("receipt lookup for %s failed: %v", hash.Hex(), err)
		}

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return nil, fmt.Errorf("%w after %s (last error: %v)", errReceiptTimeout, d.opts.ReceiptTimeout, lastErr)
			}
			return nil, fmt.Errorf("%w after %s", errReceiptTimeout, d.opts.ReceiptTimeout)
		case <-ticker.C:
		}
	}
}

func feePaid(receipt *types.Receipt) *big.Int {
	if receipt.EffectiveGasPrice == nil {
		return nil
	}
	return new(big.Int).Mul(receipt.EffectiveGasPrice, new(big.Int).SetUint64(receipt.GasUsed))
}
