package supply

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"evm-tools/pkg/chain"
)

// TransferGasLimit is the intrinsic gas of a plain value transfer.
const TransferGasLimit = 21000

// FeeQuote holds the EIP-1559 fee parameters used for every transaction in a batch.
type FeeQuote struct {
	BaseFee      *big.Int
	PriorityFee  *big.Int
	MaxFeePerGas *big.Int
}

func NewFeeQuote(baseFee, priorityFee *big.Int) FeeQuote {
	return FeeQuote{
		BaseFee:      new(big.Int).Set(baseFee),
		PriorityFee:  new(big.Int).Set(priorityFee),
		MaxFeePerGas: new(big.Int).Add(baseFee, priorityFee),
	}
}

// TransferFee is the most a single transfer can cost in gas.
func (q FeeQuote) TransferFee() *big.Int {
	return new(big.Int).Mul(q.MaxFeePerGas, big.NewInt(TransferGasLimit))
}

// Connect dials url and probes the chain ID. Any failure is EndpointUnavailable.
func Connect(ctx context.Context, url string, opts Options) (*ethclient.Client, *big.Int, error) {
	opts = opts.withDefaults()

	client, err := chain.Dial(ctx, url, opts.DialTimeout)
	if err != nil {
		return nil, nil, newError(KindEndpointUnavailable, "dial", err)
	}

	chainID, err := withRetry(ctx, opts, client.ChainID)
	if err != nil {
		client.Close()
		return nil, nil, newError(KindEndpointUnavailable, "eth_chainId", err)
	}
	return client, chainID, nil
}

// EstimateFees returns the fee quote for the batch and the funder's pending nonce.
func EstimateFees(ctx context.Context, client chain.Client, funder common.Address, opts Options) (FeeQuote, uint64, error) {
	opts = opts.withDefaults()
	if opts.PriorityFee.Sign() <= 0 {
		return FeeQuote{}, 0, newError(KindInvalidAmount, "priority fee", fmt.Errorf("must be positive, got %s", opts.PriorityFee))
	}

	baseFee, err := withRetry(ctx, opts, client.SuggestGasPrice)
	if err != nil {
		return FeeQuote{}, 0, newError(KindRPCQueryFailed, "eth_gasPrice", err)
	}

	nonce, err := withRetry(ctx, opts, func(ctx context.Context) (uint64, error) {
		return client.PendingNonceAt(ctx, funder)
	})
	if err != nil {
		return FeeQuote{}, 0, newError(KindRPCQueryFailed, "eth_getTransactionCount", err)
	}

	return NewFeeQuote(baseFee, opts.PriorityFee), nonce, nil
}

// withRetry runs a read-only query with bounded retries. Context errors are not retried.
func withRetry[T any](ctx context.Context, opts Options, query func(context.Context) (T, error)) (T, error) {
	return retry.DoWithData(
		func() (T, error) {
			return query(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(opts.RPCRetries),
		retry.Delay(opts.RetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}),
	)
}
