package supply

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"evm-tools/pkg/chain"
)

// CheckBalance reads the funder's latest balance and refuses the plan when it cannot be covered.
func CheckBalance(ctx context.Context, client chain.Client, funder common.Address, plan TransferPlan, opts Options) (*big.Int, error) {
	opts = opts.withDefaults()

	balance, err := withRetry(ctx, opts, func(ctx context.Context) (*big.Int, error) {
		return client.BalanceAt(ctx, funder, nil)
	})
	if err != nil {
		return nil, newError(KindRPCQueryFailed, "eth_getBalance", err)
	}

	if balance.Cmp(plan.TotalRequired) < 0 {
		return balance, newError(KindInsufficientFunds, "balance check", &InsufficientFundsError{
			Balance:  new(big.Int).Set(balance),
			Required: new(big.Int).Set(plan.TotalRequired),
		})
	}
	return balance, nil
}
