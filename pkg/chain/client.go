package chain

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client is the part of the JSON-RPC surface used when funding accounts.
type Client interface {
	ChainID(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

var _ Client = (*ethclient.Client)(nil)

// DefaultDialTimeout bounds every HTTP round trip to the endpoint.
const DefaultDialTimeout = 30 * time.Second

// Dial opens an ethclient against url. HTTP transports get a per-request timeout.
// Dialing is lazy for HTTP, so callers should probe the endpoint before relying on it.
func Dial(ctx context.Context, url string, timeout time.Duration) (*ethclient.Client, error) {
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	rc, err := rpc.DialOptions(ctx, url, rpc.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	return ethclient.NewClient(rc), nil
}
