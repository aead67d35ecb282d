package supply

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"evm-tools/pkg/chain"
)

// fakeChain is a scripted chain.Client. Behaviour is keyed by recipient address.
type fakeChain struct {
	mu sync.Mutex

	chainID  *big.Int
	gasPrice *big.Int
	nonce    uint64
	balance  *big.Int

	// failures before a query succeeds
	gasPriceFailures int
	nonceFailures    int
	balanceFailures  int
	queryErr         error

	rejectTo  map[common.Address]error
	revertTo  map[common.Address]bool
	pendingTo map[common.Address]bool
	// receiptErrs makes the first n receipt lookups fail with a non-NotFound error
	receiptErrs int
	// beforeSend runs before each submission is recorded
	beforeSend func(tx *types.Transaction)

	sent     []*types.Transaction
	receipts map[common.Hash]*types.Receipt
	block    uint64

	gasPriceCalls int
	nonceCalls    int
	balanceCalls  int
	receiptCalls  int
}

var _ chain.Client = (*fakeChain)(nil)

func newFakeChain() *fakeChain {
	return &fakeChain{
		chainID:   big.NewInt(421614),
		gasPrice:  big.NewInt(10),
		nonce:     5,
		balance:   new(big.Int).Mul(big.NewInt(100), chain.WeiPerEther),
		queryErr:  errors.New("connection reset by peer"),
		rejectTo:  make(map[common.Address]error),
		revertTo:  make(map[common.Address]bool),
		pendingTo: make(map[common.Address]bool),
		receipts:  make(map[common.Hash]*types.Receipt),
		block:     100,
	}
}

func (f *fakeChain) ChainID(context.Context) (*big.Int, error) {
	return new(big.Int).Set(f.chainID), nil
}

func (f *fakeChain) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gasPriceCalls++
	if f.gasPriceFailures > 0 {
		f.gasPriceFailures--
		return nil, f.queryErr
	}
	return new(big.Int).Set(f.gasPrice), nil
}

func (f *fakeChain) PendingNonceAt(ctx context.Context, _ common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nonceCalls++
	if f.nonceFailures > 0 {
		f.nonceFailures--
		return 0, f.queryErr
	}
	return f.nonce, nil
}

func (f *fakeChain) BalanceAt(ctx context.Context, _ common.Address, _ *big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balanceCalls++
	if f.balanceFailures > 0 {
		f.balanceFailures--
		return nil, f.queryErr
	}
	return new(big.Int).Set(f.balance), nil
}

func (f *fakeChain) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if f.beforeSend != nil {
		f.beforeSend(tx)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	to := *tx.To()
	if err, ok := f.rejectTo[to]; ok {
		return err
	}
	f.sent = append(f.sent, tx)
	if f.pendingTo[to] {
		return nil
	}

	f.block++
	status := types.ReceiptStatusSuccessful
	if f.revertTo[to] {
		status = types.ReceiptStatusFailed
	}
	f.receipts[tx.Hash()] = &types.Receipt{
		Status:            status,
		TxHash:            tx.Hash(),
		GasUsed:           TransferGasLimit,
		EffectiveGasPrice: new(big.Int).Set(tx.GasFeeCap()),
		BlockNumber:       new(big.Int).SetUint64(f.block),
	}
	return nil
}

func (f *fakeChain) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receiptCalls++
	if f.receiptErrs > 0 {
		f.receiptErrs--
		return nil, f.queryErr
	}
	receipt, ok := f.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (f *fakeChain) sentNonces() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]uint64, 0, len(f.sent))
	for _, tx := range f.sent {
		out = append(out, tx.Nonce())
	}
	return out
}

func (f *fakeChain) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// recordingReporter keeps everything it was handed.
type recordingReporter struct {
	results  []TransferResult
	progress []Progress
	summary  *BatchSummary
}

func (r *recordingReporter) Report(result TransferResult, p Progress) {
	r.results = append(r.results, result)
	r.progress = append(r.progress, p)
}

func (r *recordingReporter) Summary(s BatchSummary) {
	r.summary = &s
}
