package supply

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TransferResult is the outcome for one recipient. It is never modified after it is reported.
type TransferResult struct {
	Index     int
	Recipient string
	Address   common.Address
	Amount    *big.Int

	Success bool
	Kind    Kind
	Err     error

	// Nonce is nil when the attempt did not consume a nonce.
	Nonce       *uint64
	TxHash      common.Hash
	BlockNumber uint64
	// EffectiveFeePaid is EffectiveGasPrice * GasUsed from the receipt, nil when unknown.
	EffectiveFeePaid *big.Int
}

// Status is a short label for reports: "ok", or the failure kind.
func (r TransferResult) Status() string {
	if r.Success {
		return "ok"
	}
	return string(r.Kind)
}

func (r TransferResult) ErrorString() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Progress holds the running tally handed to reporters with every result.
type Progress struct {
	Done      int
	Total     int
	Succeeded int
	Failed    int
}

func (p *Progress) add(r TransferResult) {
	p.Done++
	if r.Success {
		p.Succeeded++
	} else {
		p.Failed++
	}
}

// Percent is the share of recipients processed so far.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 100
	}
	return p.Done * 100 / p.Total
}

// BatchSummary is emitted once after the last recipient.
type BatchSummary struct {
	RunID         string
	Recipients    int
	Succeeded     int
	Failed        int
	ByKind        map[Kind]int
	TotalSent     *big.Int
	TotalFeeSpent *big.Int
	FirstNonce    uint64
	NextNonce     uint64
}

// Summarize folds results into a BatchSummary.
func Summarize(runID string, results []TransferResult, firstNonce, nextNonce uint64) BatchSummary {
	s := BatchSummary{
		RunID:         runID,
		Recipients:    len(results),
		ByKind:        make(map[Kind]int),
		TotalSent:     new(big.Int),
		TotalFeeSpent: new(big.Int),
		FirstNonce:    firstNonce,
		NextNonce:     nextNonce,
	}
	for _, r := range results {
		if r.Success {
			s.Succeeded++
			if r.Amount != nil {
				s.TotalSent.Add(s.TotalSent, r.Amount)
			}
		} else {
			s.Failed++
			s.ByKind[r.Kind]++
		}
		// reverted transactions still pay for gas
		if r.EffectiveFeePaid != nil {
			s.TotalFeeSpent.Add(s.TotalFeeSpent, r.EffectiveFeePaid)
		}
	}
	return s
}
