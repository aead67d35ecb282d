package supply

import (
	"errors"
	"fmt"
	"math/big"
)

// TransferPlan is the immutable allocation for one batch. All amounts are wei.
type TransferPlan struct {
	// Share is the recipient's slice of the requested total.
	Share *big.Int
	// FeeBuffer is MaxFeePerGas * TransferGasLimit, added to every transfer.
	FeeBuffer          *big.Int
	PerRecipientAmount *big.Int
	TotalRequired      *big.Int
	RecipientCount     int
}

// NewTransferPlan splits total across count recipients and adds one transfer's worth
// of gas to each share. Integer division leaves any remainder with the funder.
func NewTransferPlan(total *big.Int, count int, quote FeeQuote) (TransferPlan, error) {
	if err := validateAmount(total, count); err != nil {
		return TransferPlan{}, err
	}
	if quote.MaxFeePerGas == nil || quote.MaxFeePerGas.Sign() <= 0 {
		return TransferPlan{}, newError(KindInvalidAmount, "plan", errors.New("max fee per gas must be positive"))
	}

	share := new(big.Int).Quo(total, big.NewInt(int64(count)))
	buffer := quote.TransferFee()
	per := new(big.Int).Add(share, buffer)

	return TransferPlan{
		Share:              share,
		FeeBuffer:          buffer,
		PerRecipientAmount: per,
		TotalRequired:      new(big.Int).Mul(per, big.NewInt(int64(count))),
		RecipientCount:     count,
	}, nil
}

func validateAmount(total *big.Int, count int) error {
	if total == nil || total.Sign() <= 0 {
		return newError(KindInvalidAmount, "plan", fmt.Errorf("total amount must be positive, got %v", total))
	}
	if count <= 0 {
		return newError(KindInvalidAmount, "plan", errors.New("no recipients"))
	}
	return nil
}
