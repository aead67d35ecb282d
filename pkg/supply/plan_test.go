package supply

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evm-tools/pkg/chain"
)

func mustEther(t *testing.T, s string) *big.Int {
	t.Helper()
	v, err := chain.ParseEther(s)
	require.NoError(t, err)
	return v
}

func TestNewTransferPlan(t *testing.T) {
	quote := NewFeeQuote(big.NewInt(10), big.NewInt(1))
	total := mustEther(t, "1.0")

	plan, err := NewTransferPlan(total, 2, quote)
	require.NoError(t, err)

	share := mustEther(t, "0.5")
	buffer := big.NewInt(11 * 21000)
	assert.Equal(t, share, plan.Share)
	assert.Equal(t, buffer, plan.FeeBuffer)
	assert.Equal(t, new(big.Int).Add(share, buffer), plan.PerRecipientAmount)
	assert.Equal(t, new(big.Int).Mul(plan.PerRecipientAmount, big.NewInt(2)), plan.TotalRequired)
	assert.Equal(t, 2, plan.RecipientCount)
}

func TestNewTransferPlanProperties(t *testing.T) {
	quote := NewFeeQuote(big.NewInt(25_000_000_000), big.NewInt(1_000_000_000))

	for _, tc := range []struct {
		total string
		count int
	}{
		{"1", 1},
		{"1", 3},
		{"0.000000000000000007", 3},
		{"12.345678901234567891", 7},
		{"1000", 997},
	} {
		t.Run(tc.total, func(t *testing.T) {
			total := mustEther(t, tc.total)
			plan, err := NewTransferPlan(total, tc.count, quote)
			require.NoError(t, err)

			n := big.NewInt(int64(tc.count))
			assert.Equal(t, new(big.Int).Mul(plan.PerRecipientAmount, n), plan.TotalRequired)
			assert.Equal(t, 1, plan.PerRecipientAmount.Cmp(new(big.Int).Quo(total, n)),
				"per-recipient amount must exceed the plain share")

			// only the division remainder is left behind
			distributed := new(big.Int).Mul(plan.Share, n)
			remainder := new(big.Int).Sub(total, distributed)
			assert.True(t, remainder.Sign() >= 0)
			assert.True(t, remainder.Cmp(n) < 0)
		})
	}
}

func TestNewTransferPlanDeterministic(t *testing.T) {
	quote := NewFeeQuote(big.NewInt(7), big.NewInt(3))
	a, err := NewTransferPlan(big.NewInt(1_000_003), 4, quote)
	require.NoError(t, err)
	b, err := NewTransferPlan(big.NewInt(1_000_003), 4, quote)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNewTransferPlanInvalid(t *testing.T) {
	quote := NewFeeQuote(big.NewInt(10), big.NewInt(1))

	tests := []struct {
		name  string
		total *big.Int
		count int
		quote FeeQuote
	}{
		{"zero total", big.NewInt(0), 2, quote},
		{"negative total", big.NewInt(-1), 2, quote},
		{"nil total", nil, 2, quote},
		{"no recipients", big.NewInt(100), 0, quote},
		{"zero max fee", big.NewInt(100), 1, NewFeeQuote(big.NewInt(0), big.NewInt(0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransferPlan(tt.total, tt.count, tt.quote)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidAmount))
			assert.Equal(t, KindInvalidAmount, KindOf(err))
		})
	}
}
