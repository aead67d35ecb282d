package chain

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Anvil's first dev account.
const testKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestParsePrivateKey(t *testing.T) {
	key, err := ParsePrivateKey(testKey)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), crypto.PubkeyToAddress(key.PublicKey))

	_, err = ParsePrivateKey(strings.TrimPrefix(testKey, "0x"))
	require.NoError(t, err)

	_, err = ParsePrivateKey("  ")
	assert.Error(t, err)

	_, err = ParsePrivateKey("0x1234")
	assert.Error(t, err)
}

func TestFunderSign(t *testing.T) {
	key, err := ParsePrivateKey(testKey)
	require.NoError(t, err)
	funder := NewFunder(key, big.NewInt(421614))

	to := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   big.NewInt(421614),
		Nonce:     7,
		To:        &to,
		Value:     big.NewInt(1),
		Gas:       21000,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(2),
	})

	signed, err := funder.Sign(tx)
	require.NoError(t, err)

	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(421614)), signed)
	require.NoError(t, err)
	assert.Equal(t, funder.Address, sender)
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		valid bool
	}{
		{"checksummed", "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", true},
		{"lowercase", "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", true},
		{"uppercase", "0x70997970C51812DC3A010C7D01B50E0D17DC79C8", true},
		{"no prefix", "70997970c51812dc3a010c7d01b50e0d17dc79c8", true},
		{"padded", "  0x70997970c51812dc3a010c7d01b50e0d17dc79c8\r", true},
		{"bad checksum", "0x70997970c51812DC3A010C7d01b50e0d17dc79C8", false},
		{"short", "0x1234", false},
		{"garbage", "not-an-address", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := ParseAddress(tt.in)
			if !tt.valid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"), addr)
		})
	}
}

func TestMaskHex(t *testing.T) {
	assert.Equal(t, "0xac09…ff80", MaskHex(testKey))
	assert.Equal(t, "***", MaskHex("0x12"))
}
