package chain

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Funder is the account that pays for a batch. The key never leaves this struct.
type Funder struct {
	Address common.Address
	ChainID *big.Int

	key    *ecdsa.PrivateKey
	signer types.Signer
}

func NewFunder(key *ecdsa.PrivateKey, chainID *big.Int) *Funder {
	return &Funder{
		Address: crypto.PubkeyToAddress(key.PublicKey),
		ChainID: new(big.Int).Set(chainID),
		key:     key,
		signer:  types.LatestSignerForChainID(chainID),
	}
}

// Sign signs tx for the funder's chain.
func (f *Funder) Sign(tx *types.Transaction) (*types.Transaction, error) {
	return types.SignTx(tx, f.signer, f.key)
}

// ParsePrivateKey accepts a hex secp256k1 key with or without the 0x prefix.
func ParsePrivateKey(s string) (*ecdsa.PrivateKey, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(h) == 0 {
		return nil, errors.New("empty private key")
	}
	key, err := crypto.HexToECDSA(h)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

// ParseAddress parses a hex address. Mixed-case input must carry a valid EIP-55 checksum.
func ParseAddress(raw string) (common.Address, error) {
	s := strings.TrimSpace(raw)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("not a hex address: %q", raw)
	}
	h := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if h != strings.ToLower(h) && h != strings.ToUpper(h) {
		mixed, err := common.NewMixedcaseAddressFromString("0x" + h)
		if err != nil {
			return common.Address{}, fmt.Errorf("invalid address %q: %w", raw, err)
		}
		if !mixed.ValidChecksum() {
			return common.Address{}, fmt.Errorf("bad EIP-55 checksum: %q", raw)
		}
	}
	return common.HexToAddress(h), nil
}

// MaskHex hides the middle of a secret for display.
func MaskHex(h string) string {
	h = strings.TrimSpace(h)
	if len(h) <= 10 {
		return "***"
	}
	return h[:6] + "…" + h[len(h)-4:]
}
