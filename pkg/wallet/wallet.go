package wallet

import (
	"crypto/ecdsa"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet is a freshly generated keypair.
type Wallet struct {
	Address    common.Address
	PrivateKey *ecdsa.PrivateKey
}

// PrivateKeyHex returns the 0x-prefixed 32-byte private key.
func (w Wallet) PrivateKeyHex() string {
	return hexutil.Encode(crypto.FromECDSA(w.PrivateKey))
}

// Generate creates n new secp256k1 keypairs.
func Generate(n int) ([]Wallet, error) {
	if n <= 0 {
		return nil, fmt.Errorf("wallet count must be positive, got %d", n)
	}
	out := make([]Wallet, 0, n)
	for i := 0; i < n; i++ {
		key, err := crypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate key %d: %w", i, err)
		}
		out = append(out, Wallet{Address: crypto.PubkeyToAddress(key.PublicKey), PrivateKey: key})
	}
	return out, nil
}

// CSVHeader is the first row of every wallet file.
var CSVHeader = []string{"Public Key", "Private Key"}

// DefaultFileName is created_evm_<unix seconds>.csv.
func DefaultFileName(now time.Time) string {
	return fmt.Sprintf("created_evm_%d.csv", now.Unix())
}

// WriteCSV writes a header and one row per wallet.
func WriteCSV(w io.Writer, wallets []Wallet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, wl := range wallets {
		if err := cw.Write([]string{wl.Address.Hex(), wl.PrivateKeyHex()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes wallets into a new file under dir and returns its path.
// The file is private to the owner and never overwritten.
func SaveCSV(dir string, wallets []Wallet, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, DefaultFileName(now))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create wallet file: %w", err)
	}
	if err := WriteCSV(f, wallets); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write wallet file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// WriteAddresses writes one address per line, ready to be used as a supply wallets file.
func WriteAddresses(w io.Writer, wallets []Wallet) error {
	for _, wl := range wallets {
		if _, err := fmt.Fprintln(w, wl.Address.Hex()); err != nil {
			return err
		}
	}
	return nil
}
