package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// ScryptStrength picks the keystore KDF cost.
type ScryptStrength int

const (
	ScryptStandard ScryptStrength = iota
	// ScryptLight is much faster to decrypt and meant for tests and throwaway wallets.
	ScryptLight
)

func (s ScryptStrength) params() (n, p int) {
	if s == ScryptLight {
		return keystore.LightScryptN, keystore.LightScryptP
	}
	return keystore.StandardScryptN, keystore.StandardScryptP
}

// EncryptKey encodes key as a Web3 Secret Storage v3 JSON document.
func EncryptKey(key *ecdsa.PrivateKey, password string, strength ScryptStrength) ([]byte, error) {
	n, p := strength.params()
	k := &keystore.Key{
		Id:         uuid.New(),
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: key,
	}
	return keystore.EncryptKey(k, password, n, p)
}

// SaveKeystore writes an encrypted keystore file to path. path must end in .json and must not exist.
func SaveKeystore(key *ecdsa.PrivateKey, path, password string, strength ScryptStrength) error {
	if filepath.Ext(path) != ".json" || len(filepath.Base(path)) < 6 {
		return errors.New("invalid path: must include full file name ending in .json")
	}
	data, err := EncryptKey(key, password, strength)
	if err != nil {
		return fmt.Errorf("failed to encrypt key: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create keystore file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write keystore file: %w", err)
	}
	return f.Close()
}

// LoadKeystore decrypts the keystore file at path.
func LoadKeystore(path, password string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore: %w", err)
	}
	key, err := keystore.DecryptKey(data, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore %s: %w", path, err)
	}
	return key.PrivateKey, nil
}

// KeystoreFileName names a keystore after its address, e.g. 0xAbC...json.
func KeystoreFileName(w Wallet) string {
	return w.Address.Hex() + ".json"
}

// SaveKeystores writes one keystore per wallet into dir and returns the paths.
func SaveKeystores(dir string, wallets []Wallet, password string, strength ScryptStrength) ([]string, error) {
	paths := make([]string, 0, len(wallets))
	for _, w := range wallets {
		path := filepath.Join(dir, KeystoreFileName(w))
		if err := SaveKeystore(w.PrivateKey, path, password, strength); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
