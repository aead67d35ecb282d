package commands

import (
	"bytes"
	"context"
	"encoding/csv"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"evm-tools/pkg/chain"
	"evm-tools/pkg/common/logger"
	"evm-tools/pkg/supply"
)

const supplierKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var (
	supplierAddr = gethcommon.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	alice        = gethcommon.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	bob          = gethcommon.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
)

// useSimulatedChain points DialChain at a fresh in-process backend that mines every few milliseconds.
func useSimulatedChain(t *testing.T, funderBalance *big.Int) simulated.Client {
	t.Helper()

	backend := simulated.NewBackend(types.GenesisAlloc{
		supplierAddr: {Balance: funderBalance},
	})
	client := backend.Client()

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				backend.Commit()
			}
		}
	}()

	prev := DialChain
	DialChain = func(ctx context.Context, _ string, _ supply.Options) (chain.Client, *big.Int, func(), error) {
		id, err := client.ChainID(ctx)
		if err != nil {
			return nil, nil, nil, err
		}
		return client, id, func() {}, nil
	}

	t.Cleanup(func() {
		DialChain = prev
		close(stop)
		<-done
		backend.Close()
	})
	return client
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), chain.WeiPerEther)
}

func supplyArgs(dir string, extra ...string) []string {
	args := []string{
		"evm-tools", "supply",
		"--wallets-path", filepath.Join(dir, "wallets.txt"),
		"--private-key-path", filepath.Join(dir, "key.txt"),
		"--rpc-url", "http://simulated",
		"--receipt-timeout", "10s",
		"--poll-interval", "10ms",
		"--yes",
	}
	return append(args, extra...)
}

func TestSupplyCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping simulated backend test in short mode")
	}
	client := useSimulatedChain(t, ether(100))

	dir := t.TempDir()
	writeFile(t, dir, "wallets.txt", strings.Join([]string{
		"# recipients",
		alice.Hex(),
		"not-an-address",
		"",
		bob.Hex(),
	}, "\n"))
	writeFile(t, dir, "key.txt", supplierKey+"\n")
	report := filepath.Join(dir, "report.csv")
	failed := filepath.Join(dir, "failed.txt")

	var out bytes.Buffer
	app := NewTestApp(&out, SupplyCommand)
	err := app.Run(supplyArgs(dir, "--amount", "3", "--report", report, "--failed-out", failed))

	require.Error(t, err, "one invalid recipient makes the batch a partial failure")
	exitErr, ok := err.(cli.ExitCoder)
	require.True(t, ok, "expected an exit-coded error, got %T: %v", err, err)
	assert.Equal(t, ExitPartialFailure, exitErr.ExitCode())
	assert.Contains(t, err.Error(), "1 of 3 transfers failed")

	for _, addr := range []gethcommon.Address{alice, bob} {
		bal, err := client.BalanceAt(context.Background(), addr, nil)
		require.NoError(t, err)
		assert.True(t, bal.Cmp(chain.WeiPerEther) >= 0, "%s got %s wei", addr.Hex(), bal)
	}

	nonce, err := client.PendingNonceAt(context.Background(), supplierAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), nonce, "the invalid address must not consume a nonce")

	f, err := os.Open(report)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"2", "3", "5"}, []string{rows[1][0], rows[2][0], rows[3][0]}, "index is the line in the wallets file")
	assert.Equal(t, "ok", rows[1][2])
	assert.Equal(t, string(supply.KindInvalidAddress), rows[2][2])
	assert.Equal(t, "ok", rows[3][2])

	failedData, err := os.ReadFile(failed)
	require.NoError(t, err)
	assert.Equal(t, "not-an-address\n", string(failedData))

	assert.Contains(t, out.String(), "Succeeded")
}

func TestSupplyCommandInsufficientFunds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping simulated backend test in short mode")
	}
	client := useSimulatedChain(t, ether(1))

	dir := t.TempDir()
	writeFile(t, dir, "wallets.txt", alice.Hex()+"\n"+bob.Hex()+"\n")
	writeFile(t, dir, "key.txt", supplierKey)

	var out bytes.Buffer
	err := NewTestApp(&out, SupplyCommand).Run(supplyArgs(dir, "--amount", "5"))

	require.Error(t, err)
	assert.ErrorIs(t, err, supply.ErrInsufficientFunds)

	nonce, err := client.PendingNonceAt(context.Background(), supplierAddr)
	require.NoError(t, err)
	assert.Zero(t, nonce, "nothing may be sent when funds are short")
}

func TestSupplyCommandInputErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "wallets.txt", alice.Hex()+"\n")
	writeFile(t, dir, "key.txt", supplierKey)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"negative amount", supplyArgs(dir, "--amount", "-1"), "InvalidAmount"},
		{"too many decimals", supplyArgs(dir, "--amount", "0.0000000000000000001"), "InvalidAmount"},
		{"bad nonce policy", supplyArgs(dir, "--amount", "1", "--nonce-policy", "sometimes"), "nonce policy"},
		{"bad priority fee", supplyArgs(dir, "--amount", "1", "--priority-fee-gwei", "abc"), "InvalidAmount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialed := false
			prev := DialChain
			DialChain = func(context.Context, string, supply.Options) (chain.Client, *big.Int, func(), error) {
				dialed = true
				return nil, nil, nil, assert.AnError
			}
			t.Cleanup(func() { DialChain = prev })

			var out bytes.Buffer
			err := NewTestApp(&out, SupplyCommand).Run(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.False(t, dialed, "input errors are caught before connecting")
		})
	}
}

func TestSupplyCommandRootConfigFlags(t *testing.T) {
	t.Setenv("RPC_URL", "")
	t.Setenv("SUPPLIER_PRIVATE_KEY", "")

	dir := t.TempDir()
	wallets := writeFile(t, dir, "wallets.txt", alice.Hex()+"\n")
	cfg := writeFile(t, dir, "evm.yaml", `
supplier_private_key: "`+supplierKey+`"
network:
  - arbitrum-sepolia: https://arb.example/rpc
  - sepolia: https://sepolia.example/rpc
`)

	var dialedURL string
	prev := DialChain
	DialChain = func(_ context.Context, url string, _ supply.Options) (chain.Client, *big.Int, func(), error) {
		dialedURL = url
		return nil, nil, nil, assert.AnError
	}
	t.Cleanup(func() { DialChain = prev })

	tests := []struct {
		name string
		args []string
	}{
		{"long names", []string{"evm-tools", "--config", cfg, "--network", "sepolia", "supply"}},
		{"short names", []string{"evm-tools", "-c", cfg, "-n", "sepolia", "supply"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialedURL = ""
			args := append(tt.args, "--wallets-path", wallets, "--amount", "0.1", "--yes")

			var out bytes.Buffer
			err := NewTestApp(&out, SupplyCommand).Run(args)

			require.ErrorIs(t, err, assert.AnError, "output: %s", out.String())
			assert.Equal(t, "https://sepolia.example/rpc", dialedURL)
		})
	}
}

func TestResolveSupplierKeyOrder(t *testing.T) {
	dir := t.TempDir()
	keyFile := writeFile(t, dir, "key.txt", supplierKey)

	t.Setenv("SUPPLIER_PRIVATE_KEY", "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d")

	run := func(args ...string) gethcommon.Address {
		var got gethcommon.Address
		cmd := &cli.Command{
			Name:  "key",
			Flags: SupplyCommand.Flags,
			Action: func(cCtx *cli.Context) error {
				key, err := resolveSupplierKey(cCtx, nil, logger.NewNopLogger())
				if err != nil {
					return err
				}
				got = chain.NewFunder(key, big.NewInt(1)).Address
				return nil
			},
		}
		var out bytes.Buffer
		require.NoError(t, NewTestApp(&out, cmd).Run(append([]string{"evm-tools", "key", "--amount", "1"}, args...)))
		return got
	}

	assert.Equal(t, supplierAddr, run("--private-key-path", keyFile), "file beats the environment")
	assert.Equal(t, alice, run(), "environment is used when no file is given")
}
