package supply

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evm-tools/pkg/telemetry"
)

func sampleResults() []TransferResult {
	n0, n1 := uint64(5), uint64(6)
	return []TransferResult{
		{
			Index: 0, Recipient: alice.Hex(), Address: alice, Amount: big.NewInt(1000),
			Success: true, Nonce: &n0, TxHash: common.HexToHash("0x01"), EffectiveFeePaid: big.NewInt(21000),
		},
		{
			Index: 1, Recipient: "junk", Amount: big.NewInt(1000),
			Kind: KindInvalidAddress, Err: newError(KindInvalidAddress, "parse", errors.New("not a hex address")),
		},
		{
			Index: 2, Recipient: bob.Hex(), Address: bob, Amount: big.NewInt(1000),
			Kind: KindTransactionReverted, Err: newError(KindTransactionReverted, "receipt", errors.New("reverted")),
			Nonce: &n1, TxHash: common.HexToHash("0x02"), EffectiveFeePaid: big.NewInt(21000),
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize("run-1", sampleResults(), 5, 7)

	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, 3, s.Recipients)
	assert.Equal(t, 1, s.Succeeded)
	assert.Equal(t, 2, s.Failed)
	assert.Equal(t, big.NewInt(1000), s.TotalSent)
	assert.Equal(t, big.NewInt(42000), s.TotalFeeSpent)
	assert.Equal(t, 1, s.ByKind[KindInvalidAddress])
	assert.Equal(t, 1, s.ByKind[KindTransactionReverted])
}

func TestCSVReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := NewCSVReporter(&buf)
	for i, r := range sampleResults() {
		rep.Report(r, Progress{Done: i + 1, Total: 3})
	}
	require.NoError(t, rep.Err())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"0", alice.Hex(), "ok", "5", common.HexToHash("0x01").Hex(), "1000", "21000", ""}, rows[1])
	assert.Equal(t, "InvalidAddress", rows[2][2])
	assert.Equal(t, "", rows[2][3])
	assert.Contains(t, rows[2][7], "not a hex address")
	assert.Equal(t, "TransactionReverted", rows[3][2])
}

func TestFailedReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := NewFailedReporter(&buf)
	for _, r := range sampleResults() {
		rep.Report(r, Progress{})
	}
	require.NoError(t, rep.Err())
	assert.Equal(t, "junk\n"+bob.Hex()+"\n", buf.String())
}

func TestMetricsReporter(t *testing.T) {
	metrics := telemetry.NewMetricsContext("evm-tools", "supply")
	rep := NewMetricsReporter(metrics)
	for _, r := range sampleResults() {
		rep.Report(r, Progress{})
	}
	rep.Summary(Summarize("run", sampleResults(), 0, 0))

	transfers := metrics.Find("supply.transfer")
	require.Len(t, transfers, 3)
	assert.Equal(t, "ok", transfers[0].Dimensions["status"])
	assert.Equal(t, "InvalidAddress", transfers[1].Dimensions["status"])

	failed := metrics.Find("supply.failed")
	require.Len(t, failed, 1)
	assert.Equal(t, float64(2), failed[0].Value)
	assert.Equal(t, float64(42000), metrics.Find("supply.fee_spent_wei")[0].Value)
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	RenderSummary(&buf, Summarize("run-42", sampleResults(), 5, 7))

	out := buf.String()
	for _, want := range []string{"run-42", "Succeeded", "Failed", "InvalidAddress", "TransactionReverted", "0.000000000000042", "first=5 next=7"} {
		assert.True(t, strings.Contains(out, want), "missing %q in\n%s", want, out)
	}
}

func TestMultiReporterFansOut(t *testing.T) {
	a, b := &recordingReporter{}, &recordingReporter{}
	m := MultiReporter{a, b}
	m.Report(sampleResults()[0], Progress{Done: 1, Total: 1, Succeeded: 1})
	m.Summary(BatchSummary{RunID: "x"})

	assert.Len(t, a.results, 1)
	assert.Len(t, b.results, 1)
	assert.Equal(t, "x", b.summary.RunID)
}
