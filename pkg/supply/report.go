package supply

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/olekukonko/tablewriter"

	"evm-tools/pkg/chain"
	"evm-tools/pkg/common/iface"
	"evm-tools/pkg/telemetry"
)

// Reporter receives each result as soon as it is produced, then the batch summary.
type Reporter interface {
	Report(result TransferResult, progress Progress)
	Summary(summary BatchSummary)
}

// MultiReporter fans out to every reporter in order.
type MultiReporter []Reporter

func (m MultiReporter) Report(result TransferResult, progress Progress) {
	for _, r := range m {
		r.Report(result, progress)
	}
}

func (m MultiReporter) Summary(summary BatchSummary) {
	for _, r := range m {
		r.Summary(summary)
	}
}

// LogReporter writes one line per transfer with the running tally.
type LogReporter struct {
	log iface.Logger
}

func NewLogReporter(log iface.Logger) *LogReporter {
	return &LogReporter{log: log}
}

func (l *LogReporter) Report(r TransferResult, p Progress) {
	tally := fmt.Sprintf("[%d/%d ok=%d failed=%d]", p.Done, p.Total, p.Succeeded, p.Failed)

	if r.Success {
		l.log.InfoWithActor(iface.ActorFunder, "🏹 %s Sent %s ETH | TO %s | TX %s | FEE %s GWEI",
			tally, chain.FormatEther(r.Amount), r.Address.Hex(), r.TxHash.Hex(), chain.FormatGwei(r.EffectiveFeePaid))
	} else {
		switch r.Kind {
		case KindTransactionPending:
			l.log.WarnWithActor(iface.ActorFunder, "⏳ %s %s pending, outcome unknown | TX %s | %v", tally, r.Recipient, r.TxHash.Hex(), r.Err)
		case KindCancelled:
			l.log.WarnWithActor(iface.ActorFunder, "⏹️  %s %s skipped: batch interrupted", tally, r.Recipient)
		default:
			l.log.ErrorWithActor(iface.ActorFunder, "❌ %s %s failed: %v", tally, r.Recipient, r.Err)
		}
	}

	if pl, ok := l.log.(iface.ProgressLogger); ok {
		pl.SetProgress("supply", p.Percent(), fmt.Sprintf("%d/%d", p.Done, p.Total))
		pl.PrintProgress()
	}
}

func (l *LogReporter) Summary(s BatchSummary) {
	if pl, ok := l.log.(iface.ProgressLogger); ok {
		pl.ClearProgress()
	}
	l.log.TitleWithActor(iface.ActorFunder, "📦 Batch %s finished: %d recipients, %d succeeded, %d failed, %s ETH fees",
		s.RunID, s.Recipients, s.Succeeded, s.Failed, chain.FormatEther(s.TotalFeeSpent))
}

// CSVReporter appends one row per transfer and flushes after every row.
type CSVReporter struct {
	mu      sync.Mutex
	w       *csv.Writer
	started bool
	err     error
}

var csvHeader = []string{"index", "recipient", "status", "nonce", "tx_hash", "amount_wei", "fee_wei", "error"}

func NewCSVReporter(w io.Writer) *CSVReporter {
	return &CSVReporter{w: csv.NewWriter(w)}
}

func (c *CSVReporter) Report(r TransferResult, _ Progress) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		c.write(csvHeader)
		c.started = true
	}

	nonce := ""
	if r.Nonce != nil {
		nonce = strconv.FormatUint(*r.Nonce, 10)
	}
	hash := ""
	if r.TxHash != (common.Hash{}) {
		hash = r.TxHash.Hex()
	}
	c.write([]string{
		strconv.Itoa(r.Index),
		r.Recipient,
		r.Status(),
		nonce,
		hash,
		bigString(r.Amount),
		bigString(r.EffectiveFeePaid),
		r.ErrorString(),
	})
}

func (c *CSVReporter) Summary(BatchSummary) {}

// Err returns the first write error, if any.
func (c *CSVReporter) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *CSVReporter) write(row []string) {
	if c.err != nil {
		return
	}
	if err := c.w.Write(row); err != nil {
		c.err = err
		return
	}
	c.w.Flush()
	c.err = c.w.Error()
}

// FailedReporter writes the raw line of every failed recipient so the subset can be retried.
type FailedReporter struct {
	w   io.Writer
	err error
}

func NewFailedReporter(w io.Writer) *FailedReporter {
	return &FailedReporter{w: w}
}

func (f *FailedReporter) Report(r TransferResult, _ Progress) {
	if r.Success || f.err != nil {
		return
	}
	_, f.err = fmt.Fprintln(f.w, r.Recipient)
}

func (f *FailedReporter) Summary(BatchSummary) {}

func (f *FailedReporter) Err() error { return f.err }

// MetricsReporter records per-kind counters on the command's metrics context.
type MetricsReporter struct {
	metrics *telemetry.MetricsContext
}

func NewMetricsReporter(metrics *telemetry.MetricsContext) *MetricsReporter {
	return &MetricsReporter{metrics: metrics}
}

func (m *MetricsReporter) Report(r TransferResult, _ Progress) {
	m.metrics.AddMetricWithDimensions("supply.transfer", 1, map[string]string{"status": r.Status()})
}

func (m *MetricsReporter) Summary(s BatchSummary) {
	m.metrics.AddMetric("supply.recipients", float64(s.Recipients))
	m.metrics.AddMetric("supply.succeeded", float64(s.Succeeded))
	m.metrics.AddMetric("supply.failed", float64(s.Failed))
	fee, _ := new(big.Float).SetInt(s.TotalFeeSpent).Float64()
	m.metrics.AddMetric("supply.fee_spent_wei", fee)
}

// TableSummary renders the final summary as a table.
type TableSummary struct {
	w io.Writer
}

func NewTableSummary(w io.Writer) *TableSummary {
	return &TableSummary{w: w}
}

func (t *TableSummary) Report(TransferResult, Progress) {}

func (t *TableSummary) Summary(s BatchSummary) {
	RenderSummary(t.w, s)
}

// RenderSummary writes s as a two-column table.
func RenderSummary(w io.Writer, s BatchSummary) {
	data := [][]string{
		{"Run", s.RunID},
		{"Recipients", strconv.Itoa(s.Recipients)},
		{"Succeeded", strconv.Itoa(s.Succeeded)},
		{"Failed", strconv.Itoa(s.Failed)},
	}

	kinds := make([]string, 0, len(s.ByKind))
	for k := range s.ByKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		data = append(data, []string{"  " + k, strconv.Itoa(s.ByKind[Kind(k)])})
	}

	data = append(data,
		[]string{"Total sent (ETH)", chain.FormatEther(s.TotalSent)},
		[]string{"Total fee spent (ETH)", chain.FormatEther(s.TotalFeeSpent)},
		[]string{"Nonces", fmt.Sprintf("first=%d next=%d", s.FirstNonce, s.NextNonce)},
	)

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(data)
	table.Render()
}

func bigString(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}
