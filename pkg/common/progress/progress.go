package progress

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/term"

	"evm-tools/pkg/common/iface"
)

const barWidth = 30

type entry struct {
	pct   int
	label string
}

// TTYProgress redraws bars in place using carriage returns.
type TTYProgress struct {
	mu    sync.Mutex
	out   io.Writer
	bars  map[string]entry
	lines int
}

func NewTTYProgress(out io.Writer) *TTYProgress {
	return &TTYProgress{out: out, bars: make(map[string]entry)}
}

func (t *TTYProgress) Set(id string, pct int, label string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bars[id] = entry{pct: clamp(pct), label: label}
}

func (t *TTYProgress) Render() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.erase()
	for _, id := range sortedIDs(t.bars) {
		e := t.bars[id]
		filled := e.pct * barWidth / 100
		fmt.Fprintf(t.out, "%s [%s%s] %3d%% %s\n", id, strings.Repeat("=", filled), strings.Repeat(" ", barWidth-filled), e.pct, e.label)
	}
	t.lines = len(t.bars)
}

func (t *TTYProgress) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.erase()
	t.bars = make(map[string]entry)
}

// erase moves the cursor up over the previously rendered bars and clears them.
func (t *TTYProgress) erase() {
	for i := 0; i < t.lines; i++ {
		fmt.Fprint(t.out, "\033[1A\r\033[2K")
	}
	t.lines = 0
}

// LogProgress prints a line only when a bar crosses a 10% step, for non-interactive output.
type LogProgress struct {
	mu     sync.Mutex
	log    iface.Logger
	last   map[string]int
	latest map[string]entry
}

func NewLogProgress(log iface.Logger) *LogProgress {
	return &LogProgress{log: log, last: make(map[string]int), latest: make(map[string]entry)}
}

func (l *LogProgress) Set(id string, pct int, label string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.latest[id] = entry{pct: clamp(pct), label: label}
}

func (l *LogProgress) Render() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range sortedIDs(l.latest) {
		e := l.latest[id]
		step := e.pct / 10 * 10
		if prev, ok := l.last[id]; ok && step <= prev {
			continue
		}
		l.last[id] = step
		l.log.Info("%s: %d%% %s", id, e.pct, e.label)
	}
}

func (l *LogProgress) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last = make(map[string]int)
	l.latest = make(map[string]entry)
}

// IsTTY reports whether stdout is an interactive terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// NewTracker picks a TTY tracker for terminals and a log tracker otherwise.
func NewTracker(log iface.Logger) iface.ProgressTracker {
	if IsTTY() {
		return NewTTYProgress(os.Stdout)
	}
	return NewLogProgress(log)
}

func clamp(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func sortedIDs(m map[string]entry) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
