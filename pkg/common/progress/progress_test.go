package progress

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"evm-tools/pkg/common/iface"
	"evm-tools/pkg/common/logger"
)

type lineLogger struct {
	logger.NopLogger
	lines []string
}

func (l *lineLogger) Info(msg string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(msg, args...))
}

var _ iface.Logger = (*lineLogger)(nil)

func TestTTYProgressRender(t *testing.T) {
	var buf bytes.Buffer
	p := NewTTYProgress(&buf)

	p.Set("supply", 50, "5/10")
	p.Render()
	first := buf.String()
	assert.Contains(t, first, "supply [")
	assert.Contains(t, first, " 50% 5/10")
	assert.Equal(t, 15, strings.Count(first, "="))

	buf.Reset()
	p.Set("supply", 150, "done")
	p.Render()
	second := buf.String()
	assert.True(t, strings.HasPrefix(second, "\033[1A\r\033[2K"), "previous bar is erased first")
	assert.Contains(t, second, "100% done")

	buf.Reset()
	p.Clear()
	assert.Equal(t, "\033[1A\r\033[2K", buf.String())
}

func TestLogProgressSteps(t *testing.T) {
	log := &lineLogger{}
	p := NewLogProgress(log)

	for _, pct := range []int{1, 5, 9, 10, 12, 25, 100, 100} {
		p.Set("wallets", pct, fmt.Sprintf("at %d", pct))
		p.Render()
	}

	assert.Equal(t, []string{
		"wallets: 1% at 1",
		"wallets: 10% at 10",
		"wallets: 25% at 25",
		"wallets: 100% at 100",
	}, log.lines)

	p.Clear()
	p.Set("wallets", 3, "again")
	p.Render()
	assert.Equal(t, "wallets: 3% again", log.lines[len(log.lines)-1], "clear resets the step memory")
}
