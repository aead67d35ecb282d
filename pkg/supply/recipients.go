package supply

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Recipient is one line of the input list. Raw is parsed lazily by the dispatcher
// so that a malformed line becomes a per-recipient failure instead of aborting the batch.
type Recipient struct {
	// Index is the 1-based line number in the source file.
	Index int
	Raw   string
}

// ParseRecipients reads one address per line. Blank lines and lines starting with '#' are skipped.
func ParseRecipients(r io.Reader) ([]Recipient, error) {
	var out []Recipient
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, Recipient{Index: lineNo, Raw: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipients: %w", err)
	}
	return out, nil
}

// ReadRecipients loads the recipient list from path.
func ReadRecipients(path string) ([]Recipient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallets file: %w", err)
	}
	defer f.Close()
	return ParseRecipients(f)
}
