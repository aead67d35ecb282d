package common

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// StdinIsTerminal reports whether stdin is attached to a terminal.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

type promptAnswer struct {
	line string
	err  error
}

// Confirm asks a yes/no question on out and reads the answer from in. Only "y" and "yes" accept.
// If ctx is cancelled before an answer arrives it returns ErrAborted; the pending read is abandoned.
func Confirm(ctx context.Context, in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	answers := make(chan promptAnswer, 1)
	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		answers <- promptAnswer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(out)
		return false, ErrAborted
	case a := <-answers:
		if a.err != nil && a.err != io.EOF {
			return false, a.err
		}
		switch strings.ToLower(strings.TrimSpace(a.line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

// ReadPassword prompts on stderr and reads a password from the terminal without echo.
func ReadPassword(prompt string) (string, error) {
	if !StdinIsTerminal() {
		return "", fmt.Errorf("a password is required but stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}
