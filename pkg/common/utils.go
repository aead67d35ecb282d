package common

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

// IsVerboseEnabled checks the --verbose flag on the command or any parent.
func IsVerboseEnabled(cCtx *cli.Context) bool {
	for _, c := range cCtx.Lineage() {
		if c.Bool("verbose") {
			return true
		}
	}
	return false
}

// LookupString returns the value of flag name from the nearest context that set it,
// falling back to the flag's default.
func LookupString(cCtx *cli.Context, name string) string {
	for _, c := range cCtx.Lineage() {
		if c.IsSet(name) {
			return c.String(name)
		}
	}
	return cCtx.String(name)
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ReadFirstLine returns the first non-empty trimmed line of a file.
func ReadFirstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%s is empty", path)
}

// ErrAborted is returned when the operator declines a confirmation prompt.
var ErrAborted = errors.New("aborted by user")
