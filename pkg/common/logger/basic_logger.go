package logger

import (
	"fmt"
	"log"
	"strings"

	"evm-tools/pkg/common/iface"
)

type BasicLogger struct {
	verbose bool
}

func NewLogger(verbose bool) *BasicLogger {
	return &BasicLogger{
		verbose: verbose,
	}
}

func (l *BasicLogger) Title(msg string, args ...any) {
	formatted := fmt.Sprintf(msg, args...)
	log.Printf("\n%s\n", formatted)
}

func (l *BasicLogger) Info(msg string, args ...any) {
	printLines("", msg, args...)
}

func (l *BasicLogger) Warn(msg string, args ...any) {
	printLines("[Warning] ", msg, args...)
}

func (l *BasicLogger) Error(msg string, args ...any) {
	printLines("[Error] ", msg, args...)
}

func (l *BasicLogger) Debug(msg string, args ...any) {
	// skip debug when !verbose
	if !l.verbose {
		return
	}
	printLines("Debug: ", msg, args...)
}

// printLines formats once and logs each line with the prefix.
func printLines(prefix, msg string, args ...any) {
	formatted := fmt.Sprintf(msg, args...)
	for _, line := range strings.Split(strings.TrimSuffix(formatted, "\n"), "\n") {
		log.Printf("%s%s", prefix, line)
	}
}

// Actor-based methods
func (l *BasicLogger) TitleWithActor(actor iface.Actor, msg string, args ...any) {
	l.Title(msg, args...)
}

func (l *BasicLogger) InfoWithActor(actor iface.Actor, msg string, args ...any) {
	l.Info(msg, args...)
}

func (l *BasicLogger) WarnWithActor(actor iface.Actor, msg string, args ...any) {
	l.Warn(msg, args...)
}

func (l *BasicLogger) ErrorWithActor(actor iface.Actor, msg string, args ...any) {
	l.Error(msg, args...)
}

func (l *BasicLogger) DebugWithActor(actor iface.Actor, msg string, args ...any) {
	l.Debug(msg, args...)
}
