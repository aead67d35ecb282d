package common

import (
	"context"
	"strings"

	"github.com/urfave/cli/v2"

	"evm-tools/pkg/common/iface"
	"evm-tools/pkg/common/logger"
	"evm-tools/pkg/common/progress"
)

type loggerContextKey struct{}

// WithLogger stores log in ctx.
func WithLogger(ctx context.Context, log iface.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// LoggerFromContext returns the logger stored in ctx, or a console logger.
func LoggerFromContext(ctx context.Context) iface.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(iface.Logger); ok {
		return log
	}
	log, _ := GetLogger(false, "console")
	return log
}

// GetLogger builds the base logger and a progress-aware wrapper around it.
// format "json" selects zap; anything else gets the colored console logger.
func GetLogger(verbose bool, format string) (iface.Logger, iface.ProgressLogger) {
	var base iface.Logger
	var tracker iface.ProgressTracker

	if strings.EqualFold(format, "json") {
		base = logger.NewZapLogger(verbose)
		tracker = progress.NewLogProgress(base)
	} else {
		base = logger.NewColoredLogger(logger.NewLogger(verbose))
		tracker = progress.NewTracker(base)
	}

	return base, logger.NewProgressLogger(base, tracker)
}

// CommandLogger returns the run's logger installed by the middleware. Commands run
// without the middleware (as in tests) get one built from the flags.
func CommandLogger(cCtx *cli.Context) iface.ProgressLogger {
	if cCtx.Context != nil {
		if log, ok := cCtx.Context.Value(loggerContextKey{}).(iface.ProgressLogger); ok {
			return log
		}
	}
	_, log := LoggerFromCLI(cCtx)
	return log
}

// LoggerFromCLI builds a logger from the global flags of cCtx.
func LoggerFromCLI(cCtx *cli.Context) (iface.Logger, iface.ProgressLogger) {
	return GetLogger(IsVerboseEnabled(cCtx), LookupString(cCtx, "log-format"))
}
