package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"evm-tools/pkg/common/iface"
)

// ZapLogger emits structured JSON (or console output when verbose) with an actor field.
// Messages are printf-formatted before they reach zap.
type ZapLogger struct {
	log *zap.SugaredLogger
}

func NewZapLogger(verbose bool) *ZapLogger {
	var logger *zap.Logger

	if verbose {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}

	return NewZapLoggerFrom(logger)
}

// NewZapLoggerFrom wraps an existing zap logger.
func NewZapLoggerFrom(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{log: logger.Sugar()}
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.log.Sync()
}

func format(msg string, args ...any) string {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return strings.Trim(msg, "\n")
}

func (l *ZapLogger) TitleWithActor(actor iface.Actor, msg string, args ...any) {
	if msg = format(msg, args...); msg == "" {
		return
	}
	l.log.Infow(msg, "actor", string(actor), "title", true)
}

func (l *ZapLogger) InfoWithActor(actor iface.Actor, msg string, args ...any) {
	if msg = format(msg, args...); msg == "" {
		return
	}
	l.log.Infow(msg, "actor", string(actor))
}

func (l *ZapLogger) WarnWithActor(actor iface.Actor, msg string, args ...any) {
	if msg = format(msg, args...); msg == "" {
		return
	}
	l.log.Warnw(msg, "actor", string(actor))
}

func (l *ZapLogger) ErrorWithActor(actor iface.Actor, msg string, args ...any) {
	if msg = format(msg, args...); msg == "" {
		return
	}
	l.log.Errorw(msg, "actor", string(actor))
}

func (l *ZapLogger) DebugWithActor(actor iface.Actor, msg string, args ...any) {
	if msg = format(msg, args...); msg == "" {
		return
	}
	l.log.Debugw(msg, "actor", string(actor))
}

func (l *ZapLogger) Title(msg string, args ...any) {
	l.TitleWithActor(iface.ActorSystem, msg, args...)
}

func (l *ZapLogger) Info(msg string, args ...any) {
	l.InfoWithActor(iface.ActorSystem, msg, args...)
}

func (l *ZapLogger) Warn(msg string, args ...any) {
	l.WarnWithActor(iface.ActorSystem, msg, args...)
}

func (l *ZapLogger) Error(msg string, args ...any) {
	l.ErrorWithActor(iface.ActorSystem, msg, args...)
}

func (l *ZapLogger) Debug(msg string, args ...any) {
	l.DebugWithActor(iface.ActorSystem, msg, args...)
}
