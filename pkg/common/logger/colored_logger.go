package logger

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"evm-tools/pkg/common/iface"
)

var (
	actorColors = map[iface.Actor]*color.Color{
		iface.ActorSystem:    color.New(color.FgBlue),
		iface.ActorFunder:    color.New(color.FgGreen),
		iface.ActorWallet:    color.New(color.FgCyan),
		iface.ActorConfig:    color.New(color.FgYellow),
		iface.ActorTelemetry: color.New(color.FgMagenta),
	}
	levelColors = map[string]*color.Color{
		"ERROR": color.New(color.FgRed),
		"WARN":  color.New(color.FgHiYellow),
		"DEBUG": color.New(color.FgHiBlack),
		"TITLE": color.New(color.Bold),
	}
	plain = color.New(color.Reset)
)

// ColoredLogger wraps an existing logger and adds color-coded actor-based logging.
// fatih/color drops the escape codes when stdout is not a terminal or NO_COLOR is set.
type ColoredLogger struct {
	base iface.Logger
}

// NewColoredLogger creates a new colored logger that wraps the provided base logger
func NewColoredLogger(base iface.Logger) *ColoredLogger {
	return &ColoredLogger{
		base: base,
	}
}

// formatMessage formats a message with actor color and label
func (c *ColoredLogger) formatMessage(actor iface.Actor, level string, msg string, args ...any) string {
	actorColor, ok := actorColors[actor]
	if !ok {
		actorColor = plain
	}

	formatted := fmt.Sprintf(msg, args...)
	actorLabel := actorColor.Sprintf("[%s]", string(actor))

	levelColor, ok := levelColors[level]
	if !ok {
		return fmt.Sprintf("%s %s", actorLabel, formatted)
	}
	if level == "TITLE" {
		return fmt.Sprintf("%s %s", actorLabel, levelColor.Sprint(formatted))
	}
	return fmt.Sprintf("%s %s %s", actorLabel, levelColor.Sprintf("[%s]", level), formatted)
}

func (c *ColoredLogger) Title(msg string, args ...any) {
	c.base.Title(msg, args...)
}

func (c *ColoredLogger) Info(msg string, args ...any) {
	c.base.Info(msg, args...)
}

func (c *ColoredLogger) Warn(msg string, args ...any) {
	c.base.Warn(msg, args...)
}

func (c *ColoredLogger) Error(msg string, args ...any) {
	c.base.Error(msg, args...)
}

func (c *ColoredLogger) Debug(msg string, args ...any) {
	c.base.Debug(msg, args...)
}

func (c *ColoredLogger) TitleWithActor(actor iface.Actor, msg string, args ...any) {
	formatted := c.formatMessage(actor, "TITLE", msg, args...)
	for _, line := range strings.Split("\n"+formatted+"\n", "\n") {
		c.base.Info("%s", line)
	}
}

func (c *ColoredLogger) InfoWithActor(actor iface.Actor, msg string, args ...any) {
	c.base.Info("%s", c.formatMessage(actor, "INFO", msg, args...))
}

func (c *ColoredLogger) WarnWithActor(actor iface.Actor, msg string, args ...any) {
	c.base.Info("%s", c.formatMessage(actor, "WARN", msg, args...))
}

func (c *ColoredLogger) ErrorWithActor(actor iface.Actor, msg string, args ...any) {
	c.base.Info("%s", c.formatMessage(actor, "ERROR", msg, args...))
}

func (c *ColoredLogger) DebugWithActor(actor iface.Actor, msg string, args ...any) {
	c.base.Debug("%s", c.formatMessage(actor, "DEBUG", msg, args...))
}
