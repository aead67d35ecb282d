package logger

import "evm-tools/pkg/common/iface"

// NopLogger discards everything.
type NopLogger struct{}

func NewNopLogger() *NopLogger { return &NopLogger{} }

func (NopLogger) Title(string, ...any) {}
func (NopLogger) Info(string, ...any) {}
func (NopLogger) Warn(string, ...any) {}
func (NopLogger) Error(string, ...any) {}
func (NopLogger) Debug(string, ...any) {}
func (NopLogger) TitleWithActor(iface.Actor, string, ...any) {}
func (NopLogger) InfoWithActor(iface.Actor, string, ...any) {}
func (NopLogger) WarnWithActor(iface.Actor, string, ...any) {}
func (NopLogger) ErrorWithActor(iface.Actor, string, ...any) {}
func (NopLogger) DebugWithActor(iface.Actor, string, ...any) {}
