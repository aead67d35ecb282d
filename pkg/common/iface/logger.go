package iface

// Actor represents different actors in the system for color-coded logging
type Actor string

const (
	ActorSystem    Actor = "SYSTEM"    // File I/O, endpoint connections, process lifecycle
	ActorFunder    Actor = "FUNDER"    // Balance checks, fee quotes, transfers
	ActorWallet    Actor = "WALLET"    // Key generation, keystores
	ActorConfig    Actor = "CONFIG"    // Configuration loading and validation
	ActorTelemetry Actor = "TELEMETRY" // Telemetry related operations
)

type Logger interface {
	Title(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)

	// Actor-based methods for color-coded logging
	TitleWithActor(actor Actor, msg string, args ...any)
	InfoWithActor(actor Actor, msg string, args ...any)
	WarnWithActor(actor Actor, msg string, args ...any)
	ErrorWithActor(actor Actor, msg string, args ...any)
	DebugWithActor(actor Actor, msg string, args ...any)
}

type ProgressLogger interface {
	Logger
	SetProgress(name string, percent int, displayText string)
	PrintProgress()
	ClearProgress()
}

// ProgressTracker renders named progress bars.
type ProgressTracker interface {
	Set(id string, pct int, label string)
	Render()
	Clear()
}
