package context

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithShutdown returns a context cancelled on the first SIGTERM/SIGINT.
// A second signal restores default handling so the process can be killed.
func WithShutdown(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// AppEnvironment describes the running binary. It is attached to every command's metrics.
type AppEnvironment struct {
	CLIVersion string
	OS         string
	Arch       string
	RunID      string
}

type appEnvironmentKey struct{}

func NewAppEnvironment(version, os, arch, runID string) *AppEnvironment {
	return &AppEnvironment{
		CLIVersion: version,
		OS:         os,
		Arch:       arch,
		RunID:      runID,
	}
}

func WithAppEnvironment(ctx context.Context, env *AppEnvironment) context.Context {
	return context.WithValue(ctx, appEnvironmentKey{}, env)
}

func AppEnvironmentFromContext(ctx context.Context) (*AppEnvironment, bool) {
	env, ok := ctx.Value(appEnvironmentKey{}).(*AppEnvironment)
	return env, ok
}
