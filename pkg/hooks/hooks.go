package hooks

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"evm-tools/pkg/common"
	devcontext "evm-tools/pkg/context"
	"evm-tools/pkg/telemetry"
)

// EnvFile is the name of the environment file
const EnvFile = ".env"

// MetricPrefix is prepended to every command metric name.
const MetricPrefix = "cli."

func getFlagValue(ctx *cli.Context, name string) interface{} {
	if !ctx.IsSet(name) {
		return nil
	}
	// key material never leaves the process
	switch name {
	case "key", "private-key-path", "password", "keystore-password":
		return "<redacted>"
	}

	if ctx.Bool(name) {
		return ctx.Bool(name)
	}
	if ctx.String(name) != "" {
		return ctx.String(name)
	}
	if ctx.Int(name) != 0 {
		return ctx.Int(name)
	}
	if ctx.Float64(name) != 0 {
		return ctx.Float64(name)
	}
	return nil
}

func collectFlagValues(ctx *cli.Context) map[string]interface{} {
	flags := make(map[string]interface{})

	for _, flag := range ctx.App.Flags {
		flagName := flag.Names()[0]
		if ctx.IsSet(flagName) {
			flags[flagName] = getFlagValue(ctx, flagName)
		}
	}

	if ctx.Command != nil {
		for _, flag := range ctx.Command.Flags {
			flagName := flag.Names()[0]
			if ctx.IsSet(flagName) {
				flags[flagName] = getFlagValue(ctx, flagName)
			}
		}
	}

	return flags
}

func FormatMetricName(command, action string) string {
	return fmt.Sprintf("%s%s.%s", MetricPrefix, command, action)
}

type ActionChain struct {
	Processors []func(action cli.ActionFunc) cli.ActionFunc
}

// NewActionChain creates a new action chain
func NewActionChain() *ActionChain {
	return &ActionChain{
		Processors: make([]func(action cli.ActionFunc) cli.ActionFunc, 0),
	}
}

// Use appends a new processor to the chain
func (ac *ActionChain) Use(processor func(action cli.ActionFunc) cli.ActionFunc) {
	ac.Processors = append(ac.Processors, processor)
}

// Wrap applies all processors in the correct order
func (ac *ActionChain) Wrap(action cli.ActionFunc) cli.ActionFunc {
	for i := len(ac.Processors) - 1; i >= 0; i-- {
		action = ac.Processors[i](action)
	}
	return action
}

// ApplyMiddleware applies a list of middleware functions to commands
func ApplyMiddleware(commands []*cli.Command, chain *ActionChain) {
	for _, cmd := range commands {
		if cmd.Action != nil {
			cmd.Action = chain.Wrap(cmd.Action)
		}
		if len(cmd.Subcommands) > 0 {
			ApplyMiddleware(cmd.Subcommands, chain)
		}
	}
}

// WithTelemetry records invocation, result and duration metrics around a command.
func WithTelemetry(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		command := ctx.Command.Name

		setupTelemetryContext(ctx, command)

		err := action(ctx)

		emitTelemetryMetrics(ctx, command, err)

		return err
	}
}

func setupTelemetryContext(ctx *cli.Context, command string) {
	if _, ok := telemetry.ClientFromContext(ctx.Context); !ok {
		client := telemetry.NewClientFromEnv(common.LoggerFromContext(ctx.Context))
		ctx.Context = telemetry.WithContext(ctx.Context, client)
	}

	metrics := telemetry.NewMetricsContext(ctx.App.Name, command)
	ctx.Context = telemetry.WithMetricsContext(ctx.Context, metrics)

	if appEnv, ok := devcontext.AppEnvironmentFromContext(ctx.Context); ok {
		metrics.SetProperty("cli_version", appEnv.CLIVersion)
		metrics.SetProperty("os", appEnv.OS)
		metrics.SetProperty("arch", appEnv.Arch)
		metrics.SetProperty("run_id", appEnv.RunID)
	}

	for k, v := range collectFlagValues(ctx) {
		metrics.SetProperty(k, fmt.Sprintf("%v", v))
	}

	metrics.AddMetric(FormatMetricName(command, "Count"), 1)
}

func emitTelemetryMetrics(ctx *cli.Context, command string, actionError error) {
	metrics, mErr := telemetry.MetricsFromContext(ctx.Context)
	if mErr != nil {
		return
	}

	result := "Success"
	if actionError != nil {
		result = "Failure"
		metrics.SetProperty("error", actionError.Error())
	}

	metrics.AddMetric(FormatMetricName(command, result), 1)
	duration := time.Since(metrics.StartTime).Milliseconds()
	metrics.AddMetric(FormatMetricName(command, "DurationMilliseconds"), float64(duration))

	client, ok := telemetry.ClientFromContext(ctx.Context)
	if !ok {
		return
	}
	defer client.Close()

	for _, metric := range metrics.Snapshot() {
		_ = client.AddMetric(ctx.Context, metric)
	}
}

// WithEnvLoader loads .env, stamps the app environment and installs the logger.
func WithEnvLoader(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		ctx.Context = devcontext.WithAppEnvironment(ctx.Context, devcontext.NewAppEnvironment(
			ctx.App.Version,
			runtime.GOOS,
			runtime.GOARCH,
			uuid.NewString(),
		))

		if err := loadEnvFile(); err != nil {
			return err
		}

		_, log := common.LoggerFromCLI(ctx)
		ctx.Context = common.WithLogger(ctx.Context, log)

		return action(ctx)
	}
}

// LoadEnvBefore is an App.Before hook. Loading .env before subcommand flags are parsed
// lets flag EnvVars such as RPC_URL pick up values from the file.
func LoadEnvBefore(*cli.Context) error {
	return loadEnvFile()
}

// loadEnvFile loads environment variables from .env file if it exists.
// Variables already set in the process environment win.
func loadEnvFile() error {
	if _, err := os.Stat(EnvFile); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(EnvFile)
}
