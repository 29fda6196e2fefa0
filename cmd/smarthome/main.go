package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"smarthome-sim/config"
	"smarthome-sim/internal/application"
	"smarthome-sim/internal/home"
	"smarthome-sim/internal/infra/anthropic"
	"smarthome-sim/internal/infra/gemini"
	"smarthome-sim/internal/infra/input"
	"smarthome-sim/internal/infra/keyword"
	"smarthome-sim/internal/infra/ollama"
)

type options struct {
	configPath  string
	interpreter string
	test        bool
	demo        bool
	script      string
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "smarthome",
		Short: "Control a simulated light, fan and thermostat with plain-English commands",
		Long: `smarthome simulates a light, a fan and a thermostat and applies commands
such as "turn on the light" or "set the thermostat to 24".

Without a mode flag it starts an interactive prompt; type "exit" or "quit" to leave.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("interpreter") &&
				opts.interpreter != config.StrategyModel && opts.interpreter != config.StrategyKeyword {
				return fmt.Errorf("invalid --interpreter %q (want %s or %s)", opts.interpreter, config.StrategyModel, config.StrategyKeyword)
			}
			if opts.test && opts.interpreter == config.StrategyModel {
				return fmt.Errorf("--test always uses the %s interpreter; use --demo to run with --interpreter %s",
					config.StrategyKeyword, config.StrategyModel)
			}
			return run(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to an optional YAML config file")
	cmd.Flags().StringVar(&opts.interpreter, "interpreter", "", "interpretation strategy: model or keyword (overrides config)")
	cmd.Flags().BoolVar(&opts.test, "test", false, "run the fixed test command list with the keyword interpreter")
	cmd.Flags().BoolVar(&opts.demo, "demo", false, "run the scripted demo sequence")
	cmd.Flags().StringVar(&opts.script, "script", "", "run commands from a file, one per line")
	cmd.MarkFlagsMutuallyExclusive("test", "demo", "script")

	return cmd
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	if opts.interpreter != "" {
		cfg.Interpreter.Strategy = opts.interpreter
	}
	if opts.test {
		cfg.Interpreter.Strategy = config.StrategyKeyword
	}

	logger := setupLogger(cfg.Log, stderr)

	interpreter, err := createInterpreter(ctx, cfg, logger)
	if err != nil {
		return err
	}

	source, reporter, banner, err := createSource(cfg, opts, stdout, logger)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, banner)

	session := application.NewSession(source, interpreter, home.New(), reporter, logger)
	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("session error", "error", err)
		return err
	}

	return nil
}

func createInterpreter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (application.Interpreter, error) {
	if cfg.Interpreter.Strategy == config.StrategyKeyword {
		return keyword.New(), nil
	}

	var primary application.Interpreter
	switch cfg.Model.Provider {
	case config.ProviderAnthropic:
		primary = anthropic.NewClaudeClient(cfg.Model.APIKey, cfg.Model.Name)
	case config.ProviderGemini:
		primary = gemini.NewClient(cfg.Model.APIKey, cfg.Model.Name)
	default:
		timeout, err := time.ParseDuration(cfg.Model.Timeout)
		if err != nil {
			logger.Warn("invalid model timeout, using default", "error", err, "value", cfg.Model.Timeout)
			timeout = 2 * time.Minute
		}
		primary = ollama.NewClient(cfg.Model.BaseURL, cfg.Model.Name, timeout).WithMaxTokens(cfg.Model.MaxTokens)
	}

	var fallback application.Interpreter
	if cfg.Model.Fallback == config.StrategyKeyword {
		fallback = keyword.New()
	}

	logger.Info("checking model interpreter", "provider", primary.Name())
	return application.ReadyInterpreter(ctx, primary, fallback, logger)
}

func createSource(cfg *config.Config, opts options, stdout io.Writer, logger *slog.Logger) (application.CommandSource, application.Reporter, string, error) {
	switch {
	case opts.test:
		source := input.NewScript("test", application.TestCommands).WithEcho(stdout)
		return source, application.NewWriterReporter(stdout, "Response: "), "Smart Home Control System (Testing Mode)", nil

	case opts.demo:
		delay, err := time.ParseDuration(cfg.Demo.Delay)
		if err != nil {
			logger.Warn("invalid demo delay, using default", "error", err, "value", cfg.Demo.Delay)
			delay = time.Second
		}
		source := input.NewScript("demo", application.DemoCommands).WithDelay(delay).WithEcho(stdout)
		return source, application.NewWriterReporter(stdout, "Response: "), "Smart Home Control System (Demo Mode)", nil

	case opts.script != "":
		source := input.NewFileSource(opts.script)
		source.WithEcho(stdout)
		return source, application.NewWriterReporter(stdout, "Response: "), "Smart Home Control System (Script Mode)", nil

	default:
		console, err := input.NewConsole(cfg.Console.Prompt)
		if err != nil {
			return nil, nil, "", fmt.Errorf("starting console: %w", err)
		}
		return console, application.NewWriterReporter(console.Stdout(), "\n"), "Smart Home Control System", nil
	}
}

func setupLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
