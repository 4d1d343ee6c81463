// Package cmd implements the slots CLI commands.
//
// The root command resolves the project configuration and builds the logger
// before dispatching to a subcommand (todo, hover, replay, rules, version).
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/go-drift/slots/cmd/slots/internal/config"
	"github.com/go-drift/slots/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// ownsTerminal is the annotation set on commands that run a full-screen TUI.
const ownsTerminal = "slots/owns-terminal"

// cli carries global flags and the state resolved from them.
type cli struct {
	configPath string
	verbose    bool
	logFile    string

	cfg    *config.Resolved
	logger *zap.Logger
}

// Execute runs the CLI with os.Args, cancelling on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "slots",
		Short: "slots - order-stable state cells for function components",
		Long: `slots is a small reactive state container: components claim typed cells
by call position, updates are queued and committed before the next render
pass, and behavior units compose by plain function calls.

This CLI runs the bundled demos and replays YAML event scripts against them.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
			errors.SetHandler(nil)
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "Path to slots.yaml (default: <project root>/slots.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&c.logFile, "log-file", "", "Write logs to this file (interactive demos log nowhere otherwise)")

	root.AddCommand(
		c.newTodoCommand(),
		c.newHoverCommand(),
		c.newReplayCommand(),
		newRulesCommand(),
		newVersionCommand(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := c.resolveConfig()
	if err != nil {
		return err
	}
	c.cfg = cfg

	logger, err := c.buildLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.logger = logger.Named("slots")
	reportTo := logger
	if cmd.Annotations[ownsTerminal] != "" && c.logFile == "" {
		reportTo = zap.NewNop()
	}
	errors.SetHandler(errors.NewLogHandler(reportTo))

	c.logger.Debug("config resolved",
		zap.String("root", cfg.Root),
		zap.String("app", cfg.AppName),
		zap.Int("max_passes", cfg.MaxPasses),
		zap.Bool("strict", cfg.Strict),
	)
	return nil
}

func (c *cli) resolveConfig() (*config.Resolved, error) {
	if c.configPath != "" {
		cfg, err := config.LoadFile(c.configPath, false)
		if err != nil {
			return nil, err
		}
		return cfg.Resolve(filepath.Dir(c.configPath))
	}

	root, err := config.FindProjectRoot()
	if err != nil {
		if root, err = os.Getwd(); err != nil {
			return nil, err
		}
	}
	return config.Resolve(root)
}

func (c *cli) buildLogger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.cfg.LogDevelopment {
		zc = zap.NewDevelopmentConfig()
	}
	level := c.cfg.LogLevel
	if c.verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	if c.logFile != "" {
		zc.OutputPaths = []string{c.logFile}
		zc.ErrorOutputPaths = []string{c.logFile}
	}
	return zc.Build()
}

// interactiveLogger returns the logger for commands that own the terminal.
// Without --log-file their logs would corrupt the screen. setup applies the
// same rule to the error handler of commands annotated with ownsTerminal.
func (c *cli) interactiveLogger() *zap.Logger {
	if c.logFile == "" {
		return zap.NewNop()
	}
	return c.logger
}
