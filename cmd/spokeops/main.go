package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"log/slog"

	"github.com/spf13/cobra"
	_ "github.com/spokeops/spokeops/adapters/drivers/provider/aks"
	_ "github.com/spokeops/spokeops/adapters/drivers/provider/static"
	"github.com/spokeops/spokeops/internal/logging"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "spokeops",
		Short:   "SpokeOps CLI",
		Long:    "SpokeOps CLI - hub and spoke AKS fleet operations",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultConfig := os.Getenv("SPOKEOPS_CONFIG")
	if defaultConfig == "" {
		defaultConfig = "spokeops.yml"
	}
	cmd.PersistentFlags().StringP("config", "f", defaultConfig, "Path to spokeops.yml (env SPOKEOPS_CONFIG)")

	// db-url defaults to "file:<config>"; set it to persist state in SQLite.
	cmd.PersistentFlags().String("db-url", os.Getenv("SPOKEOPS_DB_URL"), "Database URL (env SPOKEOPS_DB_URL) (file:/path/to/spokeops.yml | sqlite:/path/to.db)")

	cmd.PersistentFlags().String("log-format", "human", "Log format (human|text|json) (env SPOKEOPS_LOG_FORMAT)")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug|info|warn|error) (env SPOKEOPS_LOG_LEVEL)")
	cmd.PersistentFlags().String("log-output", "-", "Log output (- for stderr, none, or a file path) (env SPOKEOPS_LOG_OUTPUT)")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		format, _ := c.Flags().GetString("log-format")
		if env := os.Getenv("SPOKEOPS_LOG_FORMAT"); env != "" { // env overrides flag
			format = env
		}
		levelStr, _ := c.Flags().GetString("log-level")
		if env := os.Getenv("SPOKEOPS_LOG_LEVEL"); env != "" {
			levelStr = env
		}
		level, err := parseLogLevel(levelStr)
		if err != nil {
			return err
		}
		output, _ := c.Flags().GetString("log-output")
		if env := os.Getenv("SPOKEOPS_LOG_OUTPUT"); env != "" {
			output = env
		}

		var l logging.Logger
		if output == "-" {
			l, err = logging.New(format, level)
		} else {
			lf, lfErr := logging.NewLogFile(&logging.LogConfig{Output: output, Dir: logDir()})
			if lfErr != nil {
				return lfErr
			}
			// Best-effort retention sweep; failures never block the command.
			_ = logging.CleanupOldLogFiles(logDir(), 7)
			l, err = logging.NewWithWriter(format, level, lf.Writer())
		}
		if err != nil {
			return err
		}
		ctx := logging.WithLogger(c.Context(), l)
		if output != "-" && output != "none" {
			l.Info(ctx, "CLI:invoke", "args", os.Args)
		}
		c.SetContext(ctx)
		quietKlog()
		return nil
	}

	// Add subcommands
	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdInit())
	cmd.AddCommand(newCmdConfig())
	cmd.AddCommand(newCmdHub())
	cmd.AddCommand(newCmdSpoke())
	cmd.AddCommand(newCmdApp())
	cmd.AddCommand(newCmdBootstrap())
	return cmd
}

// parseLogLevel maps a level name to its slog level.
func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "", "info", "INFO":
		return slog.LevelInfo, nil
	case "debug", "DEBUG":
		return slog.LevelDebug, nil
	case "warn", "WARN":
		return slog.LevelWarn, nil
	case "error", "ERROR":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unsupported log level: %s", s)
}

// logDir is where auto-generated log files land.
func logDir() string {
	base := os.Getenv("SPOKEOPS_DIR")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		base = filepath.Join(home, ".spokeops")
	}
	return filepath.Join(base, "logs")
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	executed, err := root.ExecuteC()
	if err != nil {
		ctx := root.Context()
		if executed != nil {
			ctx = executed.Context()
		}
		logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
		os.Exit(1)
	}
}
