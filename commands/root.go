// Package commands implements the tidyname command-line interface.
package commands

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tidyname/tidyname/config"
)

// NewRootCmd builds the tidyname command tree.
func NewRootCmd(version string) *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "tidyname",
		Short: "Content-aware file renaming with a local language model",
		Long: `Tidyname analyzes file contents with a locally hosted language model and
renames files to descriptive, standardized names.

Every executed rename is recorded in a session log under ~/.tidyname,
and any session can be inspected and reverted with the undo command.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newRenameCmd(&configPath),
		newUndoCmd(),
		newSessionsCmd(),
		newShowCmd(),
		newWatchCmd(&configPath),
		newVersionCmd(version),
	)

	return cmd
}

// setupLogging installs the process-wide slog default.
func setupLogging(logLevel string) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadConfig resolves the effective configuration. A config problem is fatal:
// nothing may run against half-loaded settings.
func loadConfig(explicitPath string) (*config.Config, error) {
	loader := config.NewLoader(slog.Default())
	if err := loader.EnsureUserConfig(); err != nil {
		slog.Warn("Could not create default user config", slog.String("error", err.Error()))
	}
	cfg, err := loader.Load(explicitPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// confirm asks a yes/no question on stdin, defaulting to no.
func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tidyname version %s\n", version)
		},
	}
}
