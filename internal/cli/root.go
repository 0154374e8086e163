// Package cli implements the nemoflow command line interface.
package cli

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/me/nemoflow/internal/logging"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	flagConfig    string
	flagLog       string
	flagPattern   string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger   *slog.Logger
	logClose io.Closer
)

// NewRootCmd creates the root cobra command for the nemoflow CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "nemoflow",
		Short:   "nemoflow plans and dispatches batch NEMO ocean diagnostics",
		Long:    "nemoflow expands a declarative pipeline config into per-task diagnostic\nruns and either executes them in-process or submits them to SLURM as a\nbounded-concurrency job array.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagDebug {
				flagLogLevel = "debug"
			}
			level := logging.ParseLevel(flagLogLevel)
			if flagLog != "" {
				var err error
				logger, logClose, err = logging.NewFileLogger(level, flagLogFormat, flagLog)
				if err != nil {
					return err
				}
			} else {
				logger = logging.NewLogger(level, flagLogFormat)
			}
			logger = logger.With("run_id", uuid.NewString()[:8])
			logger.Info("nemoflow", "version", version)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logClose != nil {
				logClose.Close()
			}
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to the pipeline config file (.yaml or .toml)")
	root.PersistentFlags().StringVarP(&flagLog, "log", "l", "", "Write logs to this file as well as stderr")
	root.PersistentFlags().StringVarP(&flagPattern, "input-pattern", "i", "", "Override the {ip} placeholder with a single value (bypasses range expansion)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")
	root.MarkPersistentFlagRequired("config")

	root.AddCommand(
		newDescribeCmd(),
		newRunCmd(),
		newSubmitCmd(),
	)

	return root
}
