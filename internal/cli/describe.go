package cli

import (
	"github.com/me/nemoflow/internal/config"
	"github.com/me/nemoflow/internal/pipeline"
	"github.com/spf13/cobra"
)

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Validate the pipeline config and summarize the task plan",
		Long:  "Validate the config and print the planned task count, expansion range,\nand declared diagnostics. Nothing is executed and nothing is written.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			return pipeline.New(logger).Describe(cfg, flagPattern)
		},
	}
}
