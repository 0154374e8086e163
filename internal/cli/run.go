package cli

import (
	"fmt"

	"github.com/me/nemoflow/internal/config"
	"github.com/me/nemoflow/internal/pipeline"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute every planned task sequentially in this process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}

			report, err := pipeline.New(logger).Run(cmd.Context(), cfg, flagPattern)
			if err != nil {
				return err
			}
			if failures := report.Failures(); len(failures) > 0 {
				return fmt.Errorf("%d of %d tasks failed", len(failures), len(report.Results))
			}
			return nil
		},
	}
}
