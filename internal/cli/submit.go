package cli

import (
	"github.com/me/nemoflow/internal/config"
	"github.com/me/nemoflow/internal/pipeline"
	"github.com/spf13/cobra"
)

func newSubmitCmd() *cobra.Command {
	var noSubmit bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Write the SLURM job-array script and submit it with sbatch",
		Long:  "Plan the pipeline, write a job-array submission script to the configured\njob directory, and hand it to sbatch. With --no-submit the script is\nwritten but not submitted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}

			_, err = pipeline.New(logger).Submit(cmd.Context(), cfg, flagConfig, flagPattern, noSubmit)
			return err
		},
	}

	cmd.Flags().BoolVar(&noSubmit, "no-submit", false, "Write the job script without invoking sbatch")
	return cmd
}
