package cli

import (
	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/bayesnet/internal/pipeline"
)

func (a *app) newCompatCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "compat",
		Short: "List value combinations never observed together",
		Long: `For every pair of nodes, list the value combinations that no record of the
dataset contains. Such combinations are where the estimator falls back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireInput(); err != nil {
				return err
			}
			loader, err := a.loadConfig()
			if err != nil {
				return err
			}
			report, err := pipeline.Compat(loader.Config(), cmd.Flags(), pipeline.FileSource(a.inputPath))
			if err != nil {
				return err
			}
			renderCompat(cmd.OutOrStdout(), report, all)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "also list node pairs with every combination observed")
	return cmd
}
