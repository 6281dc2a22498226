package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/bayesnet/internal/config"
	"github.com/gyaneshwarpardhi/bayesnet/internal/engine"
	"github.com/gyaneshwarpardhi/bayesnet/internal/pipeline"
)

func (a *app) newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the network config and print CPD sizes",
		Long: `Validate the network config without reading the dataset. Every node is
listed with the number of conditions (CPD rows) it needs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader, err := a.loadConfig()
			if err != nil {
				return err
			}
			p, err := pipeline.Prepare(loader.Config(), cmd.Flags())
			if err != nil {
				return err
			}
			plans := engine.Plan(p.Graph)
			renderPlan(cmd.OutOrStdout(), plans)

			var cells int64
			for _, pl := range plans {
				if pl.Conditions > engine.LargeTableWarning {
					a.logger.Warn("large conditional table", "node", pl.Var.Name, "conditions", pl.Conditions)
				}
				if p.Prefs.MaxConditions > 0 && pl.Conditions > p.Prefs.MaxConditions {
					return &config.ConfigError{
						Section: "preferences",
						Index:   -1,
						Field:   "max_conditions",
						Msg:     fmt.Sprintf("node '%s' needs %d conditions, limit is %d", pl.Var.Name, pl.Conditions, p.Prefs.MaxConditions),
					}
				}
				cells += pl.Cells
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "config ok: %d nodes, %d edges, %d probabilities\n",
				p.Graph.Len(), p.Graph.EdgeCount(), cells)
			return nil
		},
	}
}
