package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/carecal/pkg/core/services"
)

// AggregateCmd creates the aggregate command
func AggregateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate <callerID>",
		Short: "Show one calendar merged across every network the caller belongs to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			callerID := args[0]

			rng, err := resolveRange(cmd, app.Today())
			if err != nil {
				return err
			}
			carer, err := resolveCarer(cmd)
			if err != nil {
				return err
			}

			app.Logger.Debug("aggregate command",
				zap.String("caller_id", callerID),
				zap.String("range", rng.String()))

			entries, err := services.AggregatedShiftsForWindow(app.Ctx, app.Database, app.Logger, app.Cfg, callerID, rng, carer)
			if err != nil {
				return err
			}

			p := newPrinter(cmd, app)
			fmt.Fprintf(p.w, "\nAll networks for %s, %s (%d entries)\n", callerID, rng, len(entries))
			p.printEntries(entries, true)
			p.printLegend()

			return nil
		},
	}

	addRangeFlags(cmd)
	addCarerFlag(cmd)

	return cmd
}
