package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/carecal/pkg/core/services"
)

// ShiftsCmd creates the shifts command
func ShiftsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shifts <networkID>",
		Short: "Show one care network's calendar with approved leave applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			networkID := args[0]

			rng, err := resolveRange(cmd, app.Today())
			if err != nil {
				return err
			}
			carer, err := resolveCarer(cmd)
			if err != nil {
				return err
			}

			app.Logger.Debug("shifts command",
				zap.String("network_id", networkID),
				zap.String("range", rng.String()))

			entries, err := services.ShiftsForWindow(app.Ctx, app.Database, app.Logger, app.Cfg, networkID, rng, carer)
			if err != nil {
				return err
			}

			p := newPrinter(cmd, app)
			fmt.Fprintf(p.w, "\nCalendar for %s, %s (%d entries)\n", networkID, rng, len(entries))
			p.printEntries(entries, false)
			fmt.Fprintln(p.w)

			return nil
		},
	}

	addRangeFlags(cmd)
	addCarerFlag(cmd)

	return cmd
}
