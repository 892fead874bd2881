package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/carecal/pkg/core/services"
)

// VisibleCmd creates the visible command
func VisibleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visible <networkID>",
		Short: "List the recurring instances a network should see today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today, err := resolveDate(cmd, "today", app.Today())
			if err != nil {
				return err
			}

			instances, err := services.VisibleRecurring(app.Ctx, app.Database, app.Logger, args[0], today)
			if err != nil {
				return err
			}

			p := newPrinter(cmd, app)
			fmt.Fprintf(p.w, "\nVisible on %s for %s:\n\n", today, args[0])
			p.printRecurring(instances)
			fmt.Fprintln(p.w)

			return nil
		},
	}

	cmd.Flags().String("today", "", "Treat this date as today (YYYY-MM-DD)")

	return cmd
}
