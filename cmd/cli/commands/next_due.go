package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/carecal/pkg/core/model"
	"github.com/jakechorley/carecal/pkg/core/recurrence"
)

// NextDueCmd creates the nextDue command
func NextDueCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nextDue <daily|weekly|monthly>",
		Short: "Preview the due and visible-from dates of the next instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today, err := resolveDate(cmd, "today", app.Today())
			if err != nil {
				return err
			}

			var due *model.Date
			if raw, _ := cmd.Flags().GetString("due"); raw != "" {
				d, err := model.ParseDate(raw)
				if err != nil {
					return fmt.Errorf("invalid --due: %w", err)
				}
				due = &d
			}

			kind, err := recurrence.ParseKind(args[0])
			if err != nil && app.Cfg.RejectUnknownRecurrence() {
				return err
			}
			if !kind.IsRecurring() {
				return fmt.Errorf("recurrence %q does not repeat", args[0])
			}

			calc, err := app.Cfg.Calculator()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recurrence:   %s\n", kind)
			fmt.Fprintf(out, "Next due:     %s\n", calc.NextDueDate(due, kind, today))
			fmt.Fprintf(out, "Visible from: %s\n", calc.NextVisibleFrom(kind, today))

			return nil
		},
	}

	cmd.Flags().String("due", "", "Current due date (YYYY-MM-DD, defaults to counting from today)")
	cmd.Flags().String("today", "", "Treat this date as today (YYYY-MM-DD)")

	return cmd
}
