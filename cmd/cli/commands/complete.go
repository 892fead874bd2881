package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/carecal/pkg/core/services"
)

// CompleteCmd creates the complete command
func CompleteCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete <instanceID>",
		Short: "Mark a recurring task, dose or leave instance complete and schedule the next one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			instanceID := args[0]

			today, err := resolveDate(cmd, "today", app.Today())
			if err != nil {
				return err
			}

			app.Logger.Debug("complete command",
				zap.String("instance_id", instanceID),
				zap.String("today", today.String()))

			calc, err := app.Cfg.Calculator()
			if err != nil {
				return err
			}

			result, err := services.CompleteRecurring(app.Ctx, app.Database, app.Logger, calc, app.Cfg.UnknownRecurrence, instanceID, today)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Completed %s\n", describe(result.Completed.Title, result.Completed.ID))

			switch {
			case result.Next == nil:
				fmt.Fprintln(out, "  Does not recur, nothing scheduled.")
			case result.Next.Created:
				next := result.Next.Instance
				fmt.Fprintf(out, "  Next instance: %s\n", next.ID)
				if next.DueDate != nil {
					fmt.Fprintf(out, "  Due:           %s\n", next.DueDate)
				}
				fmt.Fprintf(out, "  Visible from:  %s\n", next.VisibleFrom)
			case result.Next.DueKey == "":
				fmt.Fprintf(out, "  Nothing new scheduled: %s\n", result.Next.Reason)
			default:
				fmt.Fprintf(out, "  Next instance already scheduled (%s)\n", result.Next.DueKey)
			}
			fmt.Fprintln(out)

			return nil
		},
	}

	cmd.Flags().String("today", "", "Treat this date as today (YYYY-MM-DD)")

	return cmd
}

func describe(title, id string) string {
	if title == "" {
		return id
	}
	return fmt.Sprintf("%s (%s)", title, id)
}
