package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/carecal/pkg/core/services"
)

// PublishCalendarCmd creates the publishCalendar command
func PublishCalendarCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publishCalendar <callerID>",
		Short: "Publish the caller's aggregated calendar to Google Sheets",
		Long: `Publish the caller's aggregated calendar to a tab of the calendarSheetID
spreadsheet. The tab is named after the window and is overwritten on republish.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			callerID := args[0]

			if app.Cfg.CalendarSheetID == "" {
				return fmt.Errorf("calendarSheetID is not set in the config")
			}

			rng, err := resolveRange(cmd, app.Today())
			if err != nil {
				return err
			}

			app.Logger.Debug("publishCalendar command",
				zap.String("caller_id", callerID),
				zap.String("range", rng.String()))

			entries, err := services.AggregatedShiftsForWindow(app.Ctx, app.Database, app.Logger, app.Cfg, callerID, rng, nil)
			if err != nil {
				return err
			}

			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			tab, err := client.PublishCalendar(app.Ctx, app.Cfg.CalendarSheetID, rng, entries)
			if err != nil {
				return fmt.Errorf("failed to publish calendar: %w", err)
			}

			app.Logger.Info("Published calendar",
				zap.String("spreadsheet_id", app.Cfg.CalendarSheetID),
				zap.String("tab", tab),
				zap.Int("entries", len(entries)))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Calendar published successfully!\n\n")
			fmt.Fprintf(out, "Tab:     %s\n", tab)
			fmt.Fprintf(out, "Entries: %d\n\n", len(entries))

			return nil
		},
	}

	addRangeFlags(cmd)

	return cmd
}
