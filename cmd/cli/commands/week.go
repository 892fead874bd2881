package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/carecal/pkg/core/services"
)

// WeekCmd creates the week command
func WeekCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week <callerID>",
		Short: "Show a page of the caller's Monday-Sunday week",
		Long: `Show a page of the caller's aggregated week. The week is split into pages of
calendarPageSize days. Without --page the page holding --date is shown;
--page selects one (starting at 1) and out-of-range pages show the nearest page.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			callerID := args[0]

			anchor, err := resolveDate(cmd, "date", app.Today())
			if err != nil {
				return err
			}

			page := services.AnchorPage(app.Cfg, anchor)
			if cmd.Flags().Changed("page") {
				n, _ := cmd.Flags().GetInt("page")
				page = n - 1
			}

			app.Logger.Debug("week command",
				zap.String("caller_id", callerID),
				zap.String("anchor", anchor.String()),
				zap.Int("page", page))

			view, err := services.WeekPage(app.Ctx, app.Database, app.Logger, app.Cfg, callerID, anchor, page)
			if err != nil {
				return err
			}

			p := newPrinter(cmd, app)
			fmt.Fprintf(p.w, "\nWeek %s, page %d of %d\n", view.Week, view.Page+1, view.TotalPages)
			p.printDays(view.Days, true)
			fmt.Fprintln(p.w)

			return nil
		},
	}

	cmd.Flags().String("date", "", "Any date in the week to show (YYYY-MM-DD, defaults to today)")
	cmd.Flags().Int("page", 1, "Page of the week to show (defaults to the page holding --date)")

	return cmd
}
