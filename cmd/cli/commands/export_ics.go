package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/carecal/pkg/core/services"
	"github.com/jakechorley/carecal/pkg/ics"
)

// ExportICSCmd creates the exportICS command
func ExportICSCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exportICS <callerID>",
		Short: "Export the caller's aggregated calendar as an iCalendar (.ics) feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			callerID := args[0]
			outPath, _ := cmd.Flags().GetString("out")

			rng, err := resolveRange(cmd, app.Today())
			if err != nil {
				return err
			}
			carer, err := resolveCarer(cmd)
			if err != nil {
				return err
			}

			entries, err := services.AggregatedShiftsForWindow(app.Ctx, app.Database, app.Logger, app.Cfg, callerID, rng, carer)
			if err != nil {
				return err
			}

			feed := ics.Render(entries, ics.Options{
				Name:     fmt.Sprintf("Care calendar %s", rng),
				Location: app.Cfg.Location(),
			})

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", outPath, err)
				}
				defer f.Close()
				w = f
			}

			if _, err := io.WriteString(w, feed); err != nil {
				return fmt.Errorf("failed to write calendar: %w", err)
			}

			app.Logger.Info("Exported calendar",
				zap.String("caller_id", callerID),
				zap.String("range", rng.String()),
				zap.Int("events", len(entries)),
				zap.String("out", outPath))

			return nil
		},
	}

	addRangeFlags(cmd)
	addCarerFlag(cmd)
	cmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")

	return cmd
}
