package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/carecal/pkg/core/model"
	"github.com/jakechorley/carecal/pkg/core/window"
)

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "First date of the window (YYYY-MM-DD, defaults to this week's Monday)")
	cmd.Flags().String("to", "", "Last date of the window (YYYY-MM-DD, defaults to this week's Sunday)")
}

func addCarerFlag(cmd *cobra.Command) {
	cmd.Flags().String("carer", "", "Only show one carer (real:<id> or placeholder:<id>)")
}

// resolveRange reads --from/--to. Either flag left empty takes its value from
// the Monday-Sunday week containing today.
func resolveRange(cmd *cobra.Command, today model.Date) (model.DateRange, error) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	week := window.Week(today)
	rng := model.DateRange{Start: week[0], End: week[len(week)-1]}

	if from != "" {
		d, err := model.ParseDate(from)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("invalid --from: %w", err)
		}
		rng.Start = d
	}
	if to != "" {
		d, err := model.ParseDate(to)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("invalid --to: %w", err)
		}
		rng.End = d
	}

	if err := rng.Validate(); err != nil {
		return model.DateRange{}, err
	}
	return rng, nil
}

// resolveCarer reads --carer; nil means no filter
func resolveCarer(cmd *cobra.Command) (*model.CarerRef, error) {
	raw, _ := cmd.Flags().GetString("carer")
	if raw == "" {
		return nil, nil
	}
	ref, err := model.ParseCarerRef(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --carer: %w", err)
	}
	return &ref, nil
}

// resolveDate reads a date flag, falling back to today when it is empty
func resolveDate(cmd *cobra.Command, name string, today model.Date) (model.Date, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return today, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return model.Date{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return d, nil
}

func newPrinter(cmd *cobra.Command, app *AppContext) printer {
	return printer{w: cmd.OutOrStdout(), color: !app.NoColor}
}
