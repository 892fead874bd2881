package sheetsclient

import (
	"context"
	"fmt"

	"github.com/jakechorley/carecal/pkg/core/calendar"
	"github.com/jakechorley/carecal/pkg/core/model"
)

const sheetDateLayout = "Mon Jan 02 2006"

var calendarHeader = []interface{}{"Date", "Start", "End", "Carer", "Type", "Label", "Network", "Note", "Pending export"}

// CalendarTabTitle names the tab for a window, e.g. "Mon Jun 09 2025 - Sun Jun 15 2025"
func CalendarTabTitle(rng model.DateRange) string {
	return fmt.Sprintf("%s - %s",
		rng.Start.Time().Format(sheetDateLayout),
		rng.End.Time().Format(sheetDateLayout),
	)
}

// CalendarRows lays out a header followed by one row per entry. Every day of
// rng appears; a day with no entries gets a row holding only its date.
// entries must already be ordered.
func CalendarRows(rng model.DateRange, entries []model.CalendarEntry) [][]interface{} {
	byDate := make(map[string][]model.CalendarEntry)
	for _, day := range calendar.GroupByDate(entries) {
		byDate[day.Date.String()] = day.Entries
	}

	rows := [][]interface{}{calendarHeader}
	for _, d := range rng.Days() {
		date := d.Time().Format(sheetDateLayout)
		dayEntries := byDate[d.String()]
		if len(dayEntries) == 0 {
			rows = append(rows, []interface{}{date})
			continue
		}
		for _, e := range dayEntries {
			pending := ""
			if e.PendingExport {
				pending = "yes"
			}
			network := e.NetworkName
			if network == "" {
				network = e.NetworkID
			}
			rows = append(rows, []interface{}{
				date,
				e.Start.String(),
				e.End.String(),
				e.DisplayName,
				e.Kind.Label(),
				e.Label,
				network,
				e.Note,
				pending,
			})
		}
	}
	return rows
}

// PublishCalendar writes the window's entries to a tab named by CalendarTabTitle,
// creating the tab on first publish and replacing its contents afterwards
func (c *Client) PublishCalendar(ctx context.Context, spreadsheetID string, rng model.DateRange, entries []model.CalendarEntry) (string, error) {
	title := CalendarTabTitle(rng)

	if _, _, err := c.EnsureSheet(ctx, spreadsheetID, title); err != nil {
		return "", fmt.Errorf("failed to prepare tab %q: %w", title, err)
	}

	sheetRange := fmt.Sprintf("'%s'!A1:I", title)
	if err := c.ReplaceValues(ctx, spreadsheetID, sheetRange, CalendarRows(rng, entries)); err != nil {
		return "", fmt.Errorf("failed to write calendar to tab %q: %w", title, err)
	}

	return title, nil
}
