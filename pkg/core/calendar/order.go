package calendar

import (
	"sort"

	"github.com/jakechorley/carecal/pkg/core/model"
)

// SortEntries orders entries by date, start time, display name and network
// name, with the entry ID as the final tie-break so output never depends on
// fetch order
func SortEntries(entries []model.CalendarEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return lessEntry(entries[i], entries[j])
	})
}

func lessEntry(a, b model.CalendarEntry) bool {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c < 0
	}
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.DisplayName != b.DisplayName {
		return a.DisplayName < b.DisplayName
	}
	if a.NetworkName != b.NetworkName {
		return a.NetworkName < b.NetworkName
	}
	if a.NetworkID != b.NetworkID {
		return a.NetworkID < b.NetworkID
	}
	return a.ID < b.ID
}

// GroupByDate splits sorted entries into per-date buckets in ascending date order
func GroupByDate(entries []model.CalendarEntry) []DayEntries {
	var days []DayEntries
	for _, e := range entries {
		if len(days) == 0 || !days[len(days)-1].Date.Equal(e.Date) {
			days = append(days, DayEntries{Date: e.Date})
		}
		last := &days[len(days)-1]
		last.Entries = append(last.Entries, e)
	}
	return days
}

// DayEntries holds the entries of one calendar day
type DayEntries struct {
	Date    model.Date
	Entries []model.CalendarEntry
}
