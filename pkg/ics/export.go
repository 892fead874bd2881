// Package ics exports reconciled calendar entries as an iCalendar feed.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/jakechorley/carecal/pkg/core/model"
)

const productID = "-//carecal//calendar export//EN"

// Options controls how entries are rendered
type Options struct {
	Name     string         // X-WR-CALNAME
	Location *time.Location // zone the entry times are in, UTC when nil
	Stamp    time.Time      // DTSTAMP for every event, time.Now when zero
}

// UID identifies an entry's event. Entries repeat per day, so the date is part of it.
func UID(e model.CalendarEntry) string {
	return fmt.Sprintf("%s-%s@carecal", e.ID, e.Date)
}

// Render serializes entries as a PUBLISH calendar with one VEVENT per entry.
// Leave-derived entries keep their display window; zero-duration shifts end
// when they start.
func Render(entries []model.CalendarEntry, opts Options) string {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ical.MethodPublish)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	for _, e := range entries {
		event := cal.AddEvent(UID(e))
		event.SetDtStampTime(stamp)
		event.SetStartAt(e.Start.On(e.Date, loc))
		event.SetEndAt(e.End.On(e.Date, loc))
		event.SetSummary(e.Label)
		event.AddProperty(ical.ComponentPropertyCategories, e.Kind.Label())
		if desc := description(e); desc != "" {
			event.SetDescription(desc)
		}
	}

	return cal.Serialize()
}

func description(e model.CalendarEntry) string {
	desc := e.Note
	network := e.NetworkName
	if network == "" {
		network = e.NetworkID
	}
	if network != "" {
		if desc != "" {
			desc += "\n"
		}
		desc += "Network: " + network
	}
	return desc
}
