package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jakechorley/carecal/pkg/core/calendar"
	"github.com/jakechorley/carecal/pkg/core/model"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorDim    = "\033[2m"
)

// kindColor picks the highlight for an entry kind. Absences stand out,
// cover is green and ordinary shifts are uncoloured.
func kindColor(kind model.ShiftKind) string {
	switch kind {
	case model.ShiftCover:
		return colorGreen
	case model.ShiftSickness:
		return colorRed
	case model.ShiftAnnualLeave:
		return colorYellow
	case model.ShiftPublicHoliday:
		return colorCyan
	}
	return ""
}

type printer struct {
	w     io.Writer
	color bool
}

func (p printer) paint(color, s string) string {
	if !p.color || color == "" {
		return s
	}
	return color + s + colorReset
}

// nameWidth is the display-name column width for entries, never below 16
func nameWidth(entries []model.CalendarEntry) int {
	width := 16
	for _, e := range entries {
		if len(e.DisplayName) > width {
			width = len(e.DisplayName)
		}
	}
	return width + 2
}

func (p printer) entryLine(e model.CalendarEntry, width int, showNetwork bool) string {
	times := fmt.Sprintf("%s-%s", e.Start, e.End)
	if e.Start == e.End {
		times = fmt.Sprintf("%s      ", e.Start)
	}

	line := fmt.Sprintf("%s  %-*s%s", times, width, e.DisplayName, p.paint(kindColor(e.Kind), e.Kind.Label()))
	if showNetwork && e.NetworkName != "" {
		line += "  " + p.paint(colorDim, "["+e.NetworkName+"]")
	}
	if e.PendingExport {
		line += "  " + p.paint(colorDim, "(pending export)")
	}
	if e.Note != "" {
		line += "  " + e.Note
	}
	return line
}

// printEntries prints entries grouped under a heading per date
func (p printer) printEntries(entries []model.CalendarEntry, showNetwork bool) {
	if len(entries) == 0 {
		fmt.Fprintln(p.w, "No entries in this window.")
		return
	}

	width := nameWidth(entries)
	for _, day := range calendar.GroupByDate(entries) {
		p.printDay(day, width, showNetwork)
	}
}

// printDays prints every day, including empty ones
func (p printer) printDays(days []calendar.DayEntries, showNetwork bool) {
	var all []model.CalendarEntry
	for _, day := range days {
		all = append(all, day.Entries...)
	}
	width := nameWidth(all)

	for _, day := range days {
		p.printDay(day, width, showNetwork)
	}
}

func (p printer) printDay(day calendar.DayEntries, width int, showNetwork bool) {
	heading := day.Date.Time().Format("Mon 02 Jan 2006")
	fmt.Fprintf(p.w, "\n%s\n%s\n", heading, strings.Repeat("-", len(heading)))
	if len(day.Entries) == 0 {
		fmt.Fprintf(p.w, "  %s\n", p.paint(colorDim, "nothing scheduled"))
		return
	}
	for _, e := range day.Entries {
		fmt.Fprintf(p.w, "  %s\n", p.entryLine(e, width, showNetwork))
	}
}

func (p printer) printLegend() {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, "Legend:")
	for _, k := range []model.ShiftKind{model.ShiftCover, model.ShiftAnnualLeave, model.ShiftSickness, model.ShiftPublicHoliday} {
		fmt.Fprintf(p.w, "  %s\n", p.paint(kindColor(k), k.Label()))
	}
}

func (p printer) printRecurring(instances []model.RecurringEntity) {
	if len(instances) == 0 {
		fmt.Fprintln(p.w, "Nothing due.")
		return
	}
	for _, inst := range instances {
		due := "no due date"
		if inst.DueDate != nil {
			due = "due " + inst.DueDate.String()
		}
		title := inst.Title
		if title == "" {
			title = inst.ID
		}
		fmt.Fprintf(p.w, "  %-30s %-16s %s  %s\n", title, due, p.paint(colorDim, string(inst.Recurrence)), p.paint(colorDim, inst.ID))
	}
}
