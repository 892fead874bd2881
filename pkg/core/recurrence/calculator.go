package recurrence

import (
	"fmt"
	"strings"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/carecal/pkg/core/model"
)

// ParseKind parses a recurrence kind. Unrecognized strings return
// ErrUnknownRecurrenceKind together with RecurrenceDaily, so callers that use
// the daily fallback can ignore the error and callers in strict mode can reject it.
func ParseKind(s string) (model.RecurrenceKind, error) {
	kind := model.RecurrenceKind(strings.ToLower(strings.TrimSpace(s)))
	if kind == "" {
		return model.RecurrenceNone, nil
	}
	if !kind.IsKnown() {
		return model.RecurrenceDaily, fmt.Errorf("%w: %q", model.ErrUnknownRecurrenceKind, s)
	}
	return kind, nil
}

// NextDueDate returns the due date of the instance after currentDue.
// A nil currentDue counts from today.
//
//	daily   -> +1 day
//	weekly  -> +7 days
//	monthly -> +1 calendar month, clamped to the last day of a shorter month
//
// Any other kind, including none, is treated as daily. Whether an
// unrecognized kind should reach this point at all is the caller's policy.
func NextDueDate(currentDue *model.Date, kind model.RecurrenceKind, today model.Date) model.Date {
	base := today
	if currentDue != nil && !currentDue.IsZero() {
		base = *currentDue
	}

	switch kind {
	case model.RecurrenceWeekly:
		return base.AddDays(7)
	case model.RecurrenceMonthly:
		return base.AddMonthsClamped(1)
	default:
		return base.AddDays(1)
	}
}

// NextVisibleFrom returns the date before which the next instance stays hidden:
// tomorrow for daily, the next Monday strictly after today for weekly, and
// the first of next month for monthly. Unknown kinds follow daily.
func NextVisibleFrom(kind model.RecurrenceKind, today model.Date) model.Date {
	return defaultCalculator.NextVisibleFrom(kind, today)
}

var defaultCalculator = &Calculator{}

// Calculator computes visible-from dates, optionally using custom RRULEs per kind
type Calculator struct {
	visibility map[model.RecurrenceKind]rrule.ROption
}

// NewCalculator builds a calculator. rules maps a recurrence kind to an RRULE
// (e.g. "FREQ=WEEKLY;BYDAY=SU") that replaces the built-in visibility rule for
// that kind. DTSTART in the rule is ignored.
func NewCalculator(rules map[string]string) (*Calculator, error) {
	c := &Calculator{visibility: make(map[model.RecurrenceKind]rrule.ROption)}
	for kindStr, rule := range rules {
		kind, err := ParseKind(kindStr)
		if err != nil {
			return nil, fmt.Errorf("visibility rule for %q: %w", kindStr, err)
		}
		opt, err := rrule.StrToROption(rule)
		if err != nil {
			return nil, fmt.Errorf("invalid visibility rule for %s: %w", kind, err)
		}
		c.visibility[kind] = *opt
	}
	return c, nil
}

// NextDueDate is the package-level NextDueDate; due dates are never customised
func (c *Calculator) NextDueDate(currentDue *model.Date, kind model.RecurrenceKind, today model.Date) model.Date {
	return NextDueDate(currentDue, kind, today)
}

func (c *Calculator) NextVisibleFrom(kind model.RecurrenceKind, today model.Date) model.Date {
	opt, ok := c.visibility[kind]
	if !ok {
		opt = builtinVisibility(kind)
	}
	if next, ok := firstAfter(opt, today); ok {
		return next
	}
	// A custom rule that never fires again degrades to daily
	return today.AddDays(1)
}

func builtinVisibility(kind model.RecurrenceKind) rrule.ROption {
	switch kind {
	case model.RecurrenceWeekly:
		return rrule.ROption{Freq: rrule.WEEKLY, Byweekday: []rrule.Weekday{rrule.MO}}
	case model.RecurrenceMonthly:
		return rrule.ROption{Freq: rrule.MONTHLY, Bymonthday: []int{1}}
	default:
		return rrule.ROption{Freq: rrule.DAILY}
	}
}

// firstAfter returns the first occurrence of opt strictly after today, with
// the rule anchored at today
func firstAfter(opt rrule.ROption, today model.Date) (model.Date, bool) {
	opt.Dtstart = today.Time()
	r, err := rrule.NewRRule(opt)
	if err != nil {
		return model.Date{}, false
	}
	next := r.After(today.Time(), false)
	if next.IsZero() {
		return model.Date{}, false
	}
	return model.DateOf(next), true
}
