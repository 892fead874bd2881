package calendar

import (
	"fmt"

	"github.com/jakechorley/carecal/pkg/core/model"
)

var (
	DefaultLeaveStart = model.MustParseTimeOfDay("09:00")
	DefaultLeaveEnd   = model.MustParseTimeOfDay("17:00")
)

// ReconcileInput is a snapshot of one network's data for a date window
type ReconcileInput struct {
	NetworkID string
	Range     model.DateRange

	Shifts []model.ShiftEntry
	Leave  []model.LeaveRequest
	Names  DisplayNames

	// CarerFilter, when set, limits both shifts and leave to one carer
	CarerFilter *model.CarerRef

	// LeaveStart and LeaveEnd are the display window of leave-derived
	// entries. Zero values use 09:00-17:00.
	LeaveStart model.TimeOfDay
	LeaveEnd   model.TimeOfDay
}

// Reconcile merges shifts with approved leave for one network and window.
//
// A basic shift is dropped when its carer has approved leave covering that
// date; every other shift kind is kept, since an admin-entered cover or
// sickness shift is itself authoritative. Each covered date of each approved
// request becomes a leave-derived entry labelled "<Kind> - <Carer>".
// Output is sorted by date, start time and display name.
func Reconcile(in ReconcileInput) ([]model.CalendarEntry, error) {
	if err := in.Range.Validate(); err != nil {
		return nil, err
	}

	leaveStart, leaveEnd := in.LeaveStart, in.LeaveEnd
	if leaveStart == 0 && leaveEnd == 0 {
		leaveStart, leaveEnd = DefaultLeaveStart, DefaultLeaveEnd
	}
	if leaveEnd < leaveStart {
		return nil, fmt.Errorf("leave display window ends (%s) before it starts (%s)", leaveEnd, leaveStart)
	}

	shifts := filterShifts(in.Shifts, in.NetworkID, in.Range, in.CarerFilter)
	leave := filterLeave(in.Leave, in.NetworkID, in.Range, in.CarerFilter)
	index := NewLeaveIndex(leave)

	entries := make([]model.CalendarEntry, 0, len(shifts)+index.Len())

	for _, s := range shifts {
		if s.Kind == model.ShiftBasic && !s.Carer.IsZero() && index.OnLeave(s.Carer, s.Date) {
			continue
		}
		entries = append(entries, shiftEntry(s, in.Names))
	}

	for _, l := range index.Requests() {
		name := in.Names.Resolve(l.Carer, l.CarerName, UnknownName)
		kind := l.Kind.ShiftKind()
		span := model.DateRange{Start: maxDate(l.Start, in.Range.Start), End: minDate(l.End, in.Range.End)}
		for _, d := range span.Days() {
			entries = append(entries, model.CalendarEntry{
				ID:             fmt.Sprintf("leave:%s:%s", l.ID, d),
				NetworkID:      l.NetworkID,
				CarerID:        l.Carer,
				DisplayName:    name,
				Date:           d,
				Start:          leaveStart,
				End:            leaveEnd,
				Kind:           kind,
				Label:          composeLabel(kind, name),
				IsLeaveDerived: true,
			})
		}
	}

	SortEntries(entries)
	return entries, nil
}

func shiftEntry(s model.ShiftEntry, names DisplayNames) model.CalendarEntry {
	name := names.Resolve(s.Carer, s.CarerName, UnassignedName)
	end := s.Start
	if s.End != nil {
		end = *s.End
	}
	return model.CalendarEntry{
		ID:            s.ID,
		NetworkID:     s.NetworkID,
		CarerID:       s.Carer,
		DisplayName:   name,
		Date:          s.Date,
		Start:         s.Start,
		End:           end,
		Kind:          s.Kind,
		Label:         composeLabel(s.Kind, name),
		Note:          s.Note,
		PendingExport: s.PendingExport,
	}
}

func composeLabel(kind model.ShiftKind, name string) string {
	return kind.Label() + " - " + name
}

// filterShifts keeps shifts of the network inside the window that match the carer filter.
// A blank NetworkID on the record is taken to belong to the requested network.
func filterShifts(shifts []model.ShiftEntry, networkID string, rng model.DateRange, carer *model.CarerRef) []model.ShiftEntry {
	out := make([]model.ShiftEntry, 0, len(shifts))
	for _, s := range shifts {
		if s.NetworkID != "" && s.NetworkID != networkID {
			continue
		}
		if !rng.Contains(s.Date) {
			continue
		}
		if carer != nil && s.Carer != *carer {
			continue
		}
		if s.NetworkID == "" {
			s.NetworkID = networkID
		}
		out = append(out, s)
	}
	return out
}

func filterLeave(leave []model.LeaveRequest, networkID string, rng model.DateRange, carer *model.CarerRef) []model.LeaveRequest {
	out := make([]model.LeaveRequest, 0, len(leave))
	for _, l := range leave {
		if l.NetworkID != "" && l.NetworkID != networkID {
			continue
		}
		if !rng.Overlaps(l.Start, l.End) {
			continue
		}
		if carer != nil && l.Carer != *carer {
			continue
		}
		if l.NetworkID == "" {
			l.NetworkID = networkID
		}
		out = append(out, l)
	}
	return out
}

func maxDate(a, b model.Date) model.Date {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b model.Date) model.Date {
	if a.Before(b) {
		return a
	}
	return b
}
