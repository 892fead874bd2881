package calendar

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/carecal/pkg/core/model"
)

var (
	c1 = model.RealCarer("c1")
	c2 = model.RealCarer("c2")
	p1 = model.PlaceholderCarer("c1") // same raw id as c1, different identity
)

func d(s string) model.Date { return model.MustParseDate(s) }

func tod(s string) *model.TimeOfDay {
	t := model.MustParseTimeOfDay(s)
	return &t
}

func window(start, end string) model.DateRange {
	return model.DateRange{Start: d(start), End: d(end)}
}

func basicShift(id string, carer model.CarerRef, date, start, end string) model.ShiftEntry {
	return model.ShiftEntry{
		ID:        id,
		NetworkID: "net-1",
		Carer:     carer,
		Date:      d(date),
		Start:     model.MustParseTimeOfDay(start),
		End:       tod(end),
		Kind:      model.ShiftBasic,
	}
}

func approvedLeave(id string, carer model.CarerRef, start, end string, kind model.LeaveKind) model.LeaveRequest {
	return model.LeaveRequest{
		ID:        id,
		NetworkID: "net-1",
		Carer:     carer,
		Start:     d(start),
		End:       d(end),
		Kind:      kind,
		Status:    model.LeaveApproved,
	}
}

func TestReconcile_LeaveOverridesBasicShift(t *testing.T) {
	in := ReconcileInput{
		NetworkID: "net-1",
		Range:     window("2025-06-10", "2025-06-10"),
		Shifts:    []model.ShiftEntry{basicShift("s1", c1, "2025-06-10", "09:00", "17:00")},
		Leave:     []model.LeaveRequest{approvedLeave("l1", c1, "2025-06-09", "2025-06-12", model.LeaveAnnual)},
		Names:     DisplayNames{c1: "C1"},
	}

	entries, err := Reconcile(in)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, model.ShiftAnnualLeave, e.Kind)
	assert.Equal(t, "Holiday - C1", e.Label)
	assert.True(t, e.IsLeaveDerived)
	assert.Equal(t, "09:00", e.Start.String())
	assert.Equal(t, "17:00", e.End.String())
	assert.Equal(t, "2025-06-10", e.Date.String())
	assert.Equal(t, c1, e.CarerID)
}

func TestReconcile_NonBasicShiftsSurviveLeave(t *testing.T) {
	cover := basicShift("s-cover", c1, "2025-06-10", "18:00", "22:00")
	cover.Kind = model.ShiftCover
	sick := basicShift("s-sick", c1, "2025-06-11", "09:00", "17:00")
	sick.Kind = model.ShiftSickness

	in := ReconcileInput{
		NetworkID: "net-1",
		Range:     window("2025-06-10", "2025-06-11"),
		Shifts: []model.ShiftEntry{
			basicShift("s-basic", c1, "2025-06-10", "09:00", "17:00"),
			cover,
			sick,
		},
		Leave: []model.LeaveRequest{approvedLeave("l1", c1, "2025-06-10", "2025-06-11", model.LeaveAnnual)},
		Names: DisplayNames{c1: "Alice"},
	}

	entries, err := Reconcile(in)
	require.NoError(t, err)

	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	assert.NotContains(t, ids, "s-basic")
	assert.Contains(t, ids, "s-cover")
	assert.Contains(t, ids, "s-sick")
	assert.Contains(t, ids, "leave:l1:2025-06-10")
	assert.Contains(t, ids, "leave:l1:2025-06-11")
}

func TestReconcile_OnlyApprovedLeaveCounts(t *testing.T) {
	pending := approvedLeave("l-pending", c1, "2025-06-10", "2025-06-10", model.LeaveAnnual)
	pending.Status = model.LeavePending
	denied := approvedLeave("l-denied", c1, "2025-06-10", "2025-06-10", model.LeaveSickness)
	denied.Status = model.LeaveDenied

	entries, err := Reconcile(ReconcileInput{
		NetworkID: "net-1",
		Range:     window("2025-06-10", "2025-06-10"),
		Shifts:    []model.ShiftEntry{basicShift("s1", c1, "2025-06-10", "09:00", "17:00")},
		Leave:     []model.LeaveRequest{pending, denied},
		Names:     DisplayNames{c1: "C1"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "s1", entries[0].ID)
	assert.Equal(t, "Shift - C1", entries[0].Label)
}

func TestReconcile_LeaveClippedToWindow(t *testing.T) {
	entries, err := Reconcile(ReconcileInput{
		NetworkID: "net-1",
		Range:     window("2025-06-10", "2025-06-12"),
		Leave:     []model.LeaveRequest{approvedLeave("l1", c2, "2025-06-01", "2025-06-30", model.LeavePublicHoliday)},
		Names:     DisplayNames{c2: "Bob"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2025-06-10", entries[0].Date.String())
	assert.Equal(t, "2025-06-12", entries[2].Date.String())
	assert.Equal(t, "Public Holiday - Bob", entries[0].Label)
}

func TestReconcile_LeaveKindsMapToLabels(t *testing.T) {
	tests := []struct {
		kind  model.LeaveKind
		label string
	}{
		{model.LeaveAnnual, "Holiday - Bob"},
		{model.LeaveSickness, "Sickness - Bob"},
		{model.LeavePublicHoliday, "Public Holiday - Bob"},
		{model.LeaveCover, "Cover - Bob"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			entries, err := Reconcile(ReconcileInput{
				NetworkID: "net-1",
				Range:     window("2025-06-10", "2025-06-10"),
				Leave:     []model.LeaveRequest{approvedLeave("l1", c2, "2025-06-10", "2025-06-10", tt.kind)},
				Names:     DisplayNames{c2: "Bob"},
			})
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.label, entries[0].Label)
		})
	}
}

func TestReconcile_CarerFilterAppliesToBothSources(t *testing.T) {
	filter := c2
	entries, err := Reconcile(ReconcileInput{
		NetworkID: "net-1",
		Range:     window("2025-06-10", "2025-06-10"),
		Shifts: []model.ShiftEntry{
			basicShift("s1", c1, "2025-06-10", "09:00", "17:00"),
			basicShift("s2", c2, "2025-06-10", "09:00", "17:00"),
		},
		Leave: []model.LeaveRequest{
			approvedLeave("l1", c1, "2025-06-10", "2025-06-10", model.LeaveAnnual),
		},
		Names:       DisplayNames{c1: "Alice", c2: "Bob"},
		CarerFilter: &filter,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "s2", entries[0].ID)
}

func TestReconcile_PlaceholderDoesNotCollideWithRealCarer(t *testing.T) {
	entries, err := Reconcile(ReconcileInput{
		NetworkID: "net-1",
		Range:     window("2025-06-10", "2025-06-10"),
		Shifts:    []model.ShiftEntry{basicShift("s1", p1, "2025-06-10", "09:00", "17:00")},
		Leave:     []model.LeaveRequest{approvedLeave("l1", c1, "2025-06-10", "2025-06-10", model.LeaveAnnual)},
		Names:     DisplayNames{c1: "Real Person", p1: "Pending Person"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var shift *model.CalendarEntry
	for i := range entries {
		if entries[i].ID == "s1" {
			shift = &entries[i]
		}
	}
	require.NotNil(t, shift, "placeholder's shift should not be suppressed by a real carer's leave")
	assert.Equal(t, "Pending Person", shift.DisplayName)
}

func TestReconcile_NameFallbacks(t *testing.T) {
	unnamedLeave := approvedLeave("l1", model.RealCarer("ghost"), "2025-06-10", "2025-06-10", model.LeaveAnnual)
	cachedLeave := approvedLeave("l2", model.RealCarer("gone"), "2025-06-10", "2025-06-10", model.LeaveAnnual)
	cachedLeave.CarerName = "Cached Carol"

	unassigned := basicShift("s1", model.CarerRef{}, "2025-06-10", "08:00", "10:00")
	cachedShift := basicShift("s2", model.RealCarer("gone2"), "2025-06-10", "07:00", "08:00")
	cachedShift.CarerName = "Cached Dan"

	entries, err := Reconcile(ReconcileInput{
		NetworkID: "net-1",
		Range:     window("2025-06-10", "2025-06-10"),
		Shifts:    []model.ShiftEntry{unassigned, cachedShift},
		Leave:     []model.LeaveRequest{unnamedLeave, cachedLeave},
	})
	require.NoError(t, err)

	names := make(map[string]string)
	for _, e := range entries {
		names[e.ID] = e.DisplayName
	}
	assert.Equal(t, "Unassigned", names["s1"])
	assert.Equal(t, "Cached Dan", names["s2"])
	assert.Equal(t, "Unknown", names["leave:l1:2025-06-10"])
	assert.Equal(t, "Cached Carol", names["leave:l2:2025-06-10"])
}

func TestReconcile_MissingEndTimeIsZeroDuration(t *testing.T) {
	s := basicShift("s1", c1, "2025-06-10", "14:30", "00:00")
	s.End = nil

	entries, err := Reconcile(ReconcileInput{
		NetworkID: "net-1",
		Range:     window("2025-06-10", "2025-06-10"),
		Shifts:    []model.ShiftEntry{s},
		Names:     DisplayNames{c1: "C1"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entries[0].Start, entries[0].End)
}

func TestReconcile_InvalidRange(t *testing.T) {
	entries, err := Reconcile(ReconcileInput{
		NetworkID: "net-1",
		Range:     window("2025-06-12", "2025-06-10"),
	})
	assert.ErrorIs(t, err, model.ErrInvalidRange)
	assert.Nil(t, entries)
}

func TestReconcile_CustomLeaveWindow(t *testing.T) {
	entries, err := Reconcile(ReconcileInput{
		NetworkID:  "net-1",
		Range:      window("2025-06-10", "2025-06-10"),
		Leave:      []model.LeaveRequest{approvedLeave("l1", c1, "2025-06-10", "2025-06-10", model.LeaveAnnual)},
		LeaveStart: model.MustParseTimeOfDay("08:00"),
		LeaveEnd:   model.MustParseTimeOfDay("16:00"),
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "08:00", entries[0].Start.String())
	assert.Equal(t, "16:00", entries[0].End.String())

	_, err = Reconcile(ReconcileInput{
		NetworkID:  "net-1",
		Range:      window("2025-06-10", "2025-06-10"),
		LeaveStart: model.MustParseTimeOfDay("16:00"),
		LeaveEnd:   model.MustParseTimeOfDay("08:00"),
	})
	assert.Error(t, err)
}

func TestReconcile_OtherNetworksAndOutOfWindowDropped(t *testing.T) {
	other := basicShift("s-other", c1, "2025-06-10", "09:00", "17:00")
	other.NetworkID = "net-2"
	outside := basicShift("s-outside", c1, "2025-06-20", "09:00", "17:00")

	entries, err := Reconcile(ReconcileInput{
		NetworkID: "net-1",
		Range:     window("2025-06-10", "2025-06-12"),
		Shifts:    []model.ShiftEntry{other, outside, basicShift("s-in", c1, "2025-06-11", "09:00", "17:00")},
		Names:     DisplayNames{c1: "C1"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "s-in", entries[0].ID)
}

// fixture used by the property tests below
func propertyInput() ReconcileInput {
	c3 := model.PlaceholderCarer("p3")
	return ReconcileInput{
		NetworkID: "net-1",
		Range:     window("2025-06-09", "2025-06-15"),
		Shifts: []model.ShiftEntry{
			basicShift("s1", c1, "2025-06-09", "09:00", "17:00"),
			basicShift("s2", c1, "2025-06-10", "09:00", "17:00"),
			basicShift("s3", c2, "2025-06-10", "09:00", "17:00"),
			basicShift("s4", c3, "2025-06-10", "08:00", "12:00"),
			basicShift("s5", c2, "2025-06-11", "13:00", "18:00"),
			basicShift("s6", c2, "2025-06-12", "09:00", "17:00"),
			basicShift("s7", c3, "2025-06-14", "09:00", "17:00"),
			{ID: "s8", NetworkID: "net-1", Carer: c1, Date: d("2025-06-11"), Start: model.MustParseTimeOfDay("19:00"), Kind: model.ShiftCover},
		},
		Leave: []model.LeaveRequest{
			approvedLeave("l1", c1, "2025-06-10", "2025-06-11", model.LeaveAnnual),
			approvedLeave("l2", c2, "2025-06-12", "2025-06-13", model.LeaveSickness),
			approvedLeave("l3", c3, "2025-06-14", "2025-06-14", model.LeavePublicHoliday),
		},
		Names: DisplayNames{c1: "Alice", c2: "Bob", c3: "Cleo"},
	}
}

func TestReconcile_OverrideInvariant(t *testing.T) {
	in := propertyInput()
	entries, err := Reconcile(in)
	require.NoError(t, err)

	index := NewLeaveIndex(in.Leave)
	nonBasicSeen := false
	for _, e := range entries {
		if e.IsLeaveDerived {
			continue
		}
		if e.Kind == model.ShiftBasic {
			assert.False(t, index.OnLeave(e.CarerID, e.Date), "basic shift %s shown during leave", e.ID)
		} else if index.OnLeave(e.CarerID, e.Date) {
			nonBasicSeen = true
		}
	}
	assert.True(t, nonBasicSeen, "cover shift during leave should be kept")
}

func TestReconcile_OrderingIndependentOfInputOrder(t *testing.T) {
	in := propertyInput()
	expected, err := Reconcile(in)
	require.NoError(t, err)

	for i := 1; i < len(expected); i++ {
		assert.False(t, lessEntry(expected[i], expected[i-1]), "entries %d and %d out of order", i-1, i)
	}

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 25; trial++ {
		shuffled := propertyInput()
		rng.Shuffle(len(shuffled.Shifts), func(i, j int) {
			shuffled.Shifts[i], shuffled.Shifts[j] = shuffled.Shifts[j], shuffled.Shifts[i]
		})
		rng.Shuffle(len(shuffled.Leave), func(i, j int) {
			shuffled.Leave[i], shuffled.Leave[j] = shuffled.Leave[j], shuffled.Leave[i]
		})

		got, err := Reconcile(shuffled)
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	}
}
