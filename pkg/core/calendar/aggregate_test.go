package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/carecal/pkg/core/model"
)

func entry(id, date, start, name string) model.CalendarEntry {
	return model.CalendarEntry{
		ID:          id,
		Date:        d(date),
		Start:       model.MustParseTimeOfDay(start),
		DisplayName: name,
		Kind:        model.ShiftBasic,
	}
}

func TestAggregate_TagsAndOrders(t *testing.T) {
	networks := []NetworkEntries{
		{
			NetworkID:   "net-b",
			NetworkName: "Smith family",
			Entries: []model.CalendarEntry{
				entry("b1", "2025-06-10", "09:00", "Alice"),
				entry("b2", "2025-06-11", "08:00", "Alice"),
			},
		},
		{
			NetworkID:   "net-a",
			NetworkName: "Jones family",
			Entries: []model.CalendarEntry{
				entry("a1", "2025-06-10", "09:00", "Alice"),
				entry("a2", "2025-06-10", "07:00", "Zed"),
			},
		},
	}

	merged := Aggregate(networks)
	require.Len(t, merged, 4)

	var ids []string
	for _, e := range merged {
		ids = append(ids, e.ID)
	}
	// a1 and b1 tie on date/start/name; Jones sorts before Smith
	assert.Equal(t, []string{"a2", "a1", "b1", "b2"}, ids)

	assert.Equal(t, "net-a", merged[1].NetworkID)
	assert.Equal(t, "Jones family", merged[1].NetworkName)
	assert.Equal(t, "net-b", merged[2].NetworkID)
	assert.Equal(t, "Smith family", merged[2].NetworkName)
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	networks := []NetworkEntries{
		{NetworkID: "net-a", NetworkName: "A", Entries: []model.CalendarEntry{entry("a1", "2025-06-10", "09:00", "Alice")}},
	}
	Aggregate(networks)
	assert.Empty(t, networks[0].Entries[0].NetworkName)
}

func TestAggregate_Empty(t *testing.T) {
	merged := Aggregate(nil)
	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}

func TestUniqueMemberships(t *testing.T) {
	memberships := []model.NetworkMembership{
		{CallerID: "u1", NetworkID: "net-a", Role: model.RoleCarer},
		{CallerID: "u1", NetworkID: "net-b", Role: model.RoleAdmin},
		{CallerID: "u1", NetworkID: "net-a", Role: model.RoleViewer},
		{CallerID: "u1", NetworkID: ""},
	}

	unique := UniqueMemberships(memberships)
	require.Len(t, unique, 2)
	assert.Equal(t, model.RoleCarer, unique[0].Role)
	assert.Equal(t, "net-b", unique[1].NetworkID)
}

func TestGroupByDate(t *testing.T) {
	entries := []model.CalendarEntry{
		entry("1", "2025-06-10", "09:00", "A"),
		entry("2", "2025-06-10", "10:00", "A"),
		entry("3", "2025-06-12", "09:00", "A"),
	}

	days := GroupByDate(entries)
	require.Len(t, days, 2)
	assert.Equal(t, "2025-06-10", days[0].Date.String())
	assert.Len(t, days[0].Entries, 2)
	assert.Equal(t, "2025-06-12", days[1].Date.String())
	assert.Len(t, days[1].Entries, 1)
}
