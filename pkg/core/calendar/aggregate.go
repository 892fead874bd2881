package calendar

import "github.com/jakechorley/carecal/pkg/core/model"

// NetworkEntries is one network's reconciled calendar
type NetworkEntries struct {
	NetworkID   string
	NetworkName string
	Entries     []model.CalendarEntry
}

// Aggregate tags each network's entries with that network's identity and
// merges them into a single calendar, ordered as SortEntries orders them
// (network name breaks ties after carer name). Override logic is not
// re-applied here; each network was already reconciled on its own.
func Aggregate(networks []NetworkEntries) []model.CalendarEntry {
	total := 0
	for _, n := range networks {
		total += len(n.Entries)
	}

	merged := make([]model.CalendarEntry, 0, total)
	for _, n := range networks {
		for _, e := range n.Entries {
			e.NetworkID = n.NetworkID
			e.NetworkName = n.NetworkName
			merged = append(merged, e)
		}
	}

	SortEntries(merged)
	return merged
}

// UniqueMemberships drops repeated memberships of the same network, keeping
// the first one seen
func UniqueMemberships(memberships []model.NetworkMembership) []model.NetworkMembership {
	seen := make(map[string]bool, len(memberships))
	out := make([]model.NetworkMembership, 0, len(memberships))
	for _, m := range memberships {
		if m.NetworkID == "" || seen[m.NetworkID] {
			continue
		}
		seen[m.NetworkID] = true
		out = append(out, m)
	}
	return out
}
