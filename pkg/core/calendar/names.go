package calendar

import "github.com/jakechorley/carecal/pkg/core/model"

const (
	// UnassignedName is shown for shifts whose carer cannot be named
	UnassignedName = "Unassigned"
	// UnknownName is shown for leave whose carer cannot be named
	UnknownName = "Unknown"
)

// DisplayNames maps carers to names already resolved by the store, with real
// profile names preferred over placeholder names
type DisplayNames map[model.CarerRef]string

// Resolve walks the name chain: resolved name, then the cached name on the
// record, then fallback
func (n DisplayNames) Resolve(carer model.CarerRef, cached, fallback string) string {
	if !carer.IsZero() {
		if name, ok := n[carer]; ok && name != "" {
			return name
		}
	}
	if cached != "" {
		return cached
	}
	return fallback
}

// CarerRefs collects the distinct carers referenced by shifts and leave, in
// first-seen order
func CarerRefs(shifts []model.ShiftEntry, leave []model.LeaveRequest) []model.CarerRef {
	seen := make(map[model.CarerRef]bool)
	var refs []model.CarerRef
	add := func(c model.CarerRef) {
		if c.IsZero() || seen[c] {
			return
		}
		seen[c] = true
		refs = append(refs, c)
	}
	for _, s := range shifts {
		add(s.Carer)
	}
	for _, l := range leave {
		add(l.Carer)
	}
	return refs
}
