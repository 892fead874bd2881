package recurrence

import (
	"sort"

	"github.com/jakechorley/carecal/pkg/core/model"
)

// Visible returns the incomplete instances that should appear in default views
// on today: those with no visible-from date, or one on or before today.
// Results are ordered by due date (undated last), then title, then ID.
func Visible(instances []model.RecurringEntity, today model.Date) []model.RecurringEntity {
	visible := make([]model.RecurringEntity, 0, len(instances))
	for _, inst := range instances {
		if inst.Completed {
			continue
		}
		if inst.VisibleFrom != nil && inst.VisibleFrom.After(today) {
			continue
		}
		visible = append(visible, inst)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		a, b := visible[i], visible[j]
		if c := compareDue(a.DueDate, b.DueDate); c != 0 {
			return c < 0
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})

	return visible
}

func compareDue(a, b *model.Date) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}
