package calendar

import (
	"sort"

	"github.com/jakechorley/carecal/pkg/core/model"
)

// LeaveIndex indexes approved leave by carer. Each carer's requests are kept
// sorted by start date so a lookup only walks requests that can overlap.
type LeaveIndex struct {
	byCarer map[model.CarerRef][]model.LeaveRequest
}

// NewLeaveIndex builds an index over the approved requests in leave.
// Pending and denied requests are dropped even if the source returned them.
func NewLeaveIndex(leave []model.LeaveRequest) *LeaveIndex {
	idx := &LeaveIndex{byCarer: make(map[model.CarerRef][]model.LeaveRequest)}
	for _, l := range leave {
		if l.Status != model.LeaveApproved || l.End.Before(l.Start) {
			continue
		}
		idx.byCarer[l.Carer] = append(idx.byCarer[l.Carer], l)
	}
	for carer, reqs := range idx.byCarer {
		sort.SliceStable(reqs, func(i, j int) bool {
			if !reqs[i].Start.Equal(reqs[j].Start) {
				return reqs[i].Start.Before(reqs[j].Start)
			}
			return reqs[i].ID < reqs[j].ID
		})
		idx.byCarer[carer] = reqs
	}
	return idx
}

// Covering returns the approved requests of carer that include date
func (idx *LeaveIndex) Covering(carer model.CarerRef, date model.Date) []model.LeaveRequest {
	var out []model.LeaveRequest
	for _, l := range idx.byCarer[carer] {
		if l.Start.After(date) {
			break
		}
		if l.Covers(date) {
			out = append(out, l)
		}
	}
	return out
}

// OnLeave reports whether carer has any approved leave covering date
func (idx *LeaveIndex) OnLeave(carer model.CarerRef, date model.Date) bool {
	for _, l := range idx.byCarer[carer] {
		if l.Start.After(date) {
			return false
		}
		if l.Covers(date) {
			return true
		}
	}
	return false
}

// Requests returns every indexed request, grouped by carer in no particular carer order
func (idx *LeaveIndex) Requests() []model.LeaveRequest {
	var out []model.LeaveRequest
	for _, reqs := range idx.byCarer {
		out = append(out, reqs...)
	}
	return out
}

// Len is the number of indexed (approved) requests
func (idx *LeaveIndex) Len() int {
	n := 0
	for _, reqs := range idx.byCarer {
		n += len(reqs)
	}
	return n
}
