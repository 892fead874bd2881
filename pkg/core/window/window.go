// Package window pages an ordered run of dates for displays that cannot show
// a whole week at once.
package window

import (
	"time"

	"github.com/jakechorley/carecal/pkg/core/model"
)

// Windower splits an ordered slice of dates into fixed-size pages.
// It holds no cursor; callers keep the current page index and pass it in.
type Windower struct {
	days     []model.Date
	pageSize int
}

// New creates a windower over days. A pageSize below 1 is treated as 1.
func New(days []model.Date, pageSize int) *Windower {
	if pageSize < 1 {
		pageSize = 1
	}
	cp := make([]model.Date, len(days))
	copy(cp, days)
	return &Windower{days: cp, pageSize: pageSize}
}

// ForWeek is New over the Monday-start week containing anchor
func ForWeek(anchor model.Date, pageSize int) *Windower {
	return New(Week(anchor), pageSize)
}

func (w *Windower) PageSize() int { return w.pageSize }

// TotalPages is zero only when there are no days
func (w *Windower) TotalPages() int {
	return (len(w.days) + w.pageSize - 1) / w.pageSize
}

// Clamp bounds n to [0, TotalPages()-1]
func (w *Windower) Clamp(n int) int {
	last := w.TotalPages() - 1
	if n > last {
		n = last
	}
	if n < 0 {
		n = 0
	}
	return n
}

// Page returns the dates on page n. Out-of-range indexes clamp to the first
// or last page; the result is nil only when there are no days.
func (w *Windower) Page(n int) []model.Date {
	if len(w.days) == 0 {
		return nil
	}
	n = w.Clamp(n)
	start := n * w.pageSize
	end := min(start+w.pageSize, len(w.days))
	page := make([]model.Date, end-start)
	copy(page, w.days[start:end])
	return page
}

// PageContaining returns the index of the page holding date, or -1
func (w *Windower) PageContaining(date model.Date) int {
	for i, d := range w.days {
		if d.Equal(date) {
			return i / w.pageSize
		}
	}
	return -1
}

// Week returns the seven dates Monday..Sunday of the week containing anchor
func Week(anchor model.Date) []model.Date {
	offset := (int(anchor.Weekday()) - int(time.Monday) + 7) % 7
	monday := anchor.AddDays(-offset)
	days := make([]model.Date, 7)
	for i := range days {
		days[i] = monday.AddDays(i)
	}
	return days
}
