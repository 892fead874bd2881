package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/carecal/internal/config"
	"github.com/jakechorley/carecal/pkg/core/calendar"
	"github.com/jakechorley/carecal/pkg/core/model"
	"github.com/jakechorley/carecal/pkg/core/window"
)

// WeekView is one page of a caller's aggregated Monday-Sunday week
type WeekView struct {
	Week       model.DateRange
	Page       int // clamped page index
	TotalPages int
	Days       []calendar.DayEntries // every day on the page, including empty ones
}

func pageSize(cfg *config.Config) int {
	if cfg != nil && cfg.CalendarPageSize > 0 {
		return cfg.CalendarPageSize
	}
	return config.DefaultCalendarPageSize
}

// AnchorPage is the index of the page of anchor's week that holds anchor
func AnchorPage(cfg *config.Config, anchor model.Date) int {
	return window.New(window.Week(anchor), pageSize(cfg)).PageContaining(anchor)
}

// WeekPage aggregates the caller's calendar for the week containing anchor
// and returns the requested page of days. Out-of-range pages clamp.
func WeekPage(
	ctx context.Context,
	store AggregateStore,
	logger *zap.Logger,
	cfg *config.Config,
	callerID string,
	anchor model.Date,
	page int,
) (*WeekView, error) {
	full := window.Week(anchor)
	week := model.DateRange{Start: full[0], End: full[len(full)-1]}

	w := window.New(full, pageSize(cfg))
	days := w.Page(page)

	// Only the visible page is fetched
	entries, err := AggregatedShiftsForWindow(ctx, store, logger, cfg, callerID, model.DateRange{Start: days[0], End: days[len(days)-1]}, nil)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]model.CalendarEntry)
	for _, day := range calendar.GroupByDate(entries) {
		byDate[day.Date.String()] = day.Entries
	}

	view := &WeekView{
		Week:       week,
		Page:       w.Clamp(page),
		TotalPages: w.TotalPages(),
		Days:       make([]calendar.DayEntries, 0, len(days)),
	}
	for _, d := range days {
		view.Days = append(view.Days, calendar.DayEntries{Date: d, Entries: byDate[d.String()]})
	}

	logger.Debug("Built week page",
		zap.String("caller_id", callerID),
		zap.String("week", week.String()),
		zap.Int("page", view.Page),
		zap.Int("total_pages", view.TotalPages))

	return view, nil
}
