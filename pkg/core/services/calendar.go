package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/carecal/internal/config"
	"github.com/jakechorley/carecal/pkg/core/calendar"
	"github.com/jakechorley/carecal/pkg/core/model"
	"github.com/jakechorley/carecal/pkg/db"
)

// AggregateStore defines the database operations needed to build a caller's
// calendar across every network they belong to
type AggregateStore interface {
	db.CalendarStore
	db.MembershipSource
}

// ShiftsForWindow fetches one network's shifts, approved leave and carer
// names for rng and reconciles them into calendar entries.
// Fetch failures wrap model.ErrUpstreamFetch; they never yield an empty calendar.
func ShiftsForWindow(
	ctx context.Context,
	store db.CalendarStore,
	logger *zap.Logger,
	cfg *config.Config,
	networkID string,
	rng model.DateRange,
	carerFilter *model.CarerRef,
) ([]model.CalendarEntry, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	leaveStart, leaveEnd, err := leaveWindow(cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("Fetching calendar data",
		zap.String("network_id", networkID),
		zap.String("range", rng.String()))

	shifts, err := store.FetchShifts(ctx, networkID, rng)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch shifts for network %s: %w", model.ErrUpstreamFetch, networkID, err)
	}

	leave, err := store.FetchApprovedLeave(ctx, networkID, rng)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch leave for network %s: %w", model.ErrUpstreamFetch, networkID, err)
	}

	var names calendar.DisplayNames
	if refs := calendar.CarerRefs(shifts, leave); len(refs) > 0 {
		names, err = store.FetchCarerDisplayNames(ctx, refs)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to fetch carer names: %w", model.ErrUpstreamFetch, err)
		}
	}

	logger.Debug("Fetched calendar data",
		zap.String("network_id", networkID),
		zap.Int("shifts", len(shifts)),
		zap.Int("leave_requests", len(leave)),
		zap.Int("names", len(names)))

	entries, err := calendar.Reconcile(calendar.ReconcileInput{
		NetworkID:   networkID,
		Range:       rng,
		Shifts:      shifts,
		Leave:       leave,
		Names:       names,
		CarerFilter: carerFilter,
		LeaveStart:  leaveStart,
		LeaveEnd:    leaveEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile network %s: %w", networkID, err)
	}

	return entries, nil
}

// AggregatedShiftsForWindow reconciles every network callerID belongs to and
// merges the results. Networks are fetched concurrently, at most
// cfg.MaxConcurrentFetches at a time. Any failing network fails the whole call.
func AggregatedShiftsForWindow(
	ctx context.Context,
	store AggregateStore,
	logger *zap.Logger,
	cfg *config.Config,
	callerID string,
	rng model.DateRange,
	carerFilter *model.CarerRef,
) ([]model.CalendarEntry, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	memberships, err := store.FetchNetworkMemberships(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch memberships for %s: %w", model.ErrUpstreamFetch, callerID, err)
	}
	memberships = calendar.UniqueMemberships(memberships)

	logger.Debug("Aggregating calendars",
		zap.String("caller_id", callerID),
		zap.Int("networks", len(memberships)))

	results := make([]calendar.NetworkEntries, len(memberships))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches(cfg))

	for i, m := range memberships {
		g.Go(func() error {
			entries, err := ShiftsForWindow(gctx, store, logger, cfg, m.NetworkID, rng, carerFilter)
			if err != nil {
				return fmt.Errorf("network %s: %w", m.NetworkID, err)
			}
			results[i] = calendar.NetworkEntries{
				NetworkID:   m.NetworkID,
				NetworkName: m.NetworkName,
				Entries:     entries,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := calendar.Aggregate(results)

	logger.Debug("Aggregated calendars",
		zap.String("caller_id", callerID),
		zap.Int("entries", len(merged)))

	return merged, nil
}

func leaveWindow(cfg *config.Config) (model.TimeOfDay, model.TimeOfDay, error) {
	if cfg == nil || (cfg.LeaveDisplayStart == "" && cfg.LeaveDisplayEnd == "") {
		return calendar.DefaultLeaveStart, calendar.DefaultLeaveEnd, nil
	}
	return cfg.LeaveWindow()
}

func maxConcurrentFetches(cfg *config.Config) int {
	if cfg == nil || cfg.MaxConcurrentFetches < 1 {
		return config.DefaultMaxConcurrentFetches
	}
	return cfg.MaxConcurrentFetches
}
