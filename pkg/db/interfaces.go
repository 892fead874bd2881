package db

import (
	"context"

	"github.com/jakechorley/carecal/pkg/core/model"
)

// ShiftSource reads shifts for a network that fall inside a date range
type ShiftSource interface {
	FetchShifts(ctx context.Context, networkID string, rng model.DateRange) ([]model.ShiftEntry, error)
}

// LeaveSource reads approved leave for a network that overlaps a date range
type LeaveSource interface {
	FetchApprovedLeave(ctx context.Context, networkID string, rng model.DateRange) ([]model.LeaveRequest, error)
}

// NameResolver resolves carers to display names. Real profile names win over
// placeholder names; carers with neither are absent from the result.
type NameResolver interface {
	FetchCarerDisplayNames(ctx context.Context, carers []model.CarerRef) (map[model.CarerRef]string, error)
}

// MembershipSource lists the networks a caller belongs to
type MembershipSource interface {
	FetchNetworkMemberships(ctx context.Context, callerID string) ([]model.NetworkMembership, error)
}

// InstanceStore persists recurring instances. InsertRecurringInstance must
// enforce uniqueness on (parent chain, due key) and report a duplicate as
// (false, nil).
type InstanceStore interface {
	GetRecurringInstance(ctx context.Context, id string) (*model.RecurringEntity, error)
	MarkRecurringCompleted(ctx context.Context, id string) error
	InsertRecurringInstance(ctx context.Context, entity model.RecurringEntity) (bool, error)
	FetchRecurringInstances(ctx context.Context, networkID string) ([]model.RecurringEntity, error)
}

// CalendarStore is everything the calendar read path needs
type CalendarStore interface {
	ShiftSource
	LeaveSource
	NameResolver
}

// Database defines all store operations.
// Both the in-memory MemStore and postgres.DB implement this interface.
type Database interface {
	CalendarStore
	MembershipSource
	InstanceStore
}
