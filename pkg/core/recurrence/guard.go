package recurrence

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jakechorley/carecal/pkg/core/model"
)

// InstanceInserter persists a new recurring instance. Implementations must
// enforce uniqueness on (parent chain, due key) atomically and report a
// duplicate as (false, nil), never as an error.
type InstanceInserter interface {
	InsertRecurringInstance(ctx context.Context, entity model.RecurringEntity) (bool, error)
}

// GuardResult reports the outcome of TryCreateNextInstance
type GuardResult struct {
	Created  bool
	Reason   string
	Instance model.RecurringEntity
	DueKey   string
}

var validate = validator.New()

// DueKey is the uniqueness key of an instance within its chain: its due date,
// or its visible-from date for chains that do not track due dates.
func DueKey(entity model.RecurringEntity) (string, error) {
	if entity.DueDate != nil && !entity.DueDate.IsZero() {
		return "due:" + entity.DueDate.String(), nil
	}
	if entity.VisibleFrom != nil && !entity.VisibleFrom.IsZero() {
		return "visible:" + entity.VisibleFrom.String(), nil
	}
	return "", fmt.Errorf("instance %s has neither a due date nor a visible-from date", entity.ID)
}

// TryCreateNextInstance inserts candidate unless its chain already holds an
// instance with the same due key. The existence check is the store's unique
// constraint, so concurrent callers racing on one chain produce exactly one
// Created result. A duplicate is a normal outcome: Created=false with a
// reason and a nil error. Store failures are returned as errors.
func TryCreateNextInstance(ctx context.Context, store InstanceInserter, candidate model.RecurringEntity) (GuardResult, error) {
	if err := validate.Struct(candidate); err != nil {
		return GuardResult{}, fmt.Errorf("invalid recurring instance: %w", err)
	}

	key, err := DueKey(candidate)
	if err != nil {
		return GuardResult{}, err
	}

	result := GuardResult{Instance: candidate, DueKey: key}

	created, err := store.InsertRecurringInstance(ctx, candidate)
	if err != nil {
		return GuardResult{}, fmt.Errorf("failed to insert recurring instance for chain %s: %w", candidate.ParentChainID, err)
	}

	result.Created = created
	if !created {
		result.Reason = fmt.Sprintf("chain %s already has an instance for %s", candidate.ParentChainID, key)
	}
	return result, nil
}
