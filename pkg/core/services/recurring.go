package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/carecal/internal/config"
	"github.com/jakechorley/carecal/pkg/core/model"
	"github.com/jakechorley/carecal/pkg/core/recurrence"
	"github.com/jakechorley/carecal/pkg/db"
)

// CompletionResult reports a completed instance and, for recurring chains,
// what happened when its successor was created
type CompletionResult struct {
	Completed model.RecurringEntity
	Next      *recurrence.GuardResult // nil for non-recurring instances
}

// CompleteRecurring marks an instance complete and creates the next instance
// of its chain. Completing the same instance twice is safe: an instance that
// is already completed never spawns another successor, whatever today is, and
// a concurrent completion loses on the store's chain/due-key constraint. Both
// report Created=false.
//
// Unrecognised recurrence kinds follow policy: config.UnknownRecurrenceReject
// fails before anything is written, anything else treats them as daily.
func CompleteRecurring(
	ctx context.Context,
	store db.InstanceStore,
	logger *zap.Logger,
	calc *recurrence.Calculator,
	policy string,
	instanceID string,
	today model.Date,
) (*CompletionResult, error) {
	logger.Debug("Completing recurring instance",
		zap.String("instance_id", instanceID),
		zap.String("today", today.String()))

	inst, err := store.GetRecurringInstance(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recurring instance: %w", err)
	}

	kind, err := recurrence.ParseKind(string(inst.Recurrence))
	if err != nil {
		if policy == config.UnknownRecurrenceReject {
			return nil, fmt.Errorf("cannot complete instance %s: %w", instanceID, err)
		}
		logger.Warn("Unknown recurrence kind, treating as daily",
			zap.String("instance_id", instanceID),
			zap.String("recurrence", string(inst.Recurrence)))
	}

	if inst.Completed {
		result := &CompletionResult{Completed: *inst}
		if kind.IsRecurring() {
			result.Next = &recurrence.GuardResult{
				Reason: fmt.Sprintf("instance %s is already completed", instanceID),
			}
		}
		logger.Info("Instance already completed, no successor created",
			zap.String("instance_id", instanceID),
			zap.String("chain_id", inst.ChainID()))
		return result, nil
	}

	if err := store.MarkRecurringCompleted(ctx, instanceID); err != nil {
		return nil, fmt.Errorf("failed to mark instance completed: %w", err)
	}
	inst.Completed = true

	result := &CompletionResult{Completed: *inst}

	if !kind.IsRecurring() {
		logger.Debug("Instance does not recur, no successor created", zap.String("instance_id", instanceID))
		return result, nil
	}

	if calc == nil {
		calc = &recurrence.Calculator{}
	}

	visibleFrom := calc.NextVisibleFrom(kind, today)
	candidate := model.RecurringEntity{
		ID:            uuid.New().String(),
		ParentChainID: inst.ChainID(),
		NetworkID:     inst.NetworkID,
		Title:         inst.Title,
		EntityType:    inst.EntityType,
		Recurrence:    inst.Recurrence,
		VisibleFrom:   &visibleFrom,
	}
	if inst.DueDate != nil && !inst.DueDate.IsZero() {
		due := calc.NextDueDate(inst.DueDate, kind, today)
		candidate.DueDate = &due
	}

	guard, err := recurrence.TryCreateNextInstance(ctx, store, candidate)
	if err != nil {
		return nil, err
	}
	result.Next = &guard

	if guard.Created {
		logger.Info("Created next recurring instance",
			zap.String("chain_id", candidate.ParentChainID),
			zap.String("instance_id", candidate.ID),
			zap.String("due_key", guard.DueKey))
	} else {
		logger.Info("Next recurring instance already exists",
			zap.String("chain_id", candidate.ParentChainID),
			zap.String("reason", guard.Reason))
	}

	return result, nil
}

// VisibleRecurring lists the network's incomplete instances visible on today
func VisibleRecurring(
	ctx context.Context,
	store db.InstanceStore,
	logger *zap.Logger,
	networkID string,
	today model.Date,
) ([]model.RecurringEntity, error) {
	instances, err := store.FetchRecurringInstances(ctx, networkID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch recurring instances: %w", model.ErrUpstreamFetch, err)
	}

	visible := recurrence.Visible(instances, today)

	logger.Debug("Filtered visible recurring instances",
		zap.String("network_id", networkID),
		zap.Int("total", len(instances)),
		zap.Int("visible", len(visible)))

	return visible, nil
}
