package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jakechorley/carecal/pkg/core/model"
	"github.com/jakechorley/carecal/pkg/core/recurrence"
)

const (
	uniqueViolation       = "23505"
	chainDueKeyConstraint = "recurring_instance_chain_due_key"
)

// isChainDueKeyViolation reports whether err is the unique violation raised
// when a chain already holds an instance for the same due key. Other unique
// violations, such as a reused primary key, are real errors.
func isChainDueKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == chainDueKeyConstraint
}

func datePtr(t *time.Time) *model.Date {
	if t == nil {
		return nil
	}
	d := model.DateOf(*t)
	return &d
}

func timePtr(d *model.Date) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time()
	return &t
}

const recurringColumns = `id, parent_chain_id, network_id, title, entity_type, recurrence, due_date, visible_from, completed`

func scanRecurring(row pgx.Row) (model.RecurringEntity, error) {
	var r model.RecurringEntity
	var title, entityType *string
	var recurrenceKind string
	var due, visible *time.Time
	if err := row.Scan(&r.ID, &r.ParentChainID, &r.NetworkID, &title, &entityType,
		&recurrenceKind, &due, &visible, &r.Completed); err != nil {
		return r, err
	}
	if title != nil {
		r.Title = *title
	}
	if entityType != nil {
		r.EntityType = model.EntityType(*entityType)
	}
	r.Recurrence = model.RecurrenceKind(recurrenceKind)
	r.DueDate = datePtr(due)
	r.VisibleFrom = datePtr(visible)
	return r, nil
}

// GetRecurringInstance retrieves one instance by id
func (d *DB) GetRecurringInstance(ctx context.Context, id string) (*model.RecurringEntity, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+recurringColumns+` FROM recurring_instance WHERE id = $1`, id)
	r, err := scanRecurring(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", model.ErrInstanceNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring instance: %w", err)
	}
	return &r, nil
}

// MarkRecurringCompleted sets completed on an instance; repeating it is harmless
func (d *DB) MarkRecurringCompleted(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `UPDATE recurring_instance SET completed = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark recurring instance completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", model.ErrInstanceNotFound, id)
	}
	return nil
}

// InsertRecurringInstance inserts entity and relies on the (parent_chain_id,
// due_key) constraint to decide between concurrent inserts. Losing that race
// returns (false, nil).
func (d *DB) InsertRecurringInstance(ctx context.Context, entity model.RecurringEntity) (bool, error) {
	var dueKey *string
	if key, err := recurrence.DueKey(entity); err == nil {
		dueKey = &key
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO recurring_instance (id, parent_chain_id, network_id, title, entity_type,
		                                recurrence, due_date, visible_from, due_key, completed)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, $10)
	`, entity.ID, entity.ChainID(), entity.NetworkID, entity.Title, string(entity.EntityType),
		string(entity.Recurrence), timePtr(entity.DueDate), timePtr(entity.VisibleFrom), dueKey, entity.Completed)
	if isChainDueKeyViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert recurring instance: %w", err)
	}
	return true, nil
}

// FetchRecurringInstances lists a network's instances; an empty networkID lists all
func (d *DB) FetchRecurringInstances(ctx context.Context, networkID string) ([]model.RecurringEntity, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+recurringColumns+`
		FROM recurring_instance
		WHERE $1 = '' OR network_id = $1
		ORDER BY created_at, id
	`, networkID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring instances: %w", err)
	}
	defer rows.Close()

	instances := make([]model.RecurringEntity, 0)
	for rows.Next() {
		r, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring instance: %w", err)
		}
		instances = append(instances, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring instances: %w", err)
	}

	return instances, nil
}
