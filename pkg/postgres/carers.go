package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/carecal/pkg/core/model"
)

// carerColumns splits a CarerRef into the nullable (carer_user_id, carer_placeholder_id) pair
func carerColumns(c model.CarerRef) (*string, *string) {
	if c.IsZero() {
		return nil, nil
	}
	id := c.ID
	if c.IsPlaceholder() {
		return nil, &id
	}
	return &id, nil
}

// carerFromColumns is the inverse of carerColumns
func carerFromColumns(userID, placeholderID *string) model.CarerRef {
	switch {
	case userID != nil && *userID != "":
		return model.RealCarer(*userID)
	case placeholderID != nil && *placeholderID != "":
		return model.PlaceholderCarer(*placeholderID)
	}
	return model.CarerRef{}
}

// FetchCarerDisplayNames resolves real carers through carer_profile (or a
// placeholder linked to them) and placeholders through their linked profile
// first, then their own name. Carers with no name are left out of the map.
func (d *DB) FetchCarerDisplayNames(ctx context.Context, carers []model.CarerRef) (map[model.CarerRef]string, error) {
	names := make(map[model.CarerRef]string, len(carers))

	var userIDs, placeholderIDs []string
	for _, c := range carers {
		if c.IsZero() {
			continue
		}
		if c.IsPlaceholder() {
			placeholderIDs = append(placeholderIDs, c.ID)
		} else {
			userIDs = append(userIDs, c.ID)
		}
	}

	if len(userIDs) > 0 {
		rows, err := d.pool.Query(ctx, `
			SELECT u.id, COALESCE(p.name, pc.name)
			FROM UNNEST($1::text[]) AS u(id)
			LEFT JOIN carer_profile p ON p.id = u.id
			LEFT JOIN LATERAL (
				SELECT name FROM placeholder_carer WHERE linked_user_id = u.id ORDER BY id LIMIT 1
			) pc ON TRUE
		`, userIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to query carer profiles: %w", err)
		}
		if err := collectNames(rows, model.RealCarer, names); err != nil {
			return nil, fmt.Errorf("failed to read carer profiles: %w", err)
		}
	}

	if len(placeholderIDs) > 0 {
		rows, err := d.pool.Query(ctx, `
			SELECT pc.id, COALESCE(p.name, pc.name)
			FROM placeholder_carer pc
			LEFT JOIN carer_profile p ON p.id = pc.linked_user_id
			WHERE pc.id = ANY($1)
		`, placeholderIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to query placeholder carers: %w", err)
		}
		if err := collectNames(rows, model.PlaceholderCarer, names); err != nil {
			return nil, fmt.Errorf("failed to read placeholder carers: %w", err)
		}
	}

	return names, nil
}

// collectNames reads (id, name) rows into names, skipping empty names. It closes rows.
func collectNames(rows pgx.Rows, ref func(string) model.CarerRef, names map[model.CarerRef]string) error {
	defer rows.Close()
	for rows.Next() {
		var id string
		var name *string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		if name != nil && *name != "" {
			names[ref(id)] = *name
		}
	}
	return rows.Err()
}

// FetchNetworkMemberships returns the networks callerID belongs to, ordered by network name
func (d *DB) FetchNetworkMemberships(ctx context.Context, callerID string) ([]model.NetworkMembership, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT m.user_id, m.network_id, n.name, m.role
		FROM network_membership m
		JOIN network n ON n.id = m.network_id
		WHERE m.user_id = $1
		ORDER BY n.name, m.network_id
	`, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query network memberships: %w", err)
	}
	defer rows.Close()

	memberships := make([]model.NetworkMembership, 0)
	for rows.Next() {
		var m model.NetworkMembership
		var role string
		if err := rows.Scan(&m.CallerID, &m.NetworkID, &m.NetworkName, &role); err != nil {
			return nil, fmt.Errorf("failed to scan network membership: %w", err)
		}
		m.Role = model.Role(role)
		memberships = append(memberships, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating network memberships: %w", err)
	}

	return memberships, nil
}
