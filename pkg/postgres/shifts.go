package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jakechorley/carecal/pkg/core/model"
)

func timeOfDay(t pgtype.Time) model.TimeOfDay {
	return model.TimeOfDay(t.Microseconds / int64(time.Minute/time.Microsecond))
}

// FetchShifts retrieves the network's shifts dated inside rng
func (d *DB) FetchShifts(ctx context.Context, networkID string, rng model.DateRange) ([]model.ShiftEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, network_id, carer_user_id, carer_placeholder_id, carer_name,
		       shift_date, start_time, end_time, kind, note, pending_export
		FROM shift_entry
		WHERE network_id = $1 AND shift_date BETWEEN $2 AND $3
	`, networkID, rng.Start.Time(), rng.End.Time())
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	shifts := make([]model.ShiftEntry, 0)
	for rows.Next() {
		var s model.ShiftEntry
		var userID, placeholderID, carerName, note *string
		var date time.Time
		var start, end pgtype.Time
		var kind string
		if err := rows.Scan(&s.ID, &s.NetworkID, &userID, &placeholderID, &carerName,
			&date, &start, &end, &kind, &note, &s.PendingExport); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}

		s.Carer = carerFromColumns(userID, placeholderID)
		if carerName != nil {
			s.CarerName = *carerName
		}
		if note != nil {
			s.Note = *note
		}
		s.Date = model.DateOf(date)
		s.Start = timeOfDay(start)
		if end.Valid {
			e := timeOfDay(end)
			s.End = &e
		}
		s.Kind = model.ShiftKind(kind)
		shifts = append(shifts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}

	return shifts, nil
}

// FetchApprovedLeave retrieves the network's approved leave overlapping rng
func (d *DB) FetchApprovedLeave(ctx context.Context, networkID string, rng model.DateRange) ([]model.LeaveRequest, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, network_id, carer_user_id, carer_placeholder_id, carer_name,
		       start_date, end_date, kind, status, hours::float8
		FROM leave_request
		WHERE network_id = $1 AND status = 'approved'
		  AND start_date <= $3 AND end_date >= $2
	`, networkID, rng.Start.Time(), rng.End.Time())
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	leave := make([]model.LeaveRequest, 0)
	for rows.Next() {
		var l model.LeaveRequest
		var userID, placeholderID, carerName *string
		var start, end time.Time
		var kind, status string
		if err := rows.Scan(&l.ID, &l.NetworkID, &userID, &placeholderID, &carerName,
			&start, &end, &kind, &status, &l.Hours); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}

		l.Carer = carerFromColumns(userID, placeholderID)
		if carerName != nil {
			l.CarerName = *carerName
		}
		l.Start = model.DateOf(start)
		l.End = model.DateOf(end)
		l.Kind = model.LeaveKind(kind)
		l.Status = model.LeaveStatus(status)
		leave = append(leave, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leave requests: %w", err)
	}

	return leave, nil
}
