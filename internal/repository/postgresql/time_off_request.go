package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/havenridge/residence-backend-go/internal/domain/timeoff"
	"github.com/havenridge/residence-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type requestRepositoryImpl struct {
	db *database.DB
}

func NewRequestRepository(db *database.DB) timeoff.RequestRepository {
	return &requestRepositoryImpl{db: db}
}

const requestColumns = `
	tr.id, tr.employee_id, tr.leave_type_id,
	tr.start_date, tr.end_date, tr.requested_hours,
	tr.status, tr.requested_by_user_id,
	tr.reviewed_by_user_id, tr.reviewed_at, tr.notes,
	tr.created_at, tr.updated_at
`

func scanRequest(row pgx.Row) (timeoff.TimeOffRequest, error) {
	var req timeoff.TimeOffRequest
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.LeaveTypeID,
		&req.StartDate, &req.EndDate, &req.RequestedHours,
		&req.Status, &req.RequestedByUserID,
		&req.ReviewedByUserID, &req.ReviewedAt, &req.Notes,
		&req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

func (r *requestRepositoryImpl) Create(ctx context.Context, request timeoff.TimeOffRequest) (timeoff.TimeOffRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_off_requests (
			id, employee_id, leave_type_id,
			start_date, end_date, requested_hours,
			status, requested_by_user_id, notes,
			created_at, updated_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6,
			$7, $8, $9,
			NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	request.ID = uuid.NewString()
	err := q.QueryRow(ctx, query,
		request.ID, request.EmployeeID, request.LeaveTypeID,
		request.StartDate, request.EndDate, request.RequestedHours,
		request.Status, request.RequestedByUserID, request.Notes,
	).Scan(&request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		return timeoff.TimeOffRequest{}, fmt.Errorf("failed to create time off request: %w", err)
	}

	return request, nil
}

func (r *requestRepositoryImpl) GetByID(ctx context.Context, id string) (timeoff.TimeOffRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + requestColumns + `,
			   lt.code AS leave_type_code,
			   lt.name AS leave_type_name,
			   e.full_name AS employee_name
		FROM time_off_requests tr
		JOIN leave_types lt ON tr.leave_type_id = lt.id
		JOIN employees e ON tr.employee_id = e.id
		WHERE tr.id = $1
	`

	var req timeoff.TimeOffRequest
	var leaveTypeCode, leaveTypeName, employeeName string
	err := q.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.EmployeeID, &req.LeaveTypeID,
		&req.StartDate, &req.EndDate, &req.RequestedHours,
		&req.Status, &req.RequestedByUserID,
		&req.ReviewedByUserID, &req.ReviewedAt, &req.Notes,
		&req.CreatedAt, &req.UpdatedAt,
		&leaveTypeCode, &leaveTypeName, &employeeName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeoff.TimeOffRequest{}, timeoff.ErrRequestNotFound
		}
		return timeoff.TimeOffRequest{}, err
	}

	req.LeaveTypeCode = &leaveTypeCode
	req.LeaveTypeName = &leaveTypeName
	req.EmployeeName = &employeeName
	return req, nil
}

// GetByIDForUpdate locks the request row for the rest of the enclosing
// transaction so status branching cannot race a concurrent transition.
func (r *requestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (timeoff.TimeOffRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + requestColumns + `
		FROM time_off_requests tr
		WHERE tr.id = $1
		FOR UPDATE
	`

	req, err := scanRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeoff.TimeOffRequest{}, timeoff.ErrRequestNotFound
		}
		return timeoff.TimeOffRequest{}, err
	}
	return req, nil
}

func (r *requestRepositoryImpl) List(ctx context.Context, filter timeoff.RequestFilter) ([]timeoff.TimeOffRequest, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("tr.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("tr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.LeaveTypeID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("tr.leave_type_id = $%d", argIdx))
		args = append(args, *filter.LeaveTypeID)
		argIdx++
	}
	if filter.DateFrom != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("tr.end_date >= $%d", argIdx))
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("tr.start_date <= $%d", argIdx))
		args = append(args, *filter.DateTo)
		argIdx++
	}

	query := `
		SELECT ` + requestColumns + `,
			   lt.code AS leave_type_code,
			   lt.name AS leave_type_name,
			   e.full_name AS employee_name
		FROM time_off_requests tr
		JOIN leave_types lt ON tr.leave_type_id = lt.id
		JOIN employees e ON tr.employee_id = e.id
		WHERE ` + strings.Join(whereClauses, " AND ") + `
		ORDER BY tr.created_at DESC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time off requests: %w", err)
	}
	defer rows.Close()

	requests := make([]timeoff.TimeOffRequest, 0)
	for rows.Next() {
		var req timeoff.TimeOffRequest
		var leaveTypeCode, leaveTypeName, employeeName string

		if err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.LeaveTypeID,
			&req.StartDate, &req.EndDate, &req.RequestedHours,
			&req.Status, &req.RequestedByUserID,
			&req.ReviewedByUserID, &req.ReviewedAt, &req.Notes,
			&req.CreatedAt, &req.UpdatedAt,
			&leaveTypeCode, &leaveTypeName, &employeeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan time off request: %w", err)
		}

		req.LeaveTypeCode = &leaveTypeCode
		req.LeaveTypeName = &leaveTypeName
		req.EmployeeName = &employeeName
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return requests, nil
}

// TransitionFromPending is the compare-and-swap for first review: the status
// predicate guarantees exactly one concurrent approve/deny/cancel wins; the
// losers match no row. Reviewer fields are stamped here and only here.
func (r *requestRepositoryImpl) TransitionFromPending(ctx context.Context, id string, to timeoff.RequestStatus, reviewerUserID string, notes *string) (timeoff.TimeOffRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_off_requests tr
		SET status = $2,
			reviewed_by_user_id = $3,
			reviewed_at = NOW(),
			notes = COALESCE($4, notes),
			updated_at = NOW()
		WHERE tr.id = $1 AND tr.status = 'pending'
		RETURNING ` + requestColumns

	req, err := scanRequest(q.QueryRow(ctx, query, id, to, reviewerUserID, notes))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeoff.TimeOffRequest{}, timeoff.ErrRequestNotPending
		}
		return timeoff.TimeOffRequest{}, fmt.Errorf("failed to transition request %s: %w", id, err)
	}
	return req, nil
}

// TransitionFromApproved flips an approved request without touching the
// reviewer fields, so a later cancellation preserves the original approver.
func (r *requestRepositoryImpl) TransitionFromApproved(ctx context.Context, id string, to timeoff.RequestStatus) (timeoff.TimeOffRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_off_requests tr
		SET status = $2, updated_at = NOW()
		WHERE tr.id = $1 AND tr.status = 'approved'
		RETURNING ` + requestColumns

	req, err := scanRequest(q.QueryRow(ctx, query, id, to))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeoff.TimeOffRequest{}, timeoff.ErrRequestNotPending
		}
		return timeoff.TimeOffRequest{}, fmt.Errorf("failed to transition request %s: %w", id, err)
	}
	return req, nil
}

// WithdrawOwnPending is the self-service cancel: the ownership predicate is
// part of the conditional update, so a caller can never withdraw someone
// else's request.
func (r *requestRepositoryImpl) WithdrawOwnPending(ctx context.Context, id, employeeID string) (timeoff.TimeOffRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_off_requests tr
		SET status = 'cancelled', updated_at = NOW()
		WHERE tr.id = $1 AND tr.employee_id = $2 AND tr.status = 'pending'
		RETURNING ` + requestColumns

	req, err := scanRequest(q.QueryRow(ctx, query, id, employeeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeoff.TimeOffRequest{}, timeoff.ErrRequestNotPending
		}
		return timeoff.TimeOffRequest{}, fmt.Errorf("failed to withdraw request %s: %w", id, err)
	}
	return req, nil
}
