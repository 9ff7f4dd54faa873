package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/havenridge/residence-backend-go/internal/domain/timeoff"
	"github.com/havenridge/residence-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) timeoff.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

func (r *leaveTypeRepositoryImpl) Create(ctx context.Context, leaveType timeoff.LeaveType) (timeoff.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_types (id, code, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	leaveType.ID = uuid.NewString()
	err := q.QueryRow(ctx, query,
		leaveType.ID, leaveType.Code, leaveType.Name, leaveType.IsActive,
	).Scan(&leaveType.CreatedAt, &leaveType.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return timeoff.LeaveType{}, timeoff.ErrLeaveTypeCodeExists
		}
		return timeoff.LeaveType{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	return leaveType, nil
}

func (r *leaveTypeRepositoryImpl) GetByID(ctx context.Context, id string) (timeoff.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, name, is_active, created_at, updated_at
		FROM leave_types
		WHERE id = $1
	`

	var lt timeoff.LeaveType
	err := q.QueryRow(ctx, query, id).Scan(
		&lt.ID, &lt.Code, &lt.Name, &lt.IsActive, &lt.CreatedAt, &lt.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeoff.LeaveType{}, timeoff.ErrLeaveTypeNotFound
		}
		return timeoff.LeaveType{}, err
	}

	return lt, nil
}

// GetByCode resolves a leave type code case-insensitively.
func (r *leaveTypeRepositoryImpl) GetByCode(ctx context.Context, code string) (timeoff.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, name, is_active, created_at, updated_at
		FROM leave_types
		WHERE code = UPPER($1)
	`

	var lt timeoff.LeaveType
	err := q.QueryRow(ctx, query, code).Scan(
		&lt.ID, &lt.Code, &lt.Name, &lt.IsActive, &lt.CreatedAt, &lt.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeoff.LeaveType{}, timeoff.ErrLeaveTypeNotFound
		}
		return timeoff.LeaveType{}, err
	}

	return lt, nil
}

func (r *leaveTypeRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]timeoff.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, name, is_active, created_at, updated_at
		FROM leave_types
	`
	if activeOnly {
		query += " WHERE is_active"
	}
	query += " ORDER BY code"

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leaveTypes := make([]timeoff.LeaveType, 0)
	for rows.Next() {
		var lt timeoff.LeaveType
		if err := rows.Scan(
			&lt.ID, &lt.Code, &lt.Name, &lt.IsActive, &lt.CreatedAt, &lt.UpdatedAt,
		); err != nil {
			return nil, err
		}
		leaveTypes = append(leaveTypes, lt)
	}

	return leaveTypes, rows.Err()
}

func (r *leaveTypeRepositoryImpl) SetActive(ctx context.Context, id string, active bool) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_types
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("failed to update leave type %s: %w", id, err)
	}
	if commandTag.RowsAffected() == 0 {
		return timeoff.ErrLeaveTypeNotFound
	}
	return nil
}
