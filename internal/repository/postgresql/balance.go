package postgresql

import (
	"context"
	"fmt"

	"github.com/havenridge/residence-backend-go/internal/domain/timeoff"
	"github.com/havenridge/residence-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type balanceRepositoryImpl struct {
	db *database.DB
}

func NewBalanceRepository(db *database.DB) timeoff.BalanceRepository {
	return &balanceRepositoryImpl{db: db}
}

// EnsureRow creates a zero balance row if absent. ON CONFLICT DO NOTHING
// makes it idempotent and race-safe: at most one row per key can exist.
func (r *balanceRepositoryImpl) EnsureRow(ctx context.Context, employeeID, leaveTypeID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO balances (employee_id, leave_type_id, current_hours, updated_at)
		VALUES ($1, $2, 0, NOW())
		ON CONFLICT (employee_id, leave_type_id) DO NOTHING
	`

	if _, err := q.Exec(ctx, query, employeeID, leaveTypeID); err != nil {
		return fmt.Errorf("failed to ensure balance row: %w", err)
	}
	return nil
}

func (r *balanceRepositoryImpl) EnsureRowsForActiveTypes(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO balances (employee_id, leave_type_id, current_hours, updated_at)
		SELECT $1, id, 0, NOW() FROM leave_types WHERE is_active
		ON CONFLICT (employee_id, leave_type_id) DO NOTHING
	`

	if _, err := q.Exec(ctx, query, employeeID); err != nil {
		return fmt.Errorf("failed to ensure balance rows: %w", err)
	}
	return nil
}

// ApplyDelta increments the balance row in place. The guarded variant puts
// the non-negative check into the UPDATE predicate, so concurrent approvals
// against the same key serialize on the row lock and the loser matches no
// row instead of debiting a stale balance.
func (r *balanceRepositoryImpl) ApplyDelta(ctx context.Context, employeeID, leaveTypeID string, delta decimal.Decimal, guardNonNegative bool) (timeoff.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE balances
		SET current_hours = current_hours + $3, updated_at = NOW()
		WHERE employee_id = $1 AND leave_type_id = $2
	`
	if guardNonNegative {
		query += " AND current_hours + $3 >= 0"
	}
	query += " RETURNING current_hours, updated_at"

	balance := timeoff.Balance{EmployeeID: employeeID, LeaveTypeID: leaveTypeID}
	err := q.QueryRow(ctx, query, employeeID, leaveTypeID, delta).Scan(
		&balance.CurrentHours, &balance.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			if guardNonNegative {
				return timeoff.Balance{}, timeoff.ErrInsufficientBalance
			}
			return timeoff.Balance{}, timeoff.ErrBalanceNotFound
		}
		return timeoff.Balance{}, fmt.Errorf("failed to apply balance delta: %w", err)
	}

	return balance, nil
}

func (r *balanceRepositoryImpl) Get(ctx context.Context, employeeID, leaveTypeID string) (timeoff.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT b.employee_id, b.leave_type_id, b.current_hours, b.updated_at,
			   lt.code AS leave_type_code,
			   lt.name AS leave_type_name
		FROM balances b
		JOIN leave_types lt ON b.leave_type_id = lt.id
		WHERE b.employee_id = $1 AND b.leave_type_id = $2
	`

	var b timeoff.Balance
	var leaveTypeCode, leaveTypeName string
	err := q.QueryRow(ctx, query, employeeID, leaveTypeID).Scan(
		&b.EmployeeID, &b.LeaveTypeID, &b.CurrentHours, &b.UpdatedAt,
		&leaveTypeCode, &leaveTypeName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeoff.Balance{}, timeoff.ErrBalanceNotFound
		}
		return timeoff.Balance{}, err
	}

	b.LeaveTypeCode = &leaveTypeCode
	b.LeaveTypeName = &leaveTypeName
	return b, nil
}

// GetForUpdate reads the balance row with a row lock. Callers that compute a
// delta from the returned value must hold the enclosing transaction open
// until the delta is applied.
func (r *balanceRepositoryImpl) GetForUpdate(ctx context.Context, employeeID, leaveTypeID string) (timeoff.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, leave_type_id, current_hours, updated_at
		FROM balances
		WHERE employee_id = $1 AND leave_type_id = $2
		FOR UPDATE
	`

	var b timeoff.Balance
	err := q.QueryRow(ctx, query, employeeID, leaveTypeID).Scan(
		&b.EmployeeID, &b.LeaveTypeID, &b.CurrentHours, &b.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeoff.Balance{}, timeoff.ErrBalanceNotFound
		}
		return timeoff.Balance{}, err
	}

	return b, nil
}

func (r *balanceRepositoryImpl) GetByEmployee(ctx context.Context, employeeID string) ([]timeoff.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT b.employee_id, b.leave_type_id, b.current_hours, b.updated_at,
			   lt.code AS leave_type_code,
			   lt.name AS leave_type_name
		FROM balances b
		JOIN leave_types lt ON b.leave_type_id = lt.id
		WHERE b.employee_id = $1 AND lt.is_active
		ORDER BY lt.code
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances: %w", err)
	}
	defer rows.Close()

	balances := make([]timeoff.Balance, 0)
	for rows.Next() {
		var b timeoff.Balance
		var leaveTypeCode, leaveTypeName string
		if err := rows.Scan(
			&b.EmployeeID, &b.LeaveTypeID, &b.CurrentHours, &b.UpdatedAt,
			&leaveTypeCode, &leaveTypeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		b.LeaveTypeCode = &leaveTypeCode
		b.LeaveTypeName = &leaveTypeName
		balances = append(balances, b)
	}

	return balances, rows.Err()
}
