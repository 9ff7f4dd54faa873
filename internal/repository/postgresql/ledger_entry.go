package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/havenridge/residence-backend-go/internal/domain/timeoff"
	"github.com/havenridge/residence-backend-go/internal/pkg/database"
)

type ledgerRepositoryImpl struct {
	db *database.DB
}

// NewLedgerRepository returns the append-only store for ledger entries.
// There is intentionally no update or delete: corrections are new entries.
func NewLedgerRepository(db *database.DB) timeoff.LedgerRepository {
	return &ledgerRepositoryImpl{db: db}
}

func (r *ledgerRepositoryImpl) Append(ctx context.Context, entry timeoff.LedgerEntry) (timeoff.LedgerEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO ledger_entries (
			id, employee_id, leave_type_id, amount_hours,
			source, source_request_id, effective_date, memo,
			created_by_user_id, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, NOW()
		) RETURNING created_at
	`

	entry.ID = uuid.NewString()
	err := q.QueryRow(ctx, query,
		entry.ID, entry.EmployeeID, entry.LeaveTypeID, entry.AmountHours,
		entry.Source, entry.SourceRequestID, entry.EffectiveDate, entry.Memo,
		entry.CreatedByUserID,
	).Scan(&entry.CreatedAt)

	if err != nil {
		return timeoff.LedgerEntry{}, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return entry, nil
}

func (r *ledgerRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]timeoff.LedgerEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT le.id, le.employee_id, le.leave_type_id, le.amount_hours,
			   le.source, le.source_request_id, le.effective_date, le.memo,
			   le.created_by_user_id, le.created_at,
			   lt.code AS leave_type_code,
			   lt.name AS leave_type_name
		FROM ledger_entries le
		JOIN leave_types lt ON le.leave_type_id = lt.id
		WHERE le.employee_id = $1
		ORDER BY le.effective_date DESC, le.created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make([]timeoff.LedgerEntry, 0)
	for rows.Next() {
		var e timeoff.LedgerEntry
		var leaveTypeCode, leaveTypeName string

		if err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.LeaveTypeID, &e.AmountHours,
			&e.Source, &e.SourceRequestID, &e.EffectiveDate, &e.Memo,
			&e.CreatedByUserID, &e.CreatedAt,
			&leaveTypeCode, &leaveTypeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}

		e.LeaveTypeCode = &leaveTypeCode
		e.LeaveTypeName = &leaveTypeName
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}
