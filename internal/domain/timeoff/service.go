package timeoff

import (
	"context"

	"github.com/havenridge/residence-backend-go/internal/domain/user"
)

type LeaveTypeService interface {
	Create(ctx context.Context, caller user.CallerContext, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	List(ctx context.Context, caller user.CallerContext) ([]LeaveTypeResponse, error)
	GetByCode(ctx context.Context, caller user.CallerContext, code string) (LeaveTypeResponse, error)
	Retire(ctx context.Context, caller user.CallerContext, id string) error
}

type LedgerService interface {
	GetBalances(ctx context.Context, caller user.CallerContext, employeeID string) ([]BalanceResponse, error)
	ListLedger(ctx context.Context, caller user.CallerContext, employeeID string) ([]LedgerEntryResponse, error)
	PostAdjustment(ctx context.Context, caller user.CallerContext, req PostAdjustmentRequest) (AdjustmentResult, error)
	SetTargetBalance(ctx context.Context, caller user.CallerContext, req SetTargetBalanceRequest) (AdjustmentResult, error)
}

type RequestService interface {
	Create(ctx context.Context, caller user.CallerContext, req CreateRequestRequest) (TimeOffRequestResponse, error)
	Get(ctx context.Context, caller user.CallerContext, requestID string) (TimeOffRequestResponse, error)
	List(ctx context.Context, caller user.CallerContext, filter RequestFilter) ([]TimeOffRequestResponse, error)
	Approve(ctx context.Context, caller user.CallerContext, requestID string) (TimeOffRequestResponse, error)
	Deny(ctx context.Context, caller user.CallerContext, requestID string, notes *string) (TimeOffRequestResponse, error)
	AdminCancel(ctx context.Context, caller user.CallerContext, requestID string) (TimeOffRequestResponse, error)
	SelfCancel(ctx context.Context, caller user.CallerContext, requestID string) (TimeOffRequestResponse, error)
}
