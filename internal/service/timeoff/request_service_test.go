package timeoff

import (
	"context"
	"testing"

	"github.com/havenridge/residence-backend-go/internal/domain/employee"
	"github.com/havenridge/residence-backend-go/internal/domain/timeoff"
	"github.com/havenridge/residence-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRequestStore() *fakeStore {
	store := newFakeStore()
	store.addLeaveType("lt-pto", "PTO", "Paid Time Off", true)
	store.addEmployee("emp-1", "Dana Reyes", true)
	store.addEmployee("emp-2", "Sam Ortiz", true)
	return store
}

func createTestRequest(t *testing.T, svc *RequestService, caller user.CallerContext, requestedHours int64) timeoff.TimeOffRequestResponse {
	t.Helper()
	created, err := svc.Create(context.Background(), caller, timeoff.CreateRequestRequest{
		LeaveTypeCode:  "PTO",
		StartDate:      "2025-07-07",
		EndDate:        "2025-07-08",
		RequestedHours: decimal.NewFromInt(requestedHours),
	})
	require.NoError(t, err)
	return created
}

func TestRequestService_Create_StartsPending(t *testing.T) {
	store := seedRequestStore()
	_, _, requestService := newTestServices(store)

	created := createTestRequest(t, requestService, staffCaller("emp-1"), 16)

	assert.Equal(t, timeoff.StatusPending, created.Status)
	assert.Equal(t, "emp-1", created.EmployeeID)
	assert.Nil(t, created.ReviewedByUserID)
	assert.Empty(t, store.ledger, "creation must not touch the ledger")
}

func TestRequestService_Create_NoLinkedEmployee(t *testing.T) {
	store := seedRequestStore()
	_, _, requestService := newTestServices(store)

	unlinked := user.CallerContext{UserID: "user-svc", Role: user.RoleStaff}
	_, err := requestService.Create(context.Background(), unlinked, timeoff.CreateRequestRequest{
		LeaveTypeCode:  "PTO",
		StartDate:      "2025-07-07",
		EndDate:        "2025-07-08",
		RequestedHours: hours(8),
	})

	assert.ErrorIs(t, err, user.ErrNoLinkedEmployee)
}

func TestRequestService_Create_HRForOtherEmployee(t *testing.T) {
	store := seedRequestStore()
	_, _, requestService := newTestServices(store)

	empID := "emp-2"
	created, err := requestService.Create(context.Background(), hrCaller, timeoff.CreateRequestRequest{
		EmployeeID:     &empID,
		LeaveTypeCode:  "PTO",
		StartDate:      "2025-07-07",
		EndDate:        "2025-07-08",
		RequestedHours: hours(8),
	})

	require.NoError(t, err)
	// HR filing on behalf of someone still needs an independent review.
	assert.Equal(t, timeoff.StatusPending, created.Status)
	assert.Equal(t, "emp-2", created.EmployeeID)
}

func TestRequestService_Create_StaffCannotFileForOthers(t *testing.T) {
	store := seedRequestStore()
	_, _, requestService := newTestServices(store)

	empID := "emp-2"
	_, err := requestService.Create(context.Background(), staffCaller("emp-1"), timeoff.CreateRequestRequest{
		EmployeeID:     &empID,
		LeaveTypeCode:  "PTO",
		StartDate:      "2025-07-07",
		EndDate:        "2025-07-08",
		RequestedHours: hours(8),
	})

	assert.ErrorIs(t, err, user.ErrHRRoleRequired)
}

func TestRequestService_Create_InactiveLeaveType(t *testing.T) {
	store := seedRequestStore()
	store.addLeaveType("lt-old", "OLD", "Retired Type", false)
	_, _, requestService := newTestServices(store)

	_, err := requestService.Create(context.Background(), staffCaller("emp-1"), timeoff.CreateRequestRequest{
		LeaveTypeCode:  "OLD",
		StartDate:      "2025-07-07",
		EndDate:        "2025-07-08",
		RequestedHours: hours(8),
	})

	assert.ErrorIs(t, err, timeoff.ErrLeaveTypeInactive)
}

func TestRequestService_Create_InactiveEmployee(t *testing.T) {
	store := seedRequestStore()
	store.addEmployee("emp-3", "Gone Person", false)
	_, _, requestService := newTestServices(store)

	_, err := requestService.Create(context.Background(), staffCaller("emp-3"), timeoff.CreateRequestRequest{
		LeaveTypeCode:  "PTO",
		StartDate:      "2025-07-07",
		EndDate:        "2025-07-08",
		RequestedHours: hours(8),
	})

	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestRequestService_Approve_DebitsBalance(t *testing.T) {
	ctx := context.Background()
	store := seedRequestStore()
	store.setBalance("emp-1", "lt-pto", hours(40))
	_, _, requestService := newTestServices(store)

	created := createTestRequest(t, requestService, staffCaller("emp-1"), 16)

	approved, err := requestService.Approve(ctx, hrCaller, created.ID)

	require.NoError(t, err)
	assert.Equal(t, timeoff.StatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedByUserID)
	assert.Equal(t, hrCaller.UserID, *approved.ReviewedByUserID)

	assert.True(t, store.balances[balanceKey{"emp-1", "lt-pto"}].Equal(hours(24)))
	require.Len(t, store.ledger, 1)
	entry := store.ledger[0]
	assert.True(t, entry.AmountHours.Equal(hours(-16)))
	assert.Equal(t, timeoff.SourceApprovedRequest, entry.Source)
	require.NotNil(t, entry.SourceRequestID)
	assert.Equal(t, created.ID, *entry.SourceRequestID)
}

func TestRequestService_Approve_InsufficientBalanceRollsBack(t *testing.T) {
	ctx := context.Background()
	store := seedRequestStore()
	store.setBalance("emp-1", "lt-pto", hours(8))
	_, _, requestService := newTestServices(store)

	created := createTestRequest(t, requestService, staffCaller("emp-1"), 16)

	_, err := requestService.Approve(ctx, hrCaller, created.ID)

	assert.ErrorIs(t, err, timeoff.ErrInsufficientBalance)
	// The failed guard rolls the whole transaction back: the request is
	// still pending and nothing reached the ledger.
	assert.Equal(t, timeoff.StatusPending, store.requests[created.ID].Status)
	assert.True(t, store.balances[balanceKey{"emp-1", "lt-pto"}].Equal(hours(8)))
	assert.Empty(t, store.ledger)
}

func TestRequestService_Approve_RequiresHR(t *testing.T) {
	ctx := context.Background()
	store := seedRequestStore()
	_, _, requestService := newTestServices(store)

	created := createTestRequest(t, requestService, staffCaller("emp-1"), 8)

	_, err := requestService.Approve(ctx, staffCaller("emp-1"), created.ID)

	assert.ErrorIs(t, err, user.ErrHRRoleRequired)
}

func TestRequestService_Approve_SecondApproveFails(t *testing.T) {
	ctx := context.Background()
	store := seedRequestStore()
	store.setBalance("emp-1", "lt-pto", hours(40))
	_, _, requestService := newTestServices(store)

	created := createTestRequest(t, requestService, staffCaller("emp-1"), 16)

	_, err := requestService.Approve(ctx, hrCaller, created.ID)
	require.NoError(t, err)

	_, err = requestService.Approve(ctx, hrCaller, created.ID)

	assert.ErrorIs(t, err, timeoff.ErrRequestNotPending)
	// The debit happened exactly once.
	assert.True(t, store.balances[balanceKey{"emp-1", "lt-pto"}].Equal(hours(24)))
	assert.Len(t, store.ledger, 1)
}

func TestRequestService_Deny_NoLedgerEffect(t *testing.T) {
	ctx := context.Background()
	store := seedRequestStore()
	store.setBalance("emp-1", "lt-pto", hours(40))
	_, _, requestService := newTestServices(store)

	created := createTestRequest(t, requestService, staffCaller("emp-1"), 16)

	notes := "blackout week"
	denied, err := requestService.Deny(ctx, hrCaller, created.ID, &notes)

	require.NoError(t, err)
	assert.Equal(t, timeoff.StatusDenied, denied.Status)
	require.NotNil(t, denied.Notes)
	assert.Equal(t, "blackout week", *denied.Notes)
	assert.True(t, store.balances[balanceKey{"emp-1", "lt-pto"}].Equal(hours(40)))
	assert.Empty(t, store.ledger)
}

func TestRequestService_AdminCancel_Pending(t *testing.T) {
	ctx := context.Background()
	store := seedRequestStore()
	_, _, requestService := newTestServices(store)

	created := createTestRequest(t, requestService, staffCaller("emp-1"), 16)

	cancelled, err := requestService.AdminCancel(ctx, hrCaller, created.ID)

	require.NoError(t, err)
	assert.Equal(t, timeoff.StatusCancelled, cancelled.Status)
	assert.Empty(t, store.ledger)
}

func TestRequestService_AdminCancel_ApprovedRestoresBalance(t *testing.T) {
	ctx := context.Background()
	store := seedRequestStore()
	store.setBalance("emp-1", "lt-pto", hours(40))
	_, _, requestService := newTestServices(store)

	created := createTestRequest(t, requestService, staffCaller("emp-1"), 10)

	approved, err := requestService.Approve(ctx, hrCaller, created.ID)
	require.NoError(t, err)
	require.True(t, store.balances[balanceKey{"emp-1", "lt-pto"}].Equal(hours(30)))

	cancelled, err := requestService.AdminCancel(ctx, hrCaller, created.ID)

	require.NoError(t, err)
	assert.Equal(t, timeoff.StatusCancelled, cancelled.Status)
	// The original reviewer survives the cancellation.
	require.NotNil(t, cancelled.ReviewedByUserID)
	assert.Equal(t, *approved.ReviewedByUserID, *cancelled.ReviewedByUserID)

	// Net effect is zero, history keeps both entries.
	assert.True(t, store.balances[balanceKey{"emp-1", "lt-pto"}].Equal(hours(40)))
	require.Len(t, store.ledger, 2)
	debit, credit := store.ledger[0], store.ledger[1]
	assert.True(t, debit.AmountHours.Add(credit.AmountHours).IsZero())
	assert.Equal(t, timeoff.SourceRequestReversal, credit.Source)
	require.NotNil(t, credit.SourceRequestID)
	assert.Equal(t, *debit.SourceRequestID, *credit.SourceRequestID)
}

func TestRequestService_AdminCancel_AlreadyCancelled(t *testing.T) {
	ctx := context.Background()
	store := seedRequestStore()
	_, _, requestService := newTestServices(store)

	created := createTestRequest(t, requestService, staffCaller("emp-1"), 8)

	_, err := requestService.AdminCancel(ctx, hrCaller, created.ID)
	require.NoError(t, err)

	_, err = requestService.AdminCancel(ctx, hrCaller, created.ID)

	assert.ErrorIs(t, err, timeoff.ErrAlreadyCancelled)
}

func TestRequestService_AdminCancel_DeniedFails(t *testing.T) {
	ctx := context.Background()
	store := seedRequestStore()
	_, _, requestService := newTestServices(store)

	created := createTestRequest(t, requestService, staffCaller("emp-1"), 8)

	_, err := requestService.Deny(ctx, hrCaller, created.ID, nil)
	require.NoError(t, err)

	_, err = requestService.AdminCancel(ctx, hrCaller, created.ID)

	assert.ErrorIs(t, err, timeoff.ErrRequestNotPending)
}

func TestRequestService_SelfCancel_OwnPending(t *testing.T) {
	ctx := context.Background()
	store := seedRequestStore()
	_, _, requestService := newTestServices(store)

	created := createTestRequest(t, requestService, staffCaller("emp-1"), 8)

	withdrawn, err := requestService.SelfCancel(ctx, staffCaller("emp-1"), created.ID)

	require.NoError(t, err)
	assert.Equal(t, timeoff.StatusCancelled, withdrawn.Status)
	// Self-withdrawal is not a review.
	assert.Nil(t, withdrawn.ReviewedByUserID)
}

func TestRequestService_SelfCancel_NotOwner(t *testing.T) {
	ctx := context.Background()
	store := seedRequestStore()
	_, _, requestService := newTestServices(store)

	created := createTestRequest(t, requestService, staffCaller("emp-1"), 8)

	_, err := requestService.SelfCancel(ctx, staffCaller("emp-2"), created.ID)

	assert.ErrorIs(t, err, timeoff.ErrRequestNotPending)
	assert.Equal(t, timeoff.StatusPending, store.requests[created.ID].Status)
}

func TestRequestService_SelfCancel_ApprovedFails(t *testing.T) {
	ctx := context.Background()
	store := seedRequestStore()
	store.setBalance("emp-1", "lt-pto", hours(40))
	_, _, requestService := newTestServices(store)

	created := createTestRequest(t, requestService, staffCaller("emp-1"), 8)

	_, err := requestService.Approve(ctx, hrCaller, created.ID)
	require.NoError(t, err)

	_, err = requestService.SelfCancel(ctx, staffCaller("emp-1"), created.ID)

	assert.ErrorIs(t, err, timeoff.ErrRequestNotPending)
}

func TestRequestService_Get_StaffCannotSeeOthers(t *testing.T) {
	ctx := context.Background()
	store := seedRequestStore()
	_, _, requestService := newTestServices(store)

	created := createTestRequest(t, requestService, staffCaller("emp-1"), 8)

	_, err := requestService.Get(ctx, staffCaller("emp-2"), created.ID)

	// Existence is not leaked to non-owners.
	assert.ErrorIs(t, err, timeoff.ErrRequestNotFound)
}

func TestRequestService_List_StaffForcedToOwn(t *testing.T) {
	ctx := context.Background()
	store := seedRequestStore()
	_, _, requestService := newTestServices(store)

	createTestRequest(t, requestService, staffCaller("emp-1"), 8)
	createTestRequest(t, requestService, staffCaller("emp-2"), 8)

	otherID := "emp-2"
	requests, err := requestService.List(ctx, staffCaller("emp-1"), timeoff.RequestFilter{EmployeeID: &otherID})

	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "emp-1", requests[0].EmployeeID)
}

func TestRequestService_List_FilterByStatus(t *testing.T) {
	ctx := context.Background()
	store := seedRequestStore()
	store.setBalance("emp-1", "lt-pto", hours(40))
	_, _, requestService := newTestServices(store)

	first := createTestRequest(t, requestService, staffCaller("emp-1"), 8)
	createTestRequest(t, requestService, staffCaller("emp-1"), 8)

	_, err := requestService.Approve(ctx, hrCaller, first.ID)
	require.NoError(t, err)

	status := timeoff.StatusApproved
	requests, err := requestService.List(ctx, hrCaller, timeoff.RequestFilter{Status: &status})

	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, first.ID, requests[0].ID)
}
