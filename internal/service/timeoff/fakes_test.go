package timeoff

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/havenridge/residence-backend-go/internal/domain/employee"
	"github.com/havenridge/residence-backend-go/internal/domain/timeoff"
	"github.com/shopspring/decimal"
)

// In-memory fakes backing the service tests. fakeTransactor snapshots the
// store before fn and restores it when fn fails, mirroring the rollback the
// real transactor gets from Postgres.

type balanceKey struct {
	employeeID  string
	leaveTypeID string
}

type fakeStore struct {
	leaveTypes map[string]timeoff.LeaveType
	employees  map[string]employee.Employee
	ledger     []timeoff.LedgerEntry
	balances   map[balanceKey]decimal.Decimal
	requests   map[string]timeoff.TimeOffRequest
	seq        int

	// lockedReads counts BalanceRepository.GetForUpdate calls.
	lockedReads int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		leaveTypes: make(map[string]timeoff.LeaveType),
		employees:  make(map[string]employee.Employee),
		balances:   make(map[balanceKey]decimal.Decimal),
		requests:   make(map[string]timeoff.TimeOffRequest),
	}
}

func (s *fakeStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *fakeStore) addLeaveType(id, code, name string, active bool) timeoff.LeaveType {
	lt := timeoff.LeaveType{ID: id, Code: code, Name: name, IsActive: active}
	s.leaveTypes[id] = lt
	return lt
}

func (s *fakeStore) addEmployee(id, name string, active bool) employee.Employee {
	emp := employee.Employee{ID: id, FullName: name, IsActive: active}
	s.employees[id] = emp
	return emp
}

func (s *fakeStore) setBalance(employeeID, leaveTypeID string, hours decimal.Decimal) {
	s.balances[balanceKey{employeeID, leaveTypeID}] = hours
}

func (s *fakeStore) snapshot() *fakeStore {
	cp := newFakeStore()
	cp.seq = s.seq
	for k, v := range s.leaveTypes {
		cp.leaveTypes[k] = v
	}
	for k, v := range s.employees {
		cp.employees[k] = v
	}
	for k, v := range s.balances {
		cp.balances[k] = v
	}
	for k, v := range s.requests {
		cp.requests[k] = v
	}
	cp.ledger = append(cp.ledger, s.ledger...)
	return cp
}

func (s *fakeStore) restore(from *fakeStore) {
	s.leaveTypes = from.leaveTypes
	s.employees = from.employees
	s.balances = from.balances
	s.requests = from.requests
	s.ledger = from.ledger
	s.seq = from.seq
}

type fakeTransactor struct {
	store *fakeStore
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	saved := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(saved)
		return err
	}
	return nil
}

type fakeLeaveTypeRepo struct {
	store *fakeStore
}

func (r *fakeLeaveTypeRepo) Create(ctx context.Context, leaveType timeoff.LeaveType) (timeoff.LeaveType, error) {
	for _, lt := range r.store.leaveTypes {
		if lt.Code == leaveType.Code {
			return timeoff.LeaveType{}, timeoff.ErrLeaveTypeCodeExists
		}
	}
	leaveType.ID = r.store.nextID("lt")
	r.store.leaveTypes[leaveType.ID] = leaveType
	return leaveType, nil
}

func (r *fakeLeaveTypeRepo) GetByID(ctx context.Context, id string) (timeoff.LeaveType, error) {
	lt, ok := r.store.leaveTypes[id]
	if !ok {
		return timeoff.LeaveType{}, timeoff.ErrLeaveTypeNotFound
	}
	return lt, nil
}

func (r *fakeLeaveTypeRepo) GetByCode(ctx context.Context, code string) (timeoff.LeaveType, error) {
	for _, lt := range r.store.leaveTypes {
		if strings.EqualFold(lt.Code, code) {
			return lt, nil
		}
	}
	return timeoff.LeaveType{}, timeoff.ErrLeaveTypeNotFound
}

func (r *fakeLeaveTypeRepo) List(ctx context.Context, activeOnly bool) ([]timeoff.LeaveType, error) {
	out := make([]timeoff.LeaveType, 0)
	for _, lt := range r.store.leaveTypes {
		if activeOnly && !lt.IsActive {
			continue
		}
		out = append(out, lt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakeLeaveTypeRepo) SetActive(ctx context.Context, id string, active bool) error {
	lt, ok := r.store.leaveTypes[id]
	if !ok {
		return timeoff.ErrLeaveTypeNotFound
	}
	lt.IsActive = active
	r.store.leaveTypes[id] = lt
	return nil
}

type fakeLedgerRepo struct {
	store *fakeStore
}

func (r *fakeLedgerRepo) Append(ctx context.Context, entry timeoff.LedgerEntry) (timeoff.LedgerEntry, error) {
	entry.ID = r.store.nextID("entry")
	entry.CreatedAt = time.Now()
	r.store.ledger = append(r.store.ledger, entry)
	return entry, nil
}

func (r *fakeLedgerRepo) ListByEmployee(ctx context.Context, employeeID string) ([]timeoff.LedgerEntry, error) {
	out := make([]timeoff.LedgerEntry, 0)
	for _, e := range r.store.ledger {
		if e.EmployeeID == employeeID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].EffectiveDate.Equal(out[j].EffectiveDate) {
			return out[i].EffectiveDate.After(out[j].EffectiveDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type fakeBalanceRepo struct {
	store *fakeStore
}

func (r *fakeBalanceRepo) EnsureRow(ctx context.Context, employeeID, leaveTypeID string) error {
	key := balanceKey{employeeID, leaveTypeID}
	if _, ok := r.store.balances[key]; !ok {
		r.store.balances[key] = decimal.Zero
	}
	return nil
}

func (r *fakeBalanceRepo) EnsureRowsForActiveTypes(ctx context.Context, employeeID string) error {
	for _, lt := range r.store.leaveTypes {
		if lt.IsActive {
			_ = r.EnsureRow(ctx, employeeID, lt.ID)
		}
	}
	return nil
}

func (r *fakeBalanceRepo) ApplyDelta(ctx context.Context, employeeID, leaveTypeID string, delta decimal.Decimal, guardNonNegative bool) (timeoff.Balance, error) {
	key := balanceKey{employeeID, leaveTypeID}
	current, ok := r.store.balances[key]
	if !ok {
		if guardNonNegative {
			return timeoff.Balance{}, timeoff.ErrInsufficientBalance
		}
		return timeoff.Balance{}, timeoff.ErrBalanceNotFound
	}

	next := current.Add(delta)
	if guardNonNegative && next.IsNegative() {
		return timeoff.Balance{}, timeoff.ErrInsufficientBalance
	}

	r.store.balances[key] = next
	return timeoff.Balance{
		EmployeeID:   employeeID,
		LeaveTypeID:  leaveTypeID,
		CurrentHours: next,
		UpdatedAt:    time.Now(),
	}, nil
}

func (r *fakeBalanceRepo) Get(ctx context.Context, employeeID, leaveTypeID string) (timeoff.Balance, error) {
	current, ok := r.store.balances[balanceKey{employeeID, leaveTypeID}]
	if !ok {
		return timeoff.Balance{}, timeoff.ErrBalanceNotFound
	}
	return timeoff.Balance{
		EmployeeID:   employeeID,
		LeaveTypeID:  leaveTypeID,
		CurrentHours: current,
	}, nil
}

func (r *fakeBalanceRepo) GetForUpdate(ctx context.Context, employeeID, leaveTypeID string) (timeoff.Balance, error) {
	r.store.lockedReads++
	return r.Get(ctx, employeeID, leaveTypeID)
}

func (r *fakeBalanceRepo) GetByEmployee(ctx context.Context, employeeID string) ([]timeoff.Balance, error) {
	out := make([]timeoff.Balance, 0)
	for key, hours := range r.store.balances {
		if key.employeeID != employeeID {
			continue
		}
		lt, ok := r.store.leaveTypes[key.leaveTypeID]
		if !ok || !lt.IsActive {
			continue
		}
		code, name := lt.Code, lt.Name
		out = append(out, timeoff.Balance{
			EmployeeID:    key.employeeID,
			LeaveTypeID:   key.leaveTypeID,
			CurrentHours:  hours,
			LeaveTypeCode: &code,
			LeaveTypeName: &name,
		})
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].LeaveTypeCode < *out[j].LeaveTypeCode })
	return out, nil
}

type fakeRequestRepo struct {
	store *fakeStore
}

func (r *fakeRequestRepo) Create(ctx context.Context, request timeoff.TimeOffRequest) (timeoff.TimeOffRequest, error) {
	request.ID = r.store.nextID("req")
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	r.store.requests[request.ID] = request
	return request, nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id string) (timeoff.TimeOffRequest, error) {
	req, ok := r.store.requests[id]
	if !ok {
		return timeoff.TimeOffRequest{}, timeoff.ErrRequestNotFound
	}
	return req, nil
}

func (r *fakeRequestRepo) GetByIDForUpdate(ctx context.Context, id string) (timeoff.TimeOffRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeRequestRepo) List(ctx context.Context, filter timeoff.RequestFilter) ([]timeoff.TimeOffRequest, error) {
	out := make([]timeoff.TimeOffRequest, 0)
	for _, req := range r.store.requests {
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		if filter.LeaveTypeID != nil && req.LeaveTypeID != *filter.LeaveTypeID {
			continue
		}
		if filter.DateFrom != nil && req.EndDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && req.StartDate.After(*filter.DateTo) {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRequestRepo) TransitionFromPending(ctx context.Context, id string, to timeoff.RequestStatus, reviewerUserID string, notes *string) (timeoff.TimeOffRequest, error) {
	req, ok := r.store.requests[id]
	if !ok || req.Status != timeoff.StatusPending {
		return timeoff.TimeOffRequest{}, timeoff.ErrRequestNotPending
	}
	now := time.Now()
	req.Status = to
	req.ReviewedByUserID = &reviewerUserID
	req.ReviewedAt = &now
	if notes != nil {
		req.Notes = notes
	}
	req.UpdatedAt = now
	r.store.requests[id] = req
	return req, nil
}

func (r *fakeRequestRepo) TransitionFromApproved(ctx context.Context, id string, to timeoff.RequestStatus) (timeoff.TimeOffRequest, error) {
	req, ok := r.store.requests[id]
	if !ok || req.Status != timeoff.StatusApproved {
		return timeoff.TimeOffRequest{}, timeoff.ErrRequestNotPending
	}
	req.Status = to
	req.UpdatedAt = time.Now()
	r.store.requests[id] = req
	return req, nil
}

func (r *fakeRequestRepo) WithdrawOwnPending(ctx context.Context, id, employeeID string) (timeoff.TimeOffRequest, error) {
	req, ok := r.store.requests[id]
	if !ok || req.EmployeeID != employeeID || req.Status != timeoff.StatusPending {
		return timeoff.TimeOffRequest{}, timeoff.ErrRequestNotPending
	}
	req.Status = timeoff.StatusCancelled
	req.UpdatedAt = time.Now()
	r.store.requests[id] = req
	return req, nil
}

type fakeEmployeeRepo struct {
	store *fakeStore
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := r.store.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

// newTestServices wires every service against one shared fake store.
func newTestServices(store *fakeStore) (*TypesService, *LedgerService, *RequestService) {
	tx := &fakeTransactor{store: store}
	leaveTypes := &fakeLeaveTypeRepo{store: store}
	ledger := &fakeLedgerRepo{store: store}
	balances := &fakeBalanceRepo{store: store}
	requests := &fakeRequestRepo{store: store}
	employees := &fakeEmployeeRepo{store: store}

	typesService := NewTypesService(leaveTypes)
	ledgerService := NewLedgerService(tx, leaveTypes, ledger, balances, employees)
	requestService := NewRequestService(tx, ledgerService, leaveTypes, requests, employees)
	return typesService, ledgerService, requestService
}
