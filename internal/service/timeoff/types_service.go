package timeoff

import (
	"context"
	"fmt"

	"github.com/havenridge/residence-backend-go/internal/domain/timeoff"
	"github.com/havenridge/residence-backend-go/internal/domain/user"
)

// TypesService administers the leave type registry. Types are retired, never
// deleted, so ledger entries and requests keep valid references forever.
type TypesService struct {
	leaveTypes timeoff.LeaveTypeRepository
}

func NewTypesService(leaveTypeRepository timeoff.LeaveTypeRepository) *TypesService {
	return &TypesService{leaveTypes: leaveTypeRepository}
}

func (s *TypesService) Create(ctx context.Context, caller user.CallerContext, req timeoff.CreateLeaveTypeRequest) (timeoff.LeaveTypeResponse, error) {
	if !caller.HRPrivileged() {
		return timeoff.LeaveTypeResponse{}, user.ErrHRRoleRequired
	}
	if err := req.Validate(); err != nil {
		return timeoff.LeaveTypeResponse{}, err
	}

	created, err := s.leaveTypes.Create(ctx, timeoff.LeaveType{
		Code:     req.NormalizedCode(),
		Name:     req.Name,
		IsActive: true,
	})
	if err != nil {
		return timeoff.LeaveTypeResponse{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	return timeoff.NewLeaveTypeResponse(created), nil
}

func (s *TypesService) List(ctx context.Context, caller user.CallerContext) ([]timeoff.LeaveTypeResponse, error) {
	// Staff see only active types; HR sees retired ones too.
	leaveTypes, err := s.leaveTypes.List(ctx, !caller.HRPrivileged())
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	responses := make([]timeoff.LeaveTypeResponse, 0, len(leaveTypes))
	for _, lt := range leaveTypes {
		responses = append(responses, timeoff.NewLeaveTypeResponse(lt))
	}
	return responses, nil
}

func (s *TypesService) GetByCode(ctx context.Context, caller user.CallerContext, code string) (timeoff.LeaveTypeResponse, error) {
	lt, err := s.leaveTypes.GetByCode(ctx, code)
	if err != nil {
		return timeoff.LeaveTypeResponse{}, err
	}
	return timeoff.NewLeaveTypeResponse(lt), nil
}

func (s *TypesService) Retire(ctx context.Context, caller user.CallerContext, id string) error {
	if !caller.HRPrivileged() {
		return user.ErrHRRoleRequired
	}
	return s.leaveTypes.SetActive(ctx, id, false)
}
