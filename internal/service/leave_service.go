package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftgrid/backend/internal/dto"
	"shiftgrid/backend/internal/model"
	"shiftgrid/backend/internal/notify"
	"shiftgrid/backend/internal/repository"
)

var (
	ErrLeaveNotFound     = errors.New("请假单不存在")
	ErrLeaveNotPending   = errors.New("请假单已审批，不可重复处理")
	ErrLeaveShiftNotOff  = errors.New("请假只能申请休息类班次")
	ErrLeaveShiftMissing = errors.New("申请的班次不存在")
)

// LeaveService 请假申请与审批
// 审批通过时直接把休息班次写进当天排班，并照常触发补班平衡
type LeaveService interface {
	Create(ctx context.Context, req *dto.CreateLeaveRequest, actor Actor) (*model.LeaveRequest, error)
	List(ctx context.Context) ([]dto.LeaveRequestResponse, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]dto.LeaveRequestResponse, error)
	// Resolve 审批：Approved 时落排班格，Rejected 仅改状态
	Resolve(ctx context.Context, id int64, status string) error
}

type leaveService struct {
	repo     *repository.Repository
	schedule ScheduleService
	notifier notify.Notifier
	sync     SyncService
	logger   *zap.Logger
	now      func() time.Time
}

// NewLeaveService 创建 LeaveService 实例
func NewLeaveService(repo *repository.Repository, schedule ScheduleService, notifier notify.Notifier, sync SyncService, logger *zap.Logger) LeaveService {
	return &leaveService{
		repo:     repo,
		schedule: schedule,
		notifier: notifier,
		sync:     sync,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *leaveService) Create(ctx context.Context, req *dto.CreateLeaveRequest, actor Actor) (*model.LeaveRequest, error) {
	shift, err := s.repo.Shift.GetByID(ctx, req.ShiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveShiftMissing
		}
		return nil, err
	}
	if !shift.IsOff() {
		return nil, ErrLeaveShiftNotOff
	}

	leave := &model.LeaveRequest{
		EmployeeID: actor.EmployeeID,
		Date:       req.Date,
		ShiftID:    req.ShiftID,
		Reason:     req.Reason,
		Status:     model.LeaveStatusPending,
		CreatedAt:  s.now().Format(time.RFC3339),
	}
	if err := s.repo.LeaveRequest.Create(ctx, leave); err != nil {
		s.logger.Error("创建请假单失败", zap.Error(err))
		return nil, err
	}

	s.notifier.Publish(ctx, notify.EventLeaveRequestsUpdated)
	s.sync.SchedulePush()
	return leave, nil
}

func (s *leaveService) List(ctx context.Context) ([]dto.LeaveRequestResponse, error) {
	leaves, err := s.repo.LeaveRequest.List(ctx)
	if err != nil {
		return nil, err
	}
	return toLeaveResponses(leaves), nil
}

func (s *leaveService) ListByEmployee(ctx context.Context, employeeID int64) ([]dto.LeaveRequestResponse, error) {
	leaves, err := s.repo.LeaveRequest.List(ctx)
	if err != nil {
		return nil, err
	}
	own := leaves[:0:0]
	for _, l := range leaves {
		if l.EmployeeID == employeeID {
			own = append(own, l)
		}
	}
	return toLeaveResponses(own), nil
}

func (s *leaveService) Resolve(ctx context.Context, id int64, status string) error {
	leave, err := s.repo.LeaveRequest.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLeaveNotFound
		}
		return err
	}
	if leave.Status != model.LeaveStatusPending {
		return ErrLeaveNotPending
	}

	if err := s.repo.LeaveRequest.UpdateStatus(ctx, id, status); err != nil {
		s.logger.Error("更新请假单状态失败", zap.Int64("id", id), zap.Error(err))
		return err
	}

	// 批准后排班格即刻生效，同事在同一事务内被平衡到加班班次
	if status == model.LeaveStatusApproved {
		cell := &model.Schedule{
			Date:       leave.Date,
			EmployeeID: leave.EmployeeID,
			ShiftID:    leave.ShiftID,
			Task:       model.TaskNone,
			Status:     model.StatusPublished,
			Note:       model.NoteApprovedLeave,
		}
		if err := s.schedule.ApplySystemCell(ctx, cell); err != nil {
			s.logger.Error("落请假排班失败", zap.Int64("leave_id", id), zap.Error(err))
			return err
		}
		s.notifier.Publish(ctx, notify.EventSchedulesUpdated)
	}

	s.notifier.Publish(ctx, notify.EventLeaveRequestsUpdated)
	s.sync.SchedulePush()
	return nil
}

func toLeaveResponses(leaves []model.LeaveRequest) []dto.LeaveRequestResponse {
	out := make([]dto.LeaveRequestResponse, 0, len(leaves))
	for _, l := range leaves {
		resp := dto.LeaveRequestResponse{
			ID:         l.ID,
			EmployeeID: l.EmployeeID,
			Date:       l.Date,
			ShiftID:    l.ShiftID,
			Reason:     l.Reason,
			Status:     l.Status,
			CreatedAt:  l.CreatedAt,
		}
		if l.Employee != nil {
			resp.EmployeeName = l.Employee.Name
			resp.Department = l.Employee.Department
		}
		if l.Shift != nil {
			resp.ShiftName = l.Shift.Name
		}
		out = append(out, resp)
	}
	return out
}
