package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftgrid/backend/internal/dto"
	"shiftgrid/backend/internal/model"
	"shiftgrid/backend/internal/notify"
	"shiftgrid/backend/internal/repository"
)

// ── 员工模块业务错误 ──

var (
	ErrEmployeeNotFound   = errors.New("员工不存在")
	ErrEmployeeCodeExists = errors.New("员工工号已存在")
)

// EmployeeService 员工业务接口
type EmployeeService interface {
	Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*model.Employee, error)
	GetByID(ctx context.Context, id int64) (*model.Employee, error)
	List(ctx context.Context) ([]model.Employee, error)
	ListByDepartment(ctx context.Context, department string) ([]model.Employee, error)
	Update(ctx context.Context, id int64, req *dto.UpdateEmployeeRequest) (*model.Employee, error)
	// Delete 删除员工并级联删除其全部排班
	Delete(ctx context.Context, id int64) error
	ChangePassword(ctx context.Context, id int64, newPassword string) error
}

type employeeService struct {
	repo     *repository.Repository
	notifier notify.Notifier
	sync     SyncService
	logger   *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, notifier notify.Notifier, sync SyncService, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, notifier: notifier, sync: sync, logger: logger}
}

func (s *employeeService) Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*model.Employee, error) {
	if _, err := s.repo.Employee.GetByCode(ctx, req.Code); err == nil {
		return nil, ErrEmployeeCodeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	emp := &model.Employee{
		Code:       req.Code,
		Name:       req.Name,
		Department: req.Department,
		Role:       req.Role,
		Phone:      req.Phone,
	}
	if err := s.repo.Employee.Create(ctx, emp); err != nil {
		s.logger.Error("创建员工失败", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}

	s.afterWrite(ctx)
	return emp, nil
}

func (s *employeeService) GetByID(ctx context.Context, id int64) (*model.Employee, error) {
	emp, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return emp, nil
}

func (s *employeeService) List(ctx context.Context) ([]model.Employee, error) {
	return s.repo.Employee.List(ctx)
}

func (s *employeeService) ListByDepartment(ctx context.Context, department string) ([]model.Employee, error) {
	return s.repo.Employee.ListByDepartment(ctx, department)
}

func (s *employeeService) Update(ctx context.Context, id int64, req *dto.UpdateEmployeeRequest) (*model.Employee, error) {
	emp, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 工号改动时检查是否与他人冲突
	if req.Code != emp.Code {
		if other, err := s.repo.Employee.GetByCode(ctx, req.Code); err == nil && other.ID != id {
			return nil, ErrEmployeeCodeExists
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	emp.Code = req.Code
	emp.Name = req.Name
	emp.Department = req.Department
	emp.Role = req.Role
	emp.Phone = req.Phone
	if err := s.repo.Employee.Update(ctx, emp); err != nil {
		s.logger.Error("更新员工失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	s.afterWrite(ctx)
	return emp, nil
}

func (s *employeeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Schedule.DeleteByEmployee(ctx, id); err != nil {
			return err
		}
		return tx.Employee.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("删除员工失败", zap.Int64("id", id), zap.Error(err))
		return err
	}

	s.notifier.Publish(ctx, notify.EventSchedulesUpdated)
	s.afterWrite(ctx)
	return nil
}

func (s *employeeService) ChangePassword(ctx context.Context, id int64, newPassword string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Employee.UpdatePassword(ctx, id, newPassword); err != nil {
		s.logger.Error("修改口令失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	s.sync.SchedulePush()
	return nil
}

func (s *employeeService) afterWrite(ctx context.Context) {
	s.notifier.Publish(ctx, notify.EventEmployeesUpdated)
	s.sync.SchedulePush()
}
