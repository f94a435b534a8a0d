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

// ── 班次/任务/设置模块业务错误 ──

var (
	ErrShiftNotFound   = errors.New("班次不存在")
	ErrShiftNameExists = errors.New("班次名称已存在")
	ErrTaskNotFound    = errors.New("任务标签不存在")
	ErrTaskSystemOwned = errors.New("全局任务标签不可删除")
	ErrSettingNotFound = errors.New("设置项不存在")
)

// ShiftService 班次模板业务接口
type ShiftService interface {
	Create(ctx context.Context, req *dto.CreateShiftRequest) (*model.Shift, error)
	List(ctx context.Context) ([]model.Shift, error)
	Update(ctx context.Context, id int64, req *dto.UpdateShiftRequest) (*model.Shift, error)
	Delete(ctx context.Context, id int64) error
}

type shiftService struct {
	repo     *repository.Repository
	notifier notify.Notifier
	sync     SyncService
	logger   *zap.Logger
}

// NewShiftService 创建 ShiftService 实例
func NewShiftService(repo *repository.Repository, notifier notify.Notifier, sync SyncService, logger *zap.Logger) ShiftService {
	return &shiftService{repo: repo, notifier: notifier, sync: sync, logger: logger}
}

func (s *shiftService) Create(ctx context.Context, req *dto.CreateShiftRequest) (*model.Shift, error) {
	if _, err := s.repo.Shift.FindByName(ctx, req.Name); err == nil {
		return nil, ErrShiftNameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	shift := &model.Shift{
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Color:     req.Color,
		TextColor: req.TextColor,
	}
	if err := s.repo.Shift.Create(ctx, shift); err != nil {
		s.logger.Error("创建班次失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	s.afterWrite(ctx)
	return shift, nil
}

func (s *shiftService) List(ctx context.Context) ([]model.Shift, error) {
	return s.repo.Shift.List(ctx)
}

func (s *shiftService) Update(ctx context.Context, id int64, req *dto.UpdateShiftRequest) (*model.Shift, error) {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	shift.Name = req.Name
	shift.StartTime = req.StartTime
	shift.EndTime = req.EndTime
	shift.Color = req.Color
	shift.TextColor = req.TextColor
	if err := s.repo.Shift.Update(ctx, shift); err != nil {
		s.logger.Error("更新班次失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	s.afterWrite(ctx)
	return shift, nil
}

func (s *shiftService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Shift.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftNotFound
		}
		return err
	}
	if err := s.repo.Shift.Delete(ctx, id); err != nil {
		s.logger.Error("删除班次失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	s.afterWrite(ctx)
	return nil
}

func (s *shiftService) afterWrite(ctx context.Context) {
	s.notifier.Publish(ctx, notify.EventSchedulesUpdated)
	s.sync.SchedulePush()
}

// ════════════════════════════════════════════════════════════
// TaskService — 任务标签
// ════════════════════════════════════════════════════════════

// TaskService 任务标签业务接口
// Department 为 "All" 的标签系统自有，普通流程不可删除
type TaskService interface {
	Create(ctx context.Context, req *dto.CreateTaskRequest) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	ListForDepartment(ctx context.Context, department string) ([]model.Task, error)
	Delete(ctx context.Context, id int64) error
}

type taskService struct {
	repo     *repository.Repository
	notifier notify.Notifier
	sync     SyncService
	logger   *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, notifier notify.Notifier, sync SyncService, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, notifier: notifier, sync: sync, logger: logger}
}

func (s *taskService) Create(ctx context.Context, req *dto.CreateTaskRequest) (*model.Task, error) {
	task := &model.Task{
		Department: req.Department,
		Name:       req.Name,
		Color:      req.Color,
		TextColor:  req.TextColor,
	}
	if err := s.repo.Task.Create(ctx, task); err != nil {
		s.logger.Error("创建任务标签失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	s.notifier.Publish(ctx, notify.EventTasksUpdated)
	s.sync.SchedulePush()
	return task, nil
}

func (s *taskService) List(ctx context.Context) ([]model.Task, error) {
	return s.repo.Task.List(ctx)
}

func (s *taskService) ListForDepartment(ctx context.Context, department string) ([]model.Task, error) {
	return s.repo.Task.ListForDepartment(ctx, department)
}

func (s *taskService) Delete(ctx context.Context, id int64) error {
	task, err := s.repo.Task.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	if task.Department == model.TaskDepartmentAll {
		return ErrTaskSystemOwned
	}
	if err := s.repo.Task.Delete(ctx, id); err != nil {
		s.logger.Error("删除任务标签失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	s.notifier.Publish(ctx, notify.EventTasksUpdated)
	s.sync.SchedulePush()
	return nil
}

// ════════════════════════════════════════════════════════════
// SettingService — 键值设置
// ════════════════════════════════════════════════════════════

// SettingService 系统设置读写；镜像地址也存在这里，改动立即生效
type SettingService interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	List(ctx context.Context) ([]model.Setting, error)
}

type settingService struct {
	repo     *repository.Repository
	notifier notify.Notifier
	sync     SyncService
	logger   *zap.Logger
}

// NewSettingService 创建 SettingService 实例
func NewSettingService(repo *repository.Repository, notifier notify.Notifier, sync SyncService, logger *zap.Logger) SettingService {
	return &settingService{repo: repo, notifier: notifier, sync: sync, logger: logger}
}

func (s *settingService) Get(ctx context.Context, key string) (string, error) {
	value, err := s.repo.Setting.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSettingNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *settingService) Set(ctx context.Context, key, value string) error {
	if err := s.repo.Setting.Set(ctx, key, value); err != nil {
		s.logger.Error("写入设置失败", zap.String("key", key), zap.Error(err))
		return err
	}
	s.notifier.Publish(ctx, notify.EventSettingsUpdated)

	// 镜像地址写入后立即拉取一次；拉取失败只记日志，设置本身已生效
	if key == model.SettingKeySheetsURL && value != "" {
		if err := s.sync.Pull(ctx); err != nil {
			s.logger.Warn("镜像地址更新后拉取失败", zap.Error(err))
		}
	}
	return nil
}

func (s *settingService) List(ctx context.Context) ([]model.Setting, error) {
	return s.repo.Setting.List(ctx)
}
