package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftgrid/backend/internal/mirror"
	"shiftgrid/backend/internal/model"
	"shiftgrid/backend/internal/notify"
	"shiftgrid/backend/internal/repository"
)

// ── 同步模块业务错误 ──

var (
	ErrSyncNotConfigured = errors.New("镜像端点未配置")
	ErrSyncInProgress    = errors.New("已有同步正在进行")
	ErrSyncEmptySnapshot = errors.New("镜像快照不含任何员工，拒绝应用")
)

// SyncService 电子表格镜像同步
// 推送：任意写操作后经去抖合并，整库快照 POST 到镜像端点
// 拉取：GET 整库快照并原子替换本地数据（设置表除外）
type SyncService interface {
	// SchedulePush 排定一次去抖推送（写路径调用，立即返回）
	SchedulePush()
	// PushNow 立即构建快照并推送
	PushNow(ctx context.Context) error
	// Pull 拉取快照并整库替换本地数据
	Pull(ctx context.Context) error
	// Stop 取消尚未执行的推送排定
	Stop()
}

type syncService struct {
	repo     *repository.Repository
	client   *mirror.Client
	notifier notify.Notifier
	logger   *zap.Logger

	debouncer *mirror.Debouncer
	pullMu    sync.Mutex
}

// NewSyncService 创建 SyncService 实例
func NewSyncService(
	repo *repository.Repository,
	client *mirror.Client,
	notifier notify.Notifier,
	debounce time.Duration,
	logger *zap.Logger,
) SyncService {
	s := &syncService{
		repo:     repo,
		client:   client,
		notifier: notifier,
		logger:   logger,
	}
	s.debouncer = mirror.NewDebouncer(debounce, s.pushFromTimer)
	return s
}

func (s *syncService) SchedulePush() {
	s.debouncer.Trigger()
}

func (s *syncService) Stop() {
	s.debouncer.Stop()
}

// pushFromTimer 去抖定时器回调：失败仅记日志，不中断任何请求
func (s *syncService) pushFromTimer() {
	if err := s.PushNow(context.Background()); err != nil {
		if errors.Is(err, ErrSyncNotConfigured) {
			s.logger.Debug("跳过推送：镜像端点未配置")
			return
		}
		if errors.Is(err, mirror.ErrNotJSON) {
			// 配置类故障：几乎总是 Apps Script 未以「任何人可访问」方式部署
			s.logger.Error("镜像端点返回非 JSON，请检查脚本是否以「任何人可访问」部署并使用 /exec 地址",
				zap.Error(err))
			return
		}
		s.logger.Error("推送镜像快照失败", zap.Error(err))
	}
}

func (s *syncService) PushNow(ctx context.Context) error {
	url, err := s.endpoint(ctx)
	if err != nil {
		return err
	}

	snap, err := s.buildSnapshot(ctx)
	if err != nil {
		s.logger.Error("构建镜像快照失败", zap.Error(err))
		return err
	}

	if err := s.client.Push(ctx, url, snap); err != nil {
		return err
	}
	s.logger.Info("镜像快照推送完成",
		zap.Int("employees", len(snap.Employees)),
		zap.Int("schedules", len(snap.Schedules)))
	return nil
}

func (s *syncService) Pull(ctx context.Context) error {
	if !s.pullMu.TryLock() {
		return ErrSyncInProgress
	}
	defer s.pullMu.Unlock()

	url, err := s.endpoint(ctx)
	if err != nil {
		return err
	}

	snap, err := s.client.Pull(ctx, url)
	if err != nil {
		if errors.Is(err, mirror.ErrNotJSON) {
			s.logger.Error("镜像端点返回非 JSON，请检查脚本是否以「任何人可访问」部署并使用 /exec 地址",
				zap.Error(err))
		}
		return err
	}

	// 空员工表视为镜像侧尚未初始化或导出损坏，保持本地数据不动
	if len(snap.Employees) == 0 {
		return ErrSyncEmptySnapshot
	}

	if s.debouncer.Pending() {
		s.logger.Warn("拉取期间存在未推送的本地变更，本次拉取将以镜像数据为准覆盖")
	}

	if err := s.applySnapshot(ctx, snap); err != nil {
		s.logger.Error("应用镜像快照失败", zap.Error(err))
		return err
	}

	s.logger.Info("镜像快照应用完成",
		zap.Int("employees", len(snap.Employees)),
		zap.Int("schedules", len(snap.Schedules)))
	s.notifier.Publish(ctx, notify.EventSchedulesUpdated)
	s.notifier.Publish(ctx, notify.EventEmployeesUpdated)
	return nil
}

// endpoint 每次同步前都重读设置，改地址后无需重启即可生效
func (s *syncService) endpoint(ctx context.Context) (string, error) {
	url, err := s.repo.Setting.Get(ctx, model.SettingKeySheetsURL)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSyncNotConfigured
		}
		return "", err
	}
	if url == "" {
		return "", ErrSyncNotConfigured
	}
	return url, nil
}

// ════════════════════════════════════════════════════════════
// 模型 ↔ 镜像行 转换
// ════════════════════════════════════════════════════════════

func (s *syncService) buildSnapshot(ctx context.Context) (*mirror.Snapshot, error) {
	snap := &mirror.Snapshot{}

	employees, err := s.repo.Employee.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range employees {
		snap.Employees = append(snap.Employees, mirror.EmployeeRecord{
			ID:         mirror.FlexInt64(e.ID),
			Code:       mirror.FlexString(e.Code),
			Name:       mirror.FlexString(e.Name),
			Department: mirror.FlexString(e.Department),
			Role:       mirror.FlexString(e.Role),
			Phone:      mirror.FlexString(e.Phone),
			Password:   mirror.FlexString(e.Password),
		})
	}

	shifts, err := s.repo.Shift.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, sh := range shifts {
		snap.Shifts = append(snap.Shifts, mirror.ShiftRecord{
			ID:        mirror.FlexInt64(sh.ID),
			Name:      mirror.FlexString(sh.Name),
			StartTime: mirror.FlexString(sh.StartTime),
			EndTime:   mirror.FlexString(sh.EndTime),
			Color:     mirror.FlexString(sh.Color),
			TextColor: mirror.FlexString(sh.TextColor),
		})
	}

	schedules, err := s.repo.Schedule.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, sc := range schedules {
		snap.Schedules = append(snap.Schedules, mirror.ScheduleRecord{
			ID:         mirror.FlexInt64(sc.ID),
			Date:       mirror.FlexString(sc.Date),
			EmployeeID: mirror.FlexInt64(sc.EmployeeID),
			ShiftID:    mirror.FlexInt64(sc.ShiftID),
			Task:       mirror.FlexString(sc.Task),
			Status:     mirror.FlexString(sc.Status),
			Note:       mirror.FlexString(sc.Note),
		})
	}

	months, err := s.repo.LockedMonth.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range months {
		snap.LockedMonths = append(snap.LockedMonths, mirror.LockedMonthRecord{
			Month: mirror.FlexString(m.Month),
		})
	}

	announcements, err := s.repo.Announcement.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range announcements {
		snap.Announcements = append(snap.Announcements, mirror.AnnouncementRecord{
			ID:          mirror.FlexInt64(a.ID),
			Type:        mirror.FlexString(a.Type),
			TargetType:  mirror.FlexString(a.TargetType),
			TargetValue: mirror.FlexString(a.TargetValue),
			Message:     mirror.FlexString(a.Message),
			StartTime:   mirror.FlexString(a.StartTime),
			EndTime:     mirror.FlexString(a.EndTime),
			CreatedBy:   mirror.FlexInt64(a.CreatedBy),
			CreatedAt:   mirror.FlexString(a.CreatedAt),
		})
	}

	views, err := s.repo.AnnouncementView.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		snap.AnnouncementViews = append(snap.AnnouncementViews, mirror.AnnouncementViewRecord{
			AnnouncementID: mirror.FlexInt64(v.AnnouncementID),
			EmployeeID:     mirror.FlexInt64(v.EmployeeID),
			ViewedAt:       mirror.FlexString(v.ViewedAt),
		})
	}

	leaves, err := s.repo.LeaveRequest.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range leaves {
		snap.LeaveRequests = append(snap.LeaveRequests, mirror.LeaveRequestRecord{
			ID:         mirror.FlexInt64(l.ID),
			EmployeeID: mirror.FlexInt64(l.EmployeeID),
			Date:       mirror.FlexString(l.Date),
			ShiftID:    mirror.FlexInt64(l.ShiftID),
			Reason:     mirror.FlexString(l.Reason),
			Status:     mirror.FlexString(l.Status),
			CreatedAt:  mirror.FlexString(l.CreatedAt),
		})
	}

	tasks, err := s.repo.Task.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		snap.Tasks = append(snap.Tasks, mirror.TaskRecord{
			ID:         mirror.FlexInt64(t.ID),
			Department: mirror.FlexString(t.Department),
			Name:       mirror.FlexString(t.Name),
			Color:      mirror.FlexString(t.Color),
			TextColor:  mirror.FlexString(t.TextColor),
		})
	}

	return snap, nil
}

// applySnapshot 单事务内整库替换：先清空再批量插入，失败整体回滚
// 设置表不参与替换，镜像地址本身不会被拉取覆盖
func (s *syncService) applySnapshot(ctx context.Context, snap *mirror.Snapshot) error {
	employees := make([]model.Employee, 0, len(snap.Employees))
	for _, r := range snap.Employees {
		employees = append(employees, model.Employee{
			ID:         int64(r.ID),
			Code:       string(r.Code),
			Name:       string(r.Name),
			Department: string(r.Department),
			Role:       model.NormalizeRole(string(r.Role)),
			Phone:      string(r.Phone),
			Password:   string(r.Password),
		})
	}

	shifts := make([]model.Shift, 0, len(snap.Shifts))
	for _, r := range snap.Shifts {
		shifts = append(shifts, model.Shift{
			ID:        int64(r.ID),
			Name:      string(r.Name),
			StartTime: string(r.StartTime),
			EndTime:   string(r.EndTime),
			Color:     string(r.Color),
			TextColor: string(r.TextColor),
		})
	}

	schedules := make([]model.Schedule, 0, len(snap.Schedules))
	for _, r := range snap.Schedules {
		schedules = append(schedules, model.Schedule{
			ID:         int64(r.ID),
			Date:       string(r.Date),
			EmployeeID: int64(r.EmployeeID),
			ShiftID:    int64(r.ShiftID),
			Task:       string(r.Task),
			Status:     string(r.Status),
			Note:       string(r.Note),
		})
	}

	months := make([]model.LockedMonth, 0, len(snap.LockedMonths))
	for _, r := range snap.LockedMonths {
		if r.Month == "" {
			continue
		}
		months = append(months, model.LockedMonth{Month: string(r.Month)})
	}

	announcements := make([]model.Announcement, 0, len(snap.Announcements))
	for _, r := range snap.Announcements {
		announcements = append(announcements, model.Announcement{
			ID:          int64(r.ID),
			Type:        string(r.Type),
			TargetType:  string(r.TargetType),
			TargetValue: string(r.TargetValue),
			Message:     string(r.Message),
			StartTime:   string(r.StartTime),
			EndTime:     string(r.EndTime),
			CreatedBy:   int64(r.CreatedBy),
			CreatedAt:   string(r.CreatedAt),
		})
	}

	views := make([]model.AnnouncementView, 0, len(snap.AnnouncementViews))
	for _, r := range snap.AnnouncementViews {
		views = append(views, model.AnnouncementView{
			AnnouncementID: int64(r.AnnouncementID),
			EmployeeID:     int64(r.EmployeeID),
			ViewedAt:       string(r.ViewedAt),
		})
	}

	leaves := make([]model.LeaveRequest, 0, len(snap.LeaveRequests))
	for _, r := range snap.LeaveRequests {
		leaves = append(leaves, model.LeaveRequest{
			ID:         int64(r.ID),
			EmployeeID: int64(r.EmployeeID),
			Date:       string(r.Date),
			ShiftID:    int64(r.ShiftID),
			Reason:     string(r.Reason),
			Status:     string(r.Status),
			CreatedAt:  string(r.CreatedAt),
		})
	}

	tasks := make([]model.Task, 0, len(snap.Tasks))
	for _, r := range snap.Tasks {
		tasks = append(tasks, model.Task{
			ID:         int64(r.ID),
			Department: string(r.Department),
			Name:       string(r.Name),
			Color:      string(r.Color),
			TextColor:  string(r.TextColor),
		})
	}

	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 先删依赖方，后删被依赖方
		if err := tx.AnnouncementView.DeleteAll(ctx); err != nil {
			return err
		}
		if err := tx.Announcement.DeleteAll(ctx); err != nil {
			return err
		}
		if err := tx.LeaveRequest.DeleteAll(ctx); err != nil {
			return err
		}
		if err := tx.Schedule.DeleteAll(ctx); err != nil {
			return err
		}
		if err := tx.LockedMonth.DeleteAll(ctx); err != nil {
			return err
		}
		if err := tx.Task.DeleteAll(ctx); err != nil {
			return err
		}
		if err := tx.Shift.DeleteAll(ctx); err != nil {
			return err
		}
		if err := tx.Employee.DeleteAll(ctx); err != nil {
			return err
		}

		if err := tx.Employee.BulkInsert(ctx, employees); err != nil {
			return err
		}
		if err := tx.Shift.BulkInsert(ctx, shifts); err != nil {
			return err
		}
		if err := tx.Schedule.BulkInsert(ctx, schedules); err != nil {
			return err
		}
		if err := tx.LockedMonth.BulkInsert(ctx, months); err != nil {
			return err
		}
		if err := tx.Task.BulkInsert(ctx, tasks); err != nil {
			return err
		}
		if err := tx.Announcement.BulkInsert(ctx, announcements); err != nil {
			return err
		}
		if err := tx.AnnouncementView.BulkInsert(ctx, views); err != nil {
			return err
		}
		return tx.LeaveRequest.BulkInsert(ctx, leaves)
	})
}
