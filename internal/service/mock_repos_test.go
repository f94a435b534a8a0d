package service

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"shiftgrid/backend/internal/model"
	"shiftgrid/backend/internal/repository"
)

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	seq       int64
	employees map[int64]*model.Employee
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[int64]*model.Employee)}
}

func (m *mockEmployeeRepo) Create(_ context.Context, emp *model.Employee) error {
	if emp.ID == 0 {
		m.seq++
		emp.ID = m.seq
	}
	cp := *emp
	m.employees[emp.ID] = &cp
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id int64) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByCode(_ context.Context, code string) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.Code == code {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) List(_ context.Context) ([]model.Employee, error) {
	var result []model.Employee
	for _, e := range m.employees {
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockEmployeeRepo) ListByDepartment(_ context.Context, department string) ([]model.Employee, error) {
	var result []model.Employee
	for _, e := range m.employees {
		if e.Department == department {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockEmployeeRepo) Update(_ context.Context, emp *model.Employee) error {
	if _, ok := m.employees[emp.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *emp
	m.employees[emp.ID] = &cp
	return nil
}

func (m *mockEmployeeRepo) UpdatePassword(_ context.Context, id int64, password string) error {
	if e, ok := m.employees[id]; ok {
		e.Password = password
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) Delete(_ context.Context, id int64) error {
	delete(m.employees, id)
	return nil
}

func (m *mockEmployeeRepo) DeleteAll(_ context.Context) error {
	m.employees = make(map[int64]*model.Employee)
	return nil
}

func (m *mockEmployeeRepo) BulkInsert(ctx context.Context, emps []model.Employee) error {
	for i := range emps {
		if err := m.Create(ctx, &emps[i]); err != nil {
			return err
		}
	}
	return nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	seq    int64
	shifts map[int64]*model.Shift
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[int64]*model.Shift)}
}

func (m *mockShiftRepo) Create(_ context.Context, shift *model.Shift) error {
	if shift.ID == 0 {
		m.seq++
		shift.ID = m.seq
	}
	cp := *shift
	m.shifts[shift.ID] = &cp
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id int64) (*model.Shift, error) {
	if s, ok := m.shifts[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) FindByName(_ context.Context, name string) (*model.Shift, error) {
	for _, s := range m.shifts {
		if strings.EqualFold(s.Name, name) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) List(_ context.Context) ([]model.Shift, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockShiftRepo) Update(_ context.Context, shift *model.Shift) error {
	if _, ok := m.shifts[shift.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *shift
	m.shifts[shift.ID] = &cp
	return nil
}

func (m *mockShiftRepo) Delete(_ context.Context, id int64) error {
	delete(m.shifts, id)
	return nil
}

func (m *mockShiftRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.shifts)), nil
}

func (m *mockShiftRepo) DeleteAll(_ context.Context) error {
	m.shifts = make(map[int64]*model.Shift)
	return nil
}

func (m *mockShiftRepo) BulkInsert(ctx context.Context, shifts []model.Shift) error {
	for i := range shifts {
		if err := m.Create(ctx, &shifts[i]); err != nil {
			return err
		}
	}
	return nil
}

// ── Mock ScheduleRepository ──
// 借引用员工/班次 mock 以填充关联字段，模拟 Preload

type mockScheduleRepo struct {
	seq       int64
	cells     map[int64]*model.Schedule
	employees *mockEmployeeRepo
	shifts    *mockShiftRepo
	writes    int // 统计落库写入次数，幂等断言用
}

func newMockScheduleRepo(employees *mockEmployeeRepo, shifts *mockShiftRepo) *mockScheduleRepo {
	return &mockScheduleRepo{
		cells:     make(map[int64]*model.Schedule),
		employees: employees,
		shifts:    shifts,
	}
}

func (m *mockScheduleRepo) hydrate(c *model.Schedule) model.Schedule {
	cp := *c
	if e, ok := m.employees.employees[c.EmployeeID]; ok {
		ecp := *e
		cp.Employee = &ecp
	}
	if s, ok := m.shifts.shifts[c.ShiftID]; ok {
		scp := *s
		cp.Shift = &scp
	}
	return cp
}

func (m *mockScheduleRepo) Upsert(_ context.Context, cell *model.Schedule) error {
	m.writes++
	for _, c := range m.cells {
		if c.Date == cell.Date && c.EmployeeID == cell.EmployeeID {
			c.ShiftID = cell.ShiftID
			c.Task = cell.Task
			c.Status = cell.Status
			c.Note = cell.Note
			cell.ID = c.ID
			return nil
		}
	}
	m.seq++
	cell.ID = m.seq
	cp := *cell
	m.cells[cell.ID] = &cp
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id int64) (*model.Schedule, error) {
	if c, ok := m.cells[id]; ok {
		cp := m.hydrate(c)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) GetByDateEmployee(_ context.Context, date string, employeeID int64) (*model.Schedule, error) {
	for _, c := range m.cells {
		if c.Date == date && c.EmployeeID == employeeID {
			cp := m.hydrate(c)
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) ListByDate(_ context.Context, date string) ([]model.Schedule, error) {
	var result []model.Schedule
	for _, c := range m.cells {
		if c.Date == date {
			result = append(result, m.hydrate(c))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, nil
}

func (m *mockScheduleRepo) ListByDateRange(_ context.Context, start, end string) ([]model.Schedule, error) {
	var result []model.Schedule
	for _, c := range m.cells {
		if c.Date >= start && c.Date <= end {
			result = append(result, m.hydrate(c))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].EmployeeID < result[j].EmployeeID
	})
	return result, nil
}

func (m *mockScheduleRepo) List(_ context.Context) ([]model.Schedule, error) {
	return m.ListByDateRange(context.Background(), "0000-00-00", "9999-99-99")
}

func (m *mockScheduleRepo) UpdateShiftNote(_ context.Context, id, shiftID int64, note string) error {
	c, ok := m.cells[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.writes++
	c.ShiftID = shiftID
	c.Note = note
	return nil
}

func (m *mockScheduleRepo) Delete(_ context.Context, id int64) error {
	delete(m.cells, id)
	return nil
}

func (m *mockScheduleRepo) DeleteByEmployee(_ context.Context, employeeID int64) error {
	for id, c := range m.cells {
		if c.EmployeeID == employeeID {
			delete(m.cells, id)
		}
	}
	return nil
}

func (m *mockScheduleRepo) DeleteAll(_ context.Context) error {
	m.cells = make(map[int64]*model.Schedule)
	return nil
}

func (m *mockScheduleRepo) BulkInsert(_ context.Context, cells []model.Schedule) error {
	for i := range cells {
		m.seq++
		cp := cells[i]
		if cp.ID == 0 {
			cp.ID = m.seq
		}
		m.cells[cp.ID] = &cp
	}
	return nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	seq   int64
	tasks map[int64]*model.Task
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[int64]*model.Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	if task.ID == 0 {
		m.seq++
		task.ID = m.seq
	}
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id int64) (*model.Task, error) {
	if t, ok := m.tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) List(_ context.Context) ([]model.Task, error) {
	var result []model.Task
	for _, t := range m.tasks {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockTaskRepo) ListForDepartment(_ context.Context, department string) ([]model.Task, error) {
	var result []model.Task
	for _, t := range m.tasks {
		if t.Department == department || t.Department == model.TaskDepartmentAll {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id int64) error {
	delete(m.tasks, id)
	return nil
}

func (m *mockTaskRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.tasks)), nil
}

func (m *mockTaskRepo) DeleteAll(_ context.Context) error {
	m.tasks = make(map[int64]*model.Task)
	return nil
}

func (m *mockTaskRepo) BulkInsert(ctx context.Context, tasks []model.Task) error {
	for i := range tasks {
		if err := m.Create(ctx, &tasks[i]); err != nil {
			return err
		}
	}
	return nil
}

// ── Mock LockedMonthRepository ──

type mockLockedMonthRepo struct {
	months map[string]bool
}

func newMockLockedMonthRepo() *mockLockedMonthRepo {
	return &mockLockedMonthRepo{months: make(map[string]bool)}
}

func (m *mockLockedMonthRepo) Exists(_ context.Context, month string) (bool, error) {
	return m.months[month], nil
}

func (m *mockLockedMonthRepo) List(_ context.Context) ([]model.LockedMonth, error) {
	var result []model.LockedMonth
	for month := range m.months {
		result = append(result, model.LockedMonth{Month: month})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result, nil
}

func (m *mockLockedMonthRepo) Add(_ context.Context, month string) error {
	m.months[month] = true
	return nil
}

func (m *mockLockedMonthRepo) Remove(_ context.Context, month string) error {
	delete(m.months, month)
	return nil
}

func (m *mockLockedMonthRepo) DeleteAll(_ context.Context) error {
	m.months = make(map[string]bool)
	return nil
}

func (m *mockLockedMonthRepo) BulkInsert(_ context.Context, months []model.LockedMonth) error {
	for _, lm := range months {
		m.months[lm.Month] = true
	}
	return nil
}

// ── Mock SettingRepository ──

type mockSettingRepo struct {
	values map[string]string
}

func newMockSettingRepo() *mockSettingRepo {
	return &mockSettingRepo{values: make(map[string]string)}
}

func (m *mockSettingRepo) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", gorm.ErrRecordNotFound
}

func (m *mockSettingRepo) Set(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *mockSettingRepo) List(_ context.Context) ([]model.Setting, error) {
	var result []model.Setting
	for k, v := range m.values {
		result = append(result, model.Setting{Key: k, Value: v})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

// ── Mock AnnouncementRepository ──

type mockAnnouncementRepo struct {
	seq  int64
	anns map[int64]*model.Announcement
}

func newMockAnnouncementRepo() *mockAnnouncementRepo {
	return &mockAnnouncementRepo{anns: make(map[int64]*model.Announcement)}
}

func (m *mockAnnouncementRepo) Create(_ context.Context, ann *model.Announcement) error {
	if ann.ID == 0 {
		m.seq++
		ann.ID = m.seq
	}
	cp := *ann
	m.anns[ann.ID] = &cp
	return nil
}

func (m *mockAnnouncementRepo) GetByID(_ context.Context, id int64) (*model.Announcement, error) {
	if a, ok := m.anns[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAnnouncementRepo) List(_ context.Context) ([]model.Announcement, error) {
	var result []model.Announcement
	for _, a := range m.anns {
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockAnnouncementRepo) Update(_ context.Context, ann *model.Announcement) error {
	if _, ok := m.anns[ann.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *ann
	m.anns[ann.ID] = &cp
	return nil
}

func (m *mockAnnouncementRepo) Delete(_ context.Context, id int64) error {
	delete(m.anns, id)
	return nil
}

func (m *mockAnnouncementRepo) DeleteAll(_ context.Context) error {
	m.anns = make(map[int64]*model.Announcement)
	return nil
}

func (m *mockAnnouncementRepo) BulkInsert(ctx context.Context, anns []model.Announcement) error {
	for i := range anns {
		if err := m.Create(ctx, &anns[i]); err != nil {
			return err
		}
	}
	return nil
}

// ── Mock AnnouncementViewRepository ──

type viewKey struct {
	announcementID int64
	employeeID     int64
}

type mockAnnouncementViewRepo struct {
	views map[viewKey]*model.AnnouncementView
}

func newMockAnnouncementViewRepo() *mockAnnouncementViewRepo {
	return &mockAnnouncementViewRepo{views: make(map[viewKey]*model.AnnouncementView)}
}

func (m *mockAnnouncementViewRepo) MarkViewed(_ context.Context, view *model.AnnouncementView) error {
	key := viewKey{view.AnnouncementID, view.EmployeeID}
	if _, ok := m.views[key]; ok {
		return nil
	}
	cp := *view
	m.views[key] = &cp
	return nil
}

func (m *mockAnnouncementViewRepo) ListByAnnouncement(_ context.Context, announcementID int64) ([]model.AnnouncementView, error) {
	var result []model.AnnouncementView
	for _, v := range m.views {
		if v.AnnouncementID == announcementID {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (m *mockAnnouncementViewRepo) ListByEmployee(_ context.Context, employeeID int64) ([]model.AnnouncementView, error) {
	var result []model.AnnouncementView
	for _, v := range m.views {
		if v.EmployeeID == employeeID {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (m *mockAnnouncementViewRepo) List(_ context.Context) ([]model.AnnouncementView, error) {
	var result []model.AnnouncementView
	for _, v := range m.views {
		result = append(result, *v)
	}
	return result, nil
}

func (m *mockAnnouncementViewRepo) DeleteAll(_ context.Context) error {
	m.views = make(map[viewKey]*model.AnnouncementView)
	return nil
}

func (m *mockAnnouncementViewRepo) BulkInsert(ctx context.Context, views []model.AnnouncementView) error {
	for i := range views {
		if err := m.MarkViewed(ctx, &views[i]); err != nil {
			return err
		}
	}
	return nil
}

// ── Mock LeaveRequestRepository ──

type mockLeaveRequestRepo struct {
	seq    int64
	leaves map[int64]*model.LeaveRequest
}

func newMockLeaveRequestRepo() *mockLeaveRequestRepo {
	return &mockLeaveRequestRepo{leaves: make(map[int64]*model.LeaveRequest)}
}

func (m *mockLeaveRequestRepo) Create(_ context.Context, req *model.LeaveRequest) error {
	if req.ID == 0 {
		m.seq++
		req.ID = m.seq
	}
	cp := *req
	m.leaves[req.ID] = &cp
	return nil
}

func (m *mockLeaveRequestRepo) GetByID(_ context.Context, id int64) (*model.LeaveRequest, error) {
	if l, ok := m.leaves[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveRequestRepo) List(_ context.Context) ([]model.LeaveRequest, error) {
	var result []model.LeaveRequest
	for _, l := range m.leaves {
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockLeaveRequestRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	if l, ok := m.leaves[id]; ok {
		l.Status = status
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockLeaveRequestRepo) DeleteAll(_ context.Context) error {
	m.leaves = make(map[int64]*model.LeaveRequest)
	return nil
}

func (m *mockLeaveRequestRepo) BulkInsert(ctx context.Context, reqs []model.LeaveRequest) error {
	for i := range reqs {
		if err := m.Create(ctx, &reqs[i]); err != nil {
			return err
		}
	}
	return nil
}

// ── 测试环境组装 ──

type testEnv struct {
	repo      *repository.Repository
	employees *mockEmployeeRepo
	shifts    *mockShiftRepo
	schedules *mockScheduleRepo
	tasks     *mockTaskRepo
	months    *mockLockedMonthRepo
	settings  *mockSettingRepo
	anns      *mockAnnouncementRepo
	views     *mockAnnouncementViewRepo
	leaves    *mockLeaveRequestRepo
}

func newTestEnv() *testEnv {
	employees := newMockEmployeeRepo()
	shifts := newMockShiftRepo()
	env := &testEnv{
		employees: employees,
		shifts:    shifts,
		schedules: newMockScheduleRepo(employees, shifts),
		tasks:     newMockTaskRepo(),
		months:    newMockLockedMonthRepo(),
		settings:  newMockSettingRepo(),
		anns:      newMockAnnouncementRepo(),
		views:     newMockAnnouncementViewRepo(),
		leaves:    newMockLeaveRequestRepo(),
	}
	env.repo = &repository.Repository{
		Employee:         env.employees,
		Shift:            env.shifts,
		Schedule:         env.schedules,
		Task:             env.tasks,
		LockedMonth:      env.months,
		Setting:          env.settings,
		Announcement:     env.anns,
		AnnouncementView: env.views,
		LeaveRequest:     env.leaves,
	}
	return env
}

// mockSync 记录推送排定与拉取次数的 SyncService 替身
type mockSync struct {
	scheduled int
	pulled    int
}

func (m *mockSync) SchedulePush()                 { m.scheduled++ }
func (m *mockSync) PushNow(context.Context) error { return nil }
func (m *mockSync) Pull(context.Context) error    { m.pulled++; return nil }
func (m *mockSync) Stop()                         {}
