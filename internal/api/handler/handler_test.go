package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"shiftgrid/backend/internal/dto"
	"shiftgrid/backend/internal/model"
	"shiftgrid/backend/internal/service"
	"shiftgrid/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult *dto.LoginResponse
	loginErr    error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.LoginResponse, error) {
	return m.loginResult, m.loginErr
}

// ── Mock EmployeeService ──

type mockEmployeeService struct {
	employee      *model.Employee
	err           error
	changePassErr error
}

func (m *mockEmployeeService) Create(_ context.Context, _ *dto.CreateEmployeeRequest) (*model.Employee, error) {
	return m.employee, m.err
}
func (m *mockEmployeeService) GetByID(_ context.Context, _ int64) (*model.Employee, error) {
	return m.employee, m.err
}
func (m *mockEmployeeService) List(_ context.Context) ([]model.Employee, error) {
	if m.employee == nil {
		return nil, m.err
	}
	return []model.Employee{*m.employee}, m.err
}
func (m *mockEmployeeService) ListByDepartment(_ context.Context, _ string) ([]model.Employee, error) {
	return m.List(context.Background())
}
func (m *mockEmployeeService) Update(_ context.Context, _ int64, _ *dto.UpdateEmployeeRequest) (*model.Employee, error) {
	return m.employee, m.err
}
func (m *mockEmployeeService) Delete(_ context.Context, _ int64) error { return m.err }
func (m *mockEmployeeService) ChangePassword(_ context.Context, _ int64, _ string) error {
	return m.changePassErr
}

// ── Mock ScheduleService ──

type mockScheduleService struct {
	cells        []dto.ScheduleCellResponse
	upsertErr    error
	lockOverride bool
	bulkCount    int
	bulkErr      error
	deleteErr    error
	copyCount    int
	copyErr      error
	months       []string
	monthsErr    error
	setLockErr   error
}

func (m *mockScheduleService) ListRange(_ context.Context, _, _ string) ([]dto.ScheduleCellResponse, error) {
	return m.cells, nil
}
func (m *mockScheduleService) UpsertCell(_ context.Context, _ *dto.UpsertScheduleRequest, _ service.Actor) (bool, error) {
	return m.lockOverride, m.upsertErr
}
func (m *mockScheduleService) BulkUpsert(_ context.Context, _ *dto.BulkUpsertScheduleRequest, _ service.Actor) (int, bool, error) {
	return m.bulkCount, m.lockOverride, m.bulkErr
}
func (m *mockScheduleService) DeleteCell(_ context.Context, _ int64, _ service.Actor) (bool, error) {
	return m.lockOverride, m.deleteErr
}
func (m *mockScheduleService) CopyWeek(_ context.Context, _ *dto.CopyWeekRequest, _ service.Actor) (int, bool, error) {
	return m.copyCount, m.lockOverride, m.copyErr
}
func (m *mockScheduleService) ListLockedMonths(_ context.Context) ([]string, error) {
	return m.months, m.monthsErr
}
func (m *mockScheduleService) SetMonthLock(_ context.Context, _ string, _ bool) error {
	return m.setLockErr
}
func (m *mockScheduleService) ApplySystemCell(_ context.Context, _ *model.Schedule) error {
	return nil
}

// ── Mock AssignService ──

type mockAssignService struct {
	count int
	err   error
}

func (m *mockAssignService) AssignWeek(_ context.Context, _ string) (int, error) {
	return m.count, m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	ics      string
	filename string
	err      error
}

func (m *mockExportService) ExportWeekXLSX(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportMonthICS(_ context.Context, _ int64, _ string) (string, string, error) {
	return m.ics, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// injectActor 模拟 JWT 中间件注入的身份信息
func injectActor(role, department string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("employee_id", int64(7))
		c.Set("role", role)
		c.Set("department", department)
		c.Next()
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.LoginResponse{Token: "test-token", EmployeeID: 1, Name: "员工一", Role: model.RoleAdmin},
	}
	h := NewAuthHandler(mock, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{Code: "E1", Password: "secret"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{Code: "E1", Password: "wrong"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10004 {
		t.Errorf("expected error code 10004, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ScheduleHandler
// ═══════════════════════════════════════════════════════════

func TestScheduleHandler_Upsert_PolicyDenied(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode int
	}{
		{"月份锁定", service.ErrPolicyMonthLocked, http.StatusForbidden, 30003},
		{"跨部门", service.ErrPolicyCrossDepartment, http.StatusForbidden, 30004},
		{"不足24小时", service.ErrPolicyTooLate, http.StatusForbidden, 30005},
		{"员工缺失", service.ErrCellEmployeeGone, http.StatusBadRequest, 30007},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewScheduleHandler(&mockScheduleService{upsertErr: tt.err}, &mockAssignService{})

			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/schedules", jsonBody(dto.UpsertScheduleRequest{
				Date: "2024-06-03", EmployeeID: 1, ShiftID: 1,
			}))
			req.Header.Set("Content-Type", "application/json")

			r := gin.New()
			r.POST("/schedules", injectActor(model.RoleSupervisor, "Sales"), h.Upsert)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantHTTP {
				t.Errorf("expected %d, got %d", tt.wantHTTP, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected error code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestScheduleHandler_Upsert_Unauthenticated(t *testing.T) {
	h := NewScheduleHandler(&mockScheduleService{}, &mockAssignService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/schedules", jsonBody(dto.UpsertScheduleRequest{
		Date: "2024-06-03", EmployeeID: 1, ShiftID: 1,
	}))
	req.Header.Set("Content-Type", "application/json")

	// 不注入身份信息
	r := gin.New()
	r.POST("/schedules", h.Upsert)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10002 {
		t.Errorf("expected error code 10002, got %d", resp.Code)
	}
}

func TestScheduleHandler_Upsert_LockOverride(t *testing.T) {
	h := NewScheduleHandler(&mockScheduleService{lockOverride: true}, &mockAssignService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/schedules", jsonBody(dto.UpsertScheduleRequest{
		Date: "2024-06-03", EmployeeID: 1, ShiftID: 1,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/schedules", injectActor(model.RoleAdmin, "Office"), h.Upsert)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Fatalf("expected code 0, got %d", resp.Code)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("响应数据应为对象, got %T", resp.Data)
	}
	if data["lock_override"] != true {
		t.Errorf("越过锁定月份时响应应携带 lock_override=true, got %v", data["lock_override"])
	}
}

func TestScheduleHandler_AutoAssign_Headcount(t *testing.T) {
	h := NewScheduleHandler(&mockScheduleService{}, &mockAssignService{
		err: &service.HeadcountError{Got: 3, Want: 6},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/schedules/auto-assign", jsonBody(dto.AutoAssignRequest{WeekStart: "2024-06-03"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/schedules/auto-assign", injectActor(model.RoleAdmin, "Office"), h.AutoAssign)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 31003 {
		t.Errorf("expected error code 31003, got %d", resp.Code)
	}
}

func TestScheduleHandler_AutoAssign_Success(t *testing.T) {
	h := NewScheduleHandler(&mockScheduleService{}, &mockAssignService{count: 42})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/schedules/auto-assign", jsonBody(dto.AutoAssignRequest{WeekStart: "2024-06-03"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/schedules/auto-assign", injectActor(model.RoleAdmin, "Office"), h.AutoAssign)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestScheduleHandler_ListRange_MissingParams(t *testing.T) {
	h := NewScheduleHandler(&mockScheduleService{}, &mockAssignService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/schedules?start=2024-06-03", nil)

	r := gin.New()
	r.GET("/schedules", h.ListRange)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportWeek_Success(t *testing.T) {
	h := NewExportHandler(&mockExportService{
		buf:      bytes.NewBufferString("xlsx-bytes"),
		filename: "schedule_2024-06-03.xlsx",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/week?start=2024-06-03", nil)

	r := gin.New()
	r.GET("/export/week", h.ExportWeek)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="schedule_2024-06-03.xlsx"` {
		t.Errorf("Content-Disposition 不符: %q", cd)
	}
}

func TestExportHandler_ExportWeek_NoData(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportNoCells})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/week?start=2024-06-03", nil)

	r := gin.New()
	r.GET("/export/week", h.ExportWeek)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 43001 {
		t.Errorf("expected error code 43001, got %d", resp.Code)
	}
}

func TestExportHandler_ExportMonthICS_MissingParams(t *testing.T) {
	h := NewExportHandler(&mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/ics?month=2024-06", nil)

	r := gin.New()
	r.GET("/export/ics", h.ExportMonthICS)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
