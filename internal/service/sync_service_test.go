package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"shiftgrid/backend/internal/mirror"
	"shiftgrid/backend/internal/model"
	"shiftgrid/backend/internal/notify"
)

func newTestSyncService(env *testEnv) SyncService {
	client := mirror.NewClient(zap.NewNop())
	// 去抖窗口拉长，测试内定时器不会自行触发
	return NewSyncService(env.repo, client, notify.NewNopNotifier(), time.Hour, zap.NewNop())
}

func setEndpoint(t *testing.T, env *testEnv, url string) {
	t.Helper()
	if err := env.settings.Set(context.Background(), model.SettingKeySheetsURL, url); err != nil {
		t.Fatalf("写入镜像端点失败: %v", err)
	}
}

func TestSyncNotConfigured(t *testing.T) {
	env := newTestEnv()
	svc := newTestSyncService(env)
	defer svc.Stop()
	ctx := context.Background()

	if err := svc.PushNow(ctx); !errors.Is(err, ErrSyncNotConfigured) {
		t.Errorf("未配置端点推送应被拒, got %v", err)
	}
	if err := svc.Pull(ctx); !errors.Is(err, ErrSyncNotConfigured) {
		t.Errorf("未配置端点拉取应被拒, got %v", err)
	}

	// 空字符串同样视为未配置
	setEndpoint(t, env, "")
	if err := svc.PushNow(ctx); !errors.Is(err, ErrSyncNotConfigured) {
		t.Errorf("空端点推送应被拒, got %v", err)
	}
}

func TestPushNowSendsFullSnapshot(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	if err := env.employees.Create(ctx, &model.Employee{Code: "E1", Name: "员工一", Department: "Sales", Role: model.RoleStaff}); err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}
	if err := env.shifts.Create(ctx, &model.Shift{Name: "MORNING", StartTime: "08:30", EndTime: "17:30"}); err != nil {
		t.Fatalf("创建班次失败: %v", err)
	}

	var gotMethod, gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	setEndpoint(t, env, server.URL)
	svc := newTestSyncService(env)
	defer svc.Stop()

	if err := svc.PushNow(ctx); err != nil {
		t.Fatalf("推送失败: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("推送方法应为 POST, got %s", gotMethod)
	}
	if gotContentType != "text/plain" {
		t.Errorf("Content-Type 应为 text/plain, got %s", gotContentType)
	}

	var envelope struct {
		Action string          `json:"action"`
		Data   mirror.Snapshot `json:"data"`
	}
	if err := json.Unmarshal(gotBody, &envelope); err != nil {
		t.Fatalf("推送信封解析失败: %v", err)
	}
	if envelope.Action != "sync_all" {
		t.Errorf("信封 action 应为 sync_all, got %q", envelope.Action)
	}
	if len(envelope.Data.Employees) != 1 || len(envelope.Data.Shifts) != 1 {
		t.Errorf("快照内容不符: employees=%d shifts=%d",
			len(envelope.Data.Employees), len(envelope.Data.Shifts))
	}
}

func TestPushNowMirrorRejects(t *testing.T) {
	env := newTestEnv()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success":false,"error":"sheet busy"}`))
	}))
	defer server.Close()

	setEndpoint(t, env, server.URL)
	svc := newTestSyncService(env)
	defer svc.Stop()

	if err := svc.PushNow(context.Background()); err == nil {
		t.Fatal("镜像端拒绝时推送应报错")
	}
}

func TestPushNowNotJSON(t *testing.T) {
	env := newTestEnv()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html><body>Sign in</body></html>"))
	}))
	defer server.Close()

	setEndpoint(t, env, server.URL)
	svc := newTestSyncService(env)
	defer svc.Stop()

	if err := svc.PushNow(context.Background()); !errors.Is(err, mirror.ErrNotJSON) {
		t.Errorf("HTML 响应应报 ErrNotJSON, got %v", err)
	}
}

func TestPullRejectsEmptySnapshot(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	if err := env.employees.Create(ctx, &model.Employee{Code: "LOCAL", Name: "本地员工", Department: "Sales", Role: model.RoleStaff}); err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"employees":[],"shifts":[],"schedules":[]}`))
	}))
	defer server.Close()

	setEndpoint(t, env, server.URL)
	svc := newTestSyncService(env)
	defer svc.Stop()

	if err := svc.Pull(ctx); !errors.Is(err, ErrSyncEmptySnapshot) {
		t.Fatalf("空快照应被拒, got %v", err)
	}

	// 本地数据保持不动
	locals, _ := env.employees.List(ctx)
	if len(locals) != 1 || locals[0].Code != "LOCAL" {
		t.Errorf("拒绝空快照后本地数据不应变化: %+v", locals)
	}
}

func TestPullReplacesLocalState(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	// 本地旧数据：将被镜像整体覆盖
	if err := env.employees.Create(ctx, &model.Employee{Code: "OLD", Name: "旧员工", Department: "Sales", Role: model.RoleStaff}); err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}
	if err := env.months.Add(ctx, "2024-01"); err != nil {
		t.Fatalf("锁定月份失败: %v", err)
	}

	// 镜像侧数据：数值列故意用字符串，角色用非规范拼写
	body := `{
		"employees": [
			{"id": "7", "code": "M1", "name": "镜像员工", "department": "Sales", "role": "administrator", "phone": "", "password": "pw"}
		],
		"shifts": [
			{"id": 3, "name": "MORNING", "start_time": "08:30", "end_time": "17:30"}
		],
		"schedules": [
			{"id": 11, "date": "2024-06-03", "employee_id": "7", "shift_id": 3, "task": "None", "status": "Published", "note": ""}
		],
		"lockedMonths": [{"month": "2024-06"}, {"month": ""}],
		"tasks": [{"id": 1, "department": "All", "name": "Hotline"}]
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	setEndpoint(t, env, server.URL)
	svc := newTestSyncService(env)
	defer svc.Stop()

	if err := svc.Pull(ctx); err != nil {
		t.Fatalf("拉取失败: %v", err)
	}

	employees, _ := env.employees.List(ctx)
	if len(employees) != 1 || employees[0].Code != "M1" {
		t.Fatalf("员工表应被镜像替换: %+v", employees)
	}
	if employees[0].ID != 7 {
		t.Errorf("字符串数值列应被归一, got id=%d", employees[0].ID)
	}
	if employees[0].Role != model.RoleAdmin {
		t.Errorf("角色应在导入边界归一为 Admin, got %q", employees[0].Role)
	}

	schedules, _ := env.schedules.List(ctx)
	if len(schedules) != 1 || schedules[0].EmployeeID != 7 || schedules[0].ShiftID != 3 {
		t.Errorf("排班表应被镜像替换: %+v", schedules)
	}

	months, _ := env.months.List(ctx)
	if len(months) != 1 || months[0].Month != "2024-06" {
		t.Errorf("锁定月份应被替换且跳过空值: %+v", months)
	}

	// 设置表不参与替换，端点地址保留
	url, err := env.settings.Get(ctx, model.SettingKeySheetsURL)
	if err != nil || url != server.URL {
		t.Errorf("设置表不应被拉取覆盖: %q, %v", url, err)
	}
}
