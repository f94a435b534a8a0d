package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"shiftgrid/backend/config"
	"shiftgrid/backend/internal/dto"
	"shiftgrid/backend/internal/model"
	"shiftgrid/backend/pkg/jwt"
)

func newTestAuthService(env *testEnv) AuthService {
	mgr := jwt.NewManager(&config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTL: time.Hour})
	return NewAuthService(env.repo, mgr, zap.NewNop())
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	if err := env.employees.Create(ctx, &model.Employee{
		Code: "E1", Name: "员工一", Department: "Sales", Role: model.RoleSupervisor, Password: "secret",
	}); err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}
	svc := newTestAuthService(env)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Code: "E1", Password: "secret"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if resp.Token == "" {
		t.Error("登录响应应携带令牌")
	}
	if resp.Name != "员工一" || resp.Department != "Sales" || resp.Role != model.RoleSupervisor {
		t.Errorf("登录响应字段不符: %+v", resp)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	if err := env.employees.Create(ctx, &model.Employee{
		Code: "E1", Name: "员工一", Department: "Sales", Role: model.RoleStaff, Password: "secret",
	}); err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}
	svc := newTestAuthService(env)

	if _, err := svc.Login(ctx, &dto.LoginRequest{Code: "E1", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("口令错误应报 ErrInvalidCredentials, got %v", err)
	}
	// 工号不存在与口令错误返回同一错误，不泄露账号存在性
	if _, err := svc.Login(ctx, &dto.LoginRequest{Code: "NOPE", Password: "secret"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("工号不存在应报 ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginWithoutPassword(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	if err := env.employees.Create(ctx, &model.Employee{
		Code: "E1", Name: "员工一", Department: "Sales", Role: model.RoleStaff,
	}); err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}
	svc := newTestAuthService(env)

	if _, err := svc.Login(ctx, &dto.LoginRequest{Code: "E1", Password: "anything"}); !errors.Is(err, ErrLoginNotAllowed) {
		t.Errorf("未设置口令的账号应报 ErrLoginNotAllowed, got %v", err)
	}
}
