package service

import (
	"errors"
	"testing"
	"time"

	"shiftgrid/backend/internal/model"
)

func TestEvaluateWritePolicy(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)
	farFuture := now.Add(72 * time.Hour)
	soon := now.Add(12 * time.Hour)

	admin := Actor{EmployeeID: 1, Role: model.RoleAdmin, Department: "Office", Authenticated: true}
	supervisor := Actor{EmployeeID: 2, Role: model.RoleSupervisor, Department: "Sales", Authenticated: true}
	staff := Actor{EmployeeID: 3, Role: model.RoleStaff, Department: "Sales", Authenticated: true}

	tests := []struct {
		name         string
		input        PolicyInput
		wantReason   error
		wantOverride bool
	}{
		{
			name: "未登录拒绝",
			input: PolicyInput{
				Actor:      Actor{},
				TargetDept: "Sales", ShiftStart: farFuture, Now: now,
			},
			wantReason: ErrPolicyUnauthenticated,
		},
		{
			name: "Staff 拒绝",
			input: PolicyInput{
				Actor:      staff,
				TargetDept: "Sales", ShiftStart: farFuture, Now: now,
			},
			wantReason: ErrPolicyStaffForbidden,
		},
		{
			name: "锁定月份主管拒绝",
			input: PolicyInput{
				Actor:      supervisor,
				TargetDept: "Sales", Month: "2024-06", MonthLocked: true,
				ShiftStart: farFuture, Now: now,
			},
			wantReason: ErrPolicyMonthLocked,
		},
		{
			name: "锁定月份管理员放行并标记越过",
			input: PolicyInput{
				Actor:      admin,
				TargetDept: "Sales", Month: "2024-06", MonthLocked: true,
				ShiftStart: farFuture, Now: now,
			},
			wantReason:   nil,
			wantOverride: true,
		},
		{
			name: "主管跨部门拒绝",
			input: PolicyInput{
				Actor:      supervisor,
				TargetDept: "Warehouse", ShiftStart: farFuture, Now: now,
			},
			wantReason: ErrPolicyCrossDepartment,
		},
		{
			name: "主管本部门放行",
			input: PolicyInput{
				Actor:      supervisor,
				TargetDept: "Sales", ShiftStart: farFuture, Now: now,
			},
			wantReason: nil,
		},
		{
			name: "24小时内主管拒绝",
			input: PolicyInput{
				Actor:      supervisor,
				TargetDept: "Sales", ShiftStart: soon, Now: now,
			},
			wantReason: ErrPolicyTooLate,
		},
		{
			name: "24小时内管理员放行",
			input: PolicyInput{
				Actor:      admin,
				TargetDept: "Sales", ShiftStart: soon, Now: now,
			},
			wantReason: nil,
		},
		{
			name: "过去的班次非管理员拒绝",
			input: PolicyInput{
				Actor:      supervisor,
				TargetDept: "Sales", ShiftStart: now.Add(-24 * time.Hour), Now: now,
			},
			wantReason: ErrPolicyTooLate,
		},
		{
			name: "规则顺序：Staff 先于锁定",
			input: PolicyInput{
				Actor:      staff,
				TargetDept: "Sales", MonthLocked: true,
				ShiftStart: soon, Now: now,
			},
			wantReason: ErrPolicyStaffForbidden,
		},
		{
			name: "未锁定月份管理员不标记越过",
			input: PolicyInput{
				Actor:      admin,
				TargetDept: "Sales", ShiftStart: farFuture, Now: now,
			},
			wantReason:   nil,
			wantOverride: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := EvaluateWritePolicy(tt.input)
			if tt.wantReason == nil {
				if !d.Allowed {
					t.Fatalf("应放行, got 拒绝: %v", d.Reason)
				}
				if d.LockOverride != tt.wantOverride {
					t.Errorf("LockOverride = %v, want %v", d.LockOverride, tt.wantOverride)
				}
				return
			}
			if d.Allowed {
				t.Fatalf("应拒绝 %v, got 放行", tt.wantReason)
			}
			if !errors.Is(d.Reason, tt.wantReason) {
				t.Fatalf("拒绝原因 = %v, want %v", d.Reason, tt.wantReason)
			}
		})
	}
}
