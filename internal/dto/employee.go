package dto

// ── 员工模块 DTO ──

// CreateEmployeeRequest 新建员工请求
type CreateEmployeeRequest struct {
	Code       string `json:"code"       binding:"required,max=50"`
	Name       string `json:"name"       binding:"required,max=100"`
	Department string `json:"department" binding:"required,max=100"`
	Role       string `json:"role"       binding:"required,oneof=Admin Supervisor Staff"`
	Phone      string `json:"phone"      binding:"max=20"`
}

// UpdateEmployeeRequest 更新员工请求
type UpdateEmployeeRequest struct {
	Code       string `json:"code"       binding:"required,max=50"`
	Name       string `json:"name"       binding:"required,max=100"`
	Department string `json:"department" binding:"required,max=100"`
	Role       string `json:"role"       binding:"required,oneof=Admin Supervisor Staff"`
	Phone      string `json:"phone"      binding:"max=20"`
}

// ChangePasswordRequest 修改登录口令请求
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=4,max=100"`
}

// ── 认证模块 DTO ──

// LoginRequest 登录请求：工号 + 口令
type LoginRequest struct {
	Code     string `json:"code"     binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token      string `json:"token"`
	EmployeeID int64  `json:"employee_id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Role       string `json:"role"`
}
