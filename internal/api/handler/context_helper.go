package handler

import (
	"github.com/gin-gonic/gin"

	"shiftgrid/backend/internal/service"
	"shiftgrid/backend/pkg/response"
)

// MustGetActor 从 Gin 上下文提取当前用户身份。
// JWT 中间件未正确注入时返回 false 并写入 401 响应，调用方应直接 return。
func MustGetActor(c *gin.Context) (service.Actor, bool) {
	idVal, exists := c.Get("employee_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return service.Actor{}, false
	}
	id, ok := idVal.(int64)
	if !ok || id == 0 {
		response.Unauthorized(c, 10002, "未认证")
		return service.Actor{}, false
	}

	role, _ := c.Get("role")
	dept, _ := c.Get("department")
	roleStr, _ := role.(string)
	deptStr, _ := dept.(string)

	return service.Actor{
		EmployeeID:    id,
		Role:          roleStr,
		Department:    deptStr,
		Authenticated: true,
	}, true
}
