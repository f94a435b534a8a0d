package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"shiftgrid/backend/internal/dto"
	"shiftgrid/backend/internal/service"
	"shiftgrid/backend/pkg/response"
)

// ShiftHandler 班次与任务标签 HTTP 处理器
type ShiftHandler struct {
	shiftSvc service.ShiftService
	taskSvc  service.TaskService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService, taskSvc service.TaskService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc, taskSvc: taskSvc}
}

// ListShifts 班次列表
// GET /api/v1/shifts
func (h *ShiftHandler) ListShifts(c *gin.Context) {
	shifts, err := h.shiftSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, shifts)
}

// CreateShift 新建班次（管理员）
// POST /api/v1/shifts
func (h *ShiftHandler) CreateShift(c *gin.Context) {
	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	shift, err := h.shiftSvc.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrShiftNameExists) {
			response.BadRequest(c, 40002, "班次名称已存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, shift)
}

// UpdateShift 更新班次（管理员）
// PUT /api/v1/shifts/:id
func (h *ShiftHandler) UpdateShift(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	var req dto.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	shift, err := h.shiftSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrShiftNotFound) {
			response.NotFound(c, 40001, "班次不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, shift)
}

// DeleteShift 删除班次（管理员）
// DELETE /api/v1/shifts/:id
func (h *ShiftHandler) DeleteShift(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.shiftSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrShiftNotFound) {
			response.NotFound(c, 40001, "班次不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// ListTasks 任务标签列表；?department= 按部门过滤（含全局标签）
// GET /api/v1/tasks
func (h *ShiftHandler) ListTasks(c *gin.Context) {
	dept := c.Query("department")

	var (
		tasks interface{}
		err   error
	)
	if dept != "" {
		tasks, err = h.taskSvc.ListForDepartment(c.Request.Context(), dept)
	} else {
		tasks, err = h.taskSvc.List(c.Request.Context())
	}
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, tasks)
}

// CreateTask 新建任务标签（管理员/主管）
// POST /api/v1/tasks
func (h *ShiftHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	task, err := h.taskSvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, task)
}

// DeleteTask 删除任务标签（管理员/主管）
// DELETE /api/v1/tasks/:id
func (h *ShiftHandler) DeleteTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.taskSvc.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			response.NotFound(c, 40003, "任务标签不存在")
		case errors.Is(err, service.ErrTaskSystemOwned):
			response.Forbidden(c, 40004, "全局任务标签不可删除")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}
