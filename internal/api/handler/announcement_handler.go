package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"shiftgrid/backend/internal/dto"
	"shiftgrid/backend/internal/model"
	"shiftgrid/backend/internal/service"
	"shiftgrid/backend/pkg/response"
)

// AnnouncementHandler 公告与请假 HTTP 处理器
type AnnouncementHandler struct {
	announcementSvc service.AnnouncementService
	leaveSvc        service.LeaveService
}

// NewAnnouncementHandler 创建 AnnouncementHandler
func NewAnnouncementHandler(announcementSvc service.AnnouncementService, leaveSvc service.LeaveService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementSvc: announcementSvc, leaveSvc: leaveSvc}
}

// ListAnnouncements 当前用户可见的公告
// GET /api/v1/announcements
func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	anns, err := h.announcementSvc.ListForActor(c.Request.Context(), actor)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, anns)
}

// CreateAnnouncement 发布公告（管理员/主管）
// POST /api/v1/announcements
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	ann, err := h.announcementSvc.Create(c.Request.Context(), &req, actor)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, ann)
}

// UpdateAnnouncement 修改公告（管理员/主管）
// PUT /api/v1/announcements/:id
func (h *AnnouncementHandler) UpdateAnnouncement(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	var req dto.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	ann, err := h.announcementSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			response.NotFound(c, 41001, "公告不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, ann)
}

// MarkViewed 标记公告已读
// POST /api/v1/announcements/:id/view
func (h *AnnouncementHandler) MarkViewed(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.announcementSvc.MarkViewed(c.Request.Context(), id, actor); err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			response.NotFound(c, 41001, "公告不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// ViewReport 公告已读回执（管理员/主管）
// GET /api/v1/announcements/:id/views
func (h *AnnouncementHandler) ViewReport(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entries, err := h.announcementSvc.ViewReport(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			response.NotFound(c, 41001, "公告不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, entries)
}

// DeleteAnnouncement 删除公告（管理员）
// DELETE /api/v1/announcements/:id
func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.announcementSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			response.NotFound(c, 41001, "公告不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// ── 请假 ──

// ListLeaves 请假单列表：管理角色看全部，普通员工看自己的
// GET /api/v1/leave-requests
func (h *AnnouncementHandler) ListLeaves(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var (
		leaves []dto.LeaveRequestResponse
		err    error
	)
	if actor.Role == model.RoleStaff {
		leaves, err = h.leaveSvc.ListByEmployee(c.Request.Context(), actor.EmployeeID)
	} else {
		leaves, err = h.leaveSvc.List(c.Request.Context())
	}
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, leaves)
}

// CreateLeave 提交请假申请
// POST /api/v1/leave-requests
func (h *AnnouncementHandler) CreateLeave(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	leave, err := h.leaveSvc.Create(c.Request.Context(), &req, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLeaveShiftMissing):
			response.BadRequest(c, 41002, "申请的班次不存在")
		case errors.Is(err, service.ErrLeaveShiftNotOff):
			response.BadRequest(c, 41003, "请假只能申请休息类班次")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, leave)
}

// ResolveLeave 审批请假（管理员/主管）
// PUT /api/v1/leave-requests/:id
func (h *AnnouncementHandler) ResolveLeave(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	var req dto.UpdateLeaveStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.leaveSvc.Resolve(c.Request.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrLeaveNotFound):
			response.NotFound(c, 41004, "请假单不存在")
		case errors.Is(err, service.ErrLeaveNotPending):
			response.BadRequest(c, 41005, "请假单已审批，不可重复处理")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}
