package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shiftgrid/backend/internal/dto"
	"shiftgrid/backend/internal/mirror"
	"shiftgrid/backend/internal/service"
	"shiftgrid/backend/pkg/response"
)

// SettingHandler 设置与镜像同步 HTTP 处理器
type SettingHandler struct {
	settingSvc service.SettingService
	syncSvc    service.SyncService
}

// NewSettingHandler 创建 SettingHandler
func NewSettingHandler(settingSvc service.SettingService, syncSvc service.SyncService) *SettingHandler {
	return &SettingHandler{settingSvc: settingSvc, syncSvc: syncSvc}
}

// ListSettings 全部设置项
// GET /api/v1/settings
func (h *SettingHandler) ListSettings(c *gin.Context) {
	settings, err := h.settingSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, settings)
}

// GetSetting 读取单个设置项
// GET /api/v1/settings/:key
func (h *SettingHandler) GetSetting(c *gin.Context) {
	key := c.Param("key")

	value, err := h.settingSvc.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, service.ErrSettingNotFound) {
			response.NotFound(c, 42001, "设置项不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"key": key, "value": value})
}

// SetSetting 写入设置项（管理员）
// PUT /api/v1/settings
func (h *SettingHandler) SetSetting(c *gin.Context) {
	var req dto.SetSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.settingSvc.Set(c.Request.Context(), req.Key, req.Value); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// handleSyncError 同步路径错误映射
func handleSyncError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSyncNotConfigured):
		response.BadRequest(c, 42002, "镜像端点未配置")
	case errors.Is(err, service.ErrSyncInProgress):
		response.BadRequest(c, 42003, "已有同步正在进行")
	case errors.Is(err, service.ErrSyncEmptySnapshot):
		response.BadRequest(c, 42004, "镜像快照不含任何员工，已拒绝应用")
	case errors.Is(err, mirror.ErrNotJSON):
		response.ErrorWithDetails(c, 502, 42005, "镜像端点返回非 JSON 内容", err.Error())
	default:
		response.InternalError(c)
	}
}

// PushNow 立即推送镜像快照（管理员）
// POST /api/v1/sync/push
func (h *SettingHandler) PushNow(c *gin.Context) {
	if err := h.syncSvc.PushNow(c.Request.Context()); err != nil {
		handleSyncError(c, err)
		return
	}
	response.OK(c, nil)
}

// Pull 拉取镜像快照并整库替换（管理员）
// POST /api/v1/sync/pull
func (h *SettingHandler) Pull(c *gin.Context) {
	if err := h.syncSvc.Pull(c.Request.Context()); err != nil {
		handleSyncError(c, err)
		return
	}
	response.OK(c, nil)
}
