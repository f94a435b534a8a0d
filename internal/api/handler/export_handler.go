package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shiftgrid/backend/internal/service"
	"shiftgrid/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportWeek 导出周排班表 Excel
// GET /api/v1/export/week?start=2024-06-03
func (h *ExportHandler) ExportWeek(c *gin.Context) {
	start := c.Query("start")
	if start == "" {
		response.BadRequest(c, 10001, "start 参数必填")
		return
	}

	buf, filename, err := h.exportSvc.ExportWeekXLSX(c.Request.Context(), start)
	if err != nil {
		if errors.Is(err, service.ErrExportNoCells) {
			response.NotFound(c, 43001, "该区间暂无排班数据")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// ExportMonthICS 导出个人月排班日历
// GET /api/v1/export/ics?employee_id=1&month=2024-06
func (h *ExportHandler) ExportMonthICS(c *gin.Context) {
	month := c.Query("month")
	employeeID, err := strconv.ParseInt(c.Query("employee_id"), 10, 64)
	if month == "" || err != nil {
		response.BadRequest(c, 10001, "employee_id/month 参数必填")
		return
	}

	ics, filename, err := h.exportSvc.ExportMonthICS(c.Request.Context(), employeeID, month)
	if err != nil {
		if errors.Is(err, service.ErrExportNoCells) {
			response.NotFound(c, 43001, "该区间暂无排班数据")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}
