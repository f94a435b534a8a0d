package dto

// CreateShiftRequest 新建班次请求
type CreateShiftRequest struct {
	Name      string `json:"name"       binding:"required,max=50"`
	StartTime string `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   string `json:"end_time"   binding:"required,datetime=15:04"`
	Color     string `json:"color"      binding:"max=20"`
	TextColor string `json:"text_color" binding:"max=20"`
}

// UpdateShiftRequest 更新班次请求
type UpdateShiftRequest struct {
	Name      string `json:"name"       binding:"required,max=50"`
	StartTime string `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   string `json:"end_time"   binding:"required,datetime=15:04"`
	Color     string `json:"color"      binding:"max=20"`
	TextColor string `json:"text_color" binding:"max=20"`
}

// CreateTaskRequest 新建任务标签请求
type CreateTaskRequest struct {
	Department string `json:"department" binding:"required,max=100"`
	Name       string `json:"name"       binding:"required,max=100"`
	Color      string `json:"color"      binding:"max=20"`
	TextColor  string `json:"text_color" binding:"max=20"`
}

// SetSettingRequest 写入一项系统设置
type SetSettingRequest struct {
	Key   string `json:"key"   binding:"required,max=100"`
	Value string `json:"value" binding:"required"`
}
