package dto

// CreateAnnouncementRequest 发布公告请求
type CreateAnnouncementRequest struct {
	Type        string `json:"type"         binding:"required,max=50"`
	TargetType  string `json:"target_type"  binding:"required,oneof=All Department Individual"`
	TargetValue string `json:"target_value" binding:"max=100"`
	Message     string `json:"message"      binding:"required"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// UpdateAnnouncementRequest 修改公告请求
type UpdateAnnouncementRequest struct {
	Type        string `json:"type"         binding:"required,max=50"`
	TargetType  string `json:"target_type"  binding:"required,oneof=All Department Individual"`
	TargetValue string `json:"target_value" binding:"max=100"`
	Message     string `json:"message"      binding:"required"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// AnnouncementResponse 公告视图：带创建人姓名及当前用户的已读状态
type AnnouncementResponse struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	TargetType  string `json:"target_type"`
	TargetValue string `json:"target_value"`
	Message     string `json:"message"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	CreatedBy   int64  `json:"created_by"`
	CreatorName string `json:"creator_name"`
	CreatedAt   string `json:"created_at"`
	Viewed      bool   `json:"viewed"`
}

// AnnouncementViewEntry 已读回执报表中的一行
type AnnouncementViewEntry struct {
	EmployeeID   int64  `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department"`
	ViewedAt     string `json:"viewed_at"`
}

// CreateLeaveRequest 提交请假申请
type CreateLeaveRequest struct {
	Date    string `json:"date"     binding:"required,datetime=2006-01-02"`
	ShiftID int64  `json:"shift_id" binding:"required"`
	Reason  string `json:"reason"   binding:"max=500"`
}

// UpdateLeaveStatusRequest 审批请假申请
type UpdateLeaveStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Approved Rejected"`
}

// LeaveRequestResponse 请假申请视图
type LeaveRequestResponse struct {
	ID           int64  `json:"id"`
	EmployeeID   int64  `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department"`
	Date         string `json:"date"`
	ShiftID      int64  `json:"shift_id"`
	ShiftName    string `json:"shift_name"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}
