package dto

// ── 排班模块 DTO ──

// UpsertScheduleRequest 写入单个排班格：同 (日期, 员工) 已有记录则覆盖
type UpsertScheduleRequest struct {
	Date       string `json:"date"        binding:"required,datetime=2006-01-02"`
	EmployeeID int64  `json:"employee_id" binding:"required"`
	ShiftID    int64  `json:"shift_id"    binding:"required"`
	Task       string `json:"task"`
	Status     string `json:"status"`
	Note       string `json:"note"`
}

// BulkUpsertScheduleRequest 批量写入排班格
type BulkUpsertScheduleRequest struct {
	Cells []UpsertScheduleRequest `json:"cells" binding:"required,min=1,dive"`
}

// CopyWeekRequest 把一整周的排班复制到另一周（以各自周一为锚点）
type CopyWeekRequest struct {
	FromStart string `json:"from_start" binding:"required,datetime=2006-01-02"`
	ToStart   string `json:"to_start"   binding:"required,datetime=2006-01-02"`
}

// AutoAssignRequest 自动排班一周
type AutoAssignRequest struct {
	WeekStart string `json:"week_start" binding:"required,datetime=2006-01-02"`
}

// ScheduleCellResponse 排班格视图：已联表出员工与班次信息
type ScheduleCellResponse struct {
	ID           int64  `json:"id"`
	Date         string `json:"date"`
	EmployeeID   int64  `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department"`
	ShiftID      int64  `json:"shift_id"`
	ShiftName    string `json:"shift_name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Color        string `json:"color"`
	TextColor    string `json:"text_color"`
	Task         string `json:"task"`
	Status       string `json:"status"`
	Note         string `json:"note"`
}

// LockMonthRequest 锁定或解锁某个月份，格式 YYYY-MM
type LockMonthRequest struct {
	Month  string `json:"month" binding:"required,len=7"`
	Locked bool   `json:"locked"`
}
