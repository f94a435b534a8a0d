package model

// ── 请假单状态 ──

const (
	LeaveStatusPending  = "Pending"
	LeaveStatusApproved = "Approved"
	LeaveStatusRejected = "Rejected"
)

// LeaveRequest 请假单表 — 对应 leave_requests
type LeaveRequest struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"  json:"id"`
	EmployeeID int64  `gorm:"not null"                  json:"employee_id"`
	Date       string `gorm:"type:varchar(10);not null" json:"date"` // YYYY-MM-DD
	ShiftID    int64  `gorm:"not null"                  json:"shift_id"`
	Reason     string `gorm:"type:text"                 json:"reason"`
	Status     string `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	CreatedAt  string `gorm:"type:varchar(30)"          json:"created_at"`

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Shift    *Shift    `gorm:"foreignKey:ShiftID"    json:"shift,omitempty"`
}

// TableName 指定表名
func (LeaveRequest) TableName() string { return "leave_requests" }
