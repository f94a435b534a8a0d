package model

// ── 公告目标类型 ──

const (
	AnnouncementTargetAll        = "All"
	AnnouncementTargetDepartment = "Department"
	AnnouncementTargetIndividual = "Individual"
)

// Announcement 公告表 — 对应 announcements
// 时间字段为 ISO8601 字符串，与镜像列原样往返
type Announcement struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"   json:"id"`
	Type        string `gorm:"type:varchar(50)"           json:"type"`
	TargetType  string `gorm:"type:varchar(20);not null"  json:"target_type"`  // All | Department | Individual
	TargetValue string `gorm:"type:text"                  json:"target_value"` // 逗号分隔的部门名或员工 ID
	Message     string `gorm:"type:text;not null"         json:"message"`
	StartTime   string `gorm:"type:varchar(30)"           json:"start_time"`
	EndTime     string `gorm:"type:varchar(30)"           json:"end_time"`
	CreatedBy   int64  `gorm:"not null"                   json:"created_by"`
	CreatedAt   string `gorm:"type:varchar(30)"           json:"created_at"`

	// 关联
	Creator *Employee `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

// TableName 指定表名
func (Announcement) TableName() string { return "announcements" }

// AnnouncementView 公告确认表 — 对应 announcement_views
type AnnouncementView struct {
	AnnouncementID int64  `gorm:"primaryKey" json:"announcement_id"`
	EmployeeID     int64  `gorm:"primaryKey" json:"employee_id"`
	ViewedAt       string `gorm:"type:varchar(30)" json:"viewed_at"`
}

// TableName 指定表名
func (AnnouncementView) TableName() string { return "announcement_views" }
