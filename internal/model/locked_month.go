package model

// LockedMonth 月度锁定表 — 对应 locked_months
// 月份标记为 "YYYY-MM"；存在即锁定
type LockedMonth struct {
	Month string `gorm:"type:varchar(7);primaryKey" json:"month"`
}

// TableName 指定表名
func (LockedMonth) TableName() string { return "locked_months" }
