package model

// SettingKeySheetsURL 外部镜像端点地址；每次同步前实时读取，修改后无需重启
const SettingKeySheetsURL = "SHEETS_URL"

// Setting 键值配置表 — 对应 settings
type Setting struct {
	Key   string `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value string `gorm:"type:text"                    json:"value"`
}

// TableName 指定表名
func (Setting) TableName() string { return "settings" }
