package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shiftgrid/backend/internal/model"
)

// LockedMonthRepository 月度锁定数据访问接口
type LockedMonthRepository interface {
	Exists(ctx context.Context, month string) (bool, error)
	List(ctx context.Context) ([]model.LockedMonth, error)
	Add(ctx context.Context, month string) error
	Remove(ctx context.Context, month string) error
	DeleteAll(ctx context.Context) error
	BulkInsert(ctx context.Context, months []model.LockedMonth) error
}

type lockedMonthRepo struct {
	db *gorm.DB
}

// NewLockedMonthRepo 创建 LockedMonthRepository 实现
func NewLockedMonthRepo(db *gorm.DB) LockedMonthRepository {
	return &lockedMonthRepo{db: db}
}

func (r *lockedMonthRepo) Exists(ctx context.Context, month string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.LockedMonth{}).
		Where("month = ?", month).
		Count(&n).Error
	return n > 0, err
}

func (r *lockedMonthRepo) List(ctx context.Context) ([]model.LockedMonth, error) {
	var months []model.LockedMonth
	err := r.db.WithContext(ctx).Order("month ASC").Find(&months).Error
	return months, err
}

// Add 幂等加锁：已存在时忽略
func (r *lockedMonthRepo) Add(ctx context.Context, month string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.LockedMonth{Month: month}).Error
}

func (r *lockedMonthRepo) Remove(ctx context.Context, month string) error {
	return r.db.WithContext(ctx).
		Where("month = ?", month).
		Delete(&model.LockedMonth{}).Error
}

func (r *lockedMonthRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.LockedMonth{}).Error
}

func (r *lockedMonthRepo) BulkInsert(ctx context.Context, months []model.LockedMonth) error {
	if len(months) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&months).Error
}

// ── Setting Repository ──
// settings 表不参与镜像整表替换，镜像端点变更后即时生效依赖每次实时读取

// SettingRepository 键值配置数据访问接口
type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	List(ctx context.Context) ([]model.Setting, error)
}

type settingRepo struct {
	db *gorm.DB
}

// NewSettingRepo 创建 SettingRepository 实现
func NewSettingRepo(db *gorm.DB) SettingRepository {
	return &settingRepo{db: db}
}

// Get 读取配置值；键不存在时返回 gorm.ErrRecordNotFound
func (r *settingRepo) Get(ctx context.Context, key string) (string, error) {
	var setting model.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// Set 插入或覆盖配置值
func (r *settingRepo) Set(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&model.Setting{Key: key, Value: value}).Error
}

func (r *settingRepo) List(ctx context.Context) ([]model.Setting, error) {
	var settings []model.Setting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error
	return settings, err
}
