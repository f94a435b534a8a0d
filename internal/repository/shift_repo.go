package repository

import (
	"context"

	"gorm.io/gorm"

	"shiftgrid/backend/internal/model"
)

// ShiftRepository 班次模板数据访问接口
type ShiftRepository interface {
	Create(ctx context.Context, shift *model.Shift) error
	GetByID(ctx context.Context, id int64) (*model.Shift, error)
	FindByName(ctx context.Context, name string) (*model.Shift, error)
	List(ctx context.Context) ([]model.Shift, error)
	Update(ctx context.Context, shift *model.Shift) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
	BulkInsert(ctx context.Context, shifts []model.Shift) error
}

type shiftRepo struct {
	db *gorm.DB
}

// NewShiftRepo 创建 ShiftRepository 实现
func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func (r *shiftRepo) Create(ctx context.Context, shift *model.Shift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *shiftRepo) GetByID(ctx context.Context, id int64) (*model.Shift, error) {
	var shift model.Shift
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&shift).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

// FindByName 按名称查找班次（大小写不敏感）
func (r *shiftRepo) FindByName(ctx context.Context, name string) (*model.Shift, error) {
	var shift model.Shift
	if err := r.db.WithContext(ctx).Where("UPPER(name) = UPPER(?)", name).First(&shift).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) List(ctx context.Context) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).Order("id ASC").Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepo) Update(ctx context.Context, shift *model.Shift) error {
	return r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("id = ?", shift.ID).
		Updates(map[string]interface{}{
			"name":       shift.Name,
			"start_time": shift.StartTime,
			"end_time":   shift.EndTime,
			"color":      shift.Color,
			"text_color": shift.TextColor,
		}).Error
}

func (r *shiftRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Shift{}).Error
}

func (r *shiftRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Shift{}).Count(&n).Error
	return n, err
}

func (r *shiftRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Shift{}).Error
}

func (r *shiftRepo) BulkInsert(ctx context.Context, shifts []model.Shift) error {
	if len(shifts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&shifts).Error
}
