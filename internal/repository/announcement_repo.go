package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shiftgrid/backend/internal/model"
)

// AnnouncementRepository 公告数据访问接口
type AnnouncementRepository interface {
	Create(ctx context.Context, ann *model.Announcement) error
	GetByID(ctx context.Context, id int64) (*model.Announcement, error)
	List(ctx context.Context) ([]model.Announcement, error)
	Update(ctx context.Context, ann *model.Announcement) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	BulkInsert(ctx context.Context, anns []model.Announcement) error
}

type announcementRepo struct {
	db *gorm.DB
}

// NewAnnouncementRepo 创建 AnnouncementRepository 实现
func NewAnnouncementRepo(db *gorm.DB) AnnouncementRepository {
	return &announcementRepo{db: db}
}

func (r *announcementRepo) Create(ctx context.Context, ann *model.Announcement) error {
	return r.db.WithContext(ctx).Create(ann).Error
}

func (r *announcementRepo) GetByID(ctx context.Context, id int64) (*model.Announcement, error) {
	var ann model.Announcement
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("id = ?", id).
		First(&ann).Error
	if err != nil {
		return nil, err
	}
	return &ann, nil
}

func (r *announcementRepo) List(ctx context.Context) ([]model.Announcement, error) {
	var anns []model.Announcement
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Order("created_at DESC").
		Find(&anns).Error
	return anns, err
}

func (r *announcementRepo) Update(ctx context.Context, ann *model.Announcement) error {
	return r.db.WithContext(ctx).
		Model(&model.Announcement{}).
		Where("id = ?", ann.ID).
		Updates(map[string]interface{}{
			"type":         ann.Type,
			"target_type":  ann.TargetType,
			"target_value": ann.TargetValue,
			"message":      ann.Message,
			"start_time":   ann.StartTime,
			"end_time":     ann.EndTime,
		}).Error
}

func (r *announcementRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Announcement{}).Error
}

func (r *announcementRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Announcement{}).Error
}

func (r *announcementRepo) BulkInsert(ctx context.Context, anns []model.Announcement) error {
	if len(anns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&anns).Error
}

// ── AnnouncementView Repository ──

// AnnouncementViewRepository 公告确认数据访问接口
type AnnouncementViewRepository interface {
	MarkViewed(ctx context.Context, view *model.AnnouncementView) error
	ListByAnnouncement(ctx context.Context, announcementID int64) ([]model.AnnouncementView, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]model.AnnouncementView, error)
	List(ctx context.Context) ([]model.AnnouncementView, error)
	DeleteAll(ctx context.Context) error
	BulkInsert(ctx context.Context, views []model.AnnouncementView) error
}

type announcementViewRepo struct {
	db *gorm.DB
}

// NewAnnouncementViewRepo 创建 AnnouncementViewRepository 实现
func NewAnnouncementViewRepo(db *gorm.DB) AnnouncementViewRepository {
	return &announcementViewRepo{db: db}
}

// MarkViewed 幂等确认：重复确认忽略，保留首次时间
func (r *announcementViewRepo) MarkViewed(ctx context.Context, view *model.AnnouncementView) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(view).Error
}

func (r *announcementViewRepo) ListByAnnouncement(ctx context.Context, announcementID int64) ([]model.AnnouncementView, error) {
	var views []model.AnnouncementView
	err := r.db.WithContext(ctx).
		Where("announcement_id = ?", announcementID).
		Find(&views).Error
	return views, err
}

func (r *announcementViewRepo) ListByEmployee(ctx context.Context, employeeID int64) ([]model.AnnouncementView, error) {
	var views []model.AnnouncementView
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Find(&views).Error
	return views, err
}

func (r *announcementViewRepo) List(ctx context.Context) ([]model.AnnouncementView, error) {
	var views []model.AnnouncementView
	err := r.db.WithContext(ctx).Find(&views).Error
	return views, err
}

func (r *announcementViewRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.AnnouncementView{}).Error
}

func (r *announcementViewRepo) BulkInsert(ctx context.Context, views []model.AnnouncementView) error {
	if len(views) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&views).Error
}
