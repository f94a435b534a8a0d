package repository

import (
	"context"

	"gorm.io/gorm"

	"shiftgrid/backend/internal/model"
)

// LeaveRequestRepository 请假单数据访问接口
type LeaveRequestRepository interface {
	Create(ctx context.Context, req *model.LeaveRequest) error
	GetByID(ctx context.Context, id int64) (*model.LeaveRequest, error)
	List(ctx context.Context) ([]model.LeaveRequest, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	DeleteAll(ctx context.Context) error
	BulkInsert(ctx context.Context, reqs []model.LeaveRequest) error
}

type leaveRequestRepo struct {
	db *gorm.DB
}

// NewLeaveRequestRepo 创建 LeaveRequestRepository 实现
func NewLeaveRequestRepo(db *gorm.DB) LeaveRequestRepository {
	return &leaveRequestRepo{db: db}
}

func (r *leaveRequestRepo) Create(ctx context.Context, req *model.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *leaveRequestRepo) GetByID(ctx context.Context, id int64) (*model.LeaveRequest, error) {
	var req model.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Shift").
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *leaveRequestRepo) List(ctx context.Context) ([]model.LeaveRequest, error) {
	var reqs []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Shift").
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *leaveRequestRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.LeaveRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *leaveRequestRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.LeaveRequest{}).Error
}

func (r *leaveRequestRepo) BulkInsert(ctx context.Context, reqs []model.LeaveRequest) error {
	if len(reqs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&reqs).Error
}
