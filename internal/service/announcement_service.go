package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftgrid/backend/internal/dto"
	"shiftgrid/backend/internal/model"
	"shiftgrid/backend/internal/notify"
	"shiftgrid/backend/internal/repository"
)

var (
	ErrAnnouncementNotFound = errors.New("公告不存在")
)

// AnnouncementService 公告发布与已读回执
// 定向规则：All 面向全员；Department 面向目标部门；Individual 面向目标工号
type AnnouncementService interface {
	Create(ctx context.Context, req *dto.CreateAnnouncementRequest, actor Actor) (*model.Announcement, error)
	Update(ctx context.Context, id int64, req *dto.UpdateAnnouncementRequest) (*model.Announcement, error)
	// ListForActor 当前用户可见的公告，带该用户的已读标记
	ListForActor(ctx context.Context, actor Actor) ([]dto.AnnouncementResponse, error)
	MarkViewed(ctx context.Context, announcementID int64, actor Actor) error
	// ViewReport 某条公告的已读回执（路由层限管理角色）
	ViewReport(ctx context.Context, announcementID int64) ([]dto.AnnouncementViewEntry, error)
	Delete(ctx context.Context, id int64) error
}

type announcementService struct {
	repo     *repository.Repository
	notifier notify.Notifier
	sync     SyncService
	logger   *zap.Logger
	now      func() time.Time
}

// NewAnnouncementService 创建 AnnouncementService 实例
func NewAnnouncementService(repo *repository.Repository, notifier notify.Notifier, sync SyncService, logger *zap.Logger) AnnouncementService {
	return &announcementService{repo: repo, notifier: notifier, sync: sync, logger: logger, now: time.Now}
}

func (s *announcementService) Create(ctx context.Context, req *dto.CreateAnnouncementRequest, actor Actor) (*model.Announcement, error) {
	ann := &model.Announcement{
		Type:        req.Type,
		TargetType:  req.TargetType,
		TargetValue: req.TargetValue,
		Message:     req.Message,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		CreatedBy:   actor.EmployeeID,
		CreatedAt:   s.now().Format(time.RFC3339),
	}
	if err := s.repo.Announcement.Create(ctx, ann); err != nil {
		s.logger.Error("发布公告失败", zap.Error(err))
		return nil, err
	}
	s.notifier.Publish(ctx, notify.EventAnnouncementsUpdated)
	s.sync.SchedulePush()
	return ann, nil
}

func (s *announcementService) Update(ctx context.Context, id int64, req *dto.UpdateAnnouncementRequest) (*model.Announcement, error) {
	ann, err := s.repo.Announcement.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}

	ann.Type = req.Type
	ann.TargetType = req.TargetType
	ann.TargetValue = req.TargetValue
	ann.Message = req.Message
	ann.StartTime = req.StartTime
	ann.EndTime = req.EndTime
	if err := s.repo.Announcement.Update(ctx, ann); err != nil {
		s.logger.Error("修改公告失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	s.notifier.Publish(ctx, notify.EventAnnouncementsUpdated)
	s.sync.SchedulePush()
	return ann, nil
}

func (s *announcementService) ListForActor(ctx context.Context, actor Actor) ([]dto.AnnouncementResponse, error) {
	anns, err := s.repo.Announcement.List(ctx)
	if err != nil {
		return nil, err
	}

	emp, err := s.repo.Employee.GetByID(ctx, actor.EmployeeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	viewed := make(map[int64]bool)
	views, err := s.repo.AnnouncementView.ListByEmployee(ctx, actor.EmployeeID)
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		viewed[v.AnnouncementID] = true
	}

	now := s.now()
	out := make([]dto.AnnouncementResponse, 0, len(anns))
	for _, a := range anns {
		if !visibleTo(&a, emp) {
			continue
		}
		if !activeAt(&a, now) {
			continue
		}
		resp := dto.AnnouncementResponse{
			ID:          a.ID,
			Type:        a.Type,
			TargetType:  a.TargetType,
			TargetValue: a.TargetValue,
			Message:     a.Message,
			StartTime:   a.StartTime,
			EndTime:     a.EndTime,
			CreatedBy:   a.CreatedBy,
			CreatedAt:   a.CreatedAt,
			Viewed:      viewed[a.ID],
		}
		if a.Creator != nil {
			resp.CreatorName = a.Creator.Name
		}
		out = append(out, resp)
	}
	return out, nil
}

// visibleTo 公告定向匹配；TargetValue 允许逗号分隔多个目标
func visibleTo(a *model.Announcement, emp *model.Employee) bool {
	if a.TargetType == model.AnnouncementTargetAll {
		return true
	}
	if emp == nil {
		return false
	}
	for _, target := range strings.Split(a.TargetValue, ",") {
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		switch a.TargetType {
		case model.AnnouncementTargetDepartment:
			if emp.Department == target {
				return true
			}
		case model.AnnouncementTargetIndividual:
			if emp.Code == target || strconv.FormatInt(emp.ID, 10) == target {
				return true
			}
		}
	}
	return false
}

// activeAt 生效窗口过滤；时间为空或无法解析按不设限处理
func activeAt(a *model.Announcement, now time.Time) bool {
	if t, ok := parseAnnouncementTime(a.StartTime); ok && now.Before(t) {
		return false
	}
	if t, ok := parseAnnouncementTime(a.EndTime); ok && now.After(t) {
		return false
	}
	return true
}

func parseAnnouncementTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (s *announcementService) MarkViewed(ctx context.Context, announcementID int64, actor Actor) error {
	if _, err := s.repo.Announcement.GetByID(ctx, announcementID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}
	view := &model.AnnouncementView{
		AnnouncementID: announcementID,
		EmployeeID:     actor.EmployeeID,
		ViewedAt:       s.now().Format(time.RFC3339),
	}
	if err := s.repo.AnnouncementView.MarkViewed(ctx, view); err != nil {
		s.logger.Error("记录公告已读失败", zap.Error(err))
		return err
	}
	s.sync.SchedulePush()
	return nil
}

func (s *announcementService) ViewReport(ctx context.Context, announcementID int64) ([]dto.AnnouncementViewEntry, error) {
	if _, err := s.repo.Announcement.GetByID(ctx, announcementID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}

	views, err := s.repo.AnnouncementView.ListByAnnouncement(ctx, announcementID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AnnouncementViewEntry, 0, len(views))
	for _, v := range views {
		entry := dto.AnnouncementViewEntry{
			EmployeeID: v.EmployeeID,
			ViewedAt:   v.ViewedAt,
		}
		if emp, err := s.repo.Employee.GetByID(ctx, v.EmployeeID); err == nil {
			entry.EmployeeName = emp.Name
			entry.Department = emp.Department
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *announcementService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Announcement.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}
	if err := s.repo.Announcement.Delete(ctx, id); err != nil {
		s.logger.Error("删除公告失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	s.notifier.Publish(ctx, notify.EventAnnouncementsUpdated)
	s.sync.SchedulePush()
	return nil
}
