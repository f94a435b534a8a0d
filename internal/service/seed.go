package service

import (
	"context"

	"go.uber.org/zap"

	"shiftgrid/backend/internal/model"
	"shiftgrid/backend/internal/repository"
)

// Seed 首次启动时写入默认数据：班次模板、任务标签、管理员账号。
// 各表已有内容时跳过对应部分，重复执行安全。
func Seed(ctx context.Context, repo *repository.Repository, logger *zap.Logger) error {
	shiftCount, err := repo.Shift.Count(ctx)
	if err != nil {
		return err
	}
	if shiftCount == 0 {
		shifts := []model.Shift{
			{Name: "MORNING", StartTime: "08:30", EndTime: "17:30", Color: "#DBEAFE", TextColor: "#1E3A8A"},
			{Name: "AFTERNOON", StartTime: "13:30", EndTime: "21:00", Color: "#FEF3C7", TextColor: "#92400E"},
			{Name: "MID", StartTime: "10:00", EndTime: "19:00", Color: "#D1FAE5", TextColor: "#065F46"},
			{Name: "OFF WEEKLY", StartTime: "00:00", EndTime: "23:59", Color: "#E5E7EB", TextColor: "#374151"},
			{Name: "OFF LEAVE", StartTime: "00:00", EndTime: "23:59", Color: "#FCE7F3", TextColor: "#9D174D"},
			{Name: "OFF UNPAID", StartTime: "00:00", EndTime: "23:59", Color: "#F3E8FF", TextColor: "#6B21A8"},
			{Name: model.OvertimeShiftName, StartTime: "08:30", EndTime: "21:00", Color: "#FEE2E2", TextColor: "#991B1B"},
		}
		if err := repo.Shift.BulkInsert(ctx, shifts); err != nil {
			return err
		}
		logger.Info("已写入默认班次模板", zap.Int("count", len(shifts)))
	}

	taskCount, err := repo.Task.Count(ctx)
	if err != nil {
		return err
	}
	if taskCount == 0 {
		tasks := []model.Task{
			{Department: "Sales", Name: model.TaskFrontDesk, Color: "#DBEAFE", TextColor: "#1E3A8A"},
			{Department: "Sales", Name: model.TaskHotline, Color: "#FEF3C7", TextColor: "#92400E"},
			{Department: "Sales", Name: model.TaskCleaning, Color: "#D1FAE5", TextColor: "#065F46"},
		}
		if err := repo.Task.BulkInsert(ctx, tasks); err != nil {
			return err
		}
		logger.Info("已写入默认任务标签", zap.Int("count", len(tasks)))
	}

	employees, err := repo.Employee.List(ctx)
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		admin := &model.Employee{
			Code:       "admin",
			Name:       "Administrator",
			Department: "Office",
			Role:       model.RoleAdmin,
			Password:   "admin",
		}
		if err := repo.Employee.Create(ctx, admin); err != nil {
			return err
		}
		logger.Warn("已创建默认管理员账号，请尽快修改口令", zap.String("code", admin.Code))
	}

	return nil
}
