package notify

import (
	"context"

	"go.uber.org/zap"

	"shiftgrid/backend/pkg/redis"
)

// ── 变更通知事件 ──
// 展示层订阅这些频道以刷新对应视图

const (
	EventSchedulesUpdated     = "schedules:updated"
	EventEmployeesUpdated     = "employees:updated"
	EventTasksUpdated         = "tasks:updated"
	EventSettingsUpdated      = "settings:updated"
	EventAnnouncementsUpdated = "announcements:updated"
	EventLeaveRequestsUpdated = "leave_requests:updated"
)

// Notifier 变更通知发布接口（仅发布，订阅方在核心之外）
type Notifier interface {
	Publish(ctx context.Context, event string)
}

// redisNotifier 基于 Redis pub/sub 的实现
// 发布失败只记日志，绝不影响触发它的业务写入
type redisNotifier struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisNotifier 创建 Redis 通知器
func NewRedisNotifier(client *redis.Client, logger *zap.Logger) Notifier {
	return &redisNotifier{client: client, logger: logger}
}

func (n *redisNotifier) Publish(ctx context.Context, event string) {
	if err := n.client.Publish(ctx, event, "1"); err != nil {
		n.logger.Warn("变更通知发布失败", zap.String("event", event), zap.Error(err))
	}
}

// nopNotifier Redis 不可用时的降级实现
type nopNotifier struct{}

// NewNopNotifier 创建空通知器
func NewNopNotifier() Notifier { return nopNotifier{} }

func (nopNotifier) Publish(context.Context, string) {}
