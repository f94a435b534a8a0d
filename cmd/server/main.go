package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"shiftgrid/backend/config"
	"shiftgrid/backend/internal/api/handler"
	"shiftgrid/backend/internal/api/router"
	"shiftgrid/backend/internal/notify"
	"shiftgrid/backend/internal/repository"
	"shiftgrid/backend/internal/service"
	"shiftgrid/backend/pkg/database"
	"shiftgrid/backend/pkg/jwt"
	applogger "shiftgrid/backend/pkg/logger"
	"shiftgrid/backend/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，变更通知不可用）
	var notifier notify.Notifier
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，变更通知将不可用", zap.Error(err))
		rdb = nil
		notifier = notify.NewNopNotifier()
	} else {
		notifier = notify.NewRedisNotifier(rdb, logger)
	}

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)

	// 6.1 首次启动写入默认班次/任务/管理员
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := service.Seed(seedCtx, repo, logger); err != nil {
		seedCancel()
		logger.Fatal("初始化默认数据失败", zap.Error(err))
	}
	seedCancel()

	svc := service.NewService(cfg, repo, jwtMgr, notifier, logger)
	h := handler.NewHandler(svc)

	// 6.2 启动前先从镜像拉取一次，拉不到就以本地数据为准
	pullCtx, pullCancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := svc.Sync.Pull(pullCtx); err != nil {
		if errors.Is(err, service.ErrSyncNotConfigured) {
			logger.Info("镜像端点未配置，跳过启动拉取")
		} else {
			logger.Warn("启动拉取镜像失败，以本地数据启动", zap.Error(err))
		}
	}
	pullCancel()

	// 7. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 取消尚未执行的镜像推送排定
	svc.Sync.Stop()

	// 关闭数据库连接
	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
