package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-api/internal/interface/http/router"
	"github.com/xiebiao/bookstore-api/pkg/logger"
	"github.com/xiebiao/bookstore-api/pkg/metrics"
	"github.com/xiebiao/bookstore-api/pkg/response"
	"github.com/xiebiao/bookstore-api/pkg/tracing"
)

// @title           Bookstore API
// @version         1.0
// @description     The bookstore API description
// @BasePath        /

// main 主程序入口
// 启动顺序:配置 → 日志 → 追踪 → 指标 → 依赖注入(Wire) → HTTP服务
// 收到SIGINT/SIGTERM后优雅关闭:停止接收新请求 → 等待进行中的请求 → 断开存储/MQ → 刷新追踪数据
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	zlog, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	response.SetLogger(zlog)

	zlog.Info("✓ 配置加载成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("mq_enabled", cfg.MQ.Enabled),
		zap.Bool("tracing_enabled", cfg.Tracing.Enabled),
	)

	// 3. 初始化追踪
	shutdownTracer, err := tracing.InitTracer(tracing.Options{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
	})
	if err != nil {
		zlog.Fatal("初始化追踪失败", zap.Error(err))
	}

	// 4. 注册Prometheus指标
	metrics.InitMetrics()

	// 5. 依赖注入
	engine, cleanup, err := InitializeApp(cfg, zlog)
	if err != nil {
		zlog.Fatal("初始化应用失败", zap.Error(err))
	}

	// 6. 启动服务
	srv := router.NewServer(cfg.Server, engine)
	go func() {
		zlog.Info("🚀 服务启动成功",
			zap.String("addr", srv.Addr),
			zap.String("swagger", "/swagger/index.html"),
			zap.String("metrics", "/metrics"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("启动服务失败", zap.Error(err))
		}
	}()

	// 7. 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zlog.Info("收到退出信号,开始优雅关闭", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("HTTP服务关闭超时", zap.Error(err))
	}
	cleanup()
	if err := shutdownTracer(ctx); err != nil {
		zlog.Warn("刷新追踪数据失败", zap.Error(err))
	}

	zlog.Info("服务已退出")
}
