package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/user/movieexplorer/internal/app"
	"github.com/user/movieexplorer/internal/config"
	"github.com/user/movieexplorer/internal/middleware"
	"github.com/user/movieexplorer/internal/router"
)

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg != nil && cfg.Env.IsDebug() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	logger := newLogger(cfg)
	if envErr != nil {
		logger.Info().Msg("未找到 .env 文件，使用系统环境变量")
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("配置错误")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化失败")
	}
	defer a.Close()

	// 初始化 Gin
	if !cfg.Env.IsDebug() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 中间件
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	// 启动定时清理任务
	a.Cleanup.Start(ctx)

	// 注册路由
	router.RegisterRoutes(r, a.Handler)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   cfg.HTTPTimeout() + 10*time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		logger.Info().Str("env", string(cfg.Env)).Msgf("服务器启动于 http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("服务器启动失败")
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	<-ctx.Done()
	logger.Info().Msg("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("服务器强制关闭")
	}

	logger.Info().Msg("服务器已退出")
}
