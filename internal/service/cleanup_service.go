package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// MovieCachePurger 按缓存时间删除电影
type MovieCachePurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupService 定期清理过期的电影缓存，收藏不受影响
type CleanupService struct {
	purger    MovieCachePurger
	retention time.Duration
	interval  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCleanupService 创建清理服务
func NewCleanupService(purger MovieCachePurger, retention, interval time.Duration, logger zerolog.Logger) *CleanupService {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &CleanupService{
		purger:    purger,
		retention: retention,
		interval:  interval,
		logger:    logger.With().Str("component", "cleanup_service").Logger(),
		now:       time.Now,
	}
}

// Start 启动时先执行一次，之后按 interval 执行，ctx 结束时退出。retention<=0 时不启动。
func (s *CleanupService) Start(ctx context.Context) {
	if s.retention <= 0 {
		s.logger.Info().Msg("[CleanupService] 未设置保留期，不清理缓存")
		return
	}

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runCleanup(ctx)
		for {
			select {
			case <-ticker.C:
				s.runCleanup(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// RunOnce 删除早于保留期的缓存行
func (s *CleanupService) RunOnce(ctx context.Context) (int64, error) {
	return s.purger.DeleteOlderThan(ctx, s.now().Add(-s.retention))
}

func (s *CleanupService) runCleanup(ctx context.Context) {
	s.logger.Info().Msg("[CleanupService] 开始清理过期缓存...")
	affected, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("[CleanupService] 清理电影缓存失败")
		return
	}
	s.logger.Info().Int64("affected", affected).Msg("[CleanupService] 已清理过期电影缓存")
}
