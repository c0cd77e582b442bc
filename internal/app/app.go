package app

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/user/movieexplorer/internal/config"
	"github.com/user/movieexplorer/internal/handler"
	"github.com/user/movieexplorer/internal/network"
	"github.com/user/movieexplorer/internal/repository"
	"github.com/user/movieexplorer/internal/service"
	"github.com/user/movieexplorer/internal/storage"
	"github.com/user/movieexplorer/internal/utils"
)

// tokenFallbackTTL 非 JWT 的 API key 在缓存里保留的时间
const tokenFallbackTTL = time.Hour

// App 依赖图，main 创建一次
type App struct {
	Config  *config.Config
	DB      *storage.DB
	Client  *network.Client
	Repos   *repository.Repositories
	Handler *handler.Handler
	Cleanup *service.CleanupService

	feed *service.FavouritesFeed
}

// NewClient 按配置组装网络客户端
func NewClient(cfg *config.Config, logger zerolog.Logger) (*network.Client, error) {
	base, err := url.Parse(cfg.FullBaseURL())
	if err != nil {
		return nil, &network.URLError{URL: cfg.FullBaseURL(), Err: err}
	}

	level := network.LogError
	if cfg.Env.IsDebug() {
		level = network.LogVerbose
	}
	tokens := network.NewCachedTokenProvider(network.StaticToken(cfg.APIKey), tokenFallbackTTL)

	return network.NewClient(network.Configuration{
		BaseURL:   base,
		Transport: utils.NewHTTPClient(cfg.HTTPTimeout(), utils.DefaultUserAgent),
		Adapters: []network.Adapter{
			network.NewRateLimitAdapter(cfg.RateLimitRPS, cfg.RateLimitBurst),
			network.RequestIDAdapter{},
			network.NewAuthenticationAdapter(tokens.Token),
		},
		Interceptors: []network.Interceptor{network.NewLoggingInterceptor(level, logger)},
		Retrier: network.NewRetryPolicy(
			network.WithMaxRetryCount(cfg.RetryMax),
			network.WithRetryDelay(cfg.RetryDelay()),
		),
		Validator: network.DefaultValidator(),
		DefaultHeaders: network.Headers{
			"Accept":       "application/json",
			"Content-Type": "application/json",
		},
	})
}

// New 连接数据库、执行迁移并组装仓库、服务和 HTTP 处理器
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	client, err := NewClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("network client: %w", err)
	}

	db, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return Assemble(cfg, db, client, logger), nil
}

// Assemble 在已有的数据库和网络客户端上组装其余组件
func Assemble(cfg *config.Config, db *storage.DB, client network.Executor, logger zerolog.Logger) *App {
	repos := repository.NewRepositories(db, client, logger)
	feed := service.NewFavouritesFeed(repos.Favourite, repos.FavouriteBus)

	h := &handler.Handler{
		GenreRepo:      repos.Genre,
		MovieRepo:      repos.Movie,
		FavouriteRepo:  repos.Favourite,
		FavouriteFeed:  feed,
		Detail:         service.NewDetailService(repos.Movie, repos.Favourite, logger),
		Searcher:       repos.Search,
		SearchMinChars: cfg.SearchMinChars,
		Logger:         logger,
	}

	a := &App{
		Config:  cfg,
		DB:      db,
		Repos:   repos,
		Handler: h,
		Cleanup: service.NewCleanupService(repos.MovieCache, cfg.CacheRetention(), 24*time.Hour, logger),
		feed:    feed,
	}
	if c, ok := client.(*network.Client); ok {
		a.Client = c
	}
	return a
}

// Close 释放数据库连接
func (a *App) Close() error {
	a.feed.Close()
	return a.DB.Close()
}
