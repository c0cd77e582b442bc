package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/user/movieexplorer/internal/model"
	"github.com/user/movieexplorer/internal/network"
	"github.com/user/movieexplorer/internal/repository"
	"github.com/user/movieexplorer/internal/service"
	"github.com/user/movieexplorer/internal/storage"
	"github.com/user/movieexplorer/internal/utils"
)

// GenreStore 类型列表
type GenreStore interface {
	GetGenres(ctx context.Context) (model.GenreResponse, error)
}

// MovieStore 电影列表、演职员表和缓存管理
type MovieStore interface {
	GetNowPlayingMovies(ctx context.Context) (model.MovieResponse, error)
	GetPopularMovies(ctx context.Context, page int) (model.MovieResponse, error)
	GetCredits(ctx context.Context, id int) (model.CastResponse, error)
	ClearCache(ctx context.Context, category model.MovieCategory) error
	ClearAllCache(ctx context.Context) error
}

// FavouriteStore 收藏
type FavouriteStore interface {
	IsFavourite(ctx context.Context, movieID int) bool
	AddToFavourite(ctx context.Context, movie model.Movie) error
	RemoveFromFavourite(ctx context.Context, movieID int) error
}

// FavouriteLister 收藏列表
type FavouriteLister interface {
	List(ctx context.Context) ([]model.Movie, error)
}

// Handler HTTP 处理器
type Handler struct {
	GenreRepo      GenreStore
	MovieRepo      MovieStore
	FavouriteRepo  FavouriteStore
	FavouriteFeed  FavouriteLister
	Detail         *service.DetailService
	Searcher       service.MovieSearcher
	SearchMinChars int
	Logger         zerolog.Logger
}

// maxSearchPages 一次请求最多累积的搜索页数
const maxSearchPages = 5

// respondError 把领域错误映射成 HTTP 状态码
func (h *Handler) respondError(c *gin.Context, err error) {
	var storageErr *storage.Error
	switch {
	case errors.Is(err, network.ErrCancelled), errors.Is(err, context.Canceled):
		h.Logger.Debug().Err(err).Str("path", c.FullPath()).Msg("[API] 客户端已断开")
		utils.ClientClosed(c)
	case errors.Is(err, service.ErrQueryTooShort), errors.Is(err, repository.ErrUnknownCategory):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, storage.ErrEntityNotFound), network.StatusCode(err) == 404:
		utils.NotFound(c, "")
	case errors.As(err, &storageErr):
		h.Logger.Error().Err(err).Str("path", c.FullPath()).Msg("[API] 本地存储失败")
		utils.InternalServerError(c, "")
	default:
		h.Logger.Warn().Err(err).Str("path", c.FullPath()).Msg("[API] 上游请求失败")
		utils.BadGateway(c, "")
	}
}

// parseID 解析路径里的电影 id
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.BadRequest(c, "无效的电影 ID")
		return 0, false
	}
	return id, true
}

// parsePositive 缺省或非法时返回 def
func parsePositive(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
