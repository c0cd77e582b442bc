package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/user/movieexplorer/internal/endpoint"
	"github.com/user/movieexplorer/internal/model"
	"github.com/user/movieexplorer/internal/network"
	"github.com/user/movieexplorer/internal/utils"
)

const (
	genreIndexSize = 512
	genreIndexTTL  = 24 * time.Hour
)

// GenreRepository 类型列表，网络优先，失败时回落到缓存。
// 每次加载成功都会刷新内存索引，供列表按 genre_ids 显示类型名。
type GenreRepository struct {
	client network.Executor
	cache  GenreCache
	index  *utils.TTLCache[int, model.Genre]
	logger zerolog.Logger
}

func NewGenreRepository(client network.Executor, cache GenreCache, logger zerolog.Logger) *GenreRepository {
	return &GenreRepository{
		client: client,
		cache:  cache,
		index:  utils.NewTTLCache[int, model.Genre](genreIndexSize, genreIndexTTL),
		logger: logger.With().Str("component", "genre_repository").Logger(),
	}
}

// GetGenres 成功时整体替换缓存
func (r *GenreRepository) GetGenres(ctx context.Context) (model.GenreResponse, error) {
	resp, err := network.Execute[model.GenreResponse](ctx, r.client, endpoint.GenreList{})
	if err == nil {
		r.remember(resp.Genres)
		if ctx.Err() == nil {
			if werr := r.cache.SaveGenres(ctx, resp.Genres); werr != nil {
				r.logger.Warn().Err(werr).Msg("[Cache] 写入类型缓存失败")
			}
		}
		return resp, nil
	}
	if cancelled(ctx, err) {
		return model.GenreResponse{}, err
	}

	cached, cerr := r.cache.FetchGenres(ctx)
	if cerr != nil || len(cached) == 0 {
		if cerr != nil {
			r.logger.Warn().Err(cerr).Msg("[Cache] 读取类型缓存失败")
		}
		return model.GenreResponse{}, err
	}
	r.logger.Info().Err(err).Int("count", len(cached)).Msg("[Cache] 网络请求失败，使用缓存的类型")
	r.remember(cached)
	return model.GenreResponse{Genres: cached}, nil
}

// ResolveGenres 按 ids 的顺序返回已知的类型，未知 id 跳过
func (r *GenreRepository) ResolveGenres(ids []int) []model.Genre {
	out := make([]model.Genre, 0, len(ids))
	for _, id := range ids {
		if g, ok := r.index.Get(id); ok {
			out = append(out, g)
		}
	}
	return out
}

func (r *GenreRepository) remember(genres []model.Genre) {
	for _, g := range genres {
		r.index.Set(g.ID, g)
	}
}
