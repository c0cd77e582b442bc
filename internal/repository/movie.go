package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/user/movieexplorer/internal/endpoint"
	"github.com/user/movieexplorer/internal/model"
	"github.com/user/movieexplorer/internal/network"
)

// GenreResolver 把 genre id 解析为类型
type GenreResolver interface {
	ResolveGenres(ids []int) []model.Genre
}

// MovieRepository 电影列表、详情和演职员表，网络优先，失败时回落到缓存
type MovieRepository struct {
	client network.Executor
	cache  MovieCache
	genres GenreResolver
	group  singleflight.Group
	logger zerolog.Logger
}

func NewMovieRepository(client network.Executor, cache MovieCache, genres GenreResolver, logger zerolog.Logger) *MovieRepository {
	return &MovieRepository{
		client: client,
		cache:  cache,
		genres: genres,
		logger: logger.With().Str("component", "movie_repository").Logger(),
	}
}

// GetNowPlayingMovies 成功时整体替换 now_playing 分区
func (r *MovieRepository) GetNowPlayingMovies(ctx context.Context) (model.MovieResponse, error) {
	return r.fetchList(ctx, endpoint.NowPlaying{}, model.CategoryNowPlaying, r.cache.ReplaceMovies)
}

// GetPopularMovies 成功时把本页结果合并进 popular 分区
func (r *MovieRepository) GetPopularMovies(ctx context.Context, page int) (model.MovieResponse, error) {
	return r.fetchList(ctx, endpoint.Popular{Page: page}, model.CategoryPopular, r.cache.SaveMovies)
}

type writeFunc func(ctx context.Context, movies []model.Movie, category model.MovieCategory) error

func (r *MovieRepository) fetchList(ctx context.Context, req network.Request, category model.MovieCategory, write writeFunc) (model.MovieResponse, error) {
	resp, err := network.Execute[model.MovieResponse](ctx, r.client, req)
	if err == nil {
		r.writeThrough(ctx, category, func(ctx context.Context) error {
			return write(ctx, resp.Results, category)
		})
		return resp, nil
	}
	if cancelled(ctx, err) {
		return model.MovieResponse{}, err
	}

	cached, cerr := r.cache.FetchMovies(ctx, category)
	if cerr != nil || len(cached) == 0 {
		if cerr != nil {
			r.logger.Warn().Err(cerr).Str("category", string(category)).Msg("[Cache] 读取缓存失败")
		}
		return model.MovieResponse{}, err
	}

	r.logger.Info().Err(err).Str("category", string(category)).Int("count", len(cached)).
		Msg("[Cache] 网络请求失败，使用缓存")
	return model.MovieResponse{
		Results:      cached,
		Page:         1,
		TotalPages:   1,
		TotalResults: len(cached),
	}, nil
}

// GetMovieDetail 并发请求同一部电影时只发一次网络请求。网络失败时回落到 detail 分区。
// 共享的请求不跟随任何一个调用方取消，只受请求超时限制；调用方取消时只有它自己返回 ErrCancelled。
func (r *MovieRepository) GetMovieDetail(ctx context.Context, id int) (model.Movie, error) {
	req := endpoint.MovieDetail{ID: id}
	ch := r.group.DoChan(strconv.Itoa(id), func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), req.Timeout())
		defer cancel()
		return r.fetchDetail(flightCtx, req)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return model.Movie{}, res.Err
		}
		return res.Val.(model.Movie), nil
	case <-ctx.Done():
		return model.Movie{}, network.ErrCancelled
	}
}

func (r *MovieRepository) fetchDetail(ctx context.Context, req endpoint.MovieDetail) (model.Movie, error) {
	id := req.ID
	movie, err := network.Execute[model.Movie](ctx, r.client, req)
	if err == nil {
		cacheable := movie
		if cacheable.GenreIDs == nil && len(cacheable.Genres) > 0 {
			cacheable.GenreIDs = make([]int, len(cacheable.Genres))
			for i, g := range cacheable.Genres {
				cacheable.GenreIDs[i] = g.ID
			}
		}
		r.writeThrough(ctx, model.CategoryDetail, func(ctx context.Context) error {
			return r.cache.SaveMovie(ctx, cacheable, model.CategoryDetail)
		})
		return movie, nil
	}
	if cancelled(ctx, err) {
		return model.Movie{}, err
	}

	cached, cerr := r.cache.FetchMovie(ctx, id, model.CategoryDetail)
	if cerr != nil {
		if !isNotFound(cerr) {
			r.logger.Warn().Err(cerr).Int("movie_id", id).Msg("[Cache] 读取缓存失败")
		}
		return model.Movie{}, err
	}
	if r.genres != nil && len(cached.GenreIDs) > 0 {
		cached.Genres = r.genres.ResolveGenres(cached.GenreIDs)
	}
	r.logger.Info().Err(err).Int("movie_id", id).Msg("[Cache] 网络请求失败，使用缓存的详情")
	return cached, nil
}

// GetCredits 演职员表不缓存
func (r *MovieRepository) GetCredits(ctx context.Context, id int) (model.CastResponse, error) {
	return network.Execute[model.CastResponse](ctx, r.client, endpoint.Credits{ID: id})
}

// ClearCache 清空一个分区
func (r *MovieRepository) ClearCache(ctx context.Context, category model.MovieCategory) error {
	if !category.Valid() {
		return ErrUnknownCategory
	}
	if err := r.cache.DeleteMovies(ctx, category); err != nil {
		return err
	}
	r.logger.Info().Str("category", string(category)).Msg("[Cache] 已清空分区缓存")
	return nil
}

// ClearAllCache 清空所有分区
func (r *MovieRepository) ClearAllCache(ctx context.Context) error {
	if err := r.cache.ClearMovies(ctx); err != nil {
		return err
	}
	r.logger.Info().Msg("[Cache] 已清空全部电影缓存")
	return nil
}

// writeThrough 缓存写入失败只记录日志。调用方已取消时不再写入。
func (r *MovieRepository) writeThrough(ctx context.Context, category model.MovieCategory, write func(ctx context.Context) error) {
	if ctx.Err() != nil {
		return
	}
	if err := write(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		r.logger.Warn().Err(err).Str("category", string(category)).Msg("[Cache] 写入缓存失败")
		return
	}
	r.logger.Debug().Str("category", string(category)).Msg("[Cache] 已写入缓存")
}

func cancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, network.ErrCancelled)
}
