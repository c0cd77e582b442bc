package repository

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/user/movieexplorer/internal/event"
	"github.com/user/movieexplorer/internal/model"
)

// FavouriteRepository 收藏只存在本地。状态真正变化时发布 FavouriteChanged。
type FavouriteRepository struct {
	store  FavouriteStore
	bus    *event.Bus[event.FavouriteChanged]
	logger zerolog.Logger
}

func NewFavouriteRepository(store FavouriteStore, bus *event.Bus[event.FavouriteChanged], logger zerolog.Logger) *FavouriteRepository {
	return &FavouriteRepository{
		store:  store,
		bus:    bus,
		logger: logger.With().Str("component", "favourite_repository").Logger(),
	}
}

// AddToFavourite 已收藏时直接返回
func (r *FavouriteRepository) AddToFavourite(ctx context.Context, movie model.Movie) error {
	exists, err := r.store.IsFavourite(ctx, movie.ID)
	if err != nil {
		return err
	}
	if exists {
		r.logger.Debug().Int("movie_id", movie.ID).Msg("[Favourite] 已在收藏中")
		return nil
	}
	if err := r.store.SaveFavourite(ctx, movie); err != nil {
		return err
	}
	r.logger.Info().Int("movie_id", movie.ID).Str("title", movie.Title).Msg("[Favourite] 已收藏")
	r.publish(movie.ID, true)
	return nil
}

// RemoveFromFavourite 不存在时不报错
func (r *FavouriteRepository) RemoveFromFavourite(ctx context.Context, movieID int) error {
	removed, err := r.store.DeleteFavourite(ctx, movieID)
	if err != nil {
		return err
	}
	if removed {
		r.logger.Info().Int("movie_id", movieID).Msg("[Favourite] 已取消收藏")
		r.publish(movieID, false)
	}
	return nil
}

// IsFavourite 读取失败按未收藏处理
func (r *FavouriteRepository) IsFavourite(ctx context.Context, movieID int) bool {
	ok, err := r.store.IsFavourite(ctx, movieID)
	if err != nil {
		r.logger.Warn().Err(err).Int("movie_id", movieID).Msg("[Favourite] 查询收藏状态失败")
		return false
	}
	return ok
}

// GetFavourites 最近收藏的在前
func (r *FavouriteRepository) GetFavourites(ctx context.Context) ([]model.Movie, error) {
	return r.store.FetchFavourites(ctx)
}

func (r *FavouriteRepository) publish(id int, favourite bool) {
	if r.bus != nil {
		r.bus.Publish(event.FavouriteChanged{MovieID: id, Favourite: favourite})
	}
}
