package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/user/movieexplorer/internal/model"
)

// MovieDetailSource 详情和演职员表
type MovieDetailSource interface {
	GetMovieDetail(ctx context.Context, id int) (model.Movie, error)
	GetCredits(ctx context.Context, id int) (model.CastResponse, error)
}

// FavouriteToggler 收藏操作
type FavouriteToggler interface {
	IsFavourite(ctx context.Context, movieID int) bool
	AddToFavourite(ctx context.Context, movie model.Movie) error
	RemoveFromFavourite(ctx context.Context, movieID int) error
}

// DetailBundle 详情页需要的全部数据
type DetailBundle struct {
	Movie       model.Movie  `json:"movie"`
	Cast        []model.Cast `json:"cast"`
	IsFavourite bool         `json:"is_favourite"`
}

// DetailService 详情页
type DetailService struct {
	movies     MovieDetailSource
	favourites FavouriteToggler
	logger     zerolog.Logger
}

func NewDetailService(movies MovieDetailSource, favourites FavouriteToggler, logger zerolog.Logger) *DetailService {
	return &DetailService{
		movies:     movies,
		favourites: favourites,
		logger:     logger.With().Str("component", "detail_service").Logger(),
	}
}

// Load 并发获取详情、演职员表和收藏状态。详情失败则整体失败，演职员表失败时 Cast 为空。
func (s *DetailService) Load(ctx context.Context, id int) (DetailBundle, error) {
	var bundle DetailBundle
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		movie, err := s.movies.GetMovieDetail(gctx, id)
		if err != nil {
			return err
		}
		bundle.Movie = movie
		return nil
	})
	g.Go(func() error {
		credits, err := s.movies.GetCredits(gctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Int("movie_id", id).Msg("[Detail] 获取演职员表失败")
			return nil
		}
		bundle.Cast = credits.Cast
		return nil
	})
	g.Go(func() error {
		bundle.IsFavourite = s.favourites.IsFavourite(gctx, id)
		return nil
	})

	if err := g.Wait(); err != nil {
		return DetailBundle{}, err
	}
	if bundle.Cast == nil {
		bundle.Cast = []model.Cast{}
	}
	return bundle, nil
}

// ToggleFavourite 切换收藏状态，返回切换后的状态。收藏时保存当前详情快照。
func (s *DetailService) ToggleFavourite(ctx context.Context, id int) (bool, error) {
	if s.favourites.IsFavourite(ctx, id) {
		if err := s.favourites.RemoveFromFavourite(ctx, id); err != nil {
			return true, err
		}
		return false, nil
	}

	movie, err := s.movies.GetMovieDetail(ctx, id)
	if err != nil {
		return false, err
	}
	if err := s.favourites.AddToFavourite(ctx, movie); err != nil {
		return false, err
	}
	return true, nil
}
