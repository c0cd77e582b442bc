// Package mapper 领域模型与缓存实体之间的转换
package mapper

import (
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/user/movieexplorer/internal/model"
	"github.com/user/movieexplorer/internal/storage"
)

// EntityMapper 双向转换
type EntityMapper[D, E any] interface {
	ToEntity(d D) (E, error)
	ToDomain(e E) (D, error)
}

// ToEntities 批量转换，遇到第一个错误即返回
func ToEntities[D, E any](m EntityMapper[D, E], ds []D) ([]E, error) {
	out := make([]E, 0, len(ds))
	for _, d := range ds {
		e, err := m.ToEntity(d)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// ToDomains 批量转换，遇到第一个错误即返回
func ToDomains[D, E any](m EntityMapper[D, E], es []E) ([]D, error) {
	out := make([]D, 0, len(es))
	for _, e := range es {
		d, err := m.ToDomain(e)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

type clock func() time.Time

// GenreMapper Genre <-> GenreEntity
type GenreMapper struct {
	now clock
}

func NewGenreMapper() GenreMapper {
	return GenreMapper{now: time.Now}
}

func (m GenreMapper) ToEntity(g model.Genre) (model.GenreEntity, error) {
	return model.GenreEntity{ID: int64(g.ID), Name: g.Name, CreatedAt: m.now()}, nil
}

func (GenreMapper) ToDomain(e model.GenreEntity) (model.Genre, error) {
	return model.Genre{ID: int(e.ID), Name: e.Name}, nil
}

// MovieMapper Movie <-> MovieEntity，写入时打上 Category。Genres 不入缓存。
type MovieMapper struct {
	Category model.MovieCategory
	now      clock
}

func NewMovieMapper(category model.MovieCategory) MovieMapper {
	return MovieMapper{Category: category, now: time.Now}
}

func (m MovieMapper) ToEntity(mv model.Movie) (model.MovieEntity, error) {
	if !m.Category.Valid() {
		return model.MovieEntity{}, storage.MappingError(fmt.Sprintf("unknown movie category %q", m.Category))
	}
	return model.MovieEntity{
		ID:           int64(mv.ID),
		Category:     m.Category,
		Title:        mv.Title,
		Overview:     mv.Overview,
		Popularity:   mv.Popularity,
		PosterPath:   mv.PosterPath,
		ReleaseDate:  mv.ReleaseDate,
		VoteAverage:  mv.VoteAverage,
		GenreIDs:     toInt64Array(mv.GenreIDs),
		BackdropPath: mv.BackdropPath,
		Runtime:      mv.Runtime,
		CreatedAt:    m.now(),
	}, nil
}

func (MovieMapper) ToDomain(e model.MovieEntity) (model.Movie, error) {
	return model.Movie{
		ID:           int(e.ID),
		Title:        e.Title,
		Overview:     e.Overview,
		Popularity:   e.Popularity,
		PosterPath:   e.PosterPath,
		ReleaseDate:  e.ReleaseDate,
		VoteAverage:  e.VoteAverage,
		GenreIDs:     fromInt64Array(e.GenreIDs),
		BackdropPath: e.BackdropPath,
		Runtime:      e.Runtime,
	}, nil
}

// FavouriteMapper Movie <-> FavouriteMovieEntity
type FavouriteMapper struct {
	now clock
}

func NewFavouriteMapper() FavouriteMapper {
	return FavouriteMapper{now: time.Now}
}

func (m FavouriteMapper) ToEntity(mv model.Movie) (model.FavouriteMovieEntity, error) {
	return model.FavouriteMovieEntity{
		ID:           int64(mv.ID),
		Title:        mv.Title,
		Overview:     mv.Overview,
		Popularity:   mv.Popularity,
		PosterPath:   mv.PosterPath,
		ReleaseDate:  mv.ReleaseDate,
		VoteAverage:  mv.VoteAverage,
		GenreIDs:     toInt64Array(mv.GenreIDs),
		BackdropPath: mv.BackdropPath,
		Runtime:      mv.Runtime,
		CreatedAt:    m.now(),
	}, nil
}

func (FavouriteMapper) ToDomain(e model.FavouriteMovieEntity) (model.Movie, error) {
	return model.Movie{
		ID:           int(e.ID),
		Title:        e.Title,
		Overview:     e.Overview,
		Popularity:   e.Popularity,
		PosterPath:   e.PosterPath,
		ReleaseDate:  e.ReleaseDate,
		VoteAverage:  e.VoteAverage,
		GenreIDs:     fromInt64Array(e.GenreIDs),
		BackdropPath: e.BackdropPath,
		Runtime:      e.Runtime,
	}, nil
}

// nil 与空切片保持区分
func toInt64Array(ids []int) pq.Int64Array {
	if ids == nil {
		return nil
	}
	out := make(pq.Int64Array, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func fromInt64Array(ids pq.Int64Array) []int {
	if ids == nil {
		return nil
	}
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
