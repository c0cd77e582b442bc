package storage

import (
	"context"
	"time"

	"github.com/user/movieexplorer/internal/model"
)

// 分区内按热度排序，热度相同按 id
var byPopularity = []Sort{{Column: "popularity", Desc: true}, {Column: "id"}}

// GenreSource genres 表
type GenreSource struct {
	*DataSource[model.GenreEntity]
}

func NewGenreSource(db *DB) *GenreSource {
	return &GenreSource{DataSource: NewDataSource[model.GenreEntity](db)}
}

// FetchGenres 按名称排序
func (s *GenreSource) FetchGenres(ctx context.Context) ([]model.GenreEntity, error) {
	return s.FetchSorted(ctx, Predicate{}, Sort{Column: "name"})
}

// ReplaceGenres 用 genres 整体替换缓存
func (s *GenreSource) ReplaceGenres(ctx context.Context, genres []model.GenreEntity) error {
	return s.Replace(ctx, Predicate{}, genres)
}

// MovieSource movies 表，主键 (id, category)
type MovieSource struct {
	*DataSource[model.MovieEntity]
}

func NewMovieSource(db *DB) *MovieSource {
	return &MovieSource{DataSource: NewDataSource[model.MovieEntity](db)}
}

func inCategory(category model.MovieCategory) Predicate {
	return Where("category = ?", category)
}

// FetchByCategory 某个分区的全部电影
func (s *MovieSource) FetchByCategory(ctx context.Context, category model.MovieCategory) ([]model.MovieEntity, error) {
	return s.FetchSorted(ctx, inCategory(category), byPopularity...)
}

// FetchMovie 不存在时返回 ErrEntityNotFound
func (s *MovieSource) FetchMovie(ctx context.Context, id int64, category model.MovieCategory) (model.MovieEntity, error) {
	var out model.MovieEntity
	rows, err := s.FetchPage(ctx, inCategory(category).And("id = ?", id), 1, 0)
	if err != nil {
		return out, err
	}
	if len(rows) == 0 {
		return out, ErrEntityNotFound
	}
	return rows[0], nil
}

// FetchByIDs 任意分区中 id 在 ids 内的行
func (s *MovieSource) FetchByIDs(ctx context.Context, ids []int64) ([]model.MovieEntity, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.FetchSorted(ctx, Where("id IN ?", ids), byPopularity...)
}

// MovieExists 分区内是否已有该 id
func (s *MovieSource) MovieExists(ctx context.Context, id int64, category model.MovieCategory) (bool, error) {
	return s.ExistsWhere(ctx, inCategory(category).And("id = ?", id))
}

// ReplaceCategory 在一个事务里清空分区并写入 movies
func (s *MovieSource) ReplaceCategory(ctx context.Context, category model.MovieCategory, movies []model.MovieEntity) error {
	return s.Replace(ctx, inCategory(category), movies)
}

// DeleteByCategory 清空分区
func (s *MovieSource) DeleteByCategory(ctx context.Context, category model.MovieCategory) (int64, error) {
	return s.DeleteWhere(ctx, inCategory(category))
}

// DeleteByIDs 删除所有分区中的这些 id
func (s *MovieSource) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.DeleteWhere(ctx, Where("id IN ?", ids))
}

// DeleteOlderThan 删除缓存时间早于 cutoff 的行
func (s *MovieSource) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.DeleteWhere(ctx, Where("created_at < ?", cutoff))
}

// CountByCategory 分区行数
func (s *MovieSource) CountByCategory(ctx context.Context, category model.MovieCategory) (int64, error) {
	return s.CountWhere(ctx, inCategory(category))
}

// Recent 最近缓存的电影，category 为空时不限分区
func (s *MovieSource) Recent(ctx context.Context, limit int, category model.MovieCategory) ([]model.MovieEntity, error) {
	p := Predicate{}
	if category != "" {
		p = inCategory(category)
	}
	return s.FetchPage(ctx, p, limit, 0, Sort{Column: "created_at", Desc: true}, Sort{Column: "id"})
}

// FavouriteSource favourite_movies 表
type FavouriteSource struct {
	*DataSource[model.FavouriteMovieEntity]
}

func NewFavouriteSource(db *DB) *FavouriteSource {
	return &FavouriteSource{DataSource: NewDataSource[model.FavouriteMovieEntity](db)}
}

// FetchFavourites 最近收藏的在前
func (s *FavouriteSource) FetchFavourites(ctx context.Context) ([]model.FavouriteMovieEntity, error) {
	return s.FetchSorted(ctx, Predicate{}, Sort{Column: "created_at", Desc: true}, Sort{Column: "id"})
}
