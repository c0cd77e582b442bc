package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/movieexplorer/internal/mapper"
	"github.com/user/movieexplorer/internal/model"
	"github.com/user/movieexplorer/internal/storage"
)

// GenreCache 类型缓存
type GenreCache interface {
	FetchGenres(ctx context.Context) ([]model.Genre, error)
	SaveGenres(ctx context.Context, genres []model.Genre) error
}

// MovieCache 按分区缓存电影
type MovieCache interface {
	FetchMovies(ctx context.Context, category model.MovieCategory) ([]model.Movie, error)
	// FetchMovie 不存在时返回 storage.ErrEntityNotFound
	FetchMovie(ctx context.Context, id int, category model.MovieCategory) (model.Movie, error)
	// ReplaceMovies 清空分区后写入
	ReplaceMovies(ctx context.Context, movies []model.Movie, category model.MovieCategory) error
	// SaveMovies 已存在的更新，不存在的插入
	SaveMovies(ctx context.Context, movies []model.Movie, category model.MovieCategory) error
	SaveMovie(ctx context.Context, movie model.Movie, category model.MovieCategory) error
	DeleteMovies(ctx context.Context, category model.MovieCategory) error
	ClearMovies(ctx context.Context) error
}

// FavouriteStore 收藏存储
type FavouriteStore interface {
	IsFavourite(ctx context.Context, id int) (bool, error)
	SaveFavourite(ctx context.Context, movie model.Movie) error
	// DeleteFavourite 返回是否删除了记录
	DeleteFavourite(ctx context.Context, id int) (bool, error)
	FetchFavourites(ctx context.Context) ([]model.Movie, error)
}

// GenreLocalRepository GenreCache 的数据库实现
type GenreLocalRepository struct {
	source *storage.GenreSource
	mapper mapper.GenreMapper
}

func NewGenreLocalRepository(source *storage.GenreSource) *GenreLocalRepository {
	return &GenreLocalRepository{source: source, mapper: mapper.NewGenreMapper()}
}

// FetchGenres 全部缓存的类型
func (r *GenreLocalRepository) FetchGenres(ctx context.Context) ([]model.Genre, error) {
	entities, err := r.source.FetchGenres(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToDomains[model.Genre, model.GenreEntity](r.mapper, entities)
}

// FetchGenre 不存在时返回 storage.ErrEntityNotFound
func (r *GenreLocalRepository) FetchGenre(ctx context.Context, id int) (model.Genre, error) {
	entity, err := r.source.FetchByID(ctx, id)
	if err != nil {
		return model.Genre{}, err
	}
	return r.mapper.ToDomain(entity)
}

// SaveGenres 整体替换
func (r *GenreLocalRepository) SaveGenres(ctx context.Context, genres []model.Genre) error {
	entities, err := mapper.ToEntities[model.Genre, model.GenreEntity](r.mapper, dedupe(genres, func(g model.Genre) int { return g.ID }))
	if err != nil {
		return err
	}
	return r.source.ReplaceGenres(ctx, entities)
}

// HasCachedGenres 读取失败视为没有缓存
func (r *GenreLocalRepository) HasCachedGenres(ctx context.Context) bool {
	n, err := r.source.Count(ctx)
	return err == nil && n > 0
}

// ClearGenres 清空
func (r *GenreLocalRepository) ClearGenres(ctx context.Context) error {
	_, err := r.source.DeleteAll(ctx)
	return err
}

// MovieLocalRepository MovieCache 的数据库实现
type MovieLocalRepository struct {
	source *storage.MovieSource
}

func NewMovieLocalRepository(source *storage.MovieSource) *MovieLocalRepository {
	return &MovieLocalRepository{source: source}
}

func (r *MovieLocalRepository) toEntities(movies []model.Movie, category model.MovieCategory) ([]model.MovieEntity, error) {
	unique := dedupe(movies, func(m model.Movie) int { return m.ID })
	return mapper.ToEntities[model.Movie, model.MovieEntity](mapper.NewMovieMapper(category), unique)
}

func (r *MovieLocalRepository) toDomains(entities []model.MovieEntity) ([]model.Movie, error) {
	return mapper.ToDomains[model.Movie, model.MovieEntity](mapper.MovieMapper{}, entities)
}

// FetchMovies 分区内全部电影
func (r *MovieLocalRepository) FetchMovies(ctx context.Context, category model.MovieCategory) ([]model.Movie, error) {
	entities, err := r.source.FetchByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return r.toDomains(entities)
}

// FetchAllMovies 所有分区
func (r *MovieLocalRepository) FetchAllMovies(ctx context.Context) ([]model.Movie, error) {
	entities, err := r.source.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return r.toDomains(entities)
}

// FetchMovie 不存在时返回 storage.ErrEntityNotFound
func (r *MovieLocalRepository) FetchMovie(ctx context.Context, id int, category model.MovieCategory) (model.Movie, error) {
	entity, err := r.source.FetchMovie(ctx, int64(id), category)
	if err != nil {
		return model.Movie{}, err
	}
	return mapper.MovieMapper{}.ToDomain(entity)
}

// ReplaceMovies 清空分区后写入，在同一个事务内完成
func (r *MovieLocalRepository) ReplaceMovies(ctx context.Context, movies []model.Movie, category model.MovieCategory) error {
	entities, err := r.toEntities(movies, category)
	if err != nil {
		return err
	}
	return r.source.ReplaceCategory(ctx, category, entities)
}

// SaveMovies 已存在的更新，不存在的插入
func (r *MovieLocalRepository) SaveMovies(ctx context.Context, movies []model.Movie, category model.MovieCategory) error {
	entities, err := r.toEntities(movies, category)
	if err != nil {
		return err
	}
	return r.source.SaveAll(ctx, entities)
}

// SaveMovie 单部电影，存在则更新
func (r *MovieLocalRepository) SaveMovie(ctx context.Context, movie model.Movie, category model.MovieCategory) error {
	entity, err := mapper.NewMovieMapper(category).ToEntity(movie)
	if err != nil {
		return err
	}
	exists, err := r.source.MovieExists(ctx, entity.ID, category)
	if err != nil {
		return err
	}
	if exists {
		return r.source.Update(ctx, &entity)
	}
	return r.source.Save(ctx, &entity)
}

// DeleteMovies 清空分区
func (r *MovieLocalRepository) DeleteMovies(ctx context.Context, category model.MovieCategory) error {
	_, err := r.source.DeleteByCategory(ctx, category)
	return err
}

// DeleteMoviesByIDs 所有分区中删除这些 id
func (r *MovieLocalRepository) DeleteMoviesByIDs(ctx context.Context, ids []int) (int64, error) {
	converted := make([]int64, len(ids))
	for i, id := range ids {
		converted[i] = int64(id)
	}
	return r.source.DeleteByIDs(ctx, converted)
}

// DeleteOlderThan 删除缓存时间早于 cutoff 的电影
func (r *MovieLocalRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.source.DeleteOlderThan(ctx, cutoff)
}

// ClearMovies 清空全部分区
func (r *MovieLocalRepository) ClearMovies(ctx context.Context) error {
	_, err := r.source.DeleteAll(ctx)
	return err
}

// HasCachedMovies category 为空时统计所有分区，读取失败视为没有缓存
func (r *MovieLocalRepository) HasCachedMovies(ctx context.Context, category model.MovieCategory) bool {
	n, err := r.MovieCount(ctx, category)
	return err == nil && n > 0
}

// MovieCount category 为空时统计所有分区
func (r *MovieLocalRepository) MovieCount(ctx context.Context, category model.MovieCategory) (int64, error) {
	if category == "" {
		return r.source.Count(ctx)
	}
	return r.source.CountByCategory(ctx, category)
}

// RecentMovies 最近缓存的电影
func (r *MovieLocalRepository) RecentMovies(ctx context.Context, limit int, category model.MovieCategory) ([]model.Movie, error) {
	entities, err := r.source.Recent(ctx, limit, category)
	if err != nil {
		return nil, err
	}
	return r.toDomains(entities)
}

// FavouriteLocalRepository FavouriteStore 的数据库实现
type FavouriteLocalRepository struct {
	source *storage.FavouriteSource
	mapper mapper.FavouriteMapper
}

func NewFavouriteLocalRepository(source *storage.FavouriteSource) *FavouriteLocalRepository {
	return &FavouriteLocalRepository{source: source, mapper: mapper.NewFavouriteMapper()}
}

func (r *FavouriteLocalRepository) IsFavourite(ctx context.Context, id int) (bool, error) {
	return r.source.Exists(ctx, id)
}

func (r *FavouriteLocalRepository) SaveFavourite(ctx context.Context, movie model.Movie) error {
	entity, err := r.mapper.ToEntity(movie)
	if err != nil {
		return err
	}
	return r.source.Save(ctx, &entity)
}

func (r *FavouriteLocalRepository) DeleteFavourite(ctx context.Context, id int) (bool, error) {
	n, err := r.source.DeleteWhere(ctx, storage.Where("id = ?", id))
	return n > 0, err
}

func (r *FavouriteLocalRepository) FetchFavourites(ctx context.Context) ([]model.Movie, error) {
	entities, err := r.source.FetchFavourites(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToDomains[model.Movie, model.FavouriteMovieEntity](r.mapper, entities)
}

// dedupe 保留每个 key 第一次出现的元素
func dedupe[T any](items []T, key func(T) int) []T {
	seen := make(map[int]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrEntityNotFound)
}
