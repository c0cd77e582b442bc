package repository

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/user/movieexplorer/internal/event"
	"github.com/user/movieexplorer/internal/network"
	"github.com/user/movieexplorer/internal/storage"
)

// ErrUnknownCategory 不存在的缓存分区
var ErrUnknownCategory = errors.New("repository: unknown movie category")

// Repositories 仓库集合
type Repositories struct {
	Genre        *GenreRepository
	Movie        *MovieRepository
	Favourite    *FavouriteRepository
	Search       *SearchRepository
	MovieCache   *MovieLocalRepository
	GenreCache   *GenreLocalRepository
	FavouriteBus *event.Bus[event.FavouriteChanged]
}

// NewRepositories 创建仓库集合，所有本地仓库共用 db 的执行循环
func NewRepositories(db *storage.DB, client network.Executor, logger zerolog.Logger) *Repositories {
	genreCache := NewGenreLocalRepository(storage.NewGenreSource(db))
	movieCache := NewMovieLocalRepository(storage.NewMovieSource(db))
	favourites := NewFavouriteLocalRepository(storage.NewFavouriteSource(db))
	bus := event.NewBus[event.FavouriteChanged]()

	genre := NewGenreRepository(client, genreCache, logger)
	return &Repositories{
		Genre:        genre,
		Movie:        NewMovieRepository(client, movieCache, genre, logger),
		Favourite:    NewFavouriteRepository(favourites, bus, logger),
		Search:       NewSearchRepository(client),
		MovieCache:   movieCache,
		GenreCache:   genreCache,
		FavouriteBus: bus,
	}
}
