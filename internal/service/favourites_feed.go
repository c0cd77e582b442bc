package service

import (
	"context"
	"sync"

	"github.com/user/movieexplorer/internal/event"
	"github.com/user/movieexplorer/internal/model"
)

// FavouriteLister 读取全部收藏
type FavouriteLister interface {
	GetFavourites(ctx context.Context) ([]model.Movie, error)
}

// FavouritesFeed 收藏列表。收到 FavouriteChanged 后标记过期，下次 List 时重新读取。
type FavouritesFeed struct {
	lister      FavouriteLister
	unsubscribe func()

	mu     sync.Mutex
	stale  bool
	movies []model.Movie
	loads  int
}

func NewFavouritesFeed(lister FavouriteLister, bus *event.Bus[event.FavouriteChanged]) *FavouritesFeed {
	f := &FavouritesFeed{lister: lister, stale: true}
	f.unsubscribe = bus.Subscribe(func(event.FavouriteChanged) {
		f.mu.Lock()
		f.stale = true
		f.mu.Unlock()
	})
	return f
}

// List 返回收藏列表，只有过期时才访问存储
func (f *FavouritesFeed) List(ctx context.Context) ([]model.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.stale {
		return copyMovies(f.movies), nil
	}

	movies, err := f.lister.GetFavourites(ctx)
	if err != nil {
		return nil, err
	}
	f.movies = movies
	f.stale = false
	f.loads++
	return copyMovies(movies), nil
}

// copyMovies 空列表返回非 nil 的空切片
func copyMovies(src []model.Movie) []model.Movie {
	out := make([]model.Movie, len(src))
	copy(out, src)
	return out
}

// Close 取消订阅
func (f *FavouritesFeed) Close() {
	f.unsubscribe()
}
