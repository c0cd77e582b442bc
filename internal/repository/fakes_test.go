package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"github.com/user/movieexplorer/internal/model"
	"github.com/user/movieexplorer/internal/network"
	"github.com/user/movieexplorer/internal/storage"
)

var errOffline = errors.New("offline")

type fakeExecutor struct {
	mu         sync.Mutex
	handler    func(r network.Request) (any, error)
	// ctxHandler 优先于 handler，可以观察调用时的 ctx
	ctxHandler func(ctx context.Context, r network.Request) (any, error)
	calls      []network.Request
}

func (f *fakeExecutor) Execute(ctx context.Context, r network.Request) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, network.ErrCancelled
	}
	f.mu.Lock()
	f.calls = append(f.calls, r)
	handler, ctxHandler := f.handler, f.ctxHandler
	f.mu.Unlock()

	var v any
	var err error
	if ctxHandler != nil {
		v, err = ctxHandler(ctx, r)
	} else {
		v, err = handler(r)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func (f *fakeExecutor) ExecuteInto(ctx context.Context, r network.Request, v any) error {
	data, err := f.Execute(ctx, r)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (f *fakeExecutor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func respond(v any) func(network.Request) (any, error) {
	return func(network.Request) (any, error) { return v, nil }
}

func fail(err error) func(network.Request) (any, error) {
	return func(network.Request) (any, error) { return nil, err }
}

type fakeMovieCache struct {
	mu       sync.Mutex
	rows     map[model.MovieCategory]map[int]model.Movie
	readErr  error
	writeErr error
	writes   int
}

func newFakeMovieCache() *fakeMovieCache {
	return &fakeMovieCache{rows: map[model.MovieCategory]map[int]model.Movie{}}
}

func (c *fakeMovieCache) partition(category model.MovieCategory) map[int]model.Movie {
	p, ok := c.rows[category]
	if !ok {
		p = map[int]model.Movie{}
		c.rows[category] = p
	}
	return p
}

func (c *fakeMovieCache) FetchMovies(_ context.Context, category model.MovieCategory) ([]model.Movie, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, c.readErr
	}
	var out []model.Movie
	for _, m := range c.partition(category) {
		m.Genres = nil
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *fakeMovieCache) FetchMovie(_ context.Context, id int, category model.MovieCategory) (model.Movie, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return model.Movie{}, c.readErr
	}
	m, ok := c.partition(category)[id]
	if !ok {
		return model.Movie{}, storage.ErrEntityNotFound
	}
	m.Genres = nil
	return m, nil
}

func (c *fakeMovieCache) ReplaceMovies(_ context.Context, movies []model.Movie, category model.MovieCategory) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes++
	if c.writeErr != nil {
		return c.writeErr
	}
	c.rows[category] = map[int]model.Movie{}
	for _, m := range movies {
		c.rows[category][m.ID] = m
	}
	return nil
}

func (c *fakeMovieCache) SaveMovies(_ context.Context, movies []model.Movie, category model.MovieCategory) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes++
	if c.writeErr != nil {
		return c.writeErr
	}
	for _, m := range movies {
		c.partition(category)[m.ID] = m
	}
	return nil
}

func (c *fakeMovieCache) SaveMovie(ctx context.Context, movie model.Movie, category model.MovieCategory) error {
	return c.SaveMovies(ctx, []model.Movie{movie}, category)
}

func (c *fakeMovieCache) DeleteMovies(_ context.Context, category model.MovieCategory) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rows, category)
	return nil
}

func (c *fakeMovieCache) ClearMovies(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = map[model.MovieCategory]map[int]model.Movie{}
	return nil
}

type fakeGenreCache struct {
	genres   []model.Genre
	readErr  error
	writeErr error
}

func (c *fakeGenreCache) FetchGenres(context.Context) ([]model.Genre, error) {
	return c.genres, c.readErr
}

func (c *fakeGenreCache) SaveGenres(_ context.Context, genres []model.Genre) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.genres = append([]model.Genre(nil), genres...)
	return nil
}

type fakeFavouriteStore struct {
	rows map[int]model.Movie
	err  error
}

func newFakeFavouriteStore() *fakeFavouriteStore {
	return &fakeFavouriteStore{rows: map[int]model.Movie{}}
}

func (s *fakeFavouriteStore) IsFavourite(_ context.Context, id int) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.rows[id]
	return ok, nil
}

func (s *fakeFavouriteStore) SaveFavourite(_ context.Context, movie model.Movie) error {
	if s.err != nil {
		return s.err
	}
	s.rows[movie.ID] = movie
	return nil
}

func (s *fakeFavouriteStore) DeleteFavourite(_ context.Context, id int) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.rows[id]
	delete(s.rows, id)
	return ok, nil
}

func (s *fakeFavouriteStore) FetchFavourites(context.Context) ([]model.Movie, error) {
	out := make([]model.Movie, 0, len(s.rows))
	for _, m := range s.rows {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, s.err
}

func movie(id int, title string) model.Movie {
	return model.Movie{ID: id, Title: title, ReleaseDate: "2024-01-01", GenreIDs: []int{28}}
}

func page(n, total int, movies ...model.Movie) model.MovieResponse {
	return model.MovieResponse{Results: movies, Page: n, TotalPages: total, TotalResults: len(movies) * total}
}
