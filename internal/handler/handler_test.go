package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/movieexplorer/internal/handler"
	"github.com/user/movieexplorer/internal/model"
	"github.com/user/movieexplorer/internal/network"
	"github.com/user/movieexplorer/internal/repository"
	"github.com/user/movieexplorer/internal/router"
	"github.com/user/movieexplorer/internal/service"
	"github.com/user/movieexplorer/internal/storage"
	"github.com/user/movieexplorer/internal/utils"
)

type fakeMovies struct {
	nowPlaying model.MovieResponse
	popular    map[int]model.MovieResponse
	detail     map[int]model.Movie
	credits    map[int]model.CastResponse
	search     map[int]model.MovieResponse
	err        error
	cleared    []string
}

func (f *fakeMovies) GetGenres(context.Context) (model.GenreResponse, error) {
	if f.err != nil {
		return model.GenreResponse{}, f.err
	}
	return model.GenreResponse{Genres: []model.Genre{{ID: 28, Name: "Action"}}}, nil
}

func (f *fakeMovies) GetNowPlayingMovies(context.Context) (model.MovieResponse, error) {
	return f.nowPlaying, f.err
}

func (f *fakeMovies) GetPopularMovies(_ context.Context, page int) (model.MovieResponse, error) {
	return f.popular[page], f.err
}

func (f *fakeMovies) GetMovieDetail(_ context.Context, id int) (model.Movie, error) {
	if f.err != nil {
		return model.Movie{}, f.err
	}
	m, ok := f.detail[id]
	if !ok {
		return model.Movie{}, &network.HTTPError{StatusCode: http.StatusNotFound}
	}
	return m, nil
}

func (f *fakeMovies) GetCredits(_ context.Context, id int) (model.CastResponse, error) {
	return f.credits[id], f.err
}

func (f *fakeMovies) SearchMovies(_ context.Context, _ string, page int) (model.MovieResponse, error) {
	return f.search[page], f.err
}

func (f *fakeMovies) ClearCache(_ context.Context, category model.MovieCategory) error {
	if !category.Valid() {
		return repository.ErrUnknownCategory
	}
	f.cleared = append(f.cleared, string(category))
	return nil
}

func (f *fakeMovies) ClearAllCache(context.Context) error {
	f.cleared = append(f.cleared, "*")
	return nil
}

type fakeFavourites struct {
	mu     sync.Mutex
	movies map[int]model.Movie
	err    error
}

func (f *fakeFavourites) IsFavourite(_ context.Context, id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.movies[id]
	return ok
}

func (f *fakeFavourites) AddToFavourite(_ context.Context, movie model.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.movies[movie.ID] = movie
	return nil
}

func (f *fakeFavourites) RemoveFromFavourite(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.movies, id)
	return nil
}

func (f *fakeFavourites) List(context.Context) ([]model.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Movie, 0, len(f.movies))
	for _, m := range f.movies {
		out = append(out, m)
	}
	return out, nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
}

type testAPI struct {
	engine     *gin.Engine
	movies     *fakeMovies
	favourites *fakeFavourites
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	movies := &fakeMovies{
		nowPlaying: model.MovieResponse{Results: []model.Movie{{ID: 1, Title: "Dune"}}, Page: 1, TotalPages: 1, TotalResults: 1},
		popular: map[int]model.MovieResponse{
			2: {Results: []model.Movie{{ID: 5, Title: "Heat"}}, Page: 2, TotalPages: 9, TotalResults: 90},
		},
		detail:  map[int]model.Movie{7: {ID: 7, Title: "The Batman"}},
		credits: map[int]model.CastResponse{7: {ID: 7, Cast: []model.Cast{{ID: 3, Name: "Zoë Kravitz"}}}},
		search: map[int]model.MovieResponse{
			1: {Results: []model.Movie{{ID: 7}, {ID: 8}}, Page: 1, TotalPages: 2, TotalResults: 3},
			2: {Results: []model.Movie{{ID: 8}, {ID: 9}}, Page: 2, TotalPages: 2, TotalResults: 3},
		},
	}
	favourites := &fakeFavourites{movies: make(map[int]model.Movie)}

	h := &handler.Handler{
		GenreRepo:      movies,
		MovieRepo:      movies,
		FavouriteRepo:  favourites,
		FavouriteFeed:  favourites,
		Detail:         service.NewDetailService(movies, favourites, zerolog.Nop()),
		Searcher:       movies,
		SearchMinChars: 3,
		Logger:         zerolog.Nop(),
	}
	r := gin.New()
	router.RegisterRoutes(r, h)
	return &testAPI{engine: r, movies: movies, favourites: favourites}
}

func (a *testAPI) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") && target != "/health" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	w, _ := api.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMovieLists(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodGet, "/api/movies/now-playing", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	var page model.MovieResponse
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, "Dune", page.Results[0].Title)

	w, env = api.do(t, http.MethodGet, "/api/movies/popular?page=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, "Heat", page.Results[0].Title)

	w, env = api.do(t, http.MethodGet, "/api/genres", "")
	require.Equal(t, http.StatusOK, w.Code)
	var genres model.GenreResponse
	require.NoError(t, json.Unmarshal(env.Data, &genres))
	assert.Equal(t, "Action", genres.Genres[0].Name)
}

func TestMovieDetailBundle(t *testing.T) {
	api := newTestAPI(t)
	api.favourites.movies[7] = model.Movie{ID: 7}

	w, env := api.do(t, http.MethodGet, "/api/movies/7", "")
	require.Equal(t, http.StatusOK, w.Code)
	var bundle service.DetailBundle
	require.NoError(t, json.Unmarshal(env.Data, &bundle))
	assert.Equal(t, "The Batman", bundle.Movie.Title)
	assert.Len(t, bundle.Cast, 1)
	assert.True(t, bundle.IsFavourite)

	w, _ = api.do(t, http.MethodGet, "/api/movies/404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = api.do(t, http.MethodGet, "/api/movies/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = api.do(t, http.MethodGet, "/api/movies/7/credits", "")
	require.Equal(t, http.StatusOK, w.Code)
	var credits model.CastResponse
	require.NoError(t, json.Unmarshal(env.Data, &credits))
	assert.Equal(t, "Zoë Kravitz", credits.Cast[0].Name)
}

func TestUpstreamFailureMapsToBadGateway(t *testing.T) {
	api := newTestAPI(t)
	api.movies.err = &network.HTTPError{StatusCode: http.StatusServiceUnavailable}

	w, env := api.do(t, http.MethodGet, "/api/movies/now-playing", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.False(t, env.Success)

	api.movies.err = &storage.Error{Kind: storage.KindFetchFailed, Reason: "db down"}
	w, _ = api.do(t, http.MethodGet, "/api/genres", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCancelledRequestIsNotUpstreamFailure(t *testing.T) {
	api := newTestAPI(t)

	api.movies.err = network.ErrCancelled
	w, _ := api.do(t, http.MethodGet, "/api/movies/now-playing", "")
	assert.Equal(t, utils.StatusClientClosedRequest, w.Code)

	api.movies.err = &storage.Error{Kind: storage.KindFetchFailed, Reason: "context canceled", Err: context.Canceled}
	w, _ = api.do(t, http.MethodGet, "/api/genres", "")
	assert.Equal(t, utils.StatusClientClosedRequest, w.Code)
}

func TestSearch(t *testing.T) {
	api := newTestAPI(t)

	w, _ := api.do(t, http.MethodGet, "/api/search?query=ab", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := api.do(t, http.MethodGet, "/api/search?query=bat&pages=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Query  string              `json:"query"`
		State  service.SearchState `json:"state"`
		Result model.MovieResponse `json:"result"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "bat", body.Query)
	assert.Equal(t, service.SearchLoaded, body.State.Status)
	assert.False(t, body.State.HasMore)
	assert.Len(t, body.Result.Results, 3)
	assert.Equal(t, 2, body.Result.Page)
}

func TestFavouriteLifecycle(t *testing.T) {
	api := newTestAPI(t)

	w, _ := api.do(t, http.MethodPost, "/api/favourites", `{"title":"no id"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(t, http.MethodPost, "/api/favourites", `{"id":11,"title":"Alien","genre_ids":[27]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{27}, api.favourites.movies[11].GenreIDs)

	w, env := api.do(t, http.MethodGet, "/api/favourites/11", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":11,"is_favourite":true}`, string(env.Data))

	w, env = api.do(t, http.MethodGet, "/api/favourites", "")
	require.Equal(t, http.StatusOK, w.Code)
	var movies []model.Movie
	require.NoError(t, json.Unmarshal(env.Data, &movies))
	assert.Len(t, movies, 1)

	w, _ = api.do(t, http.MethodDelete, "/api/favourites/11", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, api.favourites.movies)

	api.favourites.err = &storage.Error{Kind: storage.KindSaveFailed, Reason: "disk full"}
	w, _ = api.do(t, http.MethodPost, "/api/favourites", `{"id":12,"title":"Aliens"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestToggleFavourite(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodPost, "/api/favourites/7/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"is_favourite":true}`, string(env.Data))
	assert.Equal(t, "The Batman", api.favourites.movies[7].Title)

	w, env = api.do(t, http.MethodPost, "/api/favourites/7/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"is_favourite":false}`, string(env.Data))
}

func TestClearMovieCache(t *testing.T) {
	api := newTestAPI(t)

	w, _ := api.do(t, http.MethodDelete, "/api/cache/movies?category=popular", "")
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = api.do(t, http.MethodDelete, "/api/cache/movies", "")
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = api.do(t, http.MethodDelete, "/api/cache/movies?category=upcoming", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, []string{"popular", "*"}, api.movies.cleared)
}
