package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/movieexplorer/internal/model"
)

type fakeDetailSource struct {
	movie      model.Movie
	movieErr   error
	credits    model.CastResponse
	creditsErr error
}

func (f *fakeDetailSource) GetMovieDetail(context.Context, int) (model.Movie, error) {
	return f.movie, f.movieErr
}

func (f *fakeDetailSource) GetCredits(context.Context, int) (model.CastResponse, error) {
	return f.credits, f.creditsErr
}

type fakeToggler struct {
	mu     sync.Mutex
	saved  map[int]model.Movie
	addErr error
}

func newFakeToggler() *fakeToggler {
	return &fakeToggler{saved: make(map[int]model.Movie)}
}

func (f *fakeToggler) IsFavourite(_ context.Context, id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.saved[id]
	return ok
}

func (f *fakeToggler) AddToFavourite(_ context.Context, movie model.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.saved[movie.ID] = movie
	return nil
}

func (f *fakeToggler) RemoveFromFavourite(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, id)
	return nil
}

func TestDetailLoad(t *testing.T) {
	ctx := context.Background()
	character := "Batman"
	source := &fakeDetailSource{
		movie:   model.Movie{ID: 7, Title: "The Batman"},
		credits: model.CastResponse{ID: 7, Cast: []model.Cast{{ID: 1, Name: "Robert Pattinson", Character: &character}}},
	}
	favourites := newFakeToggler()
	favourites.saved[7] = model.Movie{ID: 7}
	svc := NewDetailService(source, favourites, zerolog.Nop())

	bundle, err := svc.Load(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "The Batman", bundle.Movie.Title)
	require.Len(t, bundle.Cast, 1)
	assert.Equal(t, "Robert Pattinson", bundle.Cast[0].Name)
	assert.True(t, bundle.IsFavourite)
}

func TestDetailLoadCreditsFailureIsNotFatal(t *testing.T) {
	source := &fakeDetailSource{
		movie:      model.Movie{ID: 7, Title: "The Batman"},
		creditsErr: errors.New("credits unavailable"),
	}
	svc := NewDetailService(source, newFakeToggler(), zerolog.Nop())

	bundle, err := svc.Load(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, bundle.Movie.ID)
	assert.NotNil(t, bundle.Cast)
	assert.Empty(t, bundle.Cast)
	assert.False(t, bundle.IsFavourite)
}

func TestDetailLoadMovieFailure(t *testing.T) {
	boom := errors.New("offline")
	svc := NewDetailService(&fakeDetailSource{movieErr: boom}, newFakeToggler(), zerolog.Nop())

	bundle, err := svc.Load(context.Background(), 7)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, DetailBundle{}, bundle)
}

func TestToggleFavourite(t *testing.T) {
	ctx := context.Background()
	source := &fakeDetailSource{movie: model.Movie{ID: 7, Title: "The Batman"}}
	favourites := newFakeToggler()
	svc := NewDetailService(source, favourites, zerolog.Nop())

	on, err := svc.ToggleFavourite(ctx, 7)
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, "The Batman", favourites.saved[7].Title)

	on, err = svc.ToggleFavourite(ctx, 7)
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, favourites.saved)
}

func TestToggleFavouriteFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("offline")

	svc := NewDetailService(&fakeDetailSource{movieErr: boom}, newFakeToggler(), zerolog.Nop())
	on, err := svc.ToggleFavourite(ctx, 7)
	assert.ErrorIs(t, err, boom)
	assert.False(t, on)

	favourites := newFakeToggler()
	favourites.addErr = boom
	svc = NewDetailService(&fakeDetailSource{movie: model.Movie{ID: 7}}, favourites, zerolog.Nop())
	on, err = svc.ToggleFavourite(ctx, 7)
	assert.ErrorIs(t, err, boom)
	assert.False(t, on)
}
