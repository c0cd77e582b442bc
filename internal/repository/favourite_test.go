package repository

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/movieexplorer/internal/event"
)

func TestFavouriteAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newFakeFavouriteStore()
	bus := event.NewBus[event.FavouriteChanged]()
	var events []event.FavouriteChanged
	bus.Subscribe(func(e event.FavouriteChanged) { events = append(events, e) })
	repo := NewFavouriteRepository(store, bus, zerolog.Nop())

	require.NoError(t, repo.AddToFavourite(ctx, movie(1, "a")))
	require.NoError(t, repo.AddToFavourite(ctx, movie(1, "a")))

	favourites, err := repo.GetFavourites(ctx)
	require.NoError(t, err)
	assert.Len(t, favourites, 1)
	assert.True(t, repo.IsFavourite(ctx, 1))
	assert.Equal(t, []event.FavouriteChanged{{MovieID: 1, Favourite: true}}, events)
}

func TestFavouriteRemove(t *testing.T) {
	ctx := context.Background()
	store := newFakeFavouriteStore()
	bus := event.NewBus[event.FavouriteChanged]()
	var events []event.FavouriteChanged
	bus.Subscribe(func(e event.FavouriteChanged) { events = append(events, e) })
	repo := NewFavouriteRepository(store, bus, zerolog.Nop())

	require.NoError(t, repo.RemoveFromFavourite(ctx, 42))
	assert.Empty(t, events)

	require.NoError(t, repo.AddToFavourite(ctx, movie(42, "x")))
	require.NoError(t, repo.RemoveFromFavourite(ctx, 42))
	assert.False(t, repo.IsFavourite(ctx, 42))
	assert.Equal(t, []event.FavouriteChanged{{MovieID: 42, Favourite: true}, {MovieID: 42, Favourite: false}}, events)
}

func TestFavouriteStoreErrors(t *testing.T) {
	ctx := context.Background()
	store := newFakeFavouriteStore()
	store.err = assert.AnError
	repo := NewFavouriteRepository(store, nil, zerolog.Nop())

	assert.ErrorIs(t, repo.AddToFavourite(ctx, movie(1, "a")), assert.AnError)
	assert.ErrorIs(t, repo.RemoveFromFavourite(ctx, 1), assert.AnError)
	assert.False(t, repo.IsFavourite(ctx, 1))
}
