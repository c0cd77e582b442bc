package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/movieexplorer/internal/endpoint"
)

func TestSearchPassThrough(t *testing.T) {
	exec := &fakeExecutor{handler: respond(page(2, 5, movie(268, "Batman")))}
	repo := NewSearchRepository(exec)

	resp, err := repo.SearchMovies(context.Background(), "batman", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Page)
	assert.True(t, resp.HasMore())
	require.Len(t, exec.calls, 1)
	assert.Equal(t, endpoint.SearchMovie{Query: "batman", Page: 2}, exec.calls[0])

	exec.handler = fail(errOffline)
	_, err = repo.SearchMovies(context.Background(), "batman", 3)
	assert.ErrorIs(t, err, errOffline)
}
