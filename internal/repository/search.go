package repository

import (
	"context"

	"github.com/user/movieexplorer/internal/endpoint"
	"github.com/user/movieexplorer/internal/model"
	"github.com/user/movieexplorer/internal/network"
)

// SearchRepository 搜索只走网络
type SearchRepository struct {
	client network.Executor
}

func NewSearchRepository(client network.Executor) *SearchRepository {
	return &SearchRepository{client: client}
}

// SearchMovies 直接返回接口结果
func (r *SearchRepository) SearchMovies(ctx context.Context, query string, page int) (model.MovieResponse, error) {
	return network.Execute[model.MovieResponse](ctx, r.client, endpoint.SearchMovie{Query: query, Page: page})
}
