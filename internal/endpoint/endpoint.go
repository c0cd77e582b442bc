// Package endpoint 电影目录 API 的请求定义
package endpoint

import (
	"fmt"

	"github.com/user/movieexplorer/internal/network"
)

// NowPlaying 正在上映
type NowPlaying struct {
	network.RequestDefaults
}

func (NowPlaying) Path() string           { return "movie/now_playing" }
func (NowPlaying) Method() network.Method { return network.MethodGet }

// Popular 热门电影，按页获取
type Popular struct {
	network.RequestDefaults
	Page int
}

func (Popular) Path() string           { return "movie/popular" }
func (Popular) Method() network.Method { return network.MethodGet }

func (p Popular) Encoders() []network.Encoder {
	return []network.Encoder{network.URLEncoder(network.Parameters{"page": pageOrFirst(p.Page)})}
}

// GenreList 电影类型列表
type GenreList struct {
	network.RequestDefaults
}

func (GenreList) Path() string           { return "genre/movie/list" }
func (GenreList) Method() network.Method { return network.MethodGet }

// MovieDetail 单部电影详情
type MovieDetail struct {
	network.RequestDefaults
	ID int
}

func (d MovieDetail) Path() string        { return fmt.Sprintf("movie/%d", d.ID) }
func (MovieDetail) Method() network.Method { return network.MethodGet }

// Credits 演职员表
type Credits struct {
	network.RequestDefaults
	ID int
}

func (c Credits) Path() string        { return fmt.Sprintf("movie/%d/credits", c.ID) }
func (Credits) Method() network.Method { return network.MethodGet }

// SearchMovie 按关键字搜索
type SearchMovie struct {
	network.RequestDefaults
	Query string
	Page  int
}

func (SearchMovie) Path() string           { return "search/movie" }
func (SearchMovie) Method() network.Method { return network.MethodGet }

func (s SearchMovie) Encoders() []network.Encoder {
	return []network.Encoder{network.URLEncoder(network.Parameters{
		"query": s.Query,
		"page":  pageOrFirst(s.Page),
	})}
}

func pageOrFirst(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
