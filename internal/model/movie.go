package model

// Genre 电影类型
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreResponse 类型列表响应
type GenreResponse struct {
	Genres []Genre `json:"genres"`
}

// Movie 电影。列表接口只返回 genre_ids，详情接口才有 genres 和 runtime。
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	Popularity   float64 `json:"popularity"`
	PosterPath   *string `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`
	BackdropPath *string `json:"backdrop_path"`
	Genres       []Genre `json:"genres,omitempty"`
	Runtime      *int    `json:"runtime"`
}

// Cast 演员
type Cast struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	OriginalName string  `json:"original_name"`
	ProfilePath  *string `json:"profile_path"`
	Character    *string `json:"character"`
}

// CastResponse 演职员表响应
type CastResponse struct {
	ID   int    `json:"id"`
	Cast []Cast `json:"cast"`
}

// Page 分页响应
type Page[T any] struct {
	Results      []T `json:"results"`
	Page         int `json:"page"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// HasMore 是否还有下一页
func (p Page[T]) HasMore() bool {
	return p.Page < p.TotalPages
}

// MovieResponse 电影列表响应
type MovieResponse = Page[Movie]

// MovieCategory 缓存分区
type MovieCategory string

const (
	CategoryNowPlaying MovieCategory = "now_playing"
	CategoryPopular    MovieCategory = "popular"
	CategoryDetail     MovieCategory = "detail"
)

// MovieCategories 所有分区
var MovieCategories = []MovieCategory{CategoryNowPlaying, CategoryPopular, CategoryDetail}

// Valid 是否为已知分区
func (c MovieCategory) Valid() bool {
	switch c {
	case CategoryNowPlaying, CategoryPopular, CategoryDetail:
		return true
	}
	return false
}
