package model

import (
	"time"

	"github.com/lib/pq"
)

// GenreEntity 缓存的电影类型
type GenreEntity struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime:false"`
}

func (GenreEntity) TableName() string { return "genres" }

// MovieEntity 缓存的电影，同一个 id 在每个分区各占一行
type MovieEntity struct {
	ID           int64         `gorm:"column:id;primaryKey;autoIncrement:false"`
	Category     MovieCategory `gorm:"column:category;primaryKey"`
	Title        string        `gorm:"column:title"`
	Overview     string        `gorm:"column:overview"`
	Popularity   float64       `gorm:"column:popularity"`
	PosterPath   *string       `gorm:"column:poster_path"`
	ReleaseDate  string        `gorm:"column:release_date"`
	VoteAverage  float64       `gorm:"column:vote_average"`
	GenreIDs     pq.Int64Array `gorm:"column:genre_ids;type:integer[]"`
	BackdropPath *string       `gorm:"column:backdrop_path"`
	Runtime      *int          `gorm:"column:runtime"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime:false"`
}

func (MovieEntity) TableName() string { return "movies" }

// FavouriteMovieEntity 收藏的电影快照
type FavouriteMovieEntity struct {
	ID           int64         `gorm:"column:id;primaryKey;autoIncrement:false"`
	Title        string        `gorm:"column:title"`
	Overview     string        `gorm:"column:overview"`
	Popularity   float64       `gorm:"column:popularity"`
	PosterPath   *string       `gorm:"column:poster_path"`
	ReleaseDate  string        `gorm:"column:release_date"`
	VoteAverage  float64       `gorm:"column:vote_average"`
	GenreIDs     pq.Int64Array `gorm:"column:genre_ids;type:integer[]"`
	BackdropPath *string       `gorm:"column:backdrop_path"`
	Runtime      *int          `gorm:"column:runtime"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime:false"`
}

func (FavouriteMovieEntity) TableName() string { return "favourite_movies" }
