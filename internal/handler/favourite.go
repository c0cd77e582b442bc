package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/user/movieexplorer/internal/model"
	"github.com/user/movieexplorer/internal/utils"
)

// AddFavouriteRequest 收藏时提交的电影快照
type AddFavouriteRequest struct {
	ID           int     `json:"id" binding:"required,gt=0"`
	Title        string  `json:"title" binding:"required"`
	Overview     string  `json:"overview"`
	Popularity   float64 `json:"popularity"`
	PosterPath   *string `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int   `json:"genre_ids"`
	BackdropPath *string `json:"backdrop_path"`
	Runtime      *int    `json:"runtime"`
}

func (r AddFavouriteRequest) movie() model.Movie {
	return model.Movie{
		ID:           r.ID,
		Title:        r.Title,
		Overview:     r.Overview,
		Popularity:   r.Popularity,
		PosterPath:   r.PosterPath,
		ReleaseDate:  r.ReleaseDate,
		VoteAverage:  r.VoteAverage,
		GenreIDs:     r.GenreIDs,
		BackdropPath: r.BackdropPath,
		Runtime:      r.Runtime,
	}
}

// Favourites 收藏列表，最新的在前
func (h *Handler) Favourites(c *gin.Context) {
	movies, err := h.FavouriteFeed.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, movies)
}

// AddFavourite 添加收藏，已收藏时不做任何事
func (h *Handler) AddFavourite(c *gin.Context) {
	var req AddFavouriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误")
		return
	}
	if err := h.FavouriteRepo.AddToFavourite(c.Request.Context(), req.movie()); err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "已收藏", gin.H{"id": req.ID, "is_favourite": true})
}

// FavouriteStatus 是否已收藏
func (h *Handler) FavouriteStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	utils.Success(c, gin.H{"id": id, "is_favourite": h.FavouriteRepo.IsFavourite(c.Request.Context(), id)})
}

// RemoveFavourite 取消收藏，未收藏时不做任何事
func (h *Handler) RemoveFavourite(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.FavouriteRepo.RemoveFromFavourite(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "已取消收藏", gin.H{"id": id, "is_favourite": false})
}

// ToggleFavourite 切换收藏状态，收藏时保存详情快照
func (h *Handler) ToggleFavourite(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	on, err := h.Detail.ToggleFavourite(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"id": id, "is_favourite": on})
}
