package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/user/movieexplorer/internal/model"
	"github.com/user/movieexplorer/internal/service"
	"github.com/user/movieexplorer/internal/utils"
)

// Genres 类型列表
func (h *Handler) Genres(c *gin.Context) {
	resp, err := h.GenreRepo.GetGenres(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, resp)
}

// NowPlaying 正在上映
func (h *Handler) NowPlaying(c *gin.Context) {
	resp, err := h.MovieRepo.GetNowPlayingMovies(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, resp)
}

// Popular 热门，?page=N
func (h *Handler) Popular(c *gin.Context) {
	page := parsePositive(c.Query("page"), 1)
	resp, err := h.MovieRepo.GetPopularMovies(c.Request.Context(), page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, resp)
}

// MovieDetail 详情、演职员表和收藏状态
func (h *Handler) MovieDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	bundle, err := h.Detail.Load(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, bundle)
}

// Credits 演职员表
func (h *Handler) Credits(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.MovieRepo.GetCredits(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, resp)
}

// Search ?query=Q&pages=N，从第一页开始累积 N 页，结果按 id 去重
func (h *Handler) Search(c *gin.Context) {
	pages := min(parsePositive(c.Query("pages"), 1), maxSearchPages)
	session := service.NewSearchSession(h.Searcher, h.SearchMinChars, h.Logger)

	ctx := c.Request.Context()
	if err := session.Search(ctx, c.Query("query")); err != nil {
		h.respondError(c, err)
		return
	}
	for i := 1; i < pages && session.State().HasMore; i++ {
		if err := session.LoadMore(ctx); err != nil {
			h.respondError(c, err)
			return
		}
	}

	utils.Success(c, gin.H{
		"query":  session.Query(),
		"state":  session.State(),
		"result": session.Result(),
	})
}

// ClearMovieCache ?category=C，为空时清空所有分区
func (h *Handler) ClearMovieCache(c *gin.Context) {
	ctx := c.Request.Context()
	category := c.Query("category")

	var err error
	if category == "" {
		err = h.MovieRepo.ClearAllCache(ctx)
	} else {
		err = h.MovieRepo.ClearCache(ctx, model.MovieCategory(category))
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "缓存已清空", gin.H{"category": category})
}
