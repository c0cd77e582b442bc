package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/user/movieexplorer/internal/handler"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/genres", h.Genres)
		api.GET("/search", h.Search)

		movies := api.Group("/movies")
		movies.GET("/now-playing", h.NowPlaying)
		movies.GET("/popular", h.Popular)
		movies.GET("/:id", h.MovieDetail)
		movies.GET("/:id/credits", h.Credits)

		favourites := api.Group("/favourites")
		favourites.GET("", h.Favourites)
		favourites.POST("", h.AddFavourite)
		favourites.GET("/:id", h.FavouriteStatus)
		favourites.DELETE("/:id", h.RemoveFavourite)
		favourites.POST("/:id/toggle", h.ToggleFavourite)

		api.DELETE("/cache/movies", h.ClearMovieCache)
	}
}
