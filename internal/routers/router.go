package routers

import (
	"net/http"

	"wavefeed-backend/internal/routers/api"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter() *gin.Engine {
	e := gin.New()
	e.HandleMethodNotAllowed = true
	e.Use(gin.Logger())
	e.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("X-Session-Token", "X-Address")
	e.Use(cors.New(corsConfig))

	// v1 group api
	r := e.Group("/v1")

	r.GET("/", api.Version)

	feedApi := r.Group("/")
	{
		feedApi.GET("/posts", api.GetPosts)

		feedApi.GET("/posts/combined", api.GetCombinedFeed)

		feedApi.POST("/posts/combined", api.SubmitCombinedFeed)

		feedApi.POST("/posts/combined/more", api.LoadMoreCombinedFeed)

		feedApi.POST("/posts/combined/retry", api.RetryCombinedFeed)

		feedApi.DELETE("/posts/combined", api.ClearCombinedFeed)

		feedApi.POST("/search/index", api.SyncSearchIndex)
	}

	// default 404
	e.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"code": 404,
			"msg":  "Not Found",
		})
	})

	// default 405
	e.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"code": 405,
			"msg":  "Method Not Allowed",
		})
	})

	return e
}
