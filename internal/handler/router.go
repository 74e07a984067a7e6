package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rotehq/notebridge/internal/middleware"
)

type RouterDeps struct {
	Convert         *ConvertHandler
	RateLimitWindow time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/platforms", deps.Convert.Platforms)
	api.POST("/export", deps.Convert.Export)

	limited := api.Group("")
	limited.Use(middleware.RateLimit(deps.RateLimitWindow))
	limited.POST("/convert", deps.Convert.Convert)
	limited.POST("/convert/upload", deps.Convert.Upload)
	limited.POST("/convert/fetch", deps.Convert.Fetch)
	limited.POST("/convert/users", deps.Convert.Users)
	limited.POST("/convert/preview", deps.Convert.Preview)
}
