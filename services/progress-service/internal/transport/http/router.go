package handlers

import (
	"net/http"
	"time"

	"learnplatform/services/progress-service/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Dashboard *DashboardHandler
	Tokens    middleware.TokenValidator
	Limiter   *middleware.RateLimiter
	Origins   []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	if len(deps.Origins) > 0 {
		config.AllowOrigins = deps.Origins
		config.AllowCredentials = true
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "OPTIONS"}
	r.Use(cors.New(config))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		dashboard := []gin.HandlerFunc{deps.Dashboard.Dashboard}
		if deps.Limiter != nil {
			dashboard = append([]gin.HandlerFunc{deps.Limiter.Limit("dashboard", 30, time.Minute)}, dashboard...)
		}
		api.GET("/dashboard", dashboard...)
		api.GET("/my-courses", deps.Dashboard.MyCourses)
		api.GET("/courses/:id/progress", deps.Dashboard.CourseProgress)
	}

	return r
}
