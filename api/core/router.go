package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	handlerAuth "github.com/mivura/feedbed/api/handler/auth"
	handlerFeed "github.com/mivura/feedbed/api/handler/feed"
	handlerImages "github.com/mivura/feedbed/api/handler/images"
	"github.com/mivura/feedbed/api/middleware"
	"github.com/mivura/feedbed/config"
)

// RouterDependencies 路由注册依赖
type RouterDependencies struct {
	*ServerDependencies

	AuthRateLimiter  *middleware.IPRateLimiter
	APIRateLimiter   *middleware.IPRateLimiter
	ImageRateLimiter *middleware.IPRateLimiter
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, deps *RouterDependencies) {
	registerBasicRoutes(router, deps)
	registerPublicRoutes(router, deps)
	registerAPIRoutes(router, deps)
}

// registerBasicRoutes 注册基础路由
func registerBasicRoutes(router *gin.Engine, deps *RouterDependencies) {
	router.GET("/health", func(c *gin.Context) {
		health := gin.H{
			"status":  "ok",
			"uptime":  timeSinceStart(),
			"version": config.Version,
			"checks": gin.H{
				"database": checkDatabaseHealth(deps.DB),
				"cache":    checkCacheHealth(deps.CacheProvider),
				"storage":  checkStorageHealth(deps.StorageFactory),
			},
		}
		httpStatus := http.StatusOK
		for _, checkResult := range health["checks"].(gin.H) {
			if result, ok := checkResult.(string); ok && result != "ok" {
				httpStatus = http.StatusServiceUnavailable
				break
			}
		}
		c.JSON(httpStatus, health)
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})

	router.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, middleware.GetMetrics())
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// registerPublicRoutes 注册公共图片访问路由
func registerPublicRoutes(router *gin.Engine, deps *RouterDependencies) {
	imageHandler := handlerImages.NewHandler(deps.StorageFactory.GetDefault())

	publicGroup := router.Group("/images")
	publicGroup.Use(deps.ImageRateLimiter.Middleware())
	{
		publicGroup.GET("/:identifier", imageHandler.GetImage) // GET /images/{photo}
	}
}

// registerAPIRoutes 注册业务路由
func registerAPIRoutes(router *gin.Engine, deps *RouterDependencies) {
	feedHandler := handlerFeed.NewHandler(deps.FeedService, deps.Config.BaseURL())
	authHandler := handlerAuth.NewHandler(deps.IdentityService)

	feedGroup := router.Group("/feed")
	feedGroup.Use(deps.APIRateLimiter.Middleware())
	{
		feedGroup.GET("/posts", feedHandler.ListPosts)            // GET /feed/posts?page=N
		feedGroup.POST("/post", feedHandler.CreatePost)           // POST /feed/post
		feedGroup.GET("/post/:postId", feedHandler.GetPost)       // GET /feed/post/{postId}
		feedGroup.PUT("/post/:postId", feedHandler.UpdatePost)    // PUT /feed/post/{postId}
		feedGroup.DELETE("/post/:postId", feedHandler.DeletePost) // DELETE /feed/post/{postId}
	}

	authGroup := router.Group("/auth")
	authGroup.Use(deps.AuthRateLimiter.Middleware())
	{
		authGroup.PUT("/signup", authHandler.Signup) // PUT /auth/signup
	}
}
