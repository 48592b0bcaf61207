package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lottohub/draws-backend/internal/config"
	"github.com/lottohub/draws-backend/internal/handlers"
	"github.com/lottohub/draws-backend/internal/middleware"
)

// HandlerDependencies bundles the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler      *handlers.AuthHandler
	DrawHandler      *handlers.DrawHandler
	AdminDrawHandler *handlers.AdminDrawHandler
	CategoryHandler  *handlers.CategoryHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		// Landing page payload: listing + categories + live + featured
		public.GET("/home", deps.DrawHandler.Home)

		public.GET("/draws", deps.DrawHandler.ListDraws)
		public.GET("/draws/:id", deps.DrawHandler.GetDraw)
		public.GET("/categories", deps.DrawHandler.ListCategories)

		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
		}
	}

	// Admin routes, gated by JWT
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg))
	{
		draws := admin.Group("/draws")
		{
			draws.GET("", deps.AdminDrawHandler.ListDraws)
			draws.GET("/:id", deps.AdminDrawHandler.GetDraw)
			draws.POST("", deps.AdminDrawHandler.CreateDraw)
			draws.PUT("/:id", deps.AdminDrawHandler.UpdateDraw)
			draws.DELETE("/:id", deps.AdminDrawHandler.DeleteDraw)
		}

		categories := admin.Group("/categories")
		{
			categories.GET("", deps.CategoryHandler.ListCategories)
			categories.GET("/:id", deps.CategoryHandler.GetCategory)
			categories.POST("", deps.CategoryHandler.CreateCategory)
			categories.PUT("/:id", deps.CategoryHandler.UpdateCategory)
			categories.DELETE("/:id", deps.CategoryHandler.DeleteCategory)
		}
	}

	return router
}
