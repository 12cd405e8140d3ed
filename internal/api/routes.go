package api

import (
	"account-research-report/internal/middleware"
	"account-research-report/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes. jwtService may be nil, in which case
// the API is served without authentication.
func SetupRoutes(handlers *Handlers, jwtService *services.JWTService) *gin.Engine {
	router := gin.Default()

	// Add CORS middleware
	router.Use(corsMiddleware())

	routes := router.Group("/")
	if jwtService != nil {
		routes.Use(middleware.AuthenticateUser(jwtService))
	}
	{
		routes.POST("/generate", handlers.GenerateHandler)
		routes.GET("/status/:taskId", handlers.StatusHandler)
		routes.GET("/result/:taskId/pdf", handlers.ResultHandler)
		routes.GET("/tasks", handlers.ListTasksHandler)
		routes.GET("/languages", handlers.LanguagesHandler)
		routes.GET("/sections", handlers.SectionsHandler)
		routes.GET("/ws/status/:taskId", handlers.StreamStatusHandler)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
