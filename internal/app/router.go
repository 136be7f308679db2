package app

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"kennelbook.io/kennelbook/internal/api/handlers"
	"kennelbook.io/kennelbook/internal/api/middleware"
	"kennelbook.io/kennelbook/internal/config"
)

func newRouter(cfg config.ServerConfig, server *handlers.Server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.ErrorHandler())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	server.RegisterHealthRoutes(router)
	server.RegisterRoutes(router.Group("/api/v1"))
	return router
}
