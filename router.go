package main

import (
	"tonotes/config"
	"tonotes/handler"
	"tonotes/middleware"
	"tonotes/usecase"
	"tonotes/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupRouter(cfg config.Config, notesService *usecase.NotesService, store handler.Pinger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.RequestLoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.EnhancedRecoveryMiddleware())
	router.Use(middleware.ErrorHandlerMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))
	router.Use(middleware.RequestSizeLimiter(cfg.HTTP.MaxBodyBytes))

	healthHandler := handler.NewHealthHandler(store)
	router.GET("/health", healthHandler.Health)
	utils.RegisterSystemMetrics()
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	notesHandler := handler.NewNotesHandler(notesService)
	notes := router.Group("/notes", middleware.CacheControlMiddleware(middleware.NoStore))
	if cfg.JWT.SecretKey != "" {
		notes.Use(middleware.AuthMiddleware(cfg.JWT.SecretKey))
	}
	{
		notes.GET("", notesHandler.ListNotes)
		notes.POST("", notesHandler.CreateNote)
		notes.PATCH("", notesHandler.UpdateNote)
		notes.DELETE("", notesHandler.DeleteNote)
	}

	router.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "Not found")
	})

	return router
}
