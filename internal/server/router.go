package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jhjh0512/echo-fm-backend/internal/handlers"
	"github.com/jhjh0512/echo-fm-backend/internal/middleware"
)

type RouterConfig struct {
	RequestLogger    *middleware.RequestLogger
	BroadcastHandler *handlers.BroadcastHandler
	VideoHandler     *handlers.VideoHandler
	SummaryHandler   *handlers.SummaryHandler
	TTSHandler       *handlers.TTSHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	if cfg.RequestLogger != nil {
		router.Use(cfg.RequestLogger.Handler())
	}

	router.GET("/healthcheck", handlers.HealthCheck)

	// Broadcast pipeline (paths match the player client)
	router.POST("/generate", cfg.BroadcastHandler.Generate)
	router.POST("/search-video", cfg.VideoHandler.SearchVideo)
	router.POST("/summaries", cfg.SummaryHandler.Summaries)

	api := router.Group("/api")
	{
		api.POST("/tts", cfg.TTSHandler.Synthesize)
	}

	return router
}
