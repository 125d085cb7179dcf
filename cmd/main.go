package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/jhjh0512/echo-fm-backend/internal/cache"
	"github.com/jhjh0512/echo-fm-backend/internal/handlers"
	"github.com/jhjh0512/echo-fm-backend/internal/logger"
	"github.com/jhjh0512/echo-fm-backend/internal/middleware"
	"github.com/jhjh0512/echo-fm-backend/internal/server"
	"github.com/jhjh0512/echo-fm-backend/internal/services"
	"github.com/jhjh0512/echo-fm-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Services
	log.Info("Setting up services from main...")
	openaiClient, err := services.NewOpenAIClient(log)
	if err != nil {
		log.Error("Could not init OpenAIClient", "error", err)
		os.Exit(1)
	}
	searcher, err := services.NewYouTubeSearcher(context.Background())
	if err != nil {
		log.Error("Could not init YouTube searcher", "error", err)
		os.Exit(1)
	}
	validator := services.NewVideoValidator(log)
	resolver := services.NewVideoResolver(log, searcher, validator)
	fallback := services.NewModelFallbackResolver(log, openaiClient, validator)
	generator := services.NewPlaylistGenerator(log, openaiClient, validator, resolver, fallback)
	summaryCache := cache.NewSummaryCache(log)
	summarizer := services.NewNarrationSummarizer(log, openaiClient, summaryCache)
	speechService, err := services.NewSpeechService(log, openaiClient)
	if err != nil {
		log.Error("Could not init SpeechService", "error", err)
		os.Exit(1)
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	broadcastHandler := handlers.NewBroadcastHandler(log, generator)
	videoHandler := handlers.NewVideoHandler(log, resolver, fallback)
	summaryHandler := handlers.NewSummaryHandler(log, summarizer)
	ttsHandler := handlers.NewTTSHandler(log, speechService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		RequestLogger:    middleware.NewRequestLogger(log),
		BroadcastHandler: broadcastHandler,
		VideoHandler:     videoHandler,
		SummaryHandler:   summaryHandler,
		TTSHandler:       ttsHandler,
	})

	port := utils.GetEnv("PORT", "3001", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}
