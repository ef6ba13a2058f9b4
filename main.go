package main

import (
	"context"
	"log"
	"os"
	"time"

	"financial-advisor/api/handlers"
	"financial-advisor/api/logger"
	"financial-advisor/api/middleware"
	"financial-advisor/api/mongodb"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	development := os.Getenv("GIN_MODE") != "release"
	if err := logger.Init(development, logger.LogLevel(os.Getenv("LOG_LEVEL"))); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongodb.Connect(ctx)
	if err != nil {
		logger.Get().Fatal("failed to initialize MongoDB", zap.Error(err))
	}
	defer mongodb.Disconnect(mongoClient)

	store := mongodb.NewStore(mongoClient)
	profileHandler := handlers.NewProfileHandler(store)

	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"}) // Only trust local proxies

	router.Use(middleware.RequestLogging)
	router.Use(middleware.CorsMiddleware)
	router.Use(middleware.AuthMiddleware)

	// API routes
	api := router.Group("/api")
	{
		api.GET("/profile/me", profileHandler.GetMyProfile)
		api.GET("/profile/questions", handlers.GetQuestions)
		api.GET("/profile/:id", profileHandler.GetProfileByID)
		api.GET("/profile", profileHandler.ListProfiles)
		api.PUT("/profile", profileHandler.UpsertProfile)
		api.POST("/profile", profileHandler.UpsertProfile)
		api.DELETE("/profile", profileHandler.DeleteProfile)
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Get().Info("server starting", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		logger.Get().Fatal("failed to start server", zap.Error(err))
	}
}
