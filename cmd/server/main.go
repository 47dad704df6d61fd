package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-ledger/internal/auth"
	"social-ledger/internal/database"
	"social-ledger/internal/handlers"
	"social-ledger/internal/services"
	"social-ledger/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	dbConfig := database.LoadConfig()
	db, err := database.Connect(dbConfig)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close(db)

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Core services share the one store handle
	sourcesService := services.NewSourcesService(db)
	postsService := services.NewPostsService(db)
	metricsService := services.NewMetricsService(db)
	safetyService := services.NewSafetyService(db)
	maintenanceService := services.NewMaintenanceService(db)

	// Live metrics stream
	hub := handlers.NewMetricsHub()
	metricsService.AttachSink(hub)

	// Optional background poller against the metrics relay
	var workerService *worker.WorkerService
	if relayURL := os.Getenv("METRICS_RELAY_URL"); relayURL != "" {
		interval := durationEnv("METRICS_POLL_INTERVAL", time.Hour)
		window := durationEnv("METRICS_POLL_WINDOW", 7*24*time.Hour)
		poller := worker.NewMetricsPoller(db, metricsService, worker.NewHTTPFetcher(relayURL), interval, window)
		workerService = worker.NewWorkerService(poller)
		if err := workerService.Start(); err != nil {
			log.Fatal("Failed to start background workers:", err)
		}
	} else {
		log.Println("METRICS_RELAY_URL not set, metrics poller disabled")
	}

	setupGracefulShutdown(db, workerService)
	setupServer(db, hub, sourcesService, postsService, metricsService, safetyService, maintenanceService)
}

func setupGracefulShutdown(db *gorm.DB, workerService *worker.WorkerService) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Received shutdown signal, gracefully shutting down...")
		if workerService != nil {
			workerService.Stop()
		}
		database.Close(db)
		log.Println("Shutdown complete")
		os.Exit(0)
	}()
}

func setupServer(
	db *gorm.DB,
	hub *handlers.MetricsHub,
	sourcesService *services.SourcesService,
	postsService *services.PostsService,
	metricsService *services.MetricsService,
	safetyService *services.SafetyService,
	maintenanceService *services.MaintenanceService,
) {
	// Set Gin mode based on environment
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Collaborator token auth
	secret := os.Getenv("SERVICE_TOKEN_SECRET")
	if secret == "" {
		log.Fatal("SERVICE_TOKEN_SECRET must be set")
	}
	tokens := auth.NewTokenService(secret)

	// Initialize handlers
	sourcesHandler := handlers.NewSourcesHandler(sourcesService)
	postsHandler := handlers.NewPostsHandler(postsService)
	metricsHandler := handlers.NewMetricsHandler(metricsService)
	safetyHandler := handlers.NewSafetyHandler(safetyService)
	adminHandler := handlers.NewAdminHandler(db, maintenanceService)
	docsHandler := handlers.NewDocsHandler()
	streamHandler := handlers.NewStreamHandler(hub)

	// Health check
	r.GET("/health", adminHandler.HealthCheck)

	// Documentation
	r.GET("/docs/:doc", docsHandler.ServeMarkdownAsHTML)

	// Live metrics stream
	r.GET("/ws/metrics", streamHandler.ServeWS)

	// Read API
	api := r.Group("/api")
	{
		api.GET("/sources/lookup", sourcesHandler.Lookup)
		api.GET("/sources/:id", sourcesHandler.Get)
		api.GET("/posts", postsHandler.List)
		api.GET("/posts/duplicates", postsHandler.Duplicates)
		api.GET("/posts/:id/performance", postsHandler.Performance)
		api.GET("/posts/:id/safety", safetyHandler.List)
		api.GET("/analytics/:platform", metricsHandler.Analytics)
	}

	// Mutating API requires a collaborator service token
	mutating := r.Group("/api", handlers.RequireServiceToken(tokens))
	{
		mutating.POST("/sources", sourcesHandler.Register)
		mutating.POST("/sources/:id/processed", sourcesHandler.MarkProcessed)
		mutating.POST("/posts", postsHandler.Create)
		mutating.POST("/posts/:id/status", postsHandler.Transition)
		mutating.POST("/posts/:id/metrics", metricsHandler.Report)
		mutating.POST("/posts/:id/safety", safetyHandler.Append)
	}

	// Admin endpoints
	admin := r.Group("/admin", adminHandler.AdminAuth())
	{
		admin.GET("/status", adminHandler.Status)
		admin.GET("/integrity", adminHandler.Integrity)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// durationEnv parses a duration environment variable with a fallback
func durationEnv(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid %s %q, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return parsed
}
