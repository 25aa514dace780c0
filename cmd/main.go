package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"leadscout/internal/caching"
	"leadscout/internal/handlers"
	"leadscout/internal/jobs/background"
	"leadscout/internal/middleware"
	"leadscout/internal/repositories"
	"leadscout/internal/services"
	"leadscout/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret: %s", jwtSecret)
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default Redis address
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDBStr := os.Getenv("REDIS_DB")
	redisDB := 0 // Default DB
	if redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000" // Default MinIO endpoint
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	// Initialize object storage
	storageSvc, err := services.NewStorageService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize storage service: %v", err)
	}
	for _, bucket := range []string{services.UploadsBucket, services.ExportsBucket} {
		if err := storageSvc.EnsureBucketExists(context.Background(), bucket); err != nil {
			log.Printf("WARNING: Failed to ensure bucket %s exists: %v", bucket, err)
		}
	}

	// Create repositories
	businessRepo := repositories.NewBusinessRepo(pool)
	routeRepo := repositories.NewRouteRepo(pool)
	datasetRepo := repositories.NewDatasetRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	businessSvc := services.NewBusinessService(businessRepo, routeRepo, cacheSvc)
	importSvc := services.NewImportService(businessRepo, datasetRepo, storageSvc, cacheSvc, businessSvc)
	routeSvc := services.NewRouteService(routeRepo, businessRepo)
	datasetSvc := services.NewDatasetService(datasetRepo, businessRepo, businessSvc, storageSvc, cacheSvc)
	exportSvc := services.NewExportService(businessSvc, storageSvc)

	// Create handlers
	importHandlers := handlers.NewImportHandlers(importSvc, cacheSvc)
	businessHandlers := handlers.NewBusinessHandlers(businessSvc)
	routeHandlers := handlers.NewRouteHandlers(routeSvc)
	datasetHandlers := handlers.NewDatasetHandlers(datasetSvc)
	exportHandlers := handlers.NewExportHandlers(exportSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	scheduler := background.NewJobScheduler(datasetRepo, datasetSvc, importSvc)
	if err := scheduler.Start(); err != nil {
		log.Printf("WARNING: Failed to start background scheduler: %v", err)
	}
	defer scheduler.Stop()

	jobHandlers := handlers.NewJobHandlers(scheduler, cacheSvc)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	// API routes
	versionMiddleware := middleware.NewVersionMiddleware()
	v1 := versionMiddleware.VersionRoute(e, "v1")

	// Protected routes (require JWT)
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(middleware.JWTConfig(jwtSecret)))

	// Import routes
	protected.POST("/imports/preview", importHandlers.PreviewImport)
	protected.POST("/imports/commit", importHandlers.CommitImport)
	protected.GET("/imports/:id/progress", importHandlers.GetImportProgress)

	// Dataset routes
	protected.GET("/datasets", datasetHandlers.ListDatasets)
	protected.GET("/datasets/:id", datasetHandlers.GetDataset)
	protected.DELETE("/datasets/:id", datasetHandlers.DeleteDataset)
	protected.GET("/datasets/:id/summary", datasetHandlers.GetDatasetSummary)

	// Business routes
	protected.POST("/datasets/:datasetId/businesses/filter", businessHandlers.FilterBusinesses)
	protected.GET("/datasets/:datasetId/businesses/stats", businessHandlers.GetEngineStats)
	protected.POST("/datasets/:datasetId/businesses/export", exportHandlers.ExportBusinesses)
	protected.GET("/businesses/:id", businessHandlers.GetBusiness)
	protected.PUT("/businesses/:id/status", businessHandlers.UpdateStatus)
	protected.PUT("/businesses/:id/phone-type", businessHandlers.SetPhoneTypeOverride)
	protected.POST("/businesses/:id/notes", businessHandlers.AddNote)
	protected.DELETE("/businesses/:id", businessHandlers.DeleteBusiness)
	protected.POST("/businesses/bulk-delete", businessHandlers.BulkDeleteBusinesses)

	// Route routes
	protected.GET("/routes", routeHandlers.ListRoutes)
	protected.POST("/routes", routeHandlers.CreateRoute)
	protected.DELETE("/routes/:id", routeHandlers.DeleteRoute)
	protected.GET("/routes/:id/stops", routeHandlers.ListStops)
	protected.POST("/routes/:id/stops", routeHandlers.AddStop)
	protected.DELETE("/routes/:id/stops/:itemId", routeHandlers.RemoveStop)
	protected.PUT("/routes/:id/stops/:itemId/position", routeHandlers.MoveStop)

	// Maintenance routes
	protected.GET("/jobs/status", jobHandlers.GetJobStatus)
	protected.POST("/cache/flush", jobHandlers.FlushCache)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Leadscout server v%s (API %s) starting on port %d", version, versionMiddleware.GetCurrentVersion(), port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
