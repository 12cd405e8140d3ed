package main

import (
	"log"

	"account-research-report/internal/api"
	"account-research-report/internal/config"
	"account-research-report/internal/database"
	"account-research-report/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize MongoDB client (optional - for the completed-task archive)
	var mongoClient *database.MongoDBClient
	if cfg.MongoDB.URI != "" || cfg.MongoDB.Host != "" {
		log.Printf("Initializing MongoDB connection (Host: %s, Port: %s, Database: %s)",
			cfg.MongoDB.Host, cfg.MongoDB.Port, cfg.MongoDB.Database)
		mongoClient, err = database.NewMongoDBClient(cfg.MongoDB)
		if err != nil {
			log.Printf("WARNING: Failed to connect to MongoDB (archive disabled): %v", err)
			mongoClient = nil
		} else {
			log.Printf("Successfully connected to MongoDB for the task archive")
			defer mongoClient.Close()
		}
	} else {
		log.Printf("MongoDB not configured (Host and URI are empty), task archive disabled")
	}

	// Initialize services
	aiService := services.NewAIService(cfg.OpenAI)
	if cfg.OpenAI.APIKey == "" {
		log.Printf("WARNING: OPENAI_API_KEY not configured, generation tasks will fail")
	}
	pdfService := services.NewPDFService()
	taskService := services.NewTaskService()
	reportService := services.NewReportService(taskService, aiService, pdfService, mongoClient, cfg.Artifacts.Dir)

	// Start the retention scheduler
	retentionService := services.NewRetentionService(taskService, mongoClient, cfg.Artifacts.RetentionAge)
	if err := retentionService.Start(); err != nil {
		log.Fatalf("Failed to start retention scheduler: %v", err)
	}
	defer retentionService.Stop()

	// Optional JWT auth
	var jwtService *services.JWTService
	if cfg.Auth.JWTSecret != "" {
		jwtService = services.NewJWTService(cfg.Auth.JWTSecret)
		log.Printf("API authentication enabled")
	} else {
		log.Printf("AUTH_JWT_SECRET not configured, API served without authentication")
	}

	// Initialize handlers and routes
	handlers := api.NewHandlers(reportService, taskService)
	router := api.SetupRoutes(handlers, jwtService)

	// Start server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
