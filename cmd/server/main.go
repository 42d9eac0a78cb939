package main

import (
	"fmt"
	"net/http"
	"os"

	"upcache/internal/config"
	"upcache/internal/database"
	"upcache/internal/handlers"
	"upcache/internal/logger"
	"upcache/internal/middleware"
	"upcache/internal/models"
	"upcache/internal/services"
	"upcache/internal/upbank"
	"upcache/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "upcache/internal/docs" // Import swagger docs
)

// @title           Up Transaction Cache API
// @version         1.0
// @description     Caching and query layer over the Up banking API. Mirrors accounts, categories, and transactions locally and serves filtered, paginated, and aggregated views of the cache.

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Up API client with the configured per-request timeout
	bankAPI := upbank.NewClient(appConfig.UpAPIBaseURL, appConfig.UpAccessToken, &http.Client{
		Timeout: appConfig.UpRequestTimeout,
	})

	// Cache progress lands in the log; a UI consumer would subscribe here
	// instead.
	events := &services.Events{
		AccountsUpdating:   func() { log.Debug("Refreshing accounts") },
		AccountsUpdated:    func(accounts []models.Account) { log.Debugw("Accounts refreshed", "count", len(accounts)) },
		CategoriesUpdating: func() { log.Debug("Refreshing categories") },
		CategoriesUpdated: func(categories []models.Category) {
			log.Debugw("Categories refreshed", "count", len(categories))
		},
		TransactionCacheStarted:  func() { log.Info("Transaction cache run started") },
		TransactionCacheFinished: func() { log.Info("Transaction cache run finished") },
		TransactionCacheMessage:  func(message string) { log.Infow("cache progress", "message", message) },
	}

	// Initialize services
	db := dbManager.DB()
	accountService := services.NewAccountService(db, bankAPI, events)
	categoryService := services.NewCategoryService(db, bankAPI, events)
	queryService := services.NewTransactionQueryService(db)
	cacheService := services.NewTransactionCacheService(db, bankAPI, categoryService, queryService, events)

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(accountService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(cacheService, queryService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Account routes
	accounts := v1.Group("/accounts")
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)

	// Category routes
	categories := v1.Group("/categories")
	categories.GET("", categoryHandler.GetCategories)

	// Transaction routes
	transactions := v1.Group("/transactions")
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.POST("/cache", transactionHandler.CacheTransactions)
	transactions.GET("/stats", transactionHandler.GetCacheStats)
	transactions.GET("/aggregates/daily", transactionHandler.GetDailySums)

	log.Infof("Starting transaction cache server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
