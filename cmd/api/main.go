package main

import (
	"fmt"
	"net/http"
	"os"

	"papertrade/internal/config"
	"papertrade/internal/database"
	"papertrade/internal/handlers"
	"papertrade/internal/logger"
	"papertrade/internal/middleware"
	"papertrade/internal/quotes"
	"papertrade/internal/services"
	"papertrade/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "papertrade/internal/docs" // Import swagger docs
)

// @title           Papertrade API
// @version         1.0
// @description     Papertrade is a stock-trading simulator: register, get simulated cash, look up real-time quotes, and buy/sell simulated shares with a full transaction history and portfolio valuation.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Quote provider: HTTP client when a token is configured, otherwise an
	// empty in-memory provider so the API still starts in development.
	var provider quotes.Provider
	if appConfig.QuoteAPIToken != "" {
		provider = quotes.NewClient(quotes.ClientConfig{
			BaseURL:   appConfig.QuoteBaseURL,
			APIToken:  appConfig.QuoteAPIToken,
			Timeout:   appConfig.QuoteTimeout,
			RateLimit: appConfig.QuoteRateLimit,
			RateBurst: appConfig.QuoteRateBurst,
		}, log)
	} else {
		log.Warn("QUOTE_API_TOKEN not set, using empty in-memory quote provider")
		provider = quotes.NewMemoryProvider()
	}

	// Initialize services
	db := dbManager.DB()
	ledgerStore := services.NewLedgerStore(db)
	userService := services.NewUserService(ledgerStore)
	orderService := services.NewOrderService(ledgerStore, provider)
	portfolioService := services.NewPortfolioService(ledgerStore, provider)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	quoteHandler := handlers.NewQuoteHandler(provider)
	orderHandler := handlers.NewOrderHandler(orderService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	transactionHandler := handlers.NewTransactionHandler(ledgerStore)

	// Register custom binding validators
	validator.Register()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
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

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Quote lookup
	protected.GET("/quote", quoteHandler.GetQuote)

	// Orders and cash
	orders := protected.Group("/orders")
	orders.POST("/buy", orderHandler.Buy)
	orders.POST("/sell", orderHandler.Sell)
	protected.POST("/cash/deposit", orderHandler.Deposit)

	// Portfolio and history
	protected.GET("/portfolio", portfolioHandler.GetPortfolio)
	protected.GET("/transactions", transactionHandler.GetHistory)

	log.Infof("Starting papertrade server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
