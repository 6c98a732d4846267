package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/You2499/settleease/internal/config"
	"github.com/You2499/settleease/internal/database"
	"github.com/You2499/settleease/internal/handlers"
	"github.com/You2499/settleease/internal/logger"
	"github.com/You2499/settleease/internal/middleware"
	"github.com/You2499/settleease/internal/services"
	"github.com/You2499/settleease/internal/summary"
	"github.com/You2499/settleease/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/You2499/settleease/internal/docs" // Import swagger docs
)

// @title           SettleEase API
// @version         1.0
// @description     SettleEase tracks shared group expenses and computes who owes whom, including a simplified settlement plan that minimizes the number of payments.
// @termsOfService  http://swagger.io/terms/

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

	// Register custom request validations
	validator.Register()

	// Create database manager
	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	personService := services.NewPersonService(db)
	categoryService := services.NewCategoryService(db)
	expenseService := services.NewExpenseService(db)
	settlementService := services.NewSettlementService(db)
	summaryClient := summary.NewClient(summary.Config{
		BaseURL: appConfig.AIBaseURL,
		APIKey:  appConfig.AIAPIKey,
		Models:  appConfig.AIModels,
		Timeout: appConfig.AITimeout,
	})
	summaryService := services.NewSummaryService(db, settlementService, summaryClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	personHandler := handlers.NewPersonHandler(personService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	settlementHandler := handlers.NewSettlementHandler(settlementService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)

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
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// People routes
	people := protected.Group("/people")
	people.POST("", personHandler.CreatePerson)
	people.GET("", personHandler.ListPeople)
	people.GET("/:id", personHandler.GetPerson)
	people.PUT("/:id", personHandler.UpdatePerson)
	people.DELETE("/:id", personHandler.DeletePerson)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.ListExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Settlement routes
	settlements := protected.Group("/settlements")
	settlements.GET("/balances", settlementHandler.GetBalances)
	settlements.GET("/pairwise", settlementHandler.GetPairwiseDebts)
	settlements.GET("/simplified", settlementHandler.GetSimplifiedDebts)
	settlements.POST("/payments", settlementHandler.RecordPayment)
	settlements.GET("/payments", settlementHandler.ListPayments)
	settlements.PUT("/payments/:id", middleware.AdminOnly(), settlementHandler.UpdatePayment)
	settlements.DELETE("/payments/:id", settlementHandler.DeletePayment)

	// Summary route
	protected.GET("/summary", summaryHandler.GetSummary)

	log.Infof("Starting SettleEase backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
