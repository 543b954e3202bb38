package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"ally/internal/config"
	"ally/internal/database"
	"ally/internal/handlers"
	"ally/internal/logger"
	"ally/internal/middleware"
	"ally/internal/services"
	"ally/internal/validator"

	_ "ally/internal/docs" // Import swagger docs
)

// @title           Allowance Ally API
// @version         1.0
// @description     Allowance Ally is a budgeting app for students: allowance tracking, needs/wants/savings budgets, expense logging, savings goals, and curated video tips.

// @host      localhost:3000
// @BasePath  /api

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

	// Register custom request validators
	validator.Register()

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
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	budgetService := services.NewBudgetService(db)
	expenseService := services.NewExpenseService(db, budgetService)
	goalService := services.NewSavingsGoalService(db)
	tipService := services.NewVideoTipService(db)
	reportService := services.NewReportService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	goalHandler := handlers.NewSavingsGoalHandler(goalService)
	tipHandler := handlers.NewVideoTipHandler(tipService)
	reportHandler := handlers.NewReportHandler(reportService)
	adminHandler := handlers.NewAdminHandler(userService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", appConfig.CORSAllowOrigin)
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

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/verify", authHandler.Verify)

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(userService))

	protected.GET("/auth/me", authHandler.Me)

	// Budget routes
	protected.GET("/budget", budgetHandler.Get)
	protected.PUT("/budget", budgetHandler.Update)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.GET("", expenseHandler.List)
	expenses.POST("", expenseHandler.Create)
	expenses.DELETE("/:id", expenseHandler.Delete)

	// Savings goal routes
	goals := protected.Group("/savings-goals")
	goals.GET("", goalHandler.List)
	goals.POST("", goalHandler.Create)
	goals.POST("/:id/add", goalHandler.AddProgress)
	goals.PUT("/:id", goalHandler.Update)
	goals.DELETE("/:id", goalHandler.Delete)

	// Analytics routes
	protected.GET("/reports", reportHandler.GetReport)
	protected.GET("/dashboard", reportHandler.GetDashboard)
	protected.GET("/discipline", reportHandler.GetDiscipline)

	// Video tip routes
	protected.GET("/video-tips", tipHandler.ListActive)

	// Admin routes
	admin := protected.Group("/admin")
	admin.Use(middleware.AdminMiddleware())
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/video-tips", tipHandler.ListAll)
	admin.POST("/video-tips", tipHandler.Create)
	admin.PUT("/video-tips/:id", tipHandler.Update)
	admin.DELETE("/video-tips/:id", tipHandler.Delete)

	log.Infof("Starting Allowance Ally backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
