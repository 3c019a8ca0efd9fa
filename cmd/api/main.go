package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"sheetfolio/internal/config"
	"sheetfolio/internal/handlers"
	"sheetfolio/internal/logger"
	"sheetfolio/internal/middleware"
	"sheetfolio/internal/services"
	"sheetfolio/internal/store"
	"sheetfolio/internal/validator"
)

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
	if appConfig.SpreadsheetID == "" {
		return fmt.Errorf("SPREADSHEET_ID is required")
	}

	// Register custom request validators
	validator.Register()

	// Connect to the spreadsheet backend
	sheetStore, err := store.NewSheetsStore(context.Background(), appConfig.CredentialsFile, appConfig.SpreadsheetID)
	if err != nil {
		return fmt.Errorf("failed to connect to spreadsheet: %w", err)
	}

	// Initialize services
	settingsService := services.NewSettingsService(sheetStore)
	assetService := services.NewAssetService(sheetStore)
	investmentService := services.NewInvestmentService(sheetStore)
	dividendService := services.NewDividendService(sheetStore)
	dashboardService := services.NewDashboardService(sheetStore)

	// Initialize handlers
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	assetHandler := handlers.NewAssetHandler(assetService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService)
	dividendHandler := handlers.NewDividendHandler(dividendService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

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

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Settings routes
	settings := v1.Group("/settings")
	settings.GET("", settingsHandler.Get)
	settings.POST("/categories", settingsHandler.AddCategory)
	settings.POST("/categories/:name/toggle", settingsHandler.ToggleCategory)
	settings.PUT("/categories/:name/target", settingsHandler.UpdateTarget)
	settings.POST("/assets", settingsHandler.AddAsset)
	settings.POST("/assets/:name/toggle", settingsHandler.ToggleAsset)

	// Asset snapshot routes
	assets := v1.Group("/assets")
	assets.GET("", assetHandler.List)
	assets.POST("", assetHandler.Create)
	assets.POST("/bulk", assetHandler.CreateBulk)
	assets.PUT("/:id", assetHandler.Update)
	assets.DELETE("/:id", assetHandler.Delete)

	// Investment transaction routes
	investments := v1.Group("/investments")
	investments.GET("", investmentHandler.List)
	investments.POST("", investmentHandler.Create)
	investments.POST("/bulk", investmentHandler.CreateBulk)
	investments.PUT("/:id", investmentHandler.Update)
	investments.DELETE("/:id", investmentHandler.Delete)

	// Dividend routes
	dividends := v1.Group("/dividends")
	dividends.GET("", dividendHandler.List)
	dividends.POST("", dividendHandler.Create)

	// Dashboard routes
	dashboard := v1.Group("/dashboard")
	dashboard.GET("", dashboardHandler.Get)
	dashboard.GET("/rebalance", dashboardHandler.Rebalance)
	dashboard.GET("/dca", dashboardHandler.DCA)
	dashboard.GET("/dividends", dividendHandler.Analysis)

	log.Infof("Starting Sheetfolio backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
