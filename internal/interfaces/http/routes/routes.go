// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/biolab-backend/internal/config"
	"github.com/your-org/biolab-backend/internal/interfaces/http/handlers"
	"github.com/your-org/biolab-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires all API route groups
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	SetupAuthRoutes(rg, db, cfg)
	SetupSupplyRoutes(rg, db, cfg)
	SetupRecipeRoutes(rg, db, cfg)
	SetupLotRoutes(rg, db, cfg)
	SetupStrainRoutes(rg, db, cfg)
	SetupScheduleRoutes(rg, cfg)
	SetupDashboardRoutes(rg, db, cfg)
	SetupAdminRoutes(rg, db, cfg)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
			protected.PUT("/password", authHandler.ChangePassword)
		}
	}

	// User list for responsible assignment
	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware(cfg))
	{
		users.GET("", authHandler.GetUsers)
	}
}

// SetupSupplyRoutes sets up supply catalog and stock ledger routes
func SetupSupplyRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	supplyHandler := handlers.NewSupplyHandler(db, cfg)

	supplies := rg.Group("/supplies")
	supplies.Use(middleware.AuthMiddleware(cfg))
	{
		supplies.GET("", supplyHandler.GetSupplies)
		supplies.POST("", supplyHandler.CreateSupply)
		supplies.GET("/:id", supplyHandler.GetSupply)
		supplies.GET("/:id/stocks", supplyHandler.GetStocks)
		supplies.POST("/:id/stocks", supplyHandler.ReceiveStock)
		supplies.GET("/:id/availability", supplyHandler.GetAvailability)
		supplies.POST("/:id/plan", supplyHandler.PlanConsumption)
		supplies.POST("/:id/consume", supplyHandler.Consume)
	}

	stocks := rg.Group("/stocks")
	stocks.Use(middleware.AuthMiddleware(cfg))
	{
		stocks.GET("/:stock_id/events", supplyHandler.GetConsumptionEvents)
	}
}

// SetupRecipeRoutes sets up recipe and microorganism routes
func SetupRecipeRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	recipeHandler := handlers.NewRecipeHandler(db, cfg)

	recipes := rg.Group("/recipes")
	recipes.Use(middleware.AuthMiddleware(cfg))
	{
		recipes.GET("", recipeHandler.GetRecipes)
		recipes.POST("", recipeHandler.CreateRecipe)
		recipes.GET("/:id", recipeHandler.GetRecipe)
		recipes.GET("/:id/compute", recipeHandler.ComputeBatch)
		recipes.POST("/:id/preview", recipeHandler.PreviewBatch)
	}

	microorganisms := rg.Group("/microorganisms")
	microorganisms.Use(middleware.AuthMiddleware(cfg))
	{
		microorganisms.GET("", recipeHandler.GetMicroorganisms)
		microorganisms.POST("", recipeHandler.CreateMicroorganism)
	}
}

// SetupLotRoutes sets up production lot routes
func SetupLotRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	lotHandler := handlers.NewLotHandler(db, cfg)

	lots := rg.Group("/lots")
	lots.Use(middleware.AuthMiddleware(cfg))
	{
		lots.GET("", lotHandler.GetLots)
		lots.POST("", lotHandler.CreateLot)
		lots.GET("/summary", lotHandler.Summary)
		lots.GET("/:id", lotHandler.GetLot)
		lots.POST("/:id/refrigerate", lotHandler.Refrigerate)
		lots.POST("/:id/consume", lotHandler.ConsumeBags)
		lots.GET("/:id/report", lotHandler.Report)
	}
}

// SetupStrainRoutes sets up strain lot routes
func SetupStrainRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	strainHandler := handlers.NewStrainHandler(db, cfg)

	strains := rg.Group("/strains")
	strains.Use(middleware.AuthMiddleware(cfg))
	{
		strains.GET("", strainHandler.GetStrains)
		strains.POST("", strainHandler.Create)
		strains.POST("/convert", strainHandler.ConvertFromLot)
		strains.GET("/:id", strainHandler.GetStrain)
	}
}

// SetupScheduleRoutes sets up application date sequence routes
func SetupScheduleRoutes(rg *gin.RouterGroup, cfg *config.Config) {
	scheduleHandler := handlers.NewScheduleHandler(cfg)

	schedule := rg.Group("/schedule")
	schedule.Use(middleware.AuthMiddleware(cfg))
	{
		schedule.POST("/generate", scheduleHandler.Generate)
	}
}

// SetupDashboardRoutes sets up dashboard and alert routes
func SetupDashboardRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	dashboardHandler := handlers.NewDashboardHandler(db, cfg)

	dashboard := rg.Group("/dashboard")
	dashboard.Use(middleware.AuthMiddleware(cfg))
	{
		dashboard.GET("", dashboardHandler.Overview)
		dashboard.GET("/activity", dashboardHandler.RecentActivity)
	}

	alerts := rg.Group("/alerts")
	alerts.Use(middleware.AuthMiddleware(cfg))
	{
		alerts.POST("/:id/resolve", dashboardHandler.ResolveAlert)
	}
}

// SetupAdminRoutes sets up supervisor-only routes
func SetupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/users", authHandler.GetUsers)
	}
}
