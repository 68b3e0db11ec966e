package router

import (
	"log/slog"

	"myfinance/internal/config"
	"myfinance/internal/handler"
	"myfinance/internal/middleware"
	"myfinance/internal/models"
	"myfinance/internal/store"
	"myfinance/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires stores, handlers and middleware into a Gin engine.
func SetupRouter(cfg *config.Config, db *gorm.DB, logger *slog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger),
		middleware.CORS(cfg.Server.CORSOrigins),
	)

	users := store.NewUserStore(db)
	categories := store.NewCategoryStore(db)
	transactions := store.NewTransactionStore(db, categories)

	hasher := util.NewPasswordHasher(cfg.Security.BcryptCost)
	tokens := util.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL())

	r.GET("/healthz", handler.Health(db))

	// public
	authHandler := handler.NewAuthHandler(users, hasher, tokens)
	r.POST("/auth/signup", authHandler.Signup)
	r.POST("/auth/signin", authHandler.Signin)

	// authenticated
	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(tokens, users))

	protected.GET("/profile", handler.GetProfile)

	categoryHandler := handler.NewCategoryHandler(categories)
	protected.POST("/categories", categoryHandler.CreateCategory)
	protected.GET("/categories", categoryHandler.ListCategories)
	protected.GET("/categories/:id", categoryHandler.GetCategory)
	protected.PATCH("/categories/:id", categoryHandler.UpdateCategory)
	protected.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	txnHandler := handler.NewTransactionHandler(transactions)
	protected.POST("/transactions", txnHandler.CreateTransaction)
	protected.GET("/transactions", txnHandler.ListTransactions)
	protected.GET("/transactions/summary", txnHandler.GetSummary)
	protected.GET("/transactions/summary-by-category", txnHandler.GetSummaryByCategory)
	protected.GET("/transactions/export/csv", txnHandler.ExportCSV)
	protected.GET("/transactions/export/xlsx", txnHandler.ExportXLSX)
	protected.GET("/transactions/:id", txnHandler.GetTransaction)
	protected.PATCH("/transactions/:id", txnHandler.UpdateTransaction)
	protected.DELETE("/transactions/:id", txnHandler.DeleteTransaction)

	// admin only
	admin := protected.Group("/users")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))

	userHandler := handler.NewUserHandler(users)
	admin.GET("", userHandler.ListUsers)
	admin.DELETE("/:id", userHandler.DeleteUser)

	return r
}
