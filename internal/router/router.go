// Package router assembles the HTTP API: services, handlers, middleware
// and the /api/v1 route table.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"spendwise/internal/analytics"
	"spendwise/internal/events"
	"spendwise/internal/handlers"
	"spendwise/internal/middleware"
	"spendwise/internal/services"
)

// Services bundles the business services the HTTP layer depends on.
type Services struct {
	Users      services.UserServicer
	Categories services.CategoryServicer
	Expenses   services.ExpenseServicer
	Budgets    services.BudgetServicer
	Dashboards services.DashboardServicer
	Savings    services.SavingsServicer
	Audit      services.AuditServicer
}

// NewServices wires every service against db. A nil picker selects
// motivational messages at random.
func NewServices(db *gorm.DB, publisher events.Publisher, picker analytics.Picker) Services {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return Services{
		Users:      services.NewUserService(db),
		Categories: services.NewCategoryService(db),
		Expenses:   services.NewExpenseService(db),
		Budgets:    services.NewBudgetService(db),
		Dashboards: services.NewDashboardService(db, picker),
		Savings:    services.NewSavingsService(db, publisher),
		Audit:      services.NewAuditService(db),
	}
}

// New builds the gin engine with the full route table.
func New(svc Services) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users, svc.Audit)
	userHandler := handlers.NewUserHandler(svc.Users, svc.Audit)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories, svc.Audit)
	expenseHandler := handlers.NewExpenseHandler(svc.Expenses, svc.Audit)
	budgetHandler := handlers.NewBudgetHandler(svc.Budgets, svc.Audit)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboards)
	savingsHandler := handlers.NewSavingsHandler(svc.Savings, svc.Audit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	v1.POST("/auth/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())
	admin := middleware.AdminOnly()

	auth := protected.Group("/auth")
	auth.GET("/me", authHandler.GetProfile)
	auth.POST("/change-password", authHandler.ChangePassword)

	dashboard := protected.Group("/dashboard")
	dashboard.GET("", dashboardHandler.GetDashboard)
	dashboard.GET("/admin", admin, dashboardHandler.GetAdminDashboard)

	budgets := protected.Group("/budgets")
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.POST("", budgetHandler.SetBudget)
	budgets.GET("/current", budgetHandler.GetCurrentBudget)
	budgets.GET("/month/:year/:month", budgetHandler.GetBudgetForMonth)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	expenses := protected.Group("/expenses")
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("/monthly-total", expenseHandler.GetMonthlyTotal)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/active", categoryHandler.GetActiveCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.POST("", admin, categoryHandler.CreateCategory)
	categories.PUT("/:id", admin, categoryHandler.UpdateCategory)
	categories.DELETE("/:id", admin, categoryHandler.DeleteCategory)

	savings := protected.Group("/savings")
	savings.GET("/summary", savingsHandler.GetSummary)
	savings.GET("/goals", savingsHandler.GetGoals)
	savings.POST("/goals", savingsHandler.CreateGoal)
	savings.GET("/goals/:id", savingsHandler.GetGoal)
	savings.PUT("/goals/:id", savingsHandler.UpdateGoal)
	savings.DELETE("/goals/:id", savingsHandler.DeleteGoal)
	savings.GET("/goals/:id/transactions", savingsHandler.GetGoalTransactions)
	savings.POST("/goals/:id/transactions", savingsHandler.CreateTransaction)
	savings.GET("/transactions/recent", savingsHandler.GetRecentTransactions)

	users := protected.Group("/users", admin)
	users.GET("", userHandler.GetUsers)
	users.POST("", userHandler.CreateUser)
	users.GET("/summaries", userHandler.GetUserSummaries)
	users.GET("/:id", userHandler.GetUser)
	users.PUT("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeleteUser)
	users.PATCH("/:id/toggle-status", userHandler.ToggleUserStatus)

	return router
}
