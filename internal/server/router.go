// Package server assembles the HTTP API: services, handlers, middleware and routes.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"bookkeeper/internal/clock"
	"bookkeeper/internal/config"
	"bookkeeper/internal/handlers"
	"bookkeeper/internal/middleware"
	"bookkeeper/internal/services"

	_ "bookkeeper/internal/docs" // swagger spec
)

// Options carries the runtime settings the router needs.
type Options struct {
	JWTSecret        string
	RateLimitRPS     float64
	RateLimitBurst   int
	LoanPolicy       services.LoanPolicy
	BudgetGrowthRate decimal.Decimal
	Clock            clock.Clock
}

// OptionsFromConfig maps the application configuration onto router options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		JWTSecret:      cfg.JWTSecret,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		LoanPolicy: services.LoanPolicy{
			LoanPeriodDays:    cfg.LoanPeriodDays,
			RenewalPeriodDays: cfg.RenewalPeriodDays,
		},
		BudgetGrowthRate: cfg.BudgetGrowthRate,
		Clock:            clock.System{},
	}
}

// NewRouter wires every service and handler against db and returns the engine.
func NewRouter(db *gorm.DB, opts Options) *gin.Engine {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.LoanPolicy.LoanPeriodDays == 0 {
		opts.LoanPolicy = services.DefaultLoanPolicy()
	}
	if opts.BudgetGrowthRate.IsZero() {
		opts.BudgetGrowthRate = services.DefaultBudgetGrowthRate
	}

	// Services
	catalogService := services.NewCatalogService(db)
	memberService := services.NewMemberService(db, opts.Clock)
	loanService := services.NewLoanService(db, opts.Clock, opts.LoanPolicy)
	libraryReportService := services.NewLibraryReportService(db, opts.Clock)
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	ledgerService := services.NewLedgerService(db, opts.Clock, opts.BudgetGrowthRate)
	financeReportService := services.NewFinanceReportService(db)

	// Handlers
	libraryHandler := handlers.NewLibraryHandler(catalogService, memberService)
	loanHandler := handlers.NewLoanHandler(loanService)
	libraryReportHandler := handlers.NewLibraryReportHandler(libraryReportService)
	financeHandler := handlers.NewFinanceHandler(userService, categoryService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	financeReportHandler := handlers.NewFinanceReportHandler(financeReportService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/api/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	if opts.RateLimitRPS > 0 {
		v1.Use(middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
	}
	v1.Use(middleware.AuthMiddleware(opts.JWTSecret))

	// Library
	library := v1.Group("/library")

	authors := library.Group("/authors")
	authors.POST("", libraryHandler.CreateAuthor)
	authors.GET("", libraryHandler.GetAuthors)
	authors.GET("/:id", libraryHandler.GetAuthor)
	authors.PUT("/:id", libraryHandler.UpdateAuthor)
	authors.DELETE("/:id", libraryHandler.DeleteAuthor)

	books := library.Group("/books")
	books.POST("", libraryHandler.CreateBook)
	books.GET("", libraryHandler.GetBooks)
	books.GET("/:id", libraryHandler.GetBook)
	books.PUT("/:id", libraryHandler.UpdateBook)
	books.DELETE("/:id", libraryHandler.DeleteBook)
	books.POST("/:id/authors/:authorId", libraryHandler.AddBookAuthor)
	books.DELETE("/:id/authors/:authorId", libraryHandler.RemoveBookAuthor)
	books.GET("/:id/availability", loanHandler.GetBookAvailability)

	members := library.Group("/members")
	members.POST("", libraryHandler.CreateMember)
	members.GET("", libraryHandler.GetMembers)
	members.GET("/:id", libraryHandler.GetMember)
	members.PUT("/:id", libraryHandler.UpdateMember)
	members.GET("/:id/loans", libraryHandler.GetMemberLoans)

	loans := library.Group("/loans")
	loans.POST("", loanHandler.CheckoutBook)
	loans.GET("/:id", loanHandler.GetLoan)
	loans.POST("/:id/renew", loanHandler.RenewLoan)
	loans.POST("/:id/return", loanHandler.ReturnBook)
	loans.GET("/:id/audits", loanHandler.GetLoanAudits)

	libraryReports := library.Group("/reports")
	libraryReports.GET("/overdue", libraryReportHandler.GetOverdueLoans)
	libraryReports.GET("/overdue/weekly", libraryReportHandler.GetWeeklyOverdue)
	libraryReports.GET("/top-members", libraryReportHandler.GetTopMembers)
	libraryReports.GET("/running-totals", libraryReportHandler.GetRunningTotals)

	// Finance
	finance := v1.Group("/finance")

	users := finance.Group("/users")
	users.POST("", financeHandler.CreateUser)
	users.GET("", financeHandler.GetUsers)
	users.GET("/:id", financeHandler.GetUser)
	users.PUT("/:id", financeHandler.UpdateUser)
	users.POST("/:id/expenses", ledgerHandler.RecordExpense)
	users.GET("/:id/expenses", ledgerHandler.GetExpenses)
	users.POST("/:id/incomes", ledgerHandler.AddIncome)
	users.GET("/:id/incomes", ledgerHandler.GetIncomes)
	users.POST("/:id/close-month", ledgerHandler.CloseMonth)
	users.GET("/:id/logs", ledgerHandler.GetTransactionLogs)
	users.GET("/:id/budget-status", financeReportHandler.GetUserBudgetStatus)
	users.GET("/:id/spend-ratio", financeReportHandler.GetSpendRatio)

	categories := finance.Group("/categories")
	categories.POST("", financeHandler.CreateCategory)
	categories.GET("", financeHandler.GetCategories)
	categories.GET("/:id", financeHandler.GetCategory)
	categories.PUT("/:id", financeHandler.RenameCategory)
	categories.DELETE("/:id", financeHandler.DeleteCategory)

	financeReports := finance.Group("/reports")
	financeReports.GET("/budget-status", financeReportHandler.GetBudgetStatus)
	financeReports.GET("/category-totals", financeReportHandler.GetCategoryTotals)
	financeReports.GET("/spend-ratios", financeReportHandler.GetSpendRatios)

	return router
}
