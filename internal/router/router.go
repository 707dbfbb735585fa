package router

import (
	"time"

	"liquorpos/internal/config"
	"liquorpos/internal/handler"
	"liquorpos/internal/middleware"
	"liquorpos/internal/repository"
	"liquorpos/internal/service"
	"liquorpos/internal/session"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/SessionStore
func New(cfg *config.Config, db *gorm.DB, sessions session.Store) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		taxRate = decimal.Zero
	}
	policy := service.DefaultLedgerPolicy()
	policy.AllowNegativeBalance = cfg.LedgerAllowNegative

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	tillRepo := repository.NewTillRepository(db)
	timeClockRepo := repository.NewTimeClockRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, sessions, cfg)
	inventorySvc := service.NewInventoryService(ledgerRepo, productRepo, policy)
	productSvc := service.NewProductService(productRepo, inventorySvc)
	tillSvc := service.NewTillService(tillRepo)
	transactionSvc := service.NewTransactionService(transactionRepo, inventorySvc, tillSvc, tillRepo, productRepo, taxRate)
	timeClockSvc := service.NewTimeClockService(timeClockRepo)
	reportSvc := service.NewReportService(reportRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc, ledgerRepo)
	productsH := handler.NewProductHandler(productSvc)
	transactionsH := handler.NewTransactionHandler(transactionSvc)
	tillH := handler.NewTillHandler(tillSvc)
	timeClockH := handler.NewTimeClockHandler(timeClockSvc)
	reportsH := handler.NewReportHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyStaff := middleware.RequireRole("cashier", "manager", "admin")
	managers := middleware.RequireRole("manager", "admin")
	admins := middleware.RequireRole("admin")

	v1 := r.Group("/v1", jwtMW)
	{
		v1.POST("/auth/logout", authH.Logout)
		v1.GET("/auth/me", authH.Me)

		// Inventory ledger. Cashiers touch stock only through sales and
		// returns; direct adjustments need a manager.
		inv := v1.Group("/inventory")
		{
			inv.POST("/adjust", managers, inventoryH.Adjust)
			inv.GET("/adjustments", managers, inventoryH.ListAdjustments)
			inv.GET("/adjustments/summary", managers, inventoryH.Summary)
			inv.GET("/:upc/on-hand", anyStaff, inventoryH.OnHand)
			inv.GET("/:upc/verify", managers, inventoryH.Verify)
		}

		// Products — all staff can read (price checks at the register),
		// managers write.
		v1.GET("/products", anyStaff, productsH.List)
		v1.GET("/products/:upc", anyStaff, productsH.Get)
		v1.GET("/products/:upc/price-history", managers, productsH.PriceHistory)
		prods := v1.Group("/products", managers)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:upc", productsH.Update)
			prods.DELETE("/:upc", productsH.Deactivate)
			prods.PATCH("/:upc/reactivate", productsH.Reactivate)
		}

		txns := v1.Group("/transactions")
		{
			txns.POST("/sale", anyStaff, transactionsH.Sale)
			txns.POST("/return", anyStaff, transactionsH.Return)
			txns.POST("/payout", managers, transactionsH.Payout)
			txns.GET("", anyStaff, transactionsH.List)
			txns.GET("/:id", anyStaff, transactionsH.Get)
			txns.DELETE("/:id", managers, transactionsH.Void)
		}

		till := v1.Group("/till", anyStaff)
		{
			till.POST("/open", tillH.Open)
			till.POST("/close", tillH.Close)
			till.POST("/movement", tillH.Movement)
			till.GET("/active", tillH.Active)
			till.GET("/history", managers, tillH.History)
			till.GET("/:id/report", tillH.Report)
		}

		clock := v1.Group("/timeclock", anyStaff)
		{
			clock.POST("/in", timeClockH.ClockIn)
			clock.POST("/out", timeClockH.ClockOut)
			clock.GET("", timeClockH.List)
		}

		reports := v1.Group("/reports", managers)
		{
			reports.GET("/sales/hourly", reportsH.Hourly)
			reports.GET("/sales/daily", reportsH.Daily)
			reports.GET("/sales/weekly", reportsH.Weekly)
			reports.GET("/pl", reportsH.ProfitAndLoss)
		}

		users := v1.Group("/users", admins)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PUT("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeactivateUser)
			users.PATCH("/:id/reactivate", authH.ReactivateUser)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
