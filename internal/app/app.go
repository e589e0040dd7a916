package app

import (
	"strings"

	"nexus-pos/internal/cache"
	"nexus-pos/internal/config"
	"nexus-pos/internal/events"
	"nexus-pos/internal/handler"
	"nexus-pos/internal/middleware"
	"nexus-pos/internal/model"
	"nexus-pos/internal/repository"
	"nexus-pos/internal/service"
	"nexus-pos/internal/ws"
	"nexus-pos/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Deps are the long-lived resources the HTTP layer is built on.
type Deps struct {
	Config    config.Config
	DB        *gorm.DB
	Hub       *ws.Hub
	Cache     cache.Cache
	Publisher events.Publisher
	// Quiet disables the access log.
	Quiet bool
}

// New wires repositories, services and handlers into a fiber app.
func New(d Deps) *fiber.App {
	cfg := d.Config
	if d.Cache == nil {
		d.Cache = cache.NoopCache{}
	}
	if d.Publisher == nil {
		d.Publisher = events.NoopPublisher{}
	}

	// Repositories
	productRepo := repository.NewProductRepo(d.DB)
	categoryRepo := repository.NewCategoryRepo(d.DB)
	inventoryRepo := repository.NewInventoryRepo(d.DB)
	txRepo := repository.NewTransactionRepo(d.DB)
	stockLogRepo := repository.NewStockLogRepo(d.DB)
	userRepo := repository.NewUserRepo(d.DB)
	roleRepo := repository.NewRoleRepo(d.DB)
	settingRepo := repository.NewSettingRepo(d.DB)

	// Services
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokens, d.Hub, cfg.SessionIdleTimeout)
	settingService := service.NewSettingService(d.DB, settingRepo)
	checkoutService := service.NewCheckoutService(d.DB, productRepo, inventoryRepo, txRepo, stockLogRepo, d.Hub, d.Publisher)
	stockerService := service.NewStockerService(d.DB, inventoryRepo, stockLogRepo, d.Hub, d.Publisher)
	inventoryService := service.NewInventoryService(d.DB, inventoryRepo, productRepo, stockLogRepo, d.Hub)
	productService := service.NewProductService(d.DB, productRepo, categoryRepo, inventoryRepo, d.Hub)
	categoryService := service.NewCategoryService(categoryRepo)
	employeeService := service.NewEmployeeService(userRepo, roleRepo, d.Publisher, cfg.Location)
	saleService := service.NewSaleService(txRepo)
	dashService := service.NewDashboardService(txRepo, userRepo, productRepo, inventoryRepo, settingService, d.Cache,
		service.DashboardOptions{Location: cfg.Location, CacheTTL: cfg.DashboardCacheTTL})
	reportService := service.NewReportService(txRepo, stockLogRepo, userRepo, cfg.Location)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	posHandler := handler.NewPOSHandler(checkoutService, productService)
	txHandler := handler.NewTransactionHandler(saleService)
	stockerHandler := handler.NewStockerHandler(stockerService)
	dashHandler := handler.NewDashboardHandler(dashService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	productHandler := handler.NewProductHandler(productService)
	invHandler := handler.NewInventoryHandler(inventoryService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	reportHandler := handler.NewReportHandler(reportService)
	settingHandler := handler.NewSettingHandler(settingService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	if !d.Quiet {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if cfg.PrometheusEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := app.Group("/api/v1")
	requireAuth := middleware.RequireAuth(authService)

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", loginLimiter(cfg), authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/logout", requireAuth, authHandler.Logout)
	auth.Post("/heartbeat", requireAuth, authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	protected.Get("/profile", authHandler.GetProfile)
	protected.Put("/profile", authHandler.UpdateProfile)
	protected.Get("/roles", roleHandler.GetRoles)

	// Register floor
	pos := protected.Group("/pos", middleware.RequirePrivilege(model.PrivPOSCheckout))
	pos.Get("/products", posHandler.GetProducts)
	pos.Post("/checkout", posHandler.Checkout)

	protected.Get("/transactions", middleware.RequirePrivilege(model.PrivTransactionView), txHandler.GetTransactions)
	protected.Get("/transactions/:id", middleware.RequirePrivilege(model.PrivTransactionView), txHandler.GetTransaction)

	stocker := protected.Group("/stocker", middleware.RequirePrivilege(model.PrivStockIn))
	stocker.Get("/inventory", stockerHandler.GetInventory)
	stocker.Post("/stock-in", stockerHandler.StockIn)
	stocker.Post("/:id/stock-in", stockerHandler.StockInByID)

	me := protected.Group("/dashboard/me", middleware.RequirePrivilege(model.PrivDashboardSelf))
	me.Get("/", dashHandler.GetMyMetrics)
	me.Get("/daily-report", dashHandler.GetMyDailyReport)

	// Back office
	admin := protected.Group("/admin")

	admin.Get("/dashboard/metrics", middleware.RequirePrivilege(model.PrivDashboardView), dashHandler.GetAdminMetrics)
	admin.Get("/dashboard/graphs", middleware.RequirePrivilege(model.PrivDashboardView), dashHandler.GetAdminGraphs)

	categories := admin.Group("/categories", middleware.RequirePrivilege(model.PrivCategoryManage))
	categories.Get("/", categoryHandler.GetCategories)
	categories.Get("/:id", categoryHandler.GetCategory)
	categories.Post("/", categoryHandler.CreateCategory)
	categories.Put("/:id", categoryHandler.UpdateCategory)
	categories.Delete("/:id", categoryHandler.DeleteCategory)

	products := admin.Group("/products", middleware.RequirePrivilege(model.PrivProductManage))
	products.Get("/", productHandler.GetProducts)
	products.Post("/find", productHandler.FindProduct)
	products.Get("/:id", productHandler.GetProduct)
	products.Post("/", productHandler.CreateProduct)
	products.Put("/:id", productHandler.UpdateProduct)
	products.Delete("/:id", productHandler.DeleteProduct)

	inventory := admin.Group("/inventory", middleware.RequirePrivilege(model.PrivInventoryManage))
	inventory.Get("/", invHandler.GetInventory)
	inventory.Get("/:id", invHandler.GetInventoryItem)
	inventory.Get("/:id/history", invHandler.GetHistory)
	inventory.Post("/", invHandler.CreateInventory)
	inventory.Put("/:id", invHandler.UpdateInventory)
	inventory.Delete("/:id", invHandler.DeleteInventory)

	employees := admin.Group("/employees", middleware.RequirePrivilege(model.PrivEmployeeManage))
	employees.Get("/", employeeHandler.GetEmployees)
	employees.Get("/:id", employeeHandler.GetEmployee)
	employees.Post("/", employeeHandler.CreateEmployee)
	employees.Put("/:id", employeeHandler.UpdateEmployee)
	employees.Delete("/:id", employeeHandler.DeleteEmployee)

	admin.Get("/reports", middleware.RequirePrivilege(model.PrivReportView), reportHandler.GetReports)

	admin.Get("/settings", middleware.RequireAnyPrivilege(model.PrivSettingUpdate, model.PrivDashboardView), settingHandler.GetSettings)
	admin.Put("/settings", middleware.RequirePrivilege(model.PrivSettingUpdate), settingHandler.UpdateSettings)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		d.Hub.Register <- c
		defer func() { d.Hub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	return app
}

// loginLimiter counts failed logins per email and client IP.
func loginLimiter(cfg config.Config) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:                    cfg.LoginMaxAttempts,
		Expiration:             cfg.LoginLockout,
		SkipSuccessfulRequests: true,
		KeyGenerator: func(c *fiber.Ctx) string {
			var req handler.LoginRequest
			_ = c.BodyParser(&req)
			return strings.ToLower(strings.TrimSpace(req.Email)) + "|" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many failed login attempts, try again later",
			})
		},
	})
}
