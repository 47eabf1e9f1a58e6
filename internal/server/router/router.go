package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/young4chicks/brooder/internal/domain/models"
	"github.com/young4chicks/brooder/internal/server/handlers"
	"github.com/young4chicks/brooder/internal/server/middleware"
)

// Handlers groups the HTTP adapters mounted by New.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Farmers   *handlers.FarmerHandler
	Requests  *handlers.RequestHandler
	Inventory *handlers.InventoryHandler
	Dashboard *handlers.DashboardHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, tokens middleware.TokenParser, accounts middleware.AccountLookup, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/auth/signup", h.Auth.Signup)
	r.POST("/auth/login", h.Auth.Login)

	api := r.Group("/", middleware.Auth(tokens, accounts, logger.Named("auth")))
	managerOnly := middleware.RequireRole(models.RoleManager)
	salesOnly := middleware.RequireRole(models.RoleSalesAgent)

	api.DELETE("/accounts/:id", h.Auth.DeleteAccount)

	api.GET("/dashboard/manager", managerOnly, h.Dashboard.Manager)
	api.GET("/dashboard/sales", salesOnly, h.Dashboard.Sales)
	api.GET("/api/dashboard-stats", h.Dashboard.Stats)
	api.GET("/api/farmer/:id", h.Farmers.Summary)
	api.GET("/reports/sales-agents", managerOnly, h.Dashboard.SalesAgents)

	api.GET("/stock", h.Inventory.ListStocks)
	api.POST("/stock", h.Inventory.CreateStock)
	api.GET("/stock/:id", h.Inventory.GetStock)
	api.PUT("/stock/:id", h.Inventory.UpdateStock)
	api.DELETE("/stock/:id", h.Inventory.DeleteStock)
	api.GET("/feedstock", h.Inventory.ListFeeds)
	api.POST("/feedstock", h.Inventory.CreateFeed)

	api.GET("/farmers", h.Farmers.List)
	api.POST("/farmers", h.Farmers.Register)
	api.GET("/farmers/:id", h.Farmers.Get)
	api.DELETE("/farmers/:id", h.Farmers.Delete)
	api.GET("/farmers/:id/audit", h.Farmers.Audit)
	api.POST("/farmers/:id/approve", h.Farmers.Approve)
	api.POST("/farmers/:id/reject", h.Farmers.Reject)
	api.POST("/farmers/:id/reset", h.Farmers.Reset)

	api.GET("/requests", h.Requests.List)
	api.POST("/requests", h.Requests.Create)
	api.GET("/requests/:id", h.Requests.Get)
	api.POST("/requests/:id/status", h.Requests.UpdateStatus)
	api.POST("/requests/:id/authorize-sale", h.Requests.AuthorizeSale)
	api.POST("/requests/:id/deliver", h.Requests.Deliver)

	logger.Info("router initialized")

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
