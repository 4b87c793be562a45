package routes

import (
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rkjewellers/billing-api/internal/config"
	domainRepo "github.com/rkjewellers/billing-api/internal/domain/repository"
	"github.com/rkjewellers/billing-api/internal/presentation/http/dto/response"
	"github.com/rkjewellers/billing-api/internal/presentation/http/handler"
	"github.com/rkjewellers/billing-api/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Customer  *handler.CustomerHandler
	Invoice   *handler.InvoiceHandler
	Ledger    *handler.LedgerHandler
	Settings  *handler.SettingsHandler
	Dashboard *handler.DashboardHandler
	Export    *handler.ExportHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	// ResetLimiter throttles the routes that take a reset confirmation code
	ResetLimiter *middleware.ClientRateLimiter
}

// NewResetLimiter builds the limiter for destructive routes from config
func NewResetLimiter(cfg *config.RateLimitConfig) *middleware.ClientRateLimiter {
	limiterCfg := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		limiterCfg.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		limiterCfg.BurstSize = cfg.Requests
	}
	limiterCfg.CleanupInterval = 5 * time.Minute
	return middleware.NewClientRateLimiter(limiterCfg)
}

// useJSONFieldNames makes binding errors report json field names
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()
	useJSONFieldNames()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	v1 := router.Group("/api/v1")
	registerCustomerRoutes(v1, h)
	registerInvoiceRoutes(v1, h, deps)
	registerLedgerRoutes(v1, h, deps)
	registerSettingsRoutes(v1, h, deps)

	v1.GET("/dashboard", h.Dashboard.GetStats)

	export := v1.Group("/export")
	{
		export.GET("/customers.csv", h.Export.CustomersCSV)
		export.GET("/invoices.csv", h.Export.InvoicesCSV)
		export.GET("/report.xlsx", h.Export.ReportXLSX)
	}

	printer := v1.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}

	return router
}

func registerCustomerRoutes(v1 *gin.RouterGroup, h *Handlers) {
	customers := v1.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.GET("/:id/summary", h.Customer.Summary)
	}
}

func registerInvoiceRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	invoices := v1.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.POST("", idempotent, h.Invoice.Create)
		invoices.POST("/reset", deps.ResetLimiter.Middleware(), h.Ledger.ResetAllInvoices)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PATCH("/:id", h.Invoice.UpdateNotes)
		invoices.DELETE("/:id", h.Invoice.Delete)
		invoices.PUT("/:id/serial", h.Invoice.UpdateSerial)
		invoices.POST("/:id/discount", idempotent, h.Ledger.ClearWithDiscount)
		invoices.GET("/:id/receipt", h.Printer.Receipt)
		invoices.GET("/:id/share", h.Printer.Share)
		invoices.POST("/:id/print", h.Printer.PrintInvoice)
	}
}

func registerLedgerRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	v1.POST("/payments",
		middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}),
		h.Ledger.RecordPayment)

	revenue := v1.Group("/revenue")
	{
		revenue.GET("/today", h.Ledger.TodayRevenue)
		revenue.POST("/today/reset", deps.ResetLimiter.Middleware(), h.Ledger.ResetTodayRevenue)
		revenue.POST("/total/reset", deps.ResetLimiter.Middleware(), h.Ledger.ResetTotalRevenue)
	}
}

func registerSettingsRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	settings := v1.Group("/settings")
	{
		settings.GET("/shop", h.Settings.GetShop)
		settings.PUT("/shop", h.Settings.UpdateShop)
		settings.POST("/wipe", deps.ResetLimiter.Middleware(), h.Settings.WipeAllData)
	}
}
