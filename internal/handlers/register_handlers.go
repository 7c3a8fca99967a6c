package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/securitypro/oms_backend/cmd/docs"
	portssvc "github.com/securitypro/oms_backend/internal/core/ports/services"
	"github.com/securitypro/oms_backend/internal/middleware"
	"github.com/securitypro/oms_backend/internal/platform/config"
	"github.com/securitypro/oms_backend/internal/platform/metrics"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouteDeps carries the infrastructure the router exposes besides the services.
// Every field is optional.
type RouteDeps struct {
	DB      Pinger
	Metrics *metrics.Collectors
	Limiter *limiter.Limiter
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	registerValidators()

	var db Pinger
	if cfg.EnableDBCheck {
		db = deps.DB
	}
	r.GET("/health", healthHandler(db))

	if cfg.MetricsEnabled && deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	setupAPIV1Routes(r, cfg, services, deps)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	handlers := []gin.HandlerFunc{middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer)}
	if deps.Limiter != nil {
		handlers = append(handlers, middleware.RateLimit(deps.Limiter))
	}
	v1 := r.Group("/api/v1", handlers...)

	RegisterAssetRoutes(v1, service.Asset)
	RegisterPayrollRoutes(v1, service.Payroll, service.Reporting)
	RegisterInvoiceRoutes(v1, service.Invoice, service.Reporting)
	RegisterPaymentRoutes(v1, service.Payment)
	RegisterStatementRoutes(v1, service.Reporting)
}

// setupSwaggerRoutes serves the API documentation outside production.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// requireUser fetches the acting user set by AuthMiddleware and aborts with 401 when absent.
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}
