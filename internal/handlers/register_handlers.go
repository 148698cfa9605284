package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/openmc/treasury/internal/core/ports/services"
	"github.com/openmc/treasury/internal/middleware"
	"github.com/openmc/treasury/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", GetHome)

	// Setup API v1 routes with plugin auth, passing service interfaces
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply plugin auth to the entire v1 group
	v1 := r.Group("/api/v1", middleware.PluginAuthMiddleware(cfg.JWTSecret))

	v1.GET("/capabilities", getCapabilities(cfg))

	// Delegate route registration to specific handlers, passing required services
	registerCurrencyRoutes(v1, services.Currency)
	registerAccountRoutes(v1, services.Ledger)
	registerSharedAccountRoutes(v1, services.SharedAccount)
	registerPermissionRoutes(v1, services.Permission)
}

// getCapabilities reports the provider name and its optional feature flags so
// callers can discover what this deployment supports before relying on it.
func getCapabilities(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":                 cfg.ProviderName,
			"multiCurrency":        cfg.MultiCurrencySupport,
			"multiWorld":           cfg.MultiWorldSupport,
			"sharedAccounts":       cfg.SharedAccountSupport,
			"negativeBalances":     cfg.AllowNegativeBalances,
			"defaultWorld":         cfg.DefaultWorld,
			"defaultCurrency":      cfg.DefaultCurrency,
			"fractionalDigits":     cfg.CurrencyFractionalDigits,
			"maxBalanceDigits":     cfg.MaxBalanceDigits,
			"transactionSupported": true,
		})
	}
}
