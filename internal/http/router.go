package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/identity/internal/audit"
	"github.com/mrlokans/identity/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.EnableHSTS {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	router.Use(RequestMetaMiddleware())

	// Resolves the session token; anonymous requests continue
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)

	accounts := NewAccountsController(cfg.Accounts)

	api := router.Group("/api")
	api.POST("/accounts", accounts.Register)
	api.POST("/login", accounts.Login)
	api.POST("/verify-email", accounts.VerifyEmail)
	api.GET("/verify-email", accounts.VerifyEmailLink)

	guarded := api.Group("", auth.RequireAuth())
	guarded.GET("/me", accounts.Me)
	guarded.PATCH("/me", accounts.EditProfile)
	guarded.DELETE("/me", accounts.DeleteAccount)
	guarded.GET("/accounts/:id", accounts.Profile)

	if cfg.AuditService != nil {
		activity := NewAuditController(cfg.AuditService)
		guarded.GET("/me/audit", activity.GetAuditEvents)
	}

	return router
}

// RequestMetaMiddleware attaches the client address and user agent to the
// request context for audit records.
func RequestMetaMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := audit.WithRequestMeta(c.Request.Context(), audit.RequestMeta{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
