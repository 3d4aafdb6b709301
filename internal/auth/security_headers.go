package auth

import "github.com/gin-gonic/gin"

// SecurityHeadersMiddleware adds security headers suited to a JSON API.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")

		// Responses are data only; nothing should ever be loaded from them.
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		// Tokens and profiles must not land in shared caches.
		c.Header("Cache-Control", "no-store")

		c.Next()
	}
}

// StrictTransportSecurityMiddleware adds HSTS header for HTTPS-only access.
// Only enable this when serving over HTTPS, as it will break HTTP access.
func StrictTransportSecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
