package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Allow reports whether the request carries an authenticated account.
func Allow(c *gin.Context) bool {
	return GetAccount(c) != nil
}

// RequireAuth rejects anonymous requests with 403 before the handler runs.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Allow(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"ok":    false,
				"error": ErrForbidden.Error(),
			})
			return
		}
		c.Next()
	}
}
