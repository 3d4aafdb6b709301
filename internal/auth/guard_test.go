package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	m, tokens, _ := setupMiddleware(t)

	handlerCalls := 0
	router := gin.New()
	router.Use(m.Handler())
	router.GET("/private", RequireAuth(), func(c *gin.Context) {
		handlerCalls++
		c.JSON(http.StatusOK, gin.H{"ok": true, "id": GetAccount(c).ID})
	})

	token, err := tokens.Issue(1)
	require.NoError(t, err)

	t.Run("anonymous request is forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"ok":false,"error":"forbidden"}`, w.Body.String())
		assert.Zero(t, handlerCalls)
	})

	t.Run("invalid token is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("x-jwt", "invalid")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Zero(t, handlerCalls)
	})

	t.Run("authenticated request reaches handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("x-jwt", token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true,"id":1}`, w.Body.String())
		assert.Equal(t, 1, handlerCalls)
	})
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
}

func TestStrictTransportSecurityMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(StrictTransportSecurityMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=31536000")
}
