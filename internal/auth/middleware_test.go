package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/identity/internal/entities"
	"github.com/mrlokans/identity/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubFinder struct {
	accounts map[uint]*entities.Account
	calls    int
}

func (f *stubFinder) FindByID(_ context.Context, id uint) (*entities.Account, error) {
	f.calls++
	if account, ok := f.accounts[id]; ok {
		return account, nil
	}
	return nil, ErrNotFound
}

func setupMiddleware(t *testing.T) (*Middleware, *TokenService, *stubFinder) {
	t.Helper()

	tokens, err := NewTokenService([]byte("middleware-secret"), 0)
	require.NoError(t, err)

	finder := &stubFinder{accounts: map[uint]*entities.Account{
		1: {ID: 1, Email: "one@example.com", Role: entities.AccountRoleClient},
	}}

	return NewMiddleware(tokens, finder, "", logging.Discard()), tokens, finder
}

// identityRouter exposes what the middleware attached, from both the Gin
// context and the request context.
func identityRouter(m *Middleware) *gin.Engine {
	router := gin.New()
	router.Use(m.Handler())
	router.GET("/whoami", func(c *gin.Context) {
		var fromCtx uint
		if account := AccountFromContext(c.Request.Context()); account != nil {
			fromCtx = account.ID
		}
		c.JSON(http.StatusOK, gin.H{
			"account_id": GetAccountID(c),
			"ctx_id":     fromCtx,
			"allowed":    Allow(c),
		})
	})
	return router
}

type whoamiResponse struct {
	AccountID uint `json:"account_id"`
	CtxID     uint `json:"ctx_id"`
	Allowed   bool `json:"allowed"`
}

func doWhoami(t *testing.T, router *gin.Engine, headers map[string]string) whoamiResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "middleware must never reject")

	var resp whoamiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestMiddleware_AttachesAccount(t *testing.T) {
	m, tokens, _ := setupMiddleware(t)
	router := identityRouter(m)

	token, err := tokens.Issue(1)
	require.NoError(t, err)

	t.Run("x-jwt header", func(t *testing.T) {
		resp := doWhoami(t, router, map[string]string{"x-jwt": token})
		assert.Equal(t, uint(1), resp.AccountID)
		assert.Equal(t, uint(1), resp.CtxID)
		assert.True(t, resp.Allowed)
	})

	t.Run("bearer fallback", func(t *testing.T) {
		resp := doWhoami(t, router, map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, uint(1), resp.AccountID)
		assert.True(t, resp.Allowed)
	})
}

func TestMiddleware_LeavesRequestAnonymous(t *testing.T) {
	m, tokens, _ := setupMiddleware(t)
	router := identityRouter(m)

	unknown, err := tokens.Issue(99)
	require.NoError(t, err)

	other, err := NewTokenService([]byte("someone-else"), 0)
	require.NoError(t, err)
	forged, err := other.Issue(1)
	require.NoError(t, err)

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{name: "no token", headers: nil},
		{name: "garbage token", headers: map[string]string{"x-jwt": "garbage"}},
		{name: "forged token", headers: map[string]string{"x-jwt": forged}},
		{name: "unknown account", headers: map[string]string{"x-jwt": unknown}},
		{name: "basic auth scheme", headers: map[string]string{"Authorization": "Basic dXNlcjpwYXNz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doWhoami(t, router, tt.headers)
			assert.Zero(t, resp.AccountID)
			assert.Zero(t, resp.CtxID)
			assert.False(t, resp.Allowed)
		})
	}
}

func TestMiddleware_SkipsLookupWithoutToken(t *testing.T) {
	m, _, finder := setupMiddleware(t)
	router := identityRouter(m)

	doWhoami(t, router, nil)
	doWhoami(t, router, map[string]string{"x-jwt": "garbage"})

	assert.Zero(t, finder.calls)
}

func TestMiddleware_CustomHeader(t *testing.T) {
	tokens, err := NewTokenService([]byte("middleware-secret"), 0)
	require.NoError(t, err)
	finder := &stubFinder{accounts: map[uint]*entities.Account{5: {ID: 5}}}
	router := identityRouter(NewMiddleware(tokens, finder, "X-Session", logging.Discard()))

	token, err := tokens.Issue(5)
	require.NoError(t, err)

	resp := doWhoami(t, router, map[string]string{"X-Session": token})
	assert.Equal(t, uint(5), resp.AccountID)

	resp = doWhoami(t, router, map[string]string{"x-jwt": token})
	assert.Zero(t, resp.AccountID)
}

func TestAccountFromContext_Empty(t *testing.T) {
	assert.Nil(t, AccountFromContext(context.Background()))

	ctx := WithAccount(context.Background(), &entities.Account{ID: 8})
	require.NotNil(t, AccountFromContext(ctx))
	assert.Equal(t, uint(8), AccountFromContext(ctx).ID)
}
