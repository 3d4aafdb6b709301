package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/identity/internal/entities"
	"github.com/mrlokans/identity/internal/logging"
)

// DefaultTokenHeader carries the session token on inbound requests.
const DefaultTokenHeader = "x-jwt"

// Context keys for account data
const (
	ContextKeyAccount   = "auth_account"
	ContextKeyAccountID = "auth_account_id"
)

type accountContextKey struct{}

// AccountFinder loads the account a token refers to.
type AccountFinder interface {
	FindByID(ctx context.Context, id uint) (*entities.Account, error)
}

// Middleware resolves the request's session token into an account.
// It never rejects a request: anything short of a valid token for an
// existing account leaves the request anonymous.
type Middleware struct {
	tokens   *TokenService
	accounts AccountFinder
	header   string
	logger   logging.Logger
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(tokens *TokenService, accounts AccountFinder, header string, logger logging.Logger) *Middleware {
	if header == "" {
		header = DefaultTokenHeader
	}
	return &Middleware{
		tokens:   tokens,
		accounts: accounts,
		header:   header,
		logger:   logger,
	}
}

// Handler returns a Gin middleware handler that authenticates requests.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if account := m.authenticate(c); account != nil {
			setAccountContext(c, account)
		}
		c.Next()
	}
}

func (m *Middleware) authenticate(c *gin.Context) *entities.Account {
	token := m.extractToken(c)
	if token == "" {
		return nil
	}

	ctx := c.Request.Context()
	claims, err := m.tokens.Parse(token)
	if err != nil {
		m.logger.Debug(ctx, "ignoring invalid session token", "error", err)
		return nil
	}

	account, err := m.accounts.FindByID(ctx, claims.ID)
	if err != nil {
		m.logger.Debug(ctx, "session token refers to unknown account", "account_id", claims.ID, "error", err)
		return nil
	}
	return account
}

// extractToken reads the designated header first, then falls back to
// "Authorization: Bearer <token>".
func (m *Middleware) extractToken(c *gin.Context) string {
	if token := strings.TrimSpace(c.GetHeader(m.header)); token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// setAccountContext stores the account in both the Gin context and the
// request context so handlers and services see the same identity.
func setAccountContext(c *gin.Context, account *entities.Account) {
	c.Set(ContextKeyAccount, account)
	c.Set(ContextKeyAccountID, account.ID)
	c.Request = c.Request.WithContext(WithAccount(c.Request.Context(), account))
}

// WithAccount returns a copy of ctx carrying account.
func WithAccount(ctx context.Context, account *entities.Account) context.Context {
	return context.WithValue(ctx, accountContextKey{}, account)
}

// AccountFromContext returns the account attached to ctx, or nil.
func AccountFromContext(ctx context.Context) *entities.Account {
	account, _ := ctx.Value(accountContextKey{}).(*entities.Account)
	return account
}

// GetAccount retrieves the authenticated account from the Gin context.
func GetAccount(c *gin.Context) *entities.Account {
	if v, exists := c.Get(ContextKeyAccount); exists {
		if account, ok := v.(*entities.Account); ok {
			return account
		}
	}
	return nil
}

// GetAccountID retrieves the authenticated account's ID, or 0 when anonymous.
func GetAccountID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyAccountID); exists {
		if accountID, ok := id.(uint); ok {
			return accountID
		}
	}
	return 0
}
