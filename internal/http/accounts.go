package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/identity/internal/auth"
	"github.com/mrlokans/identity/internal/services"
)

// AccountsController exposes the account flows as JSON endpoints.
type AccountsController struct {
	accounts *services.AccountService
}

func NewAccountsController(accounts *services.AccountService) *AccountsController {
	return &AccountsController{accounts: accounts}
}

// Register creates an account.
// POST /api/accounts
func (ac *AccountsController) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	out := ac.accounts.Register(c.Request.Context(), in)
	respondOutput(c, out, out, http.StatusCreated)
}

// Login exchanges credentials for a session token.
// POST /api/login
func (ac *AccountsController) Login(c *gin.Context) {
	var in services.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	out := ac.accounts.Login(c.Request.Context(), in)
	respondOutput(c, out.Output, out, http.StatusOK)
}

// VerifyEmail redeems a verification code sent in the body.
// POST /api/verify-email
func (ac *AccountsController) VerifyEmail(c *gin.Context) {
	var in services.VerifyEmailInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	out := ac.accounts.VerifyEmail(c.Request.Context(), in)
	respondOutput(c, out, out, http.StatusOK)
}

// VerifyEmailLink redeems the code carried by the link in the verification email.
// GET /api/verify-email?code=...
func (ac *AccountsController) VerifyEmailLink(c *gin.Context) {
	out := ac.accounts.VerifyEmail(c.Request.Context(), services.VerifyEmailInput{Code: c.Query("code")})
	respondOutput(c, out, out, http.StatusOK)
}

// Me returns the authenticated account.
// GET /api/me
func (ac *AccountsController) Me(c *gin.Context) {
	out := ac.accounts.Me(c.Request.Context())
	respondOutput(c, out.Output, out, http.StatusOK)
}

// EditProfile updates the authenticated account.
// PATCH /api/me
func (ac *AccountsController) EditProfile(c *gin.Context) {
	var in services.EditProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	out := ac.accounts.EditProfile(c.Request.Context(), auth.GetAccountID(c), in)
	respondOutput(c, out, out, http.StatusOK)
}

// DeleteAccount removes the authenticated account.
// DELETE /api/me
func (ac *AccountsController) DeleteAccount(c *gin.Context) {
	out := ac.accounts.DeleteAccount(c.Request.Context(), auth.GetAccountID(c))
	respondOutput(c, out, out, http.StatusOK)
}

// Profile returns another account's profile.
// GET /api/accounts/:id
func (ac *AccountsController) Profile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	out := ac.accounts.Profile(c.Request.Context(), id)
	respondOutput(c, out.Output, out, http.StatusOK)
}
