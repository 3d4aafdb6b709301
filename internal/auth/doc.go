// Package auth provides credentials, session tokens and request
// authentication for the application.
//
// # Credentials
//
// Passwords are stored only as bcrypt digests:
//
//	digest, err := auth.HashPassword(plaintext, auth.DefaultBcryptCost)
//	ok, err := auth.CheckPassword(plaintext, digest)
//
// # Session tokens
//
// Tokens are HS256 JWTs whose payload is {"id": <account id>}:
//
//	tokens, err := auth.NewTokenService([]byte(cfg.Auth.SecretKey), cfg.Auth.TokenExpiry)
//	token, err := tokens.Issue(account.ID)
//	claims, err := tokens.Parse(token)
//
// # Request authentication
//
// The middleware runs on every route and never rejects a request. It reads
// the token from the x-jwt header (AUTH_TOKEN_HEADER), falls back to an
// "Authorization: Bearer" header, and attaches the account when the token
// is valid. Routes that need an identity add the guard:
//
//	router.Use(auth.NewMiddleware(tokens, accountsRepo, cfg.Auth.TokenHeader, logger).Handler())
//	router.GET("/api/me", auth.RequireAuth(), handler)
//
// Extract the account in handlers:
//
//	account := auth.GetAccount(c) // nil when anonymous
package auth
