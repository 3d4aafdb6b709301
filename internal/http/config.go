package http

import (
	"github.com/mrlokans/identity/internal/audit"
	"github.com/mrlokans/identity/internal/auth"
	"github.com/mrlokans/identity/internal/database"
	"github.com/mrlokans/identity/internal/services"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Accounts *services.AccountService
	Database *database.Database

	// Authentication
	AuthMiddleware *auth.Middleware

	// Audit log. Optional; nil disables the activity endpoint.
	AuditService *audit.Service

	// Send Strict-Transport-Security (only behind TLS)
	EnableHSTS bool

	// Application info
	Version string
}
