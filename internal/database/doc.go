// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (SQLite or PostgreSQL), migrations
//	├── accounts/        # Account directory with the password hashing step
//	├── verifications/   # Email verification tickets
//	└── audit/           # Authentication audit trail
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase(cfg.Database)
//
//	accountsRepo := accounts.NewRepository(db.DB, cfg.Auth.BcryptCost)
//	verificationsRepo := verifications.NewRepository(db.DB)
//
//	account, err := accountsRepo.FindByEmail(ctx, "a@example.com")
//
// Repositories bound to a transaction are obtained with WithTx:
//
//	err := db.DB.Transaction(func(tx *gorm.DB) error {
//		return accountsRepo.WithTx(tx).Insert(ctx, account)
//	})
//
// # Interface Implementations
//
//   - accounts.Repository: implements auth.AccountFinder
//   - audit.Repository: implements tasks.AuditEventCleaner via audit.Service
//   - verifications.Repository: implements tasks.VerificationCleaner
package database
