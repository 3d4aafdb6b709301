package config

import "errors"

// DefaultDatabasePath is the default path for the main application database
const DefaultDatabasePath = "./identity.db"

var (
	ErrSecretKeyMissing      = errors.New("AUTH_SECRET_KEY must be set")
	ErrDatabasePathMissing   = errors.New("DATABASE_PATH must be set for the sqlite driver")
	ErrDatabaseDSNMissing    = errors.New("DATABASE_DSN must be set for the postgres driver")
	ErrUnknownDatabaseDriver = errors.New("DATABASE_DRIVER must be sqlite or postgres")
)
